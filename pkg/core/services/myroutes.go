package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/route-rota/internal/config"
	"github.com/jakechorley/route-rota/pkg/core/model"
	"github.com/jakechorley/route-rota/pkg/core/weekdates"
	"github.com/jakechorley/route-rota/pkg/db"
)

// VolunteerWeek groups a volunteer's assignments in one week
type VolunteerWeek struct {
	WeekID      string
	Start       time.Time
	End         time.Time
	Label       string
	Assignments []model.Assignment
}

// VolunteerAssignmentStore defines the database operation needed to list a volunteer's routes
type VolunteerAssignmentStore interface {
	GetAssignmentsForVolunteer(ctx context.Context, volunteerID string) ([]db.Assignment, error)
}

// MyRoutes lists a volunteer's assignments in weeks that have not ended by now,
// grouped by week in date order, then by day and route number.
// Week boundaries are taken in the configured timezone whatever the location of now.
func MyRoutes(
	ctx context.Context,
	store VolunteerAssignmentStore,
	cfg *config.Config,
	logger *zap.Logger,
	volunteerID string,
	now time.Time,
) ([]VolunteerWeek, error) {
	if volunteerID == "" {
		return nil, &ValidationError{Fields: []FieldError{{Field: "volunteer_id", Rule: "required"}}}
	}

	records, err := store.GetAssignmentsForVolunteer(ctx, volunteerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assignments for volunteer %s: %w", volunteerID, err)
	}

	loc := cfg.Location()
	byWeek := make(map[string]*VolunteerWeek)
	for _, r := range records {
		a, err := assignmentFromRecord(r, loc)
		if err != nil {
			return nil, err
		}

		end := weekdates.WeekEnd(a.WeekStart)
		if !end.After(now) {
			continue
		}

		w, ok := byWeek[a.WeekID]
		if !ok {
			w = &VolunteerWeek{
				WeekID: a.WeekID,
				Start:  a.WeekStart,
				End:    end,
				Label:  weekdates.FormatWeekRange(a.WeekStart, end),
			}
			byWeek[a.WeekID] = w
		}
		w.Assignments = append(w.Assignments, a)
	}

	weeks := make([]VolunteerWeek, 0, len(byWeek))
	for _, w := range byWeek {
		sort.Slice(w.Assignments, func(i, j int) bool {
			ai, aj := w.Assignments[i], w.Assignments[j]
			if ai.Day != aj.Day {
				return ai.Day.Offset() < aj.Day.Offset()
			}
			return ai.RouteNumber < aj.RouteNumber
		})
		weeks = append(weeks, *w)
	}

	sort.Slice(weeks, func(i, j int) bool {
		return weeks[i].Start.Before(weeks[j].Start)
	})

	logger.Debug("Listed volunteer routes",
		zap.String("volunteer_id", volunteerID),
		zap.Int("weeks", len(weeks)),
		zap.Int("assignments", len(records)))

	return weeks, nil
}
