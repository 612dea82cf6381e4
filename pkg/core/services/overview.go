package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/route-rota/internal/config"
	"github.com/jakechorley/route-rota/pkg/clients/sheetsclient"
	"github.com/jakechorley/route-rota/pkg/core/model"
	"github.com/jakechorley/route-rota/pkg/core/weekdates"
	"github.com/jakechorley/route-rota/pkg/db"
)

// AssignedVolunteer is one volunteer holding a route on a day
type AssignedVolunteer struct {
	AssignmentID string
	VolunteerID  string
	Name         string
}

// RouteOverview lists who is on one route for one day
type RouteOverview struct {
	RouteID     string
	RouteNumber int
	Volunteers  []AssignedVolunteer
}

// DayOverview summarises one weekday of a week
type DayOverview struct {
	Day           model.Weekday
	Date          time.Time
	Closed        bool
	ClosureReason string
	FilledRoutes  int // routes with at least one volunteer
	TotalRoutes   int
	Routes        []RouteOverview
}

// WeekOverviewResult is the admin view of a week
type WeekOverviewResult struct {
	Week  model.Week
	Label string // "Jan 6-10"
	Days  []DayOverview
}

// OverviewStore defines the database operations needed to build a week overview
type OverviewStore interface {
	GetWeek(ctx context.Context, id string) (*db.Week, error)
	GetRoutes(ctx context.Context) ([]db.Route, error)
	GetAssignmentsForWeek(ctx context.Context, weekID string) ([]db.Assignment, error)
	GetVolunteers(ctx context.Context) ([]db.Profile, error)
	GetVolunteer(ctx context.Context, id string) (*db.Profile, error)
}

// WeekOverview builds the per-day, per-route view of a week
func WeekOverview(ctx context.Context, store OverviewStore, cfg *config.Config, logger *zap.Logger, weekID string) (*WeekOverviewResult, error) {
	if weekID == "" {
		return nil, &ValidationError{Fields: []FieldError{{Field: "week_id", Rule: "required"}}}
	}

	record, err := store.GetWeek(ctx, weekID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch week %s: %w", weekID, err)
	}

	week, err := weekFromRecord(record, cfg.Location())
	if err != nil {
		return nil, err
	}

	routes, err := store.GetRoutes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch routes: %w", err)
	}
	sort.Slice(routes, func(i, j int) bool {
		return routes[i].RouteNumber < routes[j].RouteNumber
	})

	assignments, err := store.GetAssignmentsForWeek(ctx, weekID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assignments for week %s: %w", weekID, err)
	}

	profiles, err := store.GetVolunteers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch volunteers: %w", err)
	}

	names := make(map[string]string, len(profiles))
	for _, p := range profiles {
		names[p.ID] = volunteerFromProfile(p).FullName()
	}

	// Assignees who have since become admins or left onboarding are not in the
	// volunteer list but still hold their slots
	for _, a := range assignments {
		if a.VolunteerID == "" {
			continue
		}
		if _, ok := names[a.VolunteerID]; ok {
			continue
		}
		profile, err := store.GetVolunteer(ctx, a.VolunteerID)
		if errors.Is(err, db.ErrNotFound) {
			names[a.VolunteerID] = a.VolunteerID
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to fetch volunteer %s: %w", a.VolunteerID, err)
		}
		names[a.VolunteerID] = volunteerFromProfile(*profile).FullName()
	}

	// [day][routeID] -> volunteers
	bySlot := make(map[string]map[string][]AssignedVolunteer)
	for _, a := range assignments {
		if a.VolunteerID == "" {
			continue
		}
		if _, ok := bySlot[a.DayOfWeek]; !ok {
			bySlot[a.DayOfWeek] = make(map[string][]AssignedVolunteer)
		}
		bySlot[a.DayOfWeek][a.RouteID] = append(bySlot[a.DayOfWeek][a.RouteID], AssignedVolunteer{
			AssignmentID: a.ID,
			VolunteerID:  a.VolunteerID,
			Name:         names[a.VolunteerID],
		})
	}

	result := &WeekOverviewResult{
		Week:  *week,
		Label: weekdates.FormatWeekRange(week.Start, week.End),
	}

	for _, dd := range weekdates.WeekDays(week.Start) {
		day := DayOverview{
			Day:         dd.Day,
			Date:        dd.Date,
			TotalRoutes: len(routes),
			Routes:      make([]RouteOverview, 0, len(routes)),
		}
		day.ClosureReason, day.Closed = cfg.ClosureOn(dd.Date)

		for _, r := range routes {
			vols := bySlot[string(dd.Day)][r.ID]
			if len(vols) > 0 {
				day.FilledRoutes++
			}
			day.Routes = append(day.Routes, RouteOverview{
				RouteID:     r.ID,
				RouteNumber: r.RouteNumber,
				Volunteers:  vols,
			})
		}

		result.Days = append(result.Days, day)
	}

	logger.Debug("Built week overview",
		zap.String("week_id", weekID),
		zap.Int("routes", len(routes)),
		zap.Int("assignments", len(assignments)))

	return result, nil
}

// ToPublishedWeek flattens the overview into a routes x days grid for export
func (o *WeekOverviewResult) ToPublishedWeek() *sheetsclient.PublishedWeek {
	published := &sheetsclient.PublishedWeek{
		StartDate: weekdates.FormatDateForDB(o.Week.Start),
	}

	for _, d := range o.Days {
		published.DayHeaders = append(published.DayHeaders, d.Date.Format("Mon Jan 02"))
	}

	if len(o.Days) == 0 {
		return published
	}

	for i, r := range o.Days[0].Routes {
		row := sheetsclient.PublishedRouteRow{RouteNumber: r.RouteNumber}
		for _, d := range o.Days {
			if d.Closed {
				row.Days = append(row.Days, "Closed")
				continue
			}
			names := make([]string, 0, len(d.Routes[i].Volunteers))
			for _, v := range d.Routes[i].Volunteers {
				names = append(names, v.Name)
			}
			row.Days = append(row.Days, strings.Join(names, ", "))
		}
		published.Rows = append(published.Rows, row)
	}

	return published
}
