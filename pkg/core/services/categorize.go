package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/route-rota/pkg/core/model"
	"github.com/jakechorley/route-rota/pkg/db"
)

// WeekAssignment is one (day, route) a volunteer holds in the week being planned
type WeekAssignment struct {
	Day         model.Weekday
	RouteNumber int
}

// CategorizedVolunteer is a volunteer plus everything they already hold this week
type CategorizedVolunteer struct {
	model.Volunteer
	AssignmentsThisWeek []WeekAssignment
}

// CategorizedVolunteers splits the eligible volunteers for one day of one week.
// The three lists are disjoint and together contain every eligible volunteer.
type CategorizedVolunteers struct {
	Available        []CategorizedVolunteer // free on the day, nothing else this week
	AlreadyScheduled []CategorizedVolunteer // free on the day, but holding a route somewhere this week
	NotAvailable     []CategorizedVolunteer // day not in their availability
}

// CategorizeStore defines the database operations needed for categorization
type CategorizeStore interface {
	GetVolunteers(ctx context.Context) ([]db.Profile, error)
	GetAssignmentsForWeek(ctx context.Context, weekID string) ([]db.Assignment, error)
}

type categorizeInput struct {
	WeekID string        `json:"week_id" validate:"required"`
	Day    model.Weekday `json:"day" validate:"required,weekday"`
}

// CategorizeVolunteers sorts eligible volunteers into Available, AlreadyScheduled and
// NotAvailable for day in the given week. Any assignment in the week, on any day,
// counts towards AlreadyScheduled. It performs no writes.
func CategorizeVolunteers(ctx context.Context, store CategorizeStore, logger *zap.Logger, weekID string, day model.Weekday) (*CategorizedVolunteers, error) {
	if err := validateInput(categorizeInput{WeekID: weekID, Day: day}); err != nil {
		return nil, err
	}

	logger.Debug("Categorizing volunteers", zap.String("week_id", weekID), zap.String("day", string(day)))

	volunteers, err := ListVolunteers(ctx, store, logger)
	if err != nil {
		return nil, err
	}

	assignments, err := store.GetAssignmentsForWeek(ctx, weekID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assignments for week %s: %w", weekID, err)
	}

	held := make(map[string][]WeekAssignment)
	for _, a := range assignments {
		if a.VolunteerID == "" {
			continue
		}
		held[a.VolunteerID] = append(held[a.VolunteerID], WeekAssignment{
			Day:         model.Weekday(a.DayOfWeek),
			RouteNumber: a.RouteNumber,
		})
	}

	result := &CategorizedVolunteers{
		Available:        []CategorizedVolunteer{},
		AlreadyScheduled: []CategorizedVolunteer{},
		NotAvailable:     []CategorizedVolunteer{},
	}

	for _, v := range volunteers {
		cv := CategorizedVolunteer{Volunteer: v, AssignmentsThisWeek: held[v.ID]}

		switch {
		case !v.AvailableOn(day):
			result.NotAvailable = append(result.NotAvailable, cv)
		case len(cv.AssignmentsThisWeek) > 0:
			result.AlreadyScheduled = append(result.AlreadyScheduled, cv)
		default:
			result.Available = append(result.Available, cv)
		}
	}

	logger.Debug("Categorized volunteers",
		zap.String("week_id", weekID),
		zap.String("day", string(day)),
		zap.Int("available", len(result.Available)),
		zap.Int("already_scheduled", len(result.AlreadyScheduled)),
		zap.Int("not_available", len(result.NotAvailable)))

	return result, nil
}
