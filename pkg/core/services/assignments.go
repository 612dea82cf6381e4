package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/route-rota/internal/config"
	"github.com/jakechorley/route-rota/pkg/core/model"
	"github.com/jakechorley/route-rota/pkg/core/notify"
	"github.com/jakechorley/route-rota/pkg/core/weekdates"
	"github.com/jakechorley/route-rota/pkg/db"
)

// AssignInput identifies the slot and the volunteer to put in it
type AssignInput struct {
	WeekID      string        `json:"week_id" validate:"required"`
	Day         model.Weekday `json:"day" validate:"required,weekday"`
	RouteID     string        `json:"route_id" validate:"required"`
	VolunteerID string        `json:"volunteer_id" validate:"required"`
}

// AssignStore defines the database operations needed to assign a volunteer
type AssignStore interface {
	GetWeek(ctx context.Context, id string) (*db.Week, error)
	GetRoute(ctx context.Context, id string) (*db.Route, error)
	GetVolunteer(ctx context.Context, id string) (*db.Profile, error)
	GetAssignmentsForWeek(ctx context.Context, weekID string) ([]db.Assignment, error)
	InsertAssignment(ctx context.Context, assignment *db.Assignment) error
}

// RemoveStore defines the database operations needed to remove an assignment
type RemoveStore interface {
	GetAssignment(ctx context.Context, id string) (*db.Assignment, error)
	DeleteAssignment(ctx context.Context, id string) error
}

// CancellationNotifier is told about assignments that were given up.
// Implementations must return immediately.
type CancellationNotifier interface {
	NotifyCancellation(c notify.Cancellation)
}

// Assign puts a volunteer on a route for one day of a week.
// Availability is not checked: admins may assign anyone.
func Assign(ctx context.Context, store AssignStore, cfg *config.Config, logger *zap.Logger, input AssignInput) (*model.Assignment, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	logger.Debug("Assigning volunteer",
		zap.String("week_id", input.WeekID),
		zap.String("day", string(input.Day)),
		zap.String("route_id", input.RouteID),
		zap.String("volunteer_id", input.VolunteerID))

	week, err := store.GetWeek(ctx, input.WeekID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch week %s: %w", input.WeekID, err)
	}

	route, err := store.GetRoute(ctx, input.RouteID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch route %s: %w", input.RouteID, err)
	}

	if _, err := store.GetVolunteer(ctx, input.VolunteerID); err != nil {
		return nil, fmt.Errorf("failed to fetch volunteer %s: %w", input.VolunteerID, err)
	}

	existing, err := store.GetAssignmentsForWeek(ctx, input.WeekID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assignments for week %s: %w", input.WeekID, err)
	}

	alreadyAssigned := &AlreadyAssignedError{
		WeekID:      input.WeekID,
		Day:         input.Day,
		RouteID:     input.RouteID,
		VolunteerID: input.VolunteerID,
	}

	for _, a := range existing {
		if a.DayOfWeek == string(input.Day) && a.RouteID == input.RouteID && a.VolunteerID == input.VolunteerID {
			return nil, alreadyAssigned
		}
	}

	record := &db.Assignment{
		ID:          uuid.New().String(),
		WeekID:      input.WeekID,
		WeekStart:   week.StartDate,
		DayOfWeek:   string(input.Day),
		RouteID:     input.RouteID,
		RouteNumber: route.RouteNumber,
		VolunteerID: input.VolunteerID,
		CreatedAt:   time.Now().UTC(),
	}

	// A concurrent insert of the same triple loses on the unique constraint
	if err := store.InsertAssignment(ctx, record); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, alreadyAssigned
		}
		return nil, fmt.Errorf("failed to insert assignment: %w", err)
	}

	assignment, err := assignmentFromRecord(*record, cfg.Location())
	if err != nil {
		return nil, err
	}

	logger.Info("Assigned volunteer",
		zap.String("assignment_id", assignment.ID),
		zap.String("week_id", assignment.WeekID),
		zap.String("day", string(assignment.Day)),
		zap.Int("route_number", assignment.RouteNumber),
		zap.String("volunteer_id", assignment.VolunteerID))

	return &assignment, nil
}

// RemoveAssignment deletes an assignment. An empty actingVolunteerID means an
// administrator is removing it; otherwise the acting volunteer must hold the
// assignment. When a volunteer is taken off a route the notifier is told, and
// any failure there never affects the removal.
func RemoveAssignment(
	ctx context.Context,
	store RemoveStore,
	notifier CancellationNotifier,
	cfg *config.Config,
	logger *zap.Logger,
	assignmentID string,
	actingVolunteerID string,
) (*model.Assignment, error) {
	if assignmentID == "" {
		return nil, &ValidationError{Fields: []FieldError{{Field: "assignment_id", Rule: "required"}}}
	}

	record, err := store.GetAssignment(ctx, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assignment %s: %w", assignmentID, err)
	}

	if actingVolunteerID != "" && record.VolunteerID != actingVolunteerID {
		return nil, &NotOwnerError{AssignmentID: assignmentID, VolunteerID: actingVolunteerID}
	}

	assignment, err := assignmentFromRecord(*record, cfg.Location())
	if err != nil {
		return nil, err
	}

	if err := store.DeleteAssignment(ctx, assignmentID); err != nil {
		return nil, fmt.Errorf("failed to delete assignment %s: %w", assignmentID, err)
	}

	logger.Info("Removed assignment",
		zap.String("assignment_id", assignmentID),
		zap.String("week_id", assignment.WeekID),
		zap.String("day", string(assignment.Day)),
		zap.Int("route_number", assignment.RouteNumber),
		zap.String("volunteer_id", assignment.VolunteerID),
		zap.Bool("self_service", actingVolunteerID != ""))

	if notifier != nil && !assignment.IsOpen() {
		notifier.NotifyCancellation(cancellationFor(assignment, cfg, false))
	}

	return &assignment, nil
}

// CancelAssignment is the self-service form of RemoveAssignment
func CancelAssignment(
	ctx context.Context,
	store RemoveStore,
	notifier CancellationNotifier,
	cfg *config.Config,
	logger *zap.Logger,
	assignmentID string,
	volunteerID string,
) (*model.Assignment, error) {
	if volunteerID == "" {
		return nil, &ValidationError{Fields: []FieldError{{Field: "volunteer_id", Rule: "required"}}}
	}
	return RemoveAssignment(ctx, store, notifier, cfg, logger, assignmentID, volunteerID)
}

func cancellationFor(a model.Assignment, cfg *config.Config, cascade bool) notify.Cancellation {
	return notify.Cancellation{
		AssignmentID:         a.ID,
		WeekID:               a.WeekID,
		Day:                  a.Day,
		RouteNumber:          a.RouteNumber,
		SlotTime:             weekdates.SlotTime(a.WeekStart, a.Day, cfg.SlotStartOffset()),
		CancelledVolunteerID: a.VolunteerID,
		Cascade:              cascade,
	}
}
