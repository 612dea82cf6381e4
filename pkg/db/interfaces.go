package db

import "context"

// WeekStore defines the interface for week database operations
type WeekStore interface {
	GetWeek(ctx context.Context, id string) (*Week, error)
	UpsertWeek(ctx context.Context, week *Week) (*Week, error)
	GetPreviousWeek(ctx context.Context, before string) (*Week, error)
	SetWeekPublished(ctx context.Context, id string) (bool, error)
}

// RouteStore defines the interface for route catalog operations
type RouteStore interface {
	GetRoutes(ctx context.Context) ([]Route, error)
	GetRoute(ctx context.Context, id string) (*Route, error)
	EnsureRoutes(ctx context.Context, count int) (int, error)
}

// AssignmentStore defines the interface for assignment database operations
type AssignmentStore interface {
	GetAssignment(ctx context.Context, id string) (*Assignment, error)
	GetAssignmentsForWeek(ctx context.Context, weekID string) ([]Assignment, error)
	GetAssignmentsForVolunteer(ctx context.Context, volunteerID string) ([]Assignment, error)
	InsertAssignment(ctx context.Context, assignment *Assignment) error
	CopyAssignments(ctx context.Context, assignments []Assignment) (int, error)
	DeleteAssignment(ctx context.Context, id string) error
}

// ProfileStore defines the interface for volunteer profile operations
type ProfileStore interface {
	GetVolunteers(ctx context.Context) ([]Profile, error)
	GetVolunteer(ctx context.Context, id string) (*Profile, error)
	UpsertProfile(ctx context.Context, profile *Profile) (*Profile, error)
	UpdateAvailability(ctx context.Context, volunteerID string, days []string, removeAssignmentIDs []string) error
}

// Database defines the interface for all database operations.
// postgres.DB implements this interface.
type Database interface {
	WeekStore
	RouteStore
	AssignmentStore
	ProfileStore
}
