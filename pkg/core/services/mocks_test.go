package services

import (
	"context"
	"sort"
	"sync"

	"github.com/jakechorley/route-rota/internal/config"
	"github.com/jakechorley/route-rota/pkg/core/notify"
	"github.com/jakechorley/route-rota/pkg/db"
)

// mockStore is an in-memory stand-in for postgres.DB
type mockStore struct {
	weeks       []db.Week
	routes      []db.Route
	assignments []db.Assignment
	profiles    []db.Profile

	getVolunteersErr  error
	getAssignmentsErr error
	insertErr         error
	deleteErr         error
	updateErr         error
	upsertErr         error
	profileUpsertErr  error
	copyErr           error

	deleted       []string
	updatedDays   map[string][]string
	copyCalls     int
	insertCalls   int
	setPublishedN int
}

func (m *mockStore) GetWeek(ctx context.Context, id string) (*db.Week, error) {
	for i := range m.weeks {
		if m.weeks[i].ID == id {
			w := m.weeks[i]
			return &w, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *mockStore) UpsertWeek(ctx context.Context, week *db.Week) (*db.Week, error) {
	if m.upsertErr != nil {
		return nil, m.upsertErr
	}
	for i := range m.weeks {
		if m.weeks[i].StartDate == week.StartDate {
			w := m.weeks[i]
			return &w, nil
		}
	}
	m.weeks = append(m.weeks, *week)
	w := *week
	return &w, nil
}

func (m *mockStore) GetPreviousWeek(ctx context.Context, before string) (*db.Week, error) {
	var latest *db.Week
	for i := range m.weeks {
		w := m.weeks[i]
		if w.StartDate < before && (latest == nil || w.StartDate > latest.StartDate) {
			latest = &w
		}
	}
	if latest == nil {
		return nil, db.ErrNotFound
	}
	return latest, nil
}

func (m *mockStore) SetWeekPublished(ctx context.Context, id string) (bool, error) {
	for i := range m.weeks {
		if m.weeks[i].ID == id {
			if m.weeks[i].Published {
				return false, nil
			}
			m.weeks[i].Published = true
			m.setPublishedN++
			return true, nil
		}
	}
	return false, db.ErrNotFound
}

func (m *mockStore) GetRoutes(ctx context.Context) ([]db.Route, error) {
	return m.routes, nil
}

func (m *mockStore) GetRoute(ctx context.Context, id string) (*db.Route, error) {
	for _, r := range m.routes {
		if r.ID == id {
			route := r
			return &route, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *mockStore) EnsureRoutes(ctx context.Context, count int) (int, error) {
	existing := make(map[int]bool)
	for _, r := range m.routes {
		existing[r.RouteNumber] = true
	}
	created := 0
	for n := 1; n <= count; n++ {
		if !existing[n] {
			m.routes = append(m.routes, db.Route{ID: routeID(n), RouteNumber: n})
			created++
		}
	}
	return created, nil
}

func (m *mockStore) GetAssignment(ctx context.Context, id string) (*db.Assignment, error) {
	for _, a := range m.assignments {
		if a.ID == id {
			found := m.withJoins(a)
			return &found, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *mockStore) GetAssignmentsForWeek(ctx context.Context, weekID string) ([]db.Assignment, error) {
	if m.getAssignmentsErr != nil {
		return nil, m.getAssignmentsErr
	}
	var result []db.Assignment
	for _, a := range m.assignments {
		if a.WeekID == weekID {
			result = append(result, m.withJoins(a))
		}
	}
	return result, nil
}

func (m *mockStore) GetAssignmentsForVolunteer(ctx context.Context, volunteerID string) ([]db.Assignment, error) {
	if m.getAssignmentsErr != nil {
		return nil, m.getAssignmentsErr
	}
	var result []db.Assignment
	for _, a := range m.assignments {
		if a.VolunteerID == volunteerID {
			result = append(result, m.withJoins(a))
		}
	}
	return result, nil
}

func (m *mockStore) InsertAssignment(ctx context.Context, assignment *db.Assignment) error {
	m.insertCalls++
	if m.insertErr != nil {
		return m.insertErr
	}
	for _, a := range m.assignments {
		if a.WeekID == assignment.WeekID && a.DayOfWeek == assignment.DayOfWeek &&
			a.RouteID == assignment.RouteID && a.VolunteerID == assignment.VolunteerID {
			return db.ErrDuplicate
		}
	}
	m.assignments = append(m.assignments, *assignment)
	return nil
}

func (m *mockStore) CopyAssignments(ctx context.Context, assignments []db.Assignment) (int, error) {
	m.copyCalls++
	if m.copyErr != nil {
		return 0, m.copyErr
	}
	inserted := 0
	for i := range assignments {
		if err := m.InsertAssignment(ctx, &assignments[i]); err == nil {
			inserted++
		}
	}
	return inserted, nil
}

func (m *mockStore) DeleteAssignment(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for i, a := range m.assignments {
		if a.ID == id {
			m.assignments = append(m.assignments[:i], m.assignments[i+1:]...)
			m.deleted = append(m.deleted, id)
			return nil
		}
	}
	return db.ErrNotFound
}

// GetVolunteers applies the same onboarded, non-admin filter as the postgres query
func (m *mockStore) GetVolunteers(ctx context.Context) ([]db.Profile, error) {
	if m.getVolunteersErr != nil {
		return nil, m.getVolunteersErr
	}
	var result []db.Profile
	for _, p := range m.profiles {
		if p.OnboardingCompleted && !p.IsAdmin {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockStore) GetVolunteer(ctx context.Context, id string) (*db.Profile, error) {
	for _, p := range m.profiles {
		if p.ID == id {
			profile := p
			return &profile, nil
		}
	}
	return nil, db.ErrNotFound
}

// UpsertProfile keeps is_admin from any existing row, like the postgres upsert
func (m *mockStore) UpsertProfile(ctx context.Context, profile *db.Profile) (*db.Profile, error) {
	if m.profileUpsertErr != nil {
		return nil, m.profileUpsertErr
	}
	saved := *profile
	for i := range m.profiles {
		if m.profiles[i].ID == profile.ID {
			saved.IsAdmin = m.profiles[i].IsAdmin
			m.profiles[i] = saved
			return &saved, nil
		}
	}
	saved.IsAdmin = false
	m.profiles = append(m.profiles, saved)
	return &saved, nil
}

// UpdateAvailability applies nothing when updateErr is set, like a rolled back transaction
func (m *mockStore) UpdateAvailability(ctx context.Context, volunteerID string, days []string, removeAssignmentIDs []string) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	for i := range m.profiles {
		if m.profiles[i].ID == volunteerID {
			m.profiles[i].AvailabilityDays = days
		}
	}
	if m.updatedDays == nil {
		m.updatedDays = make(map[string][]string)
	}
	m.updatedDays[volunteerID] = days

	for _, id := range removeAssignmentIDs {
		if err := m.DeleteAssignment(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockStore) withJoins(a db.Assignment) db.Assignment {
	for _, w := range m.weeks {
		if w.ID == a.WeekID {
			a.WeekStart = w.StartDate
		}
	}
	for _, r := range m.routes {
		if r.ID == a.RouteID {
			a.RouteNumber = r.RouteNumber
		}
	}
	return a
}

func (m *mockStore) assignmentIDs() []string {
	ids := make([]string, len(m.assignments))
	for i, a := range m.assignments {
		ids[i] = a.ID
	}
	sort.Strings(ids)
	return ids
}

func routeID(n int) string {
	return "route-" + string(rune('a'+n-1))
}

// recordingNotifier captures cancellations instead of delivering them
type recordingNotifier struct {
	mu            sync.Mutex
	cancellations []notify.Cancellation
}

func (r *recordingNotifier) NotifyCancellation(c notify.Cancellation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancellations = append(r.cancellations, c)
}

func testConfig() *config.Config {
	return &config.Config{DatabaseURL: "postgres://localhost:5432/rota"}
}

func testProfiles() []db.Profile {
	return []db.Profile{
		{ID: "cara", FirstName: "Cara", LastName: "Diaz", PhoneNumber: "201-555-0103", AvailabilityDays: []string{"Tuesday"}, OnboardingCompleted: true},
		{ID: "alice", FirstName: "Alice", LastName: "Smith", PhoneNumber: "201-555-0101", AvailabilityDays: []string{"Monday", "Wednesday"}, OnboardingCompleted: true},
		{ID: "bob", FirstName: "Bob", LastName: "Jones", AvailabilityDays: []string{"Monday"}, OnboardingCompleted: true},
		{ID: "dan", FirstName: "Dan", LastName: "Admin", AvailabilityDays: []string{"Monday"}, OnboardingCompleted: true, IsAdmin: true},
		{ID: "eve", FirstName: "Eve", LastName: "New", AvailabilityDays: []string{"Monday"}},
	}
}

func testRoutes(n int) []db.Route {
	routes := make([]db.Route, n)
	for i := range routes {
		routes[i] = db.Route{ID: routeID(i + 1), RouteNumber: i + 1}
	}
	return routes
}
