package db

import "time"

// Week represents a database week record
type Week struct {
	ID        string
	StartDate string // Date format, always a Monday
	EndDate   string // Date format, always the following Friday
	Published bool
}

// Route represents a database route catalog record
type Route struct {
	ID          string
	RouteNumber int
}

// Assignment represents a database assignment record.
// RouteNumber and WeekStart are joined from routes and weeks when reading.
type Assignment struct {
	ID          string
	WeekID      string
	WeekStart   string
	DayOfWeek   string
	RouteID     string
	RouteNumber int
	VolunteerID string // empty when the slot is open
	CreatedAt   time.Time
}

// Profile represents a database volunteer profile record
type Profile struct {
	ID                  string
	FirstName           string
	LastName            string
	PhoneNumber         string
	Email               string
	AvailabilityDays    []string
	OnboardingCompleted bool
	IsAdmin             bool
}
