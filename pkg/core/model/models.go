package model

import (
	"fmt"
	"strings"
	"time"
)

// Weekday is one of the five delivery days
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
)

// Weekdays lists the delivery days in week order
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

func (d Weekday) IsValid() bool {
	return d.Offset() >= 0
}

// Offset returns the number of days after Monday, or -1 for an unknown day
func (d Weekday) Offset() int {
	for i, day := range Weekdays {
		if day == d {
			return i
		}
	}
	return -1
}

// ParseWeekday accepts any casing of a weekday name ("monday", "MONDAY")
func ParseWeekday(s string) (Weekday, error) {
	for _, day := range Weekdays {
		if strings.EqualFold(string(day), strings.TrimSpace(s)) {
			return day, nil
		}
	}
	return "", fmt.Errorf("invalid day %q: must be one of Monday-Friday", s)
}

// Week is a single Monday-Friday span
type Week struct {
	ID        string
	Start     time.Time // Monday 00:00
	End       time.Time // Friday end of day
	Published bool
}

// Route is an entry in the shared route catalog
type Route struct {
	ID     string
	Number int
}

// Assignment binds a volunteer to a route on one day of one week
type Assignment struct {
	ID          string
	WeekID      string
	WeekStart   time.Time
	Day         Weekday
	RouteID     string
	RouteNumber int
	VolunteerID string // empty for an open slot
	CreatedAt   time.Time
}

// IsOpen reports whether no volunteer holds the assignment
func (a Assignment) IsOpen() bool {
	return a.VolunteerID == ""
}

// Volunteer represents a profile that can be scheduled
type Volunteer struct {
	ID                  string
	FirstName           string
	LastName            string
	PhoneNumber         string
	Email               string
	AvailabilityDays    []Weekday
	IsAdmin             bool
	OnboardingCompleted bool
}

func (v Volunteer) FullName() string {
	return strings.TrimSpace(v.FirstName + " " + v.LastName)
}

// IsEligible reports whether the profile may be scheduled
func (v Volunteer) IsEligible() bool {
	return v.OnboardingCompleted && !v.IsAdmin
}

func (v Volunteer) AvailableOn(day Weekday) bool {
	for _, d := range v.AvailabilityDays {
		if d == day {
			return true
		}
	}
	return false
}
