package services

import (
	"fmt"
	"strings"

	"github.com/jakechorley/route-rota/pkg/core/model"
)

// FieldError describes one rejected input field
type FieldError struct {
	Field string
	Rule  string
	Param string
}

func (f FieldError) String() string {
	if f.Param != "" {
		return fmt.Sprintf("%s: %s=%s", f.Field, f.Rule, f.Param)
	}
	return fmt.Sprintf("%s: %s", f.Field, f.Rule)
}

// ValidationError is returned before any write when an input is malformed
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// AlreadyAssignedError is returned when the volunteer already holds the slot
type AlreadyAssignedError struct {
	WeekID      string
	Day         model.Weekday
	RouteID     string
	VolunteerID string
}

func (e *AlreadyAssignedError) Error() string {
	return fmt.Sprintf("volunteer %s is already assigned to route %s on %s in week %s",
		e.VolunteerID, e.RouteID, e.Day, e.WeekID)
}

// NotOwnerError is returned when a volunteer tries to cancel someone else's assignment
type NotOwnerError struct {
	AssignmentID string
	VolunteerID  string
}

func (e *NotOwnerError) Error() string {
	return fmt.Sprintf("volunteer %s does not own assignment %s", e.VolunteerID, e.AssignmentID)
}

// NoPriorWeekError is returned when there is no earlier week to copy from
type NoPriorWeekError struct {
	WeekStart string
}

func (e *NoPriorWeekError) Error() string {
	return fmt.Sprintf("no week found before %s to copy from", e.WeekStart)
}
