package services

import (
	"fmt"
	"time"

	"github.com/jakechorley/route-rota/pkg/core/model"
	"github.com/jakechorley/route-rota/pkg/core/weekdates"
	"github.com/jakechorley/route-rota/pkg/db"
)

func weekFromRecord(record *db.Week, loc *time.Location) (*model.Week, error) {
	start, err := weekdates.ParseDBDate(record.StartDate, loc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse start date of week %s: %w", record.ID, err)
	}

	return &model.Week{
		ID:        record.ID,
		Start:     start,
		End:       weekdates.WeekEnd(start),
		Published: record.Published,
	}, nil
}

func assignmentFromRecord(record db.Assignment, loc *time.Location) (model.Assignment, error) {
	weekStart, err := weekdates.ParseDBDate(record.WeekStart, loc)
	if err != nil {
		return model.Assignment{}, fmt.Errorf("failed to parse week start of assignment %s: %w", record.ID, err)
	}

	return model.Assignment{
		ID:          record.ID,
		WeekID:      record.WeekID,
		WeekStart:   weekStart,
		Day:         model.Weekday(record.DayOfWeek),
		RouteID:     record.RouteID,
		RouteNumber: record.RouteNumber,
		VolunteerID: record.VolunteerID,
		CreatedAt:   record.CreatedAt,
	}, nil
}

// volunteerFromProfile drops availability entries that are not delivery days
func volunteerFromProfile(profile db.Profile) model.Volunteer {
	days := make([]model.Weekday, 0, len(profile.AvailabilityDays))
	for _, raw := range profile.AvailabilityDays {
		day, err := model.ParseWeekday(raw)
		if err != nil {
			continue
		}
		days = append(days, day)
	}

	return model.Volunteer{
		ID:                  profile.ID,
		FirstName:           profile.FirstName,
		LastName:            profile.LastName,
		PhoneNumber:         profile.PhoneNumber,
		Email:               profile.Email,
		AvailabilityDays:    days,
		IsAdmin:             profile.IsAdmin,
		OnboardingCompleted: profile.OnboardingCompleted,
	}
}

func dayStrings(days []model.Weekday) []string {
	result := make([]string, len(days))
	for i, d := range days {
		result[i] = string(d)
	}
	return result
}

// dedupeDays keeps the first occurrence of each day, in Monday-Friday order
func dedupeDays(days []model.Weekday) []model.Weekday {
	seen := make(map[model.Weekday]bool, len(days))
	for _, d := range days {
		seen[d] = true
	}

	result := make([]model.Weekday, 0, len(seen))
	for _, d := range model.Weekdays {
		if seen[d] {
			result = append(result, d)
		}
	}
	return result
}
