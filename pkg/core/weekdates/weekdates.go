// Package weekdates maps calendar dates onto Monday-Friday delivery weeks.
// All functions keep the location of the time they are given.
package weekdates

import (
	"fmt"
	"time"

	"github.com/jakechorley/route-rota/pkg/core/model"
)

// DBDateLayout is the layout used for DATE columns
const DBDateLayout = "2006-01-02"

// DayDate pairs a delivery day with its calendar date
type DayDate struct {
	Day  model.Weekday
	Date time.Time
}

// WeekRange returns the Monday 00:00 and Friday end-of-day enclosing date.
// Saturday and Sunday belong to the week that started on the preceding Monday.
func WeekRange(date time.Time) (start, end time.Time) {
	daysToMonday := 1 - int(date.Weekday())
	if date.Weekday() == time.Sunday {
		daysToMonday = -6
	}

	start = time.Date(date.Year(), date.Month(), date.Day()+daysToMonday, 0, 0, 0, 0, date.Location())
	return start, WeekEnd(start)
}

// WeekEnd returns the last instant of the Friday following the Monday start
func WeekEnd(start time.Time) time.Time {
	return time.Date(start.Year(), start.Month(), start.Day()+4, 23, 59, 59, 999999999, start.Location())
}

// NextWeek returns the Monday of the week after the one containing date
func NextWeek(date time.Time) time.Time {
	start, _ := WeekRange(date)
	return start.AddDate(0, 0, 7)
}

// PreviousWeek returns the Monday of the week before the one containing date
func PreviousWeek(date time.Time) time.Time {
	start, _ := WeekRange(date)
	return start.AddDate(0, 0, -7)
}

// WeekDays lists the five delivery days starting from the given Monday
func WeekDays(start time.Time) []DayDate {
	days := make([]DayDate, len(model.Weekdays))
	for i, day := range model.Weekdays {
		days[i] = DayDate{Day: day, Date: start.AddDate(0, 0, i)}
	}
	return days
}

// DayName returns the English weekday name of date, including weekends
func DayName(date time.Time) string {
	return date.Weekday().String()
}

// DayDateFor returns the calendar date of day within the week starting at start
func DayDateFor(start time.Time, day model.Weekday) time.Time {
	return start.AddDate(0, 0, day.Offset())
}

// SlotTime returns the moment a delivery slot begins
func SlotTime(start time.Time, day model.Weekday, startOfDay time.Duration) time.Time {
	date := DayDateFor(start, day)
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location()).Add(startOfDay)
}

// FormatWeekRange renders "Jan 6-10", or "Jan 30 - Feb 3" across a month boundary
func FormatWeekRange(start, end time.Time) string {
	if start.Month() == end.Month() {
		return fmt.Sprintf("%s %d-%d", start.Format("Jan"), start.Day(), end.Day())
	}
	return fmt.Sprintf("%s %d - %s %d", start.Format("Jan"), start.Day(), end.Format("Jan"), end.Day())
}

// FormatDateForDB formats date for a DATE column
func FormatDateForDB(date time.Time) string {
	return date.Format(DBDateLayout)
}

// ParseDBDate parses a DATE column value as midnight in loc
func ParseDBDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	date, err := time.ParseInLocation(DBDateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return date, nil
}
