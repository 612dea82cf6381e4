package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/route-rota/pkg/core/model"
	"github.com/jakechorley/route-rota/pkg/core/services"
)

func TestParseDays(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []model.Weekday
		wantErr  bool
	}{
		{"separate args", []string{"Monday", "wednesday"}, []model.Weekday{model.Monday, model.Wednesday}, false},
		{"comma separated", []string{"monday,FRIDAY"}, []model.Weekday{model.Monday, model.Friday}, false},
		{"trailing comma", []string{"Tuesday,"}, []model.Weekday{model.Tuesday}, false},
		{"no days clears availability", nil, nil, false},
		{"weekend rejected", []string{"Saturday"}, nil, true},
		{"abbreviation rejected", []string{"mon"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, err := parseDays(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, days)
		})
	}
}

func TestParseWeekDate(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	now := time.Date(2024, time.June, 10, 3, 0, 0, 0, time.UTC)

	date, err := parseWeekDate("", loc, now)
	require.NoError(t, err)
	assert.Equal(t, loc, date.Location())
	assert.Equal(t, 9, date.Day(), "3am UTC Monday is still Sunday in New York")

	date, err = parseWeekDate("next", loc, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.June, 10, 0, 0, 0, 0, loc), date)

	date, err = parseWeekDate("Previous", loc, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.May, 27, 0, 0, 0, 0, loc), date)

	date, err = parseWeekDate("2024-06-05", loc, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.June, 5, 0, 0, 0, 0, loc), date)

	_, err = parseWeekDate("05/06/2024", loc, now)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "week must be a date")
}

func TestSplitCommandLine(t *testing.T) {
	parts, err := splitCommandLine(`assign Monday 3 "abc 123" --week 2024-06-03`)
	require.NoError(t, err)
	assert.Equal(t, []string{"assign", "Monday", "3", "abc 123", "--week", "2024-06-03"}, parts)

	parts, err = splitCommandLine(`  updatePreferences  id ''  `)
	require.NoError(t, err)
	assert.Equal(t, []string{"updatePreferences", "id", ""}, parts)

	_, err = splitCommandLine(`cancel "abc`)
	assert.Error(t, err)
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "—", formatDays(nil))
	assert.Equal(t, "Monday, Friday", formatDays([]model.Weekday{model.Monday, model.Friday}))

	assert.Equal(t, "", formatWeekAssignments(nil))
	assert.Equal(t, "Tuesday route 4, Thursday route 1", formatWeekAssignments([]services.WeekAssignment{
		{Day: model.Tuesday, RouteNumber: 4},
		{Day: model.Thursday, RouteNumber: 1},
	}))

	assert.Equal(t, "Monday     Jul 01", dayHeading(time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Wednesday  Jul 03", dayHeading(time.Date(2024, time.July, 3, 0, 0, 0, 0, time.UTC)))

	week := &model.Week{ID: "week-1", Start: time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC), Published: true}
	assert.Equal(t, "Week of Mon Jun 3 2024 (week-1) [published]", weekHeading(week))
}
