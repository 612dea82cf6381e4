package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/route-rota/pkg/core/model"
	"github.com/jakechorley/route-rota/pkg/core/services"
	"github.com/jakechorley/route-rota/pkg/core/weekdates"
)

const weekFlagLayout = "2006-01-02"

// addWeekFlag registers --week on commands that act on a single week
func addWeekFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("week", "w", "", `Any date in the week (YYYY-MM-DD), or "next" / "previous". Defaults to the current week`)
}

// parseWeekDate reads --week in the configured timezone, relative to now
func parseWeekDate(raw string, loc *time.Location, now time.Time) (time.Time, error) {
	switch strings.ToLower(raw) {
	case "":
		return now.In(loc), nil
	case "next":
		return weekdates.NextWeek(now.In(loc)), nil
	case "previous", "prev":
		return weekdates.PreviousWeek(now.In(loc)), nil
	}
	date, err := time.ParseInLocation(weekFlagLayout, raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("week must be a date like 2024-06-03, got: %s", raw)
	}
	return date, nil
}

// resolveWeekFlag returns the week selected by --week, creating it if needed
func resolveWeekFlag(app *AppContext, cmd *cobra.Command) (*model.Week, error) {
	raw, _ := cmd.Flags().GetString("week")

	date, err := parseWeekDate(raw, app.Cfg.Location(), time.Now())
	if err != nil {
		return nil, err
	}

	app.Logger.Debug("Resolving week from flag",
		zap.String("week", raw),
		zap.String("given_day", weekdates.DayName(date)))

	return services.ResolveWeek(app.Ctx, app.Database, app.Cfg, app.Logger, date)
}

// parseDays accepts full day names in any casing, as separate args or comma separated
func parseDays(args []string) ([]model.Weekday, error) {
	var days []model.Weekday
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			day, err := model.ParseWeekday(part)
			if err != nil {
				return nil, err
			}
			days = append(days, day)
		}
	}
	return days, nil
}

func formatDays(days []model.Weekday) string {
	if len(days) == 0 {
		return "—"
	}
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = string(d)
	}
	return strings.Join(names, ", ")
}

func formatWeekAssignments(assignments []services.WeekAssignment) string {
	if len(assignments) == 0 {
		return ""
	}
	parts := make([]string, len(assignments))
	for i, a := range assignments {
		parts[i] = fmt.Sprintf("%s route %d", a.Day, a.RouteNumber)
	}
	return strings.Join(parts, ", ")
}

// dayHeading renders "Monday     Jul 01" for the overview listing
func dayHeading(date time.Time) string {
	return fmt.Sprintf("%-10s %s", weekdates.DayName(date), date.Format("Jan 02"))
}

func weekHeading(week *model.Week) string {
	status := "draft"
	if week.Published {
		status = "published"
	}
	return fmt.Sprintf("Week of %s (%s) [%s]", week.Start.Format("Mon Jan 2 2006"), week.ID, status)
}
