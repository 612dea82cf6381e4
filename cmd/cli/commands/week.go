package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/route-rota/pkg/core/services"
)

// ViewWeekCmd creates the viewWeek command
func ViewWeekCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "viewWeek",
		Short: "Show who is on each route for every day of a week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			week, err := resolveWeekFlag(app, cmd)
			if err != nil {
				return err
			}

			overview, err := services.WeekOverview(app.Ctx, app.Database, app.Cfg, app.Logger, week.ID)
			if err != nil {
				return err
			}

			printWeekOverview(overview)
			return nil
		},
	}
	addWeekFlag(cmd)
	return cmd
}

func printWeekOverview(overview *services.WeekOverviewResult) {
	fmt.Printf("\n%s\n", weekHeading(&overview.Week))
	fmt.Printf("%s\n\n", overview.Label)

	for _, day := range overview.Days {
		if day.Closed {
			reason := day.ClosureReason
			if reason == "" {
				reason = "closed"
			}
			fmt.Printf("%s  CLOSED (%s)\n\n", dayHeading(day.Date), reason)
			continue
		}

		fmt.Printf("%s  %d/%d routes filled\n", dayHeading(day.Date), day.FilledRoutes, day.TotalRoutes)
		for _, route := range day.Routes {
			names := "—"
			if len(route.Volunteers) > 0 {
				parts := make([]string, len(route.Volunteers))
				for i, v := range route.Volunteers {
					parts[i] = v.Name
				}
				names = strings.Join(parts, ", ")
			}
			fmt.Printf("  Route %-3d %s\n", route.RouteNumber, names)
		}
		fmt.Println()
	}
}

// CopyWeekCmd creates the copyWeek command
func CopyWeekCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "copyWeek",
		Short: "Copy assignments from the previous week into empty slots of a week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			week, err := resolveWeekFlag(app, cmd)
			if err != nil {
				return err
			}

			app.Logger.Debug("copyWeek command", zap.String("week_id", week.ID))

			copied, err := services.CopyPreviousWeek(app.Ctx, app.Database, app.Cfg, app.Logger, week.ID)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Copied %d assignments into %s\n\n", copied, weekHeading(week))
			return nil
		},
	}
	addWeekFlag(cmd)
	return cmd
}

// PublishWeekCmd creates the publishWeek command
func PublishWeekCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publishWeek",
		Short: "Publish a week so volunteers can see it",
		Long:  "Publish a week. The first publish also exports the week to the configured spreadsheet.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			week, err := resolveWeekFlag(app, cmd)
			if err != nil {
				return err
			}

			result, err := services.PublishWeek(app.Ctx, app.Database, app.Publisher, app.Cfg, app.Logger, week.ID)
			if err != nil {
				return fmt.Errorf("failed to publish week: %w", err)
			}

			if result.AlreadyPublished {
				fmt.Printf("\n%s was already published.\n\n", weekHeading(result.Week))
				return nil
			}

			fmt.Printf("\n✅ %s\n", weekHeading(result.Week))
			if result.Exported {
				fmt.Printf("Exported to sheet: %s\n", app.Cfg.PublishSheetID)
			}
			fmt.Println()
			return nil
		},
	}
	addWeekFlag(cmd)
	return cmd
}
