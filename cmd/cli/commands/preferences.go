package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/route-rota/pkg/core/services"
)

// UpdatePreferencesCmd creates the updatePreferences command
func UpdatePreferencesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "updatePreferences <volunteer_id> [days...]",
		Short: "Replace a volunteer's availability days, dropping their routes on removed days",
		Long: `Replace a volunteer's availability days. Days can be given as separate
arguments or comma separated. Giving no days clears availability.

Assignments on days no longer offered are removed from every week that has not ended yet.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			days, err := parseDays(args[1:])
			if err != nil {
				return err
			}

			result, err := services.UpdatePreferences(app.Ctx, app.Database, app.Notifier, app.Cfg, app.Logger, args[0], days)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Availability is now: %s\n", formatDays(result.Days))

			if result.RemovedAssignments == 0 {
				fmt.Println("No assignments were affected.")
				fmt.Println()
				return nil
			}

			fmt.Printf("Removed %d assignments across %d weeks:\n", result.RemovedAssignments, result.AffectedWeeks)
			for _, a := range result.Removed {
				fmt.Printf("  - Week of %s, %s route %d\n", a.WeekStart.Format("Jan 2"), a.Day, a.RouteNumber)
			}
			fmt.Println()
			return nil
		},
	}
}
