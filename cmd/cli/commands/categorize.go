package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/route-rota/pkg/core/model"
	"github.com/jakechorley/route-rota/pkg/core/services"
)

// CategorizeCmd creates the categorize command
func CategorizeCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categorize <day>",
		Short: "Split volunteers into available, already scheduled and not available for a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := model.ParseWeekday(args[0])
			if err != nil {
				return err
			}

			week, err := resolveWeekFlag(app, cmd)
			if err != nil {
				return err
			}

			app.Logger.Debug("categorize command",
				zap.String("week_id", week.ID),
				zap.String("day", string(day)))

			result, err := services.CategorizeVolunteers(app.Ctx, app.Database, app.Logger, week.ID, day)
			if err != nil {
				return err
			}

			fmt.Printf("\n%s - %s\n", weekHeading(week), day)
			printCategory("Available", result.Available)
			printCategory("Already scheduled this week", result.AlreadyScheduled)
			printCategory("Not available", result.NotAvailable)
			fmt.Println()
			return nil
		},
	}
	addWeekFlag(cmd)
	return cmd
}

func printCategory(title string, volunteers []services.CategorizedVolunteer) {
	fmt.Printf("\n%s (%d):\n", title, len(volunteers))
	for _, v := range volunteers {
		line := fmt.Sprintf("  - %s (%s)", v.FullName(), v.ID)
		if held := formatWeekAssignments(v.AssignmentsThisWeek); held != "" {
			line += " - " + held
		}
		fmt.Println(line)
	}
}
