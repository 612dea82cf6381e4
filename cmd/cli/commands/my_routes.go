package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jakechorley/route-rota/pkg/core/services"
)

// MyRoutesCmd creates the myRoutes command
func MyRoutesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "myRoutes <volunteer_id>",
		Short: "List a volunteer's routes in current and upcoming weeks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			weeks, err := services.MyRoutes(app.Ctx, app.Database, app.Cfg, app.Logger, args[0], time.Now())
			if err != nil {
				return err
			}

			if len(weeks) == 0 {
				fmt.Println("\nNo upcoming routes.")
				return nil
			}

			fmt.Println()
			for _, w := range weeks {
				fmt.Printf("%s\n", w.Label)
				for _, a := range w.Assignments {
					fmt.Printf("  %-10s Route %-3d (%s)\n", a.Day, a.RouteNumber, a.ID)
				}
				fmt.Println()
			}
			return nil
		},
	}
}
