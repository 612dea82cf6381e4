package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/route-rota/pkg/core/model"
	"github.com/jakechorley/route-rota/pkg/core/services"
)

// ListVolunteersCmd creates the listVolunteers command
func ListVolunteersCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listVolunteers",
		Short: "List schedulable volunteers, optionally only those available on a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dayFlag, _ := cmd.Flags().GetString("day")

			var volunteers []model.Volunteer
			var err error
			if dayFlag != "" {
				day, parseErr := model.ParseWeekday(dayFlag)
				if parseErr != nil {
					return parseErr
				}
				volunteers, err = services.VolunteersAvailableOn(app.Ctx, app.Database, app.Logger, day)
			} else {
				volunteers, err = services.ListVolunteers(app.Ctx, app.Database, app.Logger)
			}
			if err != nil {
				return err
			}

			fmt.Printf("\nFound %d volunteers:\n\n", len(volunteers))
			for _, v := range volunteers {
				fmt.Printf("- %s (%s) - %s - %s\n",
					v.FullName(),
					v.ID,
					v.PhoneNumber,
					formatDays(v.AvailabilityDays),
				)
			}

			return nil
		},
	}

	cmd.Flags().String("day", "", "Only show volunteers available on this day")

	return cmd
}
