package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/route-rota/pkg/core/services"
)

// OnboardCmd creates the onboard command
func OnboardCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "onboard <volunteer_id> <first_name> <last_name> <phone> <days...>",
		Short: "Create or complete a volunteer profile",
		Long: `Create or complete a volunteer profile. The phone number is stored in
international format and at least one availability day is required.

Re-running onboard for an existing profile overwrites its details but never
changes admin status.`,
		Args: cobra.MinimumNArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			days, err := parseDays(args[4:])
			if err != nil {
				return err
			}
			email, _ := cmd.Flags().GetString("email")

			v, err := services.OnboardVolunteer(app.Ctx, app.Database, app.Cfg, app.Logger, services.OnboardInput{
				VolunteerID: args[0],
				FirstName:   args[1],
				LastName:    args[2],
				PhoneNumber: args[3],
				Email:       email,
				Days:        days,
			})
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Onboarded %s (%s)\n", v.FullName(), v.PhoneNumber)
			fmt.Printf("Available: %s\n", formatDays(v.AvailabilityDays))
			if v.IsAdmin {
				fmt.Println("Note: this profile is an admin and will not be offered routes.")
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().String("email", "", "Contact email address")

	return cmd
}

// ProfileStatusCmd creates the profileStatus command
func ProfileStatusCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "profileStatus <volunteer_id>",
		Short: "Show whether a profile exists, has finished onboarding and is an admin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := services.GetProfileStatus(app.Ctx, app.Database, app.Logger, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\nProfile %s\n", args[0])
			fmt.Printf("  exists:     %t\n", status.Exists)
			fmt.Printf("  onboarded:  %t\n", status.OnboardingCompleted)
			fmt.Printf("  admin:      %t\n", status.IsAdmin)
			fmt.Println()
			return nil
		},
	}
}
