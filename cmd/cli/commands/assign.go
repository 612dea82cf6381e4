package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/route-rota/pkg/core/model"
	"github.com/jakechorley/route-rota/pkg/core/services"
)

// AssignCmd creates the assign command
func AssignCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assign <day> <route_number> <volunteer_id>",
		Short: "Put a volunteer on a route for one day of a week",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := model.ParseWeekday(args[0])
			if err != nil {
				return err
			}

			routeNumber, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("route_number must be a number: %w", err)
			}

			week, err := resolveWeekFlag(app, cmd)
			if err != nil {
				return err
			}

			routes, err := services.ListRoutes(app.Ctx, app.Database, app.Logger)
			if err != nil {
				return err
			}
			route, err := services.FindRouteByNumber(routes, routeNumber)
			if err != nil {
				return fmt.Errorf("unknown route (run seedRoutes first?): %w", err)
			}

			app.Logger.Debug("assign command",
				zap.String("week_id", week.ID),
				zap.String("day", string(day)),
				zap.Int("route_number", routeNumber),
				zap.String("volunteer_id", args[2]))

			assignment, err := services.Assign(app.Ctx, app.Database, app.Cfg, app.Logger, services.AssignInput{
				WeekID:      week.ID,
				Day:         day,
				RouteID:     route.ID,
				VolunteerID: args[2],
			})
			if err != nil {
				var already *services.AlreadyAssignedError
				if errors.As(err, &already) {
					fmt.Printf("\nVolunteer %s is already on route %d on %s.\n\n", args[2], routeNumber, day)
					return nil
				}
				return err
			}

			fmt.Printf("\n✓ Assigned %s to route %d on %s\n", assignment.VolunteerID, assignment.RouteNumber, assignment.Day)
			fmt.Printf("Assignment ID: %s\n\n", assignment.ID)
			return nil
		},
	}
	addWeekFlag(cmd)
	return cmd
}

// RemoveCmd creates the remove command, used by administrators
func RemoveCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <assignment_id>",
		Short: "Remove an assignment as an administrator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := services.RemoveAssignment(app.Ctx, app.Database, app.Notifier, app.Cfg, app.Logger, args[0], "")
			if err != nil {
				return err
			}
			printRemoved(removed)
			return nil
		},
	}
}

// CancelCmd creates the cancel command, used by a volunteer giving up their own route
func CancelCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <assignment_id> <volunteer_id>",
		Short: "Cancel your own assignment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := services.CancelAssignment(app.Ctx, app.Database, app.Notifier, app.Cfg, app.Logger, args[0], args[1])
			if err != nil {
				var notOwner *services.NotOwnerError
				if errors.As(err, &notOwner) {
					return fmt.Errorf("assignment %s does not belong to volunteer %s", args[0], args[1])
				}
				return err
			}
			printRemoved(removed)
			return nil
		},
	}
}

func printRemoved(a *model.Assignment) {
	fmt.Printf("\n✓ Removed route %d on %s, week of %s\n", a.RouteNumber, a.Day, a.WeekStart.Format("Jan 2 2006"))
	if !a.IsOpen() {
		fmt.Println("Cancellation notifications are being sent in the background.")
	}
	fmt.Println()
}
