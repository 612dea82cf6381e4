package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/route-rota/pkg/core/services"
)

// MigrateCmd creates the migrate command
func MigrateCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			applied, err := app.Migrator.RunMigrations(app.Ctx)
			if err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}

			app.Logger.Info("Migrations complete", zap.Strings("applied", applied))

			if len(applied) == 0 {
				fmt.Println("\nDatabase is up to date.")
				return nil
			}

			fmt.Printf("\n✓ Applied %d migrations:\n", len(applied))
			for _, name := range applied {
				fmt.Printf("  - %s\n", name)
			}
			fmt.Println()
			return nil
		},
	}
}

// SeedRoutesCmd creates the seedRoutes command
func SeedRoutesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "seedRoutes [count]",
		Short: "Create routes 1..count in the route catalog (defaults to routeCount from config)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count := app.Cfg.Routes()
			if len(args) > 0 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("count must be a positive integer, got: %s", args[0])
				}
				count = n
			}

			created, err := services.EnsureRoutes(app.Ctx, app.Database, app.Logger, count)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Route catalog has routes 1-%d (%d created)\n\n", count, created)
			return nil
		},
	}
}
