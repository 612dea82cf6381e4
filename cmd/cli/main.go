package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/route-rota/cmd/cli/commands"
	"github.com/jakechorley/route-rota/internal/config"
	"github.com/jakechorley/route-rota/pkg/clients/gmailclient"
	"github.com/jakechorley/route-rota/pkg/clients/sheetsclient"
	"github.com/jakechorley/route-rota/pkg/clients/smsclient"
	"github.com/jakechorley/route-rota/pkg/core/model"
	"github.com/jakechorley/route-rota/pkg/core/notify"
	"github.com/jakechorley/route-rota/pkg/core/services"
	"github.com/jakechorley/route-rota/pkg/postgres"
	"github.com/jakechorley/route-rota/pkg/utils/logging"
)

var (
	env     string
	verbose bool
	offline bool

	app        *commands.AppContext
	database   *postgres.DB
	dispatcher *notify.Dispatcher
	closeLog   func()
)

func main() {
	// The AppContext is filled in by initApp before any command runs
	app = &commands.AppContext{Ctx: context.Background()}

	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "Route Rota CLI - Manage weekly delivery route assignments",
		Long:  `A CLI tool for planning weekly delivery routes, assigning volunteers, and handling cancellations.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			shutdown()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logs on the console")
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "Skip Google and SMS integrations")

	rootCmd.AddCommand(commands.MigrateCmd(app))
	rootCmd.AddCommand(commands.SeedRoutesCmd(app))
	rootCmd.AddCommand(commands.ViewWeekCmd(app))
	rootCmd.AddCommand(commands.CopyWeekCmd(app))
	rootCmd.AddCommand(commands.PublishWeekCmd(app))
	rootCmd.AddCommand(commands.CategorizeCmd(app))
	rootCmd.AddCommand(commands.AssignCmd(app))
	rootCmd.AddCommand(commands.RemoveCmd(app))
	rootCmd.AddCommand(commands.CancelCmd(app))
	rootCmd.AddCommand(commands.OnboardCmd(app))
	rootCmd.AddCommand(commands.ProfileStatusCmd(app))
	rootCmd.AddCommand(commands.UpdatePreferencesCmd(app))
	rootCmd.AddCommand(commands.MyRoutesCmd(app))
	rootCmd.AddCommand(commands.ListVolunteersCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		shutdown()
		os.Exit(1)
	}
}

// initApp sets up logger, config, database and the optional integrations
func initApp() error {
	var err error

	app.Logger, closeLog, err = logging.New(logging.Options{Env: env, Verbose: verbose})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	app.Logger.Debug("Loading configuration")
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully",
		zap.String("timezone", app.Cfg.Location().String()),
		zap.Int("route_count", app.Cfg.Routes()))

	app.Logger.Info("Connecting to database")
	database, err = postgres.NewDB(app.Ctx, app.Cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.Database = database
	app.Migrator = database
	app.Logger.Debug("Database connected successfully")

	var email notify.EmailSender
	var sms notify.SMSSender

	if offline {
		app.Logger.Info("Offline mode, skipping spreadsheet export and notification transports")
	} else {
		if err := initGoogle(&email); err != nil {
			return err
		}
		if twilio := app.Cfg.Notifications.Twilio; twilio != nil {
			app.Logger.Debug("Initializing SMS client")
			sms = smsclient.NewClient(twilio.AccountSID, twilio.AuthToken, twilio.FromNumber,
				app.Cfg.Notifications.SMSRegion(), app.Logger)
		}
	}

	volunteers := func(ctx context.Context, day model.Weekday) ([]model.Volunteer, error) {
		return services.VolunteersAvailableOn(ctx, app.Database, app.Logger, day)
	}
	dispatcher = notify.NewDispatcher(notify.NewDecider(app.Cfg.Notifications), volunteers, email, sms, app.Logger)
	app.Notifier = dispatcher

	return nil
}

// initGoogle creates the Sheets and Gmail clients when config asks for them.
// Both share one OAuth token.
func initGoogle(email *notify.EmailSender) error {
	wantSheets := app.Cfg.PublishSheetID != ""
	wantGmail := app.Cfg.Notifications.AdminEmail != ""
	if !wantSheets && !wantGmail {
		return nil
	}

	app.Logger.Debug("Loading OAuth client configuration")
	oauthCfg, err := config.LoadOAuthClientWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load OAuth client config: %w", err)
	}

	app.Logger.Info("Initializing sheets client")
	sheetsClient, err := sheetsclient.NewClient(app.Ctx, oauthCfg, env, app.Logger)
	if err != nil {
		return fmt.Errorf("failed to create sheets client: %w", err)
	}
	if wantSheets {
		app.Publisher = sheetsClient
	}

	if wantGmail {
		app.Logger.Info("Initializing gmail client")
		gmailClient, err := gmailclient.NewClient(app.Ctx, oauthCfg, sheetsClient.Token(), app.Cfg.Notifications.GmailSender)
		if err != nil {
			return fmt.Errorf("failed to create gmail client: %w", err)
		}
		*email = gmailClient
	}

	return nil
}

// shutdown waits for background notifications, then releases resources
func shutdown() {
	if dispatcher != nil {
		dispatcher.Wait()
		dispatcher = nil
	}
	if database != nil {
		database.Close()
		database = nil
	}
	if closeLog != nil {
		closeLog()
		closeLog = nil
	}
}
