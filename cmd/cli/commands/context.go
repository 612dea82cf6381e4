package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/jakechorley/route-rota/internal/config"
	"github.com/jakechorley/route-rota/pkg/core/services"
	"github.com/jakechorley/route-rota/pkg/db"
)

// Migrator applies pending schema migrations
type Migrator interface {
	RunMigrations(ctx context.Context) ([]string, error)
}

// AppContext holds the application dependencies shared across all commands.
// Publisher and Notifier are nil when the matching integration is not configured.
type AppContext struct {
	Cfg       *config.Config
	Database  db.Database
	Migrator  Migrator
	Publisher services.WeekPublisher
	Notifier  services.CancellationNotifier
	Logger    *zap.Logger
	Ctx       context.Context
}
