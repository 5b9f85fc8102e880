package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/londonshop-backend/pkg/config"
	"github.com/angelmondragon/londonshop-backend/pkg/db"
	"github.com/angelmondragon/londonshop-backend/pkg/logger"
)

// ShouldAutoRun reports whether the API applies migrations at startup: always
// when LONDONSHOP_AUTO_MIGRATE is set, and by default for a dev SQLite file
// since nobody runs cmd/migrate against a throwaway local database.
func ShouldAutoRun(cfg *config.Config) bool {
	if cfg == nil {
		return false
	}
	if cfg.FeatureFlags.AutoMigrate {
		return true
	}
	return cfg.App.IsDev() && cfg.DB.IsSQLite()
}

// MaybeRunDev migrates the database up when ShouldAutoRun allows it.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !ShouldAutoRun(cfg) {
		return nil
	}

	sqlDB, err := client.SQL()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	dialect := DialectFor(cfg.DB)
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dir": DefaultDir, "dialect": dialect})
	logg.Info(ctx, "applying migrations at startup")

	if err := Run(ctx, sqlDB, dialect, DefaultDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}
	logg.Info(ctx, "migrations applied")
	return nil
}
