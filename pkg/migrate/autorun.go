package migrate

import (
	"context"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/angelmondragon/sellerbazaar-backend/pkg/config"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/db"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/logger"
)

// MaybeRunDev applies the embedded migrations at boot. It only acts in the dev
// environment with SELLERBAZAAR_AUTO_MIGRATE set; every other environment runs
// cmd/migrate explicitly.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}
	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("auto-migrate: sql handle: %w", err)
	}

	if err := Run(ctx, sqlDB, "up"); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	version, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return fmt.Errorf("auto-migrate: read version: %w", err)
	}
	logg.Info(logg.WithFields(ctx, map[string]any{
		"env":        cfg.App.Env,
		"db_version": version,
	}), "auto-migrate complete")
	return nil
}
