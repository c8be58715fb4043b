package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strconv"
	"sync"

	"github.com/pressly/goose/v3"
)

// SourceDir is where new migrations are written and validated on disk.
const SourceDir = "pkg/migrate/migrations"

// embeddedDir is the path of the migrations inside the embedded FS.
const embeddedDir = "migrations"

//go:embed migrations/*.sql
var embedded embed.FS

var setupOnce sync.Once
var setupErr error

// prepare points goose at the embedded migrations so binaries do not depend on
// the working directory.
func prepare() error {
	setupOnce.Do(func() {
		goose.SetBaseFS(embedded)
		setupErr = goose.SetDialect("postgres")
	})
	if setupErr != nil {
		return fmt.Errorf("set goose dialect: %w", setupErr)
	}
	return nil
}

// Run executes a goose command against the embedded migrations.
func Run(ctx context.Context, db *sql.DB, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	if command == "" {
		return fmt.Errorf("command is required")
	}
	if err := prepare(); err != nil {
		return err
	}
	if err := goose.RunContext(ctx, command, db, embeddedDir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// MigrateToVersion migrates up or down to targetVersion depending on the current DB version.
func MigrateToVersion(ctx context.Context, db *sql.DB, targetVersion string) error {
	if targetVersion == "" {
		return fmt.Errorf("targetVersion is required")
	}
	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", targetVersion, err)
	}
	if err := prepare(); err != nil {
		return err
	}

	current, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}

	switch {
	case current == target:
		return nil
	case current < target:
		if err := goose.UpToContext(ctx, db, embeddedDir, target); err != nil {
			return fmt.Errorf("goose up-to %d: %w", target, err)
		}
	default:
		if err := goose.DownToContext(ctx, db, embeddedDir, target); err != nil {
			return fmt.Errorf("goose down-to %d: %w", target, err)
		}
	}
	return nil
}

// EmbeddedVersions lists the versions compiled into the binary, oldest first.
func EmbeddedVersions() ([]int64, error) {
	if err := prepare(); err != nil {
		return nil, err
	}
	migrations, err := goose.CollectMigrations(embeddedDir, 0, goose.MaxVersion)
	if err != nil {
		return nil, fmt.Errorf("collect migrations: %w", err)
	}
	versions := make([]int64, 0, len(migrations))
	for _, m := range migrations {
		versions = append(versions, m.Version)
	}
	return versions, nil
}
