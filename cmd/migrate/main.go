package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/sellerbazaar-backend/pkg/config"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/db"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/instance"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/logger"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/migrate"
)

const usage = `usage: migrate <command> [flags]

offline:
  create -name <slug> [-dir path]   write a new timestamped SQL migration
  validate [-dir path]              lint every migration file
  list                              print the versions embedded in this binary

database:
  up | down | redo | status         run the goose command
  to -version <YYYYMMDDHHMMSS>      migrate up or down to a version
`

var errUsage = errors.New("invalid usage")

func main() {
	_ = godotenv.Load()
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		}
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	command, rest := args[0], args[1:]
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	dir := fs.String("dir", migrate.SourceDir, "migrations directory on disk")
	name := fs.String("name", "", "migration slug for create")
	version := fs.String("version", "", "target version for to")
	if err := fs.Parse(rest); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	switch command {
	case "create":
		if *name == "" {
			return fmt.Errorf("%w: create needs -name", errUsage)
		}
		path, err := migrate.CreateSQLMigration(*dir, *name, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "created", path)
		return nil
	case "validate":
		if err := migrate.ValidateDir(*dir); err != nil {
			return err
		}
		fmt.Fprintln(out, "migrations ok")
		return nil
	case "list":
		versions, err := migrate.EmbeddedVersions()
		if err != nil {
			return err
		}
		for _, v := range versions {
			fmt.Fprintln(out, v)
		}
		return nil
	case "up", "down", "redo", "status":
		return withDatabase(ctx, command, func(ctx context.Context, conn *db.Client) error {
			sqlDB, err := conn.DB().DB()
			if err != nil {
				return err
			}
			return migrate.Run(ctx, sqlDB, command)
		})
	case "to":
		if *version == "" {
			return fmt.Errorf("%w: to needs -version", errUsage)
		}
		return withDatabase(ctx, command, func(ctx context.Context, conn *db.Client) error {
			sqlDB, err := conn.DB().DB()
			if err != nil {
				return err
			}
			return migrate.MigrateToVersion(ctx, sqlDB, *version)
		})
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, command)
}

// withDatabase loads config, connects and hands the client to fn.
func withDatabase(ctx context.Context, command string, fn func(context.Context, *db.Client) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logg := logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Fields:      map[string]any{"instance": instance.GetID()},
	})
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "command": command})

	conn, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer conn.Close()

	started := time.Now()
	if err := fn(ctx, conn); err != nil {
		logg.Error(ctx, "migration command failed", err)
		return err
	}
	logg.Info(logg.WithField(ctx, "elapsed_ms", time.Since(started).Milliseconds()), "migration command finished")
	return nil
}
