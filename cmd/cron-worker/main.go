package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/sellerbazaar-backend/internal/cron"
	"github.com/angelmondragon/sellerbazaar-backend/internal/orders"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/config"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/db"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/instance"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/logger"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/metrics"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/migrate"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/outbox"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/redis"
)

const serviceName = "cron-worker"

func main() {
	boot := logger.New(logger.Options{ServiceName: serviceName})
	if err := godotenv.Load(); err != nil {
		boot.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		boot.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg := logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Fields:      map[string]any{"instance": instance.GetID()},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"interval": cfg.Cron.Interval.String(),
	})

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "cron worker shut down")
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("bootstrap database: %w", err)
	}
	defer dbClient.Close()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return fmt.Errorf("bootstrap redis: %w", err)
	}
	defer redisClient.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	cronMetrics := metrics.NewCronMetrics(registry)

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey(cron.DefaultLockName), cfg.Cron.Interval)
	if err != nil {
		return fmt.Errorf("cron lock: %w", err)
	}
	orphanJob, err := cron.NewOrphanOrderJob(cron.OrphanOrderJobParams{
		Logger:  logg,
		DB:      dbClient,
		Orders:  orders.NewRepository(dbClient.DB()),
		Outbox:  outbox.NewService(outbox.NewRepository(dbClient.DB()), logg),
		Metrics: cronMetrics,
		Grace:   cfg.Cron.OrphanOrderGrace,
	})
	if err != nil {
		return fmt.Errorf("orphan order job: %w", err)
	}
	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(orphanJob),
		Lock:     lock,
		Metrics:  cronMetrics,
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		return fmt.Errorf("cron service: %w", err)
	}

	metricsServer := &http.Server{
		Addr:              cfg.Cron.MetricsAddr,
		Handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "metrics listener failed", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	logg.Info(logg.WithField(ctx, "metrics_addr", cfg.Cron.MetricsAddr), "starting cron worker")
	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
