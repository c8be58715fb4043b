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

	"github.com/angelmondragon/sellerbazaar-backend/api/routes"
	"github.com/angelmondragon/sellerbazaar-backend/internal/address"
	"github.com/angelmondragon/sellerbazaar-backend/internal/cart"
	"github.com/angelmondragon/sellerbazaar-backend/internal/checkout"
	"github.com/angelmondragon/sellerbazaar-backend/internal/delivery"
	"github.com/angelmondragon/sellerbazaar-backend/internal/orders"
	"github.com/angelmondragon/sellerbazaar-backend/internal/products"
	"github.com/angelmondragon/sellerbazaar-backend/internal/sellers"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/auth"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/config"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/db"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/enums"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/env"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/instance"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/logger"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/metrics"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/migrate"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/outbox"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/redis"
)

const (
	serviceName     = "api"
	shutdownTimeout = 15 * time.Second
)

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
	ctx = logg.WithField(ctx, "env", cfg.App.Env)

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "api server shut down")
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	verifier, err := auth.NewVerifier(cfg.JWT)
	if err != nil {
		return fmt.Errorf("token verifier: %w", err)
	}

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

	services, err := buildServices(cfg, logg, dbClient, redisClient, registry)
	if err != nil {
		return fmt.Errorf("build services: %w", err)
	}

	addr := ":" + env.Get("PORT", cfg.App.Port)
	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Infra{
			DB:          dbClient,
			Redis:       redisClient,
			Idempotency: redisClient,
			Tokens:      verifier,
			Gatherer:    registry,
			HTTPMetrics: metrics.NewHTTPMetrics(registry),
		}, services),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	logg.Info(logg.WithField(ctx, "addr", addr), "starting api server")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(ctx, "draining api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func buildServices(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client, reg prometheus.Registerer) (routes.Services, error) {
	productRepo := products.NewRepository(dbClient.DB())
	addressRepo := address.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())

	cartStorage, err := cart.NewRedisStorage(redisClient, cfg.Cart.StorageTTL)
	if err != nil {
		return routes.Services{}, err
	}
	cartService, err := cart.NewService(productRepo, cartStorage, logg, metrics.NewCartMetrics(reg))
	if err != nil {
		return routes.Services{}, err
	}

	addressService, err := address.NewService(addressRepo, dbClient)
	if err != nil {
		return routes.Services{}, err
	}

	deliveryService, err := delivery.NewService(productRepo, addressService, time.Now)
	if err != nil {
		return routes.Services{}, err
	}

	sessions, err := checkout.NewRedisSessionStore(redisClient, cfg.Checkout.SessionTTL)
	if err != nil {
		return routes.Services{}, err
	}
	policy, err := enums.ParsePaymentMethodPolicy(cfg.Checkout.PaymentPolicy)
	if err != nil {
		return routes.Services{}, err
	}
	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Tx:                  dbClient,
		Sessions:            sessions,
		Carts:               cartService,
		Addresses:           addressService,
		Profiles:            sellers.NewRepository(dbClient.DB()),
		Orders:              ordersRepo,
		Outbox:              outbox.NewService(outbox.NewRepository(dbClient.DB()), logg),
		Logger:              logg,
		Metrics:             metrics.NewCheckoutMetrics(reg),
		Policy:              policy,
		ProfileFetchTimeout: cfg.Checkout.ProfileFetchTimeout,
	})
	if err != nil {
		return routes.Services{}, err
	}

	ordersService, err := orders.NewService(ordersRepo)
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Cart:      cartService,
		Delivery:  deliveryService,
		Addresses: addressService,
		Checkout:  checkoutService,
		Orders:    ordersService,
	}, nil
}
