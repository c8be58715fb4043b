package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/sellerbazaar-backend/api/responses"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/sellerbazaar-backend/pkg/errors"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/logger"
)

const (
	envHeader    = "X-SellerBazaar-Env"
	readyTimeout = 2 * time.Second
)

type pinger interface {
	Ping(ctx context.Context) error
}

// ReadinessCheck names a dependency probed by /health/ready.
type ReadinessCheck struct {
	Name   string
	Pinger pinger
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every dependency and reports DEPENDENCY_ERROR listing the
// ones that failed.
func HealthReady(cfg *config.Config, logg *logger.Logger, checks ...ReadinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		failed := map[string]string{}
		for _, check := range checks {
			if check.Pinger == nil {
				continue
			}
			if err := check.Pinger.Ping(ctx); err != nil {
				failed[check.Name] = "unavailable"
				if logg != nil {
					logg.Error(logg.WithField(r.Context(), "dependency", check.Name), "health.ready.ping_failed", err)
				}
			}
		}
		if len(failed) > 0 {
			responses.WriteError(r.Context(), nil, w, pkgerrors.New(pkgerrors.CodeDependency, "dependencies unavailable").WithDetails(failed))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
