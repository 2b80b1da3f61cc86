package controllers

import (
	"context"
	"net/http"

	"github.com/andresreyes/spotlists-backend/api/responses"
	"github.com/andresreyes/spotlists-backend/pkg/config"
	"github.com/andresreyes/spotlists-backend/pkg/db"
	"github.com/andresreyes/spotlists-backend/pkg/logger"
	"github.com/andresreyes/spotlists-backend/pkg/redis"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Spotlists-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady checks the backing stores. A nil dependency is reported as
// skipped so environments without Redis still pass readiness.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		w.Header().Set("X-Spotlists-Env", cfg.App.Env)

		checks := map[string]string{}
		healthy := true

		probe := func(name string, p pinger) {
			if p == nil {
				checks[name] = "skipped"
				return
			}
			if err := p.Ping(ctx); err != nil {
				checks[name] = "down"
				healthy = false
				if logg != nil {
					logg.Error(logg.WithField(ctx, "dependency", name), "health.check_failed", err)
				}
				return
			}
			checks[name] = "up"
		}

		probe("db", dbP)
		probe("redis", redisP)

		status := "ready"
		code := http.StatusOK
		if !healthy {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		responses.WriteSuccessStatus(w, code, map[string]any{
			"status": status,
			"checks": checks,
		})
	}
}
