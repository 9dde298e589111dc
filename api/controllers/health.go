package controllers

import (
	"context"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/shipglide/logistics-backend/api/responses"
	"github.com/shipglide/logistics-backend/pkg/logger"
	"github.com/shipglide/logistics-backend/pkg/redis"
)

// HealthLive reports process liveness only.
func HealthLive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}

// HealthReady checks the database and redis before reporting ready. Either
// dependency failing makes the instance not ready.
func HealthReady(db *gorm.DB, cache *redis.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := map[string]string{"database": "ok", "redis": "ok"}
		healthy := true

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			logg.Warn(logg.WithField(ctx, "error", err.Error()), "readiness: database ping failed")
			checks["database"] = "unavailable"
			healthy = false
		}

		if cache != nil {
			if err := cache.Ping(ctx); err != nil {
				logg.Warn(logg.WithField(ctx, "error", err.Error()), "readiness: redis ping failed")
				checks["redis"] = "unavailable"
				healthy = false
			}
		}

		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}
		responses.WriteSuccessStatus(w, status, checks)
	}
}
