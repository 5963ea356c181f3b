package api

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func livenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeData(w, http.StatusOK, "ok", map[string]string{"status": "up"})
	}
}

// readinessHandler pings both backing stores. A failed ping takes the
// instance out of rotation.
func readinessHandler(pool *pgxpool.Pool, rdb *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := map[string]string{"postgres": "up", "redis": "up"}
		healthy := true

		if err := pool.Ping(ctx); err != nil {
			checks["postgres"] = "down"
			healthy = false
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			checks["redis"] = "down"
			healthy = false
		}

		if !healthy {
			writeJSON(w, http.StatusServiceUnavailable, Result{
				Code: http.StatusServiceUnavailable, Message: "degraded", Error: "not_ready", Data: checks,
			})
			return
		}
		writeData(w, http.StatusOK, "ok", checks)
	}
}
