package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/nikbrunner/postmark/internal/httpserver/deps"
	"github.com/nikbrunner/postmark/internal/logger"
)

type healthzResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Version       string  `json:"version,omitempty"`
}

func Healthz(d deps.Deps) http.HandlerFunc {
	start := d.StartTime
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		RespondJSON(w, http.StatusOK, healthzResponse{
			Status:        "ok",
			Version:       d.Version,
			UptimeSeconds: time.Since(start).Seconds(),
		})
	}
}

// Readyz reports 503 until the database answers a ping.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Cache-Control", "no-store")
		if err := d.Storage.Ping(ctx); err != nil {
			d.Logger.Warn("readiness check failed", logger.Error(err))
			RespondError(w, http.StatusServiceUnavailable, "storage unavailable")
			return
		}
		RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
