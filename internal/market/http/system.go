package http

import (
	"net/http"
	"time"

	"github.com/northmarket/bazaar/internal/market/store"
	"github.com/northmarket/bazaar/pkg/httpx"
	"github.com/northmarket/bazaar/pkg/marketapi"
	"github.com/northmarket/bazaar/pkg/slogx"
)

// LivezHandler reports that the process is up. It never checks
// dependencies and always returns 200.
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, marketapi.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// ReadyzHandler reports whether the service can take traffic. The database
// must answer a ping.
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		status := http.StatusOK
		checks := marketapi.HealthChecks{Database: "ok"}
		overall := "ok"

		if err := st.Ping(ctx); err != nil {
			slogx.FromContext(ctx).Warn("readiness probe failed", "err", err)
			checks.Database = "unreachable"
			overall = "degraded"
			status = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, status, marketapi.HealthResponse{
			Status:  overall,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  &checks,
		})
	}
}
