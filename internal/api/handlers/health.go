// Package handlers implements HTTP handlers for the automerch API.
package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/automerch/internal/metrics"
)

// Pinger reports whether the datastore is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health and readiness endpoints.
type HealthHandler struct {
	store  Pinger
	dryRun bool
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(s Pinger, dryRun bool) *HealthHandler {
	return &HealthHandler{store: s, dryRun: dryRun}
}

// Healthz returns 200 if the process is running.
func (h *HealthHandler) Healthz(c echo.Context) error {
	metrics.HealthzUp.Set(1)
	return c.JSON(http.StatusOK, map[string]any{"status": "ok", "dry_run": h.dryRun})
}

// Readyz returns 200 if the database is reachable, 503 otherwise.
func (h *HealthHandler) Readyz(c echo.Context) error {
	if err := h.store.Ping(c.Request().Context()); err != nil {
		metrics.ReadyzUp.Set(0)
		return c.JSON(
			http.StatusServiceUnavailable,
			map[string]string{"status": "unavailable"},
		)
	}
	metrics.ReadyzUp.Set(1)
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}
