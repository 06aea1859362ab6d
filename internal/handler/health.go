package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/brunesovrbrauns/bdc-manager-app/internal/ports"
	"github.com/go-chi/chi/v5"
)

// HealthHandler exposes a readiness probe.
type HealthHandler struct {
	DB ports.HealthChecker
	// Sessions reports connected dashboard pages; optional.
	Sessions func() int
}

func (h HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.handleHealth)
}

func (h HealthHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	code := http.StatusOK
	if err := h.DB.Health(ctx); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	body := map[string]any{"status": status}
	if h.Sessions != nil {
		body["sessions"] = h.Sessions()
	}
	writeRawJSON(w, code, body)
}
