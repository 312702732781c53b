package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/mcoot/fluency-harness/internal/api/response"
)

// Pinger is a backend the health check can probe
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports whether the server and its backends are up
type HealthHandler struct {
	backends map[string]Pinger
	logger   *slog.Logger
}

// NewHealthHandler creates a HealthHandler probing the named backends
func NewHealthHandler(backends map[string]Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{backends: backends, logger: logger}
}

// Healthz responds {"status":"ok"}, or 503 {"status":"unavailable"} if a
// backend does not answer
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	for name, backend := range h.backends {
		if err := backend.Ping(ctx); err != nil {
			h.logger.Warn("health check failed",
				slog.String("backend", name),
				slog.String("error", err.Error()),
			)
			response.JSON(w, http.StatusServiceUnavailable, response.Health{Status: "unavailable"})
			return
		}
	}
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
