package handlers

import (
	"errors"
	"net/http"

	"github.com/jsamuelsen11/go-uow/internal/ports"
)

const (
	statusOK       = "ok"
	statusReady    = "ready"
	statusDegraded = "degraded"
	statusNotReady = "not_ready"
)

// HealthHandler serves the liveness and readiness endpoints.
type HealthHandler struct {
	registry ports.HealthRegistry
}

func NewHealthHandler(registry ports.HealthRegistry) *HealthHandler {
	return &HealthHandler{registry: registry}
}

// Liveness handles GET /health/live. Always returns 200 OK.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": statusOK})
}

// Readiness handles GET /health/ready. Any failing check makes the service
// not ready (503) unless every failure wraps ports.ErrDegraded: units can
// still commit while, for example, the broker is down and the outbox holds
// their events, so the service reports degraded with a 200.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	results := h.registry.CheckAll(r.Context())

	checks := make(map[string]string, len(results))
	status := statusReady
	for name, err := range results {
		switch {
		case err == nil:
			checks[name] = statusOK
		case errors.Is(err, ports.ErrDegraded):
			checks[name] = err.Error()
			if status == statusReady {
				status = statusDegraded
			}
		default:
			checks[name] = err.Error()
			status = statusNotReady
		}
	}

	code := http.StatusOK
	if status == statusNotReady {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]any{
		"status": status,
		"checks": checks,
	})
}
