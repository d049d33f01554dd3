package handler

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	deps    map[string]Pinger
	timeout time.Duration
	log     *zap.Logger
}

// NewHealthHandler checks every named dependency on readiness probes.
// Ping failures are logged, never returned to the caller.
func NewHealthHandler(deps map[string]Pinger, log *zap.Logger) *HealthHandler {
	return &HealthHandler{deps: deps, timeout: 2 * time.Second, log: log}
}

type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services,omitempty"`
}

// Live handles GET /health/live
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, HealthResponse{Status: "ok"}, http.StatusOK)
}

// Ready handles GET /health/ready. Any unreachable dependency makes the
// whole service unavailable.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	resp := HealthResponse{Status: "ok", Services: make(map[string]string, len(h.deps))}
	status := http.StatusOK

	for name, dep := range h.deps {
		if err := dep.PingContext(ctx); err != nil {
			h.log.Warn("Dependency unhealthy", zap.String("dependency", name), zap.Error(err))
			resp.Services[name] = "unhealthy"
			resp.Status = "unhealthy"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Services[name] = "healthy"
	}

	respondJSON(w, resp, status)
}
