package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/jenishsoftx6/ai-compliance-risk-insights/pkg/postgres"
)

const serviceName = "risk-insights"

// HealthHandler provides HTTP health check endpoints.
type HealthHandler struct {
	logger    *slog.Logger
	db        postgres.Pinger
	startTime time.Time
}

// NewHealthHandler creates a new health check handler. db may be nil when
// artifacts live on the local filesystem.
func NewHealthHandler(logger *slog.Logger, db postgres.Pinger) *HealthHandler {
	return &HealthHandler{
		logger:    logger,
		db:        db,
		startTime: time.Now(),
	}
}

// HealthResponse is the JSON response for liveness checks.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Uptime  string `json:"uptime"`
}

// ReadinessResponse is the JSON response for readiness checks.
type ReadinessResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Checks  map[string]string `json:"checks"`
}

// RegisterRoutes registers health endpoints on the provided ServeMux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /healthz", h.Healthz)
	mux.HandleFunc("GET /readyz", h.Readyz)
}

// Health is the minimal status check of the scoring endpoint.
func (h *HealthHandler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Healthz handles liveness checks.
func (h *HealthHandler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: serviceName,
		Uptime:  time.Since(h.startTime).String(),
	})
}

// Readyz handles readiness checks.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	resp := ReadinessResponse{
		Status:  "ready",
		Service: serviceName,
		Checks:  map[string]string{"artifacts": "filesystem"},
	}
	code := http.StatusOK

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := postgres.HealthCheck(ctx, h.db); err != nil {
			h.logger.WarnContext(r.Context(), "readiness check failed", "error", err)
			resp.Status = "not_ready"
			resp.Checks["artifacts"] = "unavailable"
			code = http.StatusServiceUnavailable
		} else {
			resp.Checks["artifacts"] = "ok"
		}
	}

	writeJSON(w, code, resp)
}
