package handlers

import (
	"context"
	"net/http"
	"time"

	"orgconfig/application/ports"
	"orgconfig/domain/config"
	"orgconfig/pkg/common"

	"go.uber.org/zap"
)

const healthCheckTimeout = 5 * time.Second

// HealthHandler reports whether the service can reach its store.
type HealthHandler struct {
	store  ports.ConfigStore
	logger *zap.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store ports.ConfigStore, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{store: store, logger: logger}
}

type componentStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type healthResponse struct {
	Success    bool                       `json:"success"`
	Timestamp  string                     `json:"timestamp"`
	Components map[string]componentStatus `json:"components"`
}

// Health handles GET /health
//
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} swagger.HealthResponse
// @Failure 503 {object} swagger.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	resp := healthResponse{
		Success:    true,
		Timestamp:  config.Timestamp(time.Now()),
		Components: map[string]componentStatus{"database": {Status: "healthy"}},
	}
	status := http.StatusOK

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("Health check failed", zap.Error(err))
		resp.Success = false
		resp.Components["database"] = componentStatus{Status: "unhealthy", Error: "database unreachable"}
		status = http.StatusServiceUnavailable
	}

	if err := common.RespondJSON(w, status, resp); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}
