package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/campuspulse/survey-engine/pkg/config"
)

// HealthHandler handles the root liveness endpoint.
type HealthHandler struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewHealthHandler creates a new HealthHandler with the given configuration.
func NewHealthHandler(cfg *config.Config, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{cfg: cfg, logger: logger}
}

// RegisterRoutes registers the health handler's routes on the given mux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.Root)
}

// Root handles GET / requests.
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	if err := SuccessResponse(w, map[string]any{
		"message": "survey engine is running",
		"version": h.cfg.Version,
	}); err != nil {
		h.logger.Error("Failed to encode health response", zap.Error(err))
	}
}
