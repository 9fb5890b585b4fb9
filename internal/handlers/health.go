package handlers

import (
	"net/http"

	"github.com/bobmcallan/contentgeo-mcp/internal/common"
)

// HealthHandler reports process liveness. Upstream reachability is the
// health_check tool's job, not this endpoint's.
type HealthHandler struct {
	logger    *common.Logger
	toolCount int
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(logger *common.Logger, toolCount int) *HealthHandler {
	return &HealthHandler{logger: logger, toolCount: toolCount}
}

// ServeHTTP handles GET /api/health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"tools":  h.toolCount,
	})
}
