package api

import (
	"net/http"
	"time"

	"github.com/mailmemories/mail-memories/internal/api/respond"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	isHealthy func() bool
}

// NewHealthHandler creates a health handler bound to a service-level health
// function (typically ServiceHealthChecker.IsHealthy).
func NewHealthHandler(isHealthy func() bool) *HealthHandler {
	if isHealthy == nil {
		isHealthy = func() bool { return false }
	}
	return &HealthHandler{isHealthy: isHealthy}
}

// CheckHealth handles GET /api/health.
// Always returns 200; the body reports healthy/unhealthy.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	status := "unhealthy"
	if h.isHealthy() {
		status = "healthy"
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
