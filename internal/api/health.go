package api

import (
	"net/http"
	"time"

	"github.com/tablekeep/tablekeep/internal/api/respond"
)

// HealthHandler handles health check endpoints
type HealthHandler struct{}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler { return &HealthHandler{} }

// Bound by the service run loop; unhealthy until then.
var (
	serviceIsHealthy  = func() bool { return false }
	serviceComponents = func() map[string]bool { return nil }
)

// BindServiceHealth injects the aggregated health function.
func BindServiceHealth(f func() bool) { serviceIsHealthy = f }

// BindComponentHealth injects the per-component view reported alongside the status.
func BindComponentHealth(f func() map[string]bool) { serviceComponents = f }

// CheckHealth handles GET /api/health
// Always returns 200; body reports healthy/unhealthy. 500 indicates handler failure only.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	status := "unhealthy"
	if serviceIsHealthy() {
		status = "healthy"
	}
	response := map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
	}
	if c := serviceComponents(); len(c) > 0 {
		response["components"] = c
	}
	respond.WriteJSON(w, http.StatusOK, response)
}
