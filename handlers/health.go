package handlers

import (
	"net/http"
	"time"

	"github.com/upb/shotlocker/app"
	"github.com/upb/shotlocker/utils"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthCheck returns a simple health check handler
func HealthCheck(deps *app.ServerDependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteJSON(w, http.StatusOK, HealthResponse{
			Status:    "ok",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// ReadinessCheck reports whether the served descriptor is usable
func ReadinessCheck(deps *app.ServerDependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{"descriptor": "valid"}
		if err := deps.Descriptor.Validate(); err != nil {
			checks["descriptor"] = "invalid"
			_ = utils.WriteServiceUnavailable(w, "auth descriptor is not usable", map[string]interface{}{
				"checks": checks,
			})
			return
		}

		checks["oauth"] = "disabled"
		if deps.Descriptor.HasOAuth() {
			checks["oauth"] = "enabled"
		}

		_ = utils.WriteJSON(w, http.StatusOK, HealthResponse{
			Status:    "ready",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Checks:    checks,
		})
	}
}
