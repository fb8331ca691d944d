package api

import (
	"context"
	"net/http"
	"time"

	"climbing-gym/belay/internal/common"
)

type pinger interface {
	PingContext(ctx context.Context) error
}

type ServiceStatus struct {
	Status  string `json:"status"`
	Details string `json:"details"`
}

type HealthCheckResponse struct {
	Status   string                   `json:"status"`
	Uptime   string                   `json:"uptime"`
	Services map[string]ServiceStatus `json:"services"`
}

// HealthCheckHandler handles GET /healthCheck. Every named dependency is pinged.
func HealthCheckHandler(deps map[string]pinger, upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := HealthCheckResponse{
			Status:   "ok",
			Uptime:   time.Since(upSince).Round(time.Second).String(),
			Services: make(map[string]ServiceStatus, len(deps)),
		}
		for name, dep := range deps {
			status := ServiceStatus{Status: "ok", Details: "connected"}
			if err := dep.PingContext(ctx); err != nil {
				status = ServiceStatus{Status: "down", Details: err.Error()}
				resp.Status = "down"
			}
			resp.Services[name] = status
		}

		code := http.StatusOK
		if resp.Status != "ok" {
			code = http.StatusServiceUnavailable
		}
		common.RespondSuccess(w, resp, code)
	}
}
