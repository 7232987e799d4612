package handlers

import (
	"net/http"
	"time"

	"github.com/pasinduisuranga/traveler-app/internal/respond"
)

var startedAt = time.Now()

// Root handles GET /, a small service banner.
func Root(w http.ResponseWriter, r *http.Request) {
	respond.OK(w, map[string]string{
		"service": "ETCP API",
		"version": "1.0.0",
	}, "Eco-Tourism Community Platform API")
}

// Health handles GET /health for load balancers and uptime checks.
func Health(w http.ResponseWriter, r *http.Request) {
	respond.OK(w, map[string]any{
		"status": "ok",
		"uptime": time.Since(startedAt).Round(time.Second).String(),
	}, "")
}
