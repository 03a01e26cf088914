// Package health contiene el controller de health checks.
package health

import (
	"net/http"

	"github.com/xenocrypt01/smile-report-dash/internal/http/helpers"
	svc "github.com/xenocrypt01/smile-report-dash/internal/http/services/health"
)

// Controller maneja las rutas de health check.
type Controller struct {
	service svc.Service
}

// NewController crea el controller de health.
func NewController(service svc.Service) *Controller {
	return &Controller{service: service}
}

// Healthz maneja GET /healthz: liveness puro, sin tocar dependencias.
func (c *Controller) Healthz(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz maneja GET /readyz: verifica dependencias y degrada el status.
func (c *Controller) Readyz(w http.ResponseWriter, r *http.Request) {
	resp := c.service.Check(r.Context())

	status := http.StatusOK
	if resp.Status == "unavailable" {
		status = http.StatusServiceUnavailable
	}
	helpers.WriteJSON(w, status, resp)
}
