// Package health contiene los DTOs de los health checks.
package health

// Component es el estado de una dependencia individual.
type Component struct {
	Name   string `json:"name"`
	Status string `json:"status"` // "ok" | "error"
	Error  string `json:"error,omitempty"`
}

// Response es el estado agregado del servicio.
type Response struct {
	Status     string      `json:"status"` // "ready" | "degraded" | "unavailable"
	Version    string      `json:"version,omitempty"`
	Components []Component `json:"components,omitempty"`
}
