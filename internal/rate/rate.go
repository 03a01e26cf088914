// Package rate implementa la ventana de despacho por identidad: a lo sumo
// UNA aceptación por identidad por ventana rodante (default 60s).
//
// A diferencia de un fixed-window clásico de N requests, acá el registro es
// un único timestamp de última aceptación por identidad, y el check-and-set
// tiene que ser atómico frente a despachos concurrentes de la misma
// identidad: dos requests no pueden observar "permitido" en la misma ventana.
package rate

import (
	"context"
	"time"
)

// Result es el resultado de un intento de adquisición de la ventana.
type Result struct {
	// Allowed indica que esta identidad ganó la ventana y puede despachar.
	Allowed bool
	// RetryAfter es cuánto falta para que la ventana vuelva a abrir.
	// Solo tiene sentido cuando Allowed es false.
	RetryAfter time.Duration
}

// Store es el registro de rate limit por identidad.
//
// Acquire ejecuta el check-and-set atómico: si no hay registro para la
// identidad, o si pasó al menos una ventana completa desde la última
// aceptación, avanza el timestamp y retorna Allowed=true. Si no, retorna
// Allowed=false SIN modificar el registro.
type Store interface {
	Acquire(ctx context.Context, identityID string) (Result, error)
}
