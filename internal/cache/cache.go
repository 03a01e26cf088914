// Package cache provee un key-value chico con backend intercambiable.
//
// Lo usan el Session Manager (token de sesión persistido) y el onboarding
// (flag "visto"): estado de cliente que tiene que sobrevivir reinicios y
// poder sustituirse por un backend en memoria en tests.
package cache

import (
	"context"
	"time"
)

// Client define las operaciones de KV.
type Client interface {
	// Get obtiene un valor. Retorna ErrNotFound si no existe.
	Get(ctx context.Context, key string) (string, error)

	// Set guarda un valor con TTL opcional. Si ttl es 0, no expira.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete elimina una key. Borrar una key inexistente no es error.
	Delete(ctx context.Context, key string) error

	// Exists verifica si una key existe.
	Exists(ctx context.Context, key string) (bool, error)

	// Close cierra la conexión.
	Close() error
}

// Config para crear un cliente.
type Config struct {
	Kind     string // "memory" | "redis"
	Addr     string
	Password string
	DB       int
	Prefix   string
}

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "cache: key not found" }

// IsNotFound verifica si el error es porque la key no existe.
func IsNotFound(err error) bool {
	_, ok := err.(errNotFound)
	return ok
}

// New crea un cliente según la configuración.
func New(cfg Config) (Client, error) {
	switch cfg.Kind {
	case "redis":
		return NewRedis(cfg)
	default:
		return NewMemory(cfg.Prefix), nil
	}
}
