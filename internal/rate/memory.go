package rate

import (
	"context"
	"sync"
	"time"
)

// MemoryStore: registro en memoria para dev/tests y despliegues de un solo
// nodo. El mutex cubre el check-and-set completo, que es lo que hace
// imposible la carrera de dos lecturas "permitido" antes de escribir.
type MemoryStore struct {
	window time.Duration

	mu   sync.Mutex
	last map[string]time.Time

	now func() time.Time // inyectable en tests
}

func NewMemoryStore(window time.Duration) *MemoryStore {
	return &MemoryStore{
		window: window,
		last:   make(map[string]time.Time),
		now:    time.Now,
	}
}

// SetNow reemplaza el reloj del store. Solo para tests.
func (s *MemoryStore) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *MemoryStore) Acquire(_ context.Context, identityID string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	prev, ok := s.last[identityID]
	if ok {
		if elapsed := now.Sub(prev); elapsed < s.window {
			return Result{Allowed: false, RetryAfter: s.window - elapsed}, nil
		}
	}
	s.last[identityID] = now
	return Result{Allowed: true}, nil
}
