package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// fileClient es un KV respaldado por un archivo JSON. Existe para el estado
// local de la CLI (sesión persistida, marca de onboarding), que tiene que
// sobrevivir entre procesos sin depender de un redis local.
type fileClient struct {
	path string

	mu   sync.Mutex
	data map[string]fileEntry
}

type fileEntry struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expires_at,omitempty"` // zero = sin expiración
}

// NewFile abre (o crea) el KV en la ruta dada.
func NewFile(path string) (Client, error) {
	c := &fileClient{path: path, data: map[string]fileEntry{}}

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		// estado corrupto se descarta: es solo un cache local
		_ = json.Unmarshal(b, &c.data)
	case os.IsNotExist(err):
	default:
		return nil, err
	}
	return c, nil
}

func (c *fileClient) flush() error {
	b, err := json.MarshalIndent(c.data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return err
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, c.path)
}

func (c *fileClient) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.data[key]
	if !ok {
		return "", ErrNotFound
	}
	if !e.ExpiresAt.IsZero() && time.Now().After(e.ExpiresAt) {
		delete(c.data, key)
		_ = c.flush()
		return "", ErrNotFound
	}
	return e.Value, nil
}

func (c *fileClient) Set(_ context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := fileEntry{Value: value}
	if ttl > 0 {
		e.ExpiresAt = time.Now().Add(ttl)
	}
	c.data[key] = e
	return c.flush()
}

func (c *fileClient) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.data, key)
	return c.flush()
}

func (c *fileClient) Exists(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.data[key]
	if !ok {
		return false, nil
	}
	if !e.ExpiresAt.IsZero() && time.Now().After(e.ExpiresAt) {
		delete(c.data, key)
		_ = c.flush()
		return false, nil
	}
	return true, nil
}

func (c *fileClient) Close() error { return nil }
