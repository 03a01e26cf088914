package rate

import (
	"context"
	"strings"
	"time"

	rdb "github.com/redis/go-redis/v9"
)

// RedisStore: registro distribuido sobre Redis.
//
// El check-and-set se resuelve con un único SET NX PX: la key existe mientras
// la ventana está cerrada, y SET NX solo puede ganar un caller aunque haya
// despachos concurrentes contra la misma identidad desde varios nodos.
type RedisStore struct {
	Client *rdb.Client
	Prefix string
	Window time.Duration
}

func NewRedisStore(client *rdb.Client, prefix string, window time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "report:"
	}
	return &RedisStore{Client: client, Prefix: prefix, Window: window}
}

func (s *RedisStore) key(identityID string) string {
	return s.Prefix + "win:" + strings.ReplaceAll(identityID, " ", "_")
}

func (s *RedisStore) Acquire(ctx context.Context, identityID string) (Result, error) {
	key := s.key(identityID)

	ok, err := s.Client.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339Nano), s.Window).Result()
	if err != nil {
		return Result{}, err
	}
	if ok {
		return Result{Allowed: true}, nil
	}

	// Ventana cerrada: el TTL restante es el retry-after.
	ttl, err := s.Client.PTTL(ctx, key).Result()
	if err != nil {
		return Result{}, err
	}
	if ttl < 0 {
		// La key expiró entre el SETNX y el PTTL; para el caller es
		// simplemente "reintente ya".
		ttl = 0
	}
	return Result{Allowed: false, RetryAfter: ttl}, nil
}
