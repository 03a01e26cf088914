package cache

import (
	"context"
	"time"

	rdb "github.com/redis/go-redis/v9"
)

type redisClient struct {
	c      *rdb.Client
	prefix string
}

// NewRedis crea un cliente sobre Redis.
func NewRedis(cfg Config) (Client, error) {
	c := rdb.NewClient(&rdb.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := c.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &redisClient{c: c, prefix: cfg.Prefix}, nil
}

func (r *redisClient) Get(ctx context.Context, key string) (string, error) {
	v, err := r.c.Get(ctx, r.prefix+key).Result()
	if err == rdb.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (r *redisClient) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.c.Set(ctx, r.prefix+key, value, ttl).Err()
}

func (r *redisClient) Delete(ctx context.Context, key string) error {
	return r.c.Del(ctx, r.prefix+key).Err()
}

func (r *redisClient) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.c.Exists(ctx, r.prefix+key).Result()
	return n > 0, err
}

func (r *redisClient) Close() error { return r.c.Close() }
