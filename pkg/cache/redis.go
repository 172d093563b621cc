package cache

import (
	"context"
	"errors"
	"time"

	pkgredis "github.com/dmreyes-dev/partstream-backend/pkg/redis"
)

type redisClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	PageCacheKey(pathAndQuery string) string
}

// RedisStore backs the page cache with the shared redis client.
type RedisStore struct {
	client redisClient
}

// NewRedisStore wraps the provided redis client as a cache Store.
func NewRedisStore(client *pkgredis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	if s == nil || s.client == nil {
		return "", ErrMiss
	}
	value, err := s.client.Get(ctx, key)
	if err != nil {
		if errors.Is(err, pkgredis.Nil) {
			return "", ErrMiss
		}
		return "", err
	}
	return value, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Set(ctx, key, value, ttl)
}

func (s *RedisStore) PageKey(path, rawQuery string) string {
	full := path
	if rawQuery != "" {
		full += "?" + rawQuery
	}
	if s == nil || s.client == nil {
		return full
	}
	return s.client.PageCacheKey(full)
}
