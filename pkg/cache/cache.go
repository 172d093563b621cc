package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Store is the page-cache surface injected into middleware. Implementations
// are best-effort: callers must treat every error as a miss and never fail
// the request they are caching for.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	PageKey(path, rawQuery string) string
}
