package middleware

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dmreyes-dev/partstream-backend/pkg/cache"
	"github.com/dmreyes-dev/partstream-backend/pkg/logger"
	"github.com/dmreyes-dev/partstream-backend/pkg/metrics"
)

const cacheHeader = "X-Cache"

type cachedPage struct {
	Status      int    `json:"status"`
	Body        string `json:"body"`
	ContentType string `json:"content_type,omitempty"`
}

// CachePage serves GET responses from the page cache for ttl. Only 2xx
// responses are stored; every cache failure degrades to a miss so the
// backing store can never take the read path down with it.
func CachePage(store cache.Store, ttl time.Duration, cacheMetrics *metrics.CacheMetrics, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet || store == nil {
				next.ServeHTTP(w, r)
				return
			}

			key := store.PageKey(r.URL.Path, r.URL.Query().Encode())

			if stored, err := store.Get(r.Context(), key); err == nil {
				page, decodeErr := decodePage(stored)
				if decodeErr == nil {
					cacheMetrics.ObserveLookup(true)
					writeCachedPage(w, page)
					return
				}
				logCacheError(r.Context(), logg, "decode cached page", decodeErr)
			} else if !errors.Is(err, cache.ErrMiss) {
				logCacheError(r.Context(), logg, "read page cache", err)
			}

			cacheMetrics.ObserveLookup(false)
			rec := &responseCapture{ResponseWriter: w}
			rec.Header().Set(cacheHeader, "MISS")
			next.ServeHTTP(rec, r)

			status := defaultStatus(rec.status)
			if status < 200 || status > 299 {
				return
			}

			page := cachedPage{
				Status:      status,
				Body:        base64.StdEncoding.EncodeToString(rec.body.Bytes()),
				ContentType: rec.Header().Get("Content-Type"),
			}
			payload, marshalErr := json.Marshal(page)
			if marshalErr != nil {
				logCacheError(r.Context(), logg, "marshal cached page", marshalErr)
				return
			}
			if setErr := store.Set(r.Context(), key, string(payload), ttl); setErr != nil {
				logCacheError(r.Context(), logg, "persist page cache", setErr)
			}
		})
	}
}

func decodePage(payload string) (*cachedPage, error) {
	var page cachedPage
	if err := json.Unmarshal([]byte(payload), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func writeCachedPage(w http.ResponseWriter, page *cachedPage) {
	if page.ContentType != "" {
		w.Header().Set("Content-Type", page.ContentType)
	}
	w.Header().Set(cacheHeader, "HIT")
	w.WriteHeader(defaultStatus(page.Status))
	if decoded, err := base64.StdEncoding.DecodeString(page.Body); err == nil {
		_, _ = w.Write(decoded)
	}
}

func defaultStatus(value int) int {
	if value == 0 {
		return http.StatusOK
	}
	return value
}

type responseCapture struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (r *responseCapture) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseCapture) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func logCacheError(ctx context.Context, logg *logger.Logger, msg string, err error) {
	if logg == nil || err == nil {
		return
	}
	logg.Warn(logg.WithField(ctx, "error", err.Error()), msg)
}
