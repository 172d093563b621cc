package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dmreyes-dev/partstream-backend/api/responses"
	pkgerrors "github.com/dmreyes-dev/partstream-backend/pkg/errors"
	"github.com/dmreyes-dev/partstream-backend/pkg/logger"
)

type rateLimiterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// AuthRateLimitPolicy throttles one credential surface (login, signup) with
// independent per-IP and per-email counters over a fixed window. A limit of
// zero disables that counter.
type AuthRateLimitPolicy struct {
	name       string
	window     time.Duration
	ipLimit    int64
	emailLimit int64
}

func NewAuthRateLimitPolicy(name string, window time.Duration, ipLimit, emailLimit int) AuthRateLimitPolicy {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "auth"
	}
	return AuthRateLimitPolicy{
		name:       name,
		window:     window,
		ipLimit:    int64(ipLimit),
		emailLimit: int64(emailLimit),
	}
}

func (p AuthRateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.emailLimit > 0)
}

func (p AuthRateLimitPolicy) key(scope, value string) string {
	return "ratelimit:" + p.name + ":" + scope + ":" + value
}

// AuthRateLimit counts attempts in the store and rejects with 429 once either
// counter passes its limit. Emails are hashed before they become keys so raw
// addresses never reach redis. Store failures reject the request rather than
// waving traffic through an unprotected endpoint.
func AuthRateLimit(policy AuthRateLimitPolicy, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if policy.ipLimit > 0 {
				if ip := clientIP(r); ip != "" {
					blocked, err := overLimit(ctx, store, policy, "ip", ip, policy.ipLimit, logg)
					if err != nil {
						responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
						return
					}
					if blocked {
						responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later"))
						return
					}
				}
			}

			if policy.emailLimit > 0 {
				body, err := io.ReadAll(r.Body)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))

				if email := emailFromBody(body); email != "" {
					blocked, err := overLimit(ctx, store, policy, "email", hashValue(email), policy.emailLimit, logg)
					if err != nil {
						responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
						return
					}
					if blocked {
						responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later"))
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func overLimit(ctx context.Context, store rateLimiterStore, policy AuthRateLimitPolicy, scope, value string, limit int64, logg *logger.Logger) (bool, error) {
	count, err := store.IncrWithTTL(ctx, policy.key(scope, value), policy.window)
	if err != nil {
		return false, err
	}
	if count <= limit {
		return false, nil
	}
	if logg != nil {
		logCtx := logg.WithFields(ctx, map[string]any{
			"policy":   policy.name,
			"scope":    scope,
			"attempts": count,
			"limit":    limit,
		})
		logg.Warn(logCtx, "auth rate limit exceeded")
	}
	return true, nil
}

// clientIP prefers proxy headers over RemoteAddr so limits follow the real
// caller behind the load balancer.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		for _, part := range strings.Split(forwarded, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func emailFromBody(payload []byte) string {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(body.Email))
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
