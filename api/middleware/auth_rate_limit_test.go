package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRateStore struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newFakeRateStore() *fakeRateStore {
	return &fakeRateStore{counts: map[string]int64{}}
}

func (f *fakeRateStore) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[key]++
	return f.counts[key], nil
}

func loginRequest(email, remoteAddr string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"`+email+`","password":"secret"}`))
	req.RemoteAddr = remoteAddr
	return req
}

func TestAuthRateLimitPassesBodyDownstream(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 2, 2)
	handler := AuthRateLimit(policy, newFakeRateStore(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), `"email":"tester@example.com"`)
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("tester@example.com", "1.2.3.4:5678"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRateLimitBlocksEmailOverLimit(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 2)
	handler := AuthRateLimit(policy, newFakeRateStore(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, loginRequest("blocked@example.com", "1.2.3.4:5678"))
		require.Equal(t, http.StatusOK, rec.Code, "attempt %d should pass", i+1)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("blocked@example.com", "1.2.3.4:5678"))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	var payload struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "fail", payload.Status)
	assert.Contains(t, payload.Message, "too many attempts")
}

func TestAuthRateLimitEmailCaseInsensitive(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 1)
	handler := AuthRateLimit(policy, newFakeRateStore(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("Shared@Example.com", "1.2.3.4:5678"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("shared@example.com", "9.9.9.9:1111"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestAuthRateLimitBlocksIPOverLimit(t *testing.T) {
	policy := NewAuthRateLimitPolicy("signup", time.Minute, 1, 0)
	handler := AuthRateLimit(policy, newFakeRateStore(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("foo@example.com", "5.6.7.8:1234"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("bar@example.com", "5.6.7.8:1234"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestAuthRateLimitDisabledPolicyIsPassthrough(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", 0, 5, 5)
	handler := AuthRateLimit(policy, newFakeRateStore(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, loginRequest("any@example.com", "1.2.3.4:5678"))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}
