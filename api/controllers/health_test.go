package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct {
	err error
}

func (p *stubPinger) Ping(context.Context) error { return p.err }

func TestHealthLive(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	HealthLive().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"success"`)
	assert.Contains(t, rec.Body.String(), "live")
}

func TestHealthReadyAllUp(t *testing.T) {
	deps := map[string]Pinger{
		"database": &stubPinger{},
		"redis":    &stubPinger{},
	}

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	HealthReady(testLogger(t), deps).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ready")
}

func TestHealthReadyReportsDownDependency(t *testing.T) {
	deps := map[string]Pinger{
		"database": &stubPinger{},
		"redis":    &stubPinger{err: errors.New("connection refused")},
	}

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	HealthReady(testLogger(t), deps).ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "redis unavailable")
}

func TestHealthReadySkipsNilDependency(t *testing.T) {
	deps := map[string]Pinger{
		"database": &stubPinger{},
		"storage":  nil,
	}

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	HealthReady(testLogger(t), deps).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}
