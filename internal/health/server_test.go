package health

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(checks map[string]Checker) *Server {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return NewServer(Config{
		ServiceName: "edgecast",
		MetricsPath: "/metrics",
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "edgecast_up 1\n")
		}),
		Logger: l,
		Checks: checks,
	})
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthAndLive(t *testing.T) {
	h := newTestServer(nil).Handler()

	for _, path := range []string{"/health", "/live"} {
		rec := get(t, h, path)
		assert.Equal(t, http.StatusOK, rec.Code, path)

		var body HealthResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "ok", body.Status)
		assert.Equal(t, "edgecast", body.Service)
	}
}

func TestReadyReflectsChecks(t *testing.T) {
	failing := CheckFunc(func(ctx context.Context) error { return errors.New("connection refused") })
	passing := CheckFunc(func(ctx context.Context) error { return nil })

	s := newTestServer(map[string]Checker{"storage": passing, "redis": failing})
	h := s.Handler()

	rec := get(t, h, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	s.SetReady(true)
	rec = get(t, h, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body ReadyResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "not_ready", body.Status)
	assert.Equal(t, "ok", body.Checks["storage"])
	assert.Contains(t, body.Checks["redis"], "connection refused")
}

func TestReadyOK(t *testing.T) {
	s := newTestServer(map[string]Checker{
		"storage": CheckFunc(func(ctx context.Context) error { return nil }),
	})
	s.SetReady(true)

	rec := get(t, s.Handler(), "/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsRoute(t *testing.T) {
	rec := get(t, newTestServer(nil).Handler(), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "edgecast_up")
}
