package web

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qa-office/qa-admin/internal/config"
	database "github.com/qa-office/qa-admin/internal/db"
	"github.com/qa-office/qa-admin/internal/web/session"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	cfg := &config.Config{
		Title: "QA Admin",
		DB:    config.DB{GormEngine: config.EngineSQLite},
		Webserver: config.Webserver{
			Port:    8080,
			URL:     "http://localhost",
			Session: config.Session{ExpiryTime: time.Hour},
		},
		Auth: config.Auth{PermissionCacheSize: 8, PermissionCacheTTL: time.Minute},
	}

	db, err := database.Open(cfg)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	session.Init(nil, time.Hour)

	return New(cfg, db)
}

func get(t *testing.T, s *Service, path string) (int, string) {
	t.Helper()

	resp, err := s.App.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)

	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(b)
}

func TestCheckAlive(t *testing.T) {
	s := newTestService(t)

	code, body := get(t, s, CheckAlivePath)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "OK", body)

	s.alive.Store(false)

	code, _ = get(t, s, CheckAlivePath)
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestMetrics(t *testing.T) {
	s := newTestService(t)

	code, body := get(t, s, MetricsPath)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, strings.Contains(body, "go_goroutines"), "expected default collectors")
}

func TestUnknownRouteIsJSON(t *testing.T) {
	s := newTestService(t)

	code, body := get(t, s, "/nope")
	assert.Equal(t, http.StatusNotFound, code)
	assert.JSONEq(t, `{"error":"Cannot GET /nope"}`, body)
}

func TestNewPanicsOnNilDeps(t *testing.T) {
	assert.Panics(t, func() { New(nil, nil) })
	assert.Panics(t, func() { New(&config.Config{}, nil) })
}
