package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/fsview/internal/infrastructure/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.Root = filepath.Join(t.TempDir(), "files")
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = "0"
	cfg.Logging.Level = "error"
	cfg.RateLimit.Enabled = false
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	srv, err := NewServer(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })
	return srv
}

func TestNewServerCreatesRoot(t *testing.T) {
	cfg := testConfig(t)
	newTestServer(t, cfg)

	assert.DirExists(t, cfg.Storage.Root)
}

func TestNewServerRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.DefaultRole = "guest"

	_, err := NewServer(cfg)
	assert.Error(t, err)
}

func TestNewServerRejectsUnknownAdminOp(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.AdminOnlyOps = []string{"chmod"}

	_, err := NewServer(cfg)
	assert.Error(t, err)
}

func TestServerRoutes(t *testing.T) {
	cfg := testConfig(t)
	srv := newTestServer(t, cfg)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Storage.Root, "a.txt"), []byte("hello"), 0o644))
	handler := srv.Handler()

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/fs/list?path=/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"a.txt"`)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "fsview_operations_total")
	assert.Contains(t, body, `op="list"`)
	assert.Contains(t, body, "fsview_http_requests_total")
}

func TestServerCompressesLargeResponses(t *testing.T) {
	srv := newTestServer(t, testConfig(t))

	req := httptest.NewRequest("GET", "/metrics", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
}

func TestServerDefaultRoleFromConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.DefaultRole = "admin"
	srv := newTestServer(t, cfg)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Storage.Root, ".env"), []byte("x"), 0o644))

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/api/fs/list", nil))
	assert.Contains(t, w.Body.String(), `"name":".env"`)

	req := httptest.NewRequest("GET", "/api/fs/list", nil)
	req.Header.Set(cfg.Server.RoleHeader, "user")
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.False(t, strings.Contains(w.Body.String(), ".env"))
}

func TestRunAndShutdown(t *testing.T) {
	srv := newTestServer(t, testConfig(t))

	done := make(chan error, 1)
	go func() { done <- srv.Run() }()

	// Let ListenAndServe start before shutting down.
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Shutdown")
	}
}

func TestServerGlobalRateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimit.Enabled = true
	cfg.RateLimit.Global = true
	cfg.RateLimit.RequestsPerSecond = 1
	cfg.RateLimit.Burst = 1
	handler := newTestServer(t, cfg).Handler()

	codes := make([]int, 0, 2)
	for _, addr := range []string{"10.0.0.1:1234", "10.0.0.2:1234"} {
		req := httptest.NewRequest("GET", "/health", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	// Different clients draw from the same bucket.
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestServerPerClientRateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimit.Enabled = true
	cfg.RateLimit.RequestsPerSecond = 1
	cfg.RateLimit.Burst = 1
	handler := newTestServer(t, cfg).Handler()

	codes := make([]int, 0, 3)
	for _, addr := range []string{"10.0.0.1:1234", "10.0.0.2:1234", "10.0.0.1:1234"} {
		req := httptest.NewRequest("GET", "/health", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
