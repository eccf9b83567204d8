package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jengatrack/jengatrack/internal/apperrors"
	"github.com/jengatrack/jengatrack/internal/config"
	storagemock "github.com/jengatrack/jengatrack/internal/storage/mock"
	"github.com/jengatrack/jengatrack/internal/usecase"
)

func newTestServer(t *testing.T, ready ReadyFunc) *Server {
	t.Helper()
	cfg := &config.Config{}
	cfg.Server.Port = 0
	cfg.Metrics.Enabled = true
	cfg.WhatsApp.VerifyToken = "secret-token"

	webhook := NewWebhookHandler(cfg.WhatsApp.VerifyToken, new(workerMock), new(storagemock.MessageLogRepoMock))
	dashboard := NewDashboardHandler(usecase.NewDashboardService(
		new(storagemock.ProfileRepoMock),
		new(storagemock.ProjectRepoMock),
		new(storagemock.ExpenseRepoMock),
		new(storagemock.CategoryRepoMock),
	))
	return NewServer(cfg, webhook, dashboard, ready, zaptest.NewLogger(t))
}

func TestServer_Health(t *testing.T) {
	server := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"UP"`)
}

func TestServer_Ready(t *testing.T) {
	server := newTestServer(t, func(ctx context.Context) error { return nil })

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"READY"`)
}

func TestServer_ReadyFailsWhenDependencyDown(t *testing.T) {
	server := newTestServer(t, func(ctx context.Context) error { return apperrors.ErrDatabase })

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServer_MetricsExposed(t *testing.T) {
	server := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_RequestIDHeaderEchoed(t *testing.T) {
	server := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "req-123")
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get(requestIDHeader))
}
