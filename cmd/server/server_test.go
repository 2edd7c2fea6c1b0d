package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/warden/internal/config"
	"github.com/JaimeStill/warden/internal/infrastructure"
	"github.com/JaimeStill/warden/pkg/database"
	"github.com/JaimeStill/warden/pkg/lifecycle"
	"github.com/JaimeStill/warden/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

func withTestStores(cfg *config.Config) *config.Config {
	cfg.Database = database.Config{Name: "warden", User: "warden", ConnMaxLifetime: "15m", ConnTimeout: "5s"}
	cfg.Storage = storage.Config{ContainerName: "exports", ConnectionString: azuriteConnString}
	return cfg
}

func testInfra(t *testing.T, cfg *config.Config) *infrastructure.Infrastructure {
	t.Helper()

	require.NoError(t, cfg.Metrics.Finalize())
	infra, err := infrastructure.New(withTestStores(cfg))
	require.NoError(t, err)

	db := infra.Database
	t.Cleanup(func() { db.Connection().Close() })
	return infra
}

// fakeDatabase stands in for Postgres in readiness checks.
type fakeDatabase struct {
	startErr error
	pingErr  error
}

func (f *fakeDatabase) Connection() *sql.DB { return nil }
func (f *fakeDatabase) Ping(context.Context) error { return f.pingErr }
func (f *fakeDatabase) AfterConnect(func(context.Context) error) {}
func (f *fakeDatabase) BeforeClose(func()) {}

func (f *fakeDatabase) Start(lc *lifecycle.Coordinator) error {
	lc.OnStartup("database", func(context.Context) error { return f.startErr })
	return nil
}

func decodeReadiness(t *testing.T, rec *httptest.ResponseRecorder) readiness {
	t.Helper()
	var body readiness
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func serve(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthAndReadiness(t *testing.T) {
	cfg := &config.Config{Metrics: config.MetricsConfig{Path: "/metrics"}}
	infra := testInfra(t, cfg)
	db := &fakeDatabase{}
	infra.Database = db
	router := buildRouter(infra, cfg)

	assert.Equal(t, http.StatusOK, serve(router, "/healthz").Code)

	rec := serve(router, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "not ready", decodeReadiness(t, rec).Status)

	require.NoError(t, db.Start(infra.Lifecycle))
	require.NoError(t, infra.Lifecycle.WaitForStartup())

	rec = serve(router, "/readyz")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeReadiness(t, rec)
	assert.Equal(t, "ready", body.Status)
	assert.Equal(t, []lifecycle.HookStatus{{Name: "database", Done: true}}, body.Hooks)

	db.pingErr = errors.New("connection reset")
	rec = serve(router, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body = decodeReadiness(t, rec)
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "connection reset", body.Database)
}

func TestReadinessReportsFailedHook(t *testing.T) {
	cfg := &config.Config{}
	infra := testInfra(t, cfg)
	db := &fakeDatabase{startErr: errors.New("password authentication failed")}
	infra.Database = db
	router := buildRouter(infra, cfg)

	require.NoError(t, db.Start(infra.Lifecycle))
	assert.Error(t, infra.Lifecycle.WaitForStartup())

	rec := serve(router, "/readyz")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decodeReadiness(t, rec)
	require.Len(t, body.Hooks, 1)
	assert.Equal(t, "password authentication failed", body.Hooks[0].Error)
}

func TestRouterWithoutMetricsPath(t *testing.T) {
	cfg := &config.Config{}
	infra, err := infrastructure.New(withTestStores(cfg))
	require.NoError(t, err)
	t.Cleanup(func() { infra.Database.Connection().Close() })

	var router http.Handler
	require.NotPanics(t, func() { router = buildRouter(infra, cfg) })
	assert.Equal(t, http.StatusOK, serve(router, "/healthz").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, "/metrics").Code)
}

func TestHTTPServerBindFailure(t *testing.T) {
	cfg := &config.ServerConfig{Host: "127.0.0.1"}
	require.NoError(t, cfg.Finalize())
	cfg.Port = 0

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	first := newHTTPServer(cfg, http.NotFoundHandler(), logger)
	lc := lifecycle.New()
	require.NoError(t, first.Start(lc))
	t.Cleanup(func() { _ = lc.Shutdown(time.Second) })

	taken := *cfg
	taken.Port = first.Addr().(*net.TCPAddr).Port
	second := newHTTPServer(&taken, http.NotFoundHandler(), logger)
	assert.ErrorContains(t, second.Start(lifecycle.New()), "listen")
}

func TestMetricsEndpoint(t *testing.T) {
	cfg := &config.Config{Metrics: config.MetricsConfig{Path: "/metrics"}}
	infra := testInfra(t, cfg)
	infra.Metrics.ObserveClassification("HIGH", "preview", 71, false)

	rec := serve(buildRouter(infra, cfg), "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `warden_classifications_total{origin="preview",tier="HIGH"} 1`)
}

func TestMetricsDisabled(t *testing.T) {
	off := false
	cfg := &config.Config{Metrics: config.MetricsConfig{Enabled: &off, Path: "/metrics"}}
	infra := testInfra(t, cfg)

	assert.Equal(t, http.StatusNotFound, serve(buildRouter(infra, cfg), "/metrics").Code)
}
