package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/summitpoint/quotedesk/internal/adapters/http/handlers"
	"github.com/summitpoint/quotedesk/internal/platform/config"
	"github.com/summitpoint/quotedesk/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testServerConfig() *config.ServerConfig {
	return &config.ServerConfig{
		Host:           "127.0.0.1",
		Port:           0,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    30 * time.Second,
		MaxRequestSize: 1 << 20,
	}
}

func TestServerNew(t *testing.T) {
	cfg := testServerConfig()
	logger := testLogger()

	srv := New(cfg, logger)

	require.NotNil(t, srv)
	assert.NotNil(t, srv.engine)
	assert.NotNil(t, srv.httpServer)
	assert.Equal(t, cfg, srv.config)
	assert.Equal(t, logger, srv.logger)
}

func TestServerEngine(t *testing.T) {
	srv := New(testServerConfig(), testLogger())

	require.NotNil(t, srv.Engine())
	assert.IsType(t, &gin.Engine{}, srv.Engine())
}

func TestServerConfig(t *testing.T) {
	cfg := testServerConfig()
	cfg.Host = "0.0.0.0"
	cfg.Port = 3000

	srv := New(cfg, testLogger())

	assert.Equal(t, cfg, srv.Config())
	assert.Equal(t, "0.0.0.0:3000", srv.Addr())
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		name string
		host string
		port int
		want string
	}{
		{name: "localhost", host: "localhost", port: 8080, want: "localhost:8080"},
		{name: "all interfaces", host: "0.0.0.0", port: 3000, want: "0.0.0.0:3000"},
		{name: "dynamic port", host: "127.0.0.1", port: 0, want: "127.0.0.1:0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testServerConfig()
			cfg.Host = tt.host
			cfg.Port = tt.port

			assert.Equal(t, tt.want, New(cfg, testLogger()).Addr())
		})
	}
}

func TestServerStartShutdown(t *testing.T) {
	srv := New(testServerConfig(), testLogger())

	srv.Engine().GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	errCh := srv.Start()

	time.Sleep(100 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, srv.Shutdown(ctx))

	for err := range errCh {
		require.NoError(t, err)
	}
}

func TestMaxBodySize(t *testing.T) {
	cfg := testServerConfig()
	cfg.MaxRequestSize = 16

	srv := New(cfg, testLogger())
	srv.Engine().POST("/echo", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}

		c.String(http.StatusOK, "%d", len(body))
	})

	t.Run("under the limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("small"))
		srv.Engine().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("over the limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/echo",
			strings.NewReader(strings.Repeat("x", 64)))
		srv.Engine().ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func TestNewDefaultRouterConfig(t *testing.T) {
	logger := testLogger()
	appCfg := &config.AppConfig{Name: "quotedesk", Version: "test", Environment: "test"}
	authCfg := &config.AuthConfig{}
	healthHandler := handlers.NewHealthHandler(ports.NewHealthRegistry(), handlers.BuildInfo{})

	cfg := NewDefaultRouterConfig(logger, appCfg, authCfg, healthHandler)

	assert.Equal(t, logger, cfg.Logger)
	assert.Equal(t, appCfg, cfg.AppConfig)
	assert.Equal(t, authCfg, cfg.AuthConfig)
	assert.Equal(t, healthHandler, cfg.HealthHandler)
	assert.Equal(t, DefaultRequestTimeout, cfg.Timeout)
}

// setupTestRouter wires a router with the stateless pricing handler, which
// needs no collaborators, plus health routes.
func setupTestRouter(t *testing.T, authCfg *config.AuthConfig) *gin.Engine {
	t.Helper()

	engine := gin.New()

	SetupRouter(engine, RouterConfig{
		Logger:         testLogger(),
		AuthConfig:     authCfg,
		AppConfig:      &config.AppConfig{Name: "quotedesk", Version: "test", Environment: "test"},
		HealthHandler:  handlers.NewHealthHandler(ports.NewHealthRegistry(), handlers.BuildInfo{}),
		PricingHandler: handlers.NewPricingHandler(),
		Timeout:        5 * time.Second,
	})

	return engine
}

func TestSetupRouter_HealthRoutesOpen(t *testing.T) {
	engine := setupTestRouter(t, &config.AuthConfig{
		Enabled:   true,
		AccessKey: "sk-test",
	})

	for _, path := range []string{"/-/live", "/-/ready", "/-/build", "/-/metrics"} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, "%s must not require an access key", path)
	}
}

func TestSetupRouter_APIRequiresAccessKey(t *testing.T) {
	engine := setupTestRouter(t, &config.AuthConfig{
		Enabled:   true,
		AccessKey: "sk-test",
	})

	body := `{"materialsSubtotal": "100"}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pricing/preview", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/pricing/preview", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Access-Key", "sk-test")
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestSetupRouter_AuthDisabled(t *testing.T) {
	engine := setupTestRouter(t, &config.AuthConfig{Enabled: false})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pricing/preview",
		strings.NewReader(`{"materialsSubtotal": "100"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestSetupRouter_RequestIDHeader(t *testing.T) {
	engine := setupTestRouter(t, &config.AuthConfig{Enabled: false})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/-/live", nil))

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.NotEmpty(t, w.Header().Get("X-Correlation-ID"))
}

func TestSetupRouter_UnknownRoute(t *testing.T) {
	engine := setupTestRouter(t, &config.AuthConfig{Enabled: false})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
