package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/summitpoint/quotedesk/internal/adapters/http/handlers"
	"github.com/summitpoint/quotedesk/internal/adapters/http/middleware"
	"github.com/summitpoint/quotedesk/internal/platform/config"
	"github.com/summitpoint/quotedesk/internal/platform/telemetry"
)

// DefaultRequestTimeout is the default timeout for API requests.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig contains everything SetupRouter needs to wire the routes.
type RouterConfig struct {
	// Logger is the structured logger for request logging.
	Logger *slog.Logger

	// AuthConfig is the shared access key configuration.
	AuthConfig *config.AuthConfig

	// AppConfig names the service for tracing.
	AppConfig *config.AppConfig

	// HealthHandler serves the /-/ operational endpoints.
	HealthHandler *handlers.HealthHandler

	// QuoteHandler serves the persisted-quote endpoints.
	QuoteHandler *handlers.QuoteHandler

	// BuilderHandler serves the interactive editing sessions.
	BuilderHandler *handlers.BuilderHandler

	// PricingHandler serves the stateless pricing preview.
	PricingHandler *handlers.PricingHandler

	// Timeout is the per-request deadline for API routes.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware order (first to last): recovery, request ID, correlation ID,
// OpenTelemetry, request logging. API routes additionally get the request
// deadline and the access key gate; /-/ probes get neither.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.Middleware(cfg.AppConfig.Name),
		middleware.Logging(cfg.Logger),
	)

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	apiV1 := engine.Group("/api/v1")
	if cfg.Timeout > 0 {
		apiV1.Use(middleware.SimpleTimeout(cfg.Timeout))
	}

	apiV1.Use(middleware.RequireAccessKey(cfg.AuthConfig))

	if cfg.QuoteHandler != nil {
		cfg.QuoteHandler.RegisterRoutes(apiV1)
	}

	if cfg.BuilderHandler != nil {
		cfg.BuilderHandler.RegisterRoutes(apiV1)
	}

	if cfg.PricingHandler != nil {
		cfg.PricingHandler.RegisterRoutes(apiV1)
	}
}

// NewDefaultRouterConfig creates a RouterConfig with the default timeout.
func NewDefaultRouterConfig(
	logger *slog.Logger,
	appCfg *config.AppConfig,
	authCfg *config.AuthConfig,
	healthHandler *handlers.HealthHandler,
) RouterConfig {
	return RouterConfig{
		Logger:        logger,
		AuthConfig:    authCfg,
		AppConfig:     appCfg,
		HealthHandler: healthHandler,
		Timeout:       DefaultRequestTimeout,
	}
}
