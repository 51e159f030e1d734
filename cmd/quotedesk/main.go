// Package main is the entry point for the quote desk service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/summitpoint/quotedesk/internal/adapters/clients"
	"github.com/summitpoint/quotedesk/internal/adapters/clients/acl"
	"github.com/summitpoint/quotedesk/internal/adapters/pdf"
	"github.com/summitpoint/quotedesk/internal/adapters/store/sqlite"
	"github.com/summitpoint/quotedesk/internal/app"
	"github.com/summitpoint/quotedesk/internal/platform/config"
	"github.com/summitpoint/quotedesk/internal/platform/logging"
	"github.com/summitpoint/quotedesk/internal/platform/telemetry"
	"github.com/summitpoint/quotedesk/internal/ports"

	httpadapter "github.com/summitpoint/quotedesk/internal/adapters/http"
	"github.com/summitpoint/quotedesk/internal/adapters/http/handlers"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// Load and validate configuration, failing fast on both.
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	logger.Info("starting quote desk",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("store_driver", cfg.Store.Driver),
	)

	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	healthRegistry := ports.NewHealthRegistry()

	// Quote store: the hosted record store over the anti-corruption
	// adapter, or the embedded sqlite store for standalone deployments.
	var (
		store       ports.QuoteStore
		closeStore  func() error
		storeHealth ports.HealthChecker
	)

	switch cfg.Store.Driver {
	case "sqlite":
		localStore, err := sqlite.Open(sqlite.StoreConfig{
			Path:   cfg.Store.SQLitePath,
			Logger: logger,
		})
		if err != nil {
			return fmt.Errorf("opening sqlite store: %w", err)
		}

		store = localStore
		closeStore = localStore.Close
		storeHealth = &pingChecker{name: cfg.Collaborators.Store.Name, ping: localStore.Ping}

	default:
		storeClient, err := newCollaboratorClient(cfg, cfg.Collaborators.Store, logger)
		if err != nil {
			return fmt.Errorf("creating store client: %w", err)
		}

		remoteStore := acl.NewStoreAdapter(acl.StoreAdapterConfig{
			Client: storeClient,
			Logger: logger,
		})

		store = remoteStore
		storeHealth = &pingChecker{
			name: cfg.Collaborators.Store.Name,
			ping: func(ctx context.Context) error {
				_, err := remoteStore.List(ctx, ports.QuoteFilter{Limit: 1})
				return err
			},
		}
	}

	if closeStore != nil {
		defer func() {
			if closeErr := closeStore(); closeErr != nil {
				logger.Error("store close error", slog.Any("error", closeErr))
			}
		}()
	}

	// Readiness tracks the store only. The relay and photo-analysis
	// collaborators are optional at runtime; the desk degrades without
	// them instead of going unready.
	if err := healthRegistry.Register(storeHealth); err != nil {
		return fmt.Errorf("registering store health check: %w", err)
	}

	notifierClient, err := newCollaboratorClient(cfg, cfg.Collaborators.Notifier, logger)
	if err != nil {
		return fmt.Errorf("creating notifier client: %w", err)
	}

	notifier := acl.NewNotifierAdapter(acl.NotifierAdapterConfig{
		Client: notifierClient,
		Logger: logger,
	})

	analysisClient, err := newCollaboratorClient(cfg, cfg.Collaborators.Analysis, logger)
	if err != nil {
		return fmt.Errorf("creating analysis client: %w", err)
	}

	suggestionClient := acl.NewSuggestionAdapter(acl.SuggestionAdapterConfig{
		Client: analysisClient,
		Logger: logger,
	})

	renderer := pdf.NewRenderer(pdf.RendererConfig{
		CompanyName: cfg.Company.Name,
		Terms:       cfg.Company.Terms,
	})

	quoteService := app.NewQuoteService(app.QuoteServiceConfig{
		Store:  store,
		Logger: logger,
	})

	exportService := app.NewExportService(app.ExportServiceConfig{
		Store:        store,
		Renderer:     renderer,
		Notifier:     notifier,
		CompanyName:  cfg.Company.Name,
		QuoteBaseURL: cfg.Company.QuoteBaseURL,
		Logger:       logger,
	})

	sessions := app.NewSessionManager(app.SessionManagerConfig{
		Store:       store,
		QuietPeriod: cfg.Builder.QuietPeriod,
		SaveTimeout: cfg.Builder.SaveTimeout,
		Logger:      logger,
	})
	defer sessions.CloseAll()

	suggestionService := app.NewSuggestionService(app.SuggestionServiceConfig{
		Client: suggestionClient,
		Logger: logger,
	})

	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)

	server := httpadapter.New(&cfg.Server, logger)

	httpadapter.SetupRouter(server.Engine(), httpadapter.RouterConfig{
		Logger:         logger,
		AuthConfig:     &cfg.Auth,
		AppConfig:      &cfg.App,
		HealthHandler:  handlers.NewHealthHandler(healthRegistry, buildInfo),
		QuoteHandler:   handlers.NewQuoteHandler(quoteService, exportService),
		BuilderHandler: handlers.NewBuilderHandler(sessions, suggestionService),
		PricingHandler: handlers.NewPricingHandler(),
		Timeout:        httpadapter.DefaultRequestTimeout,
	})

	serverErr := server.Start()

	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

// newCollaboratorClient builds the instrumented HTTP client for one
// collaborator, applying its per-endpoint retry override and API key.
func newCollaboratorClient(
	cfg *config.Config,
	collab config.CollaboratorConfig,
	logger *slog.Logger,
) (*clients.Client, error) {
	retry := cfg.Client.Retry
	if collab.MaxAttempts > 0 {
		retry.MaxAttempts = collab.MaxAttempts
	}

	clientCfg := &clients.Config{
		BaseURL:     collab.BaseURL,
		ServiceName: collab.Name,
		Timeout:     cfg.Client.Timeout,
		Retry:       retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Logger:      logger,
	}

	if collab.APIKey != "" {
		key := collab.APIKey
		clientCfg.AuthFunc = func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+key)
		}
	}

	return clients.New(clientCfg)
}

// pingChecker adapts a probe function to the health registry.
type pingChecker struct {
	name string
	ping func(ctx context.Context) error
}

func (c *pingChecker) Name() string {
	return c.name
}

func (c *pingChecker) Check(ctx context.Context) error {
	return c.ping(ctx)
}

// waitForShutdown blocks until a shutdown signal arrives or the server
// fails, then drains in-flight requests within the configured timeout.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *httpadapter.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
