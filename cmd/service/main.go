// Package main is the entry point for the quote keeper service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/jsamuelsen/quote-keeper/internal/adapters/clients"
	"github.com/jsamuelsen/quote-keeper/internal/adapters/clients/acl"
	"github.com/jsamuelsen/quote-keeper/internal/adapters/http"
	"github.com/jsamuelsen/quote-keeper/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-keeper/internal/adapters/notify"
	"github.com/jsamuelsen/quote-keeper/internal/adapters/storage/memory"
	"github.com/jsamuelsen/quote-keeper/internal/adapters/storage/sqlite"
	"github.com/jsamuelsen/quote-keeper/internal/app"
	"github.com/jsamuelsen/quote-keeper/internal/platform/config"
	"github.com/jsamuelsen/quote-keeper/internal/platform/logging"
	"github.com/jsamuelsen/quote-keeper/internal/platform/metrics"
	"github.com/jsamuelsen/quote-keeper/internal/platform/telemetry"
	"github.com/jsamuelsen/quote-keeper/internal/ports"
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

	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging
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
	slog.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	// 4. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,

		RemoteEndpoint: cfg.Remote.BaseURL + cfg.Remote.Path,
		SyncInterval:   cfg.Sync.Interval,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 5. Open storage: durable quotes and selection, per-process session
	durable, err := sqlite.Open(ctx, sqlite.Config{
		Path:        cfg.Storage.Path,
		BusyTimeout: cfg.Storage.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}

	defer func() {
		if closeErr := durable.Close(); closeErr != nil {
			logger.Error("storage close error", slog.Any("error", closeErr))
		}
	}()

	session := memory.New()

	m, err := metrics.New(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}

	// 6. Hydrate the quote store
	store := app.NewQuoteStore(app.QuoteStoreConfig{
		Durable:  durable,
		Observer: m,
		Logger:   logger,
	})
	store.Load(ctx)

	notifications := notify.NewCenter(cfg.Notify.TTL)
	defer notifications.Close()

	// 7. Create the remote gateway (ACL over the resilient HTTP client)
	httpClient, err := clients.New(&clients.Config{
		BaseURL:     cfg.Remote.BaseURL,
		ServiceName: cfg.Remote.Name,
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		UserAgent:   cfg.App.Name + "/" + Version,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("creating HTTP client: %w", err)
	}

	gateway := acl.NewRemoteQuoteClient(acl.RemoteQuoteClientConfig{
		Client:            httpClient,
		Path:              cfg.Remote.Path,
		SubmitMaxAttempts: cfg.Remote.SubmitMaxAttempts,
		Limiter:           rate.NewLimiter(rate.Limit(cfg.Remote.SubmitRatePerSecond), cfg.Remote.SubmitBurst),
		Logger:            logger,
	})

	// 8. Register health checks
	healthRegistry := ports.NewHealthRegistry()

	for _, checker := range []ports.HealthChecker{durable, gateway} {
		if err := healthRegistry.Register(checker); err != nil {
			return fmt.Errorf("registering %s health check: %w", checker.Name(), err)
		}
	}

	// 9. Create application services
	quoteService := app.NewQuoteService(app.QuoteServiceConfig{
		Store:    store,
		Durable:  durable,
		Session:  session,
		Notifier: notifications,
		Logger:   logger,
	})

	syncService := app.NewSyncService(app.SyncServiceConfig{
		Store:             store,
		Gateway:           gateway,
		Notifier:          notifications,
		OnSynced:          quoteService.Refresh,
		Interval:          cfg.Sync.Interval,
		SubmitConcurrency: cfg.Sync.SubmitConcurrency,
		Metrics:           m,
		Logger:            logger,
	})

	// Show a quote right away, matching what a fresh display does.
	quoteService.Refresh(ctx)

	syncCtx, stopSync := context.WithCancel(ctx)

	var background sync.WaitGroup

	// The loop must finish before storage is closed.
	defer func() {
		stopSync()
		background.Wait()
	}()

	if cfg.Sync.Enabled {
		background.Go(func() { syncService.Run(syncCtx) })
	}

	// 10. Create handlers
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)

	// 11. Create HTTP server and router
	server := http.New(&cfg.Server, logger)

	http.SetupRouter(server.Engine(), http.RouterConfig{
		ServiceName:         cfg.App.Name,
		HealthHandler:       handlers.NewHealthHandler(healthRegistry, buildInfo, prometheus.DefaultGatherer),
		QuoteHandler:        handlers.NewQuoteHandler(quoteService),
		SyncHandler:         handlers.NewSyncHandler(syncService, cfg.Sync.Enabled),
		NotificationHandler: handlers.NewNotificationHandler(notifications),
		Timeout:             cfg.Server.RequestTimeout,
	})

	// 12. Start server (non-blocking)
	serverErr, err := server.Start()
	if err != nil {
		return fmt.Errorf("starting server: %w", err)
	}

	logger.Info("server listening", slog.String("addr", server.Addr()))

	// 13. Wait for shutdown signal
	return waitForShutdown(ctx, logger, server, serverErr, stopSync, cfg.Server.ShutdownTimeout)
}

// waitForShutdown blocks until a shutdown signal is received or server error occurs.
// It then stops the sync loop and drains the HTTP server.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	stopSync context.CancelFunc,
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

	stopSync()

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
