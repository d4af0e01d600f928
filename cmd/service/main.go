// Package main is the entry point for the blog server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bour278/bourbaki/internal/adapters/http"
	"github.com/bour278/bourbaki/internal/adapters/http/handlers"
	"github.com/bour278/bourbaki/internal/adapters/memory"
	"github.com/bour278/bourbaki/internal/app"
	"github.com/bour278/bourbaki/internal/content"
	"github.com/bour278/bourbaki/internal/feed"
	"github.com/bour278/bourbaki/internal/platform/config"
	"github.com/bour278/bourbaki/internal/platform/logging"
	"github.com/bour278/bourbaki/internal/platform/telemetry"
	"github.com/bour278/bourbaki/internal/ports"
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
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	// 4. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		ServiceName:    cfg.Telemetry.ServiceName,
		Version:        cfg.App.Version,
		Environment:    cfg.App.Environment,
		SamplingRate:   cfg.Telemetry.SamplingRate,
		ExportInterval: cfg.Telemetry.ExportInterval,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	metrics, err := telemetry.NewContentMetrics(nil)
	if err != nil {
		return fmt.Errorf("registering content metrics: %w", err)
	}

	// 5. Load posts into the in-memory store
	store := memory.NewPostStore()

	loader := app.NewContentLoader(app.ContentLoaderConfig{
		Dir:           cfg.Content.Dir,
		IncludeDrafts: cfg.Content.IncludeDrafts,
		Processor: content.NewProcessor(content.Options{
			ExcerptLength:  cfg.Content.ExcerptLength,
			WordsPerMinute: cfg.Content.WordsPerMinute,
			Sanitize:       cfg.Content.Sanitize,
		}),
		Repository: store,
		Observer:   metrics,
		Logger:     logger,
	})

	report, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading posts: %w", err)
	}

	// 6. Create the blog service and register it for readiness
	blog := app.NewBlogService(app.BlogServiceConfig{
		Posts: store,
		Feed: feed.NewGenerator(feed.Config{
			Title:       cfg.Feed.Title,
			Description: cfg.Feed.Description,
			Language:    cfg.Feed.Language,
			Author:      cfg.Feed.Author,
		}),
		Observer:     metrics,
		RequirePosts: cfg.Content.RequirePosts,
		Logger:       logger,
	})

	healthRegistry := ports.NewHealthRegistry()
	if err := healthRegistry.Register(blog); err != nil {
		return fmt.Errorf("registering content health check: %w", err)
	}

	// 7. Create handlers
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime).WithContent(handlers.ContentSummary{
		Dir:      report.Dir,
		Posts:    len(report.Loaded),
		Skipped:  len(report.Skipped),
		LoadedAt: time.Now().UTC(),
	})

	webDir := ""
	if cfg.Web.Enabled {
		webDir = cfg.Web.Dir
	}

	// 8. Create HTTP server and routes
	server := http.New(&cfg.Server, logger)

	http.SetupRouter(server.Engine(), http.RouterConfig{
		Logger:        logger,
		ServiceName:   cfg.App.Name,
		HealthHandler: handlers.NewHealthHandler(healthRegistry, buildInfo),
		PostHandler:   handlers.NewPostHandler(blog),
		FeedHandler:   handlers.NewFeedHandler(blog, cfg.Feed.BaseURL),
		WebDir:        webDir,
		Timeout:       cfg.Server.RequestTimeout,
	})

	// 9. Serve until SIGINT/SIGTERM, then drain
	if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
