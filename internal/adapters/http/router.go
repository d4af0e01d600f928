package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bour278/bourbaki/internal/adapters/http/handlers"
	"github.com/bour278/bourbaki/internal/adapters/http/middleware"
	"github.com/bour278/bourbaki/internal/platform/telemetry"
)

// DefaultRequestTimeout is the default timeout for API requests.
const DefaultRequestTimeout = 15 * time.Second

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// Logger is the structured logger for request logging.
	Logger *slog.Logger

	// ServiceName names the otel tracer.
	ServiceName string

	// HealthHandler handles the /-/ operational endpoints.
	HealthHandler *handlers.HealthHandler

	// PostHandler serves /api.
	PostHandler *handlers.PostHandler

	// FeedHandler serves /feed.xml.
	FeedHandler *handlers.FeedHandler

	// WebDir holds the built front end. Empty disables static serving.
	WebDir string

	// Timeout is the API request timeout.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Recovery - catch panics first
//  2. Request ID - generate/extract request ID
//  3. Correlation ID - tie together requests of one page view
//  4. OpenTelemetry - tracing and metrics
//  5. Logging - request logging (probes and assets at debug)
//  6. Timeout - per-group deadline on /api and the feed
//
// Route groups:
//   - /-/ (internal): health, build info and Prometheus metrics
//   - /api: the read-only post API
//   - /feed.xml: RSS
//   - everything else: the single-page front end
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "bourbaki"
	}

	engine.HandleMethodNotAllowed = true

	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.TracingMiddleware(serviceName),
		telemetry.Middleware(),
		middleware.Logging(cfg.Logger),
	)

	// Probes get no timeout
	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	api := engine.Group(APIPrefix, middleware.Timeout(timeout))
	if cfg.PostHandler != nil {
		cfg.PostHandler.RegisterRoutes(api)
	}

	if cfg.FeedHandler != nil {
		cfg.FeedHandler.RegisterRoutes(engine.Group("/", middleware.Timeout(timeout)))
	}

	engine.NoMethod(methodNotAllowed)

	if cfg.WebDir != "" {
		engine.NoRoute(SPAHandler(cfg.WebDir, cfg.Logger))
	} else {
		engine.NoRoute(notFound)
	}
}

// SetupMinimalRouter sets up a minimal router with just health endpoints.
// Useful for testing or lightweight deployments.
func SetupMinimalRouter(engine *gin.Engine, logger *slog.Logger, healthHandler *handlers.HealthHandler) {
	engine.Use(
		middleware.Recovery(logger),
		middleware.RequestID(),
	)

	if healthHandler != nil {
		healthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	engine.NoRoute(notFound)
}
