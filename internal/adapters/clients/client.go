package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/bour278/bourbaki/internal/adapters/http/middleware"
	"github.com/bour278/bourbaki/internal/platform/logging"
)

const (
	instrumentationName = "github.com/bour278/bourbaki/internal/adapters/clients"

	// backoffJitterFactor is the jitter fraction applied to each backoff (±25%).
	backoffJitterFactor = 0.25

	// backoffMultiplier grows the delay between attempts.
	backoffMultiplier = 2.0

	defaultTimeout        = 10 * time.Second
	defaultMaxAttempts    = 3
	defaultInitialBackoff = 200 * time.Millisecond
	defaultMaxBackoff     = 2 * time.Second
)

// Config configures a Client.
type Config struct {
	// BaseURL is the blog's public root, e.g. "https://blog.example.org".
	BaseURL string

	// Timeout is the per-attempt request timeout.
	Timeout time.Duration

	// MaxAttempts counts the first try. Values below 1 use the default.
	MaxAttempts int

	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	// Logger is optional.
	Logger *slog.Logger

	// Transport overrides the HTTP transport, mainly for tests.
	Transport http.RoundTripper
}

// Client talks to a running blog server. Requests are retried on network
// failures and 5xx responses, carry a request ID and trace context, and are
// wrapped in a client span.
type Client struct {
	http           *http.Client
	baseURL        string
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         *slog.Logger
	tracer         trace.Tracer
}

// New creates a Client.
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	if cfg.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = defaultMaxAttempts
	}

	initial := cfg.InitialBackoff
	if initial <= 0 {
		initial = defaultInitialBackoff
	}

	maxBackoff := cfg.MaxBackoff
	if maxBackoff <= 0 {
		maxBackoff = defaultMaxBackoff
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		http: &http.Client{
			Timeout:   timeout,
			Transport: cfg.Transport,
		},
		baseURL:        strings.TrimSuffix(cfg.BaseURL, "/"),
		maxAttempts:    attempts,
		initialBackoff: initial,
		maxBackoff:     maxBackoff,
		logger:         logger.With(slog.String("component", "clients.Client")),
		tracer:         otel.Tracer(instrumentationName),
	}, nil
}

// BaseURL returns the normalised base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get performs a GET against path with retries. The caller closes the body.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(path), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	return c.Do(ctx, req)
}

// Do executes req. Only bodiless requests are safe to retry.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	start := time.Now()
	logger := logging.FromContext(ctx).With(
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
	)

	ctx, span := c.tracer.Start(ctx, "HTTP "+req.Method+" "+req.URL.Path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", req.URL.String()),
		),
	)
	defer span.End()

	c.injectHeaders(ctx, req)

	var lastErr error

	for attempt := range c.maxAttempts {
		if attempt > 0 {
			backoff := c.backoff(attempt)
			logger.Debug("retrying request",
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
			)

			select {
			case <-ctx.Done():
				span.SetStatus(codes.Error, ctx.Err().Error())
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err := c.http.Do(req.WithContext(ctx))
		if err != nil {
			lastErr = err
			if isRetryableError(err) {
				continue
			}

			break
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
			_ = resp.Body.Close()

			continue
		}

		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
		if resp.StatusCode >= http.StatusBadRequest {
			span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", resp.StatusCode))
		}

		logger.Debug("request completed",
			slog.Int("status", resp.StatusCode),
			slog.Duration("duration", time.Since(start)),
		)

		return resp, nil
	}

	span.SetStatus(codes.Error, lastErr.Error())
	logger.Warn("request failed",
		slog.Duration("duration", time.Since(start)),
		slog.Any("error", lastErr),
	)

	return nil, fmt.Errorf("%w: %w", ErrMaxRetriesExceeded, lastErr)
}

// injectHeaders propagates request and correlation IDs plus trace context.
// A fresh request ID is minted when ctx carries none.
func (c *Client) injectHeaders(ctx context.Context, req *http.Request) {
	requestID := middleware.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	req.Header.Set(middleware.HeaderRequestID, requestID)

	if correlationID := middleware.CorrelationIDFromContext(ctx); correlationID != "" {
		req.Header.Set(middleware.HeaderCorrelationID, correlationID)
	}

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
}

func (c *Client) buildURL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return c.baseURL + path
}

// backoff is exponential with ±25% jitter, capped at maxBackoff.
func (c *Client) backoff(attempt int) time.Duration {
	d := float64(c.initialBackoff) * math.Pow(backoffMultiplier, float64(attempt-1))
	if d > float64(c.maxBackoff) {
		d = float64(c.maxBackoff)
	}

	jitter := (rand.Float64()*2 - 1) * backoffJitterFactor //nolint:gosec // jitter only

	return time.Duration(d + d*jitter)
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError

	return errors.As(err, &opErr)
}
