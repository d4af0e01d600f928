package telemetry

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/bour278/bourbaki/telemetry"

// TraceIDHeader carries the active trace ID back to the caller.
const TraceIDHeader = "X-Trace-ID"

// postRoute is the only route whose reads are counted per post.
const postRoute = "/api/posts/:slug"

// staticRoute labels requests served by the front-end fallback, which have no
// registered route. Keeps metric cardinality bounded.
const staticRoute = "static"

// HTTPMetrics are the OTel instruments recorded for every request.
type HTTPMetrics struct {
	requestDuration metric.Float64Histogram
	requestTotal    metric.Int64Counter
	activeRequests  metric.Int64UpDownCounter
	postReads       metric.Int64Counter
}

// NewHTTPMetrics creates the instruments on meter.
func NewHTTPMetrics(meter metric.Meter) (*HTTPMetrics, error) {
	var (
		m   HTTPMetrics
		err error
	)

	if m.requestDuration, err = meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.requestTotal, err = meter.Int64Counter(
		"http.server.request.total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.activeRequests, err = meter.Int64UpDownCounter(
		"http.server.active_requests",
		metric.WithDescription("Number of in-flight HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.postReads, err = meter.Int64Counter(
		"blog.post.reads",
		metric.WithDescription("Successful single-post reads by slug"),
	); err != nil {
		return nil, err
	}

	return &m, nil
}

func routeOf(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}

	return staticRoute
}

// Middleware records request metrics on the global meter and echoes the trace
// ID in TraceIDHeader. It must run after TracingMiddleware.
func Middleware() gin.HandlerFunc {
	metrics, err := NewHTTPMetrics(otel.Meter(instrumentationName))
	if err != nil {
		otel.Handle(err)
		metrics = nil
	}

	return MiddlewareWith(metrics)
}

// MiddlewareWith is Middleware over explicit instruments. A nil metrics only
// sets the trace header.
func MiddlewareWith(metrics *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		// Headers must be set before the handler writes the body.
		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			c.Header(TraceIDHeader, sc.TraceID().String())
		}

		if metrics == nil {
			c.Next()
			return
		}

		start := time.Now()
		route := routeOf(c)
		inFlight := metric.WithAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", route),
		)

		metrics.activeRequests.Add(ctx, 1, inFlight)
		defer metrics.activeRequests.Add(ctx, -1, inFlight)

		c.Next()

		status := c.Writer.Status()
		done := metric.WithAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
		)
		metrics.requestDuration.Record(ctx, time.Since(start).Seconds(), done)
		metrics.requestTotal.Add(ctx, 1, done)

		if route == postRoute && status == http.StatusOK {
			metrics.postReads.Add(ctx, 1, metric.WithAttributes(attribute.String("post.slug", c.Param("slug"))))
		}
	}
}

// TracingMiddleware starts a server span per request via otelgin.
func TracingMiddleware(serviceName string, opts ...otelgin.Option) gin.HandlerFunc {
	return otelgin.Middleware(serviceName, opts...)
}
