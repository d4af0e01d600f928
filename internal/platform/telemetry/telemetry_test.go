package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNew_Disabled(t *testing.T) {
	p, err := New(context.Background(), &Config{Enabled: false})
	require.NoError(t, err)
	assert.NoError(t, p.Shutdown(context.Background()))

	p, err = New(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, p.Enabled())
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNew_DisabledInstallsPropagator(t *testing.T) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator())

	_, err := New(context.Background(), &Config{Enabled: false})
	require.NoError(t, err)

	assert.Contains(t, otel.GetTextMapPropagator().Fields(), "traceparent")
}

func TestNewResource_MergesWithSDKDefaults(t *testing.T) {
	res, err := newResource(&Config{
		ServiceName: "bourbaki",
		Version:     "1.2.3",
		Environment: "prod",
	})
	require.NoError(t, err)

	attrs := res.Set()
	name, ok := attrs.Value("service.name")
	require.True(t, ok)
	assert.Equal(t, "bourbaki", name.AsString())

	env, ok := attrs.Value("deployment.environment")
	require.True(t, ok)
	assert.Equal(t, "prod", env.AsString())

	_, ok = attrs.Value("telemetry.sdk.version")
	assert.True(t, ok)
}

func TestNew_Enabled(t *testing.T) {
	t.Cleanup(func() {
		otel.SetTracerProvider(tracenoop.NewTracerProvider())
		otel.SetMeterProvider(metricnoop.NewMeterProvider())
	})

	// gRPC dials lazily, so an unreachable collector does not fail start-up.
	p, err := New(context.Background(), &Config{
		Enabled:        true,
		Endpoint:       "127.0.0.1:1",
		Insecure:       true,
		ServiceName:    "bourbaki-test",
		Version:        "1.2.3",
		Environment:    "prod",
		SamplingRate:   1,
		ExportInterval: time.Hour,
	})
	require.NoError(t, err)
	assert.True(t, p.Enabled())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_ = p.Shutdown(ctx)
}

func TestRouteOf(t *testing.T) {
	router := gin.New()

	var seen []string
	router.Use(func(c *gin.Context) {
		c.Next()
		seen = append(seen, routeOf(c))
	})
	router.GET("/api/posts/:slug", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.NoRoute(func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/api/posts/euler", "/blog/euler"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, []string{"/api/posts/:slug", staticRoute}, seen)
}

func TestMiddleware_PassesThrough(t *testing.T) {
	router := gin.New()
	router.Use(TracingMiddleware("bourbaki"), Middleware())
	router.GET("/api/categories", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/categories", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestMiddleware_TraceIDHeader(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	router := gin.New()
	router.Use(TracingMiddleware("bourbaki", otelgin.WithTracerProvider(tp)), MiddlewareWith(nil))
	router.GET("/api/posts", func(c *gin.Context) { c.JSON(http.StatusOK, []string{}) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/posts", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, w.Header().Get(TraceIDHeader), 32)
}

func TestMiddleware_CountsPostReads(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	metrics, err := NewHTTPMetrics(mp.Meter("test"))
	require.NoError(t, err)

	router := gin.New()
	router.Use(MiddlewareWith(metrics))
	router.GET("/api/posts/:slug", func(c *gin.Context) {
		if c.Param("slug") == "missing" {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusOK)
	})

	for _, path := range []string{"/api/posts/euler", "/api/posts/euler", "/api/posts/missing"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	reads := findSum(t, rm, "blog.post.reads")
	require.Len(t, reads.DataPoints, 1)
	assert.Equal(t, int64(2), reads.DataPoints[0].Value)

	slug, ok := reads.DataPoints[0].Attributes.Value("post.slug")
	require.True(t, ok)
	assert.Equal(t, "euler", slug.AsString())

	total := findSum(t, rm, "http.server.request.total")
	var sum int64
	for _, dp := range total.DataPoints {
		sum += dp.Value
	}
	assert.Equal(t, int64(3), sum)
}

func findSum(t *testing.T, rm metricdata.ResourceMetrics, name string) metricdata.Sum[int64] {
	t.Helper()

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "%s is %T", name, m.Data)
			return sum
		}
	}

	t.Fatalf("metric %s not collected", name)
	return metricdata.Sum[int64]{}
}
