// Package handlers provides the gin handlers for the blog API, the RSS feed
// and the operational /-/ endpoints.
package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bour278/bourbaki/internal/ports"
)

// BuildInfo is served on /-/build. Version, Commit and BuildTime are
// injected with ldflags.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`

	// Content describes the start-up load, when known.
	Content *ContentSummary `json:"content,omitempty"`
}

// ContentSummary is what the server loaded at start-up.
type ContentSummary struct {
	Dir      string    `json:"dir"`
	Posts    int       `json:"posts"`
	Skipped  int       `json:"skipped"`
	LoadedAt time.Time `json:"loadedAt"`
}

// NewBuildInfo creates a BuildInfo with the Go version automatically set.
func NewBuildInfo(version, commit, buildTime string) BuildInfo {
	return BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}
}

// WithContent returns a copy carrying the content summary.
func (b BuildInfo) WithContent(summary ContentSummary) BuildInfo {
	b.Content = &summary
	return b
}

// HealthHandler serves liveness, readiness, build info and metrics.
type HealthHandler struct {
	registry  ports.HealthRegistry
	buildInfo BuildInfo
	gatherer  prometheus.Gatherer
}

// HealthOption configures a HealthHandler.
type HealthOption func(*HealthHandler)

// WithGatherer serves metrics from g instead of the default registry.
func WithGatherer(g prometheus.Gatherer) HealthOption {
	return func(h *HealthHandler) {
		h.gatherer = g
	}
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(registry ports.HealthRegistry, buildInfo BuildInfo, opts ...HealthOption) *HealthHandler {
	h := &HealthHandler{
		registry:  registry,
		buildInfo: buildInfo,
		gatherer:  prometheus.DefaultGatherer,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

type livenessResponse struct {
	Status string `json:"status"`
}

// Liveness always answers 200 while the process runs. It checks nothing.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, livenessResponse{
		Status: "ok",
	})
}

type readinessResponse struct {
	Status string                        `json:"status"`
	Checks map[string]*ports.CheckResult `json:"checks,omitempty"`
}

// Readiness runs every registered check: 200 when all pass, 503 otherwise.
// With content.require_posts set, an empty blog is not ready.
func (h *HealthHandler) Readiness(c *gin.Context) {
	result := h.registry.CheckAll(c.Request.Context())

	status := http.StatusOK
	if result.Status == ports.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, readinessResponse{
		Status: string(result.Status),
		Checks: result.Checks,
	})
}

// BuildInfoHandler serves /-/build.
func (h *HealthHandler) BuildInfoHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.buildInfo)
}

// Metrics returns the Prometheus exposition handler.
func (h *HealthHandler) Metrics() http.Handler {
	return promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})
}

// RegisterHealthRoutes registers, under rg:
//   - GET|HEAD /live
//   - GET|HEAD /ready
//   - GET /build
//   - GET /metrics
func (h *HealthHandler) RegisterHealthRoutes(rg *gin.RouterGroup) {
	rg.GET("/live", h.Liveness)
	rg.HEAD("/live", h.Liveness)
	rg.GET("/ready", h.Readiness)
	rg.HEAD("/ready", h.Readiness)
	rg.GET("/build", h.BuildInfoHandler)
	rg.GET("/metrics", gin.WrapH(h.Metrics()))
}

// RegisterHealthRoutesOnEngine registers the routes under /-.
func (h *HealthHandler) RegisterHealthRoutesOnEngine(engine *gin.Engine) {
	h.RegisterHealthRoutes(engine.Group("/-"))
}
