package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ContentMetrics exposes post loading and feed rendering on /-/metrics.
type ContentMetrics struct {
	postsLoaded prometheus.Gauge
	skipped     *prometheus.CounterVec
	feedRenders prometheus.Counter
}

// NewContentMetrics creates the collectors and registers them with reg.
// A nil reg uses the default Prometheus registry.
func NewContentMetrics(reg prometheus.Registerer) (*ContentMetrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &ContentMetrics{
		postsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "blog",
			Name:      "posts_loaded",
			Help:      "Number of posts currently served.",
		}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blog",
			Name:      "post_load_skipped_total",
			Help:      "Post files skipped during loading, by reason.",
		}, []string{"reason"}),
		feedRenders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "blog",
			Name:      "feed_renders_total",
			Help:      "Number of RSS documents rendered.",
		}),
	}

	for _, c := range []prometheus.Collector{m.postsLoaded, m.skipped, m.feedRenders} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// PostsLoaded sets the loaded post gauge.
func (m *ContentMetrics) PostsLoaded(n int) {
	m.postsLoaded.Set(float64(n))
}

// PostSkipped counts a skipped file.
func (m *ContentMetrics) PostSkipped(reason string) {
	m.skipped.WithLabelValues(reason).Inc()
}

// FeedRendered counts a feed render.
func (m *ContentMetrics) FeedRendered() {
	m.feedRenders.Inc()
}
