package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics tracks conversion outcomes per format pair.
type metrics struct {
	conversions *prometheus.CounterVec
	duration    prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		conversions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pandocd_conversions_total",
			Help: "Conversions by source format, target format, and outcome.",
		}, []string{"from", "to", "outcome"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pandocd_conversion_duration_seconds",
			Help:    "Wall-clock duration of pandoc invocations.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
	}
}

func (m *metrics) observe(from, to, outcome string, elapsed time.Duration) {
	m.conversions.WithLabelValues(from, to, outcome).Inc()
	m.duration.Observe(elapsed.Seconds())
}
