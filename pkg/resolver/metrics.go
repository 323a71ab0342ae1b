package resolver

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Resolution outcomes used as metric label values.
const (
	outcomeFound         = "found"
	outcomeInvalidDomain = "invalid_domain"
	outcomeNotFound      = "not_found"
	outcomeError         = "error"
)

// Metrics records resolution counts and latencies.
type Metrics struct {
	resolutions *prometheus.CounterVec
	duration    prometheus.Histogram
}

// NewMetrics creates the resolver metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vhost_inspector_resolutions_total",
				Help: "Total number of virtual host resolutions by outcome",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "vhost_inspector_resolution_duration_seconds",
				Help:    "Time spent resolving a domain to its parsed site configuration",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
			},
		),
	}
	for _, outcome := range []string{outcomeFound, outcomeInvalidDomain, outcomeNotFound, outcomeError} {
		m.resolutions.WithLabelValues(outcome)
	}
	reg.MustRegister(m.resolutions, m.duration)
	return m
}

func (m *Metrics) observe(outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(outcome).Inc()
	m.duration.Observe(time.Since(start).Seconds())
}
