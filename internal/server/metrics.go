package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics are registered per handler so that tests can build several
// handlers without colliding in a global registry.
type metrics struct {
	requests           *prometheus.CounterVec
	projectionDuration prometheus.Histogram
	instruments        *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "wealth_math",
				Name:      "http_requests_total",
				Help:      "HTTP API requests by endpoint and status code.",
			},
			[]string{"endpoint", "status"},
		),
		projectionDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "wealth_math",
				Name:      "projection_duration_seconds",
				Help:      "Time spent loading, validating and projecting a configuration.",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
		),
		instruments: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "wealth_math",
				Name:      "projected_instruments_total",
				Help:      "Instruments included in successful projections, by kind.",
			},
			[]string{"kind"},
		),
	}
}

// newRegistry returns a registry carrying the Go runtime and process
// collectors.
func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}
