package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the server's Prometheus collectors on a private registry.
type Metrics struct {
	registry     *prometheus.Registry
	features     prometheus.Gauge
	loadFailures prometheus.Counter
	views        *prometheus.CounterVec
	results      prometheus.Histogram
}

// NewMetrics registers the collectors, including Go runtime metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		features: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "obras_dataset_features",
			Help: "Number of works in the loaded dataset.",
		}),
		loadFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "obras_dataset_load_failures_total",
			Help: "Dataset loads that failed.",
		}),
		views: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "obras_view_requests_total",
			Help: "Filter requests by camera mode.",
		}, []string{"mode"}),
		results: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "obras_view_results",
			Help:    "Number of works matched per filter request.",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		}),
	}

	m.registry.MustRegister(
		m.features,
		m.loadFailures,
		m.views,
		m.results,
		collectors.NewGoCollector(),
	)

	return m
}

// Handler exposes the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
