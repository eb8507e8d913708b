// Package metrics holds the Prometheus collectors for prayer-time
// computations and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	computations    *prometheus.CounterVec
	fallbacks       prometheus.Counter
	computeLatency  *prometheus.HistogramVec
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New creates the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		computations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "miqat_computations_total",
				Help: "Total number of prayer time computations by backend",
			},
			[]string{"backend"},
		),
		fallbacks: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "miqat_backend_fallbacks_total",
				Help: "Total number of reference backend calls answered by the local engine",
			},
		),
		computeLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "miqat_compute_latency_ms",
				Help:    "Latency of prayer time computations in milliseconds",
				Buckets: []float64{0.01, 0.1, 1, 10, 50, 100, 250, 500, 1000, 2500},
			},
			[]string{"backend"},
		),
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "miqat_http_requests_total",
				Help: "Total number of HTTP requests by route and status",
			},
			[]string{"route", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "miqat_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}
}

// ObserveCompute records one computation answered by backend.
func (m *Metrics) ObserveCompute(backend string, d time.Duration) {
	if m == nil {
		return
	}
	m.computations.WithLabelValues(backend).Inc()
	m.computeLatency.WithLabelValues(backend).Observe(float64(d) / float64(time.Millisecond))
}

// IncrementFallbacks counts a reference call that fell back to the local engine.
func (m *Metrics) IncrementFallbacks() {
	if m == nil {
		return
	}
	m.fallbacks.Inc()
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(d.Seconds())
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
