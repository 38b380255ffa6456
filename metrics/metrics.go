// Package metrics exposes Prometheus collectors for the archive API.
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

// Metrics holds Prometheus metrics for the archive backend.
//
// Metrics:
//   - tjarchive_http_requests_total{route,method,status}
//   - tjarchive_http_request_duration_seconds{route,method}
//   - tjarchive_decision_fetch_failures_total{reason}
//   - tjarchive_records_loaded{feed}
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal         *prometheus.CounterVec
	RequestDuration       *prometheus.HistogramVec
	DecisionFetchFailures *prometheus.CounterVec
	RecordsLoaded         *prometheus.GaugeVec
}

// NewMetrics creates the collectors on a dedicated registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tjarchive_http_requests_total",
				Help: "Total number of HTTP requests served",
			},
			[]string{"route", "method", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tjarchive_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		DecisionFetchFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tjarchive_decision_fetch_failures_total",
				Help: "Total number of failed decision detail fetches",
			},
			[]string{"reason"}, // "not_found" or "unavailable"
		),
		RecordsLoaded: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tjarchive_records_loaded",
				Help: "Number of records held in memory per feed",
			},
			[]string{"feed"}, // "decisions" or "revocations"
		),
	}
}

// ObserveRequest records one served request
func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.RequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
