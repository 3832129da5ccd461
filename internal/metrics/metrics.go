// Package metrics exposes Prometheus instruments for upstream requests and
// load cycles. Each Metrics owns its own registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the dex collectors.
type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	loadCycles      *prometheus.CounterVec
	catalogItems    prometheus.Gauge
}

// New registers the dex collectors plus the Go and process collectors on a
// fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dex_upstream_requests_total",
			Help: "PokeAPI requests by endpoint and HTTP status code (0 = no response).",
		}, []string{"endpoint", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dex_upstream_request_duration_seconds",
			Help:    "PokeAPI request latency by endpoint.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		loadCycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dex_load_cycles_total",
			Help: "Completed load cycles by outcome (ready, failed, superseded).",
		}, []string{"outcome"}),
		catalogItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dex_catalog_items",
			Help: "Items in the committed collection.",
		}),
	}
	m.registry.MustRegister(
		m.requests,
		m.requestDuration,
		m.loadCycles,
		m.catalogItems,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRequest implements pokeapi.RequestObserver.
func (m *Metrics) ObserveRequest(endpoint string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(endpoint, strconv.Itoa(code)).Inc()
	m.requestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// ObserveCycle records the outcome of a load cycle and, when ready, the
// committed item count.
func (m *Metrics) ObserveCycle(outcome string, items int) {
	if m == nil {
		return
	}
	m.loadCycles.WithLabelValues(outcome).Inc()
	if outcome == "ready" {
		m.catalogItems.Set(float64(items))
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
