// Package metrics exposes Prometheus counters for collection and simulation runs.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder records service metrics on a Prometheus registry.
type Recorder struct {
	registry       *prometheus.Registry
	simulationRuns *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	lastClose      *prometheus.GaugeVec
	latency        *prometheus.HistogramVec
}

// New creates a recorder backed by its own registry, so several recorders can
// coexist in one process (tests in particular).
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Recorder{
		registry: reg,
		simulationRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentinel_simulation_runs_total",
				Help: "Total number of strategy simulations run",
			},
			[]string{"strategy", "symbol"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentinel_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastClose: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "sentinel_last_close",
				Help: "Last collected close for a symbol",
			},
			[]string{"symbol"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sentinel_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordSimulation counts one simulator run.
func (r *Recorder) RecordSimulation(strategy, symbol string) {
	r.simulationRuns.WithLabelValues(strategy, symbol).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastClose records the last close for a symbol.
func (r *Recorder) RecordLastClose(symbol string, price float64) {
	r.lastClose.WithLabelValues(symbol).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
