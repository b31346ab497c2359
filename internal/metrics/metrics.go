// Package metrics exposes Prometheus collectors for analyses and verifications.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/saturnino-fabrica-de-software/aiface/internal/affect"
)

const namespace = "aiface"

// Metrics owns a private registry. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	analyses         *prometheus.CounterVec
	inferredStates   *prometheus.CounterVec
	verifications    *prometheus.CounterVec
	providerDuration *prometheus.HistogramVec
	errors           *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		analyses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analyses_total",
				Help:      "Total number of image analyses by outcome",
			},
			[]string{"result"},
		),

		inferredStates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "inferred_states_total",
				Help:      "Total number of inferred mental states by label",
			},
			[]string{"state"},
		),

		verifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "verifications_total",
				Help:      "Total number of face verifications by decision",
			},
			[]string{"verified"},
		),

		providerDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "provider_duration_seconds",
				Help:      "Latency of face model calls",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
			},
			[]string{"operation"},
		),

		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Total number of failed requests by error code",
			},
			[]string{"code"},
		),
	}

	m.registry.MustRegister(
		m.analyses,
		m.inferredStates,
		m.verifications,
		m.providerDuration,
		m.errors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// every state label is exported from the start, at zero
	for _, state := range affect.States() {
		m.inferredStates.WithLabelValues(string(state))
	}

	return m
}

func (m *Metrics) ObserveAnalysis(result string) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveState(state string) {
	if m == nil {
		return
	}
	m.inferredStates.WithLabelValues(state).Inc()
}

func (m *Metrics) ObserveVerification(verified bool) {
	if m == nil {
		return
	}
	m.verifications.WithLabelValues(strconv.FormatBool(verified)).Inc()
}

func (m *Metrics) ObserveProviderDuration(operation string, d time.Duration) {
	if m == nil {
		return
	}
	m.providerDuration.WithLabelValues(operation).Observe(d.Seconds())
}

func (m *Metrics) ObserveError(code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(code).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
