package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
	OutcomeRejected = "rejected"
)

// Metrics holds the collectors for one process. A nil *Metrics is a no-op.
type Metrics struct {
	ProviderCallsTotal   *prometheus.CounterVec
	ProviderCallDuration *prometheus.HistogramVec
	RecordsSkippedTotal  *prometheus.CounterVec
	RecordsLoaded        *prometheus.GaugeVec
	CircuitTransitions   *prometheus.CounterVec
}

// New registers the collectors on reg. A nil reg builds unregistered collectors.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ProviderCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nfl_provider_calls_total",
				Help: "Total number of upstream provider calls",
			},
			[]string{"resource", "outcome"},
		),
		ProviderCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nfl_provider_call_duration_seconds",
				Help:    "Duration of upstream provider calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"resource"},
		),
		RecordsSkippedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nfl_records_skipped_total",
				Help: "Total number of malformed upstream records skipped",
			},
			[]string{"kind"},
		),
		RecordsLoaded: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "nfl_records_loaded",
				Help: "Number of records loaded for the last requested week",
			},
			[]string{"kind"},
		),
		CircuitTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nfl_provider_circuit_transitions_total",
				Help: "Total number of provider circuit breaker state changes",
			},
			[]string{"from", "to"},
		),
	}
}

func (m *Metrics) ObserveProviderCall(resource, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ProviderCallsTotal.WithLabelValues(resource, outcome).Inc()
	m.ProviderCallDuration.WithLabelValues(resource).Observe(elapsed.Seconds())
}

func (m *Metrics) RecordSkipped(kind string) {
	if m == nil {
		return
	}
	m.RecordsSkippedTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) SetLoaded(kind string, count int) {
	if m == nil {
		return
	}
	m.RecordsLoaded.WithLabelValues(kind).Set(float64(count))
}

func (m *Metrics) ObserveCircuitTransition(from, to string) {
	if m == nil {
		return
	}
	m.CircuitTransitions.WithLabelValues(from, to).Inc()
}
