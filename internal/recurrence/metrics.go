package recurrence

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the engine's Prometheus collectors. A nil *Metrics records
// nothing.
type Metrics struct {
	runs          *prometheus.CounterVec
	regenerations prometheus.Counter
	failures      prometheus.Counter
	duration      prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chores",
			Subsystem: "recurrence",
			Name:      "runs_total",
			Help:      "Regeneration runs by outcome.",
		}, []string{"outcome"}),
		regenerations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chores",
			Subsystem: "recurrence",
			Name:      "regenerations_total",
			Help:      "Lists created from recurrences.",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chores",
			Subsystem: "recurrence",
			Name:      "failures_total",
			Help:      "Recurrences whose regeneration transaction failed.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "chores",
			Subsystem: "recurrence",
			Name:      "run_duration_seconds",
			Help:      "Duration of regeneration runs.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.runs, m.regenerations, m.failures, m.duration)
	return m
}

func (m *Metrics) observeRun(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(outcome).Inc()
	m.duration.Observe(seconds)
}

func (m *Metrics) regenerated() {
	if m == nil {
		return
	}
	m.regenerations.Inc()
}

func (m *Metrics) failed() {
	if m == nil {
		return
	}
	m.failures.Inc()
}
