// Package prom exports scope lifecycle metrics to Prometheus. Metrics
// implements the steplocal.Observer interface; attach it to a cell with
// steplocal.WithObserver.
package prom

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is an observer backed by Prometheus collectors. All series
// are labeled by cell name.
type Metrics struct {
	scopesStarted   *prometheus.CounterVec
	scopesCompleted *prometheus.CounterVec
	stepPanics      *prometheus.CounterVec
	stepDuration    *prometheus.HistogramVec
	scopeSteps      *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		scopesStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "steplocal",
			Name:      "scopes_started_total",
			Help:      "Scopes that performed their first step.",
		}, []string{"cell"}),
		scopesCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "steplocal",
			Name:      "scopes_completed_total",
			Help:      "Scopes that reached their completing step.",
		}, []string{"cell"}),
		stepPanics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "steplocal",
			Name:      "step_panics_total",
			Help:      "Steps that exited by panicking.",
		}, []string{"cell"}),
		stepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "steplocal",
			Name:      "step_duration_seconds",
			Help:      "Wall time of individual steps.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"cell"}),
		scopeSteps: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "steplocal",
			Name:      "scope_steps",
			Help:      "Steps taken by completed scopes.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}, []string{"cell"}),
	}
	reg.MustRegister(m.scopesStarted, m.scopesCompleted, m.stepPanics, m.stepDuration, m.scopeSteps)
	return m
}

// ScopeStarted records a scope's first step.
func (m *Metrics) ScopeStarted(cell string) {
	m.scopesStarted.WithLabelValues(cell).Inc()
}

// StepFinished records a step's duration and whether it panicked.
func (m *Metrics) StepFinished(cell string, dur time.Duration, panicked bool) {
	m.stepDuration.WithLabelValues(cell).Observe(dur.Seconds())
	if panicked {
		m.stepPanics.WithLabelValues(cell).Inc()
	}
}

// ScopeCompleted records a completed scope and its step count.
func (m *Metrics) ScopeCompleted(cell string, steps int, _ time.Duration) {
	m.scopesCompleted.WithLabelValues(cell).Inc()
	m.scopeSteps.WithLabelValues(cell).Observe(float64(steps))
}
