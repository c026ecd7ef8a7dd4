// Package metrics exports the outcome of a run as a Prometheus textfile,
// for node_exporter's textfile collector on CI hosts.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"miriguard/internal/diag"
	"miriguard/internal/diagfmt"
)

const namespace = "miriguard"

// RunMetrics holds the collectors of one run on a private registry.
type RunMetrics struct {
	Registry *prometheus.Registry

	// DiagnosticsTotal counts actionable diagnostics by category.
	DiagnosticsTotal *prometheus.CounterVec
	// SuppressedTotal counts diagnostics dropped as noise.
	SuppressedTotal prometheus.Counter
	// TargetsTotal counts invocations by outcome (clean, faulting).
	TargetsTotal *prometheus.CounterVec
	// InvocationDuration observes the wall time of each invocation.
	InvocationDuration prometheus.Histogram
	// RunFaulting is 1 when the run's verdict is faulting.
	RunFaulting prometheus.Gauge
	// LastRunTimestamp is the start time of the run in unix seconds.
	LastRunTimestamp prometheus.Gauge
}

// New builds and registers the collectors.
func New() *RunMetrics {
	reg := prometheus.NewRegistry()
	m := &RunMetrics{
		Registry: reg,
		DiagnosticsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "diagnostics_total",
			Help:      "Actionable diagnostics reported, by category.",
		}, []string{"category"}),
		SuppressedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suppressed_total",
			Help:      "Diagnostics dropped as trailer noise.",
		}),
		TargetsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "targets_total",
			Help:      "Interpreter invocations, by outcome.",
		}, []string{"outcome"}),
		InvocationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "invocation_duration_seconds",
			Help:      "Wall time of one interpreter invocation.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		}),
		RunFaulting: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_faulting",
			Help:      "1 if the last run reported violations, 0 otherwise.",
		}),
		LastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Start time of the last run.",
		}),
	}
	reg.MustRegister(
		m.DiagnosticsTotal,
		m.SuppressedTotal,
		m.TargetsTotal,
		m.InvocationDuration,
		m.RunFaulting,
		m.LastRunTimestamp,
	)
	// Export every category even when it stays at zero.
	for _, c := range diag.Categories() {
		m.DiagnosticsTotal.WithLabelValues(c.String())
	}
	m.TargetsTotal.WithLabelValues(diag.Clean.String())
	m.TargetsTotal.WithLabelValues(diag.Faulting.String())
	return m
}

// Observe records a finished run.
func (m *RunMetrics) Observe(s diagfmt.RunSummary) {
	for _, d := range s.Verdict.Actionable {
		m.DiagnosticsTotal.WithLabelValues(d.Category.String()).Inc()
	}
	m.SuppressedTotal.Add(float64(s.Verdict.Suppressed))
	for _, t := range s.Targets {
		outcome := diag.Clean
		if t.Actionable > 0 {
			outcome = diag.Faulting
		}
		m.TargetsTotal.WithLabelValues(outcome.String()).Inc()
		m.InvocationDuration.Observe(t.Duration.Seconds())
	}
	if s.Verdict.Faulting() {
		m.RunFaulting.Set(1)
	} else {
		m.RunFaulting.Set(0)
	}
	if !s.Started.IsZero() {
		m.LastRunTimestamp.Set(float64(s.Started.Unix()))
	}
}

// WriteTextfile writes the registry to path atomically.
func (m *RunMetrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
