// Package observability holds the watcher daemon's Prometheus collectors.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the daemon collectors behind a private registry.
type Metrics struct {
	registry      *prometheus.Registry
	Rotations     *prometheus.CounterVec
	WatcherChecks prometheus.Counter
	RotationIndex prometheus.Gauge
}

// NewMetrics constructs a metrics registry with all collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	rotations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "freeride_rotations_total",
		Help: "Model rotations by outcome (applied, exhausted, error)",
	}, []string{"outcome"})

	checks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "freeride_watcher_checks_total",
		Help: "Watcher monitoring iterations",
	})

	index := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "freeride_rotation_index",
		Help: "Current index into the active fallback sequence",
	})

	reg.MustRegister(rotations, checks, index)

	return &Metrics{
		registry:      reg,
		Rotations:     rotations,
		WatcherChecks: checks,
		RotationIndex: index,
	}
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordRotation records a rotation attempt by outcome. Safe on a nil
// receiver so library callers need no metrics plumbing.
func (m *Metrics) RecordRotation(outcome string) {
	if m == nil {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.Rotations.WithLabelValues(outcome).Inc()
}

// RecordCheck counts one watcher iteration and mirrors the rotation index.
func (m *Metrics) RecordCheck(currentIndex int) {
	if m == nil {
		return
	}
	m.WatcherChecks.Inc()
	m.RotationIndex.Set(float64(currentIndex))
}
