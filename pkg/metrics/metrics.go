// Package metrics provides Prometheus instrumentation for cronik schedules.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values.
const (
	ResultOK      = "ok"
	ResultError   = "error"
	ResultNoMatch = "no_match"
)

// Registry holds all metric instances for cronik components.
type Registry struct {
	// Compiler Metrics
	Compilations *prometheus.CounterVec

	// Solver Metrics
	Snaps        *prometheus.CounterVec
	SnapDuration *prometheus.HistogramVec
	Occurrences  *prometheus.CounterVec

	// Cursor Metrics
	CursorCheckpoints *prometheus.CounterVec
}

// DefaultRegistry is the default metrics registry used by cronik components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	cfg := DefaultConfig()
	cfg.Registry = reg
	return NewRegistryWithConfig(cfg)
}

// NewRegistryWithConfig creates a registry from cfg. Zero fields take the
// DefaultConfig values.
func NewRegistryWithConfig(cfg Config) *Registry {
	cfg = cfg.withDefaults()
	factory := promauto.With(cfg.Registry)
	ns, labels := cfg.Namespace, cfg.Labels

	return &Registry{
		Compilations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "compiler",
				Name:        "compilations_total",
				Help:        "Total number of compiled schedule expressions",
				ConstLabels: labels,
			},
			[]string{"result"},
		),

		Snaps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "solver",
				Name:        "snaps_total",
				Help:        "Total number of snap and step calls",
				ConstLabels: labels,
			},
			[]string{"schedule", "op", "result"},
		),

		SnapDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   ns,
				Subsystem:   "solver",
				Name:        "snap_duration_seconds",
				Help:        "Time spent solving for the next occurrence",
				Buckets:     []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
				ConstLabels: labels,
			},
			[]string{"schedule", "op"},
		),

		Occurrences: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "sequence",
				Name:        "occurrences_total",
				Help:        "Total number of occurrences emitted by sequences",
				ConstLabels: labels,
			},
			[]string{"schedule"},
		),

		CursorCheckpoints: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "cursor",
				Name:        "checkpoints_total",
				Help:        "Total number of cursor checkpoint loads and saves",
				ConstLabels: labels,
			},
			[]string{"store", "op", "result"},
		),
	}
}

// ObserveSnap records one solver call. A nil registry records nothing.
func (r *Registry) ObserveSnap(schedule, op, result string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.Snaps.WithLabelValues(schedule, op, result).Inc()
	r.SnapDuration.WithLabelValues(schedule, op).Observe(elapsed.Seconds())
}

// ObserveCompile records one compilation.
func (r *Registry) ObserveCompile(result string) {
	if r == nil {
		return
	}
	r.Compilations.WithLabelValues(result).Inc()
}

// ObserveOccurrence records one emitted sequence element.
func (r *Registry) ObserveOccurrence(schedule string) {
	if r == nil {
		return
	}
	r.Occurrences.WithLabelValues(schedule).Inc()
}

// ObserveCheckpoint records one cursor store access.
func (r *Registry) ObserveCheckpoint(store, op, result string) {
	if r == nil {
		return
	}
	r.CursorCheckpoints.WithLabelValues(store, op, result).Inc()
}

// Result maps an error to a result label value.
func Result(err error, noMatch bool) string {
	switch {
	case err == nil:
		return ResultOK
	case noMatch:
		return ResultNoMatch
	}
	return ResultError
}
