package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Config holds configuration for metrics collection.
type Config struct {
	// Registry is the Prometheus registry to use. If nil, uses prometheus.DefaultRegisterer.
	Registry prometheus.Registerer

	// Namespace overrides the default "cronik" namespace for metrics.
	Namespace string

	// Labels are additional labels to add to all metrics.
	Labels prometheus.Labels
}

// DefaultConfig returns a default metrics configuration.
func DefaultConfig() Config {
	return Config{
		Registry:  prometheus.DefaultRegisterer,
		Namespace: "cronik",
		Labels:    nil,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Registry == nil {
		c.Registry = def.Registry
	}
	if c.Namespace == "" {
		c.Namespace = def.Namespace
	}
	return c
}
