// Package metrics provides Prometheus metrics for the homeval prediction service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Option customizes a Manager during construction.
type Option func(*Manager)

// WithNamespace overrides the metric namespace. Empty keeps the default.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithSubsystem overrides the metric subsystem. Empty keeps the default.
func WithSubsystem(subsystem string) Option {
	return func(m *Manager) {
		if subsystem != "" {
			m.subsystem = subsystem
		}
	}
}

// WithHistogramBuckets replaces the latency histogram layout.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.buckets = buckets
		}
	}
}

// WithPrometheusRegistry registers the metrics on a specific registry
// instead of the process default.
func WithPrometheusRegistry(registry prometheus.Registerer) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}
