package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Config configures metric naming.
type Config struct {
	// Namespace is the metric name prefix (default "codecheck").
	Namespace string `yaml:"namespace"`

	// Subsystem is the secondary prefix (default "engine").
	Subsystem string `yaml:"subsystem"`
}

// DefaultConfig returns the default metrics configuration.
func DefaultConfig() *Config {
	return &Config{
		Namespace: "codecheck",
		Subsystem: "engine",
	}
}

// Collector owns the Prometheus registry and the engine metric set.
type Collector struct {
	registry *prometheus.Registry

	// Engine holds the validation engine metrics.
	Engine *EngineMetrics
}

// NewCollector creates a collector. When registry is nil a fresh registry
// is created with the standard Go runtime and process collectors.
func NewCollector(cfg *Config, registry *prometheus.Registry) *Collector {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	return &Collector{
		registry: registry,
		Engine:   NewEngineMetrics(cfg, registry),
	}
}

// Registry returns the underlying registry for additional registrations.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
