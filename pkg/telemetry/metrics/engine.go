package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics tracks validation engine activity.
//
// Metrics:
//   - codecheck_engine_validations_total: completed building validations
//   - codecheck_engine_validation_duration_seconds: validation duration
//   - codecheck_engine_rule_evaluations_total: rule outcomes by category and result
//   - codecheck_engine_violations_total: violations by severity and category
//   - codecheck_engine_rule_set_cache_size: cached rule sets
type EngineMetrics struct {
	validationsTotal     prometheus.Counter
	validationDuration   prometheus.Histogram
	ruleEvaluationsTotal *prometheus.CounterVec
	violationsTotal      *prometheus.CounterVec
	cacheSize            prometheus.Gauge
}

// NewEngineMetrics creates and registers engine metrics with the registry.
func NewEngineMetrics(cfg *Config, registry *prometheus.Registry) *EngineMetrics {
	em := &EngineMetrics{
		validationsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "validations_total",
				Help:      "Total number of completed building validations",
			},
		),

		validationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "validation_duration_seconds",
				Help:      "Duration of building validations in seconds",
				// Validations are CPU-bound and usually finish well under a second.
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to 8s
			},
		),

		ruleEvaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rule_evaluations_total",
				Help:      "Total number of rule evaluations by category and result",
			},
			[]string{"category", "result"},
		),

		violationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "violations_total",
				Help:      "Total number of violations by severity and category",
			},
			[]string{"severity", "category"},
		),

		cacheSize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rule_set_cache_size",
				Help:      "Number of rule sets currently cached",
			},
		),
	}

	registry.MustRegister(
		em.validationsTotal,
		em.validationDuration,
		em.ruleEvaluationsTotal,
		em.violationsTotal,
		em.cacheSize,
	)

	return em
}

// ObserveValidation records a completed building validation.
func (em *EngineMetrics) ObserveValidation(duration time.Duration) {
	em.validationsTotal.Inc()
	em.validationDuration.Observe(duration.Seconds())
}

// RecordRuleEvaluation records the outcome of one rule evaluation.
func (em *EngineMetrics) RecordRuleEvaluation(category string, passed bool) {
	result := "passed"
	if !passed {
		result = "failed"
	}
	em.ruleEvaluationsTotal.WithLabelValues(category, result).Inc()
}

// RecordViolation records one emitted violation.
func (em *EngineMetrics) RecordViolation(severity, category string) {
	em.violationsTotal.WithLabelValues(severity, category).Inc()
}

// SetCacheSize records the current rule-set cache size.
func (em *EngineMetrics) SetCacheSize(n int) {
	em.cacheSize.Set(float64(n))
}
