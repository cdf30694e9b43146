// Package metrics exposes Prometheus metrics for the validation engine:
// validation counts and durations, per-category rule outcomes, violation
// counts by severity, and the rule-set cache size.
package metrics
