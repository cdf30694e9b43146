// Package telemetry groups the observability building blocks: structured
// logging setup and Prometheus metrics for the validation engine.
package telemetry
