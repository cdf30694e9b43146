// Package config defines the application configuration: engine limits,
// rule-set source selection, jurisdiction mappings, logging, and metrics.
// Configuration is loaded from a YAML file with defaults applied and may
// be overridden by CODECHECK_* environment variables.
package config
