package config

import "time"

// Config is the root application configuration.
type Config struct {
	// Engine contains validation engine limits and timeouts.
	Engine EngineConfig `yaml:"engine"`

	// RuleSets selects and configures the rule-set source.
	RuleSets RuleSetsConfig `yaml:"rule_sets"`

	// Jurisdiction configures location-to-code matching.
	Jurisdiction JurisdictionConfig `yaml:"jurisdiction"`

	// Logging configures the structured logger.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures Prometheus metric naming and exposure.
	Metrics MetricsConfig `yaml:"metrics"`
}

// EngineConfig mirrors the engine's runtime limits.
type EngineConfig struct {
	ValidationTimeout time.Duration `yaml:"validation_timeout"`
	RuleTimeout       time.Duration `yaml:"rule_timeout"`
	MaxRuleSets       int           `yaml:"max_rule_sets"`
	MaxRulesPerSet    int           `yaml:"max_rules_per_set"`
}

// RuleSetsConfig selects where rule sets come from.
type RuleSetsConfig struct {
	// Backend is "file" or "sqlite".
	Backend string `yaml:"backend"`

	// Dir is the rule-set directory for the file backend.
	Dir string `yaml:"dir"`

	// SQLitePath is the database path for the sqlite backend.
	SQLitePath string `yaml:"sqlite_path"`

	// RefTemplate maps a jurisdiction code to a rule-set reference.
	RefTemplate string `yaml:"ref_template"`

	// Watch enables cache eviction on file changes (file backend only).
	Watch bool `yaml:"watch"`

	// WatchDebounce is the quiet period before a change event fires.
	WatchDebounce time.Duration `yaml:"watch_debounce"`

	// RefreshSchedule is an optional cron expression for periodic cache
	// refresh, e.g. "*/15 * * * *". Empty disables scheduled refresh.
	RefreshSchedule string `yaml:"refresh_schedule"`
}

// JurisdictionConfig configures the jurisdiction matcher.
type JurisdictionConfig struct {
	// MappingsPath points to an optional JSON/YAML overlay merged over
	// the built-in country mappings.
	MappingsPath string `yaml:"mappings_path"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	// Level is "debug", "info", "warn", or "error".
	Level string `yaml:"level"`

	// Format is "json" or "text".
	Format string `yaml:"format"`

	// AddSource includes file:line in log records.
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and served.
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix.
	Namespace string `yaml:"namespace"`

	// Subsystem is the secondary metric name prefix.
	Subsystem string `yaml:"subsystem"`

	// ListenAddress serves /metrics when non-empty, e.g. ":9090".
	ListenAddress string `yaml:"listen_address"`
}
