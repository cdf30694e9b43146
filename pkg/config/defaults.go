package config

import "time"

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills unset fields with their defaults.
func ApplyDefaults(cfg *Config) {
	if cfg.Engine.ValidationTimeout == 0 {
		cfg.Engine.ValidationTimeout = 30 * time.Second
	}
	if cfg.Engine.RuleTimeout == 0 {
		cfg.Engine.RuleTimeout = 5 * time.Second
	}
	if cfg.Engine.MaxRuleSets == 0 {
		cfg.Engine.MaxRuleSets = 100
	}
	if cfg.Engine.MaxRulesPerSet == 0 {
		cfg.Engine.MaxRulesPerSet = 1000
	}

	if cfg.RuleSets.Backend == "" {
		cfg.RuleSets.Backend = "file"
	}
	if cfg.RuleSets.Dir == "" {
		cfg.RuleSets.Dir = "rulesets"
	}
	if cfg.RuleSets.RefTemplate == "" {
		cfg.RuleSets.RefTemplate = "%s.json"
	}
	if cfg.RuleSets.WatchDebounce == 0 {
		cfg.RuleSets.WatchDebounce = 100 * time.Millisecond
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "codecheck"
	}
	if cfg.Metrics.Subsystem == "" {
		cfg.Metrics.Subsystem = "engine"
	}
}
