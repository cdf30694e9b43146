package config

import (
	"fmt"
	"strings"
)

// Validate checks the configuration for consistency.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.Engine.ValidationTimeout <= 0 {
		errs = append(errs, "engine.validation_timeout must be positive")
	}
	if cfg.Engine.RuleTimeout <= 0 {
		errs = append(errs, "engine.rule_timeout must be positive")
	}
	if cfg.Engine.RuleTimeout > cfg.Engine.ValidationTimeout {
		errs = append(errs, "engine.rule_timeout must not exceed engine.validation_timeout")
	}
	if cfg.Engine.MaxRuleSets <= 0 {
		errs = append(errs, "engine.max_rule_sets must be positive")
	}
	if cfg.Engine.MaxRulesPerSet <= 0 {
		errs = append(errs, "engine.max_rules_per_set must be positive")
	}

	switch cfg.RuleSets.Backend {
	case "file":
		if cfg.RuleSets.Dir == "" {
			errs = append(errs, "rule_sets.dir is required for the file backend")
		}
	case "sqlite":
		if cfg.RuleSets.SQLitePath == "" {
			errs = append(errs, "rule_sets.sqlite_path is required for the sqlite backend")
		}
		if cfg.RuleSets.Watch {
			errs = append(errs, "rule_sets.watch is only supported by the file backend")
		}
	default:
		errs = append(errs, fmt.Sprintf("rule_sets.backend must be \"file\" or \"sqlite\", got %q", cfg.RuleSets.Backend))
	}

	if !strings.Contains(cfg.RuleSets.RefTemplate, "%s") {
		errs = append(errs, "rule_sets.ref_template must contain %s")
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("logging.level must be debug, info, warn, or error, got %q", cfg.Logging.Level))
	}
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("logging.format must be json or text, got %q", cfg.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}
