package engine

import (
	"fmt"
	"time"
)

// EngineConfig controls engine limits and timeouts.
type EngineConfig struct {
	// ValidationTimeout bounds a full building validation across all rule sets.
	ValidationTimeout time.Duration `yaml:"validation_timeout"`

	// RuleTimeout bounds the execution of a single rule.
	RuleTimeout time.Duration `yaml:"rule_timeout"`

	// MaxRuleSets limits how many rule sets one validation may load.
	MaxRuleSets int `yaml:"max_rule_sets"`

	// MaxRulesPerSet limits the rule count of a single rule set.
	MaxRulesPerSet int `yaml:"max_rules_per_set"`

	// RuleSetRefTemplate maps a jurisdiction code to a rule set reference
	// when validation auto-detects applicable codes. Must contain one %s.
	RuleSetRefTemplate string `yaml:"rule_set_ref_template"`
}

// DefaultEngineConfig returns the default engine configuration.
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		ValidationTimeout:  30 * time.Second,
		RuleTimeout:        5 * time.Second,
		MaxRuleSets:        100,
		MaxRulesPerSet:     1000,
		RuleSetRefTemplate: "mcp/%s.json",
	}
}

// Validate checks the configuration for consistency.
func (c *EngineConfig) Validate() error {
	if c.ValidationTimeout <= 0 {
		return fmt.Errorf("%w: validation_timeout must be positive", ErrInvalidConfig)
	}
	if c.RuleTimeout <= 0 {
		return fmt.Errorf("%w: rule_timeout must be positive", ErrInvalidConfig)
	}
	if c.RuleTimeout > c.ValidationTimeout {
		return fmt.Errorf("%w: rule_timeout exceeds validation_timeout", ErrInvalidConfig)
	}
	if c.MaxRuleSets <= 0 {
		return fmt.Errorf("%w: max_rule_sets must be positive", ErrInvalidConfig)
	}
	if c.MaxRulesPerSet <= 0 {
		return fmt.Errorf("%w: max_rules_per_set must be positive", ErrInvalidConfig)
	}
	if c.RuleSetRefTemplate == "" {
		return fmt.Errorf("%w: rule_set_ref_template must not be empty", ErrInvalidConfig)
	}
	return nil
}
