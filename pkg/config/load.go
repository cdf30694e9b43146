package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file, applies defaults, and
// validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and then
// applies CODECHECK_* environment variable overrides. Overrides always win
// over file values.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration invalid after environment overrides: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies CODECHECK_SECTION_FIELD environment variables.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("CODECHECK_ENGINE_VALIDATION_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Engine.ValidationTimeout = d
		}
	}
	if val := os.Getenv("CODECHECK_ENGINE_RULE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Engine.RuleTimeout = d
		}
	}

	if val := os.Getenv("CODECHECK_RULE_SETS_BACKEND"); val != "" {
		cfg.RuleSets.Backend = val
	}
	if val := os.Getenv("CODECHECK_RULE_SETS_DIR"); val != "" {
		cfg.RuleSets.Dir = val
	}
	if val := os.Getenv("CODECHECK_RULE_SETS_SQLITE_PATH"); val != "" {
		cfg.RuleSets.SQLitePath = val
	}
	if val := os.Getenv("CODECHECK_RULE_SETS_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.RuleSets.Watch = b
		}
	}

	if val := os.Getenv("CODECHECK_JURISDICTION_MAPPINGS_PATH"); val != "" {
		cfg.Jurisdiction.MappingsPath = val
	}

	if val := os.Getenv("CODECHECK_LOGGING_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("CODECHECK_LOGGING_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}

	if val := os.Getenv("CODECHECK_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("CODECHECK_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Metrics.ListenAddress = val
	}
}
