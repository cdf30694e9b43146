package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"arxhq/codecheck/pkg/config"
	"arxhq/codecheck/pkg/engine"
	"arxhq/codecheck/pkg/engine/source"
	"arxhq/codecheck/pkg/jurisdiction"
	"arxhq/codecheck/pkg/model"
	"arxhq/codecheck/pkg/telemetry/logging"
)

// loadAppConfig loads the configuration file named by --config. A missing
// default config file is not an error; the built-in defaults apply.
func loadAppConfig() (*config.Config, error) {
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		if !rootCmd.PersistentFlags().Changed("config") {
			cfg := config.DefaultConfig()
			applyVerbose(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("configuration file %q does not exist", cfgFile)
	}

	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, err
	}
	applyVerbose(cfg)
	return cfg, nil
}

func applyVerbose(cfg *config.Config) {
	if verbose {
		cfg.Logging.Level = "debug"
	}
}

// newLogger builds the structured logger from the logging section.
func newLogger(cfg *config.Config) (*slog.Logger, error) {
	return logging.New(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.AddSource,
	})
}

// lister is implemented by sources that can enumerate their rule sets.
type lister interface {
	List(ctx context.Context) ([]string, error)
}

// newRuleSource builds the configured rule-set backend. The returned
// cleanup function releases backend resources and may be called once.
func newRuleSource(cfg *config.Config, logger *slog.Logger) (engine.RuleSource, func() error, error) {
	switch cfg.RuleSets.Backend {
	case "sqlite":
		s, err := source.NewSQLiteSource(cfg.RuleSets.SQLitePath, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open rule set store: %w", err)
		}
		return s, s.Close, nil
	default:
		s := source.NewFileSource(cfg.RuleSets.Dir, logger)
		return s, func() error { return nil }, nil
	}
}

// newEngine wires the rule engine with its source and jurisdiction matcher.
func newEngine(cfg *config.Config, src engine.RuleSource, logger *slog.Logger) (*engine.RuleEngine, error) {
	engineCfg := &engine.EngineConfig{
		ValidationTimeout:  cfg.Engine.ValidationTimeout,
		RuleTimeout:        cfg.Engine.RuleTimeout,
		MaxRuleSets:        cfg.Engine.MaxRuleSets,
		MaxRulesPerSet:     cfg.Engine.MaxRulesPerSet,
		RuleSetRefTemplate: cfg.RuleSets.RefTemplate,
	}

	eng, err := engine.New(engineCfg, src, logger)
	if err != nil {
		return nil, err
	}

	matcher, err := newMatcher(cfg, src, logger)
	if err != nil {
		return nil, err
	}
	eng.SetJurisdictionMatcher(matcher)

	return eng, nil
}

// newMatcher builds the jurisdiction matcher, restricted to the rule sets
// the source actually holds when the source can enumerate them.
func newMatcher(cfg *config.Config, src engine.RuleSource, logger *slog.Logger) (*jurisdiction.Matcher, error) {
	matcher := jurisdiction.NewMatcher(logger)

	if cfg.Jurisdiction.MappingsPath != "" {
		if err := matcher.LoadMappings(cfg.Jurisdiction.MappingsPath); err != nil {
			return nil, err
		}
	}

	if l, ok := src.(lister); ok {
		refs, err := l.List(context.Background())
		if err != nil {
			logger.Warn("could not enumerate rule sets, skipping availability index", "error", err)
			return matcher, nil
		}
		codes := make([]string, 0, len(refs))
		for _, ref := range refs {
			codes = append(codes, strings.TrimSuffix(ref, filepath.Ext(ref)))
		}
		matcher.SetAvailableCodes(codes)
	}

	return matcher, nil
}

// loadBuildingModel reads a building model from a JSON or YAML file.
func loadBuildingModel(path string) (*model.BuildingModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read building model %q: %w", path, err)
	}

	var building model.BuildingModel
	if err := yaml.Unmarshal(data, &building); err != nil {
		return nil, fmt.Errorf("failed to parse building model %q: %w", path, err)
	}
	if building.BuildingID == "" {
		return nil, fmt.Errorf("building model %q has no building_id", path)
	}
	return &building, nil
}
