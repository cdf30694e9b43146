package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := Validate(cfg); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Engine.ValidationTimeout != 30*time.Second {
		t.Errorf("ValidationTimeout = %v, want 30s", cfg.Engine.ValidationTimeout)
	}
	if cfg.RuleSets.Backend != "file" {
		t.Errorf("Backend = %q, want file", cfg.RuleSets.Backend)
	}
}

func TestLoadConfig(t *testing.T) {
	content := `
engine:
  validation_timeout: 10s
  rule_timeout: 2s
rule_sets:
  backend: file
  dir: /etc/codecheck/rulesets
  watch: true
logging:
  level: debug
  format: text
metrics:
  enabled: true
  listen_address: ":9090"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Engine.ValidationTimeout != 10*time.Second {
		t.Errorf("ValidationTimeout = %v, want 10s", cfg.Engine.ValidationTimeout)
	}
	if cfg.Engine.RuleTimeout != 2*time.Second {
		t.Errorf("RuleTimeout = %v, want 2s", cfg.Engine.RuleTimeout)
	}
	if cfg.RuleSets.Dir != "/etc/codecheck/rulesets" {
		t.Errorf("Dir = %q", cfg.RuleSets.Dir)
	}
	if !cfg.RuleSets.Watch {
		t.Error("Watch should be true")
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "text" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}

	// Defaults still fill the rest.
	if cfg.Engine.MaxRuleSets != 100 {
		t.Errorf("MaxRuleSets = %d, want default 100", cfg.Engine.MaxRuleSets)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{
			name:   "rule timeout above validation timeout",
			mutate: func(c *Config) { c.Engine.RuleTimeout = c.Engine.ValidationTimeout * 2 },
			want:   "rule_timeout",
		},
		{
			name:   "unknown backend",
			mutate: func(c *Config) { c.RuleSets.Backend = "s3" },
			want:   "backend",
		},
		{
			name: "sqlite backend without path",
			mutate: func(c *Config) {
				c.RuleSets.Backend = "sqlite"
				c.RuleSets.SQLitePath = ""
			},
			want: "sqlite_path",
		},
		{
			name: "watch on sqlite backend",
			mutate: func(c *Config) {
				c.RuleSets.Backend = "sqlite"
				c.RuleSets.SQLitePath = "rules.db"
				c.RuleSets.Watch = true
			},
			want: "watch",
		},
		{
			name:   "bad log level",
			mutate: func(c *Config) { c.Logging.Level = "verbose" },
			want:   "logging.level",
		},
		{
			name:   "template without placeholder",
			mutate: func(c *Config) { c.RuleSets.RefTemplate = "rules.json" },
			want:   "ref_template",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if err == nil {
				t.Fatal("Validate() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	content := `
rule_sets:
  dir: from-file
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CODECHECK_RULE_SETS_DIR", "from-env")
	t.Setenv("CODECHECK_ENGINE_RULE_TIMEOUT", "250ms")
	t.Setenv("CODECHECK_LOGGING_LEVEL", "warn")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error: %v", err)
	}

	if cfg.RuleSets.Dir != "from-env" {
		t.Errorf("Dir = %q, want from-env", cfg.RuleSets.Dir)
	}
	if cfg.Engine.RuleTimeout != 250*time.Millisecond {
		t.Errorf("RuleTimeout = %v, want 250ms", cfg.Engine.RuleTimeout)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Level = %q, want warn", cfg.Logging.Level)
	}
}
