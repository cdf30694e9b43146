package parser

import (
	"gopkg.in/yaml.v3"
)

// yamlFile is the intermediate structure a rule-set file decodes into
// before AST construction. Rules, conditions, and actions are kept as raw
// yaml nodes so the builder can attach source locations.
type yamlFile struct {
	MCPID        string           `yaml:"mcp_id"`
	Name         string           `yaml:"name"`
	Version      string           `yaml:"version"`
	Description  string           `yaml:"description"`
	Jurisdiction yamlJurisdiction `yaml:"jurisdiction"`
	Rules        []yaml.Node      `yaml:"rules"`
}

type yamlJurisdiction struct {
	Country string `yaml:"country"`
	State   string `yaml:"state"`
	City    string `yaml:"city"`
	County  string `yaml:"county"`
}

type yamlRule struct {
	RuleID     string      `yaml:"rule_id"`
	Name       string      `yaml:"name"`
	Category   string      `yaml:"category"`
	Enabled    *bool       `yaml:"enabled"` // pointer to distinguish unset from false
	Conditions []yaml.Node `yaml:"conditions"`
	Actions    []yaml.Node `yaml:"actions"`
}

type yamlCondition struct {
	Type         string      `yaml:"type"`
	ElementType  string      `yaml:"element_type"`
	Property     string      `yaml:"property"`
	Operator     string      `yaml:"operator"`
	Value        any         `yaml:"value"`
	Relationship string      `yaml:"relationship"`
	TargetType   string      `yaml:"target_type"`
	Conditions   []yaml.Node `yaml:"conditions"`
}

type yamlAction struct {
	Type          string `yaml:"type"`
	Message       string `yaml:"message"`
	Severity      string `yaml:"severity"`
	CodeReference string `yaml:"code_reference"`
	Formula       string `yaml:"formula"`
	Unit          string `yaml:"unit"`
	Description   string `yaml:"description"`
}

// parseBytes decodes rule-set bytes into the intermediate structure.
func parseBytes(data []byte) (*yamlFile, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}

	var file yamlFile
	if err := node.Decode(&file); err != nil {
		return nil, err
	}

	return &file, nil
}
