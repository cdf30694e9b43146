// Package parser parses MCP rule-set files into the AST defined in
// package ast.
//
// Rule sets are authored as JSON or YAML; both are decoded through the
// yaml.v3 node API (YAML 1.2 is a superset of JSON), which preserves line
// and column information so structural diagnostics can point at the
// offending rule, condition, or action.
package parser
