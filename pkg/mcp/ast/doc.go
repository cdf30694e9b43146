// Package ast defines the abstract syntax tree for MCP rule-set files.
//
// An MCP file is a jurisdiction-scoped collection of building-code rules.
// Each rule has a list of conditions that narrow the set of building objects
// and a list of actions that fire against the matched set. Condition and
// action kinds are closed enums; unknown kinds are rejected during parsing
// and structural validation rather than discovered at evaluation time.
package ast
