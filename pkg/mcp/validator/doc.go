// Package validator performs structural validation of parsed MCP rule sets.
//
// Validation is used by tooling to lint rule-set files before deployment and
// by the engine when loading rule sets. All problems in a file are collected
// into a single ErrorList; nothing is reported by raising mid-pass.
package validator
