// Package errors provides rich error types for MCP rule-set parsing and
// validation. Errors carry a category, a source location, and an optional
// suggested fix, and accumulate in an ErrorList so that a single lint pass
// reports every problem in a file instead of stopping at the first.
package errors
