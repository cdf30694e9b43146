package engine

import (
	"errors"
	"fmt"
	"time"
)

// Common sentinel errors
var (
	// ErrNoRuleSets indicates a validation was requested with no rule sets
	// and no jurisdiction matcher to auto-detect them.
	ErrNoRuleSets = errors.New("no rule sets to validate against")

	// ErrInvalidConfig indicates invalid engine configuration.
	ErrInvalidConfig = errors.New("invalid engine configuration")
)

// LoadError indicates a rule set could not be loaded or parsed.
type LoadError struct {
	Ref   string
	Cause error
}

// Error returns the error message.
func (e *LoadError) Error() string {
	return fmt.Sprintf("rule set load failed for %q: %v", e.Ref, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// TimeoutError indicates a validation or rule exceeded its timeout.
type TimeoutError struct {
	RuleSetID string
	RuleID    string
	Timeout   time.Duration
}

// Error returns the error message.
func (e *TimeoutError) Error() string {
	if e.RuleID != "" {
		return fmt.Sprintf("rule set %s rule %s: evaluation timeout after %v", e.RuleSetID, e.RuleID, e.Timeout)
	}
	return fmt.Sprintf("rule set %s: evaluation timeout after %v", e.RuleSetID, e.Timeout)
}

// RuleError indicates a single rule failed to execute.
type RuleError struct {
	RuleSetID string
	RuleID    string
	Cause     error
}

// Error returns the error message.
func (e *RuleError) Error() string {
	return fmt.Sprintf("rule set %s rule %s: %v", e.RuleSetID, e.RuleID, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *RuleError) Unwrap() error {
	return e.Cause
}

// ConditionError indicates a condition could not be evaluated.
type ConditionError struct {
	RuleID   string
	Property string
	Cause    error
}

// Error returns the error message.
func (e *ConditionError) Error() string {
	if e.Property != "" {
		return fmt.Sprintf("rule %s: condition error on property %q: %v", e.RuleID, e.Property, e.Cause)
	}
	return fmt.Sprintf("rule %s: condition error: %v", e.RuleID, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *ConditionError) Unwrap() error {
	return e.Cause
}
