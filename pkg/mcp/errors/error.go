package errors

import (
	"fmt"
	"strings"

	"arxhq/codecheck/pkg/mcp/ast"
)

// ErrorType categorizes the kind of problem found in a rule-set file.
type ErrorType string

const (
	ErrorTypeSyntax     ErrorType = "syntax"     // malformed JSON/YAML
	ErrorTypeStructural ErrorType = "structural" // missing or invalid required fields
	ErrorTypeSemantic   ErrorType = "semantic"   // unknown operator, category, or reference
	ErrorTypeIO         ErrorType = "io"         // file could not be read
)

// Error is a single rule-set diagnostic with location and optional suggestion.
type Error struct {
	Type       ErrorType
	Message    string
	Location   ast.Location
	Suggestion string
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] %s", e.Type, e.Message))

	if e.Location.IsValid() {
		sb.WriteString(fmt.Sprintf("\n  --> %s", e.Location.String()))
	}

	if e.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("\n  = suggestion: %s", e.Suggestion))
	}

	return sb.String()
}

// ErrorList accumulates diagnostics across a whole validation pass.
type ErrorList struct {
	Errors []*Error
}

// NewErrorList creates a new empty error list.
func NewErrorList() *ErrorList {
	return &ErrorList{Errors: make([]*Error, 0)}
}

// Add appends an error to the list.
func (el *ErrorList) Add(err *Error) {
	el.Errors = append(el.Errors, err)
}

// AddError creates and adds a new error.
func (el *ErrorList) AddError(errType ErrorType, message string, location ast.Location) {
	el.Add(&Error{Type: errType, Message: message, Location: location})
}

// AddErrorWithSuggestion creates and adds a new error with a suggested fix.
func (el *ErrorList) AddErrorWithSuggestion(errType ErrorType, message string, location ast.Location, suggestion string) {
	el.Add(&Error{Type: errType, Message: message, Location: location, Suggestion: suggestion})
}

// HasErrors returns true if any diagnostics were recorded.
func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

// Count returns the number of recorded diagnostics.
func (el *ErrorList) Count() int {
	return len(el.Errors)
}

// Messages returns the diagnostics as flat strings, in recording order.
// Tooling that lints rule-set files before deployment consumes this form.
func (el *ErrorList) Messages() []string {
	msgs := make([]string, 0, len(el.Errors))
	for _, err := range el.Errors {
		msgs = append(msgs, err.Message)
	}
	return msgs
}

// Error implements the error interface over the whole list.
func (el *ErrorList) Error() string {
	if !el.HasErrors() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("found %d error(s):\n", el.Count()))
	for i, err := range el.Errors {
		sb.WriteString(fmt.Sprintf("\nerror %d:\n%s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ToError returns nil when the list is empty, otherwise the list itself.
func (el *ErrorList) ToError() error {
	if !el.HasErrors() {
		return nil
	}
	return el
}

// ByType returns the diagnostics of the given category.
func (el *ErrorList) ByType(errType ErrorType) []*Error {
	var result []*Error
	for _, err := range el.Errors {
		if err.Type == errType {
			result = append(result, err)
		}
	}
	return result
}
