package validator

import (
	"fmt"

	"arxhq/codecheck/pkg/mcp/ast"
	mcpErrors "arxhq/codecheck/pkg/mcp/errors"
	"arxhq/codecheck/pkg/mcp/parser"
)

// Validator combines parsing and structural validation of rule-set files.
type Validator struct {
	parser     *parser.Parser
	structural *StructuralValidator
}

// New creates a validator with default configuration.
func New() *Validator {
	return &Validator{
		parser:     parser.NewParser(),
		structural: NewStructuralValidator(),
	}
}

// Validate runs structural validation over an already-parsed rule set.
func (v *Validator) Validate(file *ast.MCPFile) error {
	return v.structural.Validate(file)
}

// ValidateFile parses and validates the rule-set file at path, returning all
// problems as descriptive strings. An unreadable or unparseable file yields
// a single loading-error string rather than an empty result.
func (v *Validator) ValidateFile(path string) []string {
	file, err := v.parser.Parse(path)
	if err != nil {
		return errorStrings(err)
	}

	if err := v.structural.Validate(file); err != nil {
		return errorStrings(err)
	}

	return nil
}

// ValidateBytes parses and validates rule-set content held in memory.
// sourcePath is used for diagnostics only.
func (v *Validator) ValidateBytes(data []byte, sourcePath string) []string {
	file, err := v.parser.ParseBytes(data, sourcePath)
	if err != nil {
		return errorStrings(err)
	}

	if err := v.structural.Validate(file); err != nil {
		return errorStrings(err)
	}

	return nil
}

// errorStrings flattens parse/validation errors into plain messages.
func errorStrings(err error) []string {
	switch e := err.(type) {
	case *mcpErrors.ErrorList:
		return e.Messages()
	case *mcpErrors.Error:
		return []string{e.Message}
	default:
		return []string{fmt.Sprintf("file loading error: %v", err)}
	}
}
