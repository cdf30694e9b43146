package validator

import (
	"fmt"

	"arxhq/codecheck/pkg/mcp/ast"
	mcpErrors "arxhq/codecheck/pkg/mcp/errors"
)

// maxConditionDepth caps composite nesting so a pathological rule set cannot
// recurse unboundedly during evaluation.
const maxConditionDepth = 10

var knownOperators = map[ast.Operator]bool{
	ast.OperatorEqual:        true,
	ast.OperatorNotEqual:     true,
	ast.OperatorGreaterThan:  true,
	ast.OperatorGreaterEqual: true,
	ast.OperatorLessThan:     true,
	ast.OperatorLessEqual:    true,
	ast.OperatorIn:           true,
	ast.OperatorNotIn:        true,
	ast.OperatorContains:     true,
	ast.OperatorStartsWith:   true,
	ast.OperatorEndsWith:     true,
	ast.OperatorRegex:        true,
}

// StructuralValidator checks required fields, recognized enum values, rule id
// uniqueness, and composite nesting depth.
type StructuralValidator struct {
	errors *mcpErrors.ErrorList
}

// NewStructuralValidator creates a new structural validator.
func NewStructuralValidator() *StructuralValidator {
	return &StructuralValidator{
		errors: mcpErrors.NewErrorList(),
	}
}

// Validate performs structural validation on a rule set.
// It returns an ErrorList containing all problems found, or nil.
func (v *StructuralValidator) Validate(file *ast.MCPFile) error {
	v.errors = mcpErrors.NewErrorList()

	v.validateMetadata(file)
	v.validateRules(file)

	return v.errors.ToError()
}

// Errors returns the diagnostics from the last Validate call.
func (v *StructuralValidator) Errors() *mcpErrors.ErrorList {
	return v.errors
}

func (v *StructuralValidator) validateMetadata(file *ast.MCPFile) {
	loc := ast.Location{File: file.SourceFile, Line: 1, Column: 1}

	if file.MCPID == "" {
		v.errors.AddErrorWithSuggestion(mcpErrors.ErrorTypeStructural,
			"missing mcp_id", loc,
			`add a unique identifier, e.g. "us-ca-electrical-2023"`)
	}

	if file.Name == "" {
		v.errors.AddError(mcpErrors.ErrorTypeStructural, "missing name", loc)
	}

	if file.Jurisdiction.Country == "" {
		v.errors.AddErrorWithSuggestion(mcpErrors.ErrorTypeStructural,
			"missing jurisdiction country", loc,
			`set jurisdiction.country, e.g. "US"`)
	}
}

func (v *StructuralValidator) validateRules(file *ast.MCPFile) {
	ruleIDs := make(map[string]bool)

	for i, rule := range file.Rules {
		if rule.RuleID == "" {
			v.errors.AddError(mcpErrors.ErrorTypeStructural,
				fmt.Sprintf("rule %d: missing rule_id", i), rule.Location)
		} else if ruleIDs[rule.RuleID] {
			v.errors.AddError(mcpErrors.ErrorTypeStructural,
				fmt.Sprintf("rule %d: duplicate rule_id %q", i, rule.RuleID), rule.Location)
		}
		ruleIDs[rule.RuleID] = true

		if rule.Name == "" {
			v.errors.AddError(mcpErrors.ErrorTypeStructural,
				fmt.Sprintf("rule %d: missing name", i), rule.Location)
		}

		if !rule.HasConditions() {
			v.errors.AddError(mcpErrors.ErrorTypeStructural,
				fmt.Sprintf("rule %d: no conditions defined", i), rule.Location)
		}

		if !rule.HasActions() {
			v.errors.AddError(mcpErrors.ErrorTypeStructural,
				fmt.Sprintf("rule %d: no actions defined", i), rule.Location)
		}

		for j, cond := range rule.Conditions {
			v.validateCondition(cond, fmt.Sprintf("rule %d, condition %d", i, j), 0)
		}

		for j, action := range rule.Actions {
			v.validateAction(action, fmt.Sprintf("rule %d, action %d", i, j))
		}
	}
}

func (v *StructuralValidator) validateCondition(cond *ast.RuleCondition, prefix string, depth int) {
	if depth > maxConditionDepth {
		v.errors.AddError(mcpErrors.ErrorTypeStructural,
			fmt.Sprintf("%s: exceeds maximum nesting depth of %d", prefix, maxConditionDepth),
			cond.Location)
		return
	}

	switch cond.Type {
	case ast.ConditionTypeProperty:
		if cond.ElementType == "" {
			v.errors.AddError(mcpErrors.ErrorTypeStructural,
				fmt.Sprintf("%s: missing element_type for property condition", prefix), cond.Location)
		}
		if cond.Property == "" {
			v.errors.AddError(mcpErrors.ErrorTypeStructural,
				fmt.Sprintf("%s: missing property for property condition", prefix), cond.Location)
		}
		if cond.Operator == "" {
			v.errors.AddError(mcpErrors.ErrorTypeStructural,
				fmt.Sprintf("%s: missing operator for property condition", prefix), cond.Location)
		} else if !knownOperators[cond.Operator] {
			v.errors.AddError(mcpErrors.ErrorTypeSemantic,
				fmt.Sprintf("%s: unknown operator %q", prefix, cond.Operator), cond.Location)
		}

	case ast.ConditionTypeSpatial:
		if cond.ElementType == "" {
			v.errors.AddError(mcpErrors.ErrorTypeStructural,
				fmt.Sprintf("%s: missing element_type for spatial condition", prefix), cond.Location)
		}
		if cond.Property == "" {
			v.errors.AddError(mcpErrors.ErrorTypeStructural,
				fmt.Sprintf("%s: missing property for spatial condition", prefix), cond.Location)
		}
		if cond.Operator != "" && !knownOperators[cond.Operator] {
			v.errors.AddError(mcpErrors.ErrorTypeSemantic,
				fmt.Sprintf("%s: unknown operator %q", prefix, cond.Operator), cond.Location)
		}

	case ast.ConditionTypeRelationship:
		if cond.ElementType == "" {
			v.errors.AddError(mcpErrors.ErrorTypeStructural,
				fmt.Sprintf("%s: missing element_type for relationship condition", prefix), cond.Location)
		}
		if cond.Relationship == "" {
			v.errors.AddError(mcpErrors.ErrorTypeStructural,
				fmt.Sprintf("%s: missing relationship for relationship condition", prefix), cond.Location)
		}
		if cond.TargetType == "" {
			v.errors.AddError(mcpErrors.ErrorTypeStructural,
				fmt.Sprintf("%s: missing target_type for relationship condition", prefix), cond.Location)
		}

	case ast.ConditionTypeSystem:
		if cond.ElementType == "" {
			v.errors.AddError(mcpErrors.ErrorTypeStructural,
				fmt.Sprintf("%s: missing element_type for system condition", prefix), cond.Location)
		}

	case ast.ConditionTypeComposite:
		if cond.CompositeOperator != ast.CompositeAND && cond.CompositeOperator != ast.CompositeOR {
			v.errors.AddErrorWithSuggestion(mcpErrors.ErrorTypeSemantic,
				fmt.Sprintf("%s: unknown composite operator %q", prefix, cond.CompositeOperator),
				cond.Location,
				"valid composite operators: AND, OR")
		}
		if len(cond.Conditions) == 0 {
			v.errors.AddError(mcpErrors.ErrorTypeStructural,
				fmt.Sprintf("%s: composite condition has no children", prefix), cond.Location)
		}
		for i, child := range cond.Conditions {
			v.validateCondition(child, fmt.Sprintf("%s, child %d", prefix, i), depth+1)
		}
	}
}

func (v *StructuralValidator) validateAction(action *ast.RuleAction, prefix string) {
	switch action.Type {
	case ast.ActionTypeValidation, ast.ActionTypeWarning, ast.ActionTypeError:
		if action.Message == "" {
			v.errors.AddError(mcpErrors.ErrorTypeStructural,
				fmt.Sprintf("%s: missing message for %s action", prefix, action.Type), action.Location)
		}
		if action.Type == ast.ActionTypeValidation && action.Severity == "" {
			v.errors.AddError(mcpErrors.ErrorTypeStructural,
				fmt.Sprintf("%s: missing severity for validation action", prefix), action.Location)
		}
		if action.Severity != "" &&
			action.Severity != ast.SeverityError &&
			action.Severity != ast.SeverityWarning &&
			action.Severity != ast.SeverityInfo {
			v.errors.AddErrorWithSuggestion(mcpErrors.ErrorTypeSemantic,
				fmt.Sprintf("%s: unknown severity %q", prefix, action.Severity), action.Location,
				"valid severities: ERROR, WARNING, INFO")
		}

	case ast.ActionTypeCalculation:
		if action.Formula == "" {
			v.errors.AddError(mcpErrors.ErrorTypeStructural,
				fmt.Sprintf("%s: missing formula for calculation action", prefix), action.Location)
		}
	}
}
