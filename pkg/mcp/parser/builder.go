package parser

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"arxhq/codecheck/pkg/mcp/ast"
	mcpErrors "arxhq/codecheck/pkg/mcp/errors"
)

// builder constructs AST nodes from intermediate YAML structures,
// accumulating diagnostics instead of failing on the first problem.
type builder struct {
	sourcePath string
	errors     *mcpErrors.ErrorList
}

func newBuilder(sourcePath string) *builder {
	return &builder{
		sourcePath: sourcePath,
		errors:     mcpErrors.NewErrorList(),
	}
}

func (b *builder) location(node *yaml.Node) ast.Location {
	loc := ast.Location{File: b.sourcePath}
	if node != nil {
		loc.Line = node.Line
		loc.Column = node.Column
	}
	return loc
}

// buildFile transforms the intermediate structure into an ast.MCPFile.
func (b *builder) buildFile(yf *yamlFile) (*ast.MCPFile, error) {
	file := &ast.MCPFile{
		MCPID:       yf.MCPID,
		Name:        yf.Name,
		Version:     yf.Version,
		Description: yf.Description,
		Jurisdiction: ast.Jurisdiction{
			Country: yf.Jurisdiction.Country,
			State:   yf.Jurisdiction.State,
			City:    yf.Jurisdiction.City,
			County:  yf.Jurisdiction.County,
		},
		Rules:      make([]*ast.MCPRule, 0, len(yf.Rules)),
		SourceFile: b.sourcePath,
	}

	for i := range yf.Rules {
		node := &yf.Rules[i]
		rule := b.buildRule(node, i)
		if rule != nil {
			file.Rules = append(file.Rules, rule)
		}
	}

	if b.errors.HasErrors() {
		return nil, b.errors
	}

	return file, nil
}

// buildRule transforms a rule node into an ast.MCPRule.
// Returns nil (with diagnostics recorded) when the rule cannot be decoded.
func (b *builder) buildRule(node *yaml.Node, index int) *ast.MCPRule {
	var yr yamlRule
	if err := node.Decode(&yr); err != nil {
		b.errors.AddError(mcpErrors.ErrorTypeStructural,
			fmt.Sprintf("rule at index %d cannot be decoded: %v", index, err),
			b.location(node))
		return nil
	}

	rule := &ast.MCPRule{
		RuleID:     yr.RuleID,
		Name:       yr.Name,
		Category:   ast.RuleCategory(yr.Category),
		Enabled:    true,
		Conditions: make([]*ast.RuleCondition, 0, len(yr.Conditions)),
		Actions:    make([]*ast.RuleAction, 0, len(yr.Actions)),
		Location:   b.location(node),
	}
	if yr.Enabled != nil {
		rule.Enabled = *yr.Enabled
	}

	for i := range yr.Conditions {
		cond := b.buildCondition(&yr.Conditions[i], yr.RuleID, i)
		if cond != nil {
			rule.Conditions = append(rule.Conditions, cond)
		}
	}

	for i := range yr.Actions {
		action := b.buildAction(&yr.Actions[i], yr.RuleID, i)
		if action != nil {
			rule.Actions = append(rule.Actions, action)
		}
	}

	return rule
}

// knownConditionTypes is the closed set of condition kinds; anything else is
// rejected here instead of surfacing as a silent no-match at evaluation time.
var knownConditionTypes = map[ast.ConditionType]bool{
	ast.ConditionTypeProperty:     true,
	ast.ConditionTypeSpatial:      true,
	ast.ConditionTypeRelationship: true,
	ast.ConditionTypeSystem:       true,
	ast.ConditionTypeComposite:    true,
}

func (b *builder) buildCondition(node *yaml.Node, ruleID string, index int) *ast.RuleCondition {
	var yc yamlCondition
	if err := node.Decode(&yc); err != nil {
		b.errors.AddError(mcpErrors.ErrorTypeStructural,
			fmt.Sprintf("rule %q condition %d cannot be decoded: %v", ruleID, index, err),
			b.location(node))
		return nil
	}

	condType := ast.ConditionType(yc.Type)
	if !knownConditionTypes[condType] {
		b.errors.AddErrorWithSuggestion(mcpErrors.ErrorTypeSemantic,
			fmt.Sprintf("rule %q condition %d has unknown type %q", ruleID, index, yc.Type),
			b.location(node),
			"valid types: property, spatial, relationship, system, composite")
		return nil
	}

	cond := &ast.RuleCondition{
		Type:         condType,
		ElementType:  yc.ElementType,
		Property:     yc.Property,
		Value:        yc.Value,
		Relationship: yc.Relationship,
		TargetType:   yc.TargetType,
		Location:     b.location(node),
	}

	// The operator field is the comparison operator for property/spatial
	// conditions and the AND/OR combinator for composites.
	if condType == ast.ConditionTypeComposite {
		cond.CompositeOperator = ast.CompositeOperator(yc.Operator)
		cond.Conditions = make([]*ast.RuleCondition, 0, len(yc.Conditions))
		for i := range yc.Conditions {
			child := b.buildCondition(&yc.Conditions[i], ruleID, i)
			if child != nil {
				cond.Conditions = append(cond.Conditions, child)
			}
		}
	} else {
		cond.Operator = ast.Operator(yc.Operator)
	}

	return cond
}

var knownActionTypes = map[ast.ActionType]bool{
	ast.ActionTypeValidation:  true,
	ast.ActionTypeCalculation: true,
	ast.ActionTypeWarning:     true,
	ast.ActionTypeError:       true,
}

func (b *builder) buildAction(node *yaml.Node, ruleID string, index int) *ast.RuleAction {
	var ya yamlAction
	if err := node.Decode(&ya); err != nil {
		b.errors.AddError(mcpErrors.ErrorTypeStructural,
			fmt.Sprintf("rule %q action %d cannot be decoded: %v", ruleID, index, err),
			b.location(node))
		return nil
	}

	actionType := ast.ActionType(ya.Type)
	if !knownActionTypes[actionType] {
		b.errors.AddErrorWithSuggestion(mcpErrors.ErrorTypeSemantic,
			fmt.Sprintf("rule %q action %d has unknown type %q", ruleID, index, ya.Type),
			b.location(node),
			"valid types: validation, calculation, warning, error")
		return nil
	}

	return &ast.RuleAction{
		Type:          actionType,
		Message:       ya.Message,
		Severity:      ast.RuleSeverity(ya.Severity),
		CodeReference: ya.CodeReference,
		Formula:       ya.Formula,
		Unit:          ya.Unit,
		Description:   ya.Description,
		Location:      b.location(node),
	}
}
