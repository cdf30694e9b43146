package engine

import (
	"fmt"
	"log/slog"

	"arxhq/codecheck/pkg/mcp/ast"
	"arxhq/codecheck/pkg/model"
)

// ActionExecutor turns a rule's actions into violations and calculations
// for the objects its conditions matched.
type ActionExecutor struct {
	logger *slog.Logger
}

// NewActionExecutor creates an action executor.
func NewActionExecutor(logger *slog.Logger) *ActionExecutor {
	if logger == nil {
		logger = slog.Default()
	}
	return &ActionExecutor{logger: logger}
}

// Execute runs every action of the rule in the execution context. Validation
// actions emit one violation per matched object; calculation actions record
// a named result. A failed calculation records 0 with an annotated
// description rather than aborting the rule.
func (x *ActionExecutor) Execute(ectx *RuleExecutionContext) ([]ValidationViolation, map[string]Calculation) {
	var violations []ValidationViolation
	calculations := make(map[string]Calculation)

	for _, action := range ectx.Rule.Actions {
		if action == nil {
			continue
		}

		switch {
		case action.IsValidation():
			violations = append(violations, x.executeValidation(action, ectx)...)

		case action.Type == ast.ActionTypeCalculation:
			if calc, ok := x.executeCalculation(action, ectx); ok {
				calculations[action.Formula] = calc
			}

		default:
			x.logger.Warn("skipping action of unknown type",
				"rule_id", ectx.Rule.RuleID,
				"action_type", action.Type,
			)
		}
	}

	return violations, calculations
}

// executeValidation emits one violation per matched object. No matched
// objects means the rule's predicate selected nothing to flag.
func (x *ActionExecutor) executeValidation(action *ast.RuleAction, ectx *RuleExecutionContext) []ValidationViolation {
	if action.Message == "" {
		return nil
	}
	if len(ectx.MatchedObjects) == 0 {
		return nil
	}

	severity := action.EffectiveSeverity()

	violations := make([]ValidationViolation, 0, len(ectx.MatchedObjects))
	for _, obj := range ectx.MatchedObjects {
		violations = append(violations, ValidationViolation{
			RuleID:        ectx.Rule.RuleID,
			RuleName:      ectx.Rule.Name,
			Category:      ectx.Rule.Category,
			Severity:      severity,
			Message:       action.Message,
			CodeReference: action.CodeReference,
			ElementID:     obj.ObjectID,
			ElementType:   obj.ObjectType,
			Location:      obj.Location,
		})
	}
	return violations
}

// executeCalculation evaluates the action's formula against the matched
// objects.
func (x *ActionExecutor) executeCalculation(action *ast.RuleAction, ectx *RuleExecutionContext) (Calculation, bool) {
	if action.Formula == "" {
		return Calculation{}, false
	}

	result, err := x.evaluateFormula(action.Formula, ectx)
	if err != nil {
		x.logger.Error("calculation action failed",
			"rule_id", ectx.Rule.RuleID,
			"formula", action.Formula,
			"error", err,
		)
		return Calculation{
			Formula:     action.Formula,
			Result:      0,
			Unit:        action.Unit,
			Description: fmt.Sprintf("%s (calculation failed: %v)", action.Description, err),
		}, true
	}

	return Calculation{
		Formula:     action.Formula,
		Result:      result,
		Unit:        action.Unit,
		Description: action.Description,
	}, true
}

// evaluateFormula resolves a formula to a number. Named aggregates are
// computed directly from the matched objects; anything else goes through
// the arithmetic evaluator with a variable table built from the objects.
func (x *ActionExecutor) evaluateFormula(formula string, ectx *RuleExecutionContext) (float64, error) {
	switch formula {
	case "electrical_load":
		return electricalLoad(ectx.MatchedObjects), nil
	case "plumbing_flow":
		return plumbingFlow(ectx.MatchedObjects), nil
	case "hvac_capacity":
		return hvacCapacity(ectx.MatchedObjects), nil
	case "structural_load":
		return structuralLoad(ectx.MatchedObjects), nil
	case "fire_egress":
		return fireEgress(ectx.MatchedObjects), nil
	case "area":
		return totalArea(ectx.MatchedObjects), nil
	case "count":
		return float64(len(ectx.MatchedObjects)), nil
	}

	vars := extractVariables(ectx.MatchedObjects)

	// No matches and no variables: fall back to the whole building so
	// model-wide formulas still have data to work with.
	if len(vars) == 0 && len(ectx.MatchedObjects) == 0 && ectx.Model != nil {
		vars = extractVariables(ectx.Model.Objects)
	}

	for name, calc := range ectx.Calculations {
		vars[name] = calc.Result
	}

	vars["area"] = totalArea(ectx.MatchedObjects)
	vars["count"] = float64(len(ectx.MatchedObjects))

	for name, def := range defaultVariables {
		if _, ok := vars[name]; !ok {
			vars[name] = def
		}
	}

	return evalFormula(formula, vars)
}

// defaultVariables backstop formulas that reference quantities the matched
// objects do not carry.
var defaultVariables = map[string]float64{
	"fixture_units":   0,
	"airflow":         0,
	"capacity":        0,
	"load":            0,
	"flow":            0,
	"structural_load": 0,
	"occupancy":       0,
	"efficiency":      0,
	"weight":          0,
}

// extractVariables aggregates named quantities from building objects for
// use in formulas. A variable is only set when its aggregate is non-zero
// so that defaults apply otherwise.
func extractVariables(objects []*model.BuildingObject) map[string]float64 {
	vars := make(map[string]float64)

	setIfPositive := func(name string, v float64) {
		if v > 0 {
			vars[name] = v
		}
	}

	setIfPositive("capacity", sumProperty(objects, "capacity", "hvac_equipment", "hvac_unit"))
	setIfPositive("load", sumProperty(objects, "load", "electrical_outlet"))
	setIfPositive("flow", sumProperty(objects, "flow_rate", "plumbing_fixture", "sink", "toilet", "shower"))
	setIfPositive("fixture_units", sumProperty(objects, "fixture_units", "plumbing_fixture", "sink", "toilet", "shower"))
	setIfPositive("airflow", sumProperty(objects, "airflow", "duct"))
	setIfPositive("structural_load", sumProperty(objects, "load", "wall", "column", "beam", "foundation"))
	setIfPositive("occupancy", sumProperty(objects, "occupancy", "room"))
	setIfPositive("weight", sumPropertyAll(objects, "weight"))

	// First HVAC efficiency rating found wins.
	for _, obj := range objects {
		if obj.ObjectType != "hvac_equipment" && obj.ObjectType != "hvac_unit" {
			continue
		}
		if eff, ok := obj.NumericProperty("efficiency_rating"); ok && eff > 0 {
			vars["efficiency"] = eff
			break
		}
	}

	return vars
}

// sumProperty sums a numeric property over objects of the given types.
func sumProperty(objects []*model.BuildingObject, property string, objectTypes ...string) float64 {
	total := 0.0
	for _, obj := range objects {
		if !typeIn(obj.ObjectType, objectTypes) {
			continue
		}
		if v, ok := obj.NumericProperty(property); ok {
			total += v
		}
	}
	return total
}

// sumPropertyAll sums a numeric property over all objects regardless of type.
func sumPropertyAll(objects []*model.BuildingObject, property string) float64 {
	total := 0.0
	for _, obj := range objects {
		if v, ok := obj.NumericProperty(property); ok {
			total += v
		}
	}
	return total
}

func typeIn(objectType string, types []string) bool {
	for _, t := range types {
		if objectType == t {
			return true
		}
	}
	return false
}

// The named aggregates below mirror the trade calculations rules refer to
// by bare name. Their type lists are deliberately narrower than the generic
// variable extraction: "structural_load" as a named aggregate excludes
// foundations, and "plumbing_flow" counts fixtures only by concrete type.

func electricalLoad(objects []*model.BuildingObject) float64 {
	return sumProperty(objects, "load", "electrical_outlet")
}

func plumbingFlow(objects []*model.BuildingObject) float64 {
	return sumProperty(objects, "flow_rate", "sink", "toilet", "shower")
}

func hvacCapacity(objects []*model.BuildingObject) float64 {
	return sumProperty(objects, "capacity", "hvac_unit")
}

func structuralLoad(objects []*model.BuildingObject) float64 {
	return sumProperty(objects, "load", "wall", "column", "beam")
}

// fireEgress converts total room occupancy into required egress width at
// 0.3 units per person.
func fireEgress(objects []*model.BuildingObject) float64 {
	return sumProperty(objects, "occupancy", "room") * 0.3
}

// totalArea sums object areas, preferring location extents over the "area"
// property.
func totalArea(objects []*model.BuildingObject) float64 {
	total := 0.0
	for _, obj := range objects {
		if obj.Location != nil && obj.Location.Width > 0 && obj.Location.Height > 0 {
			total += obj.Location.Width * obj.Location.Height
			continue
		}
		if area, ok := obj.NumericProperty("area"); ok {
			total += area
		}
	}
	return total
}
