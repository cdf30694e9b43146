package ast

// RuleCategory classifies the building system a rule belongs to.
type RuleCategory string

const (
	CategoryStructural    RuleCategory = "structural"
	CategoryElectrical    RuleCategory = "electrical"
	CategoryPlumbing      RuleCategory = "plumbing"
	CategoryMechanical    RuleCategory = "mechanical"
	CategoryFire          RuleCategory = "fire"
	CategoryAccessibility RuleCategory = "accessibility"
	CategoryEnergy        RuleCategory = "energy"
	CategoryGeneral       RuleCategory = "general"
)

// KnownCategories lists every recognized rule category.
var KnownCategories = []RuleCategory{
	CategoryStructural,
	CategoryElectrical,
	CategoryPlumbing,
	CategoryMechanical,
	CategoryFire,
	CategoryAccessibility,
	CategoryEnergy,
	CategoryGeneral,
}

// MCPRule is a single building-code rule. The top-level condition list is
// implicitly AND-chained: each condition filters the output of the previous
// one, starting from the full object list of the building model.
type MCPRule struct {
	RuleID     string
	Name       string
	Category   RuleCategory
	Enabled    bool
	Conditions []*RuleCondition
	Actions    []*RuleAction
	Location   Location
}

// HasConditions returns true if the rule has at least one condition.
func (r *MCPRule) HasConditions() bool {
	return len(r.Conditions) > 0
}

// HasActions returns true if the rule has at least one action.
func (r *MCPRule) HasActions() bool {
	return len(r.Actions) > 0
}
