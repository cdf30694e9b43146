package ast

// ConditionType represents the kind of predicate a condition expresses.
type ConditionType string

const (
	ConditionTypeProperty     ConditionType = "property"     // element property compared against a value
	ConditionTypeSpatial      ConditionType = "spatial"      // computed spatial quantity compared against a value
	ConditionTypeRelationship ConditionType = "relationship" // connection to an object of a target type
	ConditionTypeSystem       ConditionType = "system"       // membership in a building system
	ConditionTypeComposite    ConditionType = "composite"    // AND/OR over child conditions
)

// Operator represents a comparison operator in rule conditions.
type Operator string

const (
	OperatorEqual        Operator = "=="
	OperatorNotEqual     Operator = "!="
	OperatorGreaterThan  Operator = ">"
	OperatorGreaterEqual Operator = ">="
	OperatorLessThan     Operator = "<"
	OperatorLessEqual    Operator = "<="
	OperatorIn           Operator = "in"
	OperatorNotIn        Operator = "not_in"
	OperatorContains     Operator = "contains"
	OperatorStartsWith   Operator = "starts_with"
	OperatorEndsWith     Operator = "ends_with"
	OperatorRegex        Operator = "regex"
)

// CompositeOperator combines child conditions of a composite condition.
type CompositeOperator string

const (
	// CompositeAND narrows the candidate set by applying each child in sequence.
	CompositeAND CompositeOperator = "AND"

	// CompositeOR unions per-child matches over the original candidate set.
	CompositeOR CompositeOperator = "OR"
)

// SpatialProperty names a computed spatial quantity usable in spatial conditions.
type SpatialProperty string

const (
	SpatialArea           SpatialProperty = "area"
	SpatialVolume         SpatialProperty = "volume"
	SpatialDistance       SpatialProperty = "distance"
	SpatialHeight         SpatialProperty = "height"
	SpatialFloorLevel     SpatialProperty = "floor_level"
	SpatialAdjacentTo     SpatialProperty = "adjacent_to"
	SpatialWithinDistance SpatialProperty = "within_distance"
)

// RuleCondition is a predicate that narrows a set of building objects.
// The populated fields depend on Type:
//
//   - property: ElementType, Property, Operator, Value
//   - spatial: ElementType, Property (a SpatialProperty name), Operator, Value
//   - relationship: ElementType, Relationship, TargetType
//   - system: ElementType, Value (required system_type)
//   - composite: CompositeOperator, Conditions
//
// Value is kept as decoded JSON/YAML (scalar, list, or map) because spatial
// conditions carry parameter maps such as {target_type, max_distance}.
type RuleCondition struct {
	Type              ConditionType
	ElementType       string
	Property          string
	Operator          Operator
	Value             any
	Relationship      string
	TargetType        string
	CompositeOperator CompositeOperator
	Conditions        []*RuleCondition
	Location          Location
}

// IsComposite returns true if this condition combines child conditions.
func (c *RuleCondition) IsComposite() bool {
	return c.Type == ConditionTypeComposite
}

// ValueParam reads a named parameter from a map-shaped condition value.
// Returns false if the value is not a map or the key is absent.
func (c *RuleCondition) ValueParam(key string) (any, bool) {
	params, ok := c.Value.(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := params[key]
	return v, ok
}
