package engine

import (
	"context"
	"fmt"
	"log/slog"

	"arxhq/codecheck/pkg/mcp/ast"
	"arxhq/codecheck/pkg/model"
	"arxhq/codecheck/pkg/spatial"
)

// ConditionEvaluator narrows candidate objects through rule conditions.
// Evaluation is a filter: each condition takes a candidate set and returns
// the subset that satisfies it, preserving model order.
type ConditionEvaluator struct {
	spatial *spatial.Engine
	logger  *slog.Logger
}

// NewConditionEvaluator creates a condition evaluator.
func NewConditionEvaluator(spatialEngine *spatial.Engine, logger *slog.Logger) *ConditionEvaluator {
	if spatialEngine == nil {
		spatialEngine = spatial.NewEngine()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ConditionEvaluator{
		spatial: spatialEngine,
		logger:  logger,
	}
}

// Evaluate returns the objects from the candidate set that satisfy the
// condition. A nil condition matches nothing. A comparison that cannot be
// performed for one object skips that object; only structural problems
// (unknown condition type or operator) are errors.
func (e *ConditionEvaluator) Evaluate(ctx context.Context, condition *ast.RuleCondition, objects []*model.BuildingObject) ([]*model.BuildingObject, error) {
	if condition == nil {
		return nil, nil
	}

	switch condition.Type {
	case ast.ConditionTypeProperty:
		return e.evaluateProperty(condition, objects)

	case ast.ConditionTypeSpatial:
		return e.evaluateSpatial(condition, objects)

	case ast.ConditionTypeRelationship:
		return e.evaluateRelationship(condition, objects), nil

	case ast.ConditionTypeSystem:
		return e.evaluateSystem(condition, objects), nil

	case ast.ConditionTypeComposite:
		return e.evaluateComposite(ctx, condition, objects)

	default:
		return nil, &ConditionError{
			Cause: fmt.Errorf("unknown condition type: %q", condition.Type),
		}
	}
}

// evaluateProperty matches objects of the element type whose named property
// satisfies the operator. Objects without the property are not matched.
func (e *ConditionEvaluator) evaluateProperty(condition *ast.RuleCondition, objects []*model.BuildingObject) ([]*model.BuildingObject, error) {
	if condition.ElementType == "" || condition.Property == "" || condition.Operator == "" {
		return nil, nil
	}

	var matched []*model.BuildingObject
	for _, obj := range objects {
		if obj.ObjectType != condition.ElementType {
			continue
		}

		value := obj.Property(condition.Property)
		if value == nil {
			continue
		}

		ok, err := evaluateOperator(condition.Operator, value, condition.Value)
		if err != nil {
			e.logger.Warn("property comparison skipped",
				"object_id", obj.ObjectID,
				"property", condition.Property,
				"operator", condition.Operator,
				"error", err,
			)
			continue
		}
		if ok {
			matched = append(matched, obj)
		}
	}
	return matched, nil
}

// knownSpatialProperties is the set of evaluable spatial property names.
var knownSpatialProperties = map[ast.SpatialProperty]bool{
	ast.SpatialArea:           true,
	ast.SpatialVolume:         true,
	ast.SpatialDistance:       true,
	ast.SpatialHeight:         true,
	ast.SpatialFloorLevel:     true,
	ast.SpatialAdjacentTo:     true,
	ast.SpatialWithinDistance: true,
}

// evaluateSpatial matches objects by a computed spatial quantity. An
// unknown property name logs a warning and matches nothing; it does not
// fail the rule.
func (e *ConditionEvaluator) evaluateSpatial(condition *ast.RuleCondition, objects []*model.BuildingObject) ([]*model.BuildingObject, error) {
	if condition.ElementType == "" || condition.Property == "" {
		return nil, nil
	}

	if !knownSpatialProperties[ast.SpatialProperty(condition.Property)] {
		e.logger.Warn("unknown spatial property, condition matches nothing",
			"property", condition.Property,
		)
		return nil, nil
	}

	var matched []*model.BuildingObject
	for _, obj := range objects {
		if obj.ObjectType != condition.ElementType {
			continue
		}

		ok, err := e.matchSpatialProperty(condition, obj, objects)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, obj)
		}
	}
	return matched, nil
}

func (e *ConditionEvaluator) matchSpatialProperty(condition *ast.RuleCondition, obj *model.BuildingObject, objects []*model.BuildingObject) (bool, error) {
	switch ast.SpatialProperty(condition.Property) {
	case ast.SpatialArea:
		return e.compareQuantity(condition, e.spatial.RoomArea(obj))

	case ast.SpatialVolume:
		return e.compareQuantity(condition, e.spatial.RoomVolume(obj))

	case ast.SpatialDistance:
		targetID, ok := condition.ValueParam("target_id")
		if !ok {
			return false, nil
		}
		targetIDStr, _ := targetID.(string)
		target := findObjectByID(objects, targetIDStr)
		if target == nil {
			return false, nil
		}
		maxDistance, _ := condition.ValueParam("max_distance")
		return e.compareQuantityAgainst(condition.Operator, e.spatial.Distance(obj, target), maxDistance)

	case ast.SpatialHeight:
		height, ok := objectHeight(obj)
		if !ok {
			return false, nil
		}
		return e.compareQuantity(condition, height)

	case ast.SpatialFloorLevel:
		return e.compareQuantity(condition, float64(e.spatial.FloorLevel(obj)))

	case ast.SpatialAdjacentTo:
		return e.matchNearbyType(condition, obj, objects, spatial.RelationshipAdjacent, 2.0)

	case ast.SpatialWithinDistance:
		return e.matchNearbyType(condition, obj, objects, spatial.RelationshipWithinDistance, 5.0)

	default:
		// Unknown names are filtered in evaluateSpatial.
		return false, nil
	}
}

// matchNearbyType reports whether any object of the target type stands in
// the given relationship to obj.
func (e *ConditionEvaluator) matchNearbyType(condition *ast.RuleCondition, obj *model.BuildingObject, objects []*model.BuildingObject, rel spatial.Relationship, defaultMaxDistance float64) (bool, error) {
	targetTypeVal, ok := condition.ValueParam("target_type")
	if !ok {
		return false, nil
	}
	targetType, _ := targetTypeVal.(string)
	if targetType == "" {
		return false, nil
	}

	maxDistance := defaultMaxDistance
	if v, ok := condition.ValueParam("max_distance"); ok {
		if n, err := convertToFloat64(v); err == nil {
			maxDistance = n
		}
	}

	for _, target := range objects {
		if target.ObjectType != targetType {
			continue
		}
		ok, err := e.spatial.CheckRelationship(obj, target, rel, maxDistance)
		if err != nil {
			return false, &ConditionError{Property: condition.Property, Cause: err}
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// compareQuantity compares a computed quantity against the condition value.
func (e *ConditionEvaluator) compareQuantity(condition *ast.RuleCondition, quantity float64) (bool, error) {
	return e.compareQuantityAgainst(condition.Operator, quantity, condition.Value)
}

func (e *ConditionEvaluator) compareQuantityAgainst(op ast.Operator, quantity float64, expected any) (bool, error) {
	ok, err := evaluateOperator(op, quantity, expected)
	if err != nil {
		e.logger.Warn("spatial comparison skipped",
			"operator", op,
			"error", err,
		)
		return false, nil
	}
	return ok, nil
}

// evaluateRelationship matches objects connected to at least one object of
// the target type.
func (e *ConditionEvaluator) evaluateRelationship(condition *ast.RuleCondition, objects []*model.BuildingObject) []*model.BuildingObject {
	if condition.ElementType == "" || condition.Relationship == "" || condition.TargetType == "" {
		return nil
	}

	var matched []*model.BuildingObject
	for _, obj := range objects {
		if obj.ObjectType != condition.ElementType {
			continue
		}
		if hasConnectionOfType(obj, objects, condition.TargetType) {
			matched = append(matched, obj)
		}
	}
	return matched
}

// evaluateSystem matches objects whose system_type property equals the
// condition value.
func (e *ConditionEvaluator) evaluateSystem(condition *ast.RuleCondition, objects []*model.BuildingObject) []*model.BuildingObject {
	if condition.ElementType == "" {
		return nil
	}

	var matched []*model.BuildingObject
	for _, obj := range objects {
		if obj.ObjectType != condition.ElementType {
			continue
		}
		systemType := obj.Property("system_type")
		if systemType == nil {
			continue
		}
		if equal, err := evaluateEqual(systemType, condition.Value); err == nil && equal {
			matched = append(matched, obj)
		}
	}
	return matched
}

// evaluateComposite combines child conditions. AND narrows the candidate
// set through each child in sequence and short-circuits when it empties.
// OR evaluates every child over the original candidates and unions the
// matches without duplicates, preserving first-match order.
func (e *ConditionEvaluator) evaluateComposite(ctx context.Context, condition *ast.RuleCondition, objects []*model.BuildingObject) ([]*model.BuildingObject, error) {
	if len(condition.Conditions) == 0 {
		return nil, nil
	}

	switch condition.CompositeOperator {
	case ast.CompositeAND:
		matched := objects
		for _, child := range condition.Conditions {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}

			var err error
			matched, err = e.Evaluate(ctx, child, matched)
			if err != nil {
				return nil, err
			}
			if len(matched) == 0 {
				break
			}
		}
		return matched, nil

	case ast.CompositeOR:
		seen := make(map[*model.BuildingObject]bool)
		var union []*model.BuildingObject
		for _, child := range condition.Conditions {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}

			matched, err := e.Evaluate(ctx, child, objects)
			if err != nil {
				return nil, err
			}
			for _, obj := range matched {
				if !seen[obj] {
					seen[obj] = true
					union = append(union, obj)
				}
			}
		}
		return union, nil

	default:
		return nil, &ConditionError{
			Cause: fmt.Errorf("unknown composite operator: %q", condition.CompositeOperator),
		}
	}
}

func findObjectByID(objects []*model.BuildingObject, objectID string) *model.BuildingObject {
	if objectID == "" {
		return nil
	}
	for _, obj := range objects {
		if obj.ObjectID == objectID {
			return obj
		}
	}
	return nil
}

// objectHeight reads an object's height, preferring the property over the
// location extent.
func objectHeight(obj *model.BuildingObject) (float64, bool) {
	if h, ok := obj.NumericProperty("height"); ok {
		return h, true
	}
	if obj.Location != nil && obj.Location.Height > 0 {
		return obj.Location.Height, true
	}
	return 0, false
}

// hasConnectionOfType reports whether obj is connected to an object of the
// target type. Connection membership is symmetric: either side listing the
// other counts.
func hasConnectionOfType(obj *model.BuildingObject, objects []*model.BuildingObject, targetType string) bool {
	for _, other := range objects {
		if other == obj || other.ObjectType != targetType {
			continue
		}
		if obj.ConnectedTo(other.ObjectID) || other.ConnectedTo(obj.ObjectID) {
			return true
		}
	}
	return false
}
