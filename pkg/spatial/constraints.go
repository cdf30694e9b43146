package spatial

import (
	"fmt"
	"log/slog"

	"arxhq/codecheck/pkg/model"
)

// Constraint is a declarative rule over pairs of object types, e.g.
// "every hvac_unit must be within 3m of an electrical_panel".
type Constraint struct {
	Type         string       `json:"type" yaml:"type"`
	ObjectAType  string       `json:"object_a_type" yaml:"object_a_type"`
	ObjectBType  string       `json:"object_b_type" yaml:"object_b_type"`
	Relationship Relationship `json:"relationship" yaml:"relationship"`
	MaxDistance  float64      `json:"max_distance" yaml:"max_distance"`
}

// Validator runs declarative spatial constraints across a whole object set.
type Validator struct {
	engine *Engine
	logger *slog.Logger
}

// NewValidator creates a constraint validator.
func NewValidator(engine *Engine, logger *slog.Logger) *Validator {
	if engine == nil {
		engine = NewEngine()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{engine: engine, logger: logger}
}

// ValidateConstraints evaluates every constraint across all type-matching
// object pairs and returns human-readable violation strings. A failure to
// evaluate one pair is reported as its own violation; it never aborts the
// batch.
func (v *Validator) ValidateConstraints(objects []*model.BuildingObject, constraints []Constraint) []string {
	var violations []string

	for _, c := range constraints {
		as := objectsOfType(objects, c.ObjectAType)
		bs := objectsOfType(objects, c.ObjectBType)

		for _, a := range as {
			satisfied := false
			for _, b := range bs {
				if a == b {
					continue
				}

				ok, err := v.engine.CheckRelationship(a, b, c.Relationship, c.MaxDistance)
				if err != nil {
					v.logger.Warn("spatial constraint evaluation failed",
						"constraint", c.Type,
						"object_a", a.ObjectID,
						"object_b", b.ObjectID,
						"error", err,
					)
					violations = append(violations, fmt.Sprintf(
						"constraint %q could not be evaluated for %s and %s: %v",
						c.Type, a.ObjectID, b.ObjectID, err))
					continue
				}
				if ok {
					satisfied = true
					break
				}
			}

			if !satisfied && len(bs) > 0 {
				violations = append(violations, fmt.Sprintf(
					"%s %q violates constraint %q: no %s satisfies relationship %q within %.1fm",
					a.ObjectType, a.ObjectID, c.Type, c.ObjectBType, c.Relationship, c.MaxDistance))
			}
		}
	}

	return violations
}

// ValidateEgress checks each room's distance to the nearest exit against
// maxEgressDistance and returns one violation string per failing room.
// Exits are objects of type "egress", "exit", or "door" marked is_exit.
func (v *Validator) ValidateEgress(objects []*model.BuildingObject, maxEgressDistance float64) []string {
	rooms := objectsOfType(objects, "room")
	exits := exitObjects(objects)

	var violations []string
	for _, room := range rooms {
		dist := v.engine.EgressDistance(room, exits)
		if dist > maxEgressDistance {
			violations = append(violations, fmt.Sprintf(
				"room %q exceeds maximum egress distance: %.1fm > %.1fm",
				room.ObjectID, dist, maxEgressDistance))
		}
	}
	return violations
}

func objectsOfType(objects []*model.BuildingObject, objectType string) []*model.BuildingObject {
	var result []*model.BuildingObject
	for _, obj := range objects {
		if obj.ObjectType == objectType {
			result = append(result, obj)
		}
	}
	return result
}

func exitObjects(objects []*model.BuildingObject) []*model.BuildingObject {
	var exits []*model.BuildingObject
	for _, obj := range objects {
		switch obj.ObjectType {
		case "egress", "exit":
			exits = append(exits, obj)
		case "door":
			if isExit, _ := obj.Property("is_exit").(bool); isExit {
				exits = append(exits, obj)
			}
		}
	}
	return exits
}
