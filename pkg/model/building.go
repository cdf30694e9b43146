package model

// ObjectLocation is the position and extent of a building object.
// Coordinates are meters in the building's local frame; missing axes are
// treated as zero by geometric predicates.
type ObjectLocation struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Z      float64 `json:"z" yaml:"z"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
	Depth  float64 `json:"depth" yaml:"depth"`
}

// BuildingObject is a single element of a building model: a wall, a room,
// an outlet, an HVAC unit. Objects are immutable once constructed and are
// owned by the BuildingModel they belong to.
type BuildingObject struct {
	ObjectID   string          `json:"object_id" yaml:"object_id"`
	ObjectType string          `json:"object_type" yaml:"object_type"`
	Properties map[string]any  `json:"properties" yaml:"properties"`
	Location   *ObjectLocation `json:"location,omitempty" yaml:"location,omitempty"`

	// Connections lists the ids of objects this object is connected to.
	// Connection membership is symmetric: two objects are connected when
	// either side lists the other.
	Connections []string `json:"connections,omitempty" yaml:"connections,omitempty"`
}

// Property returns the named property value, or nil if absent.
func (o *BuildingObject) Property(name string) any {
	if o.Properties == nil {
		return nil
	}
	return o.Properties[name]
}

// NumericProperty returns the named property as a float64.
// The second return is false when the property is absent or non-numeric.
func (o *BuildingObject) NumericProperty(name string) (float64, bool) {
	v := o.Property(name)
	if v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// ConnectedTo returns true if this object lists the given id as a connection.
func (o *BuildingObject) ConnectedTo(objectID string) bool {
	for _, id := range o.Connections {
		if id == objectID {
			return true
		}
	}
	return false
}

// BuildingModel is the full set of objects extracted from a building design,
// plus location metadata used for jurisdiction matching. Object order is
// input order and is preserved through condition evaluation.
type BuildingModel struct {
	BuildingID   string            `json:"building_id" yaml:"building_id"`
	BuildingName string            `json:"building_name" yaml:"building_name"`
	Objects      []*BuildingObject `json:"objects" yaml:"objects"`
	Metadata     map[string]any    `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// FindObject returns the object with the given id, or nil.
func (m *BuildingModel) FindObject(objectID string) *BuildingObject {
	for _, obj := range m.Objects {
		if obj.ObjectID == objectID {
			return obj
		}
	}
	return nil
}

// ObjectsByType returns all objects with the given type tag, in model order.
func (m *BuildingModel) ObjectsByType(objectType string) []*BuildingObject {
	var objects []*BuildingObject
	for _, obj := range m.Objects {
		if obj.ObjectType == objectType {
			objects = append(objects, obj)
		}
	}
	return objects
}
