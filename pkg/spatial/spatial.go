package spatial

import (
	"fmt"
	"math"

	"arxhq/codecheck/pkg/model"
)

// Default tolerances for spatial relationships, in meters.
const (
	// DefaultAdjacency is the maximum gap between adjacent objects.
	DefaultAdjacency = 1.0

	// DefaultHeightDiff is the minimum z difference for above/below.
	DefaultHeightDiff = 0.1

	// DefaultFloorTolerance is the z tolerance for same-floor checks.
	DefaultFloorTolerance = 0.5

	// StandardFloorHeight is the assumed storey height for floor levels.
	StandardFloorHeight = 10.0
)

// Relationship names a spatial relationship usable in declarative constraints.
type Relationship string

const (
	RelationshipAdjacent       Relationship = "adjacent"
	RelationshipWithinDistance Relationship = "within_distance"
	RelationshipAbove          Relationship = "above"
	RelationshipBelow          Relationship = "below"
	RelationshipSameFloor      Relationship = "same_floor"
	RelationshipConnected      Relationship = "connected"
	RelationshipOverlapping    Relationship = "overlapping"
)

// Engine evaluates geometric predicates over building objects.
// The zero value is not usable; construct with NewEngine.
type Engine struct{}

// NewEngine creates a spatial engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Distance returns the 3D Euclidean distance between two objects.
// Returns +Inf if either object has no location.
func (e *Engine) Distance(a, b *model.BuildingObject) float64 {
	if a == nil || b == nil || a.Location == nil || b.Location == nil {
		return math.Inf(1)
	}

	dx := a.Location.X - b.Location.X
	dy := a.Location.Y - b.Location.Y
	dz := a.Location.Z - b.Location.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Adjacent returns true if the objects are within maxDistance of each other.
// A maxDistance of zero or less uses DefaultAdjacency.
func (e *Engine) Adjacent(a, b *model.BuildingObject, maxDistance float64) bool {
	if maxDistance <= 0 {
		maxDistance = DefaultAdjacency
	}
	return e.Distance(a, b) <= maxDistance
}

// WithinDistance returns true if the objects are within maxDistance.
func (e *Engine) WithinDistance(a, b *model.BuildingObject, maxDistance float64) bool {
	return e.Distance(a, b) <= maxDistance
}

// Above returns true if a is at least minHeightDiff above b on the z axis.
// A minHeightDiff of zero or less uses DefaultHeightDiff.
func (e *Engine) Above(a, b *model.BuildingObject, minHeightDiff float64) bool {
	if a == nil || b == nil || a.Location == nil || b.Location == nil {
		return false
	}
	if minHeightDiff <= 0 {
		minHeightDiff = DefaultHeightDiff
	}
	return a.Location.Z-b.Location.Z >= minHeightDiff
}

// Below returns true if a is at least minHeightDiff below b on the z axis.
func (e *Engine) Below(a, b *model.BuildingObject, minHeightDiff float64) bool {
	return e.Above(b, a, minHeightDiff)
}

// SameFloor returns true if the objects' z coordinates differ by at most
// tolerance. A tolerance of zero or less uses DefaultFloorTolerance.
func (e *Engine) SameFloor(a, b *model.BuildingObject, tolerance float64) bool {
	if a == nil || b == nil || a.Location == nil || b.Location == nil {
		return false
	}
	if tolerance <= 0 {
		tolerance = DefaultFloorTolerance
	}
	return math.Abs(a.Location.Z-b.Location.Z) <= tolerance
}

// Connected returns true if either object lists the other as a connection.
func (e *Engine) Connected(a, b *model.BuildingObject) bool {
	if a == nil || b == nil {
		return false
	}
	return a.ConnectedTo(b.ObjectID) || b.ConnectedTo(a.ObjectID)
}

// Overlapping returns true if the objects' axis-aligned bounding boxes
// intersect. Touching boxes do not overlap: the test uses strict
// inequalities on all three axes.
func (e *Engine) Overlapping(a, b *model.BuildingObject) bool {
	if a == nil || b == nil || a.Location == nil || b.Location == nil {
		return false
	}

	// Plan-view convention: width spans x, height spans y, depth spans z.
	al, bl := a.Location, b.Location
	return al.X < bl.X+bl.Width && bl.X < al.X+al.Width &&
		al.Y < bl.Y+bl.Height && bl.Y < al.Y+al.Height &&
		al.Z < bl.Z+bl.Depth && bl.Z < al.Z+al.Depth
}

// RoomArea returns the floor area of an object computed from its location
// dimensions, falling back to an "area" property override.
func (e *Engine) RoomArea(obj *model.BuildingObject) float64 {
	if obj == nil {
		return 0
	}
	if obj.Location != nil && obj.Location.Width > 0 && obj.Location.Height > 0 {
		return obj.Location.Width * obj.Location.Height
	}
	if area, ok := obj.NumericProperty("area"); ok {
		return area
	}
	return 0
}

// RoomVolume returns the volume of an object computed from its location
// dimensions, falling back to a "volume" property override.
func (e *Engine) RoomVolume(obj *model.BuildingObject) float64 {
	if obj == nil {
		return 0
	}
	if obj.Location != nil && obj.Location.Width > 0 && obj.Location.Height > 0 && obj.Location.Depth > 0 {
		return obj.Location.Width * obj.Location.Height * obj.Location.Depth
	}
	if volume, ok := obj.NumericProperty("volume"); ok {
		return volume
	}
	return 0
}

// FloorLevel returns the floor an object sits on, assuming the standard
// floor height. Objects without a location are on floor 0.
func (e *Engine) FloorLevel(obj *model.BuildingObject) int {
	if obj == nil || obj.Location == nil {
		return 0
	}
	return int(math.Floor(obj.Location.Z / StandardFloorHeight))
}

// EgressDistance returns the distance from a room to its nearest exit.
// Returns +Inf when there are no exits or the room has no location.
func (e *Engine) EgressDistance(room *model.BuildingObject, exits []*model.BuildingObject) float64 {
	minDist := math.Inf(1)
	for _, exit := range exits {
		if d := e.Distance(room, exit); d < minDist {
			minDist = d
		}
	}
	return minDist
}

// FindObjectsWithinDistance returns all objects within maxDistance of origin,
// excluding origin itself, in input order.
func (e *Engine) FindObjectsWithinDistance(origin *model.BuildingObject, objects []*model.BuildingObject, maxDistance float64) []*model.BuildingObject {
	var found []*model.BuildingObject
	for _, obj := range objects {
		if obj == origin {
			continue
		}
		if e.WithinDistance(origin, obj, maxDistance) {
			found = append(found, obj)
		}
	}
	return found
}

// FindAdjacentRooms returns the rooms adjacent to the given room.
func (e *Engine) FindAdjacentRooms(room *model.BuildingObject, objects []*model.BuildingObject, maxDistance float64) []*model.BuildingObject {
	var rooms []*model.BuildingObject
	for _, obj := range objects {
		if obj == room || obj.ObjectType != "room" {
			continue
		}
		if e.Adjacent(room, obj, maxDistance) {
			rooms = append(rooms, obj)
		}
	}
	return rooms
}

// CheckRelationship evaluates a named spatial relationship between two
// objects. maxDistance applies to adjacency and within-distance checks.
// An unknown relationship name is an error, not a silent false.
func (e *Engine) CheckRelationship(a, b *model.BuildingObject, rel Relationship, maxDistance float64) (bool, error) {
	switch rel {
	case RelationshipAdjacent:
		return e.Adjacent(a, b, maxDistance), nil
	case RelationshipWithinDistance:
		return e.WithinDistance(a, b, maxDistance), nil
	case RelationshipAbove:
		return e.Above(a, b, 0), nil
	case RelationshipBelow:
		return e.Below(a, b, 0), nil
	case RelationshipSameFloor:
		return e.SameFloor(a, b, 0), nil
	case RelationshipConnected:
		return e.Connected(a, b), nil
	case RelationshipOverlapping:
		return e.Overlapping(a, b), nil
	default:
		return false, fmt.Errorf("unknown spatial relationship: %q", rel)
	}
}
