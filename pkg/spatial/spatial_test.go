package spatial

import (
	"math"
	"strings"
	"testing"

	"arxhq/codecheck/pkg/model"
)

func objAt(id string, x, y, z float64) *model.BuildingObject {
	return &model.BuildingObject{
		ObjectID:   id,
		ObjectType: "room",
		Location:   &model.ObjectLocation{X: x, Y: y, Z: z},
	}
}

func TestDistance(t *testing.T) {
	e := NewEngine()

	tests := []struct {
		name string
		a, b *model.BuildingObject
		want float64
	}{
		{
			name: "same point",
			a:    objAt("a", 0, 0, 0),
			b:    objAt("b", 0, 0, 0),
			want: 0,
		},
		{
			name: "axis aligned",
			a:    objAt("a", 0, 0, 0),
			b:    objAt("b", 3, 4, 0),
			want: 5,
		},
		{
			name: "three dimensions",
			a:    objAt("a", 1, 2, 3),
			b:    objAt("b", 3, 4, 5),
			want: math.Sqrt(12),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Distance(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Distance() = %v, want %v", got, tt.want)
			}

			// Distance must be symmetric.
			rev := e.Distance(tt.b, tt.a)
			if got != rev {
				t.Errorf("Distance() not symmetric: %v vs %v", got, rev)
			}
		})
	}
}

func TestDistanceMissingLocation(t *testing.T) {
	e := NewEngine()
	a := objAt("a", 0, 0, 0)
	b := &model.BuildingObject{ObjectID: "b", ObjectType: "room"}

	if got := e.Distance(a, b); !math.IsInf(got, 1) {
		t.Errorf("Distance() with missing location = %v, want +Inf", got)
	}
	if e.Adjacent(a, b, 100) {
		t.Error("Adjacent() should be false when a location is missing")
	}
}

func TestAboveBelow(t *testing.T) {
	e := NewEngine()
	upper := objAt("upper", 0, 0, 10)
	lower := objAt("lower", 0, 0, 0)

	if !e.Above(upper, lower, 0) {
		t.Error("Above() = false, want true")
	}
	if e.Above(lower, upper, 0) {
		t.Error("Above() reversed = true, want false")
	}
	if !e.Below(lower, upper, 0) {
		t.Error("Below() = false, want true")
	}

	// Objects on the same level are neither above nor below.
	peer := objAt("peer", 5, 5, 0)
	if e.Above(lower, peer, 0) || e.Below(lower, peer, 0) {
		t.Error("same-level objects should be neither above nor below")
	}
}

func TestSameFloor(t *testing.T) {
	e := NewEngine()

	tests := []struct {
		name      string
		za, zb    float64
		tolerance float64
		want      bool
	}{
		{name: "identical z", za: 0, zb: 0, want: true},
		{name: "within default tolerance", za: 0, zb: 0.4, want: true},
		{name: "outside default tolerance", za: 0, zb: 0.6, want: false},
		{name: "custom tolerance", za: 0, zb: 2, tolerance: 3, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := objAt("a", 0, 0, tt.za)
			b := objAt("b", 0, 0, tt.zb)
			if got := e.SameFloor(a, b, tt.tolerance); got != tt.want {
				t.Errorf("SameFloor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConnected(t *testing.T) {
	e := NewEngine()
	a := &model.BuildingObject{ObjectID: "a", Connections: []string{"b"}}
	b := &model.BuildingObject{ObjectID: "b"}
	c := &model.BuildingObject{ObjectID: "c"}

	if !e.Connected(a, b) {
		t.Error("Connected(a, b) = false, want true")
	}
	// Symmetric even when only one side lists the connection.
	if !e.Connected(b, a) {
		t.Error("Connected(b, a) = false, want true")
	}
	if e.Connected(a, c) {
		t.Error("Connected(a, c) = true, want false")
	}
}

func TestOverlapping(t *testing.T) {
	e := NewEngine()

	box := func(id string, x, y, z, w, h, d float64) *model.BuildingObject {
		return &model.BuildingObject{
			ObjectID: id,
			Location: &model.ObjectLocation{X: x, Y: y, Z: z, Width: w, Height: h, Depth: d},
		}
	}

	tests := []struct {
		name string
		a, b *model.BuildingObject
		want bool
	}{
		{
			name: "intersecting",
			a:    box("a", 0, 0, 0, 10, 10, 3),
			b:    box("b", 5, 5, 0, 10, 10, 3),
			want: true,
		},
		{
			name: "touching edges do not overlap",
			a:    box("a", 0, 0, 0, 10, 10, 3),
			b:    box("b", 10, 0, 0, 10, 10, 3),
			want: false,
		},
		{
			name: "separated",
			a:    box("a", 0, 0, 0, 5, 5, 3),
			b:    box("b", 20, 20, 0, 5, 5, 3),
			want: false,
		},
		{
			name: "same xy different floors",
			a:    box("a", 0, 0, 0, 10, 10, 3),
			b:    box("b", 0, 0, 10, 10, 10, 3),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.Overlapping(tt.a, tt.b); got != tt.want {
				t.Errorf("Overlapping() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRoomAreaAndVolume(t *testing.T) {
	e := NewEngine()

	withDims := &model.BuildingObject{
		ObjectID: "r1",
		Location: &model.ObjectLocation{Width: 4, Height: 5, Depth: 3},
	}
	if got := e.RoomArea(withDims); got != 20 {
		t.Errorf("RoomArea() = %v, want 20", got)
	}
	if got := e.RoomVolume(withDims); got != 60 {
		t.Errorf("RoomVolume() = %v, want 60", got)
	}

	// Property override when dimensions are absent.
	withProp := &model.BuildingObject{
		ObjectID:   "r2",
		Properties: map[string]any{"area": 42.0},
	}
	if got := e.RoomArea(withProp); got != 42 {
		t.Errorf("RoomArea() property fallback = %v, want 42", got)
	}

	if got := e.RoomArea(&model.BuildingObject{ObjectID: "r3"}); got != 0 {
		t.Errorf("RoomArea() without data = %v, want 0", got)
	}
}

func TestFloorLevel(t *testing.T) {
	e := NewEngine()

	tests := []struct {
		z    float64
		want int
	}{
		{z: 0, want: 0},
		{z: 5, want: 0},
		{z: 10, want: 1},
		{z: 25, want: 2},
		{z: -5, want: -1},
	}

	for _, tt := range tests {
		obj := objAt("o", 0, 0, tt.z)
		if got := e.FloorLevel(obj); got != tt.want {
			t.Errorf("FloorLevel(z=%v) = %v, want %v", tt.z, got, tt.want)
		}
	}
}

func TestCheckRelationshipUnknown(t *testing.T) {
	e := NewEngine()
	a := objAt("a", 0, 0, 0)
	b := objAt("b", 1, 0, 0)

	if _, err := e.CheckRelationship(a, b, "orbiting", 1); err == nil {
		t.Error("CheckRelationship() with unknown relationship should error")
	}

	ok, err := e.CheckRelationship(a, b, RelationshipAdjacent, 2)
	if err != nil {
		t.Fatalf("CheckRelationship() error: %v", err)
	}
	if !ok {
		t.Error("CheckRelationship(adjacent) = false, want true")
	}
}

func TestFindObjectsWithinDistance(t *testing.T) {
	e := NewEngine()
	origin := objAt("origin", 0, 0, 0)
	near := objAt("near", 1, 0, 0)
	far := objAt("far", 100, 0, 0)

	found := e.FindObjectsWithinDistance(origin, []*model.BuildingObject{origin, near, far}, 10)
	if len(found) != 1 || found[0].ObjectID != "near" {
		t.Errorf("FindObjectsWithinDistance() = %v objects, want only near", len(found))
	}
}

func TestValidateEgress(t *testing.T) {
	v := NewValidator(nil, nil)

	roomA := objAt("room-a", 2, 0, 0)
	roomB := objAt("room-b", 10, 0, 0)
	exit := &model.BuildingObject{
		ObjectID:   "exit-1",
		ObjectType: "exit",
		Location:   &model.ObjectLocation{X: 0, Y: 0, Z: 0},
	}

	violations := v.ValidateEgress([]*model.BuildingObject{roomA, roomB, exit}, 5)
	if len(violations) != 1 {
		t.Fatalf("ValidateEgress() = %d violations, want 1: %v", len(violations), violations)
	}
	if got := violations[0]; !strings.Contains(got, "room-b") {
		t.Errorf("violation should name room-b, got %q", got)
	}
}

func TestValidateEgressNoExits(t *testing.T) {
	v := NewValidator(nil, nil)
	room := objAt("room-a", 0, 0, 0)

	// With no exits every room is infinitely far from egress.
	violations := v.ValidateEgress([]*model.BuildingObject{room}, 50)
	if len(violations) != 1 {
		t.Fatalf("ValidateEgress() with no exits = %d violations, want 1", len(violations))
	}
}

func TestValidateConstraints(t *testing.T) {
	v := NewValidator(nil, nil)

	panel := &model.BuildingObject{
		ObjectID:   "panel-1",
		ObjectType: "electrical_panel",
		Location:   &model.ObjectLocation{X: 0, Y: 0, Z: 0},
	}
	unitNear := &model.BuildingObject{
		ObjectID:   "hvac-1",
		ObjectType: "hvac_unit",
		Location:   &model.ObjectLocation{X: 2, Y: 0, Z: 0},
	}
	unitFar := &model.BuildingObject{
		ObjectID:   "hvac-2",
		ObjectType: "hvac_unit",
		Location:   &model.ObjectLocation{X: 50, Y: 0, Z: 0},
	}

	constraints := []Constraint{{
		Type:         "hvac_power_proximity",
		ObjectAType:  "hvac_unit",
		ObjectBType:  "electrical_panel",
		Relationship: RelationshipWithinDistance,
		MaxDistance:  5,
	}}

	violations := v.ValidateConstraints([]*model.BuildingObject{panel, unitNear, unitFar}, constraints)
	if len(violations) != 1 {
		t.Fatalf("ValidateConstraints() = %d violations, want 1: %v", len(violations), violations)
	}
	if !strings.Contains(violations[0], "hvac-2") {
		t.Errorf("violation should name hvac-2, got %q", violations[0])
	}
}

func TestValidateConstraintsUnknownRelationship(t *testing.T) {
	v := NewValidator(nil, nil)

	a := &model.BuildingObject{ObjectID: "a", ObjectType: "x", Location: &model.ObjectLocation{}}
	b := &model.BuildingObject{ObjectID: "b", ObjectType: "y", Location: &model.ObjectLocation{}}

	violations := v.ValidateConstraints([]*model.BuildingObject{a, b}, []Constraint{{
		Type:         "bad",
		ObjectAType:  "x",
		ObjectBType:  "y",
		Relationship: "orbiting",
	}})
	if len(violations) == 0 {
		t.Error("unknown relationship should surface as a violation, not be dropped")
	}
}
