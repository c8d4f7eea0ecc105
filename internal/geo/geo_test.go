package geo

import (
	"encoding/json"
	"testing"
)

func TestSignedAreaWinding(t *testing.T) {
	ccw := Contour{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	if got := ccw.SignedArea(); got != 1 {
		t.Errorf("ccw unit square: got %v, want 1", got)
	}

	cw := Contour{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}}
	if got := cw.SignedArea(); got != -1 {
		t.Errorf("cw unit square: got %v, want -1", got)
	}

	if got := (Contour{{X: 0, Y: 0}, {X: 1, Y: 1}}).SignedArea(); got != 0 {
		t.Errorf("degenerate contour: got %v, want 0", got)
	}
}

func TestDegenerate(t *testing.T) {
	if !(Contour{}).Degenerate() || !(Contour{{X: 1, Y: 1}, {X: 2, Y: 2}}).Degenerate() {
		t.Error("contours with fewer than 3 points must be degenerate")
	}
	if (Contour{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}).Degenerate() {
		t.Error("triangle must not be degenerate")
	}
	if !(Shape{}).Degenerate() {
		t.Error("empty shape must be degenerate")
	}
	if Box(0, 0, 1, 1)[0].Degenerate() {
		t.Error("box shape must not be degenerate")
	}
}

func TestShapeAccessors(t *testing.T) {
	outer := Contour{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}}
	hole := Contour{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 2, Y: 2}, {X: 1, Y: 2}}
	s := Shape{outer, hole}

	if len(s.Exterior()) != 4 || s.Exterior()[1].X != 4 {
		t.Error("Exterior must return the first contour")
	}
	if holes := s.Holes(); len(holes) != 1 || holes[0][0].X != 1 {
		t.Error("Holes must return everything after the exterior")
	}
	if (Shape{outer}).Holes() != nil {
		t.Error("shape without holes must return nil holes")
	}
}

func TestCloneIndependence(t *testing.T) {
	orig := Box(0, 0, 1, 1)
	clone := orig.Clone()
	clone[0][0][0].X = 99

	if orig[0][0][0].X != 0 {
		t.Error("mutating a clone must not touch the original")
	}
	if ShapeSet(nil).Clone() != nil {
		t.Error("clone of nil must stay nil")
	}
}

func TestScale(t *testing.T) {
	orig := Box(0, 0, 1, 1)
	scaled := orig.Scale(50)

	if orig[0][0][2].X != 1 {
		t.Error("Scale must not mutate the receiver")
	}
	if scaled[0][0][2].X != 50 || scaled[0][0][2].Y != 50 {
		t.Errorf("scaled corner: got %+v, want (50,50)", scaled[0][0][2])
	}
}

func TestEqualIsExact(t *testing.T) {
	a := Box(0, 0, 1, 1)
	b := a.Clone()
	if !a.Equal(b) {
		t.Fatal("identical sets must compare equal")
	}

	b[0][0][0].X += 1e-15
	if a.Equal(b) {
		t.Error("Equal must not apply any tolerance")
	}

	if a.Equal(ShapeSet{}) {
		t.Error("sets of different length must differ")
	}
}

func TestNumPoints(t *testing.T) {
	set := ShapeSet{
		Shape{
			Contour{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}},
			Contour{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 2, Y: 2}},
		},
	}
	if got := set.NumPoints(); got != 7 {
		t.Errorf("NumPoints: got %d, want 7", got)
	}
}

func TestPointJSON(t *testing.T) {
	data, err := json.Marshal(Point{X: 1.5, Y: -2})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[1.5,-2]" {
		t.Errorf("point must serialize as array, got %s", data)
	}

	var p Point
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatal(err)
	}
	if p.X != 1.5 || p.Y != -2 {
		t.Errorf("round trip: got %+v", p)
	}

	if err := json.Unmarshal([]byte(`{"x":1}`), &p); err == nil {
		t.Error("object form must be rejected")
	}
}

func TestShapeSetJSON(t *testing.T) {
	orig := Box(0.25, 0.25, 0.75, 0.75)
	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatal(err)
	}
	var back ShapeSet
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if !orig.Equal(back) {
		t.Error("shape set must survive a JSON round trip exactly")
	}
}

func TestCircle(t *testing.T) {
	c := Circle(0, 0, 1, 64)
	if len(c[0][0]) != 64 {
		t.Fatalf("segment count: got %d, want 64", len(c[0][0]))
	}
	if area := c[0][0].SignedArea(); area <= 0 {
		t.Errorf("circle must be wound counter-clockwise, area %v", area)
	}
	if got := len(Circle(0, 0, 1, 1)[0][0]); got != 3 {
		t.Errorf("segment floor: got %d, want 3", got)
	}
}

func TestFinite(t *testing.T) {
	if !(Point{X: 1, Y: 2}).Finite() {
		t.Error("ordinary point must be finite")
	}
	inf := Point{X: 1}
	inf.Y = inf.Y / inf.X // 0/1 = 0, still finite
	if !inf.Finite() {
		t.Error("zero must be finite")
	}
	nan := Point{}
	nan.X = nan.X / nan.Y // 0/0 = NaN
	if nan.Finite() {
		t.Error("NaN coordinate must not be finite")
	}
}
