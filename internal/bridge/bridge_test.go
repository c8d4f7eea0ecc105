package bridge

import (
	"math"
	"testing"

	"github.com/peterstace/simplefeatures/geom"

	"github.com/bretttully/polyfuzz/internal/geo"
)

func TestToGeometryBox(t *testing.T) {
	g, err := ToGeometry(geo.Box(0, 0, 2, 3))
	if err != nil {
		t.Fatal(err)
	}
	if !Valid(g) {
		t.Fatalf("box must be valid: %v", Explain(g))
	}
	if got := Area(g); got != 6 {
		t.Errorf("area: got %v, want 6", got)
	}
}

func TestToGeometryClosesOpenRings(t *testing.T) {
	open := geo.Box(0, 0, 1, 1)
	closed := open.Clone()
	closed[0][0] = append(closed[0][0], closed[0][0][0])

	go1, err := ToGeometry(open)
	if err != nil {
		t.Fatal(err)
	}
	go2, err := ToGeometry(closed)
	if err != nil {
		t.Fatal(err)
	}
	if Area(go1) != Area(go2) {
		t.Errorf("open and pre-closed rings must convert identically: %v vs %v", Area(go1), Area(go2))
	}
}

func TestToGeometryDropsDegenerates(t *testing.T) {
	set := geo.ShapeSet{
		{},                                              // no contours
		{geo.Contour{{X: 0, Y: 0}, {X: 1, Y: 1}}},       // two-point exterior
		{geo.Contour{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}},
			geo.Contour{{X: 1, Y: 1}, {X: 2, Y: 2}}}, // degenerate hole
	}
	g, err := ToGeometry(set)
	if err != nil {
		t.Fatal(err)
	}
	if got := Area(g); got != 16 {
		t.Errorf("only the usable square must survive, area %v", got)
	}
}

func TestBowtieIsInvalid(t *testing.T) {
	bowtie := geo.ShapeSet{{geo.Contour{{X: 0, Y: 0}, {X: 2, Y: 2}, {X: 2, Y: 0}, {X: 0, Y: 2}}}}
	g, err := ToGeometry(bowtie)
	if err != nil {
		t.Fatal(err)
	}
	if Valid(g) {
		t.Error("self-intersecting ring must fail validation")
	}
	if Explain(g) == nil {
		t.Error("Explain must name the defect for an invalid geometry")
	}
}

func TestRoundTrip(t *testing.T) {
	orig := geo.ShapeSet{
		{geo.Contour{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 5, Y: 5}, {X: 0, Y: 5}},
			geo.Contour{{X: 1, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 1}}},
	}
	g, err := ToGeometry(orig)
	if err != nil {
		t.Fatal(err)
	}
	back, err := FromGeometry(g)
	if err != nil {
		t.Fatal(err)
	}
	if back == nil {
		t.Fatal("FromGeometry must never return nil")
	}
	if len(back) != 1 || len(back[0]) != 2 {
		t.Fatalf("structure: got %d shapes / %d contours", len(back), len(back[0]))
	}

	g2, err := ToGeometry(back)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(Area(g)-Area(g2)) > 1e-12 {
		t.Errorf("area must survive the round trip: %v vs %v", Area(g), Area(g2))
	}
}

func TestFromGeometryDropsLowerDimensional(t *testing.T) {
	a, _ := ToGeometry(geo.Box(0, 0, 1, 1))
	b, _ := ToGeometry(geo.Box(1, 0, 2, 1))

	// Adjacent boxes intersect in a shared edge: no areal part at all.
	edge, err := Intersection(a, b)
	if err != nil {
		t.Fatal(err)
	}
	set, err := FromGeometry(edge)
	if err != nil {
		t.Fatal(err)
	}
	if len(set) != 0 {
		t.Errorf("a pure line intersection must convert to an empty set, got %d shapes", len(set))
	}
}

func TestSetOperations(t *testing.T) {
	a, _ := ToGeometry(geo.Box(0, 0, 2, 2))
	b, _ := ToGeometry(geo.Box(1, 1, 3, 3))

	cases := []struct {
		name string
		op   func() (float64, error)
		want float64
	}{
		{"union", func() (float64, error) { g, err := Union(a, b); return Area(g), err }, 7},
		{"intersection", func() (float64, error) { g, err := Intersection(a, b); return Area(g), err }, 1},
		{"difference", func() (float64, error) { g, err := Difference(a, b); return Area(g), err }, 3},
		{"symmetric difference", func() (float64, error) { g, err := SymmetricDifference(a, b); return Area(g), err }, 6},
	}
	for _, tc := range cases {
		got, err := tc.op()
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("%s: area %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestUnionAll(t *testing.T) {
	empty, err := UnionAll(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !empty.IsEmpty() {
		t.Error("union of nothing must be empty")
	}

	a, _ := ToGeometry(geo.Box(0, 0, 1, 1))
	b, _ := ToGeometry(geo.Box(2, 0, 3, 1))
	c, _ := ToGeometry(geo.Box(0.5, 0, 2.5, 1))
	combined, err := UnionAll([]geom.Geometry{a, b, c})
	if err != nil {
		t.Fatal(err)
	}
	if got := Area(combined); math.Abs(got-3) > 1e-9 {
		t.Errorf("three overlapping boxes span area 3, got %v", got)
	}
}

func TestBoxGeometry(t *testing.T) {
	g := BoxGeometry(0, 0, 1, 1)
	if !Valid(g) || Area(g) != 1 {
		t.Errorf("unit box geometry: valid=%v area=%v", Valid(g), Area(g))
	}
}

func TestSymDiffArea(t *testing.T) {
	a := geo.Box(0, 0, 1, 1)
	if got, err := SymDiffArea(a, a.Clone()); err != nil || got != 0 {
		t.Errorf("identical sets: area %v err %v, want 0 nil", got, err)
	}

	b := geo.Box(2, 0, 3, 1)
	got, err := SymDiffArea(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-2) > 1e-9 {
		t.Errorf("disjoint unit boxes: area %v, want 2", got)
	}
}
