// Package geo defines the plain value types shared by every part of the
// fuzz harness: points, contours, shapes and shape sets in the engine's
// nested-array format.
//
// Назначение: общие геометрические типы и арифметика над ними.
//
// Не делает: построение валидированных полигонов, булевы операции —
// это internal/bridge и internal/engine.
package geo

import (
	"encoding/json"
	"fmt"
	"math"
)

// Point is a pair of finite coordinates. It serializes as a two-element
// numeric array so that failure reports stay loadable without the harness.
type Point struct {
	X float64
	Y float64
}

// Contour is an ordered, implicitly closed ring of points. The first point
// is not required to be repeated at the end.
type Contour []Point

// Shape is one exterior contour (index 0) plus zero or more holes.
type Shape []Contour

// ShapeSet is an ordered collection of shapes. Order carries no meaning but
// is preserved through serialization round-trips.
type ShapeSet []Shape

// MarshalJSON encodes the point as [x, y].
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

// UnmarshalJSON decodes a point from [x, y].
func (p *Point) UnmarshalJSON(data []byte) error {
	var arr [2]float64
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("point must be a [x, y] array: %w", err)
	}
	p.X, p.Y = arr[0], arr[1]
	return nil
}

// Finite reports whether both coordinates are finite numbers.
func (p Point) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Degenerate reports whether the contour cannot bound any area.
func (c Contour) Degenerate() bool { return len(c) < 3 }

// SignedArea returns the shoelace area of the ring: positive for
// counter-clockwise winding, negative for clockwise.
func (c Contour) SignedArea() float64 {
	if c.Degenerate() {
		return 0
	}
	var sum float64
	for i, p := range c {
		q := c[(i+1)%len(c)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return sum / 2
}

// Exterior returns the outer contour, or nil for a shape with no contours.
func (s Shape) Exterior() Contour {
	if len(s) == 0 {
		return nil
	}
	return s[0]
}

// Holes returns the hole contours (possibly empty).
func (s Shape) Holes() []Contour {
	if len(s) <= 1 {
		return nil
	}
	return s[1:]
}

// Degenerate reports whether the shape has no usable exterior.
func (s Shape) Degenerate() bool {
	return len(s) == 0 || s.Exterior().Degenerate()
}

// Clone returns a deep copy of the set.
func (ss ShapeSet) Clone() ShapeSet {
	if ss == nil {
		return nil
	}
	out := make(ShapeSet, len(ss))
	for i, shape := range ss {
		out[i] = make(Shape, len(shape))
		for j, contour := range shape {
			out[i][j] = append(Contour(nil), contour...)
		}
	}
	return out
}

// Scale multiplies every coordinate by factor around the origin and returns
// a new set; the receiver is left untouched.
func (ss ShapeSet) Scale(factor float64) ShapeSet {
	out := ss.Clone()
	for _, shape := range out {
		for _, contour := range shape {
			for i := range contour {
				contour[i].X *= factor
				contour[i].Y *= factor
			}
		}
	}
	return out
}

// Equal reports exact coordinate-for-coordinate equality, including shape
// and contour order. This is the byte-identity check behind the determinism
// guarantee, so no tolerance is applied.
func (ss ShapeSet) Equal(other ShapeSet) bool {
	if len(ss) != len(other) {
		return false
	}
	for i := range ss {
		if len(ss[i]) != len(other[i]) {
			return false
		}
		for j := range ss[i] {
			a, b := ss[i][j], other[i][j]
			if len(a) != len(b) {
				return false
			}
			for k := range a {
				if a[k] != b[k] {
					return false
				}
			}
		}
	}
	return true
}

// NumPoints returns the total vertex count across all contours.
func (ss ShapeSet) NumPoints() int {
	n := 0
	for _, shape := range ss {
		for _, contour := range shape {
			n += len(contour)
		}
	}
	return n
}

// Box returns a single rectangular shape spanning (minX,minY)-(maxX,maxY),
// wound counter-clockwise.
func Box(minX, minY, maxX, maxY float64) ShapeSet {
	return ShapeSet{Shape{Contour{
		{X: minX, Y: minY},
		{X: maxX, Y: minY},
		{X: maxX, Y: maxY},
		{X: minX, Y: maxY},
	}}}
}

// Circle returns a single near-circular shape with the given segment count,
// wound counter-clockwise.
func Circle(cx, cy, radius float64, segments int) ShapeSet {
	if segments < 3 {
		segments = 3
	}
	contour := make(Contour, segments)
	for i := 0; i < segments; i++ {
		theta := 2 * math.Pi * float64(i) / float64(segments)
		contour[i] = Point{X: cx + radius*math.Cos(theta), Y: cy + radius*math.Sin(theta)}
	}
	return ShapeSet{Shape{contour}}
}
