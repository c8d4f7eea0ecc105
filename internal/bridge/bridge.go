// Package bridge converts between the engine shape-set format and the
// reference geometry library (simplefeatures), and exposes the OGC
// validity predicate that serves as the oracle of record for "did the
// engine under test produce a legal polygon".
//
// Назначение: мост форматов + оракул валидности + эталонные set-операции.
//
// Не делает: генерацию фигур и прогон матрицы операций.
package bridge

import (
	"fmt"

	"github.com/peterstace/simplefeatures/geom"

	"github.com/bretttully/polyfuzz/internal/engine"
	"github.com/bretttully/polyfuzz/internal/geo"
)

// ToGeometry converts a shape set into a reference MultiPolygon geometry.
// Shapes with no contours or a degenerate exterior are dropped silently;
// degenerate holes are dropped from otherwise usable shapes. Open rings
// are closed by repeating the first point, as the reference representation
// requires explicitly closed rings. Any failure (including a panic inside
// the reference library) is reported as a typed conversion error.
func ToGeometry(set geo.ShapeSet) (g geom.Geometry, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &engine.ConversionError{Cause: engine.Recovered(r)}
		}
	}()

	polys := make([]geom.Polygon, 0, len(set))
	for _, shape := range set {
		if shape.Degenerate() {
			continue
		}
		rings := make([]geom.LineString, 0, len(shape))
		rings = append(rings, closedRing(shape.Exterior()))
		for _, hole := range shape.Holes() {
			if hole.Degenerate() {
				continue
			}
			rings = append(rings, closedRing(hole))
		}
		polys = append(polys, geom.NewPolygon(rings))
	}
	return geom.NewMultiPolygon(polys).AsGeometry(), nil
}

// FromGeometry converts a reference geometry back into a shape set. The
// repeated closing point of each ring is stripped. Polygonal parts are
// collected from polygons, multi-polygons and nested collections; any
// other geometry type (points or lines produced by degenerate overlays)
// is dropped silently. The result is never nil.
func FromGeometry(g geom.Geometry) (geo.ShapeSet, error) {
	set := geo.ShapeSet{}
	if err := appendPolygonal(&set, g); err != nil {
		return nil, err
	}
	return set, nil
}

// Valid reports the OGC Simple-Feature validity of a reference geometry.
func Valid(g geom.Geometry) bool { return g.Validate() == nil }

// Explain returns the reference library's validity verdict, nil when valid.
func Explain(g geom.Geometry) error { return g.Validate() }

// Area returns the area of a reference geometry.
func Area(g geom.Geometry) float64 { return g.Area() }

// Union, Intersection, Difference and SymmetricDifference delegate to the
// reference library. They are used to build expected geometries for
// differential assertions and for generator plumbing, never as the engine
// under test.

func Union(a, b geom.Geometry) (geom.Geometry, error) {
	return geom.Union(a, b)
}

func Intersection(a, b geom.Geometry) (geom.Geometry, error) {
	return geom.Intersection(a, b)
}

func Difference(a, b geom.Geometry) (geom.Geometry, error) {
	return geom.Difference(a, b)
}

func SymmetricDifference(a, b geom.Geometry) (geom.Geometry, error) {
	return geom.SymmetricDifference(a, b)
}

// UnionAll folds a slice of geometries into their union. An empty slice
// yields an empty geometry.
func UnionAll(gs []geom.Geometry) (geom.Geometry, error) {
	var acc geom.Geometry
	for i, g := range gs {
		if i == 0 {
			acc = g
			continue
		}
		var err error
		acc, err = geom.Union(acc, g)
		if err != nil {
			return geom.Geometry{}, fmt.Errorf("union of %d geometries: %w", len(gs), err)
		}
	}
	return acc, nil
}

// BoxGeometry returns an axis-aligned rectangle as a reference geometry.
func BoxGeometry(minX, minY, maxX, maxY float64) geom.Geometry {
	ring := closedRing(geo.Box(minX, minY, maxX, maxY)[0][0])
	return geom.NewPolygon([]geom.LineString{ring}).AsGeometry()
}

// SymDiffArea returns the area of the symmetric difference of two shape
// sets, the "geometrically equal" metric used by the graph/direct
// consistency property.
func SymDiffArea(a, b geo.ShapeSet) (float64, error) {
	ga, err := ToGeometry(a)
	if err != nil {
		return 0, err
	}
	gb, err := ToGeometry(b)
	if err != nil {
		return 0, err
	}
	diff, err := geom.SymmetricDifference(ga, gb)
	if err != nil {
		return 0, fmt.Errorf("symmetric difference: %w", err)
	}
	return diff.Area(), nil
}

func closedRing(c geo.Contour) geom.LineString {
	n := len(c)
	closed := n > 0 && c[0] == c[n-1]
	size := 2 * n
	if !closed {
		size += 2
	}
	coords := make([]float64, 0, size)
	for _, p := range c {
		coords = append(coords, p.X, p.Y)
	}
	if !closed && n > 0 {
		coords = append(coords, c[0].X, c[0].Y)
	}
	return geom.NewLineString(geom.NewSequence(coords, geom.DimXY))
}

func appendPolygonal(set *geo.ShapeSet, g geom.Geometry) error {
	switch g.Type() {
	case geom.TypePolygon:
		appendPolygon(set, g.MustAsPolygon())
	case geom.TypeMultiPolygon:
		mp := g.MustAsMultiPolygon()
		for i := 0; i < mp.NumPolygons(); i++ {
			appendPolygon(set, mp.PolygonN(i))
		}
	case geom.TypeGeometryCollection:
		gc := g.MustAsGeometryCollection()
		for i := 0; i < gc.NumGeometries(); i++ {
			if err := appendPolygonal(set, gc.GeometryN(i)); err != nil {
				return err
			}
		}
	default:
		// Lower-dimensional parts carry no area; drop them.
	}
	return nil
}

func appendPolygon(set *geo.ShapeSet, p geom.Polygon) {
	if p.IsEmpty() {
		return
	}
	shape := geo.Shape{openContour(p.ExteriorRing())}
	for i := 0; i < p.NumInteriorRings(); i++ {
		shape = append(shape, openContour(p.InteriorRingN(i)))
	}
	*set = append(*set, shape)
}

func openContour(ls geom.LineString) geo.Contour {
	seq := ls.Coordinates()
	n := seq.Length()
	if n == 0 {
		return geo.Contour{}
	}
	first := seq.GetXY(0)
	last := seq.GetXY(n - 1)
	if n > 1 && first == last {
		n--
	}
	contour := make(geo.Contour, n)
	for i := 0; i < n; i++ {
		xy := seq.GetXY(i)
		contour[i] = geo.Point{X: xy.X, Y: xy.Y}
	}
	return contour
}
