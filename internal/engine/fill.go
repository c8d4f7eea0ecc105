package engine

import "github.com/bretttully/polyfuzz/internal/geo"

// FillShapes selects the shapes of set that participate under the fill
// rule and reports how an adapter must fold them into one region:
// even-odd folds with symmetric difference, every other rule folds with
// union. Winding is judged by the signed area of the exterior contour, so
// either orientation convention from the engine under test is tolerated.
func FillShapes(set geo.ShapeSet, fill FillRule) (shapes []geo.Shape, xorFold bool) {
	switch fill {
	case FillEvenOdd:
		return set, true
	case FillNonZero:
		return set, false
	case FillPositive:
		for _, s := range set {
			if s.Exterior().SignedArea() > 0 {
				shapes = append(shapes, s)
			}
		}
		return shapes, false
	case FillNegative:
		for _, s := range set {
			if s.Exterior().SignedArea() < 0 {
				shapes = append(shapes, s)
			}
		}
		return shapes, false
	}
	return set, false
}
