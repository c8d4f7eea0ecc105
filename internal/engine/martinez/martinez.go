// Package martinez adapts polygol, a Go port of the Martinez-Rueda
// polygon-clipping algorithm, to the Engine interface. This is the default
// engine under test: it shares no code with the simplefeatures oracle, so
// disagreements point at a real clipping bug on one of the two sides.
package martinez

import (
	"errors"

	"github.com/engelsjk/polygol"

	"github.com/bretttully/polyfuzz/internal/engine"
	"github.com/bretttully/polyfuzz/internal/geo"
)

// Name is the registry key of this engine.
const Name = "martinez"

func init() {
	engine.Register(Name, func(clip engine.ClipRule) engine.Engine {
		return &Engine{clip: clip}
	})
}

// Engine implements boolean operations on top of polygol.
type Engine struct {
	// clip is carried verbatim from configuration; polygol has no
	// boundary tie-break knobs, so it is unused here.
	clip engine.ClipRule
}

func (e *Engine) Name() string { return Name }

// Overlay runs one boolean operation between the two inputs.
func (e *Engine) Overlay(subject, clip geo.ShapeSet, rule engine.OverlayRule, fill engine.FillRule) (out geo.ShapeSet, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &engine.ExecError{Op: "overlay " + rule.String(), Cause: engine.Recovered(r)}
		}
	}()

	switch rule {
	case engine.OverlaySubject:
		g, err := normalize(subject, fill)
		if err != nil {
			return nil, err
		}
		return fromGeom(g), nil
	case engine.OverlayClip:
		g, err := normalize(clip, fill)
		if err != nil {
			return nil, err
		}
		return fromGeom(g), nil
	}

	gs, err := normalize(subject, fill)
	if err != nil {
		return nil, err
	}
	gc, err := normalize(clip, fill)
	if err != nil {
		return nil, err
	}
	res, err := apply(gs, gc, rule)
	if err != nil {
		return nil, &engine.ExecError{Op: "overlay " + rule.String(), Cause: err}
	}
	return fromGeom(res), nil
}

// Simplify resolves self-intersections and overlaps of a single input
// under the fill rule.
func (e *Engine) Simplify(set geo.ShapeSet, fill engine.FillRule) (out geo.ShapeSet, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &engine.ExecError{Op: "simplify", Cause: engine.Recovered(r)}
		}
	}()
	g, err := normalize(set, fill)
	if err != nil {
		return nil, err
	}
	return fromGeom(g), nil
}

// BuildGraph normalizes both inputs once for the fill rule; extraction
// replays overlay rules against the cached pair.
func (e *Engine) BuildGraph(subject, clip geo.ShapeSet, fill engine.FillRule) (g engine.Graph, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &engine.ExecError{Op: "graph build", Cause: engine.Recovered(r)}
		}
	}()
	gs, err := normalize(subject, fill)
	if err != nil {
		return nil, err
	}
	gc, err := normalize(clip, fill)
	if err != nil {
		return nil, err
	}
	return &graph{subject: gs, clip: gc}, nil
}

type graph struct {
	subject polygol.Geom
	clip    polygol.Geom
}

func (g *graph) Extract(rule engine.OverlayRule) (out geo.ShapeSet, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &engine.ExecError{Op: "graph extract " + rule.String(), Cause: engine.Recovered(r)}
		}
	}()
	switch rule {
	case engine.OverlaySubject:
		return fromGeom(g.subject), nil
	case engine.OverlayClip:
		return fromGeom(g.clip), nil
	}
	res, err := apply(g.subject, g.clip, rule)
	if err != nil {
		return nil, &engine.ExecError{Op: "graph extract " + rule.String(), Cause: err}
	}
	return fromGeom(res), nil
}

// normalize folds the shapes participating under fill into one region
// using polygol itself, keeping the engine independent of the oracle.
func normalize(set geo.ShapeSet, fill engine.FillRule) (polygol.Geom, error) {
	shapes, xorFold := engine.FillShapes(set, fill)
	var acc polygol.Geom
	for i, shape := range shapes {
		g := toGeom(geo.ShapeSet{shape})
		if i == 0 {
			// A single-input union resolves self-intersections of the
			// first shape the same way the fold does for later ones.
			first, err := polygol.Union(g)
			if err != nil {
				return nil, &engine.ExecError{Op: "normalize " + fill.String(), Cause: err}
			}
			acc = first
			continue
		}
		var err error
		if xorFold {
			acc, err = polygol.XOR(acc, g)
		} else {
			acc, err = polygol.Union(acc, g)
		}
		if err != nil {
			return nil, &engine.ExecError{Op: "normalize " + fill.String(), Cause: err}
		}
	}
	return acc, nil
}

func apply(a, b polygol.Geom, rule engine.OverlayRule) (polygol.Geom, error) {
	switch rule {
	case engine.OverlayIntersect:
		return polygol.Intersection(a, b)
	case engine.OverlayUnion:
		return polygol.Union(a, b)
	case engine.OverlayDifference:
		return polygol.Difference(a, b)
	case engine.OverlayInverseDifference:
		return polygol.Difference(b, a)
	case engine.OverlayXor:
		return polygol.XOR(a, b)
	}
	return nil, errors.New("unsupported overlay rule")
}

// toGeom maps a shape set onto polygol's multipolygon representation,
// closing each ring explicitly.
func toGeom(set geo.ShapeSet) polygol.Geom {
	g := make(polygol.Geom, 0, len(set))
	for _, shape := range set {
		rings := make([][][]float64, 0, len(shape))
		for _, contour := range shape {
			ring := make([][]float64, 0, len(contour)+1)
			for _, p := range contour {
				ring = append(ring, []float64{p.X, p.Y})
			}
			if n := len(contour); n > 0 && contour[0] != contour[n-1] {
				ring = append(ring, []float64{contour[0].X, contour[0].Y})
			}
			rings = append(rings, ring)
		}
		g = append(g, rings)
	}
	return g
}

// fromGeom maps polygol's multipolygon back, stripping the repeated
// closing point of every ring. The result is never nil.
func fromGeom(g polygol.Geom) geo.ShapeSet {
	set := geo.ShapeSet{}
	for _, rings := range g {
		if len(rings) == 0 {
			continue
		}
		shape := make(geo.Shape, 0, len(rings))
		for _, ring := range rings {
			contour := make(geo.Contour, 0, len(ring))
			for _, pt := range ring {
				if len(pt) < 2 {
					continue
				}
				contour = append(contour, geo.Point{X: pt[0], Y: pt[1]})
			}
			if n := len(contour); n > 1 && contour[0] == contour[n-1] {
				contour = contour[:n-1]
			}
			shape = append(shape, contour)
		}
		set = append(set, shape)
	}
	return set
}
