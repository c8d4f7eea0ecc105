// Package refclip adapts the reference geometry library itself to the
// Engine interface. It is the expected-result builder for differential
// assertions and a self-check target for the harness; fuzzing it against
// the oracle it is built on finds harness bugs, not engine bugs.
package refclip

import (
	"errors"

	"github.com/peterstace/simplefeatures/geom"

	"github.com/bretttully/polyfuzz/internal/bridge"
	"github.com/bretttully/polyfuzz/internal/engine"
	"github.com/bretttully/polyfuzz/internal/geo"
)

// Name is the registry key of this engine.
const Name = "reference"

func init() {
	engine.Register(Name, func(clip engine.ClipRule) engine.Engine {
		return &Engine{clip: clip}
	})
}

// Engine implements boolean operations on top of simplefeatures.
type Engine struct {
	// clip is carried verbatim from configuration; the reference set
	// operations have no boundary tie-break knobs, so it is unused here.
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
		g, err := e.normalize(subject, fill)
		if err != nil {
			return nil, err
		}
		return bridge.FromGeometry(g)
	case engine.OverlayClip:
		g, err := e.normalize(clip, fill)
		if err != nil {
			return nil, err
		}
		return bridge.FromGeometry(g)
	}

	gs, err := e.normalize(subject, fill)
	if err != nil {
		return nil, err
	}
	gc, err := e.normalize(clip, fill)
	if err != nil {
		return nil, err
	}
	res, err := apply(gs, gc, rule)
	if err != nil {
		return nil, &engine.ExecError{Op: "overlay " + rule.String(), Cause: err}
	}
	return bridge.FromGeometry(res)
}

// Simplify resolves self-intersections and overlaps of a single input
// under the fill rule.
func (e *Engine) Simplify(set geo.ShapeSet, fill engine.FillRule) (out geo.ShapeSet, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &engine.ExecError{Op: "simplify", Cause: engine.Recovered(r)}
		}
	}()
	g, err := e.normalize(set, fill)
	if err != nil {
		return nil, err
	}
	return bridge.FromGeometry(g)
}

// BuildGraph normalizes both inputs once for the fill rule; extraction
// replays overlay rules against the cached pair.
func (e *Engine) BuildGraph(subject, clip geo.ShapeSet, fill engine.FillRule) (g engine.Graph, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &engine.ExecError{Op: "graph build", Cause: engine.Recovered(r)}
		}
	}()
	gs, err := e.normalize(subject, fill)
	if err != nil {
		return nil, err
	}
	gc, err := e.normalize(clip, fill)
	if err != nil {
		return nil, err
	}
	return &graph{subject: gs, clip: gc}, nil
}

type graph struct {
	subject geom.Geometry
	clip    geom.Geometry
}

func (g *graph) Extract(rule engine.OverlayRule) (out geo.ShapeSet, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &engine.ExecError{Op: "graph extract " + rule.String(), Cause: engine.Recovered(r)}
		}
	}()
	switch rule {
	case engine.OverlaySubject:
		return bridge.FromGeometry(g.subject)
	case engine.OverlayClip:
		return bridge.FromGeometry(g.clip)
	}
	res, err := apply(g.subject, g.clip, rule)
	if err != nil {
		return nil, &engine.ExecError{Op: "graph extract " + rule.String(), Cause: err}
	}
	return bridge.FromGeometry(res)
}

// normalize folds the shapes participating under fill into one region.
func (e *Engine) normalize(set geo.ShapeSet, fill engine.FillRule) (geom.Geometry, error) {
	shapes, xorFold := engine.FillShapes(set, fill)
	var acc geom.Geometry
	for i, shape := range shapes {
		g, err := bridge.ToGeometry(geo.ShapeSet{shape})
		if err != nil {
			return geom.Geometry{}, err
		}
		if i == 0 {
			acc = g
			continue
		}
		if xorFold {
			acc, err = geom.SymmetricDifference(acc, g)
		} else {
			acc, err = geom.Union(acc, g)
		}
		if err != nil {
			return geom.Geometry{}, &engine.ExecError{Op: "normalize " + fill.String(), Cause: err}
		}
	}
	return acc, nil
}

func apply(a, b geom.Geometry, rule engine.OverlayRule) (geom.Geometry, error) {
	switch rule {
	case engine.OverlayIntersect:
		return geom.Intersection(a, b)
	case engine.OverlayUnion:
		return geom.Union(a, b)
	case engine.OverlayDifference:
		return geom.Difference(a, b)
	case engine.OverlayInverseDifference:
		return geom.Difference(b, a)
	case engine.OverlayXor:
		return geom.SymmetricDifference(a, b)
	}
	return geom.Geometry{}, &engine.ExecError{Op: rule.String(), Cause: errUnsupported}
}

var errUnsupported = errors.New("unsupported overlay rule")
