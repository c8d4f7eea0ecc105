// Package gen implements the deterministic random-geometry strategies the
// fuzzer draws inputs from. A generator is an immutable, named
// configuration value; Generate is a pure function of the seed — the same
// seed yields a byte-identical shape set on every call, process and
// machine. Each call constructs a fresh local rand source; no generator
// touches the process-global RNG.
//
// Назначение: seed -> ShapeSet стратегии для фаззера.
//
// Не делает: прогон операций и оценку результатов — это internal/fuzz.
package gen

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/peterstace/simplefeatures/geom"

	"github.com/bretttully/polyfuzz/internal/bridge"
	"github.com/bretttully/polyfuzz/internal/geo"
)

// ClipSeedOffset separates the subject and clip pseudo-random streams of
// one test case: subject = Generate(seed), clip = Generate(seed + offset).
const ClipSeedOffset int64 = 1_000_000_000

// DefaultScaleFactor maps the unit-square working domain into a realistic
// coordinate magnitude range.
const DefaultScaleFactor = 50.0

// Generator produces one shape set per seed. Implementations are plain
// config structs; their exported fields plus the declared name are the
// generator's identity.
type Generator interface {
	Name() string
	Generate(seed int64) geo.ShapeSet
}

var registry = map[string]func() Generator{
	"spots":           func() Generator { return DefaultSpots() },
	"center_targets":  func() Generator { return DefaultCenterTargets() },
	"radius_targets":  func() Generator { return DefaultRadiusTargets() },
	"random_polygons": func() Generator { return DefaultRandomPolygons() },
}

// New returns a generator with default configuration by name.
func New(name string) (Generator, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown generator %q (available: %v)", name, Names())
	}
	return ctor(), nil
}

// Names lists the registered generators in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// fallbackSquare is what a generator returns when a seed produced no
// usable geometry at all: a fixed square in the middle of the unit domain.
// A generator never returns an empty set for a single call; empty inputs
// are reserved for explicit empty-input variants elsewhere.
func fallbackSquare() geo.ShapeSet {
	return geo.Box(0.25, 0.25, 0.75, 0.75)
}

// finish is the shared tail of every strategy: union the synthesized
// pieces, clip the result to the unit square, convert to the shape-set
// format and scale. Any failure along the way degrades to the fallback
// square; generation errors are recovered locally, never surfaced.
func finish(pieces []geom.Geometry, scaleFactor float64) geo.ShapeSet {
	set := fallbackSquare()
	if len(pieces) > 0 {
		if combined, err := bridge.UnionAll(pieces); err == nil {
			if clipped, err := bridge.Intersection(combined, bridge.BoxGeometry(0, 0, 1, 1)); err == nil {
				if converted, err := bridge.FromGeometry(clipped); err == nil && len(converted) > 0 {
					set = converted
				}
			}
		}
	}
	return set.Scale(scaleFactor)
}

// validPiece converts one shape into a reference geometry and keeps it
// only if the oracle accepts it. The reference library offers no repair
// operation, so the strategies are written to be valid by construction
// and the rare invalid piece is dropped instead — the generator contract
// is that invalidity is only ever interesting as an output property.
func validPiece(shape geo.Shape) (geom.Geometry, bool) {
	g, err := bridge.ToGeometry(geo.ShapeSet{shape})
	if err != nil || g.IsEmpty() || !bridge.Valid(g) {
		return geom.Geometry{}, false
	}
	return g, true
}

// ringPiece builds outer minus inner through the reference library and
// keeps the result only if it is a valid, non-empty region.
func ringPiece(outer, inner geo.Shape) (geom.Geometry, bool) {
	og, ok := validPiece(outer)
	if !ok {
		return geom.Geometry{}, false
	}
	ig, ok := validPiece(inner)
	if !ok {
		return og, true
	}
	ring, err := bridge.Difference(og, ig)
	if err != nil || ring.IsEmpty() || !bridge.Valid(ring) {
		return og, true
	}
	return ring, true
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}
