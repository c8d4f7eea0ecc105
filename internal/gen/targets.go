package gen

import (
	"math"
	"math/rand"

	"github.com/peterstace/simplefeatures/geom"

	"github.com/bretttully/polyfuzz/internal/geo"
)

// CenterTargets draws concentric rings (outer circle minus inner circle)
// around one randomized center. Ring vertex counts are chosen to keep a
// minimum arc length constant regardless of radius, so inner rings stay
// coarse and outer rings get dense. It stresses nested holes and varying
// polygon complexity at different scales.
type CenterTargets struct {
	MinArcLength float64 `toml:"min_arc_length" msgpack:"min_arc_length"`
	RadiusStep   float64 `toml:"radius_step" msgpack:"radius_step"`
	RingWidth    float64 `toml:"ring_width" msgpack:"ring_width"`
	ScaleFactor  float64 `toml:"scale_factor" msgpack:"scale_factor"`
}

// DefaultCenterTargets returns the stock configuration.
func DefaultCenterTargets() *CenterTargets {
	return &CenterTargets{
		MinArcLength: 0.02,
		RadiusStep:   0.03,
		RingWidth:    0.02,
		ScaleFactor:  DefaultScaleFactor,
	}
}

func (g *CenterTargets) Name() string { return "center_targets" }

func (g *CenterTargets) Generate(seed int64) geo.ShapeSet {
	rng := rand.New(rand.NewSource(seed))
	center := geo.Point{
		X: 0.5 + uniform(rng, -0.2, 0.2),
		Y: 0.5 + uniform(rng, -0.2, 0.2),
	}

	var pieces []geom.Geometry
	for radius := 0.45; radius > 2*g.RadiusStep; radius -= g.RadiusStep * 1.5 {
		outer := arcLengthCircle(center, radius, g.MinArcLength, nil, 0)
		var piece geom.Geometry
		var ok bool
		if inner := radius - g.RingWidth; inner > 0 {
			piece, ok = ringPiece(outer, arcLengthCircle(center, inner, g.MinArcLength, nil, 0))
		} else {
			piece, ok = validPiece(outer)
		}
		if ok {
			pieces = append(pieces, piece)
		}
	}
	return finish(pieces, g.ScaleFactor)
}

// RadiusTargets is CenterTargets with independent per-vertex noise on each
// ring radius, centered on the fixed point (0.5, 0.5). Rings become almost
// circular with near-degenerate wiggles, stressing close-to-self-touching
// boundaries.
type RadiusTargets struct {
	MinArcLength float64 `toml:"min_arc_length" msgpack:"min_arc_length"`
	RadiusStep   float64 `toml:"radius_step" msgpack:"radius_step"`
	RingWidth    float64 `toml:"ring_width" msgpack:"ring_width"`
	RadiusNoise  float64 `toml:"radius_noise" msgpack:"radius_noise"`
	ScaleFactor  float64 `toml:"scale_factor" msgpack:"scale_factor"`
}

// DefaultRadiusTargets returns the stock configuration.
func DefaultRadiusTargets() *RadiusTargets {
	return &RadiusTargets{
		MinArcLength: 0.02,
		RadiusStep:   0.04,
		RingWidth:    0.025,
		RadiusNoise:  0.01,
		ScaleFactor:  DefaultScaleFactor,
	}
}

func (g *RadiusTargets) Name() string { return "radius_targets" }

func (g *RadiusTargets) Generate(seed int64) geo.ShapeSet {
	rng := rand.New(rand.NewSource(seed))
	center := geo.Point{X: 0.5, Y: 0.5}

	var pieces []geom.Geometry
	for radius := 0.45; radius > 2*g.RadiusStep; radius -= g.RadiusStep * 1.5 {
		outer := arcLengthCircle(center, radius, g.MinArcLength, rng, g.RadiusNoise)
		var piece geom.Geometry
		var ok bool
		if inner := radius - g.RingWidth; inner > 0 {
			piece, ok = ringPiece(outer, arcLengthCircle(center, inner, g.MinArcLength, rng, g.RadiusNoise))
		} else {
			piece, ok = validPiece(outer)
		}
		if ok {
			pieces = append(pieces, piece)
		}
	}
	return finish(pieces, g.ScaleFactor)
}

// arcLengthCircle builds a circle whose segment count holds the arc length
// near minArc. When rng is non-nil, every vertex radius is perturbed by
// independent uniform noise in [-noise, noise].
func arcLengthCircle(center geo.Point, radius, minArc float64, rng *rand.Rand, noise float64) geo.Shape {
	deltaTheta := minArc / math.Max(radius, 0.01)
	n := int(math.Round(2 * math.Pi / deltaTheta))
	if n < 8 {
		n = 8
	}
	contour := make(geo.Contour, n)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		r := radius
		if rng != nil {
			r += uniform(rng, -noise, noise)
		}
		contour[i] = geo.Point{
			X: center.X + r*math.Cos(theta),
			Y: center.Y + r*math.Sin(theta),
		}
	}
	return geo.Shape{contour}
}
