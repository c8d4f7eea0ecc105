package gen

import (
	"math"
	"math/rand"

	"github.com/peterstace/simplefeatures/geom"

	"github.com/bretttully/polyfuzz/internal/geo"
)

// Spots scatters near-circular blobs with jittered per-vertex radii across
// the unit square and unions them. It stresses many disjoint and
// overlapping regions with irregular boundaries.
type Spots struct {
	VerticesPerSpot int     `toml:"vertices_per_spot" msgpack:"vertices_per_spot"`
	MeanRadius      float64 `toml:"mean_radius" msgpack:"mean_radius"`
	NumSpots        int     `toml:"n_spots" msgpack:"n_spots"`
	ScaleFactor     float64 `toml:"scale_factor" msgpack:"scale_factor"`
}

// DefaultSpots returns the stock configuration.
func DefaultSpots() *Spots {
	return &Spots{
		VerticesPerSpot: 20,
		MeanRadius:      0.08,
		NumSpots:        25,
		ScaleFactor:     DefaultScaleFactor,
	}
}

func (g *Spots) Name() string { return "spots" }

// Generate draws all spot centers, then all base radii, then the
// per-vertex jitter of each spot, in that fixed order. The draw order is
// part of the generator's identity: changing it would silently invalidate
// every recorded failing seed.
func (g *Spots) Generate(seed int64) geo.ShapeSet {
	rng := rand.New(rand.NewSource(seed))

	centers := make([]geo.Point, g.NumSpots)
	for i := range centers {
		centers[i] = geo.Point{X: rng.Float64(), Y: rng.Float64()}
	}
	radii := make([]float64, g.NumSpots)
	for i := range radii {
		r := g.MeanRadius + 0.3*g.MeanRadius*rng.NormFloat64()
		radii[i] = math.Min(math.Max(r, 0.01), 0.3)
	}

	var pieces []geom.Geometry
	for i := 0; i < g.NumSpots; i++ {
		spot := g.makeSpot(rng, radii[i], centers[i])
		if piece, ok := validPiece(spot); ok {
			pieces = append(pieces, piece)
		}
	}
	return finish(pieces, g.ScaleFactor)
}

// makeSpot builds a slightly irregular circle: evenly spaced angles with a
// +/-20% radius jitter per vertex. Angular ordering keeps the contour
// star-shaped and therefore simple.
func (g *Spots) makeSpot(rng *rand.Rand, radius float64, center geo.Point) geo.Shape {
	n := g.VerticesPerSpot
	if n < 3 {
		n = 3
	}
	contour := make(geo.Contour, n)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		r := radius * (1 + uniform(rng, -0.2, 0.2))
		contour[i] = geo.Point{
			X: center.X + r*math.Cos(theta),
			Y: center.Y + r*math.Sin(theta),
		}
	}
	return geo.Shape{contour}
}
