package gen

import (
	"math"
	"math/rand"
	"sort"

	"github.com/peterstace/simplefeatures/geom"

	"github.com/bretttully/polyfuzz/internal/geo"
)

// RandomPolygons unions a handful of small convex-ish polygons built from
// angularly sorted random radii around random centers. It stresses the
// transition between many small disjoint regions and overlapping ones.
type RandomPolygons struct {
	NumPolygons int     `toml:"n_polygons" msgpack:"n_polygons"`
	MinVertices int     `toml:"min_vertices" msgpack:"min_vertices"`
	MaxVertices int     `toml:"max_vertices" msgpack:"max_vertices"`
	ScaleFactor float64 `toml:"scale_factor" msgpack:"scale_factor"`
}

// DefaultRandomPolygons returns the stock configuration.
func DefaultRandomPolygons() *RandomPolygons {
	return &RandomPolygons{
		NumPolygons: 10,
		MinVertices: 4,
		MaxVertices: 12,
		ScaleFactor: DefaultScaleFactor,
	}
}

func (g *RandomPolygons) Name() string { return "random_polygons" }

func (g *RandomPolygons) Generate(seed int64) geo.ShapeSet {
	rng := rand.New(rand.NewSource(seed))

	var pieces []geom.Geometry
	for i := 0; i < g.NumPolygons; i++ {
		poly := g.makePolygon(rng)
		if piece, ok := validPiece(poly); ok {
			pieces = append(pieces, piece)
		}
	}
	return finish(pieces, g.ScaleFactor)
}

// makePolygon places a random center away from the domain edge, draws
// random angles and radii, and sorts the angles so the contour is
// star-shaped (hence simple) by construction.
func (g *RandomPolygons) makePolygon(rng *rand.Rand) geo.Shape {
	span := g.MaxVertices - g.MinVertices + 1
	if span < 1 {
		span = 1
	}
	n := g.MinVertices + rng.Intn(span)
	if n < 3 {
		n = 3
	}

	cx := uniform(rng, 0.1, 0.9)
	cy := uniform(rng, 0.1, 0.9)
	size := uniform(rng, 0.05, 0.25)

	angles := make([]float64, n)
	for i := range angles {
		angles[i] = uniform(rng, 0, 2*math.Pi)
	}
	sort.Float64s(angles)

	contour := make(geo.Contour, n)
	for i, theta := range angles {
		r := size * (0.5 + 0.5*rng.Float64())
		contour[i] = geo.Point{
			X: cx + r*math.Cos(theta),
			Y: cy + r*math.Sin(theta),
		}
	}
	return geo.Shape{contour}
}
