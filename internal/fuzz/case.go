package fuzz

import (
	"fmt"
	"time"

	"github.com/bretttully/polyfuzz/internal/bridge"
	"github.com/bretttully/polyfuzz/internal/engine"
	"github.com/bretttully/polyfuzz/internal/gen"
	"github.com/bretttully/polyfuzz/internal/geo"
)

// Case is one seeded test case: subject and clip shape sets derived once
// from the same generator at construction (clip from the offset seed) and
// immutable afterwards.
type Case struct {
	Generator gen.Generator
	Seed      int64
	Subject   geo.ShapeSet
	Clip      geo.ShapeSet

	eng engine.Engine
}

// NewCase derives the subject and clip inputs for seed. Derivation is
// deterministic: reconstructing a Case for the same (generator, seed)
// reproduces both inputs byte for byte.
func NewCase(g gen.Generator, seed int64, eng engine.Engine) *Case {
	return &Case{
		Generator: g,
		Seed:      seed,
		Subject:   g.Generate(seed),
		Clip:      g.Generate(seed + gen.ClipSeedOffset),
		eng:       eng,
	}
}

// RunOp invokes one direct boolean operation. On engine failure the
// result is nil; on success the oracle judges the output and an invalid
// geometry is returned together with a validity error.
func (c *Case) RunOp(rule engine.OverlayRule, fill engine.FillRule) (geo.ShapeSet, error) {
	out, err := c.eng.Overlay(c.Subject, c.Clip, rule, fill)
	if err != nil {
		return nil, err
	}
	return out, c.oracle(out)
}

// RunGraphBuild builds the precomputed overlay structure for one fill rule.
func (c *Case) RunGraphBuild(fill engine.FillRule) (engine.Graph, error) {
	return c.eng.BuildGraph(c.Subject, c.Clip, fill)
}

// RunGraphExtract extracts one overlay result from a prebuilt graph and
// judges it like a direct call.
func (c *Case) RunGraphExtract(g engine.Graph, rule engine.OverlayRule) (geo.ShapeSet, error) {
	out, err := g.Extract(rule)
	if err != nil {
		return nil, err
	}
	return out, c.oracle(out)
}

// RunSimplify exercises the non-boolean simplify mode on the subject.
func (c *Case) RunSimplify(fill engine.FillRule) (geo.ShapeSet, error) {
	out, err := c.eng.Simplify(c.Subject, fill)
	if err != nil {
		return nil, err
	}
	return out, c.oracle(out)
}

// RunAll executes the full matrix: every direct (overlay, fill) pair,
// plus one graph build per fill rule and the extract set from each built
// graph. Every attempt is timed individually and failures never abort or
// skip sibling variants, so the table always holds exactly
// 7*4 + 4 + 4*4 = 48 records.
func (c *Case) RunAll() Table {
	table := make(Table, 0, len(engine.AllOverlayRules)*len(engine.AllFillRules)+
		len(engine.AllFillRules)*(1+len(engine.GraphOverlayRules)))

	for _, rule := range engine.AllOverlayRules {
		for _, fill := range engine.AllFillRules {
			table = append(table, c.timed(OverlayVariant(rule, fill), func() error {
				_, err := c.RunOp(rule, fill)
				return err
			}))
		}
	}

	for _, fill := range engine.AllFillRules {
		var graph engine.Graph
		rec := c.timed(GraphBuildVariant(fill), func() error {
			var err error
			graph, err = c.RunGraphBuild(fill)
			return err
		})
		table = append(table, rec)

		for _, rule := range engine.GraphOverlayRules {
			if graph == nil {
				// Keep the matrix complete: extraction was never
				// attempted, but the record documents why.
				table = append(table, Record{
					Generator: c.Generator.Name(),
					Seed:      c.Seed,
					Variant:   GraphExtractVariant(rule, fill),
					Err:       fmt.Sprintf("graph unavailable: %s", rec.Err),
				})
				continue
			}
			table = append(table, c.timed(GraphExtractVariant(rule, fill), func() error {
				_, err := c.RunGraphExtract(graph, rule)
				return err
			}))
		}
	}

	return table
}

// RunSimplifyAll exercises simplify under every fill rule. It is kept out
// of RunAll so the direct/graph matrix size stays fixed.
func (c *Case) RunSimplifyAll() Table {
	table := make(Table, 0, len(engine.AllFillRules))
	for _, fill := range engine.AllFillRules {
		table = append(table, c.timed(SimplifyVariant(fill), func() error {
			_, err := c.RunSimplify(fill)
			return err
		}))
	}
	return table
}

// oracle converts the engine output to the reference representation and
// applies the OGC validity predicate. Conversion failures surface as
// conversion errors; a convertible but topologically broken result is a
// distinct validity error.
func (c *Case) oracle(out geo.ShapeSet) error {
	g, err := bridge.ToGeometry(out)
	if err != nil {
		return err
	}
	if verdict := bridge.Explain(g); verdict != nil {
		return &engine.InvalidityError{Cause: verdict}
	}
	return nil
}

func (c *Case) timed(variant string, fn func() error) Record {
	start := time.Now()
	err := fn()
	rec := Record{
		Generator: c.Generator.Name(),
		Seed:      c.Seed,
		Variant:   variant,
		Elapsed:   time.Since(start),
	}
	if err != nil {
		rec.Err = err.Error()
	}
	return rec
}
