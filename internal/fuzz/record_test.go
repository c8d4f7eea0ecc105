package fuzz

import (
	"testing"
	"time"

	"github.com/bretttully/polyfuzz/internal/engine"
)

func TestVariantKeys(t *testing.T) {
	if got := OverlayVariant(engine.OverlayUnion, engine.FillEvenOdd); got != "overlay_union_evenodd" {
		t.Errorf("overlay key: %q", got)
	}
	if got := GraphBuildVariant(engine.FillNonZero); got != "graph_build_nonzero" {
		t.Errorf("build key: %q", got)
	}
	if got := GraphExtractVariant(engine.OverlayXor, engine.FillNegative); got != "graph_extract_xor_negative" {
		t.Errorf("extract key: %q", got)
	}
	if got := SimplifyVariant(engine.FillPositive); got != "simplify_positive" {
		t.Errorf("simplify key: %q", got)
	}
}

func TestParseVariant(t *testing.T) {
	// Every overlay and extract key must parse back to its rule pair,
	// including the one rule whose name itself contains an underscore.
	for _, rule := range engine.AllOverlayRules {
		for _, fill := range engine.AllFillRules {
			for _, key := range []string{OverlayVariant(rule, fill), GraphExtractVariant(rule, fill)} {
				gotRule, gotFill, ok := ParseVariant(key)
				if !ok {
					t.Fatalf("%s must parse", key)
				}
				if gotRule != rule || gotFill != fill {
					t.Errorf("%s: parsed as %s/%s", key, gotRule, gotFill)
				}
			}
		}
	}

	for _, key := range []string{
		GraphBuildVariant(engine.FillEvenOdd),
		SimplifyVariant(engine.FillEvenOdd),
		"overlay_",
		"overlay_bogus_evenodd",
		"overlay_union_bogus",
		"",
	} {
		if _, _, ok := ParseVariant(key); ok {
			t.Errorf("%q must not parse as an overlay variant", key)
		}
	}
}

func TestTableHelpers(t *testing.T) {
	table := Table{
		{Seed: 0, Variant: "overlay_union_evenodd", Elapsed: time.Millisecond},
		{Seed: 0, Variant: "overlay_xor_evenodd", Err: "boom", Elapsed: time.Millisecond},
		{Seed: 2, Variant: "overlay_union_evenodd", Err: "boom", Elapsed: time.Millisecond},
		{Seed: 1, Variant: "overlay_union_evenodd", Elapsed: time.Millisecond},
	}

	if got := len(table.Failing()); got != 2 {
		t.Errorf("failing records: got %d, want 2", got)
	}

	seeds := table.FailingSeeds()
	if len(seeds) != 2 || seeds[0] != 0 || seeds[1] != 2 {
		t.Errorf("failing seeds: got %v, want [0 2]", seeds)
	}

	if got := len(table.BySeed(0)); got != 2 {
		t.Errorf("records for seed 0: got %d, want 2", got)
	}

	sum := table.Summarize()
	if sum.Records != 4 || sum.Failures != 2 || sum.Elapsed != 4*time.Millisecond {
		t.Errorf("summary: %+v", sum)
	}
}
