// Package fuzz contains the per-seed test-case runner and the parallel
// fuzzing driver: it builds subject/clip inputs from a generator, drives
// the full operation matrix against the engine under test, judges every
// result with the validity oracle and aggregates one record per variant.
//
// Назначение: матрица вариантов на seed + параллельный прогон по seed'ам.
//
// Не делает: сериализацию отчётов о падениях — это internal/report.
package fuzz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bretttully/polyfuzz/internal/engine"
)

// Record is the immutable outcome of one (seed, variant) attempt.
type Record struct {
	Generator string        `json:"generator" msgpack:"generator"`
	Seed      int64         `json:"seed" msgpack:"seed"`
	Variant   string        `json:"variant" msgpack:"variant"`
	Err       string        `json:"error,omitempty" msgpack:"error"`
	Elapsed   time.Duration `json:"elapsed_ns" msgpack:"elapsed_ns"`
}

// Failed reports whether the attempt carried an error.
func (r Record) Failed() bool { return r.Err != "" }

// Table is an ordered list of records. Ordering carries no semantic
// meaning; tables from parallel workers are concatenated in any order.
type Table []Record

// Failing returns the records that carry an error.
func (t Table) Failing() Table {
	var out Table
	for _, r := range t {
		if r.Failed() {
			out = append(out, r)
		}
	}
	return out
}

// FailingSeeds returns the distinct seeds with at least one failing
// record, in ascending order.
func (t Table) FailingSeeds() []int64 {
	seen := map[int64]bool{}
	for _, r := range t {
		if r.Failed() {
			seen[r.Seed] = true
		}
	}
	seeds := make([]int64, 0, len(seen))
	for s := range seen {
		seeds = append(seeds, s)
	}
	sort.Slice(seeds, func(i, j int) bool { return seeds[i] < seeds[j] })
	return seeds
}

// BySeed returns the records for one seed.
func (t Table) BySeed(seed int64) Table {
	var out Table
	for _, r := range t {
		if r.Seed == seed {
			out = append(out, r)
		}
	}
	return out
}

// Summary are the operator-visible counts of one run.
type Summary struct {
	Records  int
	Failures int
	Elapsed  time.Duration
}

// Summarize counts records and failures; total elapsed sums per-variant
// timings (wall clock of the parallel run is reported separately).
func (t Table) Summarize() Summary {
	s := Summary{Records: len(t)}
	for _, r := range t {
		if r.Failed() {
			s.Failures++
		}
		s.Elapsed += r.Elapsed
	}
	return s
}

// Variant key constructors. Keys are stable strings: they name report map
// entries and must survive round-trips through JSON artifacts.

func OverlayVariant(rule engine.OverlayRule, fill engine.FillRule) string {
	return fmt.Sprintf("overlay_%s_%s", rule, fill)
}

func GraphBuildVariant(fill engine.FillRule) string {
	return fmt.Sprintf("graph_build_%s", fill)
}

func GraphExtractVariant(rule engine.OverlayRule, fill engine.FillRule) string {
	return fmt.Sprintf("graph_extract_%s_%s", rule, fill)
}

func SimplifyVariant(fill engine.FillRule) string {
	return fmt.Sprintf("simplify_%s", fill)
}

// ParseVariant recovers the (overlay, fill) pair from an overlay or
// graph-extract variant key. Build and simplify variants carry no overlay
// rule and report ok=false.
func ParseVariant(key string) (engine.OverlayRule, engine.FillRule, bool) {
	var rest string
	switch {
	case strings.HasPrefix(key, "overlay_"):
		rest = strings.TrimPrefix(key, "overlay_")
	case strings.HasPrefix(key, "graph_extract_"):
		rest = strings.TrimPrefix(key, "graph_extract_")
	default:
		return 0, 0, false
	}
	cut := strings.LastIndex(rest, "_")
	if cut <= 0 {
		return 0, 0, false
	}
	// The overlay rule name may itself contain underscores
	// (inverse_difference); the fill rule name never does.
	rule, err := engine.ParseOverlayRule(rest[:cut])
	if err != nil {
		return 0, 0, false
	}
	fill, err := engine.ParseFillRule(rest[cut+1:])
	if err != nil {
		return 0, 0, false
	}
	return rule, fill, true
}
