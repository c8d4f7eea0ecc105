// Package report turns failing seeds into durable, replayable artifacts:
// a self-contained JSON failure report per seed, a synthesized regression
// test snippet, and an out-of-process cross-check against a reference
// replay binary.
//
// Назначение: захват и сериализация падений фаззера.
//
// Не делает: сам прогон матрицы — отчёт строится из готовой таблицы.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bretttully/polyfuzz/internal/engine"
	"github.com/bretttully/polyfuzz/internal/fuzz"
	"github.com/bretttully/polyfuzz/internal/gen"
	"github.com/bretttully/polyfuzz/internal/geo"
)

// FailureReport is the durable artifact for one failing seed. It is plain
// JSON with nested numeric arrays for the shape sets, loadable without
// the harness.
type FailureReport struct {
	Generator      string                  `json:"generator"`
	Seed           int64                   `json:"seed"`
	Subject        geo.ShapeSet            `json:"subject"`
	Clip           geo.ShapeSet            `json:"clip"`
	Errors         fuzz.Table              `json:"errors"`
	FailingResults map[string]geo.ShapeSet `json:"failing_results"`
}

// Capture regenerates the test case for a failing seed and re-invokes the
// engine once per distinct failing (overlay, fill) combination to record
// the output it actually produced. A combination whose re-invocation
// errors again is omitted from the map; the error record already
// documents the failure.
func Capture(g gen.Generator, seed int64, failing fuzz.Table, eng engine.Engine) *FailureReport {
	c := fuzz.NewCase(g, seed, eng)

	results := map[string]geo.ShapeSet{}
	for _, rec := range failing {
		rule, fill, ok := fuzz.ParseVariant(rec.Variant)
		if !ok {
			continue
		}
		key := fmt.Sprintf("%s_%s", rule, fill)
		if _, done := results[key]; done {
			continue
		}
		out, err := eng.Overlay(c.Subject, c.Clip, rule, fill)
		if err != nil || out == nil {
			continue
		}
		results[key] = out
	}

	return &FailureReport{
		Generator:      g.Name(),
		Seed:           seed,
		Subject:        c.Subject,
		Clip:           c.Clip,
		Errors:         failing,
		FailingResults: results,
	}
}

// Filename returns the stable artifact name for a (generator, seed) pair.
// Repeated captures for the same seed overwrite rather than accumulate.
func Filename(generator string, seed int64) string {
	return fmt.Sprintf("fuzzer-%s-%d.json", generator, seed)
}

// Write serializes the report into dir as a single complete file: the
// JSON is written to a temporary path and atomically renamed, so a
// half-written report is never observable under the final name.
func (r *FailureReport) Write(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(dir, Filename(r.Generator, r.Seed))

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}

	f, err := os.CreateTemp(dir, "tmp-report-*")
	if err != nil {
		return "", err
	}
	defer func() {
		_ = os.Remove(f.Name())
	}()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(f.Name(), path); err != nil {
		return "", err
	}
	return path, nil
}

// Load reads a report back from disk.
func Load(path string) (*FailureReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r FailureReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%s: parse report: %w", path, err)
	}
	return &r, nil
}
