package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bretttully/polyfuzz/internal/engine"
	_ "github.com/bretttully/polyfuzz/internal/engine/refclip"
	"github.com/bretttully/polyfuzz/internal/fuzz"
	"github.com/bretttully/polyfuzz/internal/gen"
	"github.com/bretttully/polyfuzz/internal/geo"
)

func testEngine(t *testing.T) engine.Engine {
	t.Helper()
	eng, err := engine.New("reference", engine.DefaultClipRule())
	if err != nil {
		t.Fatal(err)
	}
	return eng
}

func testGenerator(t *testing.T) gen.Generator {
	t.Helper()
	g, err := gen.New("random_polygons")
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestCapture(t *testing.T) {
	g := testGenerator(t)
	failing := fuzz.Table{
		{Generator: g.Name(), Seed: 5, Variant: "overlay_union_evenodd", Err: "invalid geometry: x"},
		{Generator: g.Name(), Seed: 5, Variant: "graph_extract_union_evenodd", Err: "invalid geometry: x"},
		{Generator: g.Name(), Seed: 5, Variant: "graph_build_nonzero", Err: "boom"},
	}

	rep := Capture(g, 5, failing, testEngine(t))
	if rep.Generator != g.Name() || rep.Seed != 5 {
		t.Fatalf("identity: %+v", rep)
	}
	if len(rep.Subject) == 0 || len(rep.Clip) == 0 {
		t.Fatal("inputs must be regenerated into the report")
	}
	if len(rep.Errors) != 3 {
		t.Fatalf("errors: got %d, want 3", len(rep.Errors))
	}

	// The direct and graph-extract records name the same combination:
	// the engine is re-invoked once and the output stored under one key.
	if len(rep.FailingResults) != 1 {
		t.Fatalf("failing results: got %d keys, want 1", len(rep.FailingResults))
	}
	if _, ok := rep.FailingResults["union_evenodd"]; !ok {
		t.Errorf("missing union_evenodd, have %v", keys(rep.FailingResults))
	}
}

func keys(m map[string]geo.ShapeSet) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestFilename(t *testing.T) {
	if got := Filename("spots", 42); got != "fuzzer-spots-42.json" {
		t.Errorf("filename: %q", got)
	}
}

func TestWriteLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	g := testGenerator(t)
	failing := fuzz.Table{{Generator: g.Name(), Seed: 2, Variant: "overlay_xor_negative", Err: "boom"}}
	rep := Capture(g, 2, failing, testEngine(t))

	path, err := rep.Write(filepath.Join(dir, "out"))
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != Filename(g.Name(), 2) {
		t.Errorf("artifact name: %s", path)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if back.Generator != rep.Generator || back.Seed != rep.Seed {
		t.Errorf("identity lost: %+v", back)
	}
	if !back.Subject.Equal(rep.Subject) || !back.Clip.Equal(rep.Clip) {
		t.Error("inputs must survive the round trip exactly")
	}
	if len(back.Errors) != 1 || back.Errors[0].Err != "boom" {
		t.Errorf("errors lost: %+v", back.Errors)
	}

	// A second write for the same seed overwrites, never accumulates.
	if _, err := rep.Write(filepath.Join(dir, "out")); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(filepath.Join(dir, "out"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("got %d artifacts, want 1", len(entries))
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing artifact must error")
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("truncated artifact must error")
	}
}

func TestGenerateTest(t *testing.T) {
	g := testGenerator(t)
	src := GenerateTest(g, 9, "invalid geometry: ring intersects itself")

	for _, want := range []string{
		"func TestFuzzer_random_polygons_9(t *testing.T)",
		"subject := geo.ShapeSet{",
		"clip := geo.ShapeSet{",
		`engine.New("martinez"`,
		"// Error: invalid geometry: ring intersects itself",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("snippet missing %q", want)
		}
	}
}

func TestGenerateTestFromReport(t *testing.T) {
	rep := &FailureReport{
		Generator: "bad name!",
		Seed:      3,
		Subject:   geo.Box(0, 0, 1, 1),
		Clip:      geo.ShapeSet{},
		Errors:    fuzz.Table{{Err: "boom"}},
	}
	src := GenerateTestFromReport(rep)
	if !strings.Contains(src, "func TestFuzzer_bad_name__3(t *testing.T)") {
		t.Errorf("generator name must be sanitized into an identifier:\n%s", src)
	}
	if !strings.Contains(src, "clip := geo.ShapeSet{}") {
		t.Error("empty clip must render as an empty literal")
	}
}
