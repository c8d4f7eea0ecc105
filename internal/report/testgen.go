package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bretttully/polyfuzz/internal/fuzz"
	"github.com/bretttully/polyfuzz/internal/gen"
	"github.com/bretttully/polyfuzz/internal/geo"
)

// GenerateTest renders a failing seed into a standalone regression-test
// source snippet with literal subject/clip coordinates. The snippet is an
// authoring aid for a permanent regression suite; the harness never
// compiles or executes it.
func GenerateTest(g gen.Generator, seed int64, errMsg string) string {
	c := fuzz.NewCase(g, seed, nil)
	return renderTest(g.Name(), seed, errMsg, c.Subject, c.Clip)
}

// GenerateTestFromReport renders the snippet from a captured artifact
// without regenerating the inputs.
func GenerateTestFromReport(r *FailureReport) string {
	errMsg := ""
	if len(r.Errors) > 0 {
		errMsg = r.Errors[0].Err
	}
	return renderTest(r.Generator, r.Seed, errMsg, r.Subject, r.Clip)
}

func renderTest(name string, seed int64, errMsg string, subject, clip geo.ShapeSet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "func TestFuzzer_%s_%d(t *testing.T) {\n", sanitizeIdent(name), seed)
	fmt.Fprintf(&b, "\t// Regression test from fuzzer failure.\n")
	fmt.Fprintf(&b, "\t// Generator: %s\n", name)
	fmt.Fprintf(&b, "\t// Seed: %d\n", seed)
	if errMsg != "" {
		fmt.Fprintf(&b, "\t// Error: %s\n", strings.ReplaceAll(errMsg, "\n", " "))
	}
	b.WriteString("\n\tsubject := ")
	writeShapeSet(&b, subject, 1)
	b.WriteString("\n\tclip := ")
	writeShapeSet(&b, clip, 1)
	b.WriteString(`
	eng, err := engine.New("martinez", engine.DefaultClipRule())
	if err != nil {
		t.Fatal(err)
	}
	for _, rule := range engine.AllOverlayRules {
		for _, fill := range engine.AllFillRules {
			out, err := eng.Overlay(subject, clip, rule, fill)
			if err != nil {
				t.Errorf("%s/%s: %v", rule, fill, err)
				continue
			}
			g, err := bridge.ToGeometry(out)
			if err != nil {
				t.Errorf("%s/%s: %v", rule, fill, err)
				continue
			}
			if verdict := bridge.Explain(g); verdict != nil {
				t.Errorf("%s/%s: invalid output: %v", rule, fill, verdict)
			}
		}
	}
}
`)
	return b.String()
}

// writeShapeSet emits a geo.ShapeSet composite literal, one contour per
// line, with lossless float formatting.
func writeShapeSet(b *strings.Builder, set geo.ShapeSet, depth int) {
	indent := strings.Repeat("\t", depth)
	if len(set) == 0 {
		b.WriteString("geo.ShapeSet{}\n")
		return
	}
	b.WriteString("geo.ShapeSet{\n")
	for _, shape := range set {
		fmt.Fprintf(b, "%s\t{\n", indent)
		for _, contour := range shape {
			fmt.Fprintf(b, "%s\t\t{", indent)
			for i, p := range contour {
				if i > 0 {
					b.WriteString(", ")
				}
				fmt.Fprintf(b, "{X: %s, Y: %s}", formatFloat(p.X), formatFloat(p.Y))
			}
			b.WriteString("},\n")
		}
		fmt.Fprintf(b, "%s\t},\n", indent)
	}
	fmt.Fprintf(b, "%s}\n", indent)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func sanitizeIdent(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
