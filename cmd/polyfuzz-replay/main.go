// Command polyfuzz-replay replays a captured failure report through the
// reference engine. It is the binary the crosscheck command points at: a
// zero exit means the reference handled the inputs cleanly, a non-zero
// exit means it reproduced at least one recorded failure.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/bretttully/polyfuzz/internal/bridge"
	"github.com/bretttully/polyfuzz/internal/engine"
	"github.com/bretttully/polyfuzz/internal/engine/refclip"
	"github.com/bretttully/polyfuzz/internal/fuzz"
	"github.com/bretttully/polyfuzz/internal/geo"
	"github.com/bretttully/polyfuzz/internal/report"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <report.json>\n", os.Args[0])
		os.Exit(2)
	}

	rep, err := report.Load(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	eng, err := engine.New(refclip.Name, engine.DefaultClipRule())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	reproduced := 0
	for _, rec := range rep.Errors {
		if err := replayVariant(eng, rep, rec.Variant); err != nil {
			reproduced++
			fmt.Printf("reproduced %s: %v\n", rec.Variant, err)
		} else {
			fmt.Printf("clean %s\n", rec.Variant)
		}
	}

	if reproduced > 0 {
		fmt.Printf("%d of %d recorded failures reproduced\n", reproduced, len(rep.Errors))
		os.Exit(1)
	}
	fmt.Printf("all %d recorded failures handled cleanly\n", len(rep.Errors))
}

// replayVariant reruns one recorded variant against the reference engine
// and judges the output with the validity oracle.
func replayVariant(eng engine.Engine, rep *report.FailureReport, variant string) error {
	if rule, fill, ok := fuzz.ParseVariant(variant); ok {
		if strings.HasPrefix(variant, "graph_extract_") {
			g, err := eng.BuildGraph(rep.Subject, rep.Clip, fill)
			if err != nil {
				return err
			}
			out, err := g.Extract(rule)
			if err != nil {
				return err
			}
			return judge(out)
		}
		out, err := eng.Overlay(rep.Subject, rep.Clip, rule, fill)
		if err != nil {
			return err
		}
		return judge(out)
	}

	switch {
	case strings.HasPrefix(variant, "graph_build_"):
		fill, err := engine.ParseFillRule(strings.TrimPrefix(variant, "graph_build_"))
		if err != nil {
			return nil
		}
		_, err = eng.BuildGraph(rep.Subject, rep.Clip, fill)
		return err
	case strings.HasPrefix(variant, "simplify_"):
		fill, err := engine.ParseFillRule(strings.TrimPrefix(variant, "simplify_"))
		if err != nil {
			return nil
		}
		out, err := eng.Simplify(rep.Subject, fill)
		if err != nil {
			return err
		}
		return judge(out)
	}
	return nil
}

func judge(out geo.ShapeSet) error {
	g, err := bridge.ToGeometry(out)
	if err != nil {
		return err
	}
	if verdict := bridge.Explain(g); verdict != nil {
		return &engine.InvalidityError{Cause: verdict}
	}
	return nil
}
