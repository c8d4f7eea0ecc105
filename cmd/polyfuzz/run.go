package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bretttully/polyfuzz/internal/config"
	"github.com/bretttully/polyfuzz/internal/engine"
	"github.com/bretttully/polyfuzz/internal/fuzz"
	"github.com/bretttully/polyfuzz/internal/gen"
	"github.com/bretttully/polyfuzz/internal/logger"
	"github.com/bretttully/polyfuzz/internal/observ"
	"github.com/bretttully/polyfuzz/internal/report"
)

var runCmd = &cobra.Command{
	Use:   "run [flags]",
	Short: "Run the fuzzer across seeds and capture failing cases",
	Long: `Run every overlay/fill-rule combination for seeds 0..N-1 against the
engine under test. Failing seeds are written to the output directory as
self-contained JSON reports that repro and crosscheck can replay.`,
	Args: cobra.NoArgs,
	RunE: runFuzzing,
}

func init() {
	runCmd.Flags().StringP("generator", "g", "", "generator name or 'all' (default from polyfuzz.toml)")
	runCmd.Flags().Int64P("runs", "n", 0, "number of seeds per generator (default from polyfuzz.toml, else 100)")
	runCmd.Flags().IntP("workers", "w", 0, "parallel workers (0 = all CPUs)")
	runCmd.Flags().String("engine", "", "engine under test")
	runCmd.Flags().StringP("output-dir", "o", "", "directory for failure reports")
	runCmd.Flags().Bool("isolate", false, "run seeds in isolated worker processes")
	runCmd.Flags().Bool("generate-tests", false, "print a regression-test snippet for each failing seed")
	runCmd.Flags().Bool("no-ui", false, "disable the live progress view")
}

func runFuzzing(cmd *cobra.Command, args []string) error {
	timer := observ.NewTimer()
	phase := timer.Begin("configure")

	cfg, err := config.Discover(".")
	if err != nil {
		return infra(err)
	}

	generatorFlag, _ := cmd.Flags().GetString("generator")
	if generatorFlag == "" {
		generatorFlag = cfg.Fuzz.Generator
	}
	runs, _ := cmd.Flags().GetInt64("runs")
	if runs <= 0 {
		runs = cfg.Fuzz.Seeds
	}
	if runs <= 0 {
		runs = 100
	}
	workers, _ := cmd.Flags().GetInt("workers")
	if workers <= 0 {
		workers = cfg.Fuzz.Workers
	}
	engineName, _ := cmd.Flags().GetString("engine")
	if engineName == "" {
		engineName = cfg.Fuzz.Engine
	}
	outputDir, _ := cmd.Flags().GetString("output-dir")
	if outputDir == "" {
		outputDir = cfg.Fuzz.OutputDir
	}
	isolate, _ := cmd.Flags().GetBool("isolate")
	if !cmd.Flags().Changed("isolate") {
		isolate = cfg.Fuzz.Isolate
	}
	generateTests, _ := cmd.Flags().GetBool("generate-tests")
	noUI, _ := cmd.Flags().GetBool("no-ui")
	quiet, _ := cmd.Flags().GetBool("quiet")

	names := []string{generatorFlag}
	if generatorFlag == "all" {
		names = gen.Names()
	}
	generators := make([]gen.Generator, 0, len(names))
	for _, name := range names {
		g, err := cfg.Generator(name)
		if err != nil {
			return infra(err)
		}
		generators = append(generators, g)
	}
	timer.End(phase, fmt.Sprintf("%d generators", len(generators)))

	useUI := !noUI && !quiet && isTerminal(os.Stdout)

	phase = timer.Begin("fuzz")
	var merged fuzz.Table
	for _, g := range generators {
		opts := fuzz.Options{
			Generator:  g,
			EngineName: engineName,
			Clip:       cfg.Clip,
			Seeds:      runs,
			Workers:    workers,
			Isolate:    isolate,
		}

		var table fuzz.Table
		if useUI {
			title := fmt.Sprintf("fuzzing %s against %s", g.Name(), engineName)
			table, err = runFuzzWithUI(cmd.Context(), title, opts)
		} else {
			table, err = fuzz.Run(cmd.Context(), opts)
		}
		if err != nil {
			return infra(err)
		}
		merged = append(merged, table...)

		if err := captureFailures(cmd, g, table, engineName, cfg.Clip, outputDir, generateTests); err != nil {
			return infra(err)
		}
	}
	sum := merged.Summarize()
	timer.End(phase, fmt.Sprintf("%d records", sum.Records))

	if timings, _ := cmd.Flags().GetBool("timings"); timings {
		fmt.Fprint(os.Stderr, timer.Summary())
	}

	printSummary(sum, merged.FailingSeeds(), outputDir)
	if sum.Failures > 0 {
		os.Exit(1)
	}
	return nil
}

// captureFailures writes one report artifact per failing seed of one
// generator, re-invoking the engine to capture the outputs it produced.
func captureFailures(cmd *cobra.Command, g gen.Generator, table fuzz.Table, engineName string, clip engine.ClipRule, outputDir string, generateTests bool) error {
	seeds := table.FailingSeeds()
	if len(seeds) == 0 {
		return nil
	}
	eng, err := engine.New(engineName, clip)
	if err != nil {
		return err
	}
	for _, seed := range seeds {
		failing := table.BySeed(seed).Failing()
		rep := report.Capture(g, seed, failing, eng)
		path, err := rep.Write(outputDir)
		if err != nil {
			return err
		}
		log := logger.Logger()
		log.Warn().
			Str("generator", g.Name()).
			Int64("seed", seed).
			Int("errors", len(failing)).
			Str("report", path).
			Msg("failure captured")

		if generateTests {
			fmt.Fprintln(cmd.OutOrStdout(), report.GenerateTestFromReport(rep))
		}
	}
	return nil
}

func printSummary(sum fuzz.Summary, failingSeeds []int64, outputDir string) {
	if sum.Failures == 0 {
		color.New(color.FgGreen, color.Bold).Fprintf(os.Stdout, "ok")
		fmt.Fprintf(os.Stdout, "  %d records, no failures\n", sum.Records)
		return
	}
	color.New(color.FgRed, color.Bold).Fprintf(os.Stdout, "FAIL")
	fmt.Fprintf(os.Stdout, "  %d of %d records failed across %d seeds\n",
		sum.Failures, sum.Records, len(failingSeeds))
	fmt.Fprintf(os.Stdout, "failing seeds: %s\n", seedList(failingSeeds))
	fmt.Fprintf(os.Stdout, "reports: %s\n", filepath.Clean(outputDir))
}

// seedList renders failing seeds for the plain summary, which must stay
// useful with the UI and logging both suppressed.
func seedList(seeds []int64) string {
	parts := make([]string, len(seeds))
	for i, s := range seeds {
		parts[i] = strconv.FormatInt(s, 10)
	}
	return strings.Join(parts, " ")
}

// infra marks an error as an infrastructure problem (never an engine test
// failure) and exits with the distinct status.
func infra(err error) error {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(2)
	return nil
}
