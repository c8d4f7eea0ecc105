package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bretttully/polyfuzz/internal/config"
	"github.com/bretttully/polyfuzz/internal/engine"
	"github.com/bretttully/polyfuzz/internal/fuzz"
	"github.com/bretttully/polyfuzz/internal/report"
)

var reproCmd = &cobra.Command{
	Use:   "repro [flags]",
	Short: "Replay one (generator, seed) pair and show every variant",
	Long: `Reconstruct the exact subject/clip inputs for a seed, rerun the full
operation matrix in-process and print the outcome of every variant. Use
it to confirm a captured failure and to watch it disappear after a fix.`,
	Args: cobra.NoArgs,
	RunE: runRepro,
}

func init() {
	reproCmd.Flags().StringP("generator", "g", "", "generator name (required)")
	reproCmd.Flags().Int64P("seed", "s", -1, "seed to replay (required)")
	reproCmd.Flags().String("engine", "", "engine under test")
	reproCmd.Flags().Bool("simplify", false, "also replay the simplify variants")
	reproCmd.Flags().Bool("generate-test", false, "print a regression-test snippet")
	_ = reproCmd.MarkFlagRequired("generator")
	_ = reproCmd.MarkFlagRequired("seed")
}

func runRepro(cmd *cobra.Command, args []string) error {
	cfg, err := config.Discover(".")
	if err != nil {
		return infra(err)
	}

	name, _ := cmd.Flags().GetString("generator")
	seed, _ := cmd.Flags().GetInt64("seed")
	engineName, _ := cmd.Flags().GetString("engine")
	if engineName == "" {
		engineName = cfg.Fuzz.Engine
	}
	simplify, _ := cmd.Flags().GetBool("simplify")
	generateTest, _ := cmd.Flags().GetBool("generate-test")

	if seed < 0 {
		return infra(fmt.Errorf("seed must be non-negative, got %d", seed))
	}
	g, err := cfg.Generator(name)
	if err != nil {
		return infra(err)
	}
	eng, err := engine.New(engineName, cfg.Clip)
	if err != nil {
		return infra(err)
	}

	c := fuzz.NewCase(g, seed, eng)
	fmt.Fprintf(cmd.OutOrStdout(), "generator=%s seed=%d engine=%s subject=%d shapes clip=%d shapes\n\n",
		name, seed, engineName, len(c.Subject), len(c.Clip))

	table := c.RunAll()
	if simplify {
		table = append(table, c.RunSimplifyAll()...)
	}

	okStyle := color.New(color.FgGreen)
	failStyle := color.New(color.FgRed, color.Bold)
	firstErr := ""
	for _, rec := range table {
		if rec.Failed() {
			failStyle.Fprintf(cmd.OutOrStdout(), "FAIL  %-40s", rec.Variant)
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", firstLine(rec.Err))
			if firstErr == "" {
				firstErr = rec.Err
			}
		} else {
			okStyle.Fprintf(cmd.OutOrStdout(), "ok    %-40s", rec.Variant)
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", rec.Elapsed)
		}
	}

	sum := table.Summarize()
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d variants, %d failing\n", sum.Records, sum.Failures)

	// На падении сниппет печатается всегда: это основной инструмент триажа.
	if generateTest || sum.Failures > 0 {
		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprintln(cmd.OutOrStdout(), report.GenerateTest(g, seed, firstErr))
	}

	if sum.Failures > 0 {
		os.Exit(1)
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
