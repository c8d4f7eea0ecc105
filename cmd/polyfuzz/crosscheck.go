package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bretttully/polyfuzz/internal/report"
)

var crosscheckCmd = &cobra.Command{
	Use:   "crosscheck [flags] <report.json>",
	Short: "Replay a failure report through a reference binary",
	Long: `Feed a captured failure report to a separately built reference replay
binary. A clean replay points at the wrapper layer; a reproduced failure
points at the engine itself.`,
	Args: cobra.ExactArgs(1),
	RunE: runCrosscheck,
}

func init() {
	crosscheckCmd.Flags().String("binary", "", "path to the reference replay binary")
	crosscheckCmd.Flags().Duration("timeout", report.DefaultCrosscheckTimeout, "wall-clock limit for the replay")
}

func runCrosscheck(cmd *cobra.Command, args []string) error {
	reportPath := args[0]
	binary, _ := cmd.Flags().GetString("binary")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	// Загружаем отчёт заранее: битый артефакт — инфраструктурная ошибка.
	rep, err := report.Load(reportPath)
	if err != nil {
		return infra(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "crosschecking %s seed %d (%d recorded errors)\n",
		rep.Generator, rep.Seed, len(rep.Errors))

	res := report.Crosscheck(cmd.Context(), binary, reportPath, timeout)
	if res.Output != "" {
		fmt.Fprintln(cmd.OutOrStdout(), res.Output)
	}

	switch res.Status {
	case report.CrosscheckPassed:
		color.New(color.FgGreen, color.Bold).Fprintln(cmd.OutOrStdout(), "crosscheck passed: reference handled the inputs cleanly")
	case report.CrosscheckFailed:
		color.New(color.FgRed, color.Bold).Fprintln(cmd.OutOrStdout(), "crosscheck failed: reference reproduced the failure")
		os.Exit(1)
	case report.CrosscheckTimeout:
		color.New(color.FgRed, color.Bold).Fprintf(cmd.OutOrStdout(), "crosscheck timed out after %s\n", timeout.Round(time.Second))
		os.Exit(1)
	case report.CrosscheckUnavailable:
		color.New(color.FgYellow).Fprintln(cmd.OutOrStdout(), "crosscheck unavailable")
		os.Exit(2)
	}
	return nil
}
