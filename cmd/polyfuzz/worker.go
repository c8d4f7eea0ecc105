package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/bretttully/polyfuzz/internal/fuzz"
	"github.com/bretttully/polyfuzz/internal/logger"
)

// workerCmd is the hidden entry point for process-isolated runs: the
// parent spawns this binary with `worker`, ships one msgpack task on
// stdin and reads the record table from stdout. Never invoked by hand.
var workerCmd = &cobra.Command{
	Use:    "worker",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// stdout несёт msgpack-результат; всё человекочитаемое — в stderr.
		logger.SetOutput(os.Stderr)
		return fuzz.ServeTask(os.Stdin, os.Stdout)
	},
}
