package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	// Engine adapters register themselves by name.
	_ "github.com/bretttully/polyfuzz/internal/engine/martinez"
	_ "github.com/bretttully/polyfuzz/internal/engine/refclip"

	"github.com/bretttully/polyfuzz/internal/logger"
	"github.com/bretttully/polyfuzz/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "polyfuzz",
	Short: "Differential fuzzer for polygon boolean-operation engines",
	Long: `polyfuzz generates reproducible random polygon inputs, drives every
overlay/fill-rule combination against an engine under test, judges the
results with an independent OGC-validity oracle and captures failing
seeds into replayable artifacts.`,
}

func init() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	// Добавляем команды
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(reproCmd)
	rootCmd.AddCommand(crosscheckCmd)
	rootCmd.AddCommand(generatorsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(workerCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (trace|debug|info|warn|error)")

	cobra.OnInitialize(func() {
		applyGlobalFlags(rootCmd)
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// applyGlobalFlags wires --color, --quiet and --log-level into the color
// and logging globals before any command body runs.
func applyGlobalFlags(cmd *cobra.Command) {
	switch mode, _ := cmd.PersistentFlags().GetString("color"); mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		color.NoColor = !isTerminal(os.Stdout)
	}

	if quiet, _ := cmd.PersistentFlags().GetBool("quiet"); quiet {
		logger.Disable()
		return
	}
	if level, _ := cmd.PersistentFlags().GetString("log-level"); level != "" {
		if err := logger.SetLevel(level); err != nil {
			log := logger.Logger()
			log.Warn().Str("level", level).Msg("unknown log level, keeping info")
		}
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
