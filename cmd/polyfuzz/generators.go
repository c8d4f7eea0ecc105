package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bretttully/polyfuzz/internal/config"
	"github.com/bretttully/polyfuzz/internal/gen"
)

var generatorsCmd = &cobra.Command{
	Use:   "generators",
	Short: "List input generators and their effective parameters",
	Long: `List every registered generator with its effective parameters: the
built-in defaults overlaid with any [generator.<name>] table from the
nearest polyfuzz.toml. The output is valid TOML, ready to paste into a
manifest and tweak.`,
	Args: cobra.NoArgs,
	RunE: runGenerators,
}

func init() {
	generatorsCmd.Flags().Bool("names", false, "print only generator names")
}

func runGenerators(cmd *cobra.Command, args []string) error {
	cfg, err := config.Discover(".")
	if err != nil {
		return infra(err)
	}
	namesOnly, _ := cmd.Flags().GetBool("names")

	for _, name := range gen.Names() {
		if namesOnly {
			fmt.Fprintln(cmd.OutOrStdout(), name)
			continue
		}
		g, err := cfg.Generator(name)
		if err != nil {
			return infra(err)
		}
		color.New(color.FgCyan, color.Bold).Fprintf(cmd.OutOrStdout(), "[generator.%s]\n", name)
		enc := toml.NewEncoder(cmd.OutOrStdout())
		if err := enc.Encode(g); err != nil {
			return infra(fmt.Errorf("encode %s defaults: %w", name, err))
		}
		fmt.Fprintln(cmd.OutOrStdout())
	}
	return nil
}
