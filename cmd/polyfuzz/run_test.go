package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestApplyGlobalFlags(t *testing.T) {
	origNoColor := color.NoColor
	defer func() {
		color.NoColor = origNoColor
		_ = rootCmd.PersistentFlags().Set("color", "auto")
		_ = rootCmd.PersistentFlags().Set("log-level", "info")
	}()

	if err := rootCmd.PersistentFlags().Set("color", "off"); err != nil {
		t.Fatal(err)
	}
	// A bogus level must warn and keep running, never crash the CLI.
	if err := rootCmd.PersistentFlags().Set("log-level", "bogus"); err != nil {
		t.Fatal(err)
	}
	applyGlobalFlags(rootCmd)
	if !color.NoColor {
		t.Error("--color=off must disable colored output")
	}

	if err := rootCmd.PersistentFlags().Set("color", "on"); err != nil {
		t.Fatal(err)
	}
	applyGlobalFlags(rootCmd)
	if color.NoColor {
		t.Error("--color=on must force colored output")
	}
}

func TestSeedList(t *testing.T) {
	if got := seedList([]int64{0, 12, 7}); got != "0 12 7" {
		t.Errorf("seedList = %q, want %q", got, "0 12 7")
	}
	if got := seedList(nil); got != "" {
		t.Errorf("seedList(nil) = %q, want empty", got)
	}
}

func TestVersionRenderTrimmedSurface(t *testing.T) {
	var buf bytes.Buffer
	renderVersionPretty(&buf, true, true)
	out := buf.String()
	if !strings.Contains(out, "polyfuzz") || !strings.Contains(out, "commit:") || !strings.Contains(out, "built:") {
		t.Errorf("pretty output incomplete:\n%s", out)
	}
	if strings.Contains(out, "message:") {
		t.Errorf("pretty output must not carry commit messages:\n%s", out)
	}

	buf.Reset()
	if err := renderVersionJSON(&buf, false, false); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "git_") {
		t.Errorf("json output must omit git fields unless asked:\n%s", buf.String())
	}
}
