// Package config loads the optional polyfuzz.toml profile: run defaults,
// clip semantics and per-generator parameter overrides. CLI flags always
// win over file values; the file wins over built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/bretttully/polyfuzz/internal/engine"
	"github.com/bretttully/polyfuzz/internal/gen"
)

// ManifestName is the file discovered upward from the working directory.
const ManifestName = "polyfuzz.toml"

// Config mirrors the TOML layout.
type Config struct {
	Fuzz       FuzzConfig                `toml:"fuzz"`
	Clip       engine.ClipRule           `toml:"clip"`
	Generators map[string]toml.Primitive `toml:"generator"`

	md toml.MetaData
}

// FuzzConfig holds run defaults.
type FuzzConfig struct {
	Generator string `toml:"generator"`
	Seeds     int64  `toml:"seeds"`
	Workers   int    `toml:"workers"`
	Engine    string `toml:"engine"`
	OutputDir string `toml:"output_dir"`
	Isolate   bool   `toml:"isolate"`
}

// Default returns the built-in profile used when no manifest exists.
func Default() *Config {
	return &Config{
		Fuzz: FuzzConfig{
			Generator: "all",
			Engine:    "martinez",
			OutputDir: "fuzzer_failures",
		},
		Clip: engine.DefaultClipRule(),
	}
}

// Find walks upward from startDir looking for the manifest.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load parses a manifest file over the built-in defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	cfg.md = md
	return cfg, nil
}

// Discover loads the nearest manifest, or the defaults when none exists.
func Discover(startDir string) (*Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Generator builds a named generator with its defaults and applies any
// [generator.<name>] table from the manifest on top.
func (c *Config) Generator(name string) (gen.Generator, error) {
	g, err := gen.New(name)
	if err != nil {
		return nil, err
	}
	if prim, ok := c.Generators[name]; ok {
		if err := c.md.PrimitiveDecode(prim, g); err != nil {
			return nil, fmt.Errorf("[generator.%s]: %w", name, err)
		}
	}
	return g, nil
}
