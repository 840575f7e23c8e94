// Package config loads tool settings from .pyr/config.yaml, searching
// upward from the working directory the way version control roots are
// found. Everything has a default; the file only overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/hargabyte/pyr/internal/extract"
	"github.com/hargabyte/pyr/internal/output"
)

// DirName is the per-project configuration directory.
const DirName = ".pyr"

// FileName is the configuration file inside DirName.
const FileName = "config.yaml"

// Config holds all tool settings.
type Config struct {
	Scan   ScanConfig   `yaml:"scan"`
	Enums  EnumsConfig  `yaml:"enums"`
	Output OutputConfig `yaml:"output"`
	Cache  CacheConfig  `yaml:"cache"`
}

// ScanConfig controls file discovery.
type ScanConfig struct {
	// Exclude holds glob patterns matched against relative paths and
	// base names, e.g. "tests/*" or "conftest.py".
	Exclude []string `yaml:"exclude"`
}

// EnumsConfig controls enum detection.
type EnumsConfig struct {
	// Markers are the base-class leaf names that make a class an enum.
	// Empty keeps the built-in set.
	Markers []string `yaml:"markers"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	Format       string `yaml:"format"`
	Alphabetical bool   `yaml:"alphabetical"`
}

// CacheConfig controls the extraction cache.
type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Output: OutputConfig{Format: output.DefaultFormat.String()},
		Cache:  CacheConfig{Enabled: true},
	}
}

// FindConfigDir searches from start upward for a .pyr directory and
// returns its path. Returns an error when none exists.
func FindConfigDir(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", start, err)
	}

	for {
		candidate := filepath.Join(dir, DirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s directory found from %s upward", DirName, start)
		}
		dir = parent
	}
}

// Load reads the configuration for the project containing start. A
// missing .pyr directory or config file yields the defaults.
func Load(start string) (*Config, error) {
	cfg := Default()

	dir, err := FindConfigDir(start)
	if err != nil {
		return cfg, nil
	}

	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values that have a closed domain.
func (c *Config) Validate() error {
	if c.Output.Format != "" {
		if _, err := output.ParseFormat(c.Output.Format); err != nil {
			return err
		}
	}
	return nil
}

// EnumMarkers returns the configured marker list, falling back to the
// extractor defaults.
func (c *Config) EnumMarkers() []string {
	if len(c.Enums.Markers) > 0 {
		return c.Enums.Markers
	}
	return extract.DefaultEnumMarkers
}
