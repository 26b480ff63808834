// Package config loads the optional YAML configuration of exif-extract.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/quidome/exif-extract-go/pkg/export"
	"github.com/quidome/exif-extract-go/pkg/scan"
)

const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

type Config struct {
	Output  OutputConfig  `yaml:"output"`
	Input   InputConfig   `yaml:"input"`
	Extract ExtractConfig `yaml:"extract"`
}

type OutputConfig struct {
	Path        string `yaml:"path"`
	Format      string `yaml:"format"`
	Aliases     bool   `yaml:"aliases"`
	Pretty      bool   `yaml:"pretty"`
	Silent      bool   `yaml:"silent"`
	SQLite      string `yaml:"sqlite"`
	SQLiteTable string `yaml:"sqlite_table"`
	NoClobber   bool   `yaml:"no_clobber"`
}

type InputConfig struct {
	MaxDepth   int      `yaml:"max_depth"`
	Extensions []string `yaml:"extensions"`
}

type ExtractConfig struct {
	CreatedAt  bool   `yaml:"created_at"`
	MakerNotes bool   `yaml:"maker_notes"`
	Timezone   string `yaml:"timezone"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	scanOpts := scan.DefaultOptions()
	return Config{
		Output: OutputConfig{
			Format:      FormatCSV,
			SQLiteTable: export.DefaultTable,
		},
		Input: InputConfig{
			MaxDepth:   scanOpts.MaxDepth,
			Extensions: scanOpts.Extensions,
		},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate normalizes the format and checks the settings for consistency.
func (c *Config) Validate() error {
	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	if c.Output.Format == "" {
		c.Output.Format = FormatCSV
	}
	if c.Output.Format != FormatCSV && c.Output.Format != FormatJSON {
		return fmt.Errorf("output.format must be csv or json")
	}
	if c.Output.SQLite != "" && c.Output.SQLiteTable == "" {
		return fmt.Errorf("output.sqlite_table is required when output.sqlite is set")
	}

	if c.Input.MaxDepth < -1 {
		return fmt.Errorf("input.max_depth must be >= -1")
	}

	if _, err := c.Extract.ParseLocation(); err != nil {
		return err
	}
	return nil
}

// ParseLocation returns the configured timezone, or time.Local when none is
// set.
func (e ExtractConfig) ParseLocation() (*time.Location, error) {
	if e.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		return nil, fmt.Errorf("extract.timezone: %w", err)
	}
	return loc, nil
}
