// Package config handles configuration loading and validation for dayboard.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// DefaultPalette is the fallback category palette, indexed by category position.
var DefaultPalette = []string{"#6C63FF", "#2EC4B6", "#FF6B6B", "#F39C12", "#2ECC71", "#E74C3C", "#9B59B6", "#3498DB"}

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Config holds the application configuration.
type Config struct {
	DataDir        string            `yaml:"-"` // set by caller, not from config file
	LogLevel       string            `yaml:"log_level"`
	LogFile        string            `yaml:"log_file"`
	User           string            `yaml:"user"`            // email signed in when no session is remembered
	Palette        []string          `yaml:"palette"`         // fallback category colors
	CategoryColors map[string]string `yaml:"category_colors"` // explicit colors, win over everything else
	Report         ReportConfig      `yaml:"report"`
}

// ReportConfig holds defaults for the week and export commands.
type ReportConfig struct {
	Format string `yaml:"format"` // table, json or csv
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel:       "info",
		Palette:        append([]string(nil), DefaultPalette...),
		CategoryColors: map[string]string{},
		Report:         ReportConfig{Format: "table"},
	}
}

// Load reads configuration from configPath and sets the data directory.
// A missing file yields defaults.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.DataDir = dataDir
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
	if len(c.Palette) == 0 {
		c.Palette = defaults.Palette
	}
	if c.CategoryColors == nil {
		c.CategoryColors = map[string]string{}
	}
	if c.Report.Format == "" {
		c.Report.Format = defaults.Report.Format
	}
	if c.LogFile == "" && c.DataDir != "" {
		c.LogFile = filepath.Join(c.DataDir, "dayboard.log")
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("data_dir", c.DataDir, notBlank),
		criterio.Run("log_level", c.LogLevel, validLevel),
		criterio.Run("report.format", c.Report.Format, validFormat),
		c.validateColors(),
	)
}

func (c *Config) validateColors() error {
	var errs criterio.FieldErrorsBuilder
	for i, color := range c.Palette {
		if !hexColor.MatchString(color) {
			errs = errs.Append(fmt.Sprintf("palette[%d]", i), fmt.Errorf("invalid color %q", color))
		}
	}
	for name, color := range c.CategoryColors {
		if !hexColor.MatchString(color) {
			errs = errs.Append(fmt.Sprintf("category_colors.%s", name), fmt.Errorf("invalid color %q", color))
		}
	}
	return errs.ToError()
}

// DBPath is the relational store file.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "dayboard.db")
}

// CachePath is the local fallback cache file.
func (c *Config) CachePath() string {
	return filepath.Join(c.DataDir, "cache.db")
}

func notBlank(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("cannot be empty")
	}
	return nil
}

func validLevel(s string) error {
	if _, err := zerolog.ParseLevel(s); err != nil {
		return fmt.Errorf("unknown level %q", s)
	}
	return nil
}

func validFormat(s string) error {
	switch s {
	case "table", "json", "csv":
		return nil
	}
	return fmt.Errorf("must be one of table, json, csv")
}

// DefaultConfigPath returns <user config dir>/dayboard/config.yaml.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "dayboard", "config.yaml")
}

// DefaultDataDir returns <user config dir>/dayboard.
func DefaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".dayboard"
	}
	return filepath.Join(dir, "dayboard")
}

// ValidColor accepts "#rrggbb" hex colors.
func ValidColor(s string) error {
	if !hexColor.MatchString(s) {
		return fmt.Errorf("invalid color %q", s)
	}
	return nil
}
