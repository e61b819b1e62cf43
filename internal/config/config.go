package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Output formats understood by the formatter package.
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatPatch = "patch"
)

// Config represents the complete configuration for eventdiff
type Config struct {
	TimestampField string          `yaml:"timestamp_field"`
	IgnorePaths    []string        `yaml:"ignore_paths"`
	Alignment      AlignmentConfig `yaml:"alignment"`
	Output         OutputConfig    `yaml:"output"`
	Dev            DevConfig       `yaml:"dev"`
}

// AlignmentConfig controls how the two streams are matched up
type AlignmentConfig struct {
	StrictOrder bool `yaml:"strict_order"`
}

// OutputConfig controls how reports are rendered
type OutputConfig struct {
	Format  string `yaml:"format"`
	Color   bool   `yaml:"color"`
	Summary bool   `yaml:"summary"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		TimestampField: "timestamp",
		IgnorePaths:    []string{},
		Alignment: AlignmentConfig{
			StrictOrder: false,
		},
		Output: OutputConfig{
			Format:  FormatText,
			Color:   true,
			Summary: false,
		},
		Dev: DevConfig{
			Debug: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".eventdiff.yml", ".eventdiff.yaml", "eventdiff.yml", "eventdiff.yaml"}

	// Start from current directory
	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		// Move up one directory
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks that the configuration values can be used
func (c *Config) Validate() error {
	if strings.TrimSpace(c.TimestampField) == "" {
		return fmt.Errorf("timestamp_field must not be empty")
	}
	switch c.Output.Format {
	case FormatText, FormatJSON, FormatPatch:
	default:
		return fmt.Errorf("unknown output format '%s' (want %s, %s or %s)",
			c.Output.Format, FormatText, FormatJSON, FormatPatch)
	}
	for _, p := range c.IgnorePaths {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("ignore_paths must not contain empty entries")
		}
	}
	return nil
}

// Overrides carries values given on the command line. Nil pointers and
// empty strings leave the file (or default) value in place.
type Overrides struct {
	TimestampField string
	IgnorePaths    []string
	Format         string
	Color          *bool
	Summary        *bool
	StrictOrder    *bool
	Debug          *bool
}

// Apply merges o into c. Ignored paths are appended to the configured ones.
func (o Overrides) Apply(c *Config) {
	if o.TimestampField != "" {
		c.TimestampField = o.TimestampField
	}
	c.IgnorePaths = append(c.IgnorePaths, o.IgnorePaths...)
	if o.Format != "" {
		c.Output.Format = o.Format
	}
	if o.Color != nil {
		c.Output.Color = *o.Color
	}
	if o.Summary != nil {
		c.Output.Summary = *o.Summary
	}
	if o.StrictOrder != nil {
		c.Alignment.StrictOrder = *o.StrictOrder
	}
	if o.Debug != nil {
		c.Dev.Debug = *o.Debug
	}
}

// LoadConfigWithCLI loads config with CLI argument precedence. An empty
// configPath means defaults only.
func LoadConfigWithCLI(configPath string, overrides Overrides) (*Config, error) {
	// Start with defaults
	cfg := NewConfig()

	// Load config file if provided
	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	overrides.Apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
