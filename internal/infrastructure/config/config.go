// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ersonp/family-core/internal/domain/entities"
)

const (
	// DefaultConfigDir is the directory name for family configuration.
	DefaultConfigDir = ".family"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultFamiliesFile is the default families file name.
	DefaultFamiliesFile = "families.yaml"

	// EnvSQLitePath overrides SQLiteConfig.Path.
	EnvSQLitePath = "FAMILY_SQLITE_PATH"
)

var (
	// reNonAlphanumeric matches characters that aren't alphanumeric or underscore.
	reNonAlphanumeric = regexp.MustCompile(`[^a-z0-9_]`)
	// reMultipleUnderscores matches consecutive underscores.
	reMultipleUnderscores = regexp.MustCompile(`_+`)
)

// Config holds static configuration (read-only after init).
type Config struct {
	Ages   AgesConfig   `yaml:"ages,omitempty"`
	Tree   TreeConfig   `yaml:"tree,omitempty"`
	SQLite SQLiteConfig `yaml:"sqlite,omitempty"`
}

// AgesConfig holds the global life-stage table.
type AgesConfig struct {
	// Spans is the duration in days of each stage, Baby through Elder.
	Spans []int `yaml:"spans,omitempty"`
}

// TreeConfig holds the node size hints handed to the tree layout.
type TreeConfig struct {
	NodeWidth  float64 `yaml:"node_width,omitempty"`
	NodeHeight float64 `yaml:"node_height,omitempty"`
	LineHeight float64 `yaml:"line_height,omitempty"`
}

// SQLiteConfig holds configuration for the SQLite relational database.
type SQLiteConfig struct {
	// Path is the file path to the SQLite database.
	// When empty, each family gets its own database, see SQLitePathForFamily.
	Path string `yaml:"path,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Ages: AgesConfig{
			Spans: append([]int(nil), entities.DefaultAgeSpans...),
		},
		Tree: TreeConfig{
			NodeWidth:  150,
			NodeHeight: 40,
			LineHeight: 20,
		},
	}
}

// Load loads configuration from the .family directory in the given path.
func Load(basePath string) (*Config, error) {
	configFile := ConfigFilePath(basePath)

	data, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s (run 'family init' first)", configFile)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Start with defaults
	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Validate checks the stage table and node sizes.
func (c *Config) Validate() error {
	if len(c.Ages.Spans) != int(entities.StageElder)+1 {
		return fmt.Errorf("ages.spans needs %d entries, got %d", int(entities.StageElder)+1, len(c.Ages.Spans))
	}
	for i, d := range c.Ages.Spans {
		if d < 0 {
			return fmt.Errorf("ages.spans[%d] is negative: %d", i, d)
		}
	}
	if c.Tree.NodeWidth < 0 || c.Tree.NodeHeight < 0 || c.Tree.LineHeight < 0 {
		return errors.New("tree node sizes must not be negative")
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if path := os.Getenv(EnvSQLitePath); path != "" {
		c.SQLite.Path = path
	}
}

// ConfigDir returns the path to the .family config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}

// FamiliesFilePath returns the path to the families file.
func FamiliesFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultFamiliesFile)
}

// SanitizeFamilyName converts a family name to a valid directory name.
func SanitizeFamilyName(name string) string {
	name = strings.ToLower(name)

	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "-", "_")

	name = reNonAlphanumeric.ReplaceAllString(name, "")
	name = reMultipleUnderscores.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")

	if name == "" {
		return "default"
	}

	return name
}

// SQLitePathForFamily returns the SQLite database path for a given family.
// A configured sqlite.path is shared by every family.
func (c *Config) SQLitePathForFamily(basePath, familyName string) string {
	if c.SQLite.Path != "" {
		return c.SQLite.Path
	}
	return filepath.Join(FamilyDir(basePath, familyName), "family.db")
}

// FamilyDir returns the directory path for a given family.
func FamilyDir(basePath, familyName string) string {
	return filepath.Join(basePath, DefaultConfigDir, "families", SanitizeFamilyName(familyName))
}
