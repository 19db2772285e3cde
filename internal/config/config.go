// Package config loads todo configuration from YAML or TOML files and the
// environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/fentz26/todo/internal/logging"
	"github.com/fentz26/todo/internal/models"
)

// Environment variables that override file values.
const (
	EnvDataFile = "TODO_FILE"
	EnvDBPath   = "TODO_DB"
	EnvLogLevel = "TODO_LOG_LEVEL"
)

// Config holds todo configuration.
type Config struct {
	// DataFile is the pipe-delimited task file.
	DataFile string `yaml:"data_file" toml:"data_file"`
	// DBPath enables the SQLite journal when set.
	DBPath string `yaml:"db_path" toml:"db_path"`
	// LogLevel is one of debug, info, warn, error, fatal.
	LogLevel string `yaml:"log_level" toml:"log_level"`
	// LogFormat is one of text, json, logfmt.
	LogFormat string `yaml:"log_format" toml:"log_format"`
	// DefaultCategory is used when add is given no category.
	DefaultCategory string `yaml:"default_category" toml:"default_category"`
	// DefaultDueDays is used when add is given no due date.
	DefaultDueDays int `yaml:"default_due_days" toml:"default_due_days"`
	// DefaultPriority is used when add is given no priority.
	DefaultPriority int `yaml:"default_priority" toml:"default_priority"`
}

// Dir returns ~/.todo, or .todo when the home directory is unknown.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".todo"
	}
	return filepath.Join(home, ".todo")
}

// DefaultPath returns ~/.todo/config.yaml.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		DataFile:        filepath.Join(Dir(), "tasks.txt"),
		LogLevel:        "info",
		LogFormat:       "text",
		DefaultCategory: "General",
		DefaultDueDays:  7,
		DefaultPriority: models.PriorityDefault,
	}
}

// LoadConfig loads configuration from path on top of the defaults. Files
// ending in .toml are parsed as TOML, everything else as YAML. A missing
// file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if isTOML(path) {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.expand()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Load reads the config file at path (DefaultPath when empty) and applies
// environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from non-empty environment values.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvDataFile); v != "" {
		c.DataFile = v
	}
	if v := getenv(EnvDBPath); v != "" {
		c.DBPath = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	c.expand()
}

// SaveConfig saves configuration to path, creating parent directories if
// needed. The format follows the file extension as in LoadConfig.
func SaveConfig(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	var data []byte
	if isTOML(path) {
		var b strings.Builder
		if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
		data = []byte(b.String())
	} else {
		var err error
		data, err = yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataFile == "" {
		return fmt.Errorf("data_file must not be empty")
	}
	if !logging.ValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log_level %q, must be: debug, info, warn, error, or fatal", c.LogLevel)
	}
	if !logging.ValidFormat(c.LogFormat) {
		return fmt.Errorf("invalid log_format %q, must be: text, json, or logfmt", c.LogFormat)
	}
	if !models.ValidPriority(c.DefaultPriority) {
		return fmt.Errorf("default_priority must be between %d and %d", models.PriorityHighest, models.PriorityLowest)
	}
	if c.DefaultDueDays < 0 {
		return fmt.Errorf("default_due_days must not be negative")
	}
	return nil
}

func (c *Config) expand() {
	c.DataFile = expandHome(c.DataFile)
	c.DBPath = expandHome(c.DBPath)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
