// Package config loads taskhive's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Storage drivers
const (
	DriverSQLite = "sqlite"
	DriverFile   = "file"
)

// Config is the top-level configuration
type Config struct {
	DataDir       string          `yaml:"data_dir" validate:"required"`
	Storage       StorageConfig   `yaml:"storage"`
	Auth          AuthConfig      `yaml:"auth"`
	Analytics     AnalyticsConfig `yaml:"analytics"`
	Notifications bool            `yaml:"notifications"`
	Log           LogConfig       `yaml:"log"`
}

// StorageConfig selects where the snapshot lives
type StorageConfig struct {
	Driver string `yaml:"driver" validate:"oneof=sqlite file"`
	Name   string `yaml:"name" validate:"required,excludesall=/\\"` // base name inside data_dir
}

// AuthConfig holds the simulated login latencies. Both must be positive.
type AuthConfig struct {
	LoginDelay  time.Duration `yaml:"login_delay" validate:"gt=0"`
	GoogleDelay time.Duration `yaml:"google_delay" validate:"gt=0"`
}

// AnalyticsConfig picks static seed numbers or live ones
type AnalyticsConfig struct {
	Mode string `yaml:"mode" validate:"oneof=static live"`
}

// LogConfig controls the logger
type LogConfig struct {
	Level   string `yaml:"level" validate:"oneof=debug info warn error DEBUG INFO WARN ERROR"`
	Format  string `yaml:"format" validate:"oneof=console json"`
	File    string `yaml:"file"` // empty means <data_dir>/logs/taskhive.log
	Console bool   `yaml:"console"`
}

// DefaultDataDir returns the default data directory path
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taskhive"
	}
	return filepath.Join(home, ".local", "share", "taskhive")
}

// DefaultPath returns the default config file path
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(DefaultDataDir(), "config.yaml")
	}
	return filepath.Join(dir, "taskhive", "config.yaml")
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	return &Config{
		DataDir: DefaultDataDir(),
		Storage: StorageConfig{
			Driver: DriverSQLite,
			Name:   "taskhive-store",
		},
		Auth: AuthConfig{
			LoginDelay:  time.Second,
			GoogleDelay: 1500 * time.Millisecond,
		},
		Analytics: AnalyticsConfig{
			Mode: "static",
		},
		Notifications: true,
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads the config at path over the defaults, then applies TASKHIVE_*
// environment overrides. An empty path reads DefaultPath and tolerates it
// being absent.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	optional := path == ""
	if optional {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case optional && errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides fields from TASKHIVE_* variables
func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"TASKHIVE_DATA_DIR":       &c.DataDir,
		"TASKHIVE_STORAGE_DRIVER": &c.Storage.Driver,
		"TASKHIVE_STORAGE_NAME":   &c.Storage.Name,
		"TASKHIVE_ANALYTICS_MODE": &c.Analytics.Mode,
		"TASKHIVE_LOG_LEVEL":      &c.Log.Level,
		"TASKHIVE_LOG_FORMAT":     &c.Log.Format,
		"TASKHIVE_LOG_FILE":       &c.Log.File,
	}
	for key, field := range strs {
		if v := os.Getenv(key); v != "" {
			*field = v
		}
	}

	bools := map[string]*bool{
		"TASKHIVE_NOTIFICATIONS": &c.Notifications,
		"TASKHIVE_LOG_CONSOLE":   &c.Log.Console,
	}
	for key, field := range bools {
		if v := os.Getenv(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			*field = b
		}
	}

	durations := map[string]*time.Duration{
		"TASKHIVE_LOGIN_DELAY":  &c.Auth.LoginDelay,
		"TASKHIVE_GOOGLE_DELAY": &c.Auth.GoogleDelay,
	}
	for key, field := range durations {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			*field = d
		}
	}
	return nil
}

var validate = validator.New()

// Validate checks field values
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LogPath resolves the log file location
func (c *Config) LogPath() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(c.DataDir, "logs", "taskhive.log")
}

// Save writes the config to path
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
