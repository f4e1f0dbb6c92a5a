// Package config handles configuration loading and validation for leetreview.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata" // review.timezone must resolve without system zoneinfo

	"gopkg.in/yaml.v3"

	"github.com/abhisek/leetreview/internal/store"
)

// Environment variables that override the config file.
const (
	EnvDB       = "LEETREVIEW_DB"
	EnvAddr     = "LEETREVIEW_ADDR"
	EnvLogLevel = "LEETREVIEW_LOG_LEVEL"
)

// Config holds the application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Review   ReviewConfig   `yaml:"review"`
}

// DatabaseConfig configures the SQLite store.
type DatabaseConfig struct {
	Path         string        `yaml:"path"`
	MaxOpenConns int           `yaml:"max_open_conns"`
	BusyTimeout  time.Duration `yaml:"busy_timeout"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // empty logs to stderr
}

// ReviewConfig tunes the daily review queue.
type ReviewConfig struct {
	NewLimit int    `yaml:"new_limit"`
	Timezone string `yaml:"timezone"` // IANA name; defines "today"
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Database: DatabaseConfig{
			MaxOpenConns: 1,
			BusyTimeout:  5 * time.Second,
		},
		Server: ServerConfig{
			Addr:            "127.0.0.1:8000",
			CORSOrigins:     []string{"http://localhost:5173", "http://127.0.0.1:5173"},
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
		Review: ReviewConfig{
			NewLimit: 5,
			Timezone: "UTC",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/leetreview/config.yaml, falling back
// to ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "leetreview", "config.yaml"), nil
}

// Load reads configuration from configPath, applies environment overrides
// and defaults, and validates the result. A missing file yields defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyEnv overrides file values with environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDB); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
	if c.Server.CORSOrigins == nil {
		c.Server.CORSOrigins = defaults.Server.CORSOrigins
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = defaults.Server.ReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = defaults.Server.WriteTimeout
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = defaults.Server.IdleTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = defaults.Server.ShutdownTimeout
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Review.NewLimit == 0 {
		c.Review.NewLimit = defaults.Review.NewLimit
	}
	if c.Review.Timezone == "" {
		c.Review.Timezone = defaults.Review.Timezone
	}
}

// DBPath returns the configured database path, or the default location
// when none is set.
func (c *Config) DBPath() (string, error) {
	if c.Database.Path != "" {
		return c.Database.Path, store.EnsureDir(c.Database.Path)
	}
	return store.DefaultDBPath()
}

// StoreOptions returns the connection pool settings for store.OpenWithOptions.
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		MaxOpenConns: c.Database.MaxOpenConns,
		BusyTimeout:  c.Database.BusyTimeout,
	}
}

// Location returns the time zone that defines the review day.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Review.Timezone)
}
