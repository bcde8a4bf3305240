// Package config loads the demo daemon's YAML configuration, with defaults,
// validation and .env support.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the schooks demo daemon.
type Config struct {
	LogLevel  string          `yaml:"log_level"`
	Storage   StorageConfig   `yaml:"storage"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Heartbeat HeartbeatConfig `yaml:"heartbeat"`
}

// StorageConfig selects and configures the key/value backend.
type StorageConfig struct {
	Backend    string     `yaml:"backend"` // "memory", "sqlite" or "nats"
	SQLitePath string     `yaml:"sqlite_path"`
	NATS       NATSConfig `yaml:"nats"`
}

// NATSConfig configures the NATS JetStream KV backend.
type NATSConfig struct {
	URL    string `yaml:"url"`
	Bucket string `yaml:"bucket"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// HeartbeatConfig configures the daemon's periodic heartbeat.
type HeartbeatConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and validates the configuration file. A .env file alongside the
// process is loaded first; SC_HOOKS_NATS_URL overrides the configured NATS URL.
func Load(configPath string) (*Config, error) {
	// Don't fail if .env doesn't exist; it is optional.
	if err := godotenv.Load(); err == nil {
		fmt.Fprintln(os.Stderr, "Loaded environment variables from .env")
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read configuration file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "memory"
	}
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = "schooks.db"
	}
	if c.Storage.NATS.URL == "" {
		c.Storage.NATS.URL = "nats://127.0.0.1:4222"
	}
	if c.Storage.NATS.Bucket == "" {
		c.Storage.NATS.Bucket = "sc-hooks"
	}
	if c.Metrics.Listen == "" {
		c.Metrics.Listen = ":9100"
	}
	if c.Heartbeat.Interval <= 0 {
		c.Heartbeat.Interval = 30 * time.Second
	}
}

func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("SC_HOOKS_NATS_URL"); url != "" {
		c.Storage.NATS.URL = url
	}
}

// Validate checks the configuration for contradictions.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "memory", "sqlite", "nats":
	default:
		return fmt.Errorf("unknown storage backend %q (want memory, sqlite or nats)", c.Storage.Backend)
	}

	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	if c.Heartbeat.Interval <= 0 {
		return fmt.Errorf("heartbeat interval must be positive, got %v", c.Heartbeat.Interval)
	}
	return nil
}

// SlogLevel maps the configured log level onto slog.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", c.LogLevel)
	}
}
