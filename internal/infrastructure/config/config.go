package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"

	"github.com/GriffinCanCode/SessionKeeper/internal/shared/paths"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Browser   BrowserConfig   `yaml:"browser"`
	Autosave  AutosaveConfig  `yaml:"autosave"`
	Logging   LogConfig       `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000" yaml:"port"`
	Host string `envconfig:"HOST" default:"127.0.0.1" yaml:"host"`
}

// StorageConfig selects the key-value backend.
type StorageConfig struct {
	Driver string `envconfig:"STORAGE_DRIVER" default:"sqlite" yaml:"driver"` // "sqlite" or "memory"
	Path   string `envconfig:"STORAGE_PATH" yaml:"path"`
}

// BrowserConfig configures the live window/tab surface.
// An empty BridgeURL selects the in-process memory surface.
type BrowserConfig struct {
	BridgeURL         string        `envconfig:"BROWSER_BRIDGE_URL" yaml:"bridge_url"`
	Timeout           time.Duration `envconfig:"BROWSER_TIMEOUT" default:"10s" yaml:"timeout"`
	RequestsPerSecond int           `envconfig:"BROWSER_RPS" default:"50" yaml:"requests_per_second"`
}

// AutosaveConfig tunes the autosave coordinator.
type AutosaveConfig struct {
	MinSpacing time.Duration `envconfig:"AUTOSAVE_MIN_SPACING" default:"3s" yaml:"min_spacing"`
	// AlarmUnit is the length of one "minute" of the autosave interval setting.
	AlarmUnit time.Duration `envconfig:"AUTOSAVE_ALARM_UNIT" default:"1m" yaml:"alarm_unit"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info" yaml:"level"`
	Development bool   `envconfig:"LOG_DEV" default:"false" yaml:"development"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100" yaml:"requests_per_second"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200" yaml:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true" yaml:"enabled"`
}

// Load loads configuration from environment variables, then overlays the
// YAML file named by CONFIG_FILE when set. File values win.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if file := os.Getenv("CONFIG_FILE"); file != "" {
		if err := cfg.overlayFile(file); err != nil {
			return nil, err
		}
	}

	cfg.applyDerived()
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "127.0.0.1",
		},
		Storage: StorageConfig{
			Driver: "sqlite",
		},
		Browser: BrowserConfig{
			Timeout:           10 * time.Second,
			RequestsPerSecond: 50,
		},
		Autosave: AutosaveConfig{
			MinSpacing: 3 * time.Second,
			AlarmUnit:  time.Minute,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
	cfg.applyDerived()
	return cfg
}

func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyDerived() {
	if c.Storage.Driver == "sqlite" && c.Storage.Path == "" {
		c.Storage.Path = paths.DefaultStatePath()
	}
}
