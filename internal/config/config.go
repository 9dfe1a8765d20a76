// Package config loads and validates service configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
	ErrConfigInvalid  = errors.New("invalid config")
)

// Config holds all configuration for the conversion service.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Pandoc PandocConfig `yaml:"pandoc"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig defines the HTTP listener options.
// Durations are expressed in seconds to keep the YAML surface plain.
type ServerConfig struct {
	Addr                  string          `yaml:"addr"`
	ReadHeaderTimeoutSecs int             `yaml:"readHeaderTimeoutSeconds"`
	WriteTimeoutSecs      int             `yaml:"writeTimeoutSeconds"`
	ShutdownTimeoutSecs   int             `yaml:"shutdownTimeoutSeconds"`
	MaxUploadBytes        int64           `yaml:"maxUploadBytes"`
	RateLimit             RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig caps conversion requests per client IP.
// Requests <= 0 disables rate limiting.
type RateLimitConfig struct {
	Requests   int `yaml:"requests"`
	WindowSecs int `yaml:"windowSeconds"`
}

// PandocConfig defines how the converter binary is invoked.
type PandocConfig struct {
	Path        string `yaml:"path"`
	TimeoutSecs int    `yaml:"timeoutSeconds"`
	// Workers caps concurrent pandoc processes; 0 means auto-size from
	// available CPUs.
	Workers int `yaml:"workers"`
}

// LogConfig defines logging output.
type LogConfig struct {
	Level  string `yaml:"level"`  // logrus level name (default: info)
	Format string `yaml:"format"` // "text" or "json" (default: text)
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:                  ":8080",
			ReadHeaderTimeoutSecs: 10,
			// Write timeout must outlast the conversion timeout or slow
			// conversions get their response cut off.
			WriteTimeoutSecs:    330,
			ShutdownTimeoutSecs: 10,
			MaxUploadBytes:      20 << 20,
			RateLimit: RateLimitConfig{
				Requests:   0,
				WindowSecs: 60,
			},
		},
		Pandoc: PandocConfig{
			Path:        "pandoc",
			TimeoutSecs: 300,
			Workers:     0,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a YAML config file over the defaults. Unknown fields are
// rejected so typos fail loudly instead of silently using defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- config path is operator-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr is required", ErrConfigInvalid)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("%w: server.maxUploadBytes must be positive", ErrConfigInvalid)
	}
	if c.Pandoc.Path == "" {
		return fmt.Errorf("%w: pandoc.path is required", ErrConfigInvalid)
	}
	if c.Pandoc.TimeoutSecs <= 0 {
		return fmt.Errorf("%w: pandoc.timeoutSeconds must be positive", ErrConfigInvalid)
	}
	if c.Pandoc.Workers < 0 {
		return fmt.Errorf("%w: pandoc.workers cannot be negative", ErrConfigInvalid)
	}
	if c.Server.RateLimit.Requests > 0 && c.Server.RateLimit.WindowSecs <= 0 {
		return fmt.Errorf("%w: server.rateLimit.windowSeconds must be positive", ErrConfigInvalid)
	}
	return nil
}

// ConversionTimeout returns the pandoc timeout as a duration.
func (c *Config) ConversionTimeout() time.Duration {
	return time.Duration(c.Pandoc.TimeoutSecs) * time.Second
}

// ReadHeaderTimeout returns the HTTP read-header timeout.
func (c *Config) ReadHeaderTimeout() time.Duration {
	return time.Duration(c.Server.ReadHeaderTimeoutSecs) * time.Second
}

// WriteTimeout returns the HTTP write timeout.
func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.Server.WriteTimeoutSecs) * time.Second
}

// ShutdownTimeout returns the graceful shutdown grace period.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeoutSecs) * time.Second
}

// RateLimitWindow returns the rate-limit window as a duration.
func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.Server.RateLimit.WindowSecs) * time.Second
}
