// Package config loads application configuration from an optional YAML
// file with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like "15s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return d.Std().String() }

// Config holds all application configuration.
type Config struct {
	Server Server `yaml:"server"`
	GitHub GitHub `yaml:"github"`

	// LogLevel is any level name logrus understands.
	LogLevel string `yaml:"log_level"`
}

// Server holds HTTP server configuration.
type Server struct {
	Host            string   `yaml:"host"`
	Port            string   `yaml:"port"`
	ReadTimeout     Duration `yaml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout"`
	IdleTimeout     Duration `yaml:"idle_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// Addr returns the listen address.
func (s Server) Addr() string { return s.Host + ":" + s.Port }

// GitHub holds upstream API configuration. The token never comes from
// the config file, only from the environment.
type GitHub struct {
	Token          string   `yaml:"-"`
	MaxRetries     int      `yaml:"max_retries"`
	AttemptTimeout Duration `yaml:"attempt_timeout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: Server{
			Host:        "0.0.0.0",
			Port:        "8080",
			ReadTimeout: Duration(15 * time.Second),
			// A session can spend up to ten sequential language fetches
			// plus retries inside one request, so the write timeout is
			// deliberately generous.
			WriteTimeout:    Duration(2 * time.Minute),
			IdleTimeout:     Duration(60 * time.Second),
			ShutdownTimeout: Duration(30 * time.Second),
		},
		GitHub: GitHub{
			MaxRetries:     2,
			AttemptTimeout: Duration(10 * time.Second),
		},
		LogLevel: "info",
	}
}

// Load builds the configuration: defaults, then the YAML file at path
// (if any), then environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.Server.Host = getEnv("GITBOARD_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnv("GITBOARD_PORT", cfg.Server.Port)
	cfg.Server.ReadTimeout = getEnvDuration("GITBOARD_READ_TIMEOUT", cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = getEnvDuration("GITBOARD_WRITE_TIMEOUT", cfg.Server.WriteTimeout)
	cfg.Server.IdleTimeout = getEnvDuration("GITBOARD_IDLE_TIMEOUT", cfg.Server.IdleTimeout)
	cfg.Server.ShutdownTimeout = getEnvDuration("GITBOARD_SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout)
	cfg.GitHub.Token = getEnv("GITHUB_TOKEN", "")
	cfg.GitHub.MaxRetries = getEnvInt("GITBOARD_MAX_RETRIES", cfg.GitHub.MaxRetries)
	cfg.GitHub.AttemptTimeout = getEnvDuration("GITBOARD_ATTEMPT_TIMEOUT", cfg.GitHub.AttemptTimeout)
	cfg.LogLevel = getEnv("GITBOARD_LOG_LEVEL", cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port must not be empty")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("server port must be numeric: %q", c.Server.Port)
	}
	if c.GitHub.MaxRetries < 0 {
		return fmt.Errorf("max retries must not be negative: %d", c.GitHub.MaxRetries)
	}
	if c.GitHub.AttemptTimeout <= 0 {
		return fmt.Errorf("attempt timeout must be positive: %s", c.GitHub.AttemptTimeout)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback Duration) Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return Duration(parsed)
		}
	}
	return fallback
}
