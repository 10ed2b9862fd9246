// Package config loads the meetpg server configuration.
//
// Values are resolved in order: built-in defaults, the YAML file, MEETPG_*
// environment variables and finally command-line flags applied by the binary.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/youssefsiam38/meetpg/auth"
)

// Database drivers.
const (
	DriverPgx      = "pgx"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Auth modes.
const (
	AuthModeHeader = "header"
	AuthModeAPIKey = "apikey"
)

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	UI        UIConfig        `yaml:"ui"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Logger    LoggerConfig    `yaml:"logger"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	BasePath        string        `yaml:"base_path"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig selects and configures the storage driver.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	URL      string `yaml:"url"`
	MaxConns int    `yaml:"max_conns"`
	Migrate  bool   `yaml:"migrate"`
}

// AuthConfig selects how callers are identified.
type AuthConfig struct {
	Mode    string        `yaml:"mode"`
	Header  string        `yaml:"header"`
	APIKeys []auth.APIKey `yaml:"api_keys"`
}

// UIConfig configures the dashboard.
type UIConfig struct {
	ReadOnly bool `yaml:"read_only"`
}

// RateLimitConfig configures the per-client API rate limit.
// A negative RequestsPerMinute disables limiting.
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
	Burst             int `yaml:"burst"`
}

// LoggerConfig configures structured logging.
type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
	Output string `yaml:"output"` // "stdout", "stderr" or a file path
}

// Defaults returns a Config with default values.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:   DriverPgx,
			MaxConns: 10,
			Migrate:  true,
		},
		Auth: AuthConfig{
			Mode:   AuthModeHeader,
			Header: auth.DefaultUserHeader,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 300,
			Burst:             20,
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// Load reads configuration from a YAML file, applies environment overrides
// and validates the result. A missing file yields defaults plus environment.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read is Load without validation, for callers that apply further
// overrides such as command-line flags before calling Validate.
func Read(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	ApplyEnvOverrides(cfg)
	return cfg, nil
}

// ApplyEnvOverrides maps environment variables to config fields.
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("MEETPG_DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("MEETPG_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("MEETPG_BASE_PATH"); v != "" {
		cfg.Server.BasePath = v
	}
	if v := os.Getenv("MEETPG_LOG_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("MEETPG_LOG_FORMAT"); v != "" {
		cfg.Logger.Format = v
	}
	if v := os.Getenv("MEETPG_READ_ONLY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.UI.ReadOnly = b
		}
	}
}
