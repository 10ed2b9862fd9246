package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/youssefsiam38/meetpg/ui/api"
)

// ErrInvalidConfig is wrapped by every configuration validation error.
var ErrInvalidConfig = errors.New("ui: invalid configuration")

// Default configuration values.
const (
	DefaultRequestsPerMinute = 300
	DefaultBurst             = api.DefaultBurst
)

// Config holds UI package configuration.
type Config struct {
	// BasePath is the URL prefix where the UI is mounted.
	// For example, if mounted at "/ui/", set BasePath to "/ui".
	// All navigation links will be prefixed with this path.
	// Defaults to empty string (root mount).
	BasePath string

	// ReadOnly disables create, update and remove in both handlers.
	// Useful for monitoring-only deployments.
	ReadOnly bool

	// Logger for structured logging.
	// If nil, logging is disabled.
	Logger Logger

	// RequestsPerMinute is the sustained API rate per caller.
	// Defaults to 300; negative disables rate limiting.
	RequestsPerMinute int

	// Burst is the API burst size per caller.
	// Defaults to 20.
	Burst int
}

// Logger interface for structured logging.
// *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// DefaultConfig returns a new Config with default values.
func DefaultConfig() *Config {
	return &Config{
		RequestsPerMinute: DefaultRequestsPerMinute,
		Burst:             DefaultBurst,
	}
}

// applyDefaults fills in default values for zero-valued fields.
func (c *Config) applyDefaults() {
	if c.RequestsPerMinute == 0 {
		c.RequestsPerMinute = DefaultRequestsPerMinute
	}
	if c.Burst == 0 {
		c.Burst = DefaultBurst
	}
	c.BasePath = strings.TrimSuffix(c.BasePath, "/")
}

// validate checks the configuration for errors.
func (c *Config) validate() error {
	if c.BasePath != "" && !strings.HasPrefix(c.BasePath, "/") {
		return fmt.Errorf("%w: base path %q must start with /", ErrInvalidConfig, c.BasePath)
	}
	if c.Burst < 1 {
		return fmt.Errorf("%w: burst must be positive", ErrInvalidConfig)
	}
	return nil
}

// rateLimit returns the API limiter configuration; a negative rate disables it.
func (c *Config) rateLimit() api.RateLimitConfig {
	if c.RequestsPerMinute < 0 {
		return api.RateLimitConfig{}
	}
	return api.RateLimitConfig{RequestsPerMinute: c.RequestsPerMinute, Burst: c.Burst}
}
