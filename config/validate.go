package config

import (
	"fmt"
	"strings"
)

// ValidationError accumulates config validation errors.
type ValidationError struct {
	Errors []string
}

func (v *ValidationError) Error() string {
	return "config validation failed:\n  - " + strings.Join(v.Errors, "\n  - ")
}

// HasErrors reports whether any validation errors have been recorded.
func (v *ValidationError) HasErrors() bool {
	return len(v.Errors) > 0
}

// Add records a formatted validation error.
func (v *ValidationError) Add(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

// Validate checks cfg for structural correctness. It returns a *ValidationError
// listing every problem found.
func Validate(cfg *Config) error {
	ve := &ValidationError{}
	validateServer(cfg, ve)
	validateDatabase(cfg, ve)
	validateAuth(cfg, ve)
	validateRateLimit(cfg, ve)
	validateLogger(cfg, ve)
	if ve.HasErrors() {
		return ve
	}
	return nil
}

func validateServer(cfg *Config, ve *ValidationError) {
	s := cfg.Server
	if s.Addr == "" {
		ve.Add("server.addr is required")
	}
	if s.BasePath != "" && !strings.HasPrefix(s.BasePath, "/") {
		ve.Add("server.base_path must start with '/' (got %q)", s.BasePath)
	}
	if s.ReadTimeout < 0 {
		ve.Add("server.read_timeout must not be negative")
	}
	if s.WriteTimeout < 0 {
		ve.Add("server.write_timeout must not be negative")
	}
	if s.ShutdownTimeout <= 0 {
		ve.Add("server.shutdown_timeout must be positive")
	}
}

func validateDatabase(cfg *Config, ve *ValidationError) {
	d := cfg.Database
	switch d.Driver {
	case DriverPgx, DriverPostgres, DriverSQLite:
	default:
		ve.Add("database.driver must be one of pgx, postgres, sqlite (got %q)", d.Driver)
	}
	if d.URL == "" {
		ve.Add("database.url is required (or set DATABASE_URL)")
	}
	if d.MaxConns < 1 {
		ve.Add("database.max_conns must be at least 1")
	}
}

func validateAuth(cfg *Config, ve *ValidationError) {
	a := cfg.Auth
	switch a.Mode {
	case AuthModeHeader:
		if a.Header == "" {
			ve.Add("auth.header is required in header mode")
		}
	case AuthModeAPIKey:
		if len(a.APIKeys) == 0 {
			ve.Add("auth.api_keys must not be empty in apikey mode")
		}
		for i, k := range a.APIKeys {
			if len(k.Hash) != 64 {
				ve.Add("auth.api_keys[%d].hash must be a 64-character SHA-256 hex digest", i)
			}
			if k.UserID == "" {
				ve.Add("auth.api_keys[%d].user_id is required", i)
			}
		}
	default:
		ve.Add("auth.mode must be header or apikey (got %q)", a.Mode)
	}
}

func validateRateLimit(cfg *Config, ve *ValidationError) {
	if cfg.RateLimit.RequestsPerMinute > 0 && cfg.RateLimit.Burst < 1 {
		ve.Add("rate_limit.burst must be at least 1 when limiting is enabled")
	}
}

func validateLogger(cfg *Config, ve *ValidationError) {
	switch strings.ToLower(cfg.Logger.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		ve.Add("logger.level must be debug, info, warn or error (got %q)", cfg.Logger.Level)
	}
	switch strings.ToLower(cfg.Logger.Format) {
	case "text", "json":
	default:
		ve.Add("logger.format must be text or json (got %q)", cfg.Logger.Format)
	}
}
