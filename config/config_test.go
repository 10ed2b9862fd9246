package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/youssefsiam38/meetpg/auth"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DATABASE_URL", "MEETPG_DATABASE_DRIVER", "MEETPG_ADDR", "MEETPG_BASE_PATH",
		"MEETPG_LOG_LEVEL", "MEETPG_LOG_FORMAT", "MEETPG_READ_ONLY",
	} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "meetpg.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  addr: ":9090"
  base_path: /dashboard
  shutdown_timeout: 5s
database:
  driver: sqlite
  url: "file:meetpg.db"
ui:
  read_only: true
rate_limit:
  requests_per_minute: 60
  burst: 5
logger:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9090" || cfg.Server.BasePath != "/dashboard" {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Server.ShutdownTimeout != 5*time.Second {
		t.Errorf("shutdown_timeout = %v, want 5s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("read_timeout default lost: %v", cfg.Server.ReadTimeout)
	}
	if cfg.Database.Driver != DriverSQLite || cfg.Database.URL != "file:meetpg.db" {
		t.Errorf("database = %+v", cfg.Database)
	}
	if !cfg.Database.Migrate || cfg.Database.MaxConns != 10 {
		t.Errorf("database defaults lost: %+v", cfg.Database)
	}
	if !cfg.UI.ReadOnly {
		t.Error("ui.read_only = false, want true")
	}
	if cfg.RateLimit != (RateLimitConfig{RequestsPerMinute: 60, Burst: 5}) {
		t.Errorf("rate_limit = %+v", cfg.RateLimit)
	}
	if cfg.Logger.Level != "debug" || cfg.Logger.Format != "json" || cfg.Logger.Output != "stderr" {
		t.Errorf("logger = %+v", cfg.Logger)
	}
}

func TestLoad_MissingFileUsesDefaultsAndEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/meetpg")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.URL != "postgres://localhost/meetpg" {
		t.Errorf("url = %q", cfg.Database.URL)
	}
	if cfg.Database.Driver != DriverPgx || cfg.Auth.Mode != AuthModeHeader {
		t.Errorf("defaults = %+v / %+v", cfg.Database, cfg.Auth)
	}
	if cfg.Auth.Header != auth.DefaultUserHeader {
		t.Errorf("auth.header = %q", cfg.Auth.Header)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "database:\n  url: postgres://file/db\nlogger:\n  level: info\n")
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("MEETPG_ADDR", ":7070")
	t.Setenv("MEETPG_LOG_LEVEL", "warn")
	t.Setenv("MEETPG_READ_ONLY", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.URL != "postgres://env/db" {
		t.Errorf("url = %q, want env value", cfg.Database.URL)
	}
	if cfg.Server.Addr != ":7070" || cfg.Logger.Level != "warn" || !cfg.UI.ReadOnly {
		t.Errorf("env overrides not applied: %+v %+v %+v", cfg.Server, cfg.Logger, cfg.UI)
	}
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeConfig(t, "server: [unclosed")
		if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "parse config") {
			t.Errorf("err = %v, want parse error", err)
		}
	})

	t.Run("validation", func(t *testing.T) {
		path := writeConfig(t, "database:\n  driver: mysql\n")
		_, err := Load(path)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("err = %v, want *ValidationError", err)
		}
		if len(ve.Errors) != 2 {
			t.Errorf("errors = %v, want driver and url problems", ve.Errors)
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Defaults()
		cfg.Database.URL = "postgres://localhost/meetpg"
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"valid", func(*Config) {}, ""},
		{"addr", func(c *Config) { c.Server.Addr = "" }, "server.addr"},
		{"base path", func(c *Config) { c.Server.BasePath = "ui" }, "server.base_path"},
		{"shutdown", func(c *Config) { c.Server.ShutdownTimeout = 0 }, "server.shutdown_timeout"},
		{"max conns", func(c *Config) { c.Database.MaxConns = 0 }, "database.max_conns"},
		{"auth mode", func(c *Config) { c.Auth.Mode = "oauth" }, "auth.mode"},
		{"header", func(c *Config) { c.Auth.Header = "" }, "auth.header"},
		{"no api keys", func(c *Config) { c.Auth.Mode = AuthModeAPIKey }, "auth.api_keys must not be empty"},
		{"bad api key", func(c *Config) {
			c.Auth.Mode = AuthModeAPIKey
			c.Auth.APIKeys = []auth.APIKey{{Hash: "abc"}}
		}, "auth.api_keys[0].hash"},
		{"burst", func(c *Config) { c.RateLimit.Burst = 0 }, "rate_limit.burst"},
		{"burst ignored when disabled", func(c *Config) {
			c.RateLimit.RequestsPerMinute = -1
			c.RateLimit.Burst = 0
		}, ""},
		{"log level", func(c *Config) { c.Logger.Level = "trace" }, "logger.level"},
		{"log format", func(c *Config) { c.Logger.Format = "xml" }, "logger.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.want == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}
