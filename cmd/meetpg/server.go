package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/youssefsiam38/meetpg/auth"
	"github.com/youssefsiam38/meetpg/config"
	"github.com/youssefsiam38/meetpg/driver"
	"github.com/youssefsiam38/meetpg/driver/databasesql"
	"github.com/youssefsiam38/meetpg/driver/pgxv5"
	"github.com/youssefsiam38/meetpg/storage"
	"github.com/youssefsiam38/meetpg/ui"
)

// sqlitePragmas are appended to SQLite URLs that set none of their own.
const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// migrator is implemented by every storage driver.
type migrator interface {
	Migrate(ctx context.Context) error
}

// openStore connects to the configured database, applies migrations when
// enabled and returns the store with a function releasing the connection.
func openStore(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (storage.Store, func(), error) {
	var (
		st      storage.Store
		m       migrator
		closeDB func()
	)

	switch cfg.Driver {
	case config.DriverPgx:
		poolCfg, err := pgxpool.ParseConfig(cfg.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse database url: %w", err)
		}
		poolCfg.MaxConns = int32(cfg.MaxConns)
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to ping database: %w", err)
		}
		drv := pgxv5.New(pool)
		st, m, closeDB = drv.GetStore(), drv, pool.Close

	case config.DriverPostgres, config.DriverSQLite:
		drv, db, err := openSQL(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		st, m, closeDB = drv.GetStore(), drv, func() { _ = db.Close() }

	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}

	if cfg.Migrate {
		if err := m.Migrate(ctx); err != nil {
			closeDB()
			return nil, nil, fmt.Errorf("failed to migrate: %w", err)
		}
		logger.Info("migrations applied", "driver", cfg.Driver)
	}
	return st, closeDB, nil
}

func openSQL(ctx context.Context, cfg config.DatabaseConfig) (*databasesql.Driver, *sql.DB, error) {
	name, dsn, dialect := "postgres", cfg.URL, driver.DialectPostgres
	if cfg.Driver == config.DriverSQLite {
		name, dsn, dialect = "sqlite", sqliteDSN(cfg.URL), driver.DialectSQLite
	}

	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxConns)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return databasesql.New(db, databasesql.WithDialect(dialect)), db, nil
}

// sqliteDSN adds the default pragmas to url unless it already carries some.
func sqliteDSN(url string) string {
	if strings.Contains(url, "_pragma=") {
		return url
	}
	if !strings.HasPrefix(url, "file:") {
		url = "file:" + url
	}
	if strings.Contains(url, "?") {
		return url + "&" + sqlitePragmas
	}
	return url + "?" + sqlitePragmas
}

func newAuthenticator(cfg config.AuthConfig) (auth.Authenticator, error) {
	switch cfg.Mode {
	case config.AuthModeHeader:
		return auth.NewHeaderAuthenticator(cfg.Header), nil
	case config.AuthModeAPIKey:
		a, err := auth.NewAPIKeyAuthenticator(cfg.APIKeys)
		if err != nil {
			return nil, fmt.Errorf("failed to configure api keys: %w", err)
		}
		return a, nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Mode)
	}
}

// newHandler mounts the dashboard at the base path and the JSON API under
// its /api prefix, both behind the configured authenticator.
func newHandler(cfg *config.Config, st storage.Store, logger *slog.Logger) (http.Handler, error) {
	authn, err := newAuthenticator(cfg.Auth)
	if err != nil {
		return nil, err
	}

	base := strings.TrimSuffix(cfg.Server.BasePath, "/")
	uiCfg := &ui.Config{
		BasePath:          base,
		ReadOnly:          cfg.UI.ReadOnly,
		Logger:            logger,
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		Burst:             cfg.RateLimit.Burst,
	}

	mux := http.NewServeMux()
	mux.Handle(base+"/api/", http.StripPrefix(base+"/api", ui.APIHandler(st, uiCfg)))
	mux.Handle(base+"/", http.StripPrefix(base, ui.UIHandler(st, uiCfg)))
	if base != "" {
		mux.Handle(base, http.RedirectHandler(base+"/", http.StatusMovedPermanently))
	}

	return auth.Middleware(authn, mux, auth.WithLogger(logger)), nil
}
