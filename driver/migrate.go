package driver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/youssefsiam38/meetpg"
)

// Migration is one versioned schema change.
type Migration struct {
	Version    int
	Name       string
	Statements []string
}

// Migrations returns the schema migrations for the dialect, in order.
func Migrations(d Dialect) []Migration {
	ts := d.timestampType()
	statuses := make([]string, len(meetpg.MeetingStatuses))
	for i, s := range meetpg.MeetingStatuses {
		statuses[i] = "'" + string(s) + "'"
	}

	return []Migration{
		{
			Version: 1,
			Name:    "agents",
			Statements: []string{
				`CREATE TABLE IF NOT EXISTS agents (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	instructions TEXT NOT NULL,
	user_id      TEXT NOT NULL,
	created_at   ` + ts + ` NOT NULL,
	updated_at   ` + ts + ` NOT NULL
)`,
				`CREATE INDEX IF NOT EXISTS agents_user_created_idx ON agents (user_id, created_at DESC, id DESC)`,
			},
		},
		{
			Version: 2,
			Name:    "meetings",
			Statements: []string{
				`CREATE TABLE IF NOT EXISTS meetings (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	agent_id   TEXT NOT NULL REFERENCES agents (id) ON DELETE CASCADE,
	user_id    TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT '` + string(meetpg.MeetingStatusUpcoming) + `'
	           CHECK (status IN (` + strings.Join(statuses, ", ") + `)),
	created_at ` + ts + ` NOT NULL,
	updated_at ` + ts + ` NOT NULL
)`,
				`CREATE INDEX IF NOT EXISTS meetings_user_created_idx ON meetings (user_id, created_at DESC, id DESC)`,
				`CREATE INDEX IF NOT EXISTS meetings_agent_idx ON meetings (agent_id)`,
			},
		},
		{
			// name_lower holds strings.ToLower(name) and is written by the
			// store. The backfill uses SQL LOWER, which folds only ASCII on SQLite.
			Version: 3,
			Name:    "name_lower",
			Statements: []string{
				`ALTER TABLE agents ADD COLUMN name_lower TEXT NOT NULL DEFAULT ''`,
				`UPDATE agents SET name_lower = LOWER(name)`,
				`ALTER TABLE meetings ADD COLUMN name_lower TEXT NOT NULL DEFAULT ''`,
				`UPDATE meetings SET name_lower = LOWER(name)`,
			},
		},
	}
}

// Migrate applies every migration of the dialect that is not yet recorded
// in meetpg_schema_version. Each migration runs in its own transaction.
func Migrate(ctx context.Context, exec Executor, d Dialect) error {
	if _, err := exec.Exec(ctx, `CREATE TABLE IF NOT EXISTS meetpg_schema_version (
	version    INTEGER PRIMARY KEY,
	name       TEXT NOT NULL,
	applied_at `+d.timestampType()+` NOT NULL
)`); err != nil {
		return fmt.Errorf("failed to ensure schema version table: %w", err)
	}

	for _, m := range Migrations(d) {
		applied, err := migrationApplied(ctx, exec, d, m.Version)
		if err != nil {
			return fmt.Errorf("failed to check migration %d: %w", m.Version, err)
		}
		if applied {
			continue
		}
		if err := applyMigration(ctx, exec, d, m); err != nil {
			return fmt.Errorf("failed to apply migration %d (%s): %w", m.Version, m.Name, err)
		}
	}
	return nil
}

// SchemaVersion returns the highest applied migration version, or 0.
func SchemaVersion(ctx context.Context, exec Executor) (int, error) {
	var version int
	err := exec.QueryRow(ctx, `SELECT COALESCE(MAX(version), 0) FROM meetpg_schema_version`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

func migrationApplied(ctx context.Context, exec Executor, d Dialect, version int) (bool, error) {
	var count int
	err := exec.QueryRow(ctx,
		d.Rebind(`SELECT COUNT(1) FROM meetpg_schema_version WHERE version = $1`),
		version,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func applyMigration(ctx context.Context, exec Executor, d Dialect, m Migration) error {
	tx, err := exec.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, stmt := range m.Statements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(ctx,
		d.Rebind(`INSERT INTO meetpg_schema_version (version, name, applied_at) VALUES ($1, $2, $3)`),
		m.Version, m.Name, d.Time(time.Now()),
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
