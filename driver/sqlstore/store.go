// Package sqlstore implements storage.Store on top of a driver.Executor.
//
// Queries are written once with PostgreSQL placeholders and rebound for the
// driver's dialect. Every mutation is a single conditional statement scoped
// by owner, so there is no window between an existence check and the write.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/youssefsiam38/meetpg"
	"github.com/youssefsiam38/meetpg/driver"
	"github.com/youssefsiam38/meetpg/storage"
)

// ExecutorProvider supplies the default executor. Every driver.Driver
// satisfies it.
type ExecutorProvider interface {
	GetExecutor() driver.Executor
}

// Store implements storage.Store.
type Store struct {
	provider ExecutorProvider
	dialect  driver.Dialect
	now      func() time.Time
	newID    func() string
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source for created_at and updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator sets the function generating row ids.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

// New creates a Store. Rows get UUID ids and wall-clock timestamps unless
// overridden by options.
func New(p ExecutorProvider, d driver.Dialect, opts ...Option) *Store {
	s := &Store{
		provider: p,
		dialect:  d,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ storage.Store = (*Store)(nil)

// getExecutor returns the transaction bound to ctx, or the pool executor.
func (s *Store) getExecutor(ctx context.Context) driver.Querier {
	if exec := driver.ExecutorFromContext(ctx); exec != nil {
		return exec
	}
	return s.provider.GetExecutor()
}

// timestamp returns the current time at the precision PostgreSQL keeps.
func (s *Store) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func (s *Store) queryRow(ctx context.Context, query string, args ...any) driver.Row {
	return s.getExecutor(ctx).QueryRow(ctx, s.dialect.Rebind(query), args...)
}

func (s *Store) query(ctx context.Context, query string, args ...any) (driver.Rows, error) {
	return s.getExecutor(ctx).Query(ctx, s.dialect.Rebind(query), args...)
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	var one int
	if err := s.queryRow(ctx, `SELECT 1`).Scan(&one); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// castTime wraps a timestamp placeholder so PostgreSQL can infer its type
// inside INSERT ... SELECT.
func (s *Store) castTime(placeholder string) string {
	if s.dialect == driver.DialectSQLite {
		return placeholder
	}
	return "CAST(" + placeholder + " AS TIMESTAMPTZ)"
}

// timeDest returns a scan destination for a timestamp column.
func (s *Store) timeDest(t *time.Time) any {
	if s.dialect == driver.DialectSQLite {
		return &textTime{t: t}
	}
	return t
}

// textTime scans SQLite TEXT timestamps.
type textTime struct {
	t *time.Time
}

var textTimeLayouts = []string{
	driver.TimeLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
}

// Scan implements sql.Scanner.
func (tt *textTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*tt.t = v.UTC()
		return nil
	case []byte:
		return tt.parse(string(v))
	case string:
		return tt.parse(v)
	case nil:
		*tt.t = time.Time{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into timestamp", src)
	}
}

func (tt *textTime) parse(v string) error {
	for _, layout := range textTimeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			*tt.t = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", v)
}

// filter accumulates AND-ed conditions with numbered placeholders.
type filter struct {
	clauses []string
	args    []any
}

// add appends a condition; %s in clause is replaced by the next placeholder.
func (f *filter) add(clause string, arg any) {
	f.args = append(f.args, arg)
	f.clauses = append(f.clauses, strings.ReplaceAll(clause, "%s", fmt.Sprintf("$%d", len(f.args))))
}

func (f *filter) where() string {
	return "WHERE " + strings.Join(f.clauses, " AND ")
}

// next returns the placeholder after the filter arguments.
func (f *filter) next(offset int) string {
	return fmt.Sprintf("$%d", len(f.args)+offset)
}

// foldName is the value stored in name_lower and compared by search.
func foldName(name string) string {
	return strings.ToLower(name)
}

// searchPattern turns user text into a LIKE pattern matching it as a
// case-insensitive substring. LIKE wildcards in the text match literally.
func searchPattern(search string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(foldName(search)) + "%"
}

// ownedFilter starts a filter on owner and optional name search.
func ownedFilter(alias, userID, search string) *filter {
	f := &filter{}
	f.add(alias+".user_id = %s", userID)
	if search != "" {
		f.add(alias+".name_lower LIKE %s ESCAPE '\\'", searchPattern(search))
	}
	return f
}

func isNoRows(err error) bool {
	return errors.Is(err, driver.ErrNoRows)
}

func statusOf(s string) meetpg.MeetingStatus {
	return meetpg.MeetingStatus(s)
}
