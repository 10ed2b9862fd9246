package sqlstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/youssefsiam38/meetpg/driver"
	"github.com/youssefsiam38/meetpg/driver/databasesql"
	"github.com/youssefsiam38/meetpg/driver/sqlstore"
	"github.com/youssefsiam38/meetpg/internal/storetest"
	"github.com/youssefsiam38/meetpg/internal/testutil"
	"github.com/youssefsiam38/meetpg/storage"
)

func TestStore_SQLite(t *testing.T) {
	storetest.Run(t, func(t *testing.T, now func() time.Time) storage.Store {
		drv := databasesql.New(testutil.NewSQLiteDB(t), databasesql.WithDialect(driver.DialectSQLite))
		if err := drv.Migrate(context.Background()); err != nil {
			t.Fatalf("Migrate failed: %v", err)
		}
		return sqlstore.New(drv, driver.DialectSQLite, sqlstore.WithClock(now))
	})
}

func TestStore_WithIDGenerator(t *testing.T) {
	drv := databasesql.New(testutil.NewSQLiteDB(t), databasesql.WithDialect(driver.DialectSQLite))
	ctx := context.Background()
	if err := drv.Migrate(ctx); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}

	n := 0
	store := sqlstore.New(drv, driver.DialectSQLite, sqlstore.WithIDGenerator(func() string {
		n++
		return "id-" + string(rune('a'+n-1))
	}))

	agent, err := store.CreateAgent(ctx, &storage.CreateAgentParams{UserID: "u", Name: "n", Instructions: "i"})
	if err != nil {
		t.Fatalf("CreateAgent failed: %v", err)
	}
	if agent.ID != "id-a" {
		t.Errorf("Expected id 'id-a', got '%s'", agent.ID)
	}

	meeting, err := store.CreateMeeting(ctx, &storage.CreateMeetingParams{UserID: "u", Name: "m", AgentID: agent.ID})
	if err != nil {
		t.Fatalf("CreateMeeting failed: %v", err)
	}
	if meeting.ID != "id-b" {
		t.Errorf("Expected id 'id-b', got '%s'", meeting.ID)
	}
}
