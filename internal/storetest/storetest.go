// Package storetest holds the behavioral test suite every storage.Store
// implementation must pass. Driver packages call Run from their tests.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"testing"
	"time"

	"github.com/youssefsiam38/meetpg"
	"github.com/youssefsiam38/meetpg/internal/testutil"
	"github.com/youssefsiam38/meetpg/storage"
)

// Factory returns an empty, migrated store using now as its clock.
type Factory func(t *testing.T, now func() time.Time) storage.Store

// Start is the first timestamp handed out by the suite clock.
var Start = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

// Run executes the suite as subtests of t.
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, store storage.Store, clock *testutil.Clock)
	}{
		{"AgentLifecycle", testAgentLifecycle},
		{"AgentOwnerScoping", testAgentOwnerScoping},
		{"ListAgentsPagination", testListAgentsPagination},
		{"ListAgentsTieBreak", testListAgentsTieBreak},
		{"ListAgentsSearch", testListAgentsSearch},
		{"SearchFoldsUnicode", testSearchFoldsUnicode},
		{"ListOffsetPastEnd", testListOffsetPastEnd},
		{"MeetingCount", testMeetingCount},
		{"MeetingLifecycle", testMeetingLifecycle},
		{"MeetingAgentOwnership", testMeetingAgentOwnership},
		{"ListMeetingsFilters", testListMeetingsFilters},
		{"DeleteAgentCascades", testDeleteAgentCascades},
		{"Ping", testPing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := testutil.NewClock(Start)
			store := newStore(t, clock.Now)
			tt.fn(t, store, clock)
		})
	}
}

func createAgent(t *testing.T, store storage.Store, userID, name string) *storage.Agent {
	t.Helper()
	agent, err := store.CreateAgent(context.Background(), &storage.CreateAgentParams{
		UserID:       userID,
		Name:         name,
		Instructions: "Instructions for " + name,
	})
	if err != nil {
		t.Fatalf("CreateAgent(%q) failed: %v", name, err)
	}
	return agent
}

func createMeeting(t *testing.T, store storage.Store, userID, agentID, name string) *storage.Meeting {
	t.Helper()
	meeting, err := store.CreateMeeting(context.Background(), &storage.CreateMeetingParams{
		UserID:  userID,
		Name:    name,
		AgentID: agentID,
	})
	if err != nil {
		t.Fatalf("CreateMeeting(%q) failed: %v", name, err)
	}
	return meeting
}

func testAgentLifecycle(t *testing.T, store storage.Store, _ *testutil.Clock) {
	ctx := context.Background()

	created, err := store.CreateAgent(ctx, &storage.CreateAgentParams{
		UserID:       "user-1",
		Name:         "Tutor",
		Instructions: "Help with math",
	})
	if err != nil {
		t.Fatalf("CreateAgent failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("Expected non-empty agent ID")
	}
	if created.UserID != "user-1" {
		t.Errorf("Expected owner 'user-1', got '%s'", created.UserID)
	}
	if !created.CreatedAt.Equal(Start) {
		t.Errorf("Expected created_at %v, got %v", Start, created.CreatedAt)
	}

	got, err := store.GetAgent(ctx, created.ID, "user-1")
	if err != nil {
		t.Fatalf("GetAgent failed: %v", err)
	}
	if got.Name != "Tutor" || got.Instructions != "Help with math" {
		t.Errorf("Unexpected agent %+v", got)
	}
	if got.MeetingCount != 0 {
		t.Errorf("Expected meeting count 0, got %d", got.MeetingCount)
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("created_at did not round-trip: %v != %v", got.CreatedAt, created.CreatedAt)
	}

	updated, err := store.UpdateAgent(ctx, &storage.UpdateAgentParams{
		ID:           created.ID,
		UserID:       "user-1",
		Name:         "Math Tutor",
		Instructions: "Help with algebra",
	})
	if err != nil {
		t.Fatalf("UpdateAgent failed: %v", err)
	}
	if updated.Name != "Math Tutor" || updated.Instructions != "Help with algebra" {
		t.Errorf("Unexpected updated agent %+v", updated)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Error("UpdateAgent must not change created_at")
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Errorf("Expected updated_at to advance, got %v after %v", updated.UpdatedAt, created.UpdatedAt)
	}

	removed, err := store.DeleteAgent(ctx, created.ID, "user-1")
	if err != nil {
		t.Fatalf("DeleteAgent failed: %v", err)
	}
	if removed.Name != "Math Tutor" {
		t.Errorf("Expected deleted row to carry prior state, got %+v", removed)
	}

	if _, err := store.GetAgent(ctx, created.ID, "user-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	if _, err := store.DeleteAgent(ctx, created.ID, "user-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
	if _, err := store.UpdateAgent(ctx, &storage.UpdateAgentParams{ID: "xyz", UserID: "user-1", Name: "a", Instructions: "b"}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound updating unknown id, got %v", err)
	}
}

func testAgentOwnerScoping(t *testing.T, store storage.Store, _ *testutil.Clock) {
	ctx := context.Background()
	mine := createAgent(t, store, "user-1", "Mine")
	createAgent(t, store, "user-2", "Theirs")

	if _, err := store.GetAgent(ctx, mine.ID, "user-2"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetAgent by another user: expected ErrNotFound, got %v", err)
	}
	if _, err := store.UpdateAgent(ctx, &storage.UpdateAgentParams{
		ID: mine.ID, UserID: "user-2", Name: "Stolen", Instructions: "x",
	}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("UpdateAgent by another user: expected ErrNotFound, got %v", err)
	}
	if _, err := store.DeleteAgent(ctx, mine.ID, "user-2"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("DeleteAgent by another user: expected ErrNotFound, got %v", err)
	}

	// The row must be untouched.
	got, err := store.GetAgent(ctx, mine.ID, "user-1")
	if err != nil {
		t.Fatalf("GetAgent failed: %v", err)
	}
	if got.Name != "Mine" {
		t.Errorf("Row altered by another user: %+v", got)
	}

	agents, total, err := store.ListAgents(ctx, &storage.ListAgentsParams{UserID: "user-1", Limit: 10})
	if err != nil {
		t.Fatalf("ListAgents failed: %v", err)
	}
	if total != 1 || len(agents) != 1 || agents[0].ID != mine.ID {
		t.Errorf("Expected only own agent, got total=%d items=%v", total, agents)
	}
}

func testListAgentsPagination(t *testing.T, store storage.Store, _ *testutil.Clock) {
	ctx := context.Background()
	var ids []string
	for i := 0; i < 15; i++ {
		ids = append(ids, createAgent(t, store, "user-1", fmt.Sprintf("Agent %02d", i)).ID)
	}

	page1, total, err := store.ListAgents(ctx, &storage.ListAgentsParams{UserID: "user-1", Limit: 10, Offset: 0})
	if err != nil {
		t.Fatalf("ListAgents failed: %v", err)
	}
	if total != 15 {
		t.Errorf("Expected total 15, got %d", total)
	}
	if len(page1) != 10 {
		t.Fatalf("Expected 10 items, got %d", len(page1))
	}
	// Newest first.
	if page1[0].ID != ids[14] || page1[9].ID != ids[5] {
		t.Errorf("Unexpected order: first=%s last=%s", page1[0].Name, page1[9].Name)
	}

	page2, total2, err := store.ListAgents(ctx, &storage.ListAgentsParams{UserID: "user-1", Limit: 10, Offset: 10})
	if err != nil {
		t.Fatalf("ListAgents page 2 failed: %v", err)
	}
	if total2 != total {
		t.Errorf("Total must not depend on the page: %d != %d", total2, total)
	}
	if len(page2) != 5 || page2[4].ID != ids[0] {
		t.Errorf("Unexpected second page: %d items", len(page2))
	}

	empty, _, err := store.ListAgents(ctx, &storage.ListAgentsParams{UserID: "user-1", Limit: 10, Offset: 20})
	if err != nil {
		t.Fatalf("ListAgents past end failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("Expected no items past the end, got %d", len(empty))
	}
}

func testListAgentsTieBreak(t *testing.T, store storage.Store, clock *testutil.Clock) {
	ctx := context.Background()
	clock.Freeze()

	var ids []string
	for i := 0; i < 5; i++ {
		ids = append(ids, createAgent(t, store, "user-1", fmt.Sprintf("Same time %d", i)).ID)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(ids)))

	agents, _, err := store.ListAgents(ctx, &storage.ListAgentsParams{UserID: "user-1", Limit: 10})
	if err != nil {
		t.Fatalf("ListAgents failed: %v", err)
	}
	for i, a := range agents {
		if a.ID != ids[i] {
			t.Fatalf("Position %d: expected id %s, got %s", i, ids[i], a.ID)
		}
	}
}

func testListAgentsSearch(t *testing.T, store storage.Store, _ *testutil.Clock) {
	ctx := context.Background()
	createAgent(t, store, "user-1", "Alpha")
	createAgent(t, store, "user-1", "beta-Alpha")
	createAgent(t, store, "user-1", "Gamma")
	createAgent(t, store, "user-1", "100% done")
	createAgent(t, store, "user-2", "alpha of someone else")

	tests := []struct {
		search string
		want   []string
	}{
		{"alpha", []string{"beta-Alpha", "Alpha"}},
		{"ALPHA", []string{"beta-Alpha", "Alpha"}},
		{"%", []string{"100% done"}},
		{"_", nil},
		{"", []string{"100% done", "Gamma", "beta-Alpha", "Alpha"}},
	}

	for _, tt := range tests {
		agents, total, err := store.ListAgents(ctx, &storage.ListAgentsParams{UserID: "user-1", Search: tt.search, Limit: 10})
		if err != nil {
			t.Fatalf("ListAgents(%q) failed: %v", tt.search, err)
		}
		if total != len(tt.want) {
			t.Errorf("search %q: expected total %d, got %d", tt.search, len(tt.want), total)
		}
		var names []string
		for _, a := range agents {
			names = append(names, a.Name)
		}
		if fmt.Sprint(names) != fmt.Sprint(tt.want) {
			t.Errorf("search %q: expected %v, got %v", tt.search, tt.want, names)
		}
	}
}

func testSearchFoldsUnicode(t *testing.T, store storage.Store, _ *testutil.Clock) {
	ctx := context.Background()
	ecole := createAgent(t, store, "user-1", "ÉCOLE Tutor")
	createAgent(t, store, "user-1", "Plain")
	createMeeting(t, store, "user-1", ecole.ID, "Réunion ÉTÉ")

	agents, total, err := store.ListAgents(ctx, &storage.ListAgentsParams{UserID: "user-1", Search: "école", Limit: 10})
	if err != nil {
		t.Fatalf("ListAgents failed: %v", err)
	}
	if total != 1 || len(agents) != 1 || agents[0].ID != ecole.ID {
		t.Errorf("search école: expected the ÉCOLE agent, got total %d", total)
	}

	meetings, total, err := store.ListMeetings(ctx, &storage.ListMeetingsParams{UserID: "user-1", Search: "été", Limit: 10})
	if err != nil {
		t.Fatalf("ListMeetings failed: %v", err)
	}
	if total != 1 || len(meetings) != 1 {
		t.Errorf("search été: expected 1 meeting, got total %d", total)
	}

	if _, err := store.UpdateAgent(ctx, &storage.UpdateAgentParams{
		ID: ecole.ID, UserID: "user-1", Name: "ÜBER Coach", Instructions: "x",
	}); err != nil {
		t.Fatalf("UpdateAgent failed: %v", err)
	}
	for search, want := range map[string]int{"über": 1, "école": 0} {
		_, total, err := store.ListAgents(ctx, &storage.ListAgentsParams{UserID: "user-1", Search: search, Limit: 10})
		if err != nil {
			t.Fatalf("ListAgents(%q) failed: %v", search, err)
		}
		if total != want {
			t.Errorf("after rename, search %q: expected total %d, got %d", search, want, total)
		}
	}
}

func testListOffsetPastEnd(t *testing.T, store storage.Store, _ *testutil.Clock) {
	ctx := context.Background()
	agent := createAgent(t, store, "user-1", "Only")
	createMeeting(t, store, "user-1", agent.ID, "Only meeting")

	offset := math.MaxInt32 * 100
	agents, total, err := store.ListAgents(ctx, &storage.ListAgentsParams{UserID: "user-1", Limit: 100, Offset: offset})
	if err != nil {
		t.Fatalf("ListAgents failed: %v", err)
	}
	if len(agents) != 0 || total != 1 {
		t.Errorf("ListAgents past end: got %d items, total %d", len(agents), total)
	}

	meetings, total, err := store.ListMeetings(ctx, &storage.ListMeetingsParams{UserID: "user-1", Limit: 100, Offset: offset})
	if err != nil {
		t.Fatalf("ListMeetings failed: %v", err)
	}
	if len(meetings) != 0 || total != 1 {
		t.Errorf("ListMeetings past end: got %d items, total %d", len(meetings), total)
	}
}

func testMeetingCount(t *testing.T, store storage.Store, _ *testutil.Clock) {
	ctx := context.Background()
	busy := createAgent(t, store, "user-1", "Busy")
	idle := createAgent(t, store, "user-1", "Idle")
	for i := 0; i < 3; i++ {
		createMeeting(t, store, "user-1", busy.ID, fmt.Sprintf("Meeting %d", i))
	}

	got, err := store.GetAgent(ctx, busy.ID, "user-1")
	if err != nil {
		t.Fatalf("GetAgent failed: %v", err)
	}
	if got.MeetingCount != 3 {
		t.Errorf("Expected meeting count 3, got %d", got.MeetingCount)
	}

	agents, _, err := store.ListAgents(ctx, &storage.ListAgentsParams{UserID: "user-1", Limit: 10})
	if err != nil {
		t.Fatalf("ListAgents failed: %v", err)
	}
	counts := map[string]int{}
	for _, a := range agents {
		counts[a.ID] = a.MeetingCount
	}
	if counts[busy.ID] != 3 || counts[idle.ID] != 0 {
		t.Errorf("Unexpected counts %v", counts)
	}

	updated, err := store.UpdateAgent(ctx, &storage.UpdateAgentParams{
		ID: busy.ID, UserID: "user-1", Name: "Busy", Instructions: "still busy",
	})
	if err != nil {
		t.Fatalf("UpdateAgent failed: %v", err)
	}
	if updated.MeetingCount != 3 {
		t.Errorf("Expected UpdateAgent to return meeting count 3, got %d", updated.MeetingCount)
	}
}

func testMeetingLifecycle(t *testing.T, store storage.Store, _ *testutil.Clock) {
	ctx := context.Background()
	first := createAgent(t, store, "user-1", "First")
	second := createAgent(t, store, "user-1", "Second")

	created := createMeeting(t, store, "user-1", first.ID, "Kickoff")
	if created.Status != meetpg.MeetingStatusUpcoming {
		t.Errorf("Expected status upcoming, got %s", created.Status)
	}
	if created.UserID != "user-1" || created.AgentID != first.ID {
		t.Errorf("Unexpected meeting %+v", created)
	}
	if created.Agent == nil || created.Agent.Name != "First" {
		t.Errorf("Expected agent summary 'First', got %+v", created.Agent)
	}

	updated, err := store.UpdateMeeting(ctx, &storage.UpdateMeetingParams{
		ID: created.ID, UserID: "user-1", Name: "Kickoff v2", AgentID: second.ID,
	})
	if err != nil {
		t.Fatalf("UpdateMeeting failed: %v", err)
	}
	if updated.Name != "Kickoff v2" || updated.AgentID != second.ID {
		t.Errorf("Unexpected updated meeting %+v", updated)
	}
	if updated.Agent == nil || updated.Agent.Name != "Second" {
		t.Errorf("Expected agent summary 'Second', got %+v", updated.Agent)
	}
	if updated.Status != meetpg.MeetingStatusUpcoming {
		t.Errorf("UpdateMeeting must not change status, got %s", updated.Status)
	}

	got, err := store.GetMeeting(ctx, created.ID, "user-1")
	if err != nil {
		t.Fatalf("GetMeeting failed: %v", err)
	}
	if got.Name != "Kickoff v2" || !got.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("Unexpected meeting %+v", got)
	}

	if _, err := store.GetMeeting(ctx, created.ID, "user-2"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetMeeting by another user: expected ErrNotFound, got %v", err)
	}
	if _, err := store.DeleteMeeting(ctx, created.ID, "user-2"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("DeleteMeeting by another user: expected ErrNotFound, got %v", err)
	}

	removed, err := store.DeleteMeeting(ctx, created.ID, "user-1")
	if err != nil {
		t.Fatalf("DeleteMeeting failed: %v", err)
	}
	if removed.ID != created.ID {
		t.Errorf("Expected deleted meeting %s, got %s", created.ID, removed.ID)
	}
	if _, err := store.GetMeeting(ctx, created.ID, "user-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

func testMeetingAgentOwnership(t *testing.T, store storage.Store, _ *testutil.Clock) {
	ctx := context.Background()
	mine := createAgent(t, store, "user-1", "Mine")
	theirs := createAgent(t, store, "user-2", "Theirs")

	if _, err := store.CreateMeeting(ctx, &storage.CreateMeetingParams{
		UserID: "user-1", Name: "Sneaky", AgentID: theirs.ID,
	}); !errors.Is(err, storage.ErrAgentNotFound) {
		t.Errorf("CreateMeeting with another user's agent: expected ErrAgentNotFound, got %v", err)
	}
	if _, err := store.CreateMeeting(ctx, &storage.CreateMeetingParams{
		UserID: "user-1", Name: "Ghost", AgentID: "does-not-exist",
	}); !errors.Is(err, storage.ErrAgentNotFound) {
		t.Errorf("CreateMeeting with unknown agent: expected ErrAgentNotFound, got %v", err)
	}

	meeting := createMeeting(t, store, "user-1", mine.ID, "Standup")

	if _, err := store.UpdateMeeting(ctx, &storage.UpdateMeetingParams{
		ID: meeting.ID, UserID: "user-1", Name: "Standup", AgentID: theirs.ID,
	}); !errors.Is(err, storage.ErrAgentNotFound) {
		t.Errorf("UpdateMeeting to another user's agent: expected ErrAgentNotFound, got %v", err)
	}
	if _, err := store.UpdateMeeting(ctx, &storage.UpdateMeetingParams{
		ID: "xyz", UserID: "user-1", Name: "Standup", AgentID: mine.ID,
	}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("UpdateMeeting unknown id: expected ErrNotFound, got %v", err)
	}
	if _, err := store.UpdateMeeting(ctx, &storage.UpdateMeetingParams{
		ID: meeting.ID, UserID: "user-2", Name: "Standup", AgentID: theirs.ID,
	}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("UpdateMeeting by another user: expected ErrNotFound, got %v", err)
	}

	got, err := store.GetMeeting(ctx, meeting.ID, "user-1")
	if err != nil {
		t.Fatalf("GetMeeting failed: %v", err)
	}
	if got.AgentID != mine.ID {
		t.Errorf("Failed updates must not alter the row, agent is %s", got.AgentID)
	}
}

func testListMeetingsFilters(t *testing.T, store storage.Store, _ *testutil.Clock) {
	ctx := context.Background()
	a1 := createAgent(t, store, "user-1", "Agent One")
	a2 := createAgent(t, store, "user-1", "Agent Two")
	createMeeting(t, store, "user-1", a1.ID, "Weekly sync")
	createMeeting(t, store, "user-1", a1.ID, "Daily standup")
	createMeeting(t, store, "user-1", a2.ID, "weekly review")
	other := createAgent(t, store, "user-2", "Other")
	createMeeting(t, store, "user-2", other.ID, "Weekly other")

	tests := []struct {
		name   string
		params storage.ListMeetingsParams
		want   []string
	}{
		{"all", storage.ListMeetingsParams{}, []string{"weekly review", "Daily standup", "Weekly sync"}},
		{"search", storage.ListMeetingsParams{Search: "WEEKLY"}, []string{"weekly review", "Weekly sync"}},
		{"agent", storage.ListMeetingsParams{AgentID: a1.ID}, []string{"Daily standup", "Weekly sync"}},
		{"agent and search", storage.ListMeetingsParams{AgentID: a2.ID, Search: "weekly"}, []string{"weekly review"}},
		{"status upcoming", storage.ListMeetingsParams{Status: meetpg.MeetingStatusUpcoming}, []string{"weekly review", "Daily standup", "Weekly sync"}},
		{"status active", storage.ListMeetingsParams{Status: meetpg.MeetingStatusActive}, nil},
		{"foreign agent", storage.ListMeetingsParams{AgentID: other.ID}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := tt.params
			params.UserID = "user-1"
			params.Limit = 10
			meetings, total, err := store.ListMeetings(ctx, &params)
			if err != nil {
				t.Fatalf("ListMeetings failed: %v", err)
			}
			if total != len(tt.want) {
				t.Errorf("Expected total %d, got %d", len(tt.want), total)
			}
			var names []string
			for _, m := range meetings {
				names = append(names, m.Name)
				if m.Agent == nil || m.Agent.ID != m.AgentID {
					t.Errorf("Meeting %s missing agent summary", m.Name)
				}
			}
			if fmt.Sprint(names) != fmt.Sprint(tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, names)
			}
		})
	}
}

func testDeleteAgentCascades(t *testing.T, store storage.Store, _ *testutil.Clock) {
	ctx := context.Background()
	agent := createAgent(t, store, "user-1", "Doomed")
	meeting := createMeeting(t, store, "user-1", agent.ID, "Orphan")

	if _, err := store.DeleteAgent(ctx, agent.ID, "user-1"); err != nil {
		t.Fatalf("DeleteAgent failed: %v", err)
	}
	if _, err := store.GetMeeting(ctx, meeting.ID, "user-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected meeting to be removed with its agent, got %v", err)
	}
}

func testPing(t *testing.T, store storage.Store, _ *testutil.Clock) {
	if err := store.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}
