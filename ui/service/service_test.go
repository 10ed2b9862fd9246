package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/youssefsiam38/meetpg"
	"github.com/youssefsiam38/meetpg/driver"
	"github.com/youssefsiam38/meetpg/driver/databasesql"
	"github.com/youssefsiam38/meetpg/internal/storetest"
	"github.com/youssefsiam38/meetpg/internal/testutil"
)

var (
	alice = meetpg.Session{UserID: "alice"}
	bob   = meetpg.Session{UserID: "bob"}
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	clock := testutil.NewClock(storetest.Start)
	drv := databasesql.New(testutil.NewSQLiteDB(t),
		databasesql.WithDialect(driver.DialectSQLite),
		databasesql.WithClock(clock.Now),
	)
	if err := drv.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	return New(drv.GetStore())
}

func requireCode(t *testing.T, err error, code meetpg.Code, message string) {
	t.Helper()
	var e *meetpg.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *meetpg.Error with code %s, got %v", code, err)
	}
	if e.Code != code {
		t.Errorf("code = %s, want %s", e.Code, code)
	}
	if message != "" && e.Message != message {
		t.Errorf("message = %q, want %q", e.Message, message)
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, pageSize, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{15, 10, 2},
		{100, 1, 100},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.pageSize); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.pageSize, got, tt.want)
		}
	}
}

func TestOffset(t *testing.T) {
	if got := Offset(1, 10); got != 0 {
		t.Errorf("Offset(1, 10) = %d, want 0", got)
	}
	if got := Offset(3, 25); got != 50 {
		t.Errorf("Offset(3, 25) = %d, want 50", got)
	}
	if got := Offset(0, 10); got != 0 {
		t.Errorf("Offset(0, 10) = %d, want 0", got)
	}
	if got := Offset(math.MaxInt/5, 10); got != math.MaxInt {
		t.Errorf("Offset(MaxInt/5, 10) = %d, want saturation at MaxInt", got)
	}
}

func TestAgents_PagePastEnd(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"One", "Two", "Three"} {
		if _, err := svc.CreateAgent(ctx, alice, AgentsInsertInput{Name: name, Instructions: "x"}); err != nil {
			t.Fatalf("CreateAgent failed: %v", err)
		}
	}

	for _, p := range []int{2, math.MaxInt32} {
		t.Run(fmt.Sprintf("page %d", p), func(t *testing.T) {
			page, err := svc.ListAgents(ctx, alice, AgentsGetManyInput{Page: p, PageSize: 10})
			if err != nil {
				t.Fatalf("ListAgents failed: %v", err)
			}
			if len(page.Items) != 0 || page.Total != 3 || page.TotalPages != 1 {
				t.Errorf("got items=%d total=%d totalPages=%d, want 0, 3, 1", len(page.Items), page.Total, page.TotalPages)
			}
		})
	}

	_, err := svc.ListAgents(ctx, alice, AgentsGetManyInput{Page: 922337203685477581, PageSize: 10})
	requireCode(t, err, meetpg.CodeBadRequest, "Page must be at most 2147483647")
}

func TestAgents_CreateThenGetOne(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateAgent(ctx, alice, AgentsInsertInput{Name: "Tutor", Instructions: "Help with math"})
	if err != nil {
		t.Fatalf("CreateAgent failed: %v", err)
	}
	if created.UserID != alice.UserID {
		t.Errorf("owner = %q, want %q", created.UserID, alice.UserID)
	}

	got, err := svc.GetAgent(ctx, alice, IDInput{ID: created.ID})
	if err != nil {
		t.Fatalf("GetAgent failed: %v", err)
	}
	if got.Name != "Tutor" || got.Instructions != "Help with math" || got.UserID != alice.UserID {
		t.Errorf("unexpected agent %+v", got)
	}
	if got.MeetingCount != 0 {
		t.Errorf("meetingCount = %d, want 0", got.MeetingCount)
	}
}

func TestAgents_NotFound(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.RemoveAgent(ctx, alice, IDInput{ID: "xyz"})
	requireCode(t, err, meetpg.CodeNotFound, "Agent already removed or not found")

	_, err = svc.UpdateAgent(ctx, alice, AgentsUpdateInput{ID: "xyz", Name: "a", Instructions: "b"})
	requireCode(t, err, meetpg.CodeNotFound, "Agent already removed or not found")

	_, err = svc.GetAgent(ctx, alice, IDInput{ID: "xyz"})
	requireCode(t, err, meetpg.CodeNotFound, "Agent not found")
}

func TestAgents_OwnerScoping(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	agent, err := svc.CreateAgent(ctx, alice, AgentsInsertInput{Name: "Private", Instructions: "x"})
	if err != nil {
		t.Fatalf("CreateAgent failed: %v", err)
	}

	_, err = svc.GetAgent(ctx, bob, IDInput{ID: agent.ID})
	requireCode(t, err, meetpg.CodeNotFound, "Agent not found")

	_, err = svc.UpdateAgent(ctx, bob, AgentsUpdateInput{ID: agent.ID, Name: "Mine now", Instructions: "y"})
	requireCode(t, err, meetpg.CodeNotFound, "Agent already removed or not found")

	_, err = svc.RemoveAgent(ctx, bob, IDInput{ID: agent.ID})
	requireCode(t, err, meetpg.CodeNotFound, "Agent already removed or not found")

	page, err := svc.ListAgents(ctx, bob, AgentsGetManyInput{})
	if err != nil {
		t.Fatalf("ListAgents failed: %v", err)
	}
	if page.Total != 0 || len(page.Items) != 0 {
		t.Errorf("bob should see no agents, got %d", page.Total)
	}

	got, err := svc.GetAgent(ctx, alice, IDInput{ID: agent.ID})
	if err != nil {
		t.Fatalf("GetAgent failed: %v", err)
	}
	if got.Name != "Private" {
		t.Errorf("row altered by another user: %+v", got)
	}
}

func TestAgents_Search(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"Alpha", "beta-Alpha", "Gamma"} {
		if _, err := svc.CreateAgent(ctx, alice, AgentsInsertInput{Name: name, Instructions: "x"}); err != nil {
			t.Fatalf("CreateAgent failed: %v", err)
		}
	}

	page, err := svc.ListAgents(ctx, alice, AgentsGetManyInput{Search: "alpha"})
	if err != nil {
		t.Fatalf("ListAgents failed: %v", err)
	}
	if page.Total != 2 || len(page.Items) != 2 {
		t.Fatalf("expected 2 matches, got total=%d items=%d", page.Total, len(page.Items))
	}
	if page.Items[0].Name != "beta-Alpha" || page.Items[1].Name != "Alpha" {
		t.Errorf("unexpected order %s, %s", page.Items[0].Name, page.Items[1].Name)
	}

	page, err = svc.ListAgents(ctx, alice, AgentsGetManyInput{Search: "  alpha  "})
	if err != nil {
		t.Fatalf("ListAgents failed: %v", err)
	}
	if page.Total != 2 {
		t.Errorf("padded search: total = %d, want 2", page.Total)
	}

	page, err = svc.ListAgents(ctx, alice, AgentsGetManyInput{Search: "   "})
	if err != nil {
		t.Fatalf("ListAgents failed: %v", err)
	}
	if page.Total != 3 {
		t.Errorf("blank search: total = %d, want 3", page.Total)
	}
}

func TestAgents_Validation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		call    func() error
		field   string
		message string
	}{
		{
			name: "create without name",
			call: func() error {
				_, err := svc.CreateAgent(ctx, alice, AgentsInsertInput{Instructions: "x"})
				return err
			},
			field:   "name",
			message: "Name is required",
		},
		{
			name: "create without instructions",
			call: func() error {
				_, err := svc.CreateAgent(ctx, alice, AgentsInsertInput{Name: "x"})
				return err
			},
			field:   "instructions",
			message: "Instructions are required",
		},
		{
			name: "update without id",
			call: func() error {
				_, err := svc.UpdateAgent(ctx, alice, AgentsUpdateInput{Name: "x", Instructions: "y"})
				return err
			},
			field:   "id",
			message: "Id is required",
		},
		{
			name: "page size too large",
			call: func() error {
				_, err := svc.ListAgents(ctx, alice, AgentsGetManyInput{PageSize: meetpg.MaxPageSize + 1})
				return err
			},
			field: "pageSize",
		},
		{
			name: "negative page",
			call: func() error {
				_, err := svc.ListAgents(ctx, alice, AgentsGetManyInput{Page: -1})
				return err
			},
			field: "page",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			requireCode(t, err, meetpg.CodeBadRequest, tt.message)
			var e *meetpg.Error
			if errors.As(err, &e) && e.Field != tt.field {
				t.Errorf("field = %q, want %q", e.Field, tt.field)
			}
		})
	}
}

func TestUnauthorized(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	anon := meetpg.Session{}

	calls := map[string]func() error{
		"agents.create": func() error {
			_, err := svc.CreateAgent(ctx, anon, AgentsInsertInput{Name: "x", Instructions: "y"})
			return err
		},
		"agents.getMany": func() error {
			_, err := svc.ListAgents(ctx, anon, AgentsGetManyInput{})
			return err
		},
		"meetings.getOne": func() error {
			_, err := svc.GetMeeting(ctx, anon, IDInput{ID: "x"})
			return err
		},
		"meetings.remove": func() error {
			_, err := svc.RemoveMeeting(ctx, anon, IDInput{ID: "x"})
			return err
		},
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			requireCode(t, call(), meetpg.CodeUnauthorized, "")
		})
	}
}

func TestMeetings_Pagination(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	agent, err := svc.CreateAgent(ctx, alice, AgentsInsertInput{Name: "Host", Instructions: "x"})
	if err != nil {
		t.Fatalf("CreateAgent failed: %v", err)
	}
	for i := 0; i < 15; i++ {
		if _, err := svc.CreateMeeting(ctx, alice, MeetingsInsertInput{Name: fmt.Sprintf("Meeting %d", i), AgentID: agent.ID}); err != nil {
			t.Fatalf("CreateMeeting failed: %v", err)
		}
	}

	page, err := svc.ListMeetings(ctx, alice, MeetingsGetManyInput{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("ListMeetings failed: %v", err)
	}
	if len(page.Items) != 10 || page.Total != 15 || page.TotalPages != 2 {
		t.Errorf("got items=%d total=%d totalPages=%d, want 10, 15, 2", len(page.Items), page.Total, page.TotalPages)
	}

	page2, err := svc.ListMeetings(ctx, alice, MeetingsGetManyInput{Page: 2, PageSize: 10})
	if err != nil {
		t.Fatalf("ListMeetings page 2 failed: %v", err)
	}
	if len(page2.Items) != 5 || page2.Total != 15 {
		t.Errorf("got items=%d total=%d, want 5, 15", len(page2.Items), page2.Total)
	}

	defaults, err := svc.ListMeetings(ctx, alice, MeetingsGetManyInput{})
	if err != nil {
		t.Fatalf("ListMeetings with defaults failed: %v", err)
	}
	if len(defaults.Items) != meetpg.DefaultPageSize {
		t.Errorf("default page size: got %d items", len(defaults.Items))
	}

	got, err := svc.GetAgent(ctx, alice, IDInput{ID: agent.ID})
	if err != nil {
		t.Fatalf("GetAgent failed: %v", err)
	}
	if got.MeetingCount != 15 {
		t.Errorf("meetingCount = %d, want 15", got.MeetingCount)
	}
}

func TestMeetings_AgentOwnership(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	bobsAgent, err := svc.CreateAgent(ctx, bob, AgentsInsertInput{Name: "Bob's", Instructions: "x"})
	if err != nil {
		t.Fatalf("CreateAgent failed: %v", err)
	}

	_, err = svc.CreateMeeting(ctx, alice, MeetingsInsertInput{Name: "Borrowed", AgentID: bobsAgent.ID})
	requireCode(t, err, meetpg.CodeNotFound, "Agent not found")

	_, err = svc.CreateMeeting(ctx, alice, MeetingsInsertInput{Name: "No agent"})
	requireCode(t, err, meetpg.CodeBadRequest, "Agent is required")

	mine, err := svc.CreateAgent(ctx, alice, AgentsInsertInput{Name: "Alice's", Instructions: "x"})
	if err != nil {
		t.Fatalf("CreateAgent failed: %v", err)
	}
	meeting, err := svc.CreateMeeting(ctx, alice, MeetingsInsertInput{Name: "Kickoff", AgentID: mine.ID})
	if err != nil {
		t.Fatalf("CreateMeeting failed: %v", err)
	}
	if meeting.Status != meetpg.MeetingStatusUpcoming {
		t.Errorf("status = %s, want upcoming", meeting.Status)
	}

	_, err = svc.UpdateMeeting(ctx, alice, MeetingsUpdateInput{ID: meeting.ID, Name: "Kickoff", AgentID: bobsAgent.ID})
	requireCode(t, err, meetpg.CodeNotFound, "Agent not found")

	_, err = svc.UpdateMeeting(ctx, alice, MeetingsUpdateInput{ID: "xyz", Name: "Kickoff", AgentID: mine.ID})
	requireCode(t, err, meetpg.CodeNotFound, "Meeting already removed or not found")

	_, err = svc.GetMeeting(ctx, bob, IDInput{ID: meeting.ID})
	requireCode(t, err, meetpg.CodeNotFound, "Meeting not found")

	removed, err := svc.RemoveMeeting(ctx, alice, IDInput{ID: meeting.ID})
	if err != nil {
		t.Fatalf("RemoveMeeting failed: %v", err)
	}
	if removed.ID != meeting.ID {
		t.Errorf("removed %s, want %s", removed.ID, meeting.ID)
	}
	_, err = svc.RemoveMeeting(ctx, alice, IDInput{ID: meeting.ID})
	requireCode(t, err, meetpg.CodeNotFound, "Meeting already removed or not found")
}

func TestMeetings_Filters(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a1, _ := svc.CreateAgent(ctx, alice, AgentsInsertInput{Name: "One", Instructions: "x"})
	a2, _ := svc.CreateAgent(ctx, alice, AgentsInsertInput{Name: "Two", Instructions: "x"})
	for _, in := range []MeetingsInsertInput{
		{Name: "Weekly sync", AgentID: a1.ID},
		{Name: "weekly review", AgentID: a2.ID},
		{Name: "Retro", AgentID: a2.ID},
	} {
		if _, err := svc.CreateMeeting(ctx, alice, in); err != nil {
			t.Fatalf("CreateMeeting failed: %v", err)
		}
	}

	tests := []struct {
		name  string
		in    MeetingsGetManyInput
		total int
	}{
		{"search", MeetingsGetManyInput{Search: "WEEKLY"}, 2},
		{"agent", MeetingsGetManyInput{AgentID: a2.ID}, 2},
		{"agent and search", MeetingsGetManyInput{AgentID: a2.ID, Search: "retro"}, 1},
		{"status", MeetingsGetManyInput{Status: "upcoming"}, 3},
		{"other status", MeetingsGetManyInput{Status: "completed"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.ListMeetings(ctx, alice, tt.in)
			if err != nil {
				t.Fatalf("ListMeetings failed: %v", err)
			}
			if page.Total != tt.total {
				t.Errorf("total = %d, want %d", page.Total, tt.total)
			}
			if page.Items == nil {
				t.Error("items must never be nil")
			}
		})
	}

	_, err := svc.ListMeetings(ctx, alice, MeetingsGetManyInput{Status: "scheduled"})
	requireCode(t, err, meetpg.CodeBadRequest, "")
}
