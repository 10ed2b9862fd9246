package frontend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/youssefsiam38/meetpg"
	"github.com/youssefsiam38/meetpg/driver"
	"github.com/youssefsiam38/meetpg/driver/databasesql"
	"github.com/youssefsiam38/meetpg/internal/storetest"
	"github.com/youssefsiam38/meetpg/internal/testutil"
	"github.com/youssefsiam38/meetpg/storage"
	"github.com/youssefsiam38/meetpg/ui/service"
)

var alice = meetpg.Session{UserID: "alice", Name: "Alice"}

type fixture struct {
	handler http.Handler
	svc     *service.Service
}

func newFixture(t *testing.T, cfg *Config) *fixture {
	t.Helper()
	clock := testutil.NewClock(storetest.Start)
	drv := databasesql.New(testutil.NewSQLiteDB(t),
		databasesql.WithDialect(driver.DialectSQLite),
		databasesql.WithClock(clock.Now),
	)
	if err := drv.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	svc := service.New(drv.GetStore())
	return &fixture{handler: NewRouter(svc, cfg), svc: svc}
}

func (f *fixture) get(t *testing.T, session *meetpg.Session, target string) *httptest.ResponseRecorder {
	t.Helper()
	return f.serve(session, httptest.NewRequest(http.MethodGet, target, nil))
}

func (f *fixture) post(t *testing.T, session *meetpg.Session, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return f.serve(session, req)
}

func (f *fixture) serve(session *meetpg.Session, req *http.Request) *httptest.ResponseRecorder {
	if session != nil {
		req = req.WithContext(meetpg.WithSession(req.Context(), *session))
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) createAgent(t *testing.T, name string) *storage.Agent {
	t.Helper()
	agent, err := f.svc.CreateAgent(context.Background(), alice, service.AgentsInsertInput{Name: name, Instructions: "Be **helpful**"})
	if err != nil {
		t.Fatalf("CreateAgent: %v", err)
	}
	return agent
}

func requireBody(t *testing.T, rec *httptest.ResponseRecorder, wantStatus int, substrings ...string) {
	t.Helper()
	if rec.Code != wantStatus {
		t.Fatalf("status = %d, want %d; body:\n%s", rec.Code, wantStatus, rec.Body.String())
	}
	body := rec.Body.String()
	for _, s := range substrings {
		if !strings.Contains(body, s) {
			t.Errorf("body does not contain %q", s)
		}
	}
}

func TestAgentsPages(t *testing.T) {
	f := newFixture(t, nil)

	requireBody(t, f.get(t, &alice, "/agents"), http.StatusOK, "Create your first agent")

	rec := f.post(t, &alice, "/agents", url.Values{"name": {"Tutor"}, "instructions": {"Teach **math**"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("create: status = %d, want 303", rec.Code)
	}
	location := rec.Header().Get("Location")
	if !strings.HasPrefix(location, "/agents/") || !strings.Contains(location, "notice=agent-created") {
		t.Fatalf("create: unexpected redirect %q", location)
	}

	detail := strings.SplitN(location, "?", 2)[0]
	requireBody(t, f.get(t, &alice, location), http.StatusOK, "Tutor", "<strong>math</strong>", "Agent created", "0 meetings")

	requireBody(t, f.get(t, &alice, "/agents?search=TUT"), http.StatusOK, "Tutor", "1 total")
	requireBody(t, f.get(t, &alice, "/agents?search=zzz"), http.StatusOK, `No agents match "zzz"`)

	rec = f.post(t, &alice, detail, url.Values{"name": {"Coach"}, "instructions": {"Teach chess"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("update: status = %d, want 303", rec.Code)
	}
	requireBody(t, f.get(t, &alice, detail), http.StatusOK, "Coach", "Teach chess")

	rec = f.post(t, &alice, detail+"/remove", nil)
	if rec.Code != http.StatusSeeOther || !strings.Contains(rec.Header().Get("Location"), "agent-removed") {
		t.Fatalf("remove: got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	requireBody(t, f.get(t, &alice, detail), http.StatusNotFound, "Agent not found")
	requireBody(t, f.post(t, &alice, detail+"/remove", nil), http.StatusNotFound, "Agent already removed or not found")
}

func TestAgentForm_ValidationErrors(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.post(t, &alice, "/agents", url.Values{"name": {""}, "instructions": {"x"}})
	requireBody(t, rec, http.StatusBadRequest, "Name is required")

	rec = f.post(t, &alice, "/agents", url.Values{"name": {"Kept name"}, "instructions": {"  "}})
	requireBody(t, rec, http.StatusBadRequest, "Instructions are required", `value="Kept name"`)

	agent := f.createAgent(t, "Tutor")
	rec = f.post(t, &alice, "/agents/"+agent.ID, url.Values{"name": {""}, "instructions": {"x"}})
	requireBody(t, rec, http.StatusBadRequest, "Name is required")
}

func TestMeetingsPages(t *testing.T) {
	f := newFixture(t, nil)

	requireBody(t, f.get(t, &alice, "/meetings/new"), http.StatusOK, "Create an agent first")

	agent := f.createAgent(t, "Tutor")
	requireBody(t, f.get(t, &alice, "/meetings/new?agentId="+agent.ID), http.StatusOK, "Tutor")

	rec := f.post(t, &alice, "/meetings", url.Values{"name": {"Standup"}, "agentId": {agent.ID}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("create: status = %d, want 303; body:\n%s", rec.Code, rec.Body.String())
	}
	location := rec.Header().Get("Location")
	detail := strings.SplitN(location, "?", 2)[0]
	requireBody(t, f.get(t, &alice, location), http.StatusOK, "Standup", "Upcoming", "Meeting created")

	requireBody(t, f.get(t, &alice, "/meetings"), http.StatusOK, "Standup", "1 total")
	requireBody(t, f.get(t, &alice, "/meetings?status=upcoming&agentId="+agent.ID), http.StatusOK, "Standup", "Agent: Tutor", "Clear all")
	requireBody(t, f.get(t, &alice, "/meetings?status=completed"), http.StatusOK, "No meetings match the current filters.")
	requireBody(t, f.get(t, &alice, "/agents/"+agent.ID), http.StatusOK, "1 meeting", "Standup")

	rec = f.post(t, &alice, "/meetings", url.Values{"name": {"Orphan"}, "agentId": {"missing"}})
	requireBody(t, rec, http.StatusNotFound, "Agent not found")

	rec = f.post(t, &alice, "/meetings", url.Values{"name": {"No agent"}})
	requireBody(t, rec, http.StatusBadRequest, "Agent is required")

	rec = f.post(t, &alice, detail, url.Values{"name": {"Retro"}, "agentId": {agent.ID}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("update: status = %d, want 303", rec.Code)
	}
	requireBody(t, f.get(t, &alice, detail), http.StatusOK, "Retro")

	rec = f.post(t, &alice, detail+"/remove", nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("remove: status = %d, want 303", rec.Code)
	}
	requireBody(t, f.get(t, &alice, detail), http.StatusNotFound, "Meeting not found")
}

func TestMeetings_ClearRedirect(t *testing.T) {
	f := newFixture(t, nil)
	const state = "/meetings?status=active&search=x&agentId=a1&pageSize=25&page=3"

	tests := []struct {
		clear string
		want  string
	}{
		{"all", "/meetings?pageSize=25"},
		{"status", "/meetings?agentId=a1&pageSize=25&search=x"},
		{"search", "/meetings?agentId=a1&pageSize=25&status=active"},
		{"agent", "/meetings?pageSize=25&search=x&status=active"},
	}

	for _, tt := range tests {
		t.Run(tt.clear, func(t *testing.T) {
			rec := f.get(t, &alice, state+"&clear="+tt.clear)
			if rec.Code != http.StatusSeeOther {
				t.Fatalf("status = %d, want 303", rec.Code)
			}
			if got := rec.Header().Get("Location"); got != tt.want {
				t.Errorf("Location = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPagination(t *testing.T) {
	f := newFixture(t, nil)
	for i := 0; i < 15; i++ {
		f.createAgent(t, "Agent")
	}

	requireBody(t, f.get(t, &alice, "/agents"), http.StatusOK, "Page 1 of 2", `href="/agents?page=2"`, "15 total")
	requireBody(t, f.get(t, &alice, "/agents?page=2"), http.StatusOK, "Page 2 of 2", `href="/agents"`)
}

func TestReadOnly(t *testing.T) {
	f := newFixture(t, &Config{ReadOnly: true})
	agent := f.createAgent(t, "Tutor")

	rec := f.get(t, &alice, "/agents/"+agent.ID)
	requireBody(t, rec, http.StatusOK, "Tutor")
	if strings.Contains(rec.Body.String(), "Edit agent") {
		t.Error("read-only page should not render the edit form")
	}
	requireBody(t, f.get(t, &alice, "/agents/new"), http.StatusForbidden)
	requireBody(t, f.post(t, &alice, "/agents", url.Values{"name": {"A"}, "instructions": {"x"}}), http.StatusForbidden)
	requireBody(t, f.post(t, &alice, "/agents/"+agent.ID+"/remove", nil), http.StatusForbidden)
}

func TestUnauthorized(t *testing.T) {
	f := newFixture(t, nil)
	requireBody(t, f.get(t, nil, "/agents"), http.StatusUnauthorized, "Unauthorized")
	requireBody(t, f.get(t, nil, "/meetings"), http.StatusUnauthorized)
}

func TestBasePath(t *testing.T) {
	f := newFixture(t, &Config{BasePath: "/ui"})

	rec := f.get(t, &alice, "/")
	if rec.Code != http.StatusTemporaryRedirect || rec.Header().Get("Location") != "/ui/meetings" {
		t.Errorf("root: got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	requireBody(t, f.get(t, &alice, "/agents"), http.StatusOK, `href="/ui/static/app.css"`, `href="/ui/agents/new"`)
}

func TestStatic(t *testing.T) {
	f := newFixture(t, nil)
	requireBody(t, f.get(t, nil, "/static/app.css"), http.StatusOK, ".status-upcoming")
}

func TestMarkdown(t *testing.T) {
	got := string(markdown("# Title\n\n<script>alert(1)</script>\n\n[link](javascript:alert(1))"))
	if !strings.Contains(got, "<h1") || !strings.Contains(got, "Title") {
		t.Errorf("heading not rendered: %s", got)
	}
	if strings.Contains(got, "<script>") || strings.Contains(got, "javascript:") {
		t.Errorf("unsafe markup not removed: %s", got)
	}
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		t    time.Time
		want string
	}{
		{time.Time{}, "-"},
		{now.Add(-30 * time.Second), "just now"},
		{now.Add(-time.Minute), "1 minute ago"},
		{now.Add(-5 * time.Minute), "5 minutes ago"},
		{now.Add(-time.Hour), "1 hour ago"},
		{now.Add(-3 * time.Hour), "3 hours ago"},
		{now.Add(-24 * time.Hour), "1 day ago"},
		{now.Add(-72 * time.Hour), "3 days ago"},
	}
	for _, tt := range tests {
		if got := timeAgo(tt.t, now); got != tt.want {
			t.Errorf("timeAgo(%v) = %q, want %q", tt.t, got, tt.want)
		}
	}
}

func TestTemplateHelpers(t *testing.T) {
	if got := truncate(5, "meetings"); got != "me..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate(10, "short"); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := statusLabel(meetpg.MeetingStatusProcessing); got != "Processing" {
		t.Errorf("statusLabel = %q", got)
	}
	if got := statusBgColor("bogus"); got != "status-unknown" {
		t.Errorf("statusBgColor = %q", got)
	}
	if d := dictFunc("a", 1, "b"); d != nil {
		t.Errorf("odd dict should be nil, got %v", d)
	}
}

func TestRecoverPanics(t *testing.T) {
	rt := newRouter(nil, &Config{})
	h := rt.recoverPanics(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/agents", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Something went wrong") || strings.Contains(body, "boom") {
		t.Errorf("body should hide the panic value: %s", body)
	}
}
