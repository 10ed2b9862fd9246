package frontend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/youssefsiam38/meetpg"
	"github.com/youssefsiam38/meetpg/storage"
	"github.com/youssefsiam38/meetpg/ui/service"
)

// pager holds the pagination links of a list page.
type pager struct {
	Page       int
	TotalPages int
	PrevURL    string // Empty on the first page
	NextURL    string // Empty on the last page
}

func newPager(page, totalPages int, pageURL func(n int) string) pager {
	p := pager{Page: page, TotalPages: totalPages}
	if page > 1 {
		p.PrevURL = pageURL(page - 1)
	}
	if page < totalPages {
		p.NextURL = pageURL(page + 1)
	}
	return p
}

// formError is a failed submission shown next to its field.
type formError struct {
	Field   string
	Message string
}

type agentsListData struct {
	Filters   AgentsFilters
	Page      *service.AgentsPage
	Pager     pager
	PageSizes []int
}

type agentFormData struct {
	Agent        *storage.Agent // Nil on the create form
	Name         string
	Instructions string
	Error        *formError
}

type agentDetailData struct {
	Agent    *storage.Agent
	Meetings *service.MeetingsPage
	Form     agentFormData
}

type meetingsListData struct {
	Filters        MeetingsFilters
	Page           *service.MeetingsPage
	Pager          pager
	Agents         []*storage.Agent
	Statuses       []meetpg.MeetingStatus
	PageSizes      []int
	ActiveFilters  int
	AgentName      string
	ClearAllURL    string
	ClearSearchURL string
	ClearStatusURL string
	ClearAgentURL  string
}

type meetingFormData struct {
	Meeting *storage.Meeting // Nil on the create form
	Name    string
	AgentID string
	Agents  []*storage.Agent
	Error   *formError
}

type errorData struct {
	Status  int
	Code    meetpg.Code
	Message string
}

// path prefixes p with the configured base path.
func (rt *router) path(p string) string {
	return rt.config.BasePath + p
}

// session returns the caller session. A missing session is returned as the
// zero value, which the service rejects with UNAUTHORIZED.
func (rt *router) session(r *http.Request) meetpg.Session {
	s, _ := meetpg.SessionFromContextSafely(r.Context())
	return s
}

// page renders a template, falling back to a plain error on render failure.
func (rt *router) page(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	if err := rt.renderer.render(w, r, status, name, title, data); err != nil {
		rt.logError("failed to render page", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// fail renders the error page for err. Internal failures are logged and
// their cause is not shown.
func (rt *router) fail(w http.ResponseWriter, r *http.Request, err error) {
	e := meetpg.AsError(err)
	data := errorData{Status: e.Code.HTTPStatus(), Code: e.Code, Message: e.Message}
	if e.Code == meetpg.CodeInternal {
		rt.logError("request failed", err)
		data.Message = "Something went wrong"
	}
	rt.page(w, r, data.Status, "error.html", http.StatusText(data.Status), data)
}

// logError logs an error if the logger is configured.
func (rt *router) logError(msg string, err error) {
	if rt.config.Logger != nil {
		rt.config.Logger.Error(msg, "error", err.Error())
	}
}

// rejectReadOnly writes FORBIDDEN and reports true in read-only mode.
func (rt *router) rejectReadOnly(w http.ResponseWriter, r *http.Request) bool {
	if !rt.config.ReadOnly {
		return false
	}
	rt.fail(w, r, meetpg.Forbidden("This dashboard is read-only"))
	return true
}

// submissionError converts a failed submission into a form error, or returns
// nil when err is not tied to user input.
func submissionError(err error) *formError {
	e := meetpg.AsError(err)
	if e.Code != meetpg.CodeBadRequest && e.Field == "" {
		return nil
	}
	return &formError{Field: e.Field, Message: e.Message}
}

func (rt *router) redirect(w http.ResponseWriter, r *http.Request, p, notice string) {
	http.Redirect(w, r, withQuery(rt.path(p), url.Values{"notice": {notice}}), http.StatusSeeOther)
}

// agentOptions returns the caller's agents for select controls.
func (rt *router) agentOptions(ctx context.Context, session meetpg.Session) ([]*storage.Agent, error) {
	page, err := rt.svc.ListAgents(ctx, session, service.AgentsGetManyInput{
		Page:     meetpg.DefaultPage,
		PageSize: meetpg.MaxPageSize,
	})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// Main page handlers

func (rt *router) handleRedirectToMeetings(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, rt.path("/meetings"), http.StatusTemporaryRedirect)
}

// Agent handlers

func (rt *router) handleAgents(w http.ResponseWriter, r *http.Request) {
	filters := ParseAgentsFilters(r.URL.Query())
	page, err := rt.svc.ListAgents(r.Context(), rt.session(r), filters.Input())
	if err != nil {
		rt.fail(w, r, err)
		return
	}

	data := agentsListData{
		Filters: filters,
		Page:    page,
		Pager: newPager(filters.Page, page.TotalPages, func(n int) string {
			return withQuery(rt.path("/agents"), filters.WithPage(n).Encode())
		}),
		PageSizes: pageSizeOptions,
	}
	rt.page(w, r, http.StatusOK, "agents/list.html", "Agents", data)
}

func (rt *router) handleAgentNew(w http.ResponseWriter, r *http.Request) {
	if rt.rejectReadOnly(w, r) {
		return
	}
	rt.page(w, r, http.StatusOK, "agents/new.html", "New agent", agentFormData{})
}

func (rt *router) handleAgentCreate(w http.ResponseWriter, r *http.Request) {
	if rt.rejectReadOnly(w, r) {
		return
	}
	form := agentFormData{
		Name:         r.PostFormValue("name"),
		Instructions: r.PostFormValue("instructions"),
	}

	agent, err := rt.svc.CreateAgent(r.Context(), rt.session(r), service.AgentsInsertInput{
		Name:         form.Name,
		Instructions: form.Instructions,
	})
	if err != nil {
		if form.Error = submissionError(err); form.Error != nil {
			rt.page(w, r, meetpg.AsError(err).Code.HTTPStatus(), "agents/new.html", "New agent", form)
			return
		}
		rt.fail(w, r, err)
		return
	}
	rt.redirect(w, r, "/agents/"+agent.ID, "agent-created")
}

func (rt *router) handleAgentDetail(w http.ResponseWriter, r *http.Request) {
	rt.renderAgentDetail(w, r, http.StatusOK, nil)
}

// renderAgentDetail renders the agent page; form replaces the edit form
// when re-displaying a failed update.
func (rt *router) renderAgentDetail(w http.ResponseWriter, r *http.Request, status int, form *agentFormData) {
	ctx := r.Context()
	session := rt.session(r)

	agent, err := rt.svc.GetAgent(ctx, session, service.IDInput{ID: r.PathValue("id")})
	if err != nil {
		rt.fail(w, r, err)
		return
	}
	meetings, err := rt.svc.ListMeetings(ctx, session, service.MeetingsGetManyInput{AgentID: agent.ID})
	if err != nil {
		rt.fail(w, r, err)
		return
	}

	data := agentDetailData{
		Agent:    agent,
		Meetings: meetings,
		Form:     agentFormData{Agent: agent, Name: agent.Name, Instructions: agent.Instructions},
	}
	if form != nil {
		form.Agent = agent
		data.Form = *form
	}
	rt.page(w, r, status, "agents/detail.html", agent.Name, data)
}

func (rt *router) handleAgentUpdate(w http.ResponseWriter, r *http.Request) {
	if rt.rejectReadOnly(w, r) {
		return
	}
	form := agentFormData{
		Name:         r.PostFormValue("name"),
		Instructions: r.PostFormValue("instructions"),
	}

	agent, err := rt.svc.UpdateAgent(r.Context(), rt.session(r), service.AgentsUpdateInput{
		ID:           r.PathValue("id"),
		Name:         form.Name,
		Instructions: form.Instructions,
	})
	if err != nil {
		if form.Error = submissionError(err); form.Error != nil {
			rt.renderAgentDetail(w, r, meetpg.AsError(err).Code.HTTPStatus(), &form)
			return
		}
		rt.fail(w, r, err)
		return
	}
	rt.redirect(w, r, "/agents/"+agent.ID, "agent-updated")
}

func (rt *router) handleAgentRemove(w http.ResponseWriter, r *http.Request) {
	if rt.rejectReadOnly(w, r) {
		return
	}
	if _, err := rt.svc.RemoveAgent(r.Context(), rt.session(r), service.IDInput{ID: r.PathValue("id")}); err != nil {
		rt.fail(w, r, err)
		return
	}
	rt.redirect(w, r, "/agents", "agent-removed")
}

// Meeting handlers

func (rt *router) handleMeetings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := rt.session(r)

	q := r.URL.Query()
	filters := ParseMeetingsFilters(q)
	if target := q.Get("clear"); target != "" {
		http.Redirect(w, r, withQuery(rt.path("/meetings"), filters.Clear(target).Encode()), http.StatusSeeOther)
		return
	}

	page, err := rt.svc.ListMeetings(ctx, session, filters.Input())
	if err != nil {
		rt.fail(w, r, err)
		return
	}
	agents, err := rt.agentOptions(ctx, session)
	if err != nil {
		rt.fail(w, r, err)
		return
	}

	listURL := func(f MeetingsFilters) string {
		return withQuery(rt.path("/meetings"), f.Encode())
	}
	data := meetingsListData{
		Filters:        filters,
		Page:           page,
		Pager:          newPager(filters.Page, page.TotalPages, func(n int) string { return listURL(filters.WithPage(n)) }),
		Agents:         agents,
		Statuses:       meetpg.MeetingStatuses,
		PageSizes:      pageSizeOptions,
		ActiveFilters:  filters.ActiveCount(),
		ClearAllURL:    listURL(filters.Clear(ClearAll)),
		ClearSearchURL: listURL(filters.Clear(ClearSearch)),
		ClearStatusURL: listURL(filters.Clear(ClearStatus)),
		ClearAgentURL:  listURL(filters.Clear(ClearAgent)),
	}
	for _, a := range agents {
		if a.ID == filters.AgentID {
			data.AgentName = a.Name
		}
	}
	rt.page(w, r, http.StatusOK, "meetings/list.html", "Meetings", data)
}

func (rt *router) handleMeetingNew(w http.ResponseWriter, r *http.Request) {
	if rt.rejectReadOnly(w, r) {
		return
	}
	agents, err := rt.agentOptions(r.Context(), rt.session(r))
	if err != nil {
		rt.fail(w, r, err)
		return
	}
	form := meetingFormData{AgentID: r.URL.Query().Get(keyAgentID), Agents: agents}
	rt.page(w, r, http.StatusOK, "meetings/new.html", "New meeting", form)
}

func (rt *router) handleMeetingCreate(w http.ResponseWriter, r *http.Request) {
	if rt.rejectReadOnly(w, r) {
		return
	}
	ctx := r.Context()
	session := rt.session(r)
	form := meetingFormData{
		Name:    r.PostFormValue("name"),
		AgentID: r.PostFormValue("agentId"),
	}

	meeting, err := rt.svc.CreateMeeting(ctx, session, service.MeetingsInsertInput{
		Name:    form.Name,
		AgentID: form.AgentID,
	})
	if err != nil {
		if form.Error = submissionError(err); form.Error == nil {
			rt.fail(w, r, err)
			return
		}
		status := meetpg.AsError(err).Code.HTTPStatus()
		if form.Agents, err = rt.agentOptions(ctx, session); err != nil {
			rt.fail(w, r, err)
			return
		}
		rt.page(w, r, status, "meetings/new.html", "New meeting", form)
		return
	}
	rt.redirect(w, r, "/meetings/"+meeting.ID, "meeting-created")
}

func (rt *router) handleMeetingDetail(w http.ResponseWriter, r *http.Request) {
	rt.renderMeetingDetail(w, r, http.StatusOK, nil)
}

// renderMeetingDetail renders the meeting page; form replaces the edit form
// when re-displaying a failed update.
func (rt *router) renderMeetingDetail(w http.ResponseWriter, r *http.Request, status int, form *meetingFormData) {
	ctx := r.Context()
	session := rt.session(r)

	meeting, err := rt.svc.GetMeeting(ctx, session, service.IDInput{ID: r.PathValue("id")})
	if err != nil {
		rt.fail(w, r, err)
		return
	}
	agents, err := rt.agentOptions(ctx, session)
	if err != nil {
		rt.fail(w, r, err)
		return
	}

	data := meetingFormData{Meeting: meeting, Name: meeting.Name, AgentID: meeting.AgentID}
	if form != nil {
		data = *form
		data.Meeting = meeting
	}
	data.Agents = agents
	rt.page(w, r, status, "meetings/detail.html", meeting.Name, data)
}

func (rt *router) handleMeetingUpdate(w http.ResponseWriter, r *http.Request) {
	if rt.rejectReadOnly(w, r) {
		return
	}
	form := meetingFormData{
		Name:    r.PostFormValue("name"),
		AgentID: r.PostFormValue("agentId"),
	}

	meeting, err := rt.svc.UpdateMeeting(r.Context(), rt.session(r), service.MeetingsUpdateInput{
		ID:      r.PathValue("id"),
		Name:    form.Name,
		AgentID: form.AgentID,
	})
	if err != nil {
		if form.Error = submissionError(err); form.Error != nil {
			rt.renderMeetingDetail(w, r, meetpg.AsError(err).Code.HTTPStatus(), &form)
			return
		}
		rt.fail(w, r, err)
		return
	}
	rt.redirect(w, r, "/meetings/"+meeting.ID, "meeting-updated")
}

func (rt *router) handleMeetingRemove(w http.ResponseWriter, r *http.Request) {
	if rt.rejectReadOnly(w, r) {
		return
	}
	if _, err := rt.svc.RemoveMeeting(r.Context(), rt.session(r), service.IDInput{ID: r.PathValue("id")}); err != nil {
		rt.fail(w, r, err)
		return
	}
	rt.redirect(w, r, "/meetings", "meeting-removed")
}

// pageSizeOptions lists the page sizes offered by the list pages.
var pageSizeOptions = []int{meetpg.DefaultPageSize, 25, 50, meetpg.MaxPageSize}
