package frontend

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/youssefsiam38/meetpg"
	"github.com/youssefsiam38/meetpg/ui/service"
)

// Filter query keys shared by the list pages.
const (
	keyPage     = "page"
	keyPageSize = "pageSize"
	keySearch   = "search"
	keyStatus   = "status"
	keyAgentID  = "agentId"
)

// Clear targets accepted by MeetingsFilters.Clear.
const (
	ClearAll    = "all"
	ClearStatus = "status"
	ClearSearch = "search"
	ClearAgent  = "agent"
)

// AgentsFilters is the list state of the agents page, kept in the URL query.
type AgentsFilters struct {
	Page     int
	PageSize int
	Search   string
}

// ParseAgentsFilters reads agents list state from q. Missing or malformed
// values take their defaults and out-of-range values are clamped.
func ParseAgentsFilters(q url.Values) AgentsFilters {
	return AgentsFilters{
		Page:     parsePage(q),
		PageSize: parsePageSize(q),
		Search:   strings.TrimSpace(q.Get(keySearch)),
	}
}

// Encode returns the query for f. Default values are omitted.
func (f AgentsFilters) Encode() url.Values {
	q := url.Values{}
	encodePagination(q, f.Page, f.PageSize)
	if f.Search != "" {
		q.Set(keySearch, f.Search)
	}
	return q
}

// WithPage returns f showing page n.
func (f AgentsFilters) WithPage(n int) AgentsFilters {
	f.Page = max(n, meetpg.DefaultPage)
	return f
}

// WithSearch returns f with a new search term, back on the first page.
func (f AgentsFilters) WithSearch(search string) AgentsFilters {
	f.Search = strings.TrimSpace(search)
	f.Page = meetpg.DefaultPage
	return f
}

// Input converts f into the agents.getMany input.
func (f AgentsFilters) Input() service.AgentsGetManyInput {
	return service.AgentsGetManyInput{Page: f.Page, PageSize: f.PageSize, Search: f.Search}
}

// MeetingsFilters is the list state of the meetings page.
type MeetingsFilters struct {
	Page     int
	PageSize int
	Search   string
	Status   meetpg.MeetingStatus
	AgentID  string
}

// ParseMeetingsFilters reads meetings list state from q. An unknown status
// is treated as unset.
func ParseMeetingsFilters(q url.Values) MeetingsFilters {
	f := MeetingsFilters{
		Page:     parsePage(q),
		PageSize: parsePageSize(q),
		Search:   strings.TrimSpace(q.Get(keySearch)),
		AgentID:  strings.TrimSpace(q.Get(keyAgentID)),
	}
	if s := meetpg.MeetingStatus(q.Get(keyStatus)); s.Valid() {
		f.Status = s
	}
	return f
}

// Encode returns the query for f. Default values are omitted.
func (f MeetingsFilters) Encode() url.Values {
	q := url.Values{}
	encodePagination(q, f.Page, f.PageSize)
	if f.Search != "" {
		q.Set(keySearch, f.Search)
	}
	if f.Status != "" {
		q.Set(keyStatus, string(f.Status))
	}
	if f.AgentID != "" {
		q.Set(keyAgentID, f.AgentID)
	}
	return q
}

// WithPage returns f showing page n.
func (f MeetingsFilters) WithPage(n int) MeetingsFilters {
	f.Page = max(n, meetpg.DefaultPage)
	return f
}

// WithSearch returns f with a new search term, back on the first page.
func (f MeetingsFilters) WithSearch(search string) MeetingsFilters {
	f.Search = strings.TrimSpace(search)
	f.Page = meetpg.DefaultPage
	return f
}

// WithStatus returns f narrowed to status, back on the first page.
func (f MeetingsFilters) WithStatus(status meetpg.MeetingStatus) MeetingsFilters {
	f.Status = status
	f.Page = meetpg.DefaultPage
	return f
}

// WithAgent returns f narrowed to one agent, back on the first page.
func (f MeetingsFilters) WithAgent(agentID string) MeetingsFilters {
	f.AgentID = agentID
	f.Page = meetpg.DefaultPage
	return f
}

// Clear resets the filters named by target (one of the Clear constants)
// and returns to the first page. Page size is kept.
func (f MeetingsFilters) Clear(target string) MeetingsFilters {
	switch target {
	case ClearAll:
		f.Search, f.Status, f.AgentID = "", "", ""
	case ClearStatus:
		f.Status = ""
	case ClearSearch:
		f.Search = ""
	case ClearAgent:
		f.AgentID = ""
	default:
		return f
	}
	f.Page = meetpg.DefaultPage
	return f
}

// ActiveCount returns how many of search, status and agent are set.
func (f MeetingsFilters) ActiveCount() int {
	n := 0
	for _, set := range []bool{f.Search != "", f.Status != "", f.AgentID != ""} {
		if set {
			n++
		}
	}
	return n
}

// Input converts f into the meetings.getMany input.
func (f MeetingsFilters) Input() service.MeetingsGetManyInput {
	return service.MeetingsGetManyInput{
		Page:     f.Page,
		PageSize: f.PageSize,
		Search:   f.Search,
		Status:   string(f.Status),
		AgentID:  f.AgentID,
	}
}

// withQuery appends q to path when it is not empty.
func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

func encodePagination(q url.Values, page, pageSize int) {
	if page > meetpg.DefaultPage {
		q.Set(keyPage, strconv.Itoa(page))
	}
	if pageSize != meetpg.DefaultPageSize && pageSize != 0 {
		q.Set(keyPageSize, strconv.Itoa(pageSize))
	}
}

func parsePage(q url.Values) int {
	return max(parseInt(q, keyPage, meetpg.DefaultPage), meetpg.DefaultPage)
}

func parsePageSize(q url.Values) int {
	n := parseInt(q, keyPageSize, meetpg.DefaultPageSize)
	return min(max(n, meetpg.MinPageSize), meetpg.MaxPageSize)
}

// parseInt parses an integer from a query parameter with a default.
func parseInt(q url.Values, key string, defaultVal int) int {
	val := q.Get(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}
