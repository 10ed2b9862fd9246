package frontend

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/youssefsiam38/meetpg"
)

// renderer handles template rendering.
type renderer struct {
	baseTemplate *template.Template // Base template with layout and shared fragments
	templatesFS  fs.FS              // Embedded filesystem for page templates
	config       *Config
}

// newRenderer creates a new renderer.
func newRenderer(baseTemplate *template.Template, templatesFS fs.FS, cfg *Config) *renderer {
	return &renderer{
		baseTemplate: baseTemplate,
		templatesFS:  templatesFS,
		config:       cfg,
	}
}

// PageData contains common data for all pages.
type PageData struct {
	Title       string
	BasePath    string
	CurrentPath string
	ReadOnly    bool
	User        meetpg.Session
	Flash       *FlashMessage
	Data        any
}

// FlashMessage represents a flash message.
type FlashMessage struct {
	Type    string // "success", "error"
	Message string
}

// notices maps the notice query parameter set after a redirect to its message.
var notices = map[string]FlashMessage{
	"agent-created":   {Type: "success", Message: "Agent created"},
	"agent-updated":   {Type: "success", Message: "Agent updated"},
	"agent-removed":   {Type: "success", Message: "Agent removed"},
	"meeting-created": {Type: "success", Message: "Meeting created"},
	"meeting-updated": {Type: "success", Message: "Meeting updated"},
	"meeting-removed": {Type: "success", Message: "Meeting removed"},
}

// render renders a page template with the given data.
// It clones the base template and parses the page-specific template into it,
// avoiding conflicts between "content" blocks in different pages.
func (r *renderer) render(w http.ResponseWriter, req *http.Request, status int, name, title string, data any) error {
	session, _ := meetpg.SessionFromContextSafely(req.Context())
	pageData := PageData{
		Title:       title,
		BasePath:    r.config.BasePath,
		CurrentPath: req.URL.Path,
		ReadOnly:    r.config.ReadOnly,
		User:        session,
		Data:        data,
	}
	if notice, ok := notices[req.URL.Query().Get("notice")]; ok {
		pageData.Flash = &notice
	}

	// Clone the base template to avoid conflicts between page "content" blocks
	tmpl, err := r.baseTemplate.Clone()
	if err != nil {
		return fmt.Errorf("clone template: %w", err)
	}

	// Parse the page-specific template into the clone
	pageTemplatePath := "templates/" + name
	_, err = tmpl.ParseFS(r.templatesFS, pageTemplatePath)
	if err != nil {
		return fmt.Errorf("parse page template %s: %w", pageTemplatePath, err)
	}

	// Execute into a buffer so a template error can still become a 500
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", pageData); err != nil {
		return fmt.Errorf("execute page template %s: %w", pageTemplatePath, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}

// templateFuncs returns custom template functions.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatTime":    formatTime,
		"formatTimeAgo": formatTimeAgo,
		"truncate":      truncate,
		"statusBgColor": statusBgColor,
		"statusLabel":   statusLabel,
		"markdown":      markdown,
		"add":           add,
		"sub":           sub,
		"dict":          dictFunc,
		"hasPrefix":     strings.HasPrefix,
	}
}

// Template helper functions

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

func formatTimeAgo(t time.Time) string {
	return timeAgo(t, time.Now())
}

func timeAgo(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := now.Sub(t)
	if d < time.Minute {
		return "just now"
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	}
	if d < 24*time.Hour {
		hours := int(d.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	}
	days := int(d.Hours() / 24)
	if days == 1 {
		return "1 day ago"
	}
	return fmt.Sprintf("%d days ago", days)
}

func truncate(n int, s string) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

func statusBgColor(status meetpg.MeetingStatus) string {
	switch status {
	case meetpg.MeetingStatusUpcoming:
		return "status-upcoming"
	case meetpg.MeetingStatusActive:
		return "status-active"
	case meetpg.MeetingStatusCompleted:
		return "status-completed"
	case meetpg.MeetingStatusProcessing:
		return "status-processing"
	case meetpg.MeetingStatusCancelled:
		return "status-cancelled"
	default:
		return "status-unknown"
	}
}

// statusLabel capitalizes a status for display: "upcoming" becomes "Upcoming".
func statusLabel(status meetpg.MeetingStatus) string {
	s := string(status)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func add(a, b int) int {
	return a + b
}

func sub(a, b int) int {
	return a - b
}

// dictFunc creates a map from key-value pairs for use in templates.
// Usage: {{template "foo" (dict "key1" val1 "key2" val2)}}
func dictFunc(values ...any) map[string]any {
	if len(values)%2 != 0 {
		return nil
	}
	dict := make(map[string]any, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			continue
		}
		dict[key] = values[i+1]
	}
	return dict
}
