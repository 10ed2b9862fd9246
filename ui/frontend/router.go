package frontend

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/youssefsiam38/meetpg"
	"github.com/youssefsiam38/meetpg/ui/service"
)

//go:embed templates/*
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Config holds frontend router configuration.
type Config struct {
	// BasePath is the URL prefix where the UI is mounted.
	// All navigation links will be prefixed with this path.
	BasePath string

	// ReadOnly hides create, edit and remove forms and rejects their submissions.
	ReadOnly bool

	// Logger for structured logging.
	Logger Logger
}

// Logger interface for structured logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// router holds the frontend router state.
type router struct {
	svc      *service.Service
	config   *Config
	renderer *renderer
}

// NewRouter creates a new frontend router.
func NewRouter(svc *service.Service, cfg *Config) http.Handler {
	return newRouter(svc, cfg).routes()
}

func newRouter(svc *service.Service, cfg *Config) *router {
	if cfg == nil {
		cfg = &Config{}
	}

	// Parse base templates (layout and shared fragments).
	// Page-specific templates are parsed dynamically by the renderer
	// to avoid conflicts between "content" blocks in different pages.
	baseTmpl := template.Must(template.New("").
		Funcs(templateFuncs()).
		ParseFS(templatesFS,
			"templates/base.html",
			"templates/fragments/*.html",
		))

	return &router{
		svc:      svc,
		config:   cfg,
		renderer: newRenderer(baseTmpl, templatesFS, cfg),
	}
}

func (rt *router) routes() http.Handler {
	mux := http.NewServeMux()

	// Static assets
	staticSub, _ := fs.Sub(staticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	mux.HandleFunc("GET /{$}", rt.handleRedirectToMeetings)

	// Agents
	mux.HandleFunc("GET /agents", rt.handleAgents)
	mux.HandleFunc("GET /agents/new", rt.handleAgentNew)
	mux.HandleFunc("POST /agents", rt.handleAgentCreate)
	mux.HandleFunc("GET /agents/{id}", rt.handleAgentDetail)
	mux.HandleFunc("POST /agents/{id}", rt.handleAgentUpdate)
	mux.HandleFunc("POST /agents/{id}/remove", rt.handleAgentRemove)

	// Meetings
	mux.HandleFunc("GET /meetings", rt.handleMeetings)
	mux.HandleFunc("GET /meetings/new", rt.handleMeetingNew)
	mux.HandleFunc("POST /meetings", rt.handleMeetingCreate)
	mux.HandleFunc("GET /meetings/{id}", rt.handleMeetingDetail)
	mux.HandleFunc("POST /meetings/{id}", rt.handleMeetingUpdate)
	mux.HandleFunc("POST /meetings/{id}/remove", rt.handleMeetingRemove)

	return rt.recoverPanics(mux)
}

// recoverPanics turns a handler panic into the 500 error page.
func (rt *router) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				rt.fail(w, r, meetpg.Internal(fmt.Errorf("panic in %s %s: %v", r.Method, r.URL.Path, v)))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
