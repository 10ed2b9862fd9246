package api

import (
	"net/http"

	"github.com/youssefsiam38/meetpg/schema"
	"github.com/youssefsiam38/meetpg/ui/service"
)

// Config holds API router configuration.
type Config struct {
	// ReadOnly rejects every mutation with FORBIDDEN.
	ReadOnly bool

	// RateLimit throttles requests per caller. A zero RequestsPerMinute
	// disables limiting.
	RateLimit RateLimitConfig

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

// router holds the API router state.
type router struct {
	svc     *service.Service
	config  *Config
	limiter *limiter
}

// NewRouter creates a new API router.
func NewRouter(svc *service.Service, cfg *Config) http.Handler {
	if cfg == nil {
		cfg = &Config{}
	}

	r := &router{
		svc:     svc,
		config:  cfg,
		limiter: newLimiter(cfg.RateLimit),
	}

	mux := http.NewServeMux()

	// Agents
	mux.HandleFunc("POST /agents.create", mutation(r, schema.AgentsInsert, svc.CreateAgent))
	mux.HandleFunc("POST /agents.update", mutation(r, schema.AgentsUpdate, svc.UpdateAgent))
	mux.HandleFunc("POST /agents.remove", mutation(r, schema.IDInput, svc.RemoveAgent))
	mux.HandleFunc("GET /agents.getOne", query(r, schema.IDInput, svc.GetAgent))
	mux.HandleFunc("GET /agents.getMany", query(r, schema.AgentsGetMany, svc.ListAgents))

	// Meetings
	mux.HandleFunc("POST /meetings.create", mutation(r, schema.MeetingsInsert, svc.CreateMeeting))
	mux.HandleFunc("POST /meetings.update", mutation(r, schema.MeetingsUpdate, svc.UpdateMeeting))
	mux.HandleFunc("POST /meetings.remove", mutation(r, schema.IDInput, svc.RemoveMeeting))
	mux.HandleFunc("GET /meetings.getOne", query(r, schema.IDInput, svc.GetMeeting))
	mux.HandleFunc("GET /meetings.getMany", query(r, schema.MeetingsGetMany, svc.ListMeetings))

	mux.HandleFunc("GET /health", r.handleHealth)

	return withMiddleware(mux, r)
}

// withMiddleware wraps the handler with common middleware.
func withMiddleware(handler http.Handler, rt *router) http.Handler {
	handler = rt.rateLimitMiddleware(handler)
	// Add JSON content type
	handler = jsonMiddleware(handler)
	// Add error recovery
	handler = recoveryMiddleware(handler, rt.config.Logger)
	return handler
}

// jsonMiddleware sets JSON content type for all responses.
func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// recoveryMiddleware recovers from panics and returns 500.
func recoveryMiddleware(next http.Handler, logger Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if logger != nil {
					logger.Error("panic recovered", "error", err, "path", r.URL.Path)
				}
				http.Error(w, `{"error":{"code":"INTERNAL_SERVER_ERROR","message":"internal server error"}}`, http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
