package api

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/youssefsiam38/meetpg"
)

// Rate limiter defaults.
const (
	DefaultBurst = 20

	// staleAfter is how long an idle caller keeps its bucket.
	staleAfter = 3 * time.Minute
)

// RateLimitConfig configures the per-caller token bucket.
type RateLimitConfig struct {
	RequestsPerMinute int // Sustained requests per caller; 0 disables limiting
	Burst             int // Maximum burst; defaults to DefaultBurst
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiter keeps one token bucket per caller key.
type limiter struct {
	mu        sync.Mutex
	clients   map[string]*client
	limit     rate.Limit
	burst     int
	now       func() time.Time
	lastSweep time.Time
}

// newLimiter returns nil when limiting is disabled.
func newLimiter(cfg RateLimitConfig) *limiter {
	if cfg.RequestsPerMinute <= 0 {
		return nil
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = DefaultBurst
	}
	return &limiter{
		clients: make(map[string]*client),
		// requestsPerMinute spread over 60 seconds
		limit: rate.Limit(cfg.RequestsPerMinute) / 60.0,
		burst: burst,
		now:   time.Now,
	}
}

// allow reports whether key may make a request now.
func (l *limiter) allow(key string) bool {
	now := l.now()

	l.mu.Lock()
	if now.Sub(l.lastSweep) > time.Minute {
		for k, c := range l.clients {
			if now.Sub(c.lastSeen) > staleAfter {
				delete(l.clients, k)
			}
		}
		l.lastSweep = now
	}
	c, ok := l.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now
	lim := c.limiter
	l.mu.Unlock()

	return lim.AllowN(now, 1)
}

// rateLimitMiddleware rejects callers over their budget with TOO_MANY_REQUESTS.
func (rt *router) rateLimitMiddleware(next http.Handler) http.Handler {
	if rt.limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rt.limiter.allow(clientKey(r)) {
			rt.writeError(w, r, &meetpg.Error{Code: meetpg.CodeTooManyRequests, Message: "Rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientKey identifies the caller by user id, or by remote address for
// requests without a session.
func clientKey(r *http.Request) string {
	if s, err := meetpg.SessionFromContextSafely(r.Context()); err == nil {
		return "user:" + s.UserID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
