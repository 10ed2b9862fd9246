// Package auth attaches the caller identity to incoming requests.
//
// meetpg does not run a login flow. An Authenticator reads an identity
// established elsewhere (a trusted reverse proxy header or a pre-shared API
// key) and Middleware stores it with meetpg.WithSession. Requests without a
// valid identity pass through without a session; the procedures then answer
// UNAUTHORIZED.
package auth

import (
	"errors"
	"net/http"

	"github.com/youssefsiam38/meetpg"
)

var (
	// ErrNoCredentials indicates a request that carries no identity.
	ErrNoCredentials = errors.New("auth: no credentials")

	// ErrInvalidCredentials indicates credentials that do not match any user.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
)

// Authenticator resolves the caller of a request.
type Authenticator interface {
	Authenticate(r *http.Request) (meetpg.Session, error)
}

// Logger interface for structured logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// MiddlewareOption configures Middleware.
type MiddlewareOption func(*middleware)

// WithLogger logs rejected credentials.
func WithLogger(l Logger) MiddlewareOption {
	return func(m *middleware) {
		m.logger = l
	}
}

type middleware struct {
	authn  Authenticator
	logger Logger
}

// Middleware stores the session resolved by authn in the request context.
func Middleware(authn Authenticator, next http.Handler, opts ...MiddlewareOption) http.Handler {
	m := &middleware{authn: authn}
	for _, opt := range opts {
		opt(m)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := m.authn.Authenticate(r)
		if err != nil {
			if m.logger != nil && !errors.Is(err, ErrNoCredentials) {
				m.logger.Warn("rejected credentials", "error", err, "path", r.URL.Path)
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(meetpg.WithSession(r.Context(), session)))
	})
}
