package meetpg

import (
	"context"
	"errors"
)

// Session identifies the authenticated caller. It is supplied by an
// external identity provider; meetpg only reads it.
type Session struct {
	UserID string `json:"userId"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
}

// Valid reports whether the session carries a user id.
func (s Session) Valid() bool {
	return s.UserID != ""
}

// sessionContextKey is the context key for storing the caller Session.
type sessionContextKey struct{}

// ErrNoSession is returned by SessionFromContextSafely when the context
// carries no session.
var ErrNoSession = errors.New("meetpg: no session in context")

// WithSession returns a new context carrying the caller session.
// Authentication middleware calls this once per request; handlers read it
// back and pass it explicitly to the service.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, s)
}

// SessionFromContextSafely returns the session stored by WithSession, or
// ErrNoSession if none is present or the stored session has no user id.
func SessionFromContextSafely(ctx context.Context) (Session, error) {
	s, ok := ctx.Value(sessionContextKey{}).(Session)
	if !ok || !s.Valid() {
		return Session{}, ErrNoSession
	}
	return s, nil
}
