package auth

import (
	"net/http"
	"strings"

	"github.com/youssefsiam38/meetpg"
)

// Default identity headers, as set by common authenticating proxies.
const (
	DefaultUserHeader  = "X-Forwarded-User"
	DefaultNameHeader  = "X-Forwarded-Preferred-Username"
	DefaultEmailHeader = "X-Forwarded-Email"
)

// HeaderAuthenticator trusts identity headers set by a reverse proxy. Only
// deploy it behind a proxy that strips these headers from client requests.
type HeaderAuthenticator struct {
	UserHeader  string
	NameHeader  string
	EmailHeader string
}

// NewHeaderAuthenticator reads the user id from header, or from
// DefaultUserHeader when header is empty.
func NewHeaderAuthenticator(header string) *HeaderAuthenticator {
	if header == "" {
		header = DefaultUserHeader
	}
	return &HeaderAuthenticator{
		UserHeader:  header,
		NameHeader:  DefaultNameHeader,
		EmailHeader: DefaultEmailHeader,
	}
}

// Authenticate implements Authenticator.
func (a *HeaderAuthenticator) Authenticate(r *http.Request) (meetpg.Session, error) {
	userID := strings.TrimSpace(r.Header.Get(a.UserHeader))
	if userID == "" {
		return meetpg.Session{}, ErrNoCredentials
	}
	return meetpg.Session{
		UserID: userID,
		Name:   strings.TrimSpace(r.Header.Get(a.NameHeader)),
		Email:  strings.TrimSpace(r.Header.Get(a.EmailHeader)),
	}, nil
}
