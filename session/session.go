package session

import (
	"time"

	"github.com/jrsteele09/go-consulta/users"
)

// State is the session manager's position in its lifecycle.
type State string

const (
	// StateUnknown is the initial state, before the credential store has been read
	StateUnknown State = "unknown"
	// StateAnonymous means no valid session exists
	StateAnonymous State = "anonymous"
	// StateAuthenticated means a token and user are present
	StateAuthenticated State = "authenticated"
)

// Session is the in-memory view of the authenticated user. Token and User are
// always set together and cleared together; there is no partial session.
type Session struct {
	Token     string      // Bearer credential, present iff a login succeeded and was not invalidated
	User      *users.Info // Profile returned at login
	ExpiresAt *time.Time  // Decoded from the token when persisted; nil if decoding failed
}

// IsAuthenticated reports whether a bearer token is present.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.Token != ""
}

// expired applies the shared expiration rule: a session with no decoded
// expiration counts as expired, and so does now >= expiresAt (inclusive at
// the boundary).
func (s *Session) expired(now time.Time) bool {
	if s.ExpiresAt == nil {
		return true
	}
	return !now.Before(*s.ExpiresAt)
}
