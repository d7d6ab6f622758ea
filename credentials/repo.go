package credentials

import (
	"time"

	"github.com/jrsteele09/go-consulta/users"
)

// Record holds the persisted session slots. Any slot may be absent
// independently: a missing ExpiresAt means the expiration could not be
// decoded when the token was saved and consumers must treat the session as
// already expired, never as "never expires".
type Record struct {
	Token     string
	User      *users.Info
	ExpiresAt *time.Time
}

// HasSession reports whether both the token and user slots are present.
func (r *Record) HasSession() bool {
	return r != nil && r.Token != "" && r.User != nil
}

// ExpiryDecoder extracts a best-effort expiration from a bearer token.
// Implemented by token.Inspector; the result is a UX hint, not a validation.
type ExpiryDecoder interface {
	ExpiresAt(rawToken string) (time.Time, bool)
}

// Repo defines the interface for credential persistence.
type Repo interface {
	// Save persists the token and user together. After Save returns, a Read
	// never observes one without the other. The expiration slot is written
	// only when the token's exp claim decodes.
	Save(token string, user *users.Info) error

	// Read returns the stored record. Slots that were never written (or
	// predate the expiration slot) come back absent; no validation happens.
	Read() (*Record, error)

	// Clear removes every slot. Clearing an already-empty store is a no-op.
	Clear() error
}
