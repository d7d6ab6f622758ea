package fakecredentialsrepo

import (
	"sync"
	"time"

	"github.com/jrsteele09/go-consulta/credentials"
	"github.com/jrsteele09/go-consulta/users"
)

var _ credentials.Repo = (*FakeCredentialsRepo)(nil)

type FakeCredentialsRepo struct {
	decoder credentials.ExpiryDecoder
	lock    sync.RWMutex

	token     string
	user      *users.Info
	expiresAt *time.Time

	SaveCalls  int
	ClearCalls int
}

func NewFakeCredentialsRepo(decoder credentials.ExpiryDecoder) *FakeCredentialsRepo {
	return &FakeCredentialsRepo{decoder: decoder}
}

func (cr *FakeCredentialsRepo) Save(token string, user *users.Info) error {
	cr.lock.Lock()
	defer cr.lock.Unlock()

	cr.SaveCalls++
	cr.token = token
	userCopy := *user
	cr.user = &userCopy
	cr.expiresAt = nil
	if cr.decoder != nil {
		if exp, ok := cr.decoder.ExpiresAt(token); ok {
			cr.expiresAt = &exp
		}
	}
	return nil
}

func (cr *FakeCredentialsRepo) Read() (*credentials.Record, error) {
	cr.lock.RLock()
	defer cr.lock.RUnlock()

	rec := &credentials.Record{Token: cr.token}
	if cr.user != nil {
		userCopy := *cr.user
		rec.User = &userCopy
	}
	if cr.expiresAt != nil {
		expCopy := *cr.expiresAt
		rec.ExpiresAt = &expCopy
	}
	return rec, nil
}

func (cr *FakeCredentialsRepo) Clear() error {
	cr.lock.Lock()
	defer cr.lock.Unlock()

	cr.ClearCalls++
	cr.token = ""
	cr.user = nil
	cr.expiresAt = nil
	return nil
}

// SetExpiresAt overrides the stored expiration slot, nil removes it.
// Lets tests model stale records that predate the expiration slot.
func (cr *FakeCredentialsRepo) SetExpiresAt(exp *time.Time) {
	cr.lock.Lock()
	defer cr.lock.Unlock()
	cr.expiresAt = exp
}
