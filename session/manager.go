// Package session owns the authentication state machine of the client:
// bootstrap from stored credentials, login, logout, the periodic liveness
// check, and forced termination when the backend rejects the session.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-consulta/credentials"
	clienterrors "github.com/jrsteele09/go-consulta/internal/errors"
	"github.com/jrsteele09/go-consulta/users"
)

const defaultCheckInterval = 5 * time.Minute

// LoginResult is the outcome of a credential submission.
type LoginResult struct {
	Success bool
	Token   string
	User    *users.Info
	Error   string
}

// Authenticator submits credentials to the backend. Implemented by the API
// client; faked in tests.
type Authenticator interface {
	Login(ctx context.Context, usuario, password string) (*LoginResult, error)
}

// Manager drives the session lifecycle. All state mutation goes through its
// transition methods; callers never touch the store or the in-memory session
// directly.
type Manager struct {
	store         credentials.Repo
	authenticator Authenticator
	navigator     Navigator
	nowTime       func() time.Time // nowTime function (injectable for testing)
	checkInterval time.Duration

	lock         sync.Mutex
	state        State
	session      Session
	watchdogStop chan struct{}
}

// ManagerOption defines a function type to modify the Manager instance.
type ManagerOption func(*Manager)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowTime = nowFunc
	}
}

// WithCheckInterval overrides the liveness-check interval (default 5 minutes).
func WithCheckInterval(interval time.Duration) ManagerOption {
	return func(m *Manager) {
		m.checkInterval = interval
	}
}

// NewManager initializes a Manager with required dependencies.
// Optional configuration can be provided via options (e.g., WithNowTime for testing).
func NewManager(store credentials.Repo, authenticator Authenticator, navigator Navigator, options ...ManagerOption) (*Manager, error) {
	if store == nil {
		return nil, errors.New("[NewManager] credentials store is required")
	}
	if authenticator == nil {
		return nil, errors.New("[NewManager] authenticator is required")
	}
	if navigator == nil {
		return nil, errors.New("[NewManager] navigator is required")
	}

	m := &Manager{
		store:         store,
		authenticator: authenticator,
		navigator:     navigator,
		nowTime:       time.Now,
		checkInterval: defaultCheckInterval,
		state:         StateUnknown,
	}

	for _, opt := range options {
		opt(m)
	}

	return m, nil
}

// Bootstrap reads the credential store and resolves the initial state. A
// stored session with a decodable, future expiration becomes Authenticated;
// anything stale (missing expiration slot included) is terminated as expired;
// an empty store is Anonymous.
func (m *Manager) Bootstrap() (State, error) {
	rec, err := m.store.Read()
	if err != nil {
		return StateUnknown, errors.Wrap(err, "[Manager.Bootstrap] reading credentials")
	}

	if !rec.HasSession() {
		m.lock.Lock()
		m.state = StateAnonymous
		m.lock.Unlock()
		return StateAnonymous, nil
	}

	restored := Session{Token: rec.Token, User: rec.User, ExpiresAt: rec.ExpiresAt}
	if restored.expired(m.nowTime()) {
		log.Debug().Msg("stored session expired, terminating")
		m.Terminate(ReasonExpired)
		return StateAnonymous, nil
	}

	m.lock.Lock()
	m.state = StateAuthenticated
	m.session = restored
	m.armWatchdogLocked()
	m.lock.Unlock()

	log.Debug().Str("user", restored.User.DisplayName()).Msg("session restored from store")
	return StateAuthenticated, nil
}

// Login submits credentials to the backend. On success the session is
// persisted and the state becomes Authenticated. Every failure leaves the
// state and the store exactly as they were.
func (m *Manager) Login(ctx context.Context, usuario, password string) error {
	result, err := m.authenticator.Login(ctx, usuario, password)
	if err != nil {
		return err
	}

	if !result.Success || result.Token == "" || result.User == nil {
		if result.Error != "" {
			log.Debug().Str("error", result.Error).Msg("login rejected by backend")
		}
		return clienterrors.ErrInvalidCredentials
	}

	if err := m.store.Save(result.Token, result.User); err != nil {
		return errors.Wrap(err, "[Manager.Login] persisting credentials")
	}

	rec, err := m.store.Read()
	if err != nil {
		return errors.Wrap(err, "[Manager.Login] reading back credentials")
	}

	m.lock.Lock()
	m.disarmWatchdogLocked()
	m.state = StateAuthenticated
	m.session = Session{Token: rec.Token, User: rec.User, ExpiresAt: rec.ExpiresAt}
	m.armWatchdogLocked()
	m.lock.Unlock()

	log.Info().Str("user", result.User.DisplayName()).Msg("login successful")
	return nil
}

// Logout clears the store and in-memory session. It needs no backend call to
// succeed: local state is always cleared.
func (m *Manager) Logout() {
	m.lock.Lock()
	m.disarmWatchdogLocked()
	m.state = StateAnonymous
	m.session = Session{}
	m.lock.Unlock()

	if err := m.store.Clear(); err != nil {
		log.Warn().Err(err).Msg("clearing credentials on logout")
	}
	m.navigator.RedirectToLogin(ReasonLoggedOut)
}

// Terminate is the forced, non-interactive session-clearing path used by the
// bootstrap check, the watchdog, and 401 handling in the request pipeline.
// It is idempotent and safe to invoke concurrently: the loser of a race
// observes an already-cleared session and skips the redirect.
func (m *Manager) Terminate(reason Reason) {
	m.lock.Lock()
	alreadyAnonymous := m.state == StateAnonymous
	m.disarmWatchdogLocked()
	m.state = StateAnonymous
	m.session = Session{}
	m.lock.Unlock()

	if err := m.store.Clear(); err != nil {
		log.Warn().Err(err).Msg("clearing credentials on termination")
	}

	if !alreadyAnonymous {
		log.Info().Str("reason", string(reason)).Msg("session terminated")
		m.navigator.RedirectToLogin(reason)
	}
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.state
}

// IsAuthenticated reports whether a session token is present.
func (m *Manager) IsAuthenticated() bool {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.session.IsAuthenticated()
}

// User returns the profile of the authenticated user, nil when anonymous.
func (m *Manager) User() *users.Info {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.session.User
}

// Close disarms the watchdog without touching the store. For shutdown paths.
func (m *Manager) Close() {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.disarmWatchdogLocked()
}

// armWatchdogLocked starts the periodic liveness check tied to the current
// Authenticated entry. Caller holds m.lock.
func (m *Manager) armWatchdogLocked() {
	stop := make(chan struct{})
	m.watchdogStop = stop

	go func() {
		ticker := time.NewTicker(m.checkInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				m.checkLiveness()
			}
		}
	}()
}

// disarmWatchdogLocked stops the watchdog of the session being exited so a
// stale timer never fires into a later login. Caller holds m.lock.
func (m *Manager) disarmWatchdogLocked() {
	if m.watchdogStop != nil {
		close(m.watchdogStop)
		m.watchdogStop = nil
	}
}

// checkLiveness re-evaluates the bootstrap expiration rule. This is the only
// trigger that notices a session going stale while the client sits idle.
func (m *Manager) checkLiveness() {
	m.lock.Lock()
	if m.state != StateAuthenticated {
		m.lock.Unlock()
		return
	}
	expired := m.session.expired(m.nowTime())
	m.lock.Unlock()

	if expired {
		log.Debug().Msg("liveness check found expired session")
		m.Terminate(ReasonExpired)
	}
}
