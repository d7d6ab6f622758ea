package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fakecredentialsrepo "github.com/jrsteele09/go-consulta/credentials/repofakes"
	clienterrors "github.com/jrsteele09/go-consulta/internal/errors"
	"github.com/jrsteele09/go-consulta/session"
	"github.com/jrsteele09/go-consulta/users"
)

const (
	testToken    = "tok123"
	testUsuario  = "ana.perez"
	testPassword = "password123"
)

func testUser() *users.Info {
	return &users.Info{ID: 1, Nombre: "Ana", SistemaID: 2, CompagniaID: 3}
}

// fakeClock lets tests move the manager's idea of now.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// stubDecoder pins the expiration the store derives from any token.
type stubDecoder struct {
	exp time.Time
	ok  bool
}

func (s stubDecoder) ExpiresAt(string) (time.Time, bool) {
	return s.exp, s.ok
}

type fakeNavigator struct {
	mu      sync.Mutex
	reasons []session.Reason
}

func (n *fakeNavigator) RedirectToLogin(reason session.Reason) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reasons = append(n.reasons, reason)
}

func (n *fakeNavigator) calls() []session.Reason {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]session.Reason(nil), n.reasons...)
}

type fakeAuthenticator struct {
	result *session.LoginResult
	err    error

	mu          sync.Mutex
	lastUsuario string
}

func (a *fakeAuthenticator) Login(_ context.Context, usuario, _ string) (*session.LoginResult, error) {
	a.mu.Lock()
	a.lastUsuario = usuario
	a.mu.Unlock()
	if a.err != nil {
		return nil, a.err
	}
	return a.result, nil
}

// testFixture holds all test dependencies
type testFixture struct {
	store         *fakecredentialsrepo.FakeCredentialsRepo
	authenticator *fakeAuthenticator
	navigator     *fakeNavigator
	clock         *fakeClock
	manager       *session.Manager
}

func setupTestFixture(t *testing.T, decoder stubDecoder, options ...session.ManagerOption) *testFixture {
	t.Helper()

	store := fakecredentialsrepo.NewFakeCredentialsRepo(decoder)
	authenticator := &fakeAuthenticator{}
	navigator := &fakeNavigator{}
	clock := newFakeClock(time.Now())

	opts := append([]session.ManagerOption{session.WithNowTime(clock.Now)}, options...)
	manager, err := session.NewManager(store, authenticator, navigator, opts...)
	require.NoError(t, err)
	t.Cleanup(manager.Close)

	return &testFixture{
		store:         store,
		authenticator: authenticator,
		navigator:     navigator,
		clock:         clock,
		manager:       manager,
	}
}

func (f *testFixture) storedSession(t *testing.T) {
	t.Helper()
	require.NoError(t, f.store.Save(testToken, testUser()))
}

func TestNewManager_RequiresDependencies(t *testing.T) {
	store := fakecredentialsrepo.NewFakeCredentialsRepo(stubDecoder{})
	authenticator := &fakeAuthenticator{}
	navigator := &fakeNavigator{}

	_, err := session.NewManager(nil, authenticator, navigator)
	require.Error(t, err)

	_, err = session.NewManager(store, nil, navigator)
	require.Error(t, err)

	_, err = session.NewManager(store, authenticator, nil)
	require.Error(t, err)
}

func TestBootstrap_EmptyStore(t *testing.T) {
	f := setupTestFixture(t, stubDecoder{})

	state, err := f.manager.Bootstrap()
	require.NoError(t, err)
	require.Equal(t, session.StateAnonymous, state)
	require.False(t, f.manager.IsAuthenticated())
	require.Empty(t, f.navigator.calls())
}

func TestBootstrap_ValidStoredSession(t *testing.T) {
	now := time.Now()
	f := setupTestFixture(t, stubDecoder{exp: now.Add(time.Hour), ok: true})
	f.clock.Set(now)
	f.storedSession(t)

	state, err := f.manager.Bootstrap()
	require.NoError(t, err)
	require.Equal(t, session.StateAuthenticated, state)
	require.True(t, f.manager.IsAuthenticated())
	require.Equal(t, testUser(), f.manager.User())
	require.Empty(t, f.navigator.calls())
}

func TestBootstrap_ExpiredStoredSession(t *testing.T) {
	now := time.Now()
	f := setupTestFixture(t, stubDecoder{exp: now.Add(-time.Minute), ok: true})
	f.clock.Set(now)
	f.storedSession(t)

	state, err := f.manager.Bootstrap()
	require.NoError(t, err)
	require.Equal(t, session.StateAnonymous, state)

	rec, err := f.store.Read()
	require.NoError(t, err)
	require.False(t, rec.HasSession(), "store must be cleared")
	require.Equal(t, []session.Reason{session.ReasonExpired}, f.navigator.calls())
}

func TestBootstrap_MissingExpirationTreatedAsExpired(t *testing.T) {
	f := setupTestFixture(t, stubDecoder{ok: false})
	f.storedSession(t)

	state, err := f.manager.Bootstrap()
	require.NoError(t, err)
	require.Equal(t, session.StateAnonymous, state)

	rec, err := f.store.Read()
	require.NoError(t, err)
	require.False(t, rec.HasSession())
	require.Equal(t, []session.Reason{session.ReasonExpired}, f.navigator.calls())
}

func TestBootstrap_ExpirationBoundary(t *testing.T) {
	expiry := time.Now().Truncate(time.Second)

	t.Run("one second before expiry is valid", func(t *testing.T) {
		f := setupTestFixture(t, stubDecoder{exp: expiry, ok: true})
		f.clock.Set(expiry.Add(-time.Second))
		f.storedSession(t)

		state, err := f.manager.Bootstrap()
		require.NoError(t, err)
		require.Equal(t, session.StateAuthenticated, state)
	})

	t.Run("exactly at expiry is invalid", func(t *testing.T) {
		f := setupTestFixture(t, stubDecoder{exp: expiry, ok: true})
		f.clock.Set(expiry)
		f.storedSession(t)

		state, err := f.manager.Bootstrap()
		require.NoError(t, err)
		require.Equal(t, session.StateAnonymous, state)
	})
}

func TestLogin_Success(t *testing.T) {
	f := setupTestFixture(t, stubDecoder{exp: time.Now().Add(8 * time.Hour), ok: true})
	f.authenticator.result = &session.LoginResult{Success: true, Token: testToken, User: testUser()}

	err := f.manager.Login(context.Background(), testUsuario, testPassword)
	require.NoError(t, err)
	require.Equal(t, session.StateAuthenticated, f.manager.State())
	require.Equal(t, testUser(), f.manager.User())

	rec, err := f.store.Read()
	require.NoError(t, err)
	require.True(t, rec.HasSession())
	require.Equal(t, testToken, rec.Token)
}

func TestLogin_RejectedLeavesStateUntouched(t *testing.T) {
	f := setupTestFixture(t, stubDecoder{})
	f.authenticator.result = &session.LoginResult{Success: false, Error: "credenciales inválidas"}

	err := f.manager.Login(context.Background(), testUsuario, "wrong")
	require.ErrorIs(t, err, clienterrors.ErrInvalidCredentials)
	require.False(t, f.manager.IsAuthenticated())
	require.Zero(t, f.store.SaveCalls, "store must remain untouched")
}

func TestLogin_SuccessWithoutTokenIsRejected(t *testing.T) {
	// A malformed success (token but no user, or user but no token) must not
	// create a partial session.
	f := setupTestFixture(t, stubDecoder{})
	f.authenticator.result = &session.LoginResult{Success: true, Token: testToken}

	err := f.manager.Login(context.Background(), testUsuario, testPassword)
	require.ErrorIs(t, err, clienterrors.ErrInvalidCredentials)
	require.False(t, f.manager.IsAuthenticated())
	require.Zero(t, f.store.SaveCalls)
}

func TestLogin_TransportErrorPassesThrough(t *testing.T) {
	f := setupTestFixture(t, stubDecoder{})
	f.authenticator.err = clienterrors.ErrUnreachable

	err := f.manager.Login(context.Background(), testUsuario, testPassword)
	require.ErrorIs(t, err, clienterrors.ErrUnreachable)
	require.False(t, f.manager.IsAuthenticated())
	require.Zero(t, f.store.SaveCalls)
}

func TestLogout_ClearsEverything(t *testing.T) {
	f := setupTestFixture(t, stubDecoder{exp: time.Now().Add(time.Hour), ok: true})
	f.authenticator.result = &session.LoginResult{Success: true, Token: testToken, User: testUser()}
	require.NoError(t, f.manager.Login(context.Background(), testUsuario, testPassword))

	f.manager.Logout()

	require.False(t, f.manager.IsAuthenticated())
	rec, err := f.store.Read()
	require.NoError(t, err)
	require.False(t, rec.HasSession())
	require.Equal(t, []session.Reason{session.ReasonLoggedOut}, f.navigator.calls())
}

func TestTerminate_Idempotent(t *testing.T) {
	f := setupTestFixture(t, stubDecoder{exp: time.Now().Add(time.Hour), ok: true})
	f.authenticator.result = &session.LoginResult{Success: true, Token: testToken, User: testUser()}
	require.NoError(t, f.manager.Login(context.Background(), testUsuario, testPassword))

	f.manager.Terminate(session.ReasonExpired)
	f.manager.Terminate(session.ReasonExpired)

	require.False(t, f.manager.IsAuthenticated())
	rec, err := f.store.Read()
	require.NoError(t, err)
	require.False(t, rec.HasSession())
	require.Equal(t, []session.Reason{session.ReasonExpired}, f.navigator.calls(),
		"only the first termination redirects")
}

func TestTerminate_ConcurrentInvocations(t *testing.T) {
	f := setupTestFixture(t, stubDecoder{exp: time.Now().Add(time.Hour), ok: true})
	f.authenticator.result = &session.LoginResult{Success: true, Token: testToken, User: testUser()}
	require.NoError(t, f.manager.Login(context.Background(), testUsuario, testPassword))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.manager.Terminate(session.ReasonExpired)
		}()
	}
	wg.Wait()

	require.False(t, f.manager.IsAuthenticated())
	rec, err := f.store.Read()
	require.NoError(t, err)
	require.False(t, rec.HasSession())
	require.Len(t, f.navigator.calls(), 1, "racing terminations redirect once")
}

func TestWatchdog_TerminatesStaleSession(t *testing.T) {
	expiry := time.Now().Add(time.Hour)
	f := setupTestFixture(t, stubDecoder{exp: expiry, ok: true},
		session.WithCheckInterval(5*time.Millisecond))
	f.authenticator.result = &session.LoginResult{Success: true, Token: testToken, User: testUser()}
	require.NoError(t, f.manager.Login(context.Background(), testUsuario, testPassword))
	require.True(t, f.manager.IsAuthenticated())

	f.clock.Set(expiry.Add(time.Second))

	require.Eventually(t, func() bool {
		return f.manager.State() == session.StateAnonymous
	}, 2*time.Second, 5*time.Millisecond)

	rec, err := f.store.Read()
	require.NoError(t, err)
	require.False(t, rec.HasSession())
	require.Equal(t, []session.Reason{session.ReasonExpired}, f.navigator.calls())
}

func TestWatchdog_DisarmedOnLogout(t *testing.T) {
	expiry := time.Now().Add(time.Hour)
	f := setupTestFixture(t, stubDecoder{exp: expiry, ok: true},
		session.WithCheckInterval(5*time.Millisecond))
	f.authenticator.result = &session.LoginResult{Success: true, Token: testToken, User: testUser()}
	require.NoError(t, f.manager.Login(context.Background(), testUsuario, testPassword))

	f.manager.Logout()
	f.clock.Set(expiry.Add(time.Second))
	time.Sleep(50 * time.Millisecond)

	require.Equal(t, []session.Reason{session.ReasonLoggedOut}, f.navigator.calls(),
		"a disarmed watchdog must not fire an expired redirect")
}

func TestWatchdog_FreshLoginGetsFreshTimer(t *testing.T) {
	firstExpiry := time.Now().Add(time.Hour)
	f := setupTestFixture(t, stubDecoder{exp: firstExpiry, ok: true},
		session.WithCheckInterval(5*time.Millisecond))
	f.authenticator.result = &session.LoginResult{Success: true, Token: testToken, User: testUser()}

	require.NoError(t, f.manager.Login(context.Background(), testUsuario, testPassword))
	f.manager.Logout()

	// Second login; the first session's timer must be gone and only the new
	// session's expiry matters.
	require.NoError(t, f.manager.Login(context.Background(), testUsuario, testPassword))
	time.Sleep(50 * time.Millisecond)

	require.Equal(t, session.StateAuthenticated, f.manager.State())
	require.Equal(t, []session.Reason{session.ReasonLoggedOut}, f.navigator.calls())
}
