package session

// Reason tells the login surface why the user ended up there, so an expired
// session can show a different message than a voluntary logout.
type Reason string

const (
	// ReasonExpired marks a session that timed out or was rejected by the backend
	ReasonExpired Reason = "expired"
	// ReasonLoggedOut marks a user-initiated logout
	ReasonLoggedOut Reason = "logged_out"
)

// Navigator moves the user to the login entry point after the session ends.
// Implementations must tolerate being invoked more than once for the same
// destination.
type Navigator interface {
	RedirectToLogin(reason Reason)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(reason Reason)

func (f NavigatorFunc) RedirectToLogin(reason Reason) {
	f(reason)
}
