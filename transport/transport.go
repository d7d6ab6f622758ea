// Package transport wraps outbound backend calls with the two cross-cutting
// session behaviors: attaching the bearer token at dispatch time and reacting
// to authentication and rate-limit failures on every response.
package transport

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-consulta/credentials"
	clienterrors "github.com/jrsteele09/go-consulta/internal/errors"
	"github.com/jrsteele09/go-consulta/session"
)

// Terminator ends the current session. Implemented by session.Manager.
type Terminator interface {
	Terminate(reason session.Reason)
}

var _ http.RoundTripper = (*BearerRoundTripper)(nil)

// BearerRoundTripper reads the bearer token from the credential store on
// every dispatch (never from a cached copy, so clearing the store between two
// requests is observed by the second one) and maps 401/429 responses to the
// client's error taxonomy. It performs no retries.
type BearerRoundTripper struct {
	base       http.RoundTripper
	store      credentials.Repo
	terminator Terminator
}

// New wraps base with the session pipeline. A nil base uses
// http.DefaultTransport.
func New(base http.RoundTripper, store credentials.Repo, terminator Terminator) *BearerRoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &BearerRoundTripper{base: base, store: store, terminator: terminator}
}

// RoundTrip implements http.RoundTripper.
func (rt *BearerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	out.Header.Set("X-Request-ID", uuid.NewString())

	if rec, err := rt.store.Read(); err == nil && rec.Token != "" {
		out.Header.Set("Authorization", "Bearer "+rec.Token)
	}

	resp, err := rt.base.RoundTrip(out)
	if err != nil {
		// Transport-level failures pass through for the caller to render.
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		log.Debug().Str("path", req.URL.Path).Msg("backend rejected session")
		resp.Body.Close()
		rt.terminator.Terminate(session.ReasonExpired)
		return nil, clienterrors.ErrSessionExpired
	case http.StatusTooManyRequests:
		resp.Body.Close()
		return nil, clienterrors.ErrRateLimited
	}

	return resp, nil
}

// RoundTripFunc adapts a function to http.RoundTripper, for tests.
type RoundTripFunc func(req *http.Request) (*http.Response, error)

func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
