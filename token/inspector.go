// Package token extracts claims from bearer tokens without verifying them.
//
// Nothing in this package establishes trust: the signature is never checked
// and the backend remains the only authority on token validity. The decoded
// expiration is a client-side hint used to schedule proactive logout.
package token

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Inspector decodes the payload segment of a JWT-shaped bearer token.
type Inspector struct{}

// NewInspector creates a new token inspector.
func NewInspector() *Inspector {
	return &Inspector{}
}

// ExpiresAt returns the token's exp claim as a time. It reports ok=false on
// any decoding problem (malformed token, invalid base64, missing or oddly
// typed claim) rather than returning an error - callers treat an unknown
// expiration as already expired.
func (i *Inspector) ExpiresAt(rawToken string) (time.Time, bool) {
	if rawToken == "" {
		return time.Time{}, false
	}

	unverified, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}

	claims, ok := unverified.Claims.(jwtlib.MapClaims)
	if !ok {
		return time.Time{}, false
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}, false
	}

	return time.Unix(int64(exp), 0), true
}
