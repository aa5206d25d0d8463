package model

import "time"

// Claims is the decoded payload of a bearer token. No signature or expiry
// validation is implied; Expired is checked by the session manager.
type Claims struct {
	// Subject is the username the token was issued for.
	Subject string

	// Role is the raw role claim value, empty when the token carries none.
	Role string

	// ExpiresAt is the token expiry. The zero value means the token did
	// not carry an exp claim and is treated as already expired.
	ExpiresAt time.Time
}

// Expired reports whether the claims are expired relative to now.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}
