package token

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nhle/activity-hub/internal/model"
)

// ErrMalformed indicates a bearer token that could not be decoded: wrong
// segment count, bad base64url payload, or a payload that is not JSON.
var ErrMalformed = errors.New("malformed token")

// payloadClaims is the internal claims type used for JWT parsing.
type payloadClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// Decode extracts the claims from a three-segment bearer token without
// verifying its signature or expiry. Expiry enforcement belongs to the
// session manager. All decode failures collapse into ErrMalformed.
func Decode(raw string) (*model.Claims, error) {
	var payload payloadClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	claims := &model.Claims{
		Subject: payload.Subject,
		Role:    payload.Role,
	}
	if payload.ExpiresAt != nil {
		claims.ExpiresAt = payload.ExpiresAt.Time
	}
	return claims, nil
}
