package token

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".signature"
}

func TestDecode_ValidToken(t *testing.T) {
	exp := time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)
	raw := makeToken(t, map[string]any{
		"sub":  "alice",
		"role": "ADMIN",
		"exp":  exp.Unix(),
	})

	claims, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.True(t, claims.ExpiresAt.Equal(exp))
}

func TestDecode_NoExpiry(t *testing.T) {
	raw := makeToken(t, map[string]any{"sub": "bob"})

	claims, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "bob", claims.Subject)
	assert.Empty(t, claims.Role)
	assert.True(t, claims.ExpiresAt.IsZero())
}

func TestDecode_MalformedInput(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"not a token", "garbage"},
		{"two segments", "aGVhZGVy.cGF5bG9hZA"},
		{"four segments", "a.b.c.d"},
		{"bad base64 payload", "eyJhbGciOiJIUzI1NiJ9.%%%.sig"},
		{"payload not json", "eyJhbGciOiJIUzI1NiJ9." +
			base64.RawURLEncoding.EncodeToString([]byte("plain text")) + ".sig"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := Decode(tt.raw)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}
