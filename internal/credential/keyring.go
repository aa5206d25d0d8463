package credential

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "activityhub"

// tokenKey is the fixed name the session bearer token is stored under.
const tokenKey = "session-token"

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/activityhub/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("activityhub-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// TokenStore persists the session bearer token in the system keyring.
// An absent token is not an error: Load returns an empty string.
type TokenStore struct{}

// NewTokenStore returns a keyring-backed token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Load retrieves the stored bearer token, or "" when none is stored.
func (s *TokenStore) Load() (string, error) {
	ring, err := openKeyring()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(tokenKey)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", tokenKey, err)
	}

	return string(item.Data), nil
}

// Save stores the bearer token, replacing any previous one.
func (s *TokenStore) Save(token string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:  tokenKey,
		Data: []byte(token),
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", tokenKey, err)
	}

	return nil
}

// Clear removes the stored bearer token. Clearing an already-empty store
// is not an error.
func (s *TokenStore) Clear() error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Remove(tokenKey)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting credential %q: %w", tokenKey, err)
	}

	return nil
}
