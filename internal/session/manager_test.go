package session

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/activity-hub/internal/model"
)

// fakeStore is an in-memory TokenStore.
type fakeStore struct {
	token   string
	loadErr error
	saveErr error
}

func (s *fakeStore) Load() (string, error) {
	if s.loadErr != nil {
		return "", s.loadErr
	}
	return s.token, nil
}

func (s *fakeStore) Save(token string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.token = token
	return nil
}

func (s *fakeStore) Clear() error {
	s.token = ""
	return nil
}

var testNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func makeToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

func newTestManager(store TokenStore) *Manager {
	m := NewManager(store, true, slog.New(slog.DiscardHandler))
	m.Now = func() time.Time { return testNow }
	return m
}

func TestRestore_ValidStoredToken(t *testing.T) {
	store := &fakeStore{token: makeToken(t, map[string]any{
		"sub":  "carol",
		"role": "MANAGER",
		"exp":  testNow.Add(time.Hour).Unix(),
	})}
	m := newTestManager(store)

	m.Restore()

	snap := m.Snapshot()
	assert.Equal(t, StateAuthenticated, snap.State)
	assert.Equal(t, model.RoleManager, snap.Role)
	assert.Equal(t, "carol", snap.Username)
	assert.NotEmpty(t, m.Token())
}

func TestRestore_NoStoredToken(t *testing.T) {
	m := newTestManager(&fakeStore{})

	m.Restore()

	snap := m.Snapshot()
	assert.Equal(t, StateAnonymous, snap.State)
	assert.False(t, snap.Authenticated())
	assert.Empty(t, m.Token())
}

func TestRestore_ExpiredTokenClearsStorage(t *testing.T) {
	store := &fakeStore{token: makeToken(t, map[string]any{
		"sub": "carol",
		"exp": testNow.Add(-time.Minute).Unix(),
	})}
	m := newTestManager(store)

	m.Restore()

	assert.Equal(t, StateAnonymous, m.Snapshot().State)
	assert.Empty(t, store.token, "expired token must be erased from storage")
}

func TestRestore_TokenWithoutExpiryTreatedAsExpired(t *testing.T) {
	store := &fakeStore{token: makeToken(t, map[string]any{"sub": "carol"})}
	m := newTestManager(store)

	m.Restore()

	assert.Equal(t, StateAnonymous, m.Snapshot().State)
	assert.Empty(t, store.token)
}

func TestRestore_MalformedTokenClearsStorage(t *testing.T) {
	store := &fakeStore{token: "not-a-token"}
	m := newTestManager(store)

	m.Restore()

	assert.Equal(t, StateAnonymous, m.Snapshot().State)
	assert.Empty(t, store.token)
}

func TestRestore_StoreErrorLeavesAnonymous(t *testing.T) {
	store := &fakeStore{loadErr: errors.New("keyring locked")}
	m := newTestManager(store)

	m.Restore()

	assert.Equal(t, StateAnonymous, m.Snapshot().State)
}

func TestRestore_RunsOnce(t *testing.T) {
	store := &fakeStore{}
	m := newTestManager(store)

	m.Restore()
	require.Equal(t, StateAnonymous, m.Snapshot().State)

	// A token appearing later must not resurrect the session.
	store.token = makeToken(t, map[string]any{
		"sub": "carol", "exp": testNow.Add(time.Hour).Unix(),
	})
	m.Restore()
	assert.Equal(t, StateAnonymous, m.Snapshot().State)
}

func TestSnapshot_LoadingBeforeRestore(t *testing.T) {
	m := newTestManager(&fakeStore{})
	assert.True(t, m.Snapshot().Loading())
}

func TestLogin_PersistsTokenAndAuthenticates(t *testing.T) {
	store := &fakeStore{}
	m := newTestManager(store)
	raw := makeToken(t, map[string]any{
		"sub": "dave", "role": "STUDENT", "exp": testNow.Add(time.Hour).Unix(),
	})

	m.Login(raw)

	snap := m.Snapshot()
	assert.Equal(t, StateAuthenticated, snap.State)
	assert.Equal(t, model.RoleStudent, snap.Role)
	assert.Equal(t, raw, store.token)
	assert.Equal(t, raw, m.Token())
}

func TestLogin_MalformedTokenStaysUnauthenticated(t *testing.T) {
	m := newTestManager(&fakeStore{})

	m.Login("garbage")

	assert.False(t, m.Snapshot().Authenticated())
	assert.Empty(t, m.Token())
}

func TestLogin_ExpiredTokenStaysUnauthenticated(t *testing.T) {
	store := &fakeStore{}
	m := newTestManager(store)

	m.Login(makeToken(t, map[string]any{
		"sub": "dave", "role": "STUDENT", "exp": testNow.Add(-time.Minute).Unix(),
	}))

	assert.False(t, m.Snapshot().Authenticated())
	assert.Empty(t, m.Token())
	assert.Empty(t, store.token, "expired token must not survive in storage")
}

func TestLogout_ClearsSessionAndStorage(t *testing.T) {
	store := &fakeStore{}
	m := newTestManager(store)
	m.Login(makeToken(t, map[string]any{
		"sub": "dave", "role": "ADMIN", "exp": testNow.Add(time.Hour).Unix(),
	}))
	require.True(t, m.Snapshot().Authenticated())

	m.Logout()

	snap := m.Snapshot()
	assert.Equal(t, StateAnonymous, snap.State)
	assert.Empty(t, snap.Username)
	assert.Empty(t, snap.Role)
	assert.Empty(t, store.token)
	assert.Empty(t, m.Token())
}

func TestInvalidate_ClearsSessionAndStorage(t *testing.T) {
	store := &fakeStore{}
	m := newTestManager(store)
	m.Login(makeToken(t, map[string]any{
		"sub": "dave", "exp": testNow.Add(time.Hour).Unix(),
	}))
	require.True(t, m.Snapshot().Authenticated())

	m.Invalidate()

	assert.Equal(t, StateAnonymous, m.Snapshot().State)
	assert.Empty(t, store.token)
}

func TestDeriveRole(t *testing.T) {
	tests := []struct {
		name      string
		subject   string
		roleClaim string
		heuristic bool
		wantRole  model.Role
		wantAuth  bool
	}{
		{"explicit admin", "alice", "ADMIN", true, model.RoleAdmin, true},
		{"explicit lowercase", "alice", "manager", true, model.RoleManager, true},
		{"explicit unknown falls back to student", "alice", "WIZARD", true, model.RoleStudent, true},
		{"explicit wins over heuristic", "admin-alice", "STUDENT", true, model.RoleStudent, true},
		{"heuristic admin substring", "site-admin", "", true, model.RoleAdmin, true},
		{"heuristic manager substring", "team.manager", "", true, model.RoleManager, true},
		{"heuristic case insensitive", "Admin42", "", true, model.RoleAdmin, true},
		{"heuristic default student", "plain-user", "", true, model.RoleStudent, true},
		{"heuristic disabled, no claim", "site-admin", "", false, "", false},
		{"heuristic disabled, explicit claim", "bob", "ADMIN", false, model.RoleAdmin, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			m := NewManager(store, tt.heuristic, slog.New(slog.DiscardHandler))
			m.Now = func() time.Time { return testNow }

			claims := map[string]any{
				"sub": tt.subject, "exp": testNow.Add(time.Hour).Unix(),
			}
			if tt.roleClaim != "" {
				claims["role"] = tt.roleClaim
			}
			m.Login(makeToken(t, claims))

			snap := m.Snapshot()
			assert.Equal(t, tt.wantAuth, snap.Authenticated())
			assert.Equal(t, tt.wantRole, snap.Role)
		})
	}
}
