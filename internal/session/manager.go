package session

import (
	"log/slog"
	"strings"
	"time"

	"github.com/nhle/activity-hub/internal/model"
	"github.com/nhle/activity-hub/internal/token"
)

// State is the lifecycle state of the session.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateAuthenticated
	StateAnonymous
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// TokenStore is durable storage for the session bearer token. Load returns
// an empty string when no token is stored.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// Session is an immutable snapshot of the manager's state, handed to
// consumers such as the access guard. Consumers never mutate session
// state; only the manager does.
type Session struct {
	State    State
	Role     model.Role
	Username string
}

// Authenticated reports whether the snapshot represents a live session.
func (s Session) Authenticated() bool {
	return s.State == StateAuthenticated
}

// Loading reports whether startup restoration has not completed yet.
func (s Session) Loading() bool {
	return s.State == StateUninitialized || s.State == StateLoading
}

// Manager owns the client's session: it restores it from durable storage
// at startup, derives the role from token claims, and handles login,
// logout, and server-side token rejection. All mutation happens through
// its methods, driven from the single UI update loop.
type Manager struct {
	store  TokenStore
	logger *slog.Logger

	// roleHeuristic allows guessing a role from the username when the
	// token has no role claim. Disabled, a token without a role claim
	// does not authenticate.
	roleHeuristic bool

	// Now is the clock used for expiry checks, overridable in tests.
	Now func() time.Time

	state    State
	raw      string
	role     model.Role
	username string
	restored bool
}

// NewManager creates a session manager backed by the given token store.
func NewManager(store TokenStore, roleHeuristic bool, logger *slog.Logger) *Manager {
	return &Manager{
		store:         store,
		logger:        logger,
		roleHeuristic: roleHeuristic,
		Now:           time.Now,
		state:         StateUninitialized,
	}
}

// Restore loads the stored token and populates the session. It runs once
// per process; later calls are no-ops. Consumers observe StateLoading
// until it completes, and either StateAuthenticated or StateAnonymous
// afterwards. Stored tokens that no longer decode or are already expired
// are erased and the session stays anonymous.
func (m *Manager) Restore() {
	if m.restored {
		return
	}
	m.restored = true
	m.state = StateLoading

	raw, err := m.store.Load()
	if err != nil {
		m.logger.Error("loading stored token", "error", err)
		m.state = StateAnonymous
		return
	}
	if raw == "" {
		m.state = StateAnonymous
		return
	}

	claims, err := token.Decode(raw)
	if err != nil {
		m.logger.Warn("stored token does not decode, clearing it", "error", err)
		m.clearStored()
		m.state = StateAnonymous
		return
	}
	if claims.Expired(m.Now()) {
		m.logger.Info("stored token expired, clearing it",
			"subject", claims.Subject, "expired_at", claims.ExpiresAt)
		m.clearStored()
		m.state = StateAnonymous
		return
	}

	m.apply(raw, claims)
}

// Login persists the token and populates the session from its claims.
// Tokens that do not decode or are already expired leave the session
// unauthenticated and are logged; callers observe the outcome through
// Snapshot rather than an error return.
func (m *Manager) Login(raw string) {
	if err := m.store.Save(raw); err != nil {
		m.logger.Error("persisting token", "error", err)
	}

	claims, err := token.Decode(raw)
	if err != nil {
		m.logger.Error("decoding login token", "error", err)
		return
	}
	if claims.Expired(m.Now()) {
		m.logger.Warn("login token already expired",
			"subject", claims.Subject, "expired_at", claims.ExpiresAt)
		m.clearStored()
		return
	}

	m.apply(raw, claims)
}

// Logout erases the stored token and clears the session.
func (m *Manager) Logout() {
	m.clearStored()
	m.clear()
	m.logger.Info("logged out")
}

// Invalidate handles a server-side token rejection: it erases the stored
// token and clears the session. This is the only session mutation driven
// from outside the login/logout lifecycle.
func (m *Manager) Invalidate() {
	m.clearStored()
	m.clear()
	m.logger.Warn("session invalidated by server")
}

// Snapshot returns the current session value for consumers.
func (m *Manager) Snapshot() Session {
	return Session{
		State:    m.state,
		Role:     m.role,
		Username: m.username,
	}
}

// Token returns the raw bearer token of the current session, empty when
// unauthenticated.
func (m *Manager) Token() string {
	return m.raw
}

// apply populates all session fields from decoded claims. Role and
// username always change together.
func (m *Manager) apply(raw string, claims *model.Claims) {
	role, ok := m.deriveRole(claims)
	if !ok {
		m.logger.Warn("token carries no role claim and the role heuristic is disabled",
			"subject", claims.Subject)
		m.clear()
		return
	}

	m.raw = raw
	m.role = role
	m.username = claims.Subject
	m.state = StateAuthenticated
	m.logger.Info("session established", "username", m.username, "role", m.role)
}

// deriveRole maps claims to a role. An explicit role claim always wins;
// unknown explicit values fall back to STUDENT. Without a role claim the
// username heuristic assigns ADMIN or MANAGER by substring, defaulting to
// STUDENT. The heuristic is a convenience for tokens issued without role
// claims, not a security boundary, and can be disabled in configuration.
func (m *Manager) deriveRole(claims *model.Claims) (model.Role, bool) {
	if claims.Role != "" {
		if role, ok := model.ParseRole(claims.Role); ok {
			return role, true
		}
		return model.RoleStudent, true
	}

	if !m.roleHeuristic {
		return "", false
	}

	subject := strings.ToLower(claims.Subject)
	switch {
	case strings.Contains(subject, "admin"):
		return model.RoleAdmin, true
	case strings.Contains(subject, "manager"):
		return model.RoleManager, true
	}
	return model.RoleStudent, true
}

// clear resets all session fields to the anonymous state.
func (m *Manager) clear() {
	m.raw = ""
	m.role = ""
	m.username = ""
	m.state = StateAnonymous
}

// clearStored erases the durable token, logging instead of failing.
func (m *Manager) clearStored() {
	if err := m.store.Clear(); err != nil {
		m.logger.Error("clearing stored token", "error", err)
	}
}
