// Package guard decides whether the current session may render a view.
package guard

import (
	"slices"

	"github.com/nhle/activity-hub/internal/model"
	"github.com/nhle/activity-hub/internal/session"
)

// Decision is the outcome of an access check for a single view.
type Decision int

const (
	// DecisionLoading means the session is still restoring; render a
	// neutral placeholder.
	DecisionLoading Decision = iota

	// DecisionAllow renders the guarded content.
	DecisionAllow

	// DecisionDenyRole renders an inline access-denied view with a back
	// action. It is not a redirect.
	DecisionDenyRole

	// DecisionRedirectLogin sends an anonymous user to the login surface.
	DecisionRedirectLogin

	// DecisionRedirectDashboard sends an authenticated user away from the
	// login/registration surfaces.
	DecisionRedirectDashboard
)

// String returns the decision name for logging.
func (d Decision) String() string {
	switch d {
	case DecisionLoading:
		return "loading"
	case DecisionAllow:
		return "allow"
	case DecisionDenyRole:
		return "deny-role"
	case DecisionRedirectLogin:
		return "redirect-login"
	case DecisionRedirectDashboard:
		return "redirect-dashboard"
	default:
		return "unknown"
	}
}

// Rule describes the protection applied to a single view.
type Rule struct {
	// RequireAuth redirects anonymous users to the login surface.
	RequireAuth bool

	// AllowedRoles restricts the view to the listed roles when non-empty.
	AllowedRoles []model.Role

	// AuthSurface marks the login/registration surfaces, which
	// authenticated users may not revisit.
	AuthSurface bool
}

// Decide evaluates a rule against a session snapshot. The branch order is
// significant: loading pre-empts everything, and the redirect to the
// dashboard takes priority over role checks.
func Decide(s session.Session, rule Rule) Decision {
	if s.Loading() {
		return DecisionLoading
	}
	if rule.RequireAuth && !s.Authenticated() {
		return DecisionRedirectLogin
	}
	if s.Authenticated() && rule.AuthSurface {
		return DecisionRedirectDashboard
	}
	if len(rule.AllowedRoles) > 0 && !slices.Contains(rule.AllowedRoles, s.Role) {
		return DecisionDenyRole
	}
	return DecisionAllow
}
