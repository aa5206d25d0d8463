package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/activity-hub/internal/model"
	"github.com/nhle/activity-hub/internal/session"
)

func anon() session.Session {
	return session.Session{State: session.StateAnonymous}
}

func authed(role model.Role) session.Session {
	return session.Session{
		State:    session.StateAuthenticated,
		Role:     role,
		Username: "someone",
	}
}

func TestDecide(t *testing.T) {
	managerOnly := Rule{
		RequireAuth:  true,
		AllowedRoles: []model.Role{model.RoleAdmin, model.RoleManager},
	}

	tests := []struct {
		name string
		s    session.Session
		rule Rule
		want Decision
	}{
		{"public view, anonymous", anon(), Rule{}, DecisionAllow},
		{"public view, authenticated", authed(model.RoleStudent), Rule{}, DecisionAllow},

		{"protected view, anonymous", anon(), Rule{RequireAuth: true}, DecisionRedirectLogin},
		{"protected view, authenticated", authed(model.RoleStudent), Rule{RequireAuth: true}, DecisionAllow},

		{"auth surface, anonymous", anon(), Rule{AuthSurface: true}, DecisionAllow},
		{"auth surface, authenticated", authed(model.RoleStudent), Rule{AuthSurface: true}, DecisionRedirectDashboard},

		{"role gate, allowed role", authed(model.RoleAdmin), managerOnly, DecisionAllow},
		{"role gate, second allowed role", authed(model.RoleManager), managerOnly, DecisionAllow},
		{"role gate, wrong role", authed(model.RoleStudent), managerOnly, DecisionDenyRole},
		{"role gate, anonymous redirects before deny", anon(), managerOnly, DecisionRedirectLogin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.s, tt.rule))
		})
	}
}

// Loading pre-empts every other branch, whatever the rule says.
func TestDecide_LoadingPreemptsAll(t *testing.T) {
	rules := []Rule{
		{},
		{RequireAuth: true},
		{AuthSurface: true},
		{RequireAuth: true, AllowedRoles: []model.Role{model.RoleAdmin}},
	}
	states := []session.State{session.StateUninitialized, session.StateLoading}

	for _, state := range states {
		for _, rule := range rules {
			got := Decide(session.Session{State: state}, rule)
			assert.Equal(t, DecisionLoading, got)
		}
	}
}

// An authenticated user on an auth surface is redirected to the dashboard
// even when a role restriction would also deny them.
func TestDecide_DashboardRedirectBeforeRoleCheck(t *testing.T) {
	rule := Rule{
		AuthSurface:  true,
		AllowedRoles: []model.Role{model.RoleAdmin},
	}
	got := Decide(authed(model.RoleStudent), rule)
	assert.Equal(t, DecisionRedirectDashboard, got)
}
