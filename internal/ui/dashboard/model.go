// Package dashboard is the landing view after authentication: the session
// identity, the unread badge, and the entry points to the other surfaces.
package dashboard

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/activity-hub/internal/model"
	"github.com/nhle/activity-hub/internal/theme"
)

// Model is the dashboard view component.
type Model struct {
	username string
	role     model.Role
	unread   int
	width    int
	height   int
}

// New creates a dashboard model.
func New(width, height int) Model {
	return Model{width: width, height: height}
}

// SetIdentity records who is signed in.
func (m *Model) SetIdentity(username string, role model.Role) {
	m.username = username
	m.role = role
}

// SetUnread records the unread counter shown on the dashboard.
func (m *Model) SetUnread(count int) {
	if count < 0 {
		count = 0
	}
	m.unread = count
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the dashboard (it is display-only; global
// keys are handled by the application).
func (m Model) Update(_ tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	unreadLine := "no unread notifications"
	if m.unread == 1 {
		unreadLine = "1 unread notification"
	} else if m.unread > 1 {
		unreadLine = fmt.Sprintf("%d unread notifications", m.unread)
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		theme.HeaderStyle.Render("Activity Hub"),
		"",
		fmt.Sprintf("Signed in as %s (%s)",
			m.username, theme.RoleStyle(m.role).Render(string(m.role))),
		unreadLine,
		"",
		theme.HelpStyle.Render("n notifications | N all notifications | L logout | q quit"),
	)
	return lipgloss.Place(m.width, m.height,
		lipgloss.Center, lipgloss.Center, content)
}
