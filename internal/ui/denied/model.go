// Package denied renders the inline access-denied view shown when the
// session's role is not allowed on a surface. It is rendered content with
// a back action, not a redirect.
package denied

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/activity-hub/internal/keys"
	"github.com/nhle/activity-hub/internal/model"
	"github.com/nhle/activity-hub/internal/theme"
)

// BackMsg signals the parent to navigate back to the previous view.
type BackMsg struct{}

// Model is the access-denied view component.
type Model struct {
	keys   *keys.KeyMap
	role   model.Role
	width  int
	height int
}

// New creates an access-denied view model.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{
		keys:   k,
		width:  width,
		height: height,
	}
}

// SetRole records the role that was denied, for the message.
func (m *Model) SetRole(role model.Role) {
	m.role = role
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the denied view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, m.keys.Back) {
			return m, func() tea.Msg {
				return BackMsg{}
			}
		}
	}
	return m, nil
}

// View renders the denied view.
func (m Model) View() string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		theme.ErrorStyle.Render("Access denied"),
		"",
		fmt.Sprintf("Your role (%s) does not allow this page.", m.role),
		theme.HelpStyle.Render("esc back"),
	)
	return lipgloss.Place(m.width, m.height,
		lipgloss.Center, lipgloss.Center, content)
}
