// Package help renders the key binding reference, grouped by concern and
// filtered to the surfaces the session's role can reach.
package help

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/activity-hub/internal/keys"
	"github.com/nhle/activity-hub/internal/model"
	"github.com/nhle/activity-hub/internal/theme"
)

// section is one titled group of bindings, rendered through bubbles/help.
type section struct {
	title    string
	bindings []key.Binding
}

func (s section) ShortHelp() []key.Binding  { return s.bindings }
func (s section) FullHelp() [][]key.Binding { return [][]key.Binding{s.bindings} }

// Model is the key binding reference view.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	role   model.Role
	width  int
	height int
}

// New creates a new help view model.
func New(k *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.ShowAll = true
	h.Width = width
	return Model{
		keys:   k,
		help:   h,
		width:  width,
		height: height,
	}
}

// SetRole filters the reference to what the role can reach.
func (m *Model) SetRole(role model.Role) {
	m.role = role
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// sections groups the bindings the way the surfaces use them: moving
// around, reaching the notification surfaces, mutating read state, and
// the session-level actions. The management console entry only appears
// for roles the guard would let through.
func (m Model) sections() []section {
	k := m.keys
	groups := []section{
		{"Navigate", []key.Binding{k.Up, k.Down, k.Select, k.Back, k.Quit}},
		{"Notifications", []key.Binding{k.Dropdown, k.Notifications, k.Open, k.Refresh}},
		{"Read state", []key.Binding{k.MarkRead, k.MarkAllRead, k.Delete}},
		{"Filters and paging", []key.Binding{k.CycleStatus, k.CycleType, k.PrevPage, k.NextPage}},
	}

	session := []key.Binding{k.Logout, k.Settings, k.Help}
	if m.role.Managerial() {
		session = append([]key.Binding{k.Manage}, session...)
	}
	return append(groups, section{"Session", session})
}

// View renders the grouped reference.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite)

	m.help.Width = m.width - 4

	parts := []string{theme.HeaderStyle.Render("Key Bindings"), ""}
	for _, s := range m.sections() {
		parts = append(parts, titleStyle.Render(s.title), m.help.View(s), "")
	}

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
