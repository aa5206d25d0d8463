// Package login is the authentication surface. The platform issues
// bearer tokens through its web flow; this surface accepts a pasted token
// and hands it to the session manager.
package login

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/activity-hub/internal/theme"
)

// SubmitMsg carries the pasted token to the application.
type SubmitMsg struct {
	Token string
}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	token string
}

// Model is the Bubble Tea model for the login form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	notice string
	width  int
	height int
}

// New creates a new login form model.
func New(width, height int) Model {
	m := Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
	m.form = m.buildForm()
	return m
}

// buildForm constructs a fresh huh form bound to the heap bindings.
func (m Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Access token").
				Description("Paste the bearer token issued by the platform.").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.token),
		),
	).WithWidth(min(m.width-4, 72))
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetNotice shows a message above the form, e.g. after the session was
// invalidated by the server or a login attempt did not authenticate.
func (m *Model) SetNotice(notice string) {
	m.notice = notice
}

// Reset clears the form for a fresh login attempt.
func (m *Model) Reset() {
	m.fb.token = ""
	m.form = m.buildForm()
}

// Init starts the form.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the login form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		token := m.fb.token
		m.Reset()
		return m, func() tea.Msg {
			return SubmitMsg{Token: token}
		}
	}

	return m, cmd
}

// View renders the login form.
func (m Model) View() string {
	parts := []string{
		theme.HeaderStyle.Render("Sign in"),
		"",
	}
	if m.notice != "" {
		parts = append(parts, theme.ErrorStyle.Render(m.notice), "")
	}
	parts = append(parts, m.form.View())

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
