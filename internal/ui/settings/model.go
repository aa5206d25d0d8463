// Package settings is the configuration editor surface. It edits the
// on-disk configuration; connection changes take effect on the next start.
package settings

import (
	"fmt"
	"net/url"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/activity-hub/internal/model"
	"github.com/nhle/activity-hub/internal/theme"
)

// BackMsg signals the parent to navigate back to the previous view.
type BackMsg struct{}

// savedMsg reports the result of writing the configuration file.
type savedMsg struct {
	err error
}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	baseURL       string
	timeoutSec    string
	pageSize      string
	roleHeuristic bool
}

// Model is the settings editor view component.
type Model struct {
	form       *huh.Form
	fb         *formBindings
	configPath string
	statusMsg  string
	width      int
	height     int
}

// New creates a settings editor seeded from the loaded configuration.
func New(cfg *model.AppConfig, configPath string, width, height int) Model {
	m := Model{
		fb: &formBindings{
			baseURL:       cfg.Server.BaseURL,
			timeoutSec:    strconv.Itoa(cfg.Server.TimeoutSec),
			pageSize:      strconv.Itoa(cfg.Display.PageSize),
			roleHeuristic: cfg.Auth.RoleHeuristic,
		},
		configPath: configPath,
		width:      width,
		height:     height,
	}
	m.form = m.buildForm()
	return m
}

func (m Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Server URL").
				Description("Root URL of the platform server.").
				Validate(validateURL).
				Value(&m.fb.baseURL),
			huh.NewInput().
				Title("Request timeout (seconds)").
				Validate(validatePositiveInt).
				Value(&m.fb.timeoutSec),
			huh.NewInput().
				Title("Notifications per page").
				Validate(validatePositiveInt).
				Value(&m.fb.pageSize),
			huh.NewConfirm().
				Title("Role heuristic").
				Description("Guess a role from the username when the token has no role claim.").
				Affirmative("On").
				Negative("Off").
				Value(&m.fb.roleHeuristic),
		),
	).WithWidth(min(m.width-4, 72))
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Reopen rebuilds the form for re-entry, since a completed or aborted
// huh form does not accept further input.
func (m *Model) Reopen() {
	m.statusMsg = ""
	m.form = m.buildForm()
}

// Init starts the form.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the settings editor.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(savedMsg); ok {
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("could not save: %v", msg.err)
			return m, nil
		}
		m.statusMsg = "saved, connection changes apply on next start"
		return m, func() tea.Msg { return BackMsg{} }
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m, m.save()
	case huh.StateAborted:
		return m, func() tea.Msg { return BackMsg{} }
	}

	return m, cmd
}

// save writes the edited configuration to disk. Field validation already
// ran, so the conversions cannot fail.
func (m Model) save() tea.Cmd {
	timeoutSec, _ := strconv.Atoi(m.fb.timeoutSec)
	pageSize, _ := strconv.Atoi(m.fb.pageSize)
	cfg := &model.AppConfig{
		Server: model.ServerConfig{
			BaseURL:    m.fb.baseURL,
			TimeoutSec: timeoutSec,
		},
		Auth: model.AuthConfig{
			RoleHeuristic: m.fb.roleHeuristic,
		},
		Display: model.DisplayConfig{
			Theme:    "default",
			PageSize: pageSize,
		},
	}

	path := m.configPath
	return func() tea.Msg {
		return savedMsg{err: model.SaveConfig(path, cfg)}
	}
}

// View renders the settings editor.
func (m Model) View() string {
	parts := []string{
		theme.HeaderStyle.Render("Settings"),
		"",
	}
	if m.statusMsg != "" {
		parts = append(parts, theme.ErrorStyle.Render(m.statusMsg), "")
	}
	parts = append(parts, m.form.View())

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func validateURL(s string) error {
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("enter a full URL including the scheme")
	}
	return nil
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}
