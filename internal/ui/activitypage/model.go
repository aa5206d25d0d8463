// Package activitypage is the read-only activity detail view reached when
// a notification resolves to an activity route.
package activitypage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/activity-hub/internal/api"
	"github.com/nhle/activity-hub/internal/keys"
	"github.com/nhle/activity-hub/internal/model"
	"github.com/nhle/activity-hub/internal/theme"
	"github.com/nhle/activity-hub/internal/ui"
)

// BackMsg signals the parent to navigate back to the previous view.
type BackMsg struct{}

// loadedMsg carries the fetched activity.
type loadedMsg struct {
	activity *model.Activity
	err      error
}

// Model is the activity detail view component.
type Model struct {
	activity *model.Activity
	viewport viewport.Model
	client   *api.Client
	keys     *keys.KeyMap
	logger   *slog.Logger
	loading  bool
	width    int
	height   int
}

// New creates an activity detail model.
func New(client *api.Client, k *keys.KeyMap, logger *slog.Logger, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		client:   client,
		keys:     k,
		logger:   logger,
		width:    width,
		height:   height,
	}
}

// SetSize updates the viewport dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
}

// Load fetches the activity and shows the loading placeholder.
func (m Model) Load(id int64) (Model, tea.Cmd) {
	m.loading = true
	m.activity = nil

	client := m.client
	return m, func() tea.Msg {
		activity, err := client.GetActivity(context.Background(), id)
		return loadedMsg{activity: activity, err: err}
	}
}

// Update handles messages for the activity view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			if api.IsAuthError(msg.err) {
				return m, func() tea.Msg {
					return ui.SessionExpiredMsg{Err: msg.err}
				}
			}
			m.logger.Error("loading activity", "error", msg.err)
			m.viewport.SetContent(theme.ErrorStyle.Render("could not load activity"))
			return m, nil
		}
		m.activity = msg.activity
		m.viewport.SetContent(m.renderContent())
		m.viewport.GotoTop()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Back) {
			return m, func() tea.Msg {
				return BackMsg{}
			}
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the activity view.
func (m Model) View() string {
	if m.loading {
		return theme.HelpStyle.Render("loading activity...")
	}
	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(m.viewport.View())
}

// renderContent formats the activity for the viewport.
func (m Model) renderContent() string {
	if m.activity == nil {
		return ""
	}
	a := m.activity

	var b strings.Builder
	b.WriteString(theme.HeaderStyle.Render(a.Title))
	b.WriteString("\n\n")
	if a.Status != "" {
		b.WriteString(fmt.Sprintf("Status: %s\n", a.Status))
	}
	if a.Location != "" {
		b.WriteString(fmt.Sprintf("Location: %s\n", a.Location))
	}
	if a.StartTime != nil {
		b.WriteString(fmt.Sprintf("Starts: %s\n", a.StartTime.Format("2006-01-02 15:04")))
	}
	if a.EndTime != nil {
		b.WriteString(fmt.Sprintf("Ends: %s\n", a.EndTime.Format("2006-01-02 15:04")))
	}
	if a.Description != "" {
		b.WriteString("\n")
		b.WriteString(a.Description)
		b.WriteString("\n")
	}
	return b.String()
}
