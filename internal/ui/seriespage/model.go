// Package seriespage is the read-only series detail view reached when a
// notification resolves to a series route.
package seriespage

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

// loadedMsg carries the fetched series.
type loadedMsg struct {
	series *model.Series
	err    error
}

// Model is the series detail view component.
type Model struct {
	series   *model.Series
	viewport viewport.Model
	client   *api.Client
	keys     *keys.KeyMap
	logger   *slog.Logger
	loading  bool
	width    int
	height   int
}

// New creates a series detail model.
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

// Load fetches the series and shows the loading placeholder.
func (m Model) Load(id int64) (Model, tea.Cmd) {
	m.loading = true
	m.series = nil

	client := m.client
	return m, func() tea.Msg {
		series, err := client.GetSeries(context.Background(), id)
		return loadedMsg{series: series, err: err}
	}
}

// Update handles messages for the series view.
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
			m.logger.Error("loading series", "error", msg.err)
			m.viewport.SetContent(theme.ErrorStyle.Render("could not load series"))
			return m, nil
		}
		m.series = msg.series
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

// View renders the series view.
func (m Model) View() string {
	if m.loading {
		return theme.HelpStyle.Render("loading series...")
	}
	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(m.viewport.View())
}

// renderContent formats the series for the viewport.
func (m Model) renderContent() string {
	if m.series == nil {
		return ""
	}
	s := m.series

	var b strings.Builder
	b.WriteString(theme.HeaderStyle.Render(s.Title))
	b.WriteString("\n\n")
	if s.Status != "" {
		b.WriteString(fmt.Sprintf("Status: %s\n", s.Status))
	}
	if s.Activities > 0 {
		b.WriteString(fmt.Sprintf("Activities: %d\n", s.Activities))
	}
	if s.Description != "" {
		b.WriteString("\n")
		b.WriteString(s.Description)
		b.WriteString("\n")
	}
	return b.String()
}
