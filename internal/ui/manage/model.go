// Package manage is the management console entry surface, restricted to
// ADMIN and MANAGER roles by the access guard.
package manage

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/activity-hub/internal/api"
	"github.com/nhle/activity-hub/internal/model"
	"github.com/nhle/activity-hub/internal/theme"
	"github.com/nhle/activity-hub/internal/ui"
)

// loadedMsg carries the notification totals shown on the console.
type loadedMsg struct {
	total  int64
	unread int
	err    error
}

// Model is the management console view component.
type Model struct {
	client  *api.Client
	logger  *slog.Logger
	total   int64
	unread  int
	loading bool
	width   int
	height  int
}

// New creates a management console model.
func New(client *api.Client, logger *slog.Logger, width, height int) Model {
	return Model{
		client:  client,
		logger:  logger,
		loading: true,
		width:   width,
		height:  height,
	}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Init loads the notification totals.
func (m Model) Init() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx := context.Background()
		unread, err := client.UnreadCount(ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		page, err := client.ListNotifications(ctx, api.ListFilter{Size: 1})
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{total: page.TotalElements, unread: unread}
	}
}

// Update handles messages for the console.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(loadedMsg); ok {
		m.loading = false
		if msg.err != nil {
			if api.IsAuthError(msg.err) {
				return m, func() tea.Msg {
					return ui.SessionExpiredMsg{Err: msg.err}
				}
			}
			m.logger.Error("loading management totals", "error", msg.err)
			return m, nil
		}
		m.total = msg.total
		m.unread = msg.unread
		return m, nil
	}
	return m, nil
}

// View renders the console.
func (m Model) View() string {
	body := fmt.Sprintf("%d notifications, %d unread", m.total, m.unread)
	if m.loading {
		body = "loading..."
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		theme.HeaderStyle.Render("Management console"),
		"",
		body,
		"",
		theme.HelpStyle.Render(fmt.Sprintf(
			"visible to %s and %s | esc back", model.RoleAdmin, model.RoleManager)),
	)
	return lipgloss.Place(m.width, m.height,
		lipgloss.Center, lipgloss.Center, content)
}
