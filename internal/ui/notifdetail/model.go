// Package notifdetail is the single-notification detail page. The record
// arrives with its metadata parsed; opening an unread record marks it
// read. Unlike the dropdown and list surfaces, an empty navigation chain
// here reports "no link available" instead of falling back to this page.
package notifdetail

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/activity-hub/internal/api"
	"github.com/nhle/activity-hub/internal/keys"
	"github.com/nhle/activity-hub/internal/model"
	"github.com/nhle/activity-hub/internal/navigate"
	"github.com/nhle/activity-hub/internal/notify"
	"github.com/nhle/activity-hub/internal/theme"
	"github.com/nhle/activity-hub/internal/ui"
)

// BackMsg signals the parent to navigate back to the previous view.
type BackMsg struct{}

// loadedMsg carries the fetched notification detail.
type loadedMsg struct {
	detail *model.NotificationDetail
	err    error
}

// markResultMsg reports the outcome of the mark-as-read issued on open.
type markResultMsg struct {
	id  int64
	err error
}

// Model is the notification detail view component.
type Model struct {
	detail   *model.NotificationDetail
	viewport viewport.Model
	client   *api.Client
	inflight *notify.Inflight
	keys     *keys.KeyMap
	logger   *slog.Logger
	role     model.Role
	loading  bool
	info     string
	width    int
	height   int
}

// New creates a detail view model sharing the given in-flight arena.
func New(client *api.Client, inflight *notify.Inflight, k *keys.KeyMap, logger *slog.Logger, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		client:   client,
		inflight: inflight,
		keys:     k,
		logger:   logger,
		width:    width,
		height:   height,
	}
}

// SetRole records the session role used for navigation resolution.
func (m *Model) SetRole(role model.Role) {
	m.role = role
}

// SetSize updates the viewport dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
}

// Load fetches the record and shows the loading placeholder.
func (m Model) Load(id int64) (Model, tea.Cmd) {
	m.loading = true
	m.detail = nil
	m.info = ""

	client := m.client
	return m, func() tea.Msg {
		detail, err := client.GetNotification(context.Background(), id)
		return loadedMsg{detail: detail, err: err}
	}
}

// Update handles messages for the detail view.
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
			m.logger.Error("loading notification detail", "error", msg.err)
			m.info = "could not load notification"
			m.viewport.SetContent(theme.ErrorStyle.Render(m.info))
			return m, nil
		}
		m.detail = msg.detail
		m.viewport.SetContent(m.renderContent())
		m.viewport.GotoTop()
		return m, m.markReadOnOpen()

	case markResultMsg:
		m.inflight.End(msg.id)
		if msg.err != nil {
			if api.IsAuthError(msg.err) {
				return m, func() tea.Msg {
					return ui.SessionExpiredMsg{Err: msg.err}
				}
			}
			m.logger.Error("marking notification read", "id", msg.id, "error", msg.err)
			if m.detail != nil && m.detail.ID == msg.id {
				m.detail.Status = model.NotificationStatusUnread
				m.detail.ReadAt = nil
				m.viewport.SetContent(m.renderContent())
			}
			return m, nil
		}
		return m, func() tea.Msg {
			return ui.ReadStateChangedMsg{Origin: navigate.SurfaceDetail}
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg {
				return BackMsg{}
			}

		case key.Matches(msg, m.keys.Open), key.Matches(msg, m.keys.Select):
			return m.openTarget()
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// markReadOnOpen flips an unread record optimistically and issues the
// server call. The record is claimed in the shared arena so the other
// surfaces cannot race a second mutation for it.
func (m *Model) markReadOnOpen() tea.Cmd {
	if m.detail == nil || !m.detail.Unread() {
		return nil
	}
	if !m.inflight.Begin(m.detail.ID) {
		return nil
	}

	readAt := time.Now()
	m.detail.Status = model.NotificationStatusRead
	m.detail.ReadAt = &readAt
	m.viewport.SetContent(m.renderContent())

	client := m.client
	id := m.detail.ID
	return func() tea.Msg {
		err := client.MarkRead(context.Background(), id)
		return markResultMsg{id: id, err: err}
	}
}

// openTarget resolves the navigation target. On this surface an empty
// chain is reported to the user instead of navigating.
func (m Model) openTarget() (Model, tea.Cmd) {
	if m.detail == nil {
		return m, nil
	}

	dest := navigate.Resolve(*m.detail, m.role, navigate.SurfaceDetail)
	if dest.Kind == navigate.KindNone {
		m.info = dest.Message
		return m, func() tea.Msg {
			return ui.InfoMsg(dest.Message)
		}
	}
	return m, func() tea.Msg {
		return ui.NavigateMsg{Dest: dest}
	}
}

// View renders the detail view.
func (m Model) View() string {
	if m.loading {
		return theme.HelpStyle.Render("loading notification...")
	}
	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(m.viewport.View())
}

// renderContent formats the record for the viewport.
func (m Model) renderContent() string {
	if m.detail == nil {
		return ""
	}
	d := m.detail

	var b strings.Builder
	b.WriteString(theme.HeaderStyle.Render(d.Title))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s %s\n\n",
		theme.TypeStyle(d.Type).Render(string(d.Type)),
		theme.StatusStyle(d.Status).Render(string(d.Status))))

	if d.Content != "" {
		b.WriteString(d.Content)
		b.WriteString("\n\n")
	}

	if d.Meta.ActivityTitle != "" {
		b.WriteString(fmt.Sprintf("Activity: %s\n", d.Meta.ActivityTitle))
	}
	if d.Meta.SeriesTitle != "" {
		b.WriteString(fmt.Sprintf("Series: %s\n", d.Meta.SeriesTitle))
	}
	if d.ReadAt != nil {
		b.WriteString(theme.HelpStyle.Render(
			fmt.Sprintf("read %s", d.ReadAt.Format("2006-01-02 15:04"))))
		b.WriteString("\n")
	}
	if m.info != "" {
		b.WriteString("\n")
		b.WriteString(theme.ErrorStyle.Render(m.info))
	}

	return b.String()
}
