// Package dropdown is the compact notification overlay: the unread
// counter plus the most recent notifications, opened from anywhere in the
// application. It owns its projection; the list and detail surfaces keep
// their own.
package dropdown

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
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

// recentSize is how many notifications the overlay shows.
const recentSize = 5

// loadedMsg carries the fetched unread count and recent page.
type loadedMsg struct {
	page  *model.NotificationPage
	count int
	err   error
}

// markResultMsg reports the outcome of a mark-as-read call issued from
// the overlay.
type markResultMsg struct {
	id       int64
	detail   model.NotificationDetail
	rollback notify.Rollback
	err      error
}

// Model is the notification dropdown overlay component.
type Model struct {
	client   *api.Client
	proj     *notify.Projection
	inflight *notify.Inflight
	keys     *keys.KeyMap
	logger   *slog.Logger
	role     model.Role
	cursor   int
	open     bool
	loading  bool
	width    int
	height   int
}

// New creates a dropdown model sharing the given in-flight arena.
func New(client *api.Client, inflight *notify.Inflight, k *keys.KeyMap, logger *slog.Logger, width, height int) Model {
	return Model{
		client:   client,
		proj:     &notify.Projection{},
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

// SetSize updates the terminal dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Opened reports whether the overlay is currently shown.
func (m Model) Opened() bool {
	return m.open
}

// Unread returns the overlay's cached unread counter.
func (m Model) Unread() int {
	return m.proj.Unread()
}

// Open shows the overlay and fetches the counter and recent page.
func (m Model) Open() (Model, tea.Cmd) {
	m.open = true
	m.loading = true
	m.cursor = 0
	return m, m.load()
}

// Close hides the overlay.
func (m Model) Close() Model {
	m.open = false
	return m
}

// load fetches the unread count and the most recent notifications.
func (m Model) load() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx := context.Background()
		count, err := client.UnreadCount(ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		page, err := client.ListNotifications(ctx, api.ListFilter{
			Size: recentSize,
			Sort: "createdAt,desc",
		})
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{page: page, count: count}
	}
}

// Refresh refetches the overlay's projection while it is open.
func (m Model) Refresh() tea.Cmd {
	if !m.open {
		return nil
	}
	return m.load()
}

// Update handles messages for the overlay.
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
			m.logger.Error("loading notifications for dropdown", "error", msg.err)
			m.proj.Clear()
			return m, nil
		}
		m.proj.SetPage(msg.page)
		m.proj.SetUnread(msg.count)
		if m.cursor >= len(m.proj.Records()) {
			m.cursor = 0
		}
		return m, nil

	case markResultMsg:
		m.inflight.End(msg.id)
		if msg.err != nil {
			if api.IsAuthError(msg.err) {
				return m, func() tea.Msg {
					return ui.SessionExpiredMsg{Err: msg.err}
				}
			}
			m.logger.Error("marking notification read", "id", msg.id, "error", msg.err)
			msg.rollback()
			return m, func() tea.Msg {
				return ui.InfoMsg("could not mark notification as read")
			}
		}
		dest := navigate.Resolve(msg.detail, m.role, navigate.SurfaceDropdown)
		return m, tea.Batch(
			func() tea.Msg {
				return ui.ReadStateChangedMsg{Origin: navigate.SurfaceDropdown}
			},
			func() tea.Msg {
				return ui.NavigateMsg{Dest: dest}
			},
		)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.proj.Records())-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, m.keys.Select):
			return m.selectCurrent()

		case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Dropdown):
			m.open = false
			return m, nil
		}
	}

	return m, nil
}

// selectCurrent marks the focused notification read (when unread) and
// resolves its navigation target. Clicks on a record with a request in
// flight are ignored.
func (m Model) selectCurrent() (Model, tea.Cmd) {
	records := m.proj.Records()
	if m.cursor >= len(records) {
		return m, nil
	}
	record := records[m.cursor]
	if m.inflight.Active(record.ID) {
		return m, nil
	}
	detail := record.Detail()

	if !record.Unread() {
		dest := navigate.Resolve(detail, m.role, navigate.SurfaceDropdown)
		return m, func() tea.Msg {
			return ui.NavigateMsg{Dest: dest}
		}
	}

	m.inflight.Begin(record.ID)
	rollback := m.proj.MarkRead(record.ID, time.Now())

	client := m.client
	id := record.ID
	return m, func() tea.Msg {
		err := client.MarkRead(context.Background(), id)
		return markResultMsg{id: id, detail: detail, rollback: rollback, err: err}
	}
}

// View renders the overlay panel.
func (m Model) View() string {
	if !m.open {
		return ""
	}

	title := fmt.Sprintf("Notifications (%d unread)", m.proj.Unread())
	lines := []string{theme.HeaderStyle.Render(title)}

	switch {
	case m.loading:
		lines = append(lines, theme.HelpStyle.Render("loading..."))
	case len(m.proj.Records()) == 0:
		lines = append(lines, theme.HelpStyle.Render("no notifications"))
	default:
		for i, record := range m.proj.Records() {
			lines = append(lines, m.renderItem(i, record))
		}
	}

	lines = append(lines, theme.HelpStyle.Render("enter open | esc close"))
	return theme.DropdownStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left, lines...),
	)
}

// renderItem renders one overlay row.
func (m Model) renderItem(index int, record model.Notification) string {
	marker := " "
	if record.Unread() {
		marker = "●"
	}
	line := fmt.Sprintf("%s %s", marker, record.Title)

	switch {
	case m.inflight.Active(record.ID):
		return theme.DisabledItemStyle.Render(line)
	case index == m.cursor:
		return theme.SelectedItemStyle.Render(line)
	default:
		return theme.ListItemStyle.Render(line)
	}
}
