// Package notiflist is the full-page notification listing: server-side
// pagination, type/status filters, and the read-state actions. It owns
// its projection independently of the dropdown and detail surfaces.
package notiflist

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/activity-hub/internal/api"
	"github.com/nhle/activity-hub/internal/keys"
	"github.com/nhle/activity-hub/internal/model"
	"github.com/nhle/activity-hub/internal/navigate"
	"github.com/nhle/activity-hub/internal/notify"
	"github.com/nhle/activity-hub/internal/theme"
	"github.com/nhle/activity-hub/internal/ui"
)

// loadedMsg carries a fetched page and unread count.
type loadedMsg struct {
	page  *model.NotificationPage
	count int
	err   error
}

// mutationKind distinguishes the mutating operations a row can trigger.
type mutationKind int

const (
	mutationMarkRead mutationKind = iota
	mutationDelete
)

// mutationResultMsg reports the outcome of a single-record mutation.
type mutationResultMsg struct {
	kind     mutationKind
	id       int64
	detail   model.NotificationDetail
	rollback notify.Rollback
	navigate bool
	err      error
}

// markAllResultMsg reports the outcome of a mark-all-read call.
type markAllResultMsg struct {
	rollback notify.Rollback
	err      error
}

// statusFilters is the cycle order for the status filter ("" = all).
var statusFilters = []model.NotificationStatus{
	"",
	model.NotificationStatusUnread,
	model.NotificationStatusRead,
	model.NotificationStatusArchived,
}

// typeFilters is the cycle order for the type filter ("" = all).
var typeFilters = []model.NotificationType{
	"",
	model.NotificationTypeActivity,
	model.NotificationTypeSeries,
	model.NotificationTypeRegistration,
	model.NotificationTypeAnnouncement,
	model.NotificationTypeSystem,
}

// Model is the notification list page component.
type Model struct {
	list     list.Model
	client   *api.Client
	proj     *notify.Projection
	inflight *notify.Inflight
	keys     *keys.KeyMap
	logger   *slog.Logger
	role     model.Role
	filter   api.ListFilter
	statusIx int
	typeIx   int
	width    int
	height   int
}

// New creates a notification list model sharing the given in-flight arena.
func New(client *api.Client, inflight *notify.Inflight, k *keys.KeyMap, logger *slog.Logger, pageSize, width, height int) Model {
	delegate := ItemDelegate{inflight: inflight}
	l := list.New([]list.Item{}, delegate, width, height-2)
	l.Title = "Notifications"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	if pageSize <= 0 {
		pageSize = 10
	}

	return Model{
		list:     l,
		client:   client,
		proj:     &notify.Projection{},
		inflight: inflight,
		keys:     k,
		logger:   logger,
		filter: api.ListFilter{
			Size: pageSize,
			Sort: "createdAt,desc",
		},
		width:  width,
		height: height,
	}
}

// SetRole records the session role used for navigation resolution.
func (m *Model) SetRole(role model.Role) {
	m.role = role
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}

// Init loads the first page.
func (m Model) Init() tea.Cmd {
	return m.Reload()
}

// Reload refetches the current page and unread counter.
func (m Model) Reload() tea.Cmd {
	client := m.client
	filter := m.filter
	return func() tea.Msg {
		ctx := context.Background()
		count, err := client.UnreadCount(ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		page, err := client.ListNotifications(ctx, filter)
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{page: page, count: count}
	}
}

// FilterSummary describes the active filters for the status bar.
func (m Model) FilterSummary() string {
	var parts []string
	if m.filter.Status != "" {
		parts = append(parts, "status:"+string(m.filter.Status))
	}
	if m.filter.Type != "" {
		parts = append(parts, "type:"+string(m.filter.Type))
	}
	if m.proj.TotalPages() > 1 {
		parts = append(parts, fmt.Sprintf("page %d/%d",
			m.proj.Page()+1, m.proj.TotalPages()))
	}
	return strings.Join(parts, " | ")
}

// Update handles messages for the list page.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.err != nil {
			if api.IsAuthError(msg.err) {
				return m, func() tea.Msg {
					return ui.SessionExpiredMsg{Err: msg.err}
				}
			}
			m.logger.Error("loading notification list", "error", msg.err)
			m.proj.Clear()
			return m, m.syncItems()
		}
		m.proj.SetPage(msg.page)
		m.proj.SetUnread(msg.count)
		return m, m.syncItems()

	case mutationResultMsg:
		return m.handleMutationResult(msg)

	case markAllResultMsg:
		if msg.err != nil {
			if api.IsAuthError(msg.err) {
				return m, func() tea.Msg {
					return ui.SessionExpiredMsg{Err: msg.err}
				}
			}
			m.logger.Error("marking all notifications read", "error", msg.err)
			msg.rollback()
			return m, tea.Batch(m.syncItems(), func() tea.Msg {
				return ui.InfoMsg("could not mark all notifications as read")
			})
		}
		return m, tea.Batch(m.syncItems(), func() tea.Msg {
			return ui.ReadStateChangedMsg{Origin: navigate.SurfaceList}
		})

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleKeys processes key input for the list page.
func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		return m.openCurrent()

	case key.Matches(msg, m.keys.MarkRead):
		return m.markCurrent(false)

	case key.Matches(msg, m.keys.MarkAllRead):
		return m.markAll()

	case key.Matches(msg, m.keys.Delete):
		return m.deleteCurrent()

	case key.Matches(msg, m.keys.CycleStatus):
		m.statusIx = (m.statusIx + 1) % len(statusFilters)
		m.filter.Status = statusFilters[m.statusIx]
		m.filter.Page = 0
		return m, m.Reload()

	case key.Matches(msg, m.keys.CycleType):
		m.typeIx = (m.typeIx + 1) % len(typeFilters)
		m.filter.Type = typeFilters[m.typeIx]
		m.filter.Page = 0
		return m, m.Reload()

	case key.Matches(msg, m.keys.NextPage):
		if m.filter.Page < m.proj.TotalPages()-1 {
			m.filter.Page++
			return m, m.Reload()
		}
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		if m.filter.Page > 0 {
			m.filter.Page--
			return m, m.Reload()
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.Reload()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// selected returns the focused record.
func (m Model) selected() (model.Notification, bool) {
	item, ok := m.list.SelectedItem().(Item)
	if !ok {
		return model.Notification{}, false
	}
	return item.Record, true
}

// openCurrent marks the focused record read (when unread) and resolves
// its navigation target.
func (m Model) openCurrent() (Model, tea.Cmd) {
	record, ok := m.selected()
	if !ok || m.inflight.Active(record.ID) {
		return m, nil
	}

	if !record.Unread() {
		dest := navigate.Resolve(record.Detail(), m.role, navigate.SurfaceList)
		return m, func() tea.Msg {
			return ui.NavigateMsg{Dest: dest}
		}
	}
	return m.markRecord(record, true)
}

// markCurrent marks the focused record read without navigating.
func (m Model) markCurrent(followLink bool) (Model, tea.Cmd) {
	record, ok := m.selected()
	if !ok || m.inflight.Active(record.ID) || !record.Unread() {
		return m, nil
	}
	return m.markRecord(record, followLink)
}

// markRecord issues the mark-as-read call with an optimistic local update.
func (m Model) markRecord(record model.Notification, followLink bool) (Model, tea.Cmd) {
	m.inflight.Begin(record.ID)
	rollback := m.proj.MarkRead(record.ID, time.Now())

	client := m.client
	id := record.ID
	detail := record.Detail()
	return m, tea.Batch(m.syncItems(), func() tea.Msg {
		err := client.MarkRead(context.Background(), id)
		return mutationResultMsg{
			kind:     mutationMarkRead,
			id:       id,
			detail:   detail,
			rollback: rollback,
			navigate: followLink,
			err:      err,
		}
	})
}

// markAll resets the local counter and flips every cached record before
// the server call resolves.
func (m Model) markAll() (Model, tea.Cmd) {
	rollback := m.proj.MarkAllRead(time.Now())

	client := m.client
	return m, tea.Batch(m.syncItems(), func() tea.Msg {
		err := client.MarkAllRead(context.Background())
		return markAllResultMsg{rollback: rollback, err: err}
	})
}

// deleteCurrent removes the focused record.
func (m Model) deleteCurrent() (Model, tea.Cmd) {
	record, ok := m.selected()
	if !ok || m.inflight.Active(record.ID) {
		return m, nil
	}

	m.inflight.Begin(record.ID)
	rollback := m.proj.Remove(record.ID)

	client := m.client
	id := record.ID
	return m, tea.Batch(m.syncItems(), func() tea.Msg {
		err := client.DeleteNotification(context.Background(), id)
		return mutationResultMsg{
			kind:     mutationDelete,
			id:       id,
			rollback: rollback,
			err:      err,
		}
	})
}

// handleMutationResult settles a single-record mutation: releases the
// in-flight claim, rolls back on failure, and resolves navigation when
// the mutation was triggered by opening the record.
func (m Model) handleMutationResult(msg mutationResultMsg) (Model, tea.Cmd) {
	m.inflight.End(msg.id)

	if msg.err != nil {
		if api.IsAuthError(msg.err) {
			return m, func() tea.Msg {
				return ui.SessionExpiredMsg{Err: msg.err}
			}
		}
		m.logger.Error("notification mutation failed",
			"id", msg.id, "error", msg.err)
		msg.rollback()
		return m, tea.Batch(m.syncItems(), func() tea.Msg {
			return ui.InfoMsg("operation failed, change reverted")
		})
	}

	cmds := []tea.Cmd{
		m.syncItems(),
		func() tea.Msg {
			return ui.ReadStateChangedMsg{Origin: navigate.SurfaceList}
		},
	}
	if msg.kind == mutationMarkRead && msg.navigate {
		dest := navigate.Resolve(msg.detail, m.role, navigate.SurfaceList)
		cmds = append(cmds, func() tea.Msg {
			return ui.NavigateMsg{Dest: dest}
		})
	}
	return m, tea.Batch(cmds...)
}

// syncItems mirrors the projection into the bubbles list.
func (m *Model) syncItems() tea.Cmd {
	records := m.proj.Records()
	items := make([]list.Item, len(records))
	for i, record := range records {
		items[i] = Item{Record: record}
	}
	m.list.Title = fmt.Sprintf("Notifications (%d unread)", m.proj.Unread())
	return m.list.SetItems(items)
}

// View renders the list page.
func (m Model) View() string {
	return m.list.View()
}
