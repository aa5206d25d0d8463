package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/activity-hub/internal/theme"
	"github.com/nhle/activity-hub/internal/ui"
)

func keyMatches(msg tea.KeyMsg, binding key.Binding) bool {
	return key.Matches(msg, binding)
}

// View renders the full terminal frame: header, active view, status bar,
// with the notification dropdown overlaid when open.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	header := m.layout.RenderHeader("Activity Hub", m.identity())
	content := m.contentView()
	statusBar := m.layout.RenderStatusBar(m.statusHints())

	if m.dropdown.Opened() {
		content = m.layout.Overlay(content, m.dropdown.View())
	}

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// identity builds the header identity block from the current session.
func (m Model) identity() ui.Identity {
	snap := m.sessions.Snapshot()
	if !snap.Authenticated() {
		return ui.Identity{}
	}
	return ui.Identity{
		Username: snap.Username,
		Role:     snap.Role,
		Unread:   m.unreadCount,
	}
}

func (m Model) contentView() string {
	if m.sessions.Snapshot().Loading() {
		return theme.HelpStyle.Render("restoring session...")
	}

	switch m.currentView {
	case ViewLogin:
		return m.loginView.View()
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewNotifList:
		return m.listView.View()
	case ViewNotifDetail:
		return m.detailView.View()
	case ViewActivity:
		return m.activityView.View()
	case ViewSeries:
		return m.seriesView.View()
	case ViewManage:
		return m.manageView.View()
	case ViewSettings:
		return m.settingsView.View()
	case ViewDenied:
		return m.deniedView.View()
	case ViewHelp:
		return m.helpView.View()
	}
	return ""
}

// statusHints picks the status bar text: a transient status message when
// one is pending, otherwise per-view keyboard hints.
func (m Model) statusHints() string {
	if m.statusMessage != "" {
		return m.statusMessage
	}

	if m.dropdown.Opened() {
		return "enter open | esc close | ? help"
	}

	switch m.currentView {
	case ViewLogin:
		return "enter submit | ctrl+c quit"
	case ViewSettings:
		return "enter save | esc cancel"
	case ViewNotifList:
		return m.listView.FilterSummary() + " | enter open | m mark | a mark all | d delete | ? help"
	case ViewNotifDetail:
		return "o open link | esc back | ? help"
	case ViewActivity, ViewSeries, ViewDenied:
		return "esc back | ? help"
	case ViewHelp:
		return "? close help"
	}
	return "n dropdown | N notifications | ? help | q quit"
}
