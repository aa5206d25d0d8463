package app

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/activity-hub/internal/api"
	"github.com/nhle/activity-hub/internal/guard"
	"github.com/nhle/activity-hub/internal/keys"
	"github.com/nhle/activity-hub/internal/model"
	"github.com/nhle/activity-hub/internal/navigate"
	"github.com/nhle/activity-hub/internal/notify"
	"github.com/nhle/activity-hub/internal/session"
	"github.com/nhle/activity-hub/internal/ui"
	"github.com/nhle/activity-hub/internal/ui/activitypage"
	"github.com/nhle/activity-hub/internal/ui/dashboard"
	"github.com/nhle/activity-hub/internal/ui/denied"
	"github.com/nhle/activity-hub/internal/ui/dropdown"
	helpview "github.com/nhle/activity-hub/internal/ui/help"
	"github.com/nhle/activity-hub/internal/ui/login"
	"github.com/nhle/activity-hub/internal/ui/manage"
	"github.com/nhle/activity-hub/internal/ui/notifdetail"
	"github.com/nhle/activity-hub/internal/ui/notiflist"
	"github.com/nhle/activity-hub/internal/ui/seriespage"
	"github.com/nhle/activity-hub/internal/ui/settings"
)

// sessionRestoredMsg is sent once startup session restoration completed.
type sessionRestoredMsg struct{}

// verifyResultMsg reports the post-login token verification.
type verifyResultMsg struct {
	err error
}

// unreadCountMsg carries the header unread counter.
type unreadCountMsg struct {
	count int
	err   error
}

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewLogin ViewState = iota
	ViewDashboard
	ViewNotifList
	ViewNotifDetail
	ViewActivity
	ViewSeries
	ViewManage
	ViewSettings
	ViewDenied
	ViewHelp
)

// viewRules maps each view to its access protection. The login surface is
// the only auth surface; the management console is role-restricted.
var viewRules = map[ViewState]guard.Rule{
	ViewLogin:       {AuthSurface: true},
	ViewDashboard:   {RequireAuth: true},
	ViewNotifList:   {RequireAuth: true},
	ViewNotifDetail: {RequireAuth: true},
	ViewActivity:    {RequireAuth: true},
	ViewSeries:      {RequireAuth: true},
	ViewManage: {
		RequireAuth:  true,
		AllowedRoles: []model.Role{model.RoleAdmin, model.RoleManager},
	},
	ViewSettings: {RequireAuth: true},
}

// Model is the root Bubble Tea model that manages view routing, the
// session lifecycle, and the cross-surface read-state protocol.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	sessions     *session.Manager
	client       *api.Client
	keys         *keys.KeyMap
	logger       *slog.Logger
	inflight     *notify.Inflight

	loginView     login.Model
	dashboardView dashboard.Model
	listView      notiflist.Model
	detailView    notifdetail.Model
	activityView  activitypage.Model
	seriesView    seriespage.Model
	manageView    manage.Model
	settingsView  settings.Model
	deniedView    denied.Model
	helpView      helpview.Model
	dropdown      dropdown.Model

	// listStale marks the list projection for a refetch the next time
	// the list page is shown, after another surface mutated read state.
	listStale bool

	// listStarted tracks whether the list page fetched at least once.
	listStarted bool

	unreadCount   int
	statusMessage string
	ready         bool
}

// New creates the root application model.
func New(sessions *session.Manager, client *api.Client, cfg *model.AppConfig, configPath string, logger *slog.Logger) Model {
	k := keys.DefaultKeyMap()
	inflight := notify.NewInflight()
	pageSize := cfg.Display.PageSize

	return Model{
		currentView:   ViewLogin,
		sessions:      sessions,
		client:        client,
		keys:          k,
		logger:        logger,
		inflight:      inflight,
		loginView:     login.New(80, 24),
		dashboardView: dashboard.New(80, 24),
		listView:      notiflist.New(client, inflight, k, logger, pageSize, 80, 24),
		detailView:    notifdetail.New(client, inflight, k, logger, 80, 24),
		activityView:  activitypage.New(client, k, logger, 80, 24),
		seriesView:    seriespage.New(client, k, logger, 80, 24),
		manageView:    manage.New(client, logger, 80, 24),
		settingsView:  settings.New(cfg, configPath, 80, 24),
		deniedView:    denied.New(k, 80, 24),
		helpView:      helpview.New(k, 80, 24),
		dropdown:      dropdown.New(client, inflight, k, logger, 80, 24),
	}
}

// Init restores the session from durable storage. Every view renders the
// loading placeholder until the restoration completes.
func (m Model) Init() tea.Cmd {
	sessions := m.sessions
	return func() tea.Msg {
		sessions.Restore()
		return sessionRestoredMsg{}
	}
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.loginView.SetSize(contentWidth, contentHeight)
		m.dashboardView.SetSize(contentWidth, contentHeight)
		m.listView.SetSize(contentWidth, contentHeight)
		m.detailView.SetSize(contentWidth, contentHeight)
		m.activityView.SetSize(contentWidth, contentHeight)
		m.seriesView.SetSize(contentWidth, contentHeight)
		m.manageView.SetSize(contentWidth, contentHeight)
		m.settingsView.SetSize(contentWidth, contentHeight)
		m.deniedView.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.dropdown.SetSize(contentWidth, contentHeight)
		return m.updateActiveView(msg)

	case sessionRestoredMsg:
		return m.applySession()

	case login.SubmitMsg:
		m.sessions.Login(msg.Token)
		snap := m.sessions.Snapshot()
		if !snap.Authenticated() {
			m.loginView.SetNotice("token not accepted, check it and retry")
			return m, nil
		}
		next, cmd := m.applySession()
		return next, tea.Batch(cmd, m.verifyToken())

	case verifyResultMsg:
		if msg.err != nil {
			if api.IsAuthError(msg.err) {
				return m.sessionExpired(msg.err)
			}
			// The session stays up on transport errors; the next
			// boundary call re-checks the token anyway.
			m.logger.Warn("token verification failed", "error", msg.err)
		}
		return m, nil

	case ui.SessionExpiredMsg:
		return m.sessionExpired(msg.Err)

	case ui.ReadStateChangedMsg:
		return m.readStateChanged(msg.Origin)

	case ui.NavigateMsg:
		return m.navigateTo(msg.Dest)

	case ui.InfoMsg:
		m.statusMessage = string(msg)
		return m, nil

	case unreadCountMsg:
		if msg.err != nil {
			if api.IsAuthError(msg.err) {
				return m.sessionExpired(msg.err)
			}
			m.logger.Error("fetching unread count", "error", msg.err)
			return m, nil
		}
		m.unreadCount = msg.count
		m.dashboardView.SetUnread(msg.count)
		return m, nil

	case notifdetail.BackMsg, activitypage.BackMsg, seriespage.BackMsg,
		settings.BackMsg, denied.BackMsg:
		return m.goBack()

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	return m.updateActiveView(msg)
}

// handleKeys processes global keys, then delegates to the active view.
// While the login form is focused only quit is global, so typing works.
func (m Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Any keystroke clears the transient status message.
	m.statusMessage = ""

	// The login and settings forms need every key for text input.
	if m.currentView == ViewLogin || m.currentView == ViewSettings {
		return m.updateActiveView(msg)
	}

	// The open dropdown captures input before the view below it.
	if m.dropdown.Opened() {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.dropdown, cmd = m.dropdown.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "?":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil
	}

	switch {
	case keyMatches(msg, m.keys.Dropdown):
		if m.sessions.Snapshot().Authenticated() {
			var cmd tea.Cmd
			m.dropdown, cmd = m.dropdown.Open()
			return m, cmd
		}
		return m, nil

	case keyMatches(msg, m.keys.Notifications):
		return m.showList()

	case keyMatches(msg, m.keys.Manage):
		if allowed, redirect := m.guardTo(ViewManage); !allowed {
			return m, redirect
		}
		return m, m.manageView.Init()

	case keyMatches(msg, m.keys.Settings):
		if allowed, redirect := m.guardTo(ViewSettings); !allowed {
			return m, redirect
		}
		m.settingsView.Reopen()
		return m, m.settingsView.Init()

	case keyMatches(msg, m.keys.Logout):
		m.sessions.Logout()
		m.unreadCount = 0
		m.currentView = ViewLogin
		m.loginView.Reset()
		m.loginView.SetNotice("")
		return m, m.loginView.Init()
	}

	return m.updateActiveView(msg)
}

// applySession routes to the right view after restore or login and
// propagates the session role to the notification surfaces.
func (m Model) applySession() (tea.Model, tea.Cmd) {
	snap := m.sessions.Snapshot()
	if !snap.Authenticated() {
		m.currentView = ViewLogin
		return m, m.loginView.Init()
	}

	m.listView.SetRole(snap.Role)
	m.detailView.SetRole(snap.Role)
	m.dropdown.SetRole(snap.Role)
	m.deniedView.SetRole(snap.Role)
	m.helpView.SetRole(snap.Role)
	m.dashboardView.SetIdentity(snap.Username, snap.Role)

	m.currentView = ViewDashboard
	return m, m.fetchUnreadCount()
}

// sessionExpired handles a server-side token rejection from any surface:
// erase the stored token and force navigation to the login surface.
func (m Model) sessionExpired(err error) (tea.Model, tea.Cmd) {
	m.logger.Warn("forcing re-login", "error", err)
	m.sessions.Invalidate()
	m.unreadCount = 0
	m.listStale = false
	m.listStarted = false
	m.dropdown = m.dropdown.Close()
	m.currentView = ViewLogin
	m.loginView.Reset()
	m.loginView.SetNotice("your session expired, sign in again")
	return m, m.loginView.Init()
}

// readStateChanged is the cross-surface consistency protocol: the header
// counter refetches immediately, the open dropdown refetches, and the
// list page is marked stale so it refetches when next shown. Surfaces
// that are neither open nor marked keep their last-fetched projection.
func (m Model) readStateChanged(origin navigate.Surface) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.fetchUnreadCount()}

	if origin != navigate.SurfaceList {
		if m.currentView == ViewNotifList {
			cmds = append(cmds, m.listView.Reload())
		} else {
			m.listStale = true
		}
	}
	if origin != navigate.SurfaceDropdown {
		if cmd := m.dropdown.Refresh(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// navigateTo routes a resolved destination: external URLs leave the
// application for the browser, in-app routes switch views.
func (m Model) navigateTo(dest navigate.Destination) (tea.Model, tea.Cmd) {
	m.dropdown = m.dropdown.Close()

	switch dest.Kind {
	case navigate.KindNone:
		m.statusMessage = dest.Message
		return m, nil

	case navigate.KindExternal:
		if err := navigate.OpenExternal(dest.Target); err != nil {
			m.logger.Error("opening external url", "url", dest.Target, "error", err)
			m.statusMessage = "could not open browser"
			return m, nil
		}
		m.statusMessage = "opened in browser"
		return m, nil
	}

	route, ok := parseRoute(dest.Target)
	if !ok {
		m.logger.Warn("no view for route", "target", dest.Target)
		m.statusMessage = "nothing to open for this notification"
		return m, nil
	}

	if allowed, redirect := m.guardTo(route.view); !allowed {
		return m, redirect
	}

	var cmd tea.Cmd
	switch route.view {
	case ViewNotifDetail:
		m.detailView, cmd = m.detailView.Load(route.id)
	case ViewActivity:
		m.activityView, cmd = m.activityView.Load(route.id)
	case ViewSeries:
		m.seriesView, cmd = m.seriesView.Load(route.id)
	}
	return m, cmd
}

// showList switches to the notification list page, refetching when the
// projection is stale or the page was never loaded.
func (m Model) showList() (tea.Model, tea.Cmd) {
	if allowed, redirect := m.guardTo(ViewNotifList); !allowed {
		return m, redirect
	}

	if !m.listStarted || m.listStale {
		m.listStarted = true
		m.listStale = false
		return m, m.listView.Reload()
	}
	return m, nil
}

// guardTo checks access to a view and performs the transition when
// allowed. When denied it routes to the decision's surface instead and
// reports false; the caller must not initialize the target view.
func (m *Model) guardTo(view ViewState) (bool, tea.Cmd) {
	decision := guard.Decide(m.sessions.Snapshot(), viewRules[view])
	m.logger.Debug("access decision", "view", int(view), "decision", decision.String())

	switch decision {
	case guard.DecisionLoading:
		// Restoration has not finished; stay where we are.
		return false, nil

	case guard.DecisionRedirectLogin:
		m.currentView = ViewLogin
		return false, m.loginView.Init()

	case guard.DecisionRedirectDashboard:
		m.currentView = ViewDashboard
		return false, m.fetchUnreadCount()

	case guard.DecisionDenyRole:
		m.previousView = m.currentView
		m.currentView = ViewDenied
		return false, nil
	}

	m.previousView = m.currentView
	m.currentView = view
	return true, nil
}

// goBack returns to the previous view, falling back to the dashboard.
func (m Model) goBack() (tea.Model, tea.Cmd) {
	target := m.previousView
	if target == m.currentView || target == ViewDenied {
		target = ViewDashboard
	}
	if allowed, redirect := m.guardTo(target); !allowed {
		return m, redirect
	}
	if target == ViewNotifList && m.listStale {
		m.listStale = false
		return m, m.listView.Reload()
	}
	return m, nil
}

// fetchUnreadCount refreshes the header unread badge.
func (m Model) fetchUnreadCount() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		count, err := client.UnreadCount(context.Background())
		return unreadCountMsg{count: count, err: err}
	}
}

// verifyToken asks the server whether the freshly logged-in token is
// accepted; a rejection surfaces like any other 401.
func (m Model) verifyToken() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		return verifyResultMsg{err: client.VerifyAuth(context.Background())}
	}
}

// updateActiveView dispatches a key message to the active view only.
// Every other message is broadcast to all stateful surfaces: each one
// ignores message types that are not its own, and a surface's request
// results must reach it even after the user navigated away, or its
// in-flight claims would never release.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if _, isKey := msg.(tea.KeyMsg); isKey {
		switch m.currentView {
		case ViewLogin:
			m.loginView, cmd = m.loginView.Update(msg)
		case ViewDashboard:
			m.dashboardView, cmd = m.dashboardView.Update(msg)
		case ViewNotifList:
			m.listView, cmd = m.listView.Update(msg)
		case ViewNotifDetail:
			m.detailView, cmd = m.detailView.Update(msg)
		case ViewActivity:
			m.activityView, cmd = m.activityView.Update(msg)
		case ViewSeries:
			m.seriesView, cmd = m.seriesView.Update(msg)
		case ViewManage:
			m.manageView, cmd = m.manageView.Update(msg)
		case ViewSettings:
			m.settingsView, cmd = m.settingsView.Update(msg)
		case ViewDenied:
			m.deniedView, cmd = m.deniedView.Update(msg)
		case ViewHelp:
			m.helpView, cmd = m.helpView.Update(msg)
		}
		return m, cmd
	}

	var cmds []tea.Cmd
	m.loginView, cmd = m.loginView.Update(msg)
	cmds = append(cmds, cmd)
	m.dropdown, cmd = m.dropdown.Update(msg)
	cmds = append(cmds, cmd)
	m.listView, cmd = m.listView.Update(msg)
	cmds = append(cmds, cmd)
	m.detailView, cmd = m.detailView.Update(msg)
	cmds = append(cmds, cmd)
	m.activityView, cmd = m.activityView.Update(msg)
	cmds = append(cmds, cmd)
	m.seriesView, cmd = m.seriesView.Update(msg)
	cmds = append(cmds, cmd)
	m.manageView, cmd = m.manageView.Update(msg)
	cmds = append(cmds, cmd)
	m.settingsView, cmd = m.settingsView.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}
