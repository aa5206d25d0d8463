package ui

import "github.com/nhle/activity-hub/internal/navigate"

// SessionExpiredMsg is emitted when any server call reports the token is
// no longer accepted. The application erases the stored token and forces
// navigation to the login surface.
type SessionExpiredMsg struct {
	Err error
}

// ReadStateChangedMsg is broadcast after any surface changes notification
// read state. Other surfaces mark their projections stale and refetch the
// next time they are shown.
type ReadStateChangedMsg struct {
	Origin navigate.Surface
}

// NavigateMsg asks the application to route to a resolved destination.
type NavigateMsg struct {
	Dest navigate.Destination
}

// InfoMsg carries a short informational message for the status bar.
type InfoMsg string
