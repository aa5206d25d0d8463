package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/activity-hub/internal/model"
	"github.com/nhle/activity-hub/internal/theme"
)

// Layout manages the multi-panel terminal layout dimensions.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
// HeaderHeight and StatusBarHeight default to 1.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the main content area,
// accounting for the header and status bar.
func (l Layout) ContentHeight() int {
	return l.Height - l.HeaderHeight - l.StatusBarHeight
}

// Identity describes who is signed in, rendered at the right edge of the
// header alongside the unread badge.
type Identity struct {
	Username string
	Role     model.Role
	Unread   int
}

// RenderHeader renders the top header bar: application title on the left,
// session identity and unread badge on the right.
func (l Layout) RenderHeader(title string, id Identity) string {
	titleRendered := theme.HeaderStyle.Render(title)

	right := ""
	if id.Username != "" {
		right = fmt.Sprintf("%s (%s)", id.Username,
			theme.RoleStyle(id.Role).Render(string(id.Role)))
	}
	if id.Unread > 0 {
		badge := theme.UnreadBadgeStyle.Render(fmt.Sprintf("%d", id.Unread))
		if right != "" {
			right = badge + " " + right
		} else {
			right = badge
		}
	}
	rightRendered := theme.HeaderStyle.Render(right)

	gap := l.Width -
		lipgloss.Width(titleRendered) -
		lipgloss.Width(rightRendered)
	if gap < 0 {
		gap = 0
	}

	filler := theme.HeaderStyle.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(theme.HeaderStyle.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		titleRendered,
		filler,
		rightRendered,
	)
}

// RenderStatusBar renders the bottom status bar with keyboard hints.
func (l Layout) RenderStatusBar(hints string) string {
	rendered := theme.StatusBarStyle.Render(hints)

	gap := l.Width - lipgloss.Width(rendered)
	if gap < 0 {
		gap = 0
	}

	filler := theme.StatusBarStyle.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(theme.StatusBarStyle.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, filler)
}

// RenderWithFrame composes a full terminal view by vertically joining
// the header, content area, and status bar.
func (l Layout) RenderWithFrame(
	header string,
	content string,
	statusBar string,
) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		content,
		statusBar,
	)
}

// Overlay places a panel in the top-right corner of the content area,
// used for the notification dropdown.
func (l Layout) Overlay(content string, panel string) string {
	return lipgloss.PlaceHorizontal(
		l.Width, lipgloss.Right,
		panel,
		lipgloss.WithWhitespaceChars(" "),
	) + "\n" + content
}
