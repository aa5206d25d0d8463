package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/activity-hub/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// DetailPanelStyle wraps the detail view content area.
var DetailPanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// DropdownStyle frames the notification dropdown overlay.
var DropdownStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBlue)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// DisabledItemStyle dims a row whose record has a request in flight.
var DisabledItemStyle = lipgloss.NewStyle().
	PaddingLeft(2).
	Foreground(ColorSubtle)

// UnreadBadgeStyle renders the unread counter badge in the header.
var UnreadBadgeStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorRed).
	Padding(0, 1)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// ErrorStyle renders inline error and denial messages.
var ErrorStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed)

// BorderStyle provides a standard rounded border for panels.
var BorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// StatusStyle returns a color-coded style for a notification read state.
func StatusStyle(status model.NotificationStatus) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch status {
	case model.NotificationStatusUnread:
		return base.Foreground(ColorYellow)
	case model.NotificationStatusRead:
		return base.Foreground(ColorGreen)
	case model.NotificationStatusArchived:
		return base.Foreground(ColorGray)
	default:
		return base.Foreground(ColorGray)
	}
}

// TypeStyle returns a color-coded style for a notification category.
func TypeStyle(t model.NotificationType) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch t {
	case model.NotificationTypeActivity:
		return base.Foreground(ColorBlue)
	case model.NotificationTypeSeries:
		return base.Foreground(ColorMagenta)
	case model.NotificationTypeRegistration:
		return base.Foreground(ColorGreen)
	case model.NotificationTypeAnnouncement:
		return base.Foreground(ColorOrange)
	case model.NotificationTypeSystem:
		return base.Foreground(ColorGray)
	default:
		return base.Foreground(ColorGray)
	}
}

// RoleStyle returns a color-coded style for a user role.
func RoleStyle(role model.Role) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch role {
	case model.RoleAdmin:
		return base.Foreground(ColorRed)
	case model.RoleManager:
		return base.Foreground(ColorOrange)
	case model.RoleStudent:
		return base.Foreground(ColorBlue)
	default:
		return base.Foreground(ColorGray)
	}
}
