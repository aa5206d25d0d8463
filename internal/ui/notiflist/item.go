package notiflist

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/activity-hub/internal/model"
	"github.com/nhle/activity-hub/internal/notify"
	"github.com/nhle/activity-hub/internal/theme"
)

// Item wraps a model.Notification so it can be used in a bubbles/list.
type Item struct {
	Record model.Notification
}

// FilterValue returns the string used for fuzzy filtering.
func (i Item) FilterValue() string { return i.Record.Title }

// Title returns the notification title for the list.
func (i Item) Title() string { return i.Record.Title }

// Description returns a short summary line for the list.
func (i Item) Description() string {
	return fmt.Sprintf("%s | %s | %s",
		i.Record.Type, i.Record.Status, relativeTime(i.Record.CreatedAt))
}

// ItemDelegate implements list.ItemDelegate for rendering notification rows.
type ItemDelegate struct {
	// inflight is shared by reference with the Model so rows disable
	// while their record has a request outstanding.
	inflight *notify.Inflight
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single notification row.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	wrapped, ok := item.(Item)
	if !ok {
		return
	}
	record := wrapped.Record

	marker := " "
	if record.Unread() {
		marker = "●"
	}

	typeBadge := theme.TypeStyle(record.Type).Render(string(record.Type))
	statusBadge := theme.StatusStyle(record.Status).Render(string(record.Status))
	timeStr := theme.HelpStyle.Render(relativeTime(record.CreatedAt))

	line := fmt.Sprintf("%s %s %s %s  %s",
		marker, typeBadge, statusBadge, record.Title, timeStr)

	switch {
	case d.inflight.Active(record.ID):
		line = theme.DisabledItemStyle.Render(line)
	case index == m.Index():
		line = theme.SelectedItemStyle.Render(line)
	default:
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// relativeTime returns a human-friendly relative time string.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		mins := int(d.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	case d < 24*time.Hour:
		hrs := int(d.Hours())
		if hrs == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", hrs)
	case d < 7*24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	default:
		weeks := int(d.Hours() / 24 / 7)
		if weeks == 1 {
			return "1w ago"
		}
		return fmt.Sprintf("%dw ago", weeks)
	}
}
