package model

import (
	"encoding/json"
	"time"
)

// NotificationType identifies which part of the platform generated a
// notification.
type NotificationType string

const (
	NotificationTypeActivity     NotificationType = "ACTIVITY"
	NotificationTypeSeries       NotificationType = "SERIES"
	NotificationTypeRegistration NotificationType = "REGISTRATION"
	NotificationTypeAnnouncement NotificationType = "ANNOUNCEMENT"
	NotificationTypeSystem       NotificationType = "SYSTEM"
)

// NotificationStatus is the read state of a notification.
type NotificationStatus string

const (
	NotificationStatusUnread   NotificationStatus = "UNREAD"
	NotificationStatusRead     NotificationStatus = "READ"
	NotificationStatusArchived NotificationStatus = "ARCHIVED"
)

// Notification is a single server-owned notification record as it appears
// in list responses. Metadata stays in its serialized form here; the
// detail representation parses it.
type Notification struct {
	// ID is the unique identifier for this notification.
	ID int64 `json:"id"`

	// Title is the short human-readable summary line.
	Title string `json:"title"`

	// Content is the optional full message body.
	Content string `json:"content,omitempty"`

	// Type identifies the notification category.
	Type NotificationType `json:"type"`

	// Status is the current read state.
	Status NotificationStatus `json:"status"`

	// ActionURL is an optional navigation target, absolute or relative.
	ActionURL string `json:"actionUrl,omitempty"`

	// ActivityID links the notification to an activity, when present.
	ActivityID *int64 `json:"activityId,omitempty"`

	// SeriesID links the notification to an activity series, when present.
	SeriesID *int64 `json:"seriesId,omitempty"`

	// Metadata holds additional serialized context from the server.
	Metadata json.RawMessage `json:"metadata,omitempty"`

	// ReadAt is set once the notification leaves the UNREAD state.
	ReadAt *time.Time `json:"readAt,omitempty"`

	// CreatedAt is when the notification was generated.
	CreatedAt time.Time `json:"createdAt"`
}

// Unread reports whether the notification is still unread.
func (n Notification) Unread() bool {
	return n.Status == NotificationStatusUnread
}

// NotificationMeta is the parsed form of a notification's metadata blob.
type NotificationMeta struct {
	ActivityID    *int64 `json:"activityId,omitempty"`
	SeriesID      *int64 `json:"seriesId,omitempty"`
	ActivityTitle string `json:"activityTitle,omitempty"`
	SeriesTitle   string `json:"seriesTitle,omitempty"`
}

// NotificationDetail is the single-item representation of a notification:
// the same record with metadata parsed and target references extracted.
type NotificationDetail struct {
	Notification

	// Meta is the structured metadata. Zero-valued when the record
	// carries no metadata or the blob does not parse.
	Meta NotificationMeta
}

// Detail builds the detail representation of the record. Target references
// on the record itself win over ones found in metadata; metadata that does
// not parse is ignored rather than treated as an error.
func (n Notification) Detail() NotificationDetail {
	d := NotificationDetail{Notification: n}
	if len(n.Metadata) == 0 {
		return d
	}
	var meta NotificationMeta
	if err := json.Unmarshal(n.Metadata, &meta); err != nil {
		return d
	}
	d.Meta = meta
	if d.ActivityID == nil {
		d.ActivityID = meta.ActivityID
	}
	if d.SeriesID == nil {
		d.SeriesID = meta.SeriesID
	}
	return d
}

// NotificationPage is one page of a paged notification listing.
type NotificationPage struct {
	Items         []Notification `json:"content"`
	TotalPages    int            `json:"totalPages"`
	TotalElements int64          `json:"totalElements"`
	Number        int            `json:"number"`
}
