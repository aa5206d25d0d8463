package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/nhle/activity-hub/internal/model"
)

// ListFilter controls filtering, pagination and ordering of notification
// listings. Zero values mean "no filter" / server defaults.
type ListFilter struct {
	Type   model.NotificationType
	Status model.NotificationStatus
	Page   int
	Size   int
	Sort   string
}

// query encodes the filter as URL query parameters.
func (f ListFilter) query() string {
	values := url.Values{}
	if f.Type != "" {
		values.Set("type", string(f.Type))
	}
	if f.Status != "" {
		values.Set("status", string(f.Status))
	}
	values.Set("page", strconv.Itoa(f.Page))
	if f.Size > 0 {
		values.Set("size", strconv.Itoa(f.Size))
	}
	if f.Sort != "" {
		values.Set("sort", f.Sort)
	}
	return values.Encode()
}

// unreadCountResponse is the payload of the unread-count endpoint.
type unreadCountResponse struct {
	Count int `json:"count"`
}

// ListNotifications retrieves one page of notifications.
func (c *Client) ListNotifications(ctx context.Context, filter ListFilter) (*model.NotificationPage, error) {
	var page model.NotificationPage
	path := "/api/notifications?" + filter.query()
	if err := c.get(ctx, path, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// UnreadCount retrieves the number of unread notifications.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var resp unreadCountResponse
	if err := c.get(ctx, "/api/notifications/unread-count", &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// GetNotification retrieves a single notification with its metadata parsed
// and target references extracted.
func (c *Client) GetNotification(ctx context.Context, id int64) (*model.NotificationDetail, error) {
	var record model.Notification
	if err := c.get(ctx, fmt.Sprintf("/api/notifications/%d", id), &record); err != nil {
		return nil, err
	}
	detail := record.Detail()
	return &detail, nil
}

// MarkRead marks a single notification as read. Marking an already-read
// notification is a server-side no-op.
func (c *Client) MarkRead(ctx context.Context, id int64) error {
	return c.put(ctx, fmt.Sprintf("/api/notifications/%d/read", id), nil, nil)
}

// MarkAllRead marks every notification of the current user as read.
func (c *Client) MarkAllRead(ctx context.Context) error {
	return c.put(ctx, "/api/notifications/read-all", nil, nil)
}

// DeleteNotification deletes a notification.
func (c *Client) DeleteNotification(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/notifications/%d", id))
}
