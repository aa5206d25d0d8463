package api

import (
	"context"
	"fmt"

	"github.com/nhle/activity-hub/internal/model"
)

// GetActivity retrieves a single activity, used when a notification
// navigates to an activity detail page.
func (c *Client) GetActivity(ctx context.Context, id int64) (*model.Activity, error) {
	var activity model.Activity
	if err := c.get(ctx, fmt.Sprintf("/api/activities/%d", id), &activity); err != nil {
		return nil, err
	}
	return &activity, nil
}

// GetSeries retrieves a single activity series.
func (c *Client) GetSeries(ctx context.Context, id int64) (*model.Series, error) {
	var series model.Series
	if err := c.get(ctx, fmt.Sprintf("/api/series/%d", id), &series); err != nil {
		return nil, err
	}
	return &series, nil
}

// VerifyAuth asks the server whether the current token is still accepted.
// The login surface calls it after establishing a session; a rejected
// token surfaces as an AuthError like on any other call.
func (c *Client) VerifyAuth(ctx context.Context) error {
	return c.get(ctx, "/api/auth/verify", nil)
}
