package marketplace

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Notifications returns a page of the caller's notifications plus the
// unread count.
func (c *Client) Notifications(ctx context.Context, page, limit int) (NotificationPage, error) {
	var result NotificationPage
	path := fmt.Sprintf("/api/notifications?page=%d&limit=%d", page, limit)
	err := c.do(ctx, http.MethodGet, path, nil, &result)
	return result, err
}

// MarkNotificationRead marks one notification read. Idempotent
// server-side.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, "/api/notifications/"+url.PathEscape(id)+"/read", nil, nil)
}

// MarkAllNotificationsRead clears the caller's unread counter.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.do(ctx, http.MethodPut, "/api/notifications/read-all", nil, nil)
}
