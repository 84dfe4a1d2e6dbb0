package hms

import (
	"context"
	"net/http"
)

// NotificationService covers per-user notifications.
type NotificationService struct{ c *Client }

func (s *NotificationService) List(ctx context.Context, userID int64, page int) (*Page[Notification], error) {
	return call[*Page[Notification]](ctx, s.c, http.MethodGet, pathf("/notifications/user/%s", userID), pageQuery(page, 0), nil)
}

// UnreadCount returns the number of unread notifications for userID.
func (s *NotificationService) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return call[int64](ctx, s.c, http.MethodGet, pathf("/notifications/user/%s/unread-count", userID), nil, nil)
}

func (s *NotificationService) MarkRead(ctx context.Context, id int64) error {
	_, err := callEnvelope[any](ctx, s.c, http.MethodPut, pathf("/notifications/%s/read", id), nil, nil)
	return err
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) error {
	_, err := callEnvelope[any](ctx, s.c, http.MethodPut, pathf("/notifications/user/%s/read-all", userID), nil, nil)
	return err
}
