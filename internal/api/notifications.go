package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// NotificationsService talks to /api/notifications.
type NotificationsService struct {
	client *Client
}

// Notification is a single server-created notification. ID may be zero when
// the server emits synthetic notifications; callers fall back to
// title+message for deduplication.
type Notification struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// CheckResult is the response of a notification check: everything created
// since the requested timestamp, plus the authoritative unread count.
type CheckResult struct {
	Notifications []Notification
	UnreadCount   int
}

// Check asks the server what changed since the given time. The timestamp
// travels as the X-Last-Check header in milliseconds, matching the server's
// contract.
func (s *NotificationsService) Check(ctx context.Context, since time.Time) (*CheckResult, error) {
	header := http.Header{}
	header.Set("X-Last-Check", strconv.FormatInt(since.UnixMilli(), 10))

	var res struct {
		Success       bool           `json:"success"`
		Message       string         `json:"message"`
		Notifications []Notification `json:"notifications"`
		UnreadCount   int            `json:"unreadCount"`
	}
	if err := s.client.doHeaders(ctx, http.MethodGet, "/api/notifications/check", header, nil, &res); err != nil {
		return nil, err
	}
	if err := checkEnvelope(res.Success, res.Message); err != nil {
		return nil, err
	}

	return &CheckResult{Notifications: res.Notifications, UnreadCount: res.UnreadCount}, nil
}

// MarkRead acknowledges a single notification.
func (s *NotificationsService) MarkRead(ctx context.Context, id int64) error {
	var res struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	path := fmt.Sprintf("/api/notifications/%d/read", id)
	if err := s.client.do(ctx, http.MethodPost, path, nil, &res); err != nil {
		return err
	}
	return checkEnvelope(res.Success, res.Message)
}

// MarkAllRead acknowledges every unread notification for the current user.
func (s *NotificationsService) MarkAllRead(ctx context.Context) error {
	var res struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := s.client.do(ctx, http.MethodPost, "/api/notifications/mark-all-read", nil, &res); err != nil {
		return err
	}
	return checkEnvelope(res.Success, res.Message)
}
