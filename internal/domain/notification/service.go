package notification

import (
	"context"
)

type Service interface {
	// QueueNotification persists and pushes asynchronously through the worker pool.
	QueueNotification(ctx context.Context, req CreateNotificationRequest) error
	QueueBulkNotification(ctx context.Context, reqs []CreateNotificationRequest) error

	// PublishLive pushes a transient event to a user's open streams without
	// storing it.
	PublishLive(userID string, event string, data interface{})

	GetNotifications(ctx context.Context, userID string, page, pageSize int, unreadOnly bool) (*NotificationListResponse, error)
	GetUnreadCount(ctx context.Context, userID string) (int, error)
	MarkAsRead(ctx context.Context, userID string, req MarkAsReadRequest) error
	MarkAllAsRead(ctx context.Context, userID string) error

	GetPreferences(ctx context.Context, userID string) ([]PreferenceResponse, error)
	UpdatePreference(ctx context.Context, userID string, req UpdatePreferenceRequest) error

	Subscribe(ctx context.Context, userID string) (<-chan SSEEvent, func())

	Stop()
}
