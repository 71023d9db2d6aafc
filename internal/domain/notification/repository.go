package notification

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, notification *Notification) error
	CreateBatch(ctx context.Context, notifications []*Notification) error
	GetByUserID(ctx context.Context, userID string, page, pageSize int, unreadOnly bool) ([]*Notification, int, error)
	GetUnreadCount(ctx context.Context, userID string) (int, error)
	MarkAsRead(ctx context.Context, ids []string, userID string) error
	MarkAllAsRead(ctx context.Context, userID string) error

	GetPreferences(ctx context.Context, userID string) ([]*NotificationPreference, error)
	UpsertPreference(ctx context.Context, pref *NotificationPreference) error
	IsNotificationEnabled(ctx context.Context, userID string, notifType NotificationType) (bool, error)
}
