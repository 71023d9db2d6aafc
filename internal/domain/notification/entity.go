package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeAttendanceClockIn     NotificationType = "attendance_clock_in"
	TypeAttendanceClockOut    NotificationType = "attendance_clock_out"
	TypeLateArrivalWarning    NotificationType = "late_arrival_warning"
	TypeAutoClockOut          NotificationType = "auto_clock_out"
	TypeAttendanceRegularized NotificationType = "attendance_regularized"
	TypeShiftAssigned         NotificationType = "shift_assigned"
)

// AllNotificationTypes returns all available notification types
func AllNotificationTypes() []NotificationType {
	return []NotificationType{
		TypeAttendanceClockIn,
		TypeAttendanceClockOut,
		TypeLateArrivalWarning,
		TypeAutoClockOut,
		TypeAttendanceRegularized,
		TypeShiftAssigned,
	}
}

// IsValid reports whether t is a known notification type.
func (t NotificationType) IsValid() bool {
	for _, known := range AllNotificationTypes() {
		if t == known {
			return true
		}
	}
	return false
}

type Notification struct {
	ID          string
	CompanyID   string
	RecipientID string
	SenderID    *string
	Type        NotificationType
	Title       string
	Message     string
	Data        map[string]interface{}
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}

// NotificationPreference controls whether a type is pushed to a user.
type NotificationPreference struct {
	ID               string
	UserID           string
	NotificationType NotificationType
	PushEnabled      bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
