package calendar

import (
	"context"
	"time"
)

type CalendarRepository interface {
	ListHolidays(ctx context.Context, companyID string, from, to time.Time) ([]Holiday, error)
	IsHoliday(ctx context.Context, companyID string, date time.Time) (bool, error)
	// HasApprovedLeave reports an approved leave request covering date.
	HasApprovedLeave(ctx context.Context, employeeID string, date time.Time) (bool, error)
	// ListLeaveDates returns the approved leave dates of an employee in [from, to].
	ListLeaveDates(ctx context.Context, employeeID string, from, to time.Time) ([]time.Time, error)
}
