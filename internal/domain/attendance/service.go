package attendance

import (
	"context"
)

// AttendanceService defines the clock-in/clock-out use cases for the
// authenticated employee plus manager corrections.
type AttendanceService interface {
	// ClockIn opens a new session for today in the employee's timezone.
	ClockIn(ctx context.Context, req ClockInRequest) (ClockInResponse, error)

	// ClockOut closes the open session, or asks for confirmation when the
	// day's hours are short and req.Force is false.
	ClockOut(ctx context.Context, req ClockOutRequest) (ClockOutResult, error)

	// GetToday reports today's row with live cumulative hours.
	GetToday(ctx context.Context) (TodayResponse, error)

	ListMine(ctx context.Context, filter MyAttendanceFilter) (ListAttendanceResponse, error)
	GetByID(ctx context.Context, id string) (AttendanceResponse, error)

	// Regularize rewrites a closed session's times and recomputes the day.
	Regularize(ctx context.Context, req RegularizeRequest) (AttendanceResponse, error)
}
