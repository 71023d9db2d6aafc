package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access for daily attendance rows.
// Reads that take companyID never cross tenants.
type AttendanceRepository interface {
	// EnsureForDate inserts a neutral row for (employee, date) unless one exists.
	EnsureForDate(ctx context.Context, a Attendance) error

	// GetForUpdate reads the (employee, date) row and locks it for the rest of
	// the transaction carried by ctx.
	GetForUpdate(ctx context.Context, employeeID string, date time.Time) (Attendance, error)

	// GetByEmployeeAndDate returns nil when no row exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	// GetOpenByEmployee returns the employee's clocked-in row whatever its
	// date, locked when ctx carries a transaction. It is nil when none is open.
	GetOpenByEmployee(ctx context.Context, employeeID string) (*Attendance, error)

	GetByID(ctx context.Context, id string, companyID string) (Attendance, error)
	Update(ctx context.Context, a Attendance) error

	// CreateIfAbsent inserts a fully formed row and reports whether it was new.
	CreateIfAbsent(ctx context.Context, a Attendance) (bool, error)

	ListByEmployee(ctx context.Context, employeeID string, filter MyAttendanceFilter, companyID string) ([]Attendance, int64, error)

	// CountLateDays counts days in [from, to] flagged late or grace used.
	CountLateDays(ctx context.Context, employeeID string, from, to time.Time) (int, error)

	// CountGraceUses counts grace-used days in [from, to] other than excludeID.
	CountGraceUses(ctx context.Context, employeeID string, from, to time.Time, excludeID string) (int, error)

	// ListClockedIn returns every row still marked as clocked in.
	ListClockedIn(ctx context.Context) ([]Attendance, error)

	// ExpireTracking switches off tracking whose end time is not after now.
	ExpireTracking(ctx context.Context, now time.Time) (int64, error)
}

// SessionRepository defines data access for attendance sessions.
type SessionRepository interface {
	// Create fails with ErrSessionConflict when the session number is taken.
	Create(ctx context.Context, s Session) (Session, error)

	ExistsByNumber(ctx context.Context, employeeID string, date time.Time, number int) (bool, error)
	GetByID(ctx context.Context, id string, companyID string) (Session, error)
	GetActive(ctx context.Context, attendanceID string) (Session, error)
	ListByAttendance(ctx context.Context, attendanceID string) ([]Session, error)
	Update(ctx context.Context, s Session) error
}
