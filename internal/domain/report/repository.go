package report

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
)

// ReportRepository reads attendance rows for aggregation.
type ReportRepository interface {
	// ListByDate returns the company's rows for one attendance date.
	ListByDate(ctx context.Context, companyID string, date time.Time) ([]attendance.Attendance, error)

	// ListInRange returns rows with from <= date <= to, ordered by employee
	// then date. employeeID narrows to one employee when set.
	ListInRange(ctx context.Context, companyID string, employeeID *string, from, to time.Time) ([]attendance.Attendance, error)

	CountActiveEmployees(ctx context.Context, companyID string) (int, error)
}
