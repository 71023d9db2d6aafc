package employee

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
)

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

// Employee carries the fields the attendance engine reads. ShiftID and
// BranchID are optional; their absence selects the default shift window and
// the fallback timezone.
type Employee struct {
	ID               string
	CompanyID        string
	UserID           *string
	EmployeeCode     string
	FullName         string
	ShiftID          *string
	BranchID         *string
	WeekOffMonday    bool
	WeekOffTuesday   bool
	WeekOffWednesday bool
	WeekOffThursday  bool
	WeekOffFriday    bool
	WeekOffSaturday  bool
	WeekOffSunday    bool
	EmploymentStatus EmploymentStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsWeekOff reports whether date is one of the employee's own week-off days.
func (e Employee) IsWeekOff(date time.Time) bool {
	flags := [7]bool{
		e.WeekOffMonday, e.WeekOffTuesday, e.WeekOffWednesday, e.WeekOffThursday,
		e.WeekOffFriday, e.WeekOffSaturday, e.WeekOffSunday,
	}
	return flags[shift.WeekdayIndex(date)]
}

// IsExpectedToWork classifies a day for an employee: the shift's working-day
// flags win when a shift is assigned, otherwise the employee's week-off flags.
func (e Employee) IsExpectedToWork(s *shift.ShiftSchedule, date time.Time) bool {
	if s != nil {
		return s.IsWorkingDay(date)
	}
	return !e.IsWeekOff(date)
}
