package report

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// maxRangeDays bounds the employee range report.
const maxRangeDays = 62

// ========================================
// DAILY SUMMARY
// ========================================

type DailySummaryRequest struct {
	Date string `json:"date"` // YYYY-MM-DD, empty means today

	date time.Time
}

func (r *DailySummaryRequest) Validate() error {
	if r.Date == "" {
		return nil
	}
	d, ok := validator.IsValidDate(r.Date)
	if !ok {
		return validator.ValidationErrors{{Field: "date", Message: "date must be in YYYY-MM-DD format"}}
	}
	r.date = d
	return nil
}

// Day returns the parsed date, zero when none was given.
func (r *DailySummaryRequest) Day() time.Time {
	return r.date
}

type DailySummaryResponse struct {
	Date                string         `json:"date"`
	TotalEmployees      int            `json:"total_employees"`
	Recorded            int            `json:"recorded"`
	NotRecorded         int            `json:"not_recorded"`
	Present             int            `json:"present"`
	StatusCounts        map[string]int `json:"status_counts"`
	Late                int            `json:"late"`
	GraceUsed           int            `json:"grace_used"`
	EarlyDepartures     int            `json:"early_departures"`
	CurrentlyClockedIn  int            `json:"currently_clocked_in"`
	AverageWorkingHours float64        `json:"average_working_hours"`
	AttendanceRate      float64        `json:"attendance_rate"`
}

// ========================================
// MONTHLY SUMMARY
// ========================================

type MonthlyReportRequest struct {
	Month string `json:"month"` // YYYY-MM

	start time.Time
}

func (r *MonthlyReportRequest) Validate() error {
	m, ok := validator.IsValidMonth(r.Month)
	if !ok {
		return validator.ValidationErrors{{Field: "month", Message: "month must be in YYYY-MM format"}}
	}
	if m.Year() < 2000 {
		return validator.ValidationErrors{{Field: "month", Message: "month must not be before 2000-01"}}
	}
	r.start = m
	return nil
}

// Period returns the first and last day of the month.
func (r *MonthlyReportRequest) Period() (time.Time, time.Time) {
	return r.start, r.start.AddDate(0, 1, -1)
}

type MonthlyReportResponse struct {
	Month       string            `json:"month"`
	PeriodStart string            `json:"period_start"`
	PeriodEnd   string            `json:"period_end"`
	GeneratedAt string            `json:"generated_at"`
	Employees   []EmployeeSummary `json:"employees"`
}

// EmployeeSummary aggregates one employee's rows over a period.
type EmployeeSummary struct {
	EmployeeID          string  `json:"employee_id"`
	EmployeeCode        string  `json:"employee_code"`
	EmployeeName        string  `json:"employee_name"`
	PresentDays         int     `json:"present_days"`
	WFHDays             int     `json:"wfh_days"`
	HybridDays          int     `json:"hybrid_days"`
	OnDutyDays          int     `json:"on_duty_days"`
	HalfDays            int     `json:"half_days"`
	AbsentDays          int     `json:"absent_days"`
	LeaveDays           int     `json:"leave_days"`
	HolidayDays         int     `json:"holiday_days"`
	WeeklyOffDays       int     `json:"weekly_off_days"`
	MissingPunchDays    int     `json:"missing_punch_days"`
	LateDays            int     `json:"late_days"`
	TotalLateMinutes    int     `json:"total_late_minutes"`
	GraceUsedDays       int     `json:"grace_used_days"`
	EarlyDepartureDays  int     `json:"early_departure_days"`
	TotalWorkingHours   float64 `json:"total_working_hours"`
	AverageWorkingHours float64 `json:"average_working_hours"`
}

// ========================================
// EMPLOYEE RANGE REPORT
// ========================================

type EmployeeReportRequest struct {
	EmployeeID string `json:"-"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`

	start time.Time
	end   time.Time
}

func (r *EmployeeReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id must be a valid UUID"})
	}

	start, okStart := validator.IsValidDate(r.StartDate)
	if !okStart {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be in YYYY-MM-DD format"})
	}
	end, okEnd := validator.IsValidDate(r.EndDate)
	if !okEnd {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be in YYYY-MM-DD format"})
	}
	if okStart && okEnd {
		if end.Before(start) {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must not be before start_date"})
		} else if end.Sub(start) > (maxRangeDays-1)*24*time.Hour {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "range must not exceed 62 days"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	r.start, r.end = start, end
	return nil
}

// Range returns the parsed bounds, inclusive.
func (r *EmployeeReportRequest) Range() (time.Time, time.Time) {
	return r.start, r.end
}

type EmployeeDay struct {
	Date              string  `json:"date"`
	DayOfWeek         string  `json:"day_of_week"`
	Status            string  `json:"status"`
	Recorded          bool    `json:"recorded"`
	ClockIn           *string `json:"clock_in,omitempty"`
	ClockOut          *string `json:"clock_out,omitempty"`
	Sessions          int     `json:"sessions"`
	TotalWorkingHours float64 `json:"total_working_hours"`
	IsLate            bool    `json:"is_late"`
	LateByMinutes     int     `json:"late_by_minutes"`
	IsEarlyDeparture  bool    `json:"is_early_departure"`
}

type EmployeeReportResponse struct {
	EmployeeID   string          `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	StartDate    string          `json:"start_date"`
	EndDate      string          `json:"end_date"`
	Timezone     string          `json:"timezone"`
	Summary      EmployeeSummary `json:"summary"`
	Days         []EmployeeDay   `json:"days"`
}

// ExportFile is a generated spreadsheet.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}
