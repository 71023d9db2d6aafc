package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `
	a.id, a.company_id, a.employee_id, a.date, a.status,
	a.clock_in, a.clock_out, a.location_in, a.location_out,
	a.is_currently_clocked_in, a.current_session_type, a.daily_sessions_count, a.max_daily_sessions,
	a.is_late, a.late_by_minutes, a.is_grace_used, a.is_half_day_late,
	a.is_early_departure, a.early_departure_minutes, a.total_working_hours,
	a.location_tracking_active, a.location_tracking_end_time, a.user_timezone, a.regularization_note,
	a.created_at, a.updated_at`

type attendanceRepository struct {
	db *database.DB
}

func scanAttendance(row pgx.Row, extra ...any) (attendance.Attendance, error) {
	var (
		att         attendance.Attendance
		status      string
		sessionType *string
	)
	dest := []any{
		&att.ID, &att.CompanyID, &att.EmployeeID, &att.Date, &status,
		&att.ClockIn, &att.ClockOut, &att.LocationIn, &att.LocationOut,
		&att.IsCurrentlyClockedIn, &sessionType, &att.DailySessionsCount, &att.MaxDailySessions,
		&att.IsLate, &att.LateByMinutes, &att.IsGraceUsed, &att.IsHalfDayLate,
		&att.IsEarlyDeparture, &att.EarlyDepartureMinutes, &att.TotalWorkingHours,
		&att.LocationTrackingActive, &att.LocationTrackingEndTime, &att.UserTimezone, &att.RegularizationNote,
		&att.CreatedAt, &att.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return attendance.Attendance{}, err
	}
	att.Status = attendance.Status(status)
	if sessionType != nil {
		t := attendance.SessionType(*sessionType)
		att.CurrentSessionType = &t
	}
	return att, nil
}

func collectAttendances(rows pgx.Rows) ([]attendance.Attendance, error) {
	defer rows.Close()

	var list []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		list = append(list, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendances: %w", err)
	}
	return list, nil
}

func sessionTypeArg(t *attendance.SessionType) *string {
	if t == nil {
		return nil
	}
	s := string(*t)
	return &s
}

// EnsureForDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) EnsureForDate(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (company_id, employee_id, date, status, max_daily_sessions, user_timezone)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (employee_id, date) DO NOTHING
	`
	_, err := q.Exec(ctx, query,
		att.CompanyID, att.EmployeeID, att.Date, string(att.Status),
		attendance.EffectiveMaxSessions(att.MaxDailySessions), att.UserTimezone,
	)
	if err != nil {
		return fmt.Errorf("failed to ensure attendance: %w", err)
	}
	return nil
}

// GetForUpdate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetForUpdate(ctx context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.employee_id = $1 AND a.date = $2
		FOR UPDATE
	`
	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to lock attendance: %w", err)
	}
	return att, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.employee_id = $1 AND a.date = $2
	`
	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}
	return &att, nil
}

// GetOpenByEmployee implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetOpenByEmployee(ctx context.Context, employeeID string) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.employee_id = $1 AND a.is_currently_clocked_in
		ORDER BY a.date DESC
		LIMIT 1
		FOR UPDATE
	`
	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open attendance: %w", err)
	}
	return &att, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string, companyID string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `, e.full_name
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.id = $1 AND a.company_id = $2
	`
	var name *string
	att, err := scanAttendance(q.QueryRow(ctx, query, id, companyID), &name)
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by id: %w", err)
	}
	att.EmployeeName = name
	return att, nil
}

// Update implements attendance.AttendanceRepository. Every mutable column is
// written, so callers pass the full row they read.
func (a *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances SET
			status = $1,
			clock_in = $2,
			clock_out = $3,
			location_in = $4,
			location_out = $5,
			is_currently_clocked_in = $6,
			current_session_type = $7,
			daily_sessions_count = $8,
			max_daily_sessions = $9,
			is_late = $10,
			late_by_minutes = $11,
			is_grace_used = $12,
			is_half_day_late = $13,
			is_early_departure = $14,
			early_departure_minutes = $15,
			total_working_hours = $16,
			location_tracking_active = $17,
			location_tracking_end_time = $18,
			user_timezone = $19,
			regularization_note = $20,
			updated_at = NOW()
		WHERE id = $21
	`
	tag, err := q.Exec(ctx, query,
		string(att.Status), att.ClockIn, att.ClockOut, att.LocationIn, att.LocationOut,
		att.IsCurrentlyClockedIn, sessionTypeArg(att.CurrentSessionType), att.DailySessionsCount,
		attendance.EffectiveMaxSessions(att.MaxDailySessions),
		att.IsLate, att.LateByMinutes, att.IsGraceUsed, att.IsHalfDayLate,
		att.IsEarlyDeparture, att.EarlyDepartureMinutes, att.TotalWorkingHours,
		att.LocationTrackingActive, att.LocationTrackingEndTime, att.UserTimezone, att.RegularizationNote,
		att.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// another row of the employee is already clocked in
			return attendance.ErrSessionConflict
		}
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// CreateIfAbsent implements attendance.AttendanceRepository.
func (a *attendanceRepository) CreateIfAbsent(ctx context.Context, att attendance.Attendance) (bool, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (
			company_id, employee_id, date, status, max_daily_sessions, user_timezone,
			total_working_hours, regularization_note
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (employee_id, date) DO NOTHING
	`
	tag, err := q.Exec(ctx, query,
		att.CompanyID, att.EmployeeID, att.Date, string(att.Status),
		attendance.EffectiveMaxSessions(att.MaxDailySessions), att.UserTimezone,
		att.TotalWorkingHours, att.RegularizationNote,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create attendance: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, filter attendance.MyAttendanceFilter, companyID string) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	baseWhere := "a.employee_id = $1 AND a.company_id = $2"
	args := []interface{}{employeeID, companyID}
	argIdx := 3

	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM attendances a WHERE "+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	orderByField := "a.date"
	switch filter.SortBy {
	case "clock_in":
		orderByField = "a.clock_in"
	case "total_working_hours":
		orderByField = "a.total_working_hours"
	case "status":
		orderByField = "a.status"
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}

	selectQuery := fmt.Sprintf(`SELECT %s
		FROM attendances a
		WHERE %s
		ORDER BY %s %s, a.date DESC
		LIMIT $%d OFFSET $%d
	`, attendanceColumns, baseWhere, orderByField, sortOrder, argIdx, argIdx+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendances: %w", err)
	}
	list, err := collectAttendances(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// CountLateDays implements attendance.AttendanceRepository.
func (a *attendanceRepository) CountLateDays(ctx context.Context, employeeID string, from, to time.Time) (int, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT COUNT(*)
		FROM attendances
		WHERE employee_id = $1
		  AND date BETWEEN $2 AND $3
		  AND (is_late OR is_grace_used)
	`
	var count int
	if err := q.QueryRow(ctx, query, employeeID, from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count late days: %w", err)
	}
	return count, nil
}

// CountGraceUses implements attendance.AttendanceRepository.
func (a *attendanceRepository) CountGraceUses(ctx context.Context, employeeID string, from, to time.Time, excludeID string) (int, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT COUNT(*)
		FROM attendances
		WHERE employee_id = $1
		  AND date BETWEEN $2 AND $3
		  AND is_grace_used
		  AND id::text <> $4
	`
	var count int
	if err := q.QueryRow(ctx, query, employeeID, from, to, excludeID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count grace uses: %w", err)
	}
	return count, nil
}

// ListClockedIn implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListClockedIn(ctx context.Context) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.is_currently_clocked_in
		ORDER BY a.date, a.employee_id
	`
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query clocked-in attendances: %w", err)
	}
	return collectAttendances(rows)
}

// ExpireTracking implements attendance.AttendanceRepository.
func (a *attendanceRepository) ExpireTracking(ctx context.Context, now time.Time) (int64, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET location_tracking_active = FALSE, updated_at = NOW()
		WHERE location_tracking_active
		  AND location_tracking_end_time IS NOT NULL
		  AND location_tracking_end_time <= $1
	`
	tag, err := q.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to expire location tracking: %w", err)
	}
	return tag.RowsAffected(), nil
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}
