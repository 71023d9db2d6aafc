package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const sessionColumns = `
	id, attendance_id, company_id, employee_id, date, session_number, session_type,
	clock_in, clock_out, clock_in_latitude, clock_in_longitude, clock_out_latitude, clock_out_longitude,
	is_active, duration_hours, location_validated, created_at, updated_at`

type sessionRepository struct {
	db *database.DB
}

func scanSession(row pgx.Row) (attendance.Session, error) {
	var (
		s           attendance.Session
		sessionType string
	)
	err := row.Scan(
		&s.ID, &s.AttendanceID, &s.CompanyID, &s.EmployeeID, &s.Date, &s.SessionNumber, &sessionType,
		&s.ClockIn, &s.ClockOut, &s.ClockInLatitude, &s.ClockInLongitude, &s.ClockOutLatitude, &s.ClockOutLongitude,
		&s.IsActive, &s.DurationHours, &s.LocationValidated, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return attendance.Session{}, err
	}
	s.SessionType = attendance.SessionType(sessionType)
	return s, nil
}

// Create implements attendance.SessionRepository.
func (r *sessionRepository) Create(ctx context.Context, s attendance.Session) (attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_sessions (
			attendance_id, company_id, employee_id, date, session_number, session_type,
			clock_in, clock_in_latitude, clock_in_longitude, is_active, location_validated
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE, $10)
		RETURNING ` + sessionColumns

	created, err := scanSession(q.QueryRow(ctx, query,
		s.AttendanceID, s.CompanyID, s.EmployeeID, s.Date, s.SessionNumber, string(s.SessionType),
		s.ClockIn, s.ClockInLatitude, s.ClockInLongitude, s.LocationValidated,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return attendance.Session{}, attendance.ErrSessionConflict
		}
		return attendance.Session{}, fmt.Errorf("failed to create attendance session: %w", err)
	}
	return created, nil
}

// ExistsByNumber implements attendance.SessionRepository.
func (r *sessionRepository) ExistsByNumber(ctx context.Context, employeeID string, date time.Time, number int) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM attendance_sessions
			WHERE employee_id = $1 AND date = $2 AND session_number = $3
		)
	`
	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, date, number).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check session number: %w", err)
	}
	return exists, nil
}

// GetByID implements attendance.SessionRepository.
func (r *sessionRepository) GetByID(ctx context.Context, id string, companyID string) (attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + sessionColumns + `
		FROM attendance_sessions
		WHERE id = $1 AND company_id = $2
	`
	s, err := scanSession(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Session{}, attendance.ErrSessionNotFound
		}
		return attendance.Session{}, fmt.Errorf("failed to get attendance session: %w", err)
	}
	return s, nil
}

// GetActive implements attendance.SessionRepository.
func (r *sessionRepository) GetActive(ctx context.Context, attendanceID string) (attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + sessionColumns + `
		FROM attendance_sessions
		WHERE attendance_id = $1 AND is_active AND clock_out IS NULL
		ORDER BY session_number DESC
		LIMIT 1
	`
	s, err := scanSession(q.QueryRow(ctx, query, attendanceID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Session{}, attendance.ErrNoActiveSession
		}
		return attendance.Session{}, fmt.Errorf("failed to get active session: %w", err)
	}
	return s, nil
}

// ListByAttendance implements attendance.SessionRepository.
func (r *sessionRepository) ListByAttendance(ctx context.Context, attendanceID string) ([]attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + sessionColumns + `
		FROM attendance_sessions
		WHERE attendance_id = $1
		ORDER BY session_number
	`
	rows, err := q.Query(ctx, query, attendanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance sessions: %w", err)
	}
	defer rows.Close()

	var sessions []attendance.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance sessions: %w", err)
	}
	return sessions, nil
}

// Update implements attendance.SessionRepository.
func (r *sessionRepository) Update(ctx context.Context, s attendance.Session) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_sessions SET
			session_type = $1,
			clock_in = $2,
			clock_out = $3,
			clock_in_latitude = $4,
			clock_in_longitude = $5,
			clock_out_latitude = $6,
			clock_out_longitude = $7,
			is_active = $8,
			duration_hours = $9,
			location_validated = $10,
			updated_at = NOW()
		WHERE id = $11
	`
	tag, err := q.Exec(ctx, query,
		string(s.SessionType), s.ClockIn, s.ClockOut,
		s.ClockInLatitude, s.ClockInLongitude, s.ClockOutLatitude, s.ClockOutLongitude,
		s.IsActive, s.DurationHours, s.LocationValidated, s.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrSessionNotFound
	}
	return nil
}

func NewSessionRepository(db *database.DB) attendance.SessionRepository {
	return &sessionRepository{db: db}
}
