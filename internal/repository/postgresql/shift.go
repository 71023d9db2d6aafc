package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const shiftColumns = `
	s.id, s.company_id, s.name, s.start_time, s.end_time,
	s.grace_period_minutes, s.early_departure_threshold_minutes, s.lunch_break_start, s.lunch_break_end,
	s.monday, s.tuesday, s.wednesday, s.thursday, s.friday, s.saturday, s.sunday,
	s.allowed_late_logins, s.grace_exceeded_action, s.is_active, s.created_at, s.updated_at`

type shiftRepository struct {
	db *database.DB
}

// clockToPg keeps only the wall-clock part of t.
func clockToPg(t time.Time) pgtype.Time {
	micros := int64(t.Hour())*int64(time.Hour/time.Microsecond) +
		int64(t.Minute())*int64(time.Minute/time.Microsecond) +
		int64(t.Second())*int64(time.Second/time.Microsecond)
	return pgtype.Time{Microseconds: micros, Valid: true}
}

func optionalClockToPg(t *time.Time) pgtype.Time {
	if t == nil {
		return pgtype.Time{}
	}
	return clockToPg(*t)
}

func pgToClock(t pgtype.Time) time.Time {
	return time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(t.Microseconds) * time.Microsecond)
}

func pgToOptionalClock(t pgtype.Time) *time.Time {
	if !t.Valid {
		return nil
	}
	c := pgToClock(t)
	return &c
}

func scanShift(row pgx.Row) (shift.ShiftSchedule, error) {
	var (
		s                    shift.ShiftSchedule
		start, end           pgtype.Time
		lunchStart, lunchEnd pgtype.Time
		action               string
	)
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.Name, &start, &end,
		&s.GracePeriodMinutes, &s.EarlyDepartureThresholdMinutes, &lunchStart, &lunchEnd,
		&s.Monday, &s.Tuesday, &s.Wednesday, &s.Thursday, &s.Friday, &s.Saturday, &s.Sunday,
		&s.AllowedLateLogins, &action, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return shift.ShiftSchedule{}, err
	}
	s.StartTime = pgToClock(start)
	s.EndTime = pgToClock(end)
	s.LunchBreakStart = pgToOptionalClock(lunchStart)
	s.LunchBreakEnd = pgToOptionalClock(lunchEnd)
	s.GraceExceededAction = shift.GraceExceededAction(action)
	return s, nil
}

// Create implements shift.ShiftRepository.
func (r *shiftRepository) Create(ctx context.Context, s shift.ShiftSchedule) (shift.ShiftSchedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shift_schedules AS s (
			company_id, name, start_time, end_time,
			grace_period_minutes, early_departure_threshold_minutes, lunch_break_start, lunch_break_end,
			monday, tuesday, wednesday, thursday, friday, saturday, sunday,
			allowed_late_logins, grace_exceeded_action, is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING ` + shiftColumns

	created, err := scanShift(q.QueryRow(ctx, query,
		s.CompanyID, s.Name, clockToPg(s.StartTime), clockToPg(s.EndTime),
		s.GracePeriodMinutes, s.EarlyDepartureThresholdMinutes,
		optionalClockToPg(s.LunchBreakStart), optionalClockToPg(s.LunchBreakEnd),
		s.Monday, s.Tuesday, s.Wednesday, s.Thursday, s.Friday, s.Saturday, s.Sunday,
		s.AllowedLateLogins, string(s.GraceExceededAction), s.IsActive,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return shift.ShiftSchedule{}, shift.ErrShiftNameExists
		}
		return shift.ShiftSchedule{}, fmt.Errorf("failed to create shift schedule: %w", err)
	}
	return created, nil
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepository) GetByID(ctx context.Context, id string, companyID string) (shift.ShiftSchedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftColumns + `
		FROM shift_schedules s
		WHERE s.id = $1 AND s.company_id = $2
	`
	s, err := scanShift(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.ShiftSchedule{}, shift.ErrShiftNotFound
		}
		return shift.ShiftSchedule{}, fmt.Errorf("failed to get shift schedule: %w", err)
	}
	return s, nil
}

// List implements shift.ShiftRepository.
func (r *shiftRepository) List(ctx context.Context, companyID string, includeInactive bool) ([]shift.ShiftSchedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftColumns + `
		FROM shift_schedules s
		WHERE s.company_id = $1 AND ($2 OR s.is_active)
		ORDER BY s.name
	`
	rows, err := q.Query(ctx, query, companyID, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to query shift schedules: %w", err)
	}
	defer rows.Close()

	var shifts []shift.ShiftSchedule
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift schedule: %w", err)
		}
		shifts = append(shifts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shift schedules: %w", err)
	}
	return shifts, nil
}

// Update implements shift.ShiftRepository.
func (r *shiftRepository) Update(ctx context.Context, s shift.ShiftSchedule) (shift.ShiftSchedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_schedules AS s SET
			name = $1,
			start_time = $2,
			end_time = $3,
			grace_period_minutes = $4,
			early_departure_threshold_minutes = $5,
			lunch_break_start = $6,
			lunch_break_end = $7,
			monday = $8,
			tuesday = $9,
			wednesday = $10,
			thursday = $11,
			friday = $12,
			saturday = $13,
			sunday = $14,
			allowed_late_logins = $15,
			grace_exceeded_action = $16,
			is_active = $17,
			updated_at = NOW()
		WHERE s.id = $18 AND s.company_id = $19
		RETURNING ` + shiftColumns

	updated, err := scanShift(q.QueryRow(ctx, query,
		s.Name, clockToPg(s.StartTime), clockToPg(s.EndTime),
		s.GracePeriodMinutes, s.EarlyDepartureThresholdMinutes,
		optionalClockToPg(s.LunchBreakStart), optionalClockToPg(s.LunchBreakEnd),
		s.Monday, s.Tuesday, s.Wednesday, s.Thursday, s.Friday, s.Saturday, s.Sunday,
		s.AllowedLateLogins, string(s.GraceExceededAction), s.IsActive,
		s.ID, s.CompanyID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.ShiftSchedule{}, shift.ErrShiftNotFound
		}
		if isUniqueViolation(err) {
			return shift.ShiftSchedule{}, shift.ErrShiftNameExists
		}
		return shift.ShiftSchedule{}, fmt.Errorf("failed to update shift schedule: %w", err)
	}
	return updated, nil
}

// Deactivate implements shift.ShiftRepository.
func (r *shiftRepository) Deactivate(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE shift_schedules
		SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1 AND company_id = $2
	`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to deactivate shift schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrShiftNotFound
	}
	return nil
}

// GetByEmployeeID implements shift.ShiftRepository.
func (r *shiftRepository) GetByEmployeeID(ctx context.Context, employeeID string) (*shift.ShiftSchedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftColumns + `
		FROM employees e
		JOIN shift_schedules s ON s.id = e.shift_id
		WHERE e.id = $1 AND s.is_active
	`
	s, err := scanShift(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get employee shift: %w", err)
	}
	return &s, nil
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepository{db: db}
}
