package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type calendarRepository struct {
	db *database.DB
}

func NewCalendarRepository(db *database.DB) calendar.CalendarRepository {
	return &calendarRepository{db: db}
}

// ListHolidays implements calendar.CalendarRepository.
func (r *calendarRepository) ListHolidays(ctx context.Context, companyID string, from, to time.Time) ([]calendar.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, company_id, date, name
		FROM holidays
		WHERE company_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date
	`, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query holidays: %w", err)
	}
	defer rows.Close()

	var holidays []calendar.Holiday
	for rows.Next() {
		var h calendar.Holiday
		if err := rows.Scan(&h.ID, &h.CompanyID, &h.Date, &h.Name); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		holidays = append(holidays, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate holidays: %w", err)
	}
	return holidays, nil
}

// IsHoliday implements calendar.CalendarRepository.
func (r *calendarRepository) IsHoliday(ctx context.Context, companyID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM holidays WHERE company_id = $1 AND date = $2)
	`, companyID, date).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check holiday: %w", err)
	}
	return exists, nil
}

// HasApprovedLeave implements calendar.CalendarRepository.
func (r *calendarRepository) HasApprovedLeave(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM leave_requests
			WHERE employee_id = $1
			  AND status = 'approved'
			  AND $2::date BETWEEN start_date AND end_date
		)
	`, employeeID, date).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check approved leave: %w", err)
	}
	return exists, nil
}

// ListLeaveDates implements calendar.CalendarRepository. Each approved request
// is expanded into the days it covers inside [from, to].
func (r *calendarRepository) ListLeaveDates(ctx context.Context, employeeID string, from, to time.Time) ([]time.Time, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT DISTINCT d::date
		FROM leave_requests lr,
		     generate_series(GREATEST(lr.start_date, $2::date), LEAST(lr.end_date, $3::date), INTERVAL '1 day') AS d
		WHERE lr.employee_id = $1
		  AND lr.status = 'approved'
		  AND lr.start_date <= $3::date
		  AND lr.end_date >= $2::date
		ORDER BY 1
	`, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave dates: %w", err)
	}

	dates, err := pgx.CollectRows(rows, pgx.RowTo[time.Time])
	if err != nil {
		return nil, fmt.Errorf("failed to collect leave dates: %w", err)
	}
	return dates, nil
}
