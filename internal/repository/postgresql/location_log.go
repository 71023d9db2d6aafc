package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/tracking"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const locationLogColumns = `
	id, company_id, employee_id, session_id, latitude, longitude, accuracy,
	log_type, scope, timestamp, is_valid, created_at`

type locationLogRepository struct {
	db *database.DB
}

func scanLocationLog(row pgx.Row) (tracking.LocationLog, error) {
	var (
		l       tracking.LocationLog
		logType string
		scope   string
	)
	err := row.Scan(
		&l.ID, &l.CompanyID, &l.EmployeeID, &l.SessionID, &l.Latitude, &l.Longitude, &l.Accuracy,
		&logType, &scope, &l.Timestamp, &l.IsValid, &l.CreatedAt,
	)
	if err != nil {
		return tracking.LocationLog{}, err
	}
	l.LogType = tracking.LogType(logType)
	l.Scope = tracking.Scope(scope)
	return l, nil
}

// Create implements tracking.LocationLogRepository.
func (r *locationLogRepository) Create(ctx context.Context, log tracking.LocationLog) (tracking.LocationLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO location_logs (
			company_id, employee_id, session_id, latitude, longitude, accuracy,
			log_type, scope, timestamp, is_valid
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + locationLogColumns

	created, err := scanLocationLog(q.QueryRow(ctx, query,
		log.CompanyID, log.EmployeeID, log.SessionID, log.Latitude, log.Longitude, log.Accuracy,
		string(log.LogType), string(log.Scope), log.Timestamp, log.IsValid,
	))
	if err != nil {
		return tracking.LocationLog{}, fmt.Errorf("failed to create location log: %w", err)
	}
	return created, nil
}

// LatestForSession implements tracking.LocationLogRepository.
func (r *locationLogRepository) LatestForSession(ctx context.Context, sessionID string, logType tracking.LogType) (*tracking.LocationLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + locationLogColumns + `
		FROM location_logs
		WHERE session_id = $1 AND log_type = $2
		ORDER BY timestamp DESC
		LIMIT 1
	`
	l, err := scanLocationLog(q.QueryRow(ctx, query, sessionID, string(logType)))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest location log: %w", err)
	}
	return &l, nil
}

// ListByEmployee implements tracking.LocationLogRepository.
func (r *locationLogRepository) ListByEmployee(ctx context.Context, employeeID, companyID string, scope tracking.Scope, from, to time.Time) ([]tracking.LocationLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + locationLogColumns + `
		FROM location_logs
		WHERE employee_id = $1
		  AND company_id = $2
		  AND scope = $3
		  AND timestamp >= $4
		  AND timestamp < $5
		ORDER BY timestamp
	`
	rows, err := q.Query(ctx, query, employeeID, companyID, string(scope), from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query location logs: %w", err)
	}
	defer rows.Close()

	var logs []tracking.LocationLog
	for rows.Next() {
		l, err := scanLocationLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan location log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate location logs: %w", err)
	}
	return logs, nil
}

func NewLocationLogRepository(db *database.DB) tracking.LocationLogRepository {
	return &locationLogRepository{db: db}
}
