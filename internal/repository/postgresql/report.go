package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

func collectNamedAttendances(rows pgx.Rows) ([]attendance.Attendance, error) {
	defer rows.Close()

	var list []attendance.Attendance
	for rows.Next() {
		var name *string
		att, err := scanAttendance(rows, &name)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		att.EmployeeName = name
		list = append(list, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendances: %w", err)
	}
	return list, nil
}

// ListByDate returns the company's rows for one attendance date
func (r *reportRepositoryImpl) ListByDate(ctx context.Context, companyID string, date time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + `, e.full_name
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.company_id = $1 AND a.date = $2
		ORDER BY e.full_name, a.employee_id
	`
	rows, err := q.Query(ctx, query, companyID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily attendance: %w", err)
	}
	return collectNamedAttendances(rows)
}

// ListInRange returns rows in [from, to] ordered by employee then date
func (r *reportRepositoryImpl) ListInRange(ctx context.Context, companyID string, employeeID *string, from, to time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	where := "a.company_id = $1 AND a.date >= $2 AND a.date <= $3"
	args := []interface{}{companyID, from, to}
	if employeeID != nil && *employeeID != "" {
		where += " AND a.employee_id = $4"
		args = append(args, *employeeID)
	}

	query := fmt.Sprintf(`SELECT %s, e.full_name
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		WHERE %s
		ORDER BY a.employee_id, a.date
	`, attendanceColumns, where)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance range: %w", err)
	}
	return collectNamedAttendances(rows)
}

// CountActiveEmployees counts employees currently employed by the company
func (r *reportRepositoryImpl) CountActiveEmployees(ctx context.Context, companyID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx, `
		SELECT COUNT(*) FROM employees WHERE company_id = $1 AND employment_status = $2
	`, companyID, string(employee.EmploymentStatusActive)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active employees: %w", err)
	}
	return count, nil
}
