package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const employeeColumns = `
	id, company_id, user_id, employee_code, full_name, shift_id, branch_id,
	week_off_monday, week_off_tuesday, week_off_wednesday, week_off_thursday,
	week_off_friday, week_off_saturday, week_off_sunday,
	employment_status, created_at, updated_at`

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var (
		emp    employee.Employee
		status string
	)
	err := row.Scan(
		&emp.ID, &emp.CompanyID, &emp.UserID, &emp.EmployeeCode, &emp.FullName, &emp.ShiftID, &emp.BranchID,
		&emp.WeekOffMonday, &emp.WeekOffTuesday, &emp.WeekOffWednesday, &emp.WeekOffThursday,
		&emp.WeekOffFriday, &emp.WeekOffSaturday, &emp.WeekOffSunday,
		&status, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		return employee.Employee{}, err
	}
	emp.EmploymentStatus = employee.EmploymentStatus(status)
	return emp, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1 AND company_id = $2`
	emp, err := scanEmployee(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by id: %w", err)
	}
	return emp, nil
}

// GetByUserID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE user_id = $1`
	emp, err := scanEmployee(q.QueryRow(ctx, query, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by user id: %w", err)
	}
	return emp, nil
}

// ListActiveByCompanyID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListActiveByCompanyID(ctx context.Context, companyID string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + `
		FROM employees
		WHERE company_id = $1 AND employment_status = $2
		ORDER BY full_name, id
	`
	rows, err := q.Query(ctx, query, companyID, string(employee.EmploymentStatusActive))
	if err != nil {
		return nil, fmt.Errorf("failed to query active employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}

// ListActiveCompanyIDs implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListActiveCompanyIDs(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, e.db)

	rows, err := q.Query(ctx, `
		SELECT DISTINCT company_id
		FROM employees
		WHERE employment_status = $1
	`, string(employee.EmploymentStatusActive))
	if err != nil {
		return nil, fmt.Errorf("failed to query companies: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to collect company ids: %w", err)
	}
	return ids, nil
}

// GetManagerUserIDs implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetManagerUserIDs(ctx context.Context, companyID string) ([]string, error) {
	q := GetQuerier(ctx, e.db)

	rows, err := q.Query(ctx, `
		SELECT id
		FROM users
		WHERE company_id = $1
			AND is_active
			AND role IN ('owner', 'manager')
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get managers: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to collect managers: %w", err)
	}
	return ids, nil
}

// UpdateShift implements employee.EmployeeRepository. A nil shiftID clears
// the assignment.
func (e *employeeRepositoryImpl) UpdateShift(ctx context.Context, id string, companyID string, shiftID *string) error {
	q := GetQuerier(ctx, e.db)

	query := `
		UPDATE employees
		SET shift_id = $1, updated_at = NOW()
		WHERE id = $2 AND company_id = $3
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, shiftID, id, companyID).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to update shift for employee %s: %w", id, err)
	}

	return nil
}
