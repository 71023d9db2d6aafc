package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/branch"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type branchRepositoryImpl struct {
	db *database.DB
}

func NewBranchRepository(db *database.DB) branch.BranchRepository {
	return &branchRepositoryImpl{db: db}
}

func scanBranch(row pgx.Row) (branch.Branch, error) {
	var result branch.Branch
	err := row.Scan(
		&result.ID,
		&result.CompanyID,
		&result.Name,
		&result.Address,
		&result.Timezone,
		&result.Latitude,
		&result.Longitude,
		&result.RadiusMeters,
	)
	return result, err
}

// GetByID implements branch.BranchRepository.
func (r *branchRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (branch.Branch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, name, address, timezone, latitude, longitude, radius_meters
		FROM branches
		WHERE id = $1 AND company_id = $2
	`
	result, err := scanBranch(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return branch.Branch{}, branch.ErrBranchNotFound
		}
		return branch.Branch{}, fmt.Errorf("failed to get branch: %w", err)
	}

	return result, nil
}

// GetByEmployeeID implements branch.BranchRepository.
func (r *branchRepositoryImpl) GetByEmployeeID(ctx context.Context, employeeID string) (*branch.Branch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT b.id, b.company_id, b.name, b.address, b.timezone, b.latitude, b.longitude, b.radius_meters
		FROM employees e
		JOIN branches b ON b.id = e.branch_id
		WHERE e.id = $1
	`
	result, err := scanBranch(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get employee branch: %w", err)
	}

	return &result, nil
}
