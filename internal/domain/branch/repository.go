package branch

import "context"

type BranchRepository interface {
	GetByID(ctx context.Context, id string, companyID string) (Branch, error)
	// GetByEmployeeID returns the employee's branch, or nil when none is set.
	GetByEmployeeID(ctx context.Context, employeeID string) (*Branch, error)
}
