package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string, companyID string) (Employee, error)
	GetByUserID(ctx context.Context, userID string) (Employee, error)
	ListActiveByCompanyID(ctx context.Context, companyID string) ([]Employee, error)
	ListActiveCompanyIDs(ctx context.Context) ([]string, error)
	// GetManagerUserIDs returns user IDs of managers and owners of a company.
	GetManagerUserIDs(ctx context.Context, companyID string) ([]string, error)
	UpdateShift(ctx context.Context, id string, companyID string, shiftID *string) error
}
