package shift

import "context"

type ShiftRepository interface {
	Create(ctx context.Context, s ShiftSchedule) (ShiftSchedule, error)
	GetByID(ctx context.Context, id string, companyID string) (ShiftSchedule, error)
	List(ctx context.Context, companyID string, includeInactive bool) ([]ShiftSchedule, error)
	Update(ctx context.Context, s ShiftSchedule) (ShiftSchedule, error)
	Deactivate(ctx context.Context, id string, companyID string) error
	// GetByEmployeeID returns the active shift assigned to the employee, or
	// nil when none is assigned.
	GetByEmployeeID(ctx context.Context, employeeID string) (*ShiftSchedule, error)
}
