package shift

import "context"

type ShiftService interface {
	// Create adds a shift schedule to the caller's company.
	Create(ctx context.Context, req CreateShiftRequest) (ShiftResponse, error)

	// GetByID returns one shift schedule of the caller's company.
	GetByID(ctx context.Context, id string) (ShiftResponse, error)

	// List returns the company's shift schedules.
	List(ctx context.Context, includeInactive bool) ([]ShiftResponse, error)

	// Update applies a partial update.
	Update(ctx context.Context, id string, req UpdateShiftRequest) (ShiftResponse, error)

	// Deactivate soft-deletes a shift schedule.
	Deactivate(ctx context.Context, id string) error

	// AssignToEmployee sets or clears the employee's shift.
	AssignToEmployee(ctx context.Context, employeeID string, req AssignShiftRequest) error
}
