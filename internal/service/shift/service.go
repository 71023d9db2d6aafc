package shift

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
)

// Notifier queues in-app notifications.
type Notifier interface {
	QueueNotification(ctx context.Context, req notification.CreateNotificationRequest) error
}

type ShiftServiceImpl struct {
	shift.ShiftRepository
	employee.EmployeeRepository
	notifier Notifier
}

func NewShiftService(shiftRepo shift.ShiftRepository, employeeRepo employee.EmployeeRepository, notifier Notifier) shift.ShiftService {
	return &ShiftServiceImpl{
		ShiftRepository:    shiftRepo,
		EmployeeRepository: employeeRepo,
		notifier:           notifier,
	}
}

func authorize(ctx context.Context, permission user.Permission) (auth.Claims, error) {
	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return auth.Claims{}, err
	}
	if !user.HasPermission(user.Role(claims.Role), permission) {
		return auth.Claims{}, user.ErrInsufficientPermissions
	}
	return claims, nil
}

// Create implements shift.ShiftService.
func (s *ShiftServiceImpl) Create(ctx context.Context, req shift.CreateShiftRequest) (shift.ShiftResponse, error) {
	claims, err := authorize(ctx, user.PermissionShiftManage)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	created, err := s.ShiftRepository.Create(ctx, req.ToEntity(claims.CompanyID))
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	slog.Info("shift schedule created", "shift_id", created.ID, "company_id", claims.CompanyID)
	return shift.NewShiftResponse(created), nil
}

// GetByID implements shift.ShiftService.
func (s *ShiftServiceImpl) GetByID(ctx context.Context, id string) (shift.ShiftResponse, error) {
	claims, err := authorize(ctx, user.PermissionShiftView)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	found, err := s.ShiftRepository.GetByID(ctx, id, claims.CompanyID)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	return shift.NewShiftResponse(found), nil
}

// List implements shift.ShiftService.
func (s *ShiftServiceImpl) List(ctx context.Context, includeInactive bool) ([]shift.ShiftResponse, error) {
	claims, err := authorize(ctx, user.PermissionShiftView)
	if err != nil {
		return nil, err
	}

	shifts, err := s.ShiftRepository.List(ctx, claims.CompanyID, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift schedules: %w", err)
	}

	responses := make([]shift.ShiftResponse, 0, len(shifts))
	for _, sh := range shifts {
		responses = append(responses, shift.NewShiftResponse(sh))
	}
	return responses, nil
}

// Update implements shift.ShiftService.
func (s *ShiftServiceImpl) Update(ctx context.Context, id string, req shift.UpdateShiftRequest) (shift.ShiftResponse, error) {
	claims, err := authorize(ctx, user.PermissionShiftManage)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	existing, err := s.ShiftRepository.GetByID(ctx, id, claims.CompanyID)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	req.Apply(&existing)

	updated, err := s.ShiftRepository.Update(ctx, existing)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	return shift.NewShiftResponse(updated), nil
}

// Deactivate implements shift.ShiftService. Employees keep their assignment;
// an inactive shift is treated as unassigned when attendance is recorded.
func (s *ShiftServiceImpl) Deactivate(ctx context.Context, id string) error {
	claims, err := authorize(ctx, user.PermissionShiftManage)
	if err != nil {
		return err
	}
	return s.ShiftRepository.Deactivate(ctx, id, claims.CompanyID)
}

// AssignToEmployee implements shift.ShiftService.
func (s *ShiftServiceImpl) AssignToEmployee(ctx context.Context, employeeID string, req shift.AssignShiftRequest) error {
	claims, err := authorize(ctx, user.PermissionShiftManage)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, employeeID, claims.CompanyID)
	if err != nil {
		return err
	}

	var assigned *shift.ShiftSchedule
	if req.ShiftID != nil {
		sh, err := s.ShiftRepository.GetByID(ctx, *req.ShiftID, claims.CompanyID)
		if err != nil {
			return err
		}
		if !sh.IsActive {
			return shift.ErrShiftInactive
		}
		assigned = &sh
	}

	if err := s.EmployeeRepository.UpdateShift(ctx, emp.ID, claims.CompanyID, req.ShiftID); err != nil {
		return fmt.Errorf("failed to assign shift: %w", err)
	}

	if assigned != nil && emp.UserID != nil && s.notifier != nil {
		sender := claims.UserID
		err := s.notifier.QueueNotification(ctx, notification.CreateNotificationRequest{
			CompanyID:   claims.CompanyID,
			RecipientID: *emp.UserID,
			SenderID:    &sender,
			Type:        notification.TypeShiftAssigned,
			Title:       "Shift assigned",
			Message: fmt.Sprintf("You have been assigned to %s (%s - %s)",
				assigned.Name, assigned.StartTime.Format("15:04"), assigned.EndTime.Format("15:04")),
			Data: map[string]interface{}{
				"shift_id": assigned.ID,
			},
		})
		if err != nil {
			slog.Warn("failed to queue shift notification", "employee_id", emp.ID, "error", err)
		}
	}
	return nil
}
