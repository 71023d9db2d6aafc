package tracking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/branch"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/tracking"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timezone"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

type Config struct {
	AccuracyThreshold float64 // default: 2500 meters
}

type TrackingServiceImpl struct {
	tx database.Transactor
	attendance.AttendanceRepository
	sessions attendance.SessionRepository
	tracking.LocationLogRepository
	employee.EmployeeRepository
	branch.BranchRepository
	resolver *timezone.Resolver
	config   Config
	now      func() time.Time
}

func NewTrackingService(
	tx database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	sessionRepo attendance.SessionRepository,
	locationRepo tracking.LocationLogRepository,
	employeeRepo employee.EmployeeRepository,
	branchRepo branch.BranchRepository,
	resolver *timezone.Resolver,
	cfg Config,
) tracking.TrackingService {
	if cfg.AccuracyThreshold <= 0 {
		cfg.AccuracyThreshold = tracking.DefaultAccuracyThreshold
	}
	return &TrackingServiceImpl{
		tx:                    tx,
		AttendanceRepository:  attendanceRepo,
		sessions:              sessionRepo,
		LocationLogRepository: locationRepo,
		EmployeeRepository:    employeeRepo,
		BranchRepository:      branchRepo,
		resolver:              resolver,
		config:                cfg,
		now:                   time.Now,
	}
}

func (s *TrackingServiceImpl) employeeZone(ctx context.Context, employeeID string, coords *timezone.Coordinates) (string, error) {
	b, err := s.BranchRepository.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		return "", fmt.Errorf("failed to get employee branch: %w", err)
	}
	var branchZone string
	if b != nil {
		branchZone = b.TimezoneName()
	}
	return s.resolver.Resolve(branchZone, "", coords), nil
}

// currentDay returns the employee's clocked-in row whatever local date it was
// opened on, else the row of today. It is nil when neither exists.
func (s *TrackingServiceImpl) currentDay(ctx context.Context, employeeID string, today time.Time) (*attendance.Attendance, error) {
	open, err := s.AttendanceRepository.GetOpenByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get open attendance: %w", err)
	}
	if open != nil {
		return open, nil
	}

	day, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	return day, nil
}

// SubmitLocation implements tracking.TrackingService.
func (s *TrackingServiceImpl) SubmitLocation(ctx context.Context, req tracking.SubmitLocationRequest) (tracking.SubmitLocationResponse, error) {
	if err := req.Validate(); err != nil {
		return tracking.SubmitLocationResponse{}, err
	}

	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return tracking.SubmitLocationResponse{}, err
	}
	if claims.EmployeeID == "" {
		return tracking.SubmitLocationResponse{}, tracking.ErrEmployeeRequired
	}

	zone, err := s.employeeZone(ctx, claims.EmployeeID, &timezone.Coordinates{Latitude: *req.Latitude, Longitude: *req.Longitude})
	if err != nil {
		return tracking.SubmitLocationResponse{}, err
	}

	nowUTC := s.now().UTC()
	day, err := s.currentDay(ctx, claims.EmployeeID, timezone.LocalDate(nowUTC, s.resolver.Location(zone)))
	if err != nil {
		return tracking.SubmitLocationResponse{}, err
	}

	switch {
	case day == nil:
		return tracking.SubmitLocationResponse{
			Status:  tracking.StatusNoAttendance,
			Message: "No attendance record for today",
		}, nil
	case !day.IsCurrentlyClockedIn:
		return tracking.SubmitLocationResponse{
			Status:  tracking.StatusNotClockedIn,
			Message: "You are not clocked in",
		}, nil
	case !day.TrackingOpen(nowUTC):
		if day.LocationTrackingActive {
			if err := s.stopTracking(ctx, *day); err != nil {
				return tracking.SubmitLocationResponse{}, err
			}
		}
		return tracking.SubmitLocationResponse{
			Status:          tracking.StatusTrackingInactive,
			Message:         "Location tracking has ended for this shift",
			TrackingEndTime: formatInstant(day.LocationTrackingEndTime),
		}, nil
	}

	active, err := s.sessions.GetActive(ctx, day.ID)
	if err != nil {
		if errors.Is(err, attendance.ErrNoActiveSession) {
			return tracking.SubmitLocationResponse{
				Status:                 tracking.StatusNoActiveSession,
				Message:                "No active session found",
				LocationTrackingActive: true,
			}, nil
		}
		return tracking.SubmitLocationResponse{}, fmt.Errorf("failed to get active session: %w", err)
	}

	accurate := tracking.IsAccurate(req.Accuracy, s.config.AccuracyThreshold)
	sample := tracking.LocationLog{
		CompanyID:  day.CompanyID,
		EmployeeID: day.EmployeeID,
		SessionID:  &active.ID,
		Latitude:   *req.Latitude,
		Longitude:  *req.Longitude,
		Accuracy:   tracking.AccuracyOrUnknown(req.Accuracy),
		LogType:    tracking.LogTypeHourly,
		Scope:      tracking.ScopeSession,
		Timestamp:  nowUTC,
		IsValid:    accurate,
	}

	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.LocationLogRepository.Create(txCtx, sample); err != nil {
			return fmt.Errorf("failed to record location: %w", err)
		}
		if !accurate {
			return nil
		}
		general := sample
		general.SessionID = nil
		general.Scope = tracking.ScopeGeneral
		if _, err := s.LocationLogRepository.Create(txCtx, general); err != nil {
			return fmt.Errorf("failed to record location history: %w", err)
		}
		return nil
	})
	if err != nil {
		return tracking.SubmitLocationResponse{}, err
	}

	return tracking.SubmitLocationResponse{
		Status:                 tracking.StatusSuccess,
		Message:                "Location recorded",
		LocationTrackingActive: true,
		SessionNumber:          active.SessionNumber,
		RecordedInHistory:      accurate,
		TrackingEndTime:        formatInstant(day.LocationTrackingEndTime),
	}, nil
}

func (s *TrackingServiceImpl) stopTracking(ctx context.Context, day attendance.Attendance) error {
	return s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		locked, err := s.AttendanceRepository.GetForUpdate(txCtx, day.EmployeeID, day.Date)
		if err != nil {
			return fmt.Errorf("failed to lock attendance row: %w", err)
		}
		if !locked.LocationTrackingActive {
			return nil
		}
		locked.LocationTrackingActive = false
		if err := s.AttendanceRepository.Update(txCtx, locked); err != nil {
			return fmt.Errorf("failed to stop tracking: %w", err)
		}
		slog.Info("location tracking expired", "attendance_id", locked.ID, "employee_id", locked.EmployeeID)
		return nil
	})
}

// GetStatus implements tracking.TrackingService.
func (s *TrackingServiceImpl) GetStatus(ctx context.Context) (tracking.TrackingStatusResponse, error) {
	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return tracking.TrackingStatusResponse{}, err
	}
	if claims.EmployeeID == "" {
		return tracking.TrackingStatusResponse{}, tracking.ErrEmployeeRequired
	}

	zone, err := s.employeeZone(ctx, claims.EmployeeID, nil)
	if err != nil {
		return tracking.TrackingStatusResponse{}, err
	}

	nowUTC := s.now().UTC()
	day, err := s.currentDay(ctx, claims.EmployeeID, timezone.LocalDate(nowUTC, s.resolver.Location(zone)))
	if err != nil {
		return tracking.TrackingStatusResponse{}, err
	}
	if day == nil {
		return tracking.TrackingStatusResponse{}, nil
	}

	open := day.TrackingOpen(nowUTC)
	resp := tracking.TrackingStatusResponse{
		IsClockedIn:            day.IsCurrentlyClockedIn,
		LocationTrackingActive: open,
		TrackingStopped:        day.IsCurrentlyClockedIn && !open,
		SessionCount:           day.DailySessionsCount,
		TrackingEndTime:        formatInstant(day.LocationTrackingEndTime),
	}
	if !day.IsCurrentlyClockedIn {
		return resp, nil
	}

	active, err := s.sessions.GetActive(ctx, day.ID)
	if err != nil {
		if errors.Is(err, attendance.ErrNoActiveSession) {
			return resp, nil
		}
		return tracking.TrackingStatusResponse{}, fmt.Errorf("failed to get active session: %w", err)
	}
	resp.CurrentSessionNumber = active.SessionNumber

	latest, err := s.LocationLogRepository.LatestForSession(ctx, active.ID, tracking.LogTypeHourly)
	if err != nil {
		return tracking.TrackingStatusResponse{}, fmt.Errorf("failed to get latest location: %w", err)
	}
	if latest != nil {
		resp.LastLocationAt = formatInstant(&latest.Timestamp)
	}
	resp.NeedsLocation = open && (latest == nil || nowUTC.Sub(latest.Timestamp) >= tracking.HourlyInterval)

	return resp, nil
}

// GetHistory implements tracking.TrackingService. Employees may read their own
// trail; other employees need the tracking.view_all permission.
func (s *TrackingServiceImpl) GetHistory(ctx context.Context, req tracking.HistoryRequest) (tracking.HistoryResponse, error) {
	if err := req.Validate(); err != nil {
		return tracking.HistoryResponse{}, err
	}

	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return tracking.HistoryResponse{}, err
	}
	if req.EmployeeID != claims.EmployeeID && !user.HasPermission(user.Role(claims.Role), user.PermissionTrackingViewAll) {
		return tracking.HistoryResponse{}, user.ErrInsufficientPermissions
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID, claims.CompanyID)
	if err != nil {
		return tracking.HistoryResponse{}, err
	}

	zone, err := s.employeeZone(ctx, emp.ID, nil)
	if err != nil {
		return tracking.HistoryResponse{}, err
	}
	loc := s.resolver.Location(zone)

	date, _ := validator.IsValidDate(req.Date)
	from := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	to := from.AddDate(0, 0, 1)

	logs, err := s.LocationLogRepository.ListByEmployee(ctx, emp.ID, claims.CompanyID, tracking.ScopeSession, from.UTC(), to.UTC())
	if err != nil {
		return tracking.HistoryResponse{}, fmt.Errorf("failed to list location logs: %w", err)
	}

	resp := tracking.HistoryResponse{
		EmployeeID: emp.ID,
		Date:       req.Date,
		Timezone:   zone,
		Logs:       make([]tracking.LocationLogResponse, 0, len(logs)),
	}
	for _, l := range logs {
		resp.Logs = append(resp.Logs, tracking.NewLocationLogResponse(l))
	}
	return resp, nil
}

func formatInstant(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
