package attendance

import (
	"context"
	"fmt"
	"math"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timezone"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/utils"
)

// GetToday implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetToday(ctx context.Context) (attendance.TodayResponse, error) {
	wc, err := a.loadWorkContext(ctx, "", nil, nil)
	if err != nil {
		return attendance.TodayResponse{}, err
	}

	nowUTC := a.now().UTC()
	today := timezone.LocalDate(nowUTC, wc.loc)

	day, err := a.AttendanceRepository.GetOpenByEmployee(ctx, wc.employee.ID)
	if err != nil {
		return attendance.TodayResponse{}, fmt.Errorf("failed to get open attendance: %w", err)
	}
	if day == nil {
		day, err = a.AttendanceRepository.GetByEmployeeAndDate(ctx, wc.employee.ID, today)
		if err != nil {
			return attendance.TodayResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
		}
	}

	if day == nil {
		return attendance.TodayResponse{
			Date:              attendance.FormatDate(today),
			Timezone:          wc.zone,
			TimezoneName:      timezone.DisplayName(wc.zone),
			CanClockIn:        true,
			SessionsRemaining: a.config.MaxDailySessions,
			EffectiveHours:    utils.FormatEffectiveHours(0, false),
		}, nil
	}

	sessions, err := a.sessions.ListByAttendance(ctx, day.ID)
	if err != nil {
		return attendance.TodayResponse{}, fmt.Errorf("failed to list sessions: %w", err)
	}

	hours := attendance.CumulativeHours(sessions, nowUTC)
	resp := attendance.NewAttendanceResponse(*day, sessions)
	zone := a.resolver.Validate(day.UserTimezone)

	return attendance.TodayResponse{
		Date:              attendance.FormatDate(day.Date),
		Timezone:          zone,
		TimezoneName:      timezone.DisplayName(zone),
		CanClockIn:        day.CanClockIn(),
		SessionsRemaining: day.SessionsRemaining(),
		CumulativeHours:   hours,
		EffectiveHours:    utils.FormatEffectiveHours(hours, day.IsCurrentlyClockedIn),
		Attendance:        &resp,
	}, nil
}

// ListMine implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListMine(ctx context.Context, filter attendance.MyAttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if claims.EmployeeID == "" {
		return attendance.ListAttendanceResponse{}, attendance.ErrEmployeeRequired
	}

	attendances, total, err := a.AttendanceRepository.ListByEmployee(ctx, claims.EmployeeID, filter, claims.CompanyID)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to get my attendance: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(attendances))
	for _, att := range attendances {
		responses = append(responses, attendance.NewAttendanceResponse(att, nil))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", (filter.Page-1)*filter.Limit+1, min(filter.Page*filter.Limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Showing:     showing,
		Attendances: responses,
	}, nil
}

// GetByID implements attendance.AttendanceService. Employees only see their
// own rows.
func (a *AttendanceServiceImpl) GetByID(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	day, err := a.AttendanceRepository.GetByID(ctx, id, claims.CompanyID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if day.EmployeeID != claims.EmployeeID && !user.HasPermission(user.Role(claims.Role), user.PermissionAttendanceViewAll) {
		return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
	}

	sessions, err := a.sessions.ListByAttendance(ctx, day.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to list sessions: %w", err)
	}

	return attendance.NewAttendanceResponse(day, sessions), nil
}
