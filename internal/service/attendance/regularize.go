package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
)

// Regularize implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Regularize(ctx context.Context, req attendance.RegularizeRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if !user.HasPermission(user.Role(claims.Role), user.PermissionAttendanceRegularize) {
		return attendance.AttendanceResponse{}, user.ErrInsufficientPermissions
	}

	session, err := a.sessions.GetByID(ctx, req.SessionID, claims.CompanyID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if session.IsOpen() {
		return attendance.AttendanceResponse{}, attendance.ErrSessionStillOpen
	}

	s, err := a.ShiftRepository.GetByEmployeeID(ctx, session.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get employee shift: %w", err)
	}

	clockIn, clockOut := req.Times()
	note := strings.TrimSpace(req.Note)

	var (
		day      attendance.Attendance
		sessions []attendance.Session
	)
	err = a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		day, err = a.AttendanceRepository.GetForUpdate(txCtx, session.EmployeeID, session.Date)
		if err != nil {
			return fmt.Errorf("failed to lock attendance row: %w", err)
		}

		session.ClockIn = clockIn
		session.ClockOut = &clockOut
		session.DurationHours = attendance.SessionDuration(clockIn, clockOut)
		if err := a.sessions.Update(txCtx, session); err != nil {
			return fmt.Errorf("failed to update session: %w", err)
		}

		sessions, err = a.sessions.ListByAttendance(txCtx, day.ID)
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}
		for i := range sessions {
			if sessions[i].ID == session.ID {
				sessions[i] = session
			}
		}

		loc := a.resolver.Location(day.UserTimezone)
		day.TotalWorkingHours = attendance.ClosedHours(sessions)
		day.RegularizationNote = &note
		if day.Status == attendance.StatusMissingPunch {
			day.Status = attendance.DeriveStatus(sessions)
		}

		if session.SessionNumber == 1 {
			day.ClockIn = &clockIn
			if _, err := a.applyLateness(txCtx, &day, clockIn.In(loc), day.Date, s); err != nil {
				return err
			}
			if !day.IsHalfDayLate && (day.Status == attendance.StatusHalfDay || day.Status == attendance.StatusAbsent) {
				day.Status = attendance.DeriveStatus(sessions)
			}
		}

		if !day.IsCurrentlyClockedIn {
			last := lastClockOut(sessions)
			day.ClockOut = last
			if day.ClockIn != nil && last != nil {
				early := attendance.ComputeEarlyDeparture(day.ClockIn.In(loc), last.In(loc), s)
				day.IsEarlyDeparture = early.IsEarlyDeparture
				day.EarlyDepartureMinutes = early.Minutes
			}
		}

		if err := a.AttendanceRepository.Update(txCtx, day); err != nil {
			return fmt.Errorf("failed to update attendance: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	a.notifyRegularized(ctx, claims, day, session)

	return attendance.NewAttendanceResponse(day, sessions), nil
}

func lastClockOut(sessions []attendance.Session) *time.Time {
	var last *time.Time
	for _, s := range sessions {
		if s.ClockOut != nil && (last == nil || s.ClockOut.After(*last)) {
			out := *s.ClockOut
			last = &out
		}
	}
	return last
}

func (a *AttendanceServiceImpl) notifyRegularized(ctx context.Context, claims auth.Claims, day attendance.Attendance, session attendance.Session) {
	emp, err := a.EmployeeRepository.GetByID(ctx, day.EmployeeID, day.CompanyID)
	if err != nil {
		slog.Warn("failed to load employee for regularization notice", "employee_id", day.EmployeeID, "error", err)
		return
	}
	if emp.UserID == nil {
		return
	}

	sender := claims.UserID
	a.queue(ctx, notification.CreateNotificationRequest{
		CompanyID:   day.CompanyID,
		RecipientID: *emp.UserID,
		SenderID:    &sender,
		Type:        notification.TypeAttendanceRegularized,
		Title:       "Attendance corrected",
		Message: fmt.Sprintf("Session %d on %s was corrected: %s",
			session.SessionNumber, attendance.FormatDate(day.Date), *day.RegularizationNote),
		Data: map[string]interface{}{
			"attendance_id": day.ID,
			"session_id":    session.ID,
		},
	})
}
