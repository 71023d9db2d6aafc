package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/branch"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timezone"
)

// Notifier is the part of the notification service the jobs need.
type Notifier interface {
	QueueNotification(ctx context.Context, req notification.CreateNotificationRequest) error
}

type AttendanceJobsConfig struct {
	// AutoClockOutAt is the local time of day at which a session left open is
	// closed, e.g. 23h59m.
	AutoClockOutAt   time.Duration
	MaxDailySessions int
}

type AttendanceJobs struct {
	tx              database.Transactor
	attendanceRepo  attendance.AttendanceRepository
	sessionRepo     attendance.SessionRepository
	employeeRepo    employee.EmployeeRepository
	shiftRepo       shift.ShiftRepository
	branchRepo      branch.BranchRepository
	calendarRepo    calendar.CalendarRepository
	notificationSvc Notifier
	resolver        *timezone.Resolver
	config          AttendanceJobsConfig
	now             func() time.Time
}

func NewAttendanceJobs(
	tx database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	sessionRepo attendance.SessionRepository,
	employeeRepo employee.EmployeeRepository,
	shiftRepo shift.ShiftRepository,
	branchRepo branch.BranchRepository,
	calendarRepo calendar.CalendarRepository,
	notificationSvc Notifier,
	resolver *timezone.Resolver,
	cfg AttendanceJobsConfig,
) *AttendanceJobs {
	if cfg.AutoClockOutAt <= 0 || cfg.AutoClockOutAt >= 24*time.Hour {
		cfg.AutoClockOutAt = 23*time.Hour + 59*time.Minute
	}
	cfg.MaxDailySessions = attendance.EffectiveMaxSessions(cfg.MaxDailySessions)
	return &AttendanceJobs{
		tx:              tx,
		attendanceRepo:  attendanceRepo,
		sessionRepo:     sessionRepo,
		employeeRepo:    employeeRepo,
		shiftRepo:       shiftRepo,
		branchRepo:      branchRepo,
		calendarRepo:    calendarRepo,
		notificationSvc: notificationSvc,
		resolver:        resolver,
		config:          cfg,
		now:             time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("auto_clockout_previous_days", 15*time.Minute, j.AutoClockOutPreviousDays)
	scheduler.AddJob("expire_location_tracking", 5*time.Minute, j.ExpireLocationTracking)
	scheduler.AddJob("reconcile_absences", 1*time.Hour, j.ReconcileAbsences)
}

// closeAt is when a session left open on day gets closed: the end of an
// overnight shift starting that day, otherwise AutoClockOutAt local time.
func (j *AttendanceJobs) closeAt(day time.Time, loc *time.Location, s *shift.ShiftSchedule) time.Time {
	if s != nil && s.IsOvernight() {
		return s.EndOn(day, loc)
	}
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	return midnight.Add(j.config.AutoClockOutAt)
}

// AutoClockOutPreviousDays closes sessions still open on an earlier local
// date once their cut-off has passed.
func (j *AttendanceJobs) AutoClockOutPreviousDays(ctx context.Context) error {
	open, err := j.attendanceRepo.ListClockedIn(ctx)
	if err != nil {
		return fmt.Errorf("failed to list clocked-in attendances: %w", err)
	}

	now := j.now().UTC()
	closed := 0
	for _, day := range open {
		loc := j.resolver.Location(day.UserTimezone)
		if !day.Date.Before(timezone.LocalDate(now, loc)) {
			continue
		}

		s, err := j.shiftRepo.GetByEmployeeID(ctx, day.EmployeeID)
		if err != nil {
			slog.Error("Cron: Failed to get shift", "employee_id", day.EmployeeID, "error", err)
			continue
		}
		cutoff := j.closeAt(day.Date, loc, s)
		if now.Before(cutoff) {
			continue
		}

		ok, err := j.autoClockOut(ctx, day, cutoff)
		if err != nil {
			slog.Error("Cron: Failed to auto clock-out",
				"attendance_id", day.ID,
				"employee_id", day.EmployeeID,
				"error", err)
			continue
		}
		if ok {
			closed++
		}
	}

	if closed > 0 {
		slog.Info("Cron: Auto clocked-out sessions", "count", closed)
	}
	return nil
}

func (j *AttendanceJobs) autoClockOut(ctx context.Context, snapshot attendance.Attendance, cutoff time.Time) (bool, error) {
	var (
		day     attendance.Attendance
		session attendance.Session
	)

	err := j.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		day, err = j.attendanceRepo.GetForUpdate(txCtx, snapshot.EmployeeID, snapshot.Date)
		if err != nil {
			return err
		}
		if !day.IsCurrentlyClockedIn {
			return attendance.ErrNotClockedIn
		}

		session, err = j.sessionRepo.GetActive(txCtx, day.ID)
		if err != nil {
			return err
		}

		at := cutoff
		if !at.After(session.ClockIn) {
			// clocked in after the cut-off; close at the next local midnight
			loc := j.resolver.Location(day.UserTimezone)
			at = time.Date(day.Date.Year(), day.Date.Month(), day.Date.Day()+1, 0, 0, 0, 0, loc)
		}
		session.Close(at.UTC(), nil, nil)
		if err := j.sessionRepo.Update(txCtx, session); err != nil {
			return fmt.Errorf("failed to close session: %w", err)
		}

		sessions, err := j.sessionRepo.ListByAttendance(txCtx, day.ID)
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		closedByEmployee := 0
		for _, s := range sessions {
			if s.ID != session.ID && !s.IsOpen() {
				closedByEmployee++
			}
		}

		closeTime := *session.ClockOut
		day.IsCurrentlyClockedIn = false
		day.CurrentSessionType = nil
		day.ClockOut = &closeTime
		day.LocationTrackingActive = false
		day.TotalWorkingHours = attendance.ClosedHours(sessions)
		if closedByEmployee == 0 {
			day.Status = attendance.StatusMissingPunch
		}

		return j.attendanceRepo.Update(txCtx, day)
	})
	if errors.Is(err, attendance.ErrNotClockedIn) || errors.Is(err, attendance.ErrNoActiveSession) {
		// closed by the employee since the listing
		return false, nil
	}
	if err != nil {
		return false, err
	}

	j.notifyAutoClockOut(ctx, day, session)
	return true, nil
}

func (j *AttendanceJobs) notifyAutoClockOut(ctx context.Context, day attendance.Attendance, session attendance.Session) {
	if j.notificationSvc == nil {
		return
	}

	emp, err := j.employeeRepo.GetByID(ctx, day.EmployeeID, day.CompanyID)
	if err != nil || emp.UserID == nil {
		return
	}

	date := attendance.FormatDate(day.Date)
	err = j.notificationSvc.QueueNotification(ctx, notification.CreateNotificationRequest{
		CompanyID:   day.CompanyID,
		RecipientID: *emp.UserID,
		Type:        notification.TypeAutoClockOut,
		Title:       "Automatically Clocked Out",
		Message:     fmt.Sprintf("Session %d on %s was still open and has been closed automatically", session.SessionNumber, date),
		Data: map[string]interface{}{
			"attendance_id":  day.ID,
			"session_id":     session.ID,
			"session_number": session.SessionNumber,
			"date":           date,
			"status":         day.Status,
		},
	})
	if err != nil {
		slog.Warn("Cron: Failed to queue auto clock-out notification", "employee_id", day.EmployeeID, "error", err)
	}
}

// ExpireLocationTracking switches off tracking windows that have ended.
func (j *AttendanceJobs) ExpireLocationTracking(ctx context.Context) error {
	n, err := j.attendanceRepo.ExpireTracking(ctx, j.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to expire location tracking: %w", err)
	}
	if n > 0 {
		slog.Info("Cron: Expired location tracking", "count", n)
	}
	return nil
}

// ReconcileAbsences gives every active employee a row for their local
// yesterday, classified as holiday, leave, weekly off or absent.
func (j *AttendanceJobs) ReconcileAbsences(ctx context.Context) error {
	companyIDs, err := j.employeeRepo.ListActiveCompanyIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to get companies: %w", err)
	}

	now := j.now().UTC()
	created := 0
	for _, companyID := range companyIDs {
		employees, err := j.employeeRepo.ListActiveByCompanyID(ctx, companyID)
		if err != nil {
			slog.Error("Cron: Failed to get employees", "company_id", companyID, "error", err)
			continue
		}

		for _, emp := range employees {
			ok, err := j.reconcileEmployee(ctx, emp, now)
			if err != nil {
				slog.Error("Cron: Failed to reconcile attendance",
					"company_id", companyID,
					"employee_id", emp.ID,
					"error", err)
				continue
			}
			if ok {
				created++
			}
		}
	}

	if created > 0 {
		slog.Info("Cron: Reconciled missing attendance", "count", created)
	}
	return nil
}

func (j *AttendanceJobs) reconcileEmployee(ctx context.Context, emp employee.Employee, now time.Time) (bool, error) {
	b, err := j.branchRepo.GetByEmployeeID(ctx, emp.ID)
	if err != nil {
		return false, fmt.Errorf("failed to get branch: %w", err)
	}
	var branchZone string
	if b != nil {
		branchZone = b.TimezoneName()
	}
	zone := j.resolver.Resolve(branchZone, "", nil)
	yesterday := timezone.LocalDate(now, j.resolver.Location(zone)).AddDate(0, 0, -1)

	existing, err := j.attendanceRepo.GetByEmployeeAndDate(ctx, emp.ID, yesterday)
	if err != nil {
		return false, fmt.Errorf("failed to get attendance: %w", err)
	}
	if existing != nil {
		return false, nil
	}

	s, err := j.shiftRepo.GetByEmployeeID(ctx, emp.ID)
	if err != nil {
		return false, fmt.Errorf("failed to get shift: %w", err)
	}
	isHoliday, err := j.calendarRepo.IsHoliday(ctx, emp.CompanyID, yesterday)
	if err != nil {
		return false, fmt.Errorf("failed to check holiday: %w", err)
	}
	onLeave, err := j.calendarRepo.HasApprovedLeave(ctx, emp.ID, yesterday)
	if err != nil {
		return false, fmt.Errorf("failed to check leave: %w", err)
	}

	return j.attendanceRepo.CreateIfAbsent(ctx, attendance.Attendance{
		CompanyID:        emp.CompanyID,
		EmployeeID:       emp.ID,
		Date:             yesterday,
		Status:           attendance.StatusForMissingDay(isHoliday, onLeave, emp.IsExpectedToWork(s, yesterday)),
		MaxDailySessions: j.config.MaxDailySessions,
		UserTimezone:     zone,
	})
}
