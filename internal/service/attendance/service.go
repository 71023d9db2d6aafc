package attendance

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
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/tracking"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timezone"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/utils"
)

const (
	EventClockIn  = "attendance.clock_in"
	EventClockOut = "attendance.clock_out"
)

// Notifier is the part of the notification service attendance needs.
type Notifier interface {
	PublishLive(userID string, event string, data interface{})
	QueueNotification(ctx context.Context, req notification.CreateNotificationRequest) error
}

type Config struct {
	MaxDailySessions  int     // clamped to 1..3
	AccuracyThreshold float64 // default: 2500 meters
}

type AttendanceServiceImpl struct {
	tx database.Transactor
	attendance.AttendanceRepository
	sessions  attendance.SessionRepository
	locations tracking.LocationLogRepository
	employee.EmployeeRepository
	shift.ShiftRepository
	branch.BranchRepository
	resolver *timezone.Resolver
	notifier Notifier
	config   Config
	now      func() time.Time
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	sessionRepo attendance.SessionRepository,
	locationRepo tracking.LocationLogRepository,
	employeeRepo employee.EmployeeRepository,
	shiftRepo shift.ShiftRepository,
	branchRepo branch.BranchRepository,
	resolver *timezone.Resolver,
	notifier Notifier,
	cfg Config,
) attendance.AttendanceService {
	cfg.MaxDailySessions = attendance.EffectiveMaxSessions(cfg.MaxDailySessions)
	if cfg.AccuracyThreshold <= 0 {
		cfg.AccuracyThreshold = tracking.DefaultAccuracyThreshold
	}
	return &AttendanceServiceImpl{
		tx:                   tx,
		AttendanceRepository: attendanceRepo,
		sessions:             sessionRepo,
		locations:            locationRepo,
		EmployeeRepository:   employeeRepo,
		ShiftRepository:      shiftRepo,
		BranchRepository:     branchRepo,
		resolver:             resolver,
		notifier:             notifier,
		config:               cfg,
		now:                  time.Now,
	}
}

// workContext is everything a clock action needs to know about the caller.
type workContext struct {
	claims   auth.Claims
	employee employee.Employee
	shift    *shift.ShiftSchedule
	branch   *branch.Branch
	zone     string
	loc      *time.Location
}

func (a *AttendanceServiceImpl) loadWorkContext(ctx context.Context, clientZone string, lat, lng *float64) (workContext, error) {
	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return workContext{}, err
	}
	if claims.EmployeeID == "" {
		return workContext{}, attendance.ErrEmployeeRequired
	}

	emp, err := a.EmployeeRepository.GetByID(ctx, claims.EmployeeID, claims.CompanyID)
	if err != nil {
		return workContext{}, fmt.Errorf("failed to get employee: %w", err)
	}

	s, err := a.ShiftRepository.GetByEmployeeID(ctx, emp.ID)
	if err != nil {
		return workContext{}, fmt.Errorf("failed to get employee shift: %w", err)
	}

	b, err := a.BranchRepository.GetByEmployeeID(ctx, emp.ID)
	if err != nil {
		return workContext{}, fmt.Errorf("failed to get employee branch: %w", err)
	}

	var branchZone string
	if b != nil {
		branchZone = b.TimezoneName()
	}
	var coords *timezone.Coordinates
	if lat != nil && lng != nil {
		coords = &timezone.Coordinates{Latitude: *lat, Longitude: *lng}
	}
	zone := a.resolver.Resolve(branchZone, clientZone, coords)

	return workContext{
		claims:   claims,
		employee: emp,
		shift:    s,
		branch:   b,
		zone:     zone,
		loc:      a.resolver.Location(zone),
	}, nil
}

// withinGeofence reports whether coordinates fall inside the branch geofence.
// Without a geofence or coordinates nothing is validated.
func (w workContext) withinGeofence(lat, lng *float64) bool {
	if w.branch == nil || !w.branch.HasGeofence() || lat == nil || lng == nil {
		return false
	}
	return utils.WithinRadius(*lat, *lng, *w.branch.Latitude, *w.branch.Longitude, w.branch.RadiusMeters)
}

// ClockIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockIn(ctx context.Context, req attendance.ClockInRequest) (attendance.ClockInResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ClockInResponse{}, err
	}

	wc, err := a.loadWorkContext(ctx, req.Timezone, req.Latitude, req.Longitude)
	if err != nil {
		return attendance.ClockInResponse{}, err
	}

	nowUTC := a.now().UTC()
	nowLocal := nowUTC.In(wc.loc)
	today := timezone.LocalDate(nowUTC, wc.loc)
	sessionType := attendance.SessionType(req.SessionType)
	validated := wc.withinGeofence(req.Latitude, req.Longitude)

	var (
		day     attendance.Attendance
		created attendance.Session
		warning *attendance.LateWarning
	)

	err = a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		// The open row keeps the date it was opened on, which differs from
		// today when the zone changed or the session runs past midnight.
		open, err := a.AttendanceRepository.GetOpenByEmployee(txCtx, wc.employee.ID)
		if err != nil {
			return fmt.Errorf("failed to get open attendance: %w", err)
		}
		if open != nil {
			return attendance.ErrAlreadyClockedIn
		}

		if err := a.AttendanceRepository.EnsureForDate(txCtx, attendance.Attendance{
			CompanyID:        wc.claims.CompanyID,
			EmployeeID:       wc.employee.ID,
			Date:             today,
			Status:           attendance.StatusPresent,
			MaxDailySessions: a.config.MaxDailySessions,
			UserTimezone:     wc.zone,
		}); err != nil {
			return fmt.Errorf("failed to ensure attendance row: %w", err)
		}

		day, err = a.AttendanceRepository.GetForUpdate(txCtx, wc.employee.ID, today)
		if err != nil {
			return fmt.Errorf("failed to lock attendance row: %w", err)
		}

		if day.IsCurrentlyClockedIn {
			return attendance.ErrAlreadyClockedIn
		}
		if day.SessionsRemaining() <= 0 {
			return attendance.ErrMaxSessionsReached
		}

		number := day.DailySessionsCount + 1
		exists, err := a.sessions.ExistsByNumber(txCtx, wc.employee.ID, today, number)
		if err != nil {
			return fmt.Errorf("failed to check session number: %w", err)
		}
		if exists {
			return attendance.ErrSessionConflict
		}

		earlier, err := a.sessions.ListByAttendance(txCtx, day.ID)
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		created, err = a.sessions.Create(txCtx, attendance.Session{
			AttendanceID:      day.ID,
			CompanyID:         wc.claims.CompanyID,
			EmployeeID:        wc.employee.ID,
			Date:              today,
			SessionNumber:     number,
			SessionType:       sessionType,
			ClockIn:           nowUTC,
			ClockInLatitude:   req.Latitude,
			ClockInLongitude:  req.Longitude,
			IsActive:          true,
			LocationValidated: validated,
		})
		if err != nil {
			if errors.Is(err, attendance.ErrSessionConflict) {
				return err
			}
			return fmt.Errorf("failed to create session: %w", err)
		}

		trackingEnd := nowUTC.Add(shift.TrackingWindow(wc.shift))
		day.Status = dayStatus(day, append(earlier, created))
		day.IsCurrentlyClockedIn = true
		day.CurrentSessionType = &sessionType
		day.DailySessionsCount = number
		day.LocationTrackingActive = true
		day.LocationTrackingEndTime = &trackingEnd
		day.UserTimezone = wc.zone

		if number == 1 {
			location := utils.FormatCoordinates(req.Latitude, req.Longitude)
			day.ClockIn = &nowUTC
			day.LocationIn = &location

			warning, err = a.applyLateness(txCtx, &day, nowLocal, today, wc.shift)
			if err != nil {
				return err
			}
		}

		if err := a.AttendanceRepository.Update(txCtx, day); err != nil {
			return fmt.Errorf("failed to update attendance: %w", err)
		}

		if req.Latitude != nil && req.Longitude != nil {
			if _, err := a.locations.Create(txCtx, tracking.LocationLog{
				CompanyID:  wc.claims.CompanyID,
				EmployeeID: wc.employee.ID,
				SessionID:  &created.ID,
				Latitude:   *req.Latitude,
				Longitude:  *req.Longitude,
				Accuracy:   tracking.AccuracyOrUnknown(req.Accuracy),
				LogType:    tracking.LogTypeClockIn,
				Scope:      tracking.ScopeSession,
				Timestamp:  nowUTC,
				IsValid:    tracking.IsAccurate(req.Accuracy, a.config.AccuracyThreshold),
			}); err != nil {
				return fmt.Errorf("failed to record clock-in location: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return attendance.ClockInResponse{}, err
	}

	resp := attendance.ClockInResponse{
		Status:             attendance.ResultSuccess,
		Message:            fmt.Sprintf("Clocked in for session %d", created.SessionNumber),
		AttendanceID:       day.ID,
		SessionNumber:      created.SessionNumber,
		SessionType:        created.SessionType,
		ClockInTime:        attendance.FormatClock(nowUTC, wc.loc),
		Date:               attendance.FormatDate(today),
		Timezone:           wc.zone,
		TotalSessionsToday: day.DailySessionsCount,
		MaxSessions:        attendance.EffectiveMaxSessions(day.MaxDailySessions),
		IsLate:             day.IsLate,
		LateByMinutes:      day.LateByMinutes,
		IsGraceUsed:        day.IsGraceUsed,
		LocationValidated:  validated,
		LateWarning:        warning,
	}

	a.notifier.PublishLive(wc.claims.UserID, EventClockIn, resp)
	if warning != nil && warning.Level == attendance.WarningLevelCritical {
		a.queue(ctx, notification.CreateNotificationRequest{
			CompanyID:   wc.claims.CompanyID,
			RecipientID: wc.claims.UserID,
			Type:        notification.TypeLateArrivalWarning,
			Title:       "Repeated late arrivals",
			Message:     warning.Message,
			Data: map[string]interface{}{
				"attendance_id": day.ID,
				"count":         warning.Count,
				"window_days":   warning.WindowDays,
			},
		})
	}

	return resp, nil
}

// applyLateness evaluates the first clock-in of a day and returns the
// trailing-week warning when the employee was late or used grace.
func (a *AttendanceServiceImpl) applyLateness(ctx context.Context, day *attendance.Attendance, clockInLocal, today time.Time, s *shift.ShiftSchedule) (*attendance.LateWarning, error) {
	res := attendance.ComputeLateArrival(clockInLocal, s)

	priorGraceUses := 0
	if res.IsGraceUsed {
		monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		n, err := a.AttendanceRepository.CountGraceUses(ctx, day.EmployeeID, monthStart, today, day.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count grace uses: %w", err)
		}
		priorGraceUses = n
	}
	attendance.ApplyLateArrival(day, res, priorGraceUses, s)

	if !res.IsLate && !res.IsGraceUsed {
		return nil, nil
	}

	prior, err := a.AttendanceRepository.CountLateDays(ctx, day.EmployeeID, today.AddDate(0, 0, -7), today.AddDate(0, 0, -1))
	if err != nil {
		return nil, fmt.Errorf("failed to count late days: %w", err)
	}
	warning := attendance.ClassifyLateWarning(prior)
	return &warning, nil
}

// dayStatus keeps a grace penalty in place and otherwise derives the status
// from the session kinds seen so far.
func dayStatus(day attendance.Attendance, sessions []attendance.Session) attendance.Status {
	if day.IsHalfDayLate && (day.Status == attendance.StatusHalfDay || day.Status == attendance.StatusAbsent) {
		return day.Status
	}
	return attendance.DeriveStatus(sessions)
}

// ClockOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockOut(ctx context.Context, req attendance.ClockOutRequest) (attendance.ClockOutResult, error) {
	if err := req.Validate(); err != nil {
		return attendance.ClockOutResult{}, err
	}

	wc, err := a.loadWorkContext(ctx, req.Timezone, req.Latitude, req.Longitude)
	if err != nil {
		return attendance.ClockOutResult{}, err
	}

	nowUTC := a.now().UTC()
	open, err := a.findOpenDay(ctx, wc.employee.ID, timezone.LocalDate(nowUTC, wc.loc))
	if err != nil {
		return attendance.ClockOutResult{}, err
	}

	var result attendance.ClockOutResult
	err = a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		day, err := a.AttendanceRepository.GetForUpdate(txCtx, wc.employee.ID, open.Date)
		if err != nil {
			return fmt.Errorf("failed to lock attendance row: %w", err)
		}
		if !day.IsCurrentlyClockedIn {
			return attendance.ErrNotClockedIn
		}

		active, err := a.sessions.GetActive(txCtx, day.ID)
		if err != nil {
			return err
		}

		sessions, err := a.sessions.ListByAttendance(txCtx, day.ID)
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		expected := shift.ExpectedHoursFor(wc.shift)
		worked := attendance.CumulativeHours(sessions, nowUTC)
		if !req.Force && worked < expected {
			p := attendance.ComputeShiftProgress(worked, expected)
			result.Confirmation = &attendance.ClockOutConfirmation{
				Status:               attendance.ResultConfirmationRequired,
				RequiresConfirmation: true,
				Message: fmt.Sprintf("You have worked %.1f of %.1f expected hours (%.1f%%). Clock out anyway?",
					p.WorkedHours, p.ExpectedHours, p.CompletionPercentage),
				WorkedHours:          p.WorkedHours,
				ExpectedHours:        p.ExpectedHours,
				CompletionPercentage: p.CompletionPercentage,
				RemainingHours:       p.RemainingHours,
			}
			return nil
		}

		active.Close(nowUTC, req.Latitude, req.Longitude)
		if err := a.sessions.Update(txCtx, active); err != nil {
			return fmt.Errorf("failed to close session: %w", err)
		}
		for i := range sessions {
			if sessions[i].ID == active.ID {
				sessions[i] = active
			}
		}

		loc := a.resolver.Location(day.UserTimezone)
		location := utils.FormatCoordinates(req.Latitude, req.Longitude)
		day.IsCurrentlyClockedIn = false
		day.CurrentSessionType = nil
		day.ClockOut = &nowUTC
		day.LocationOut = &location
		day.LocationTrackingActive = false
		day.TotalWorkingHours = attendance.ClosedHours(sessions)
		if day.ClockIn != nil {
			early := attendance.ComputeEarlyDeparture(day.ClockIn.In(loc), nowUTC.In(loc), wc.shift)
			day.IsEarlyDeparture = early.IsEarlyDeparture
			day.EarlyDepartureMinutes = early.Minutes
		}

		if err := a.AttendanceRepository.Update(txCtx, day); err != nil {
			return fmt.Errorf("failed to update attendance: %w", err)
		}

		if req.Latitude != nil && req.Longitude != nil {
			if _, err := a.locations.Create(txCtx, tracking.LocationLog{
				CompanyID:  day.CompanyID,
				EmployeeID: day.EmployeeID,
				SessionID:  &active.ID,
				Latitude:   *req.Latitude,
				Longitude:  *req.Longitude,
				Accuracy:   tracking.AccuracyOrUnknown(req.Accuracy),
				LogType:    tracking.LogTypeClockOut,
				Scope:      tracking.ScopeSession,
				Timestamp:  nowUTC,
				IsValid:    tracking.IsAccurate(req.Accuracy, a.config.AccuracyThreshold),
			}); err != nil {
				return fmt.Errorf("failed to record clock-out location: %w", err)
			}
		}

		result.Completed = &attendance.ClockOutResponse{
			Status:                attendance.ResultSuccess,
			Message:               fmt.Sprintf("Clocked out of session %d", active.SessionNumber),
			AttendanceID:          day.ID,
			SessionNumber:         active.SessionNumber,
			SessionType:           active.SessionType,
			SessionDuration:       active.DurationHours,
			ClockOutTime:          attendance.FormatClock(nowUTC, loc),
			TotalWorkingHours:     day.TotalWorkingHours,
			SessionsRemaining:     day.SessionsRemaining(),
			IsEarlyDeparture:      day.IsEarlyDeparture,
			EarlyDepartureMinutes: day.EarlyDepartureMinutes,
		}
		return nil
	})
	if err != nil {
		return attendance.ClockOutResult{}, err
	}

	if result.Completed != nil {
		a.notifier.PublishLive(wc.claims.UserID, EventClockOut, result.Completed)
	}
	return result, nil
}

// findOpenDay returns the employee's clocked-in row whatever local date it
// was opened on. today only tells a missing day apart from a closed one.
func (a *AttendanceServiceImpl) findOpenDay(ctx context.Context, employeeID string, today time.Time) (attendance.Attendance, error) {
	open, err := a.AttendanceRepository.GetOpenByEmployee(ctx, employeeID)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to get open attendance: %w", err)
	}
	if open != nil {
		return *open, nil
	}

	current, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if current == nil {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return attendance.Attendance{}, attendance.ErrNotClockedIn
}

func (a *AttendanceServiceImpl) queue(ctx context.Context, req notification.CreateNotificationRequest) {
	if err := a.notifier.QueueNotification(ctx, req); err != nil {
		slog.Warn("failed to queue notification", "type", req.Type, "recipient_id", req.RecipientID, "error", err)
	}
}
