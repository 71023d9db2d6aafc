package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/branch"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/tracking"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timezone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testCompanyID  = "company-1"
	testEmployeeID = "emp-1"
	testUserID     = "user-1"
)

type testEnv struct {
	svc       *AttendanceServiceImpl
	tx        *fakeTransactor
	days      *memAttendance
	sessions  *memSessions
	locations *memLocations
	shifts    *stubShifts
	branches  *stubBranches
	notifier  *recordingNotifier
	clock     time.Time
}

func clockAt(h, m int) time.Time {
	return time.Date(0, 1, 1, h, m, 0, 0, time.UTC)
}

func dayShift() *shift.ShiftSchedule {
	return &shift.ShiftSchedule{
		ID:                             "shift-day",
		Name:                           "General",
		StartTime:                      clockAt(9, 0),
		EndTime:                        clockAt(18, 0),
		GracePeriodMinutes:             15,
		EarlyDepartureThresholdMinutes: 15,
		AllowedLateLogins:              3,
		GraceExceededAction:            shift.GraceActionHalfDay,
		Monday:                         true,
		Tuesday:                        true,
		Wednesday:                      true,
		Thursday:                       true,
		Friday:                         true,
		IsActive:                       true,
	}
}

func strPtr(s string) *string { return &s }

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	zone := "Asia/Kolkata"
	env := &testEnv{
		tx:        &fakeTransactor{},
		days:      newMemAttendance(),
		sessions:  &memSessions{},
		locations: &memLocations{},
		shifts:    &stubShifts{assigned: dayShift()},
		branches:  &stubBranches{branch: &branch.Branch{ID: "branch-1", CompanyID: testCompanyID, Timezone: &zone}},
		notifier:  &recordingNotifier{},
		// Monday 2024-03-11 08:55 IST.
		clock: time.Date(2024, 3, 11, 3, 25, 0, 0, time.UTC),
	}
	employees := &stubEmployees{employees: map[string]employee.Employee{
		testEmployeeID: {ID: testEmployeeID, CompanyID: testCompanyID, UserID: strPtr(testUserID), FullName: "Asha Rao"},
	}}

	svc := NewAttendanceService(env.tx, env.days, env.sessions, env.locations, employees, env.shifts, env.branches,
		timezone.NewResolver(timezone.DefaultZone), env.notifier, Config{MaxDailySessions: 3})
	env.svc = svc.(*AttendanceServiceImpl)
	env.svc.now = func() time.Time { return env.clock }
	return env
}

func employeeCtx() context.Context {
	return auth.NewContext(context.Background(), auth.Claims{
		UserID:     testUserID,
		EmployeeID: testEmployeeID,
		CompanyID:  testCompanyID,
		Role:       string(user.RoleEmployee),
	})
}

func managerCtx() context.Context {
	return auth.NewContext(context.Background(), auth.Claims{
		UserID:    "user-manager",
		CompanyID: testCompanyID,
		Role:      string(user.RoleManager),
	})
}

func (e *testEnv) at(utc time.Time) { e.clock = utc }

var monday = time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)

func TestClockIn_FirstSessionOnTime(t *testing.T) {
	env := newTestEnv(t)
	lat, lng := 12.9716, 77.5946

	resp, err := env.svc.ClockIn(employeeCtx(), attendance.ClockInRequest{Latitude: &lat, Longitude: &lng})
	require.NoError(t, err)

	assert.Equal(t, attendance.ResultSuccess, resp.Status)
	assert.Equal(t, 1, resp.SessionNumber)
	assert.Equal(t, attendance.SessionTypeWeb, resp.SessionType)
	assert.Equal(t, "08:55:00", resp.ClockInTime)
	assert.Equal(t, "2024-03-11", resp.Date)
	assert.Equal(t, "Asia/Kolkata", resp.Timezone)
	assert.Equal(t, 1, resp.TotalSessionsToday)
	assert.Equal(t, 3, resp.MaxSessions)
	assert.False(t, resp.IsLate)
	assert.False(t, resp.IsGraceUsed)
	assert.Nil(t, resp.LateWarning)

	day := env.days.get(testEmployeeID, monday)
	assert.Equal(t, attendance.StatusPresent, day.Status)
	assert.True(t, day.IsCurrentlyClockedIn)
	assert.True(t, day.LocationTrackingActive)
	require.NotNil(t, day.LocationTrackingEndTime)
	assert.Equal(t, env.clock.Add(9*time.Hour), *day.LocationTrackingEndTime)
	require.NotNil(t, day.LocationIn)
	assert.Equal(t, "12.9716,77.5946", *day.LocationIn)

	require.Len(t, env.locations.logs, 1)
	log := env.locations.logs[0]
	assert.Equal(t, tracking.LogTypeClockIn, log.LogType)
	assert.Equal(t, tracking.ScopeSession, log.Scope)
	assert.Equal(t, tracking.UnknownAccuracy, log.Accuracy)
	require.NotNil(t, log.SessionID)

	require.Len(t, env.notifier.live, 1)
	assert.Equal(t, EventClockIn, env.notifier.live[0].Event)
	assert.Equal(t, testUserID, env.notifier.live[0].UserID)
}

func TestClockIn_WithoutCoordinatesWritesNoLog(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.ClockIn(employeeCtx(), attendance.ClockInRequest{})
	require.NoError(t, err)

	assert.Empty(t, env.locations.logs)
	day := env.days.get(testEmployeeID, monday)
	assert.Equal(t, "N/A", *day.LocationIn)
}

func TestClockIn_AlreadyClockedIn(t *testing.T) {
	env := newTestEnv(t)
	ctx := employeeCtx()

	_, err := env.svc.ClockIn(ctx, attendance.ClockInRequest{})
	require.NoError(t, err)

	env.at(env.clock.Add(10 * time.Minute))
	_, err = env.svc.ClockIn(ctx, attendance.ClockInRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedIn)
	assert.Equal(t, 1, env.sessions.open())
}

func TestClockIn_SessionCapAndHybrid(t *testing.T) {
	env := newTestEnv(t)
	ctx := employeeCtx()
	start := time.Date(2024, 3, 11, 3, 30, 0, 0, time.UTC)

	types := []string{"WEB", "REMOTE", "WEB"}
	for i, typ := range types {
		env.at(start.Add(time.Duration(i*3) * time.Hour))
		resp, err := env.svc.ClockIn(ctx, attendance.ClockInRequest{SessionType: typ})
		require.NoError(t, err)
		assert.Equal(t, i+1, resp.SessionNumber)

		env.at(env.clock.Add(2 * time.Hour))
		out, err := env.svc.ClockOut(ctx, attendance.ClockOutRequest{Force: true})
		require.NoError(t, err)
		require.NotNil(t, out.Completed)
		assert.Equal(t, 2-i, out.Completed.SessionsRemaining)
	}

	day := env.days.get(testEmployeeID, monday)
	assert.Equal(t, attendance.StatusHybrid, day.Status)
	assert.Equal(t, 3, day.DailySessionsCount)
	assert.Equal(t, 6.0, day.TotalWorkingHours)

	env.at(env.clock.Add(time.Hour))
	_, err := env.svc.ClockIn(ctx, attendance.ClockInRequest{})
	assert.ErrorIs(t, err, attendance.ErrMaxSessionsReached)
	assert.Len(t, env.sessions.rows, 3)
}

func TestClockIn_SessionNumberTaken(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.sessions.Create(context.Background(), attendance.Session{
		EmployeeID:    testEmployeeID,
		CompanyID:     testCompanyID,
		Date:          monday,
		SessionNumber: 1,
	})
	require.NoError(t, err)

	_, err = env.svc.ClockIn(employeeCtx(), attendance.ClockInRequest{})
	assert.ErrorIs(t, err, attendance.ErrSessionConflict)
}

func TestClockIn_LateArrival(t *testing.T) {
	tests := []struct {
		name      string
		zone      string
		clockIn   time.Time
		late      bool
		lateBy    int
		graceUsed bool
	}{
		{"kolkata within grace", "Asia/Kolkata", time.Date(2024, 3, 11, 3, 40, 0, 0, time.UTC), false, 0, true},
		{"kolkata late", "Asia/Kolkata", time.Date(2024, 3, 11, 3, 50, 0, 0, time.UTC), true, 5, false},
		{"new york within grace", "America/New_York", time.Date(2024, 3, 11, 13, 10, 0, 0, time.UTC), false, 0, true},
		{"new york late", "America/New_York", time.Date(2024, 3, 11, 13, 20, 0, 0, time.UTC), true, 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.branches.branch.Timezone = &tt.zone
			env.at(tt.clockIn)

			resp, err := env.svc.ClockIn(employeeCtx(), attendance.ClockInRequest{})
			require.NoError(t, err)
			assert.Equal(t, tt.zone, resp.Timezone)
			assert.Equal(t, tt.late, resp.IsLate)
			assert.Equal(t, tt.lateBy, resp.LateByMinutes)
			assert.Equal(t, tt.graceUsed, resp.IsGraceUsed)
			require.NotNil(t, resp.LateWarning)
			assert.Equal(t, attendance.WarningLevelWarning, resp.LateWarning.Level)
			assert.Equal(t, 1, resp.LateWarning.Count)
		})
	}
}

func TestClockIn_CriticalLateWarningQueuesNotification(t *testing.T) {
	tests := []struct {
		name     string
		lateDays []int
		count    int
	}{
		{"four days in a row", []int{1, 2, 3, 4}, 5},
		{"a week back counts", []int{2, 3, 4, 7}, 5},
		{"eight days back is outside the week", []int{1, 2, 3, 4, 8}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			for _, d := range tt.lateDays {
				env.days.put(attendance.Attendance{
					CompanyID:  testCompanyID,
					EmployeeID: testEmployeeID,
					Date:       monday.AddDate(0, 0, -d),
					Status:     attendance.StatusPresent,
					IsLate:     true,
				})
			}

			env.at(time.Date(2024, 3, 11, 3, 50, 0, 0, time.UTC))
			resp, err := env.svc.ClockIn(employeeCtx(), attendance.ClockInRequest{})
			require.NoError(t, err)

			require.NotNil(t, resp.LateWarning)
			assert.Equal(t, attendance.WarningLevelCritical, resp.LateWarning.Level)
			assert.Equal(t, tt.count, resp.LateWarning.Count)

			require.Len(t, env.notifier.queued, 1)
			assert.Equal(t, notification.TypeLateArrivalWarning, env.notifier.queued[0].Type)
			assert.Equal(t, testUserID, env.notifier.queued[0].RecipientID)
		})
	}
}

func TestClockIn_LateWarningBelowCritical(t *testing.T) {
	env := newTestEnv(t)
	for _, d := range []int{2, 3, 8} {
		env.days.put(attendance.Attendance{
			CompanyID: testCompanyID, EmployeeID: testEmployeeID, Date: monday.AddDate(0, 0, -d), IsLate: true,
		})
	}

	env.at(time.Date(2024, 3, 11, 3, 50, 0, 0, time.UTC))
	resp, err := env.svc.ClockIn(employeeCtx(), attendance.ClockInRequest{})
	require.NoError(t, err)

	require.NotNil(t, resp.LateWarning)
	assert.Equal(t, attendance.WarningLevelWarning, resp.LateWarning.Level)
	assert.Equal(t, 3, resp.LateWarning.Count)
	assert.Empty(t, env.notifier.queued)
}

func TestClockIn_GraceAllowanceExhausted(t *testing.T) {
	for _, action := range []struct {
		name     string
		action   shift.GraceExceededAction
		expected attendance.Status
	}{
		{"half day", shift.GraceActionHalfDay, attendance.StatusHalfDay},
		{"loss of pay", shift.GraceActionLOP, attendance.StatusAbsent},
		{"tracking only", shift.GraceActionNone, attendance.StatusPresent},
	} {
		t.Run(action.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.shifts.assigned.GraceExceededAction = action.action
			for _, d := range []int{1, 4, 5} {
				env.days.put(attendance.Attendance{
					CompanyID:   testCompanyID,
					EmployeeID:  testEmployeeID,
					Date:        time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC),
					IsGraceUsed: true,
				})
			}

			env.at(time.Date(2024, 3, 11, 3, 40, 0, 0, time.UTC))
			resp, err := env.svc.ClockIn(employeeCtx(), attendance.ClockInRequest{})
			require.NoError(t, err)
			assert.True(t, resp.IsGraceUsed)

			day := env.days.get(testEmployeeID, monday)
			assert.Equal(t, action.expected, day.Status)
			assert.Equal(t, action.action != shift.GraceActionNone, day.IsHalfDayLate)
		})
	}
}

func TestClockIn_RemoteKeepsWFHUnderPenalty(t *testing.T) {
	env := newTestEnv(t)
	for _, d := range []int{1, 4, 5} {
		env.days.put(attendance.Attendance{
			CompanyID: testCompanyID, EmployeeID: testEmployeeID,
			Date: time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC), IsGraceUsed: true,
		})
	}

	env.at(time.Date(2024, 3, 11, 3, 40, 0, 0, time.UTC))
	_, err := env.svc.ClockIn(employeeCtx(), attendance.ClockInRequest{SessionType: "remote"})
	require.NoError(t, err)

	day := env.days.get(testEmployeeID, monday)
	assert.Equal(t, attendance.StatusWFH, day.Status)
	assert.True(t, day.IsHalfDayLate)
}

func TestClockIn_ClientTimezoneWithoutBranch(t *testing.T) {
	env := newTestEnv(t)
	env.branches.branch = nil
	// 2024-03-11 01:00 UTC is still Sunday evening in New York.
	env.at(time.Date(2024, 3, 11, 1, 0, 0, 0, time.UTC))

	resp, err := env.svc.ClockIn(employeeCtx(), attendance.ClockInRequest{Timezone: "America/New_York"})
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", resp.Timezone)
	assert.Equal(t, "2024-03-10", resp.Date)
	assert.Equal(t, "21:00:00", resp.ClockInTime)
}

func TestClockIn_OpenRowFromAnotherZoneBlocksSecondSession(t *testing.T) {
	env := newTestEnv(t)
	env.branches.branch = nil
	ctx := employeeCtx()

	// 02:30 on Monday in Auckland, still Sunday in the default zone.
	start := time.Date(2024, 3, 10, 13, 30, 0, 0, time.UTC)
	env.at(start)
	in, err := env.svc.ClockIn(ctx, attendance.ClockInRequest{Timezone: "Pacific/Auckland"})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-11", in.Date)

	env.at(start.Add(time.Hour))
	_, err = env.svc.ClockIn(ctx, attendance.ClockInRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedIn)
	assert.Equal(t, 1, env.sessions.open())
	assert.Empty(t, env.days.get(testEmployeeID, monday.AddDate(0, 0, -1)).ID, "no row opened for the default zone's date")

	today, err := env.svc.GetToday(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-11", today.Date)
	assert.Equal(t, "Pacific/Auckland", today.Timezone)
	require.NotNil(t, today.Attendance)
	assert.Equal(t, in.AttendanceID, today.Attendance.ID)
	assert.False(t, today.CanClockIn)

	env.at(start.Add(2 * time.Hour))
	out, err := env.svc.ClockOut(ctx, attendance.ClockOutRequest{Force: true})
	require.NoError(t, err)
	require.NotNil(t, out.Completed)
	assert.Equal(t, in.AttendanceID, out.Completed.AttendanceID)
	assert.Equal(t, "04:30:00", out.Completed.ClockOutTime)
	assert.Equal(t, 0, env.sessions.open())
}

func TestClockIn_RequiresEmployeeProfile(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.ClockIn(managerCtx(), attendance.ClockInRequest{})
	assert.ErrorIs(t, err, attendance.ErrEmployeeRequired)
}

func TestClockIn_ValidationError(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.ClockIn(employeeCtx(), attendance.ClockInRequest{SessionType: "OFFICE"})
	assert.Error(t, err)
	assert.Zero(t, env.tx.calls)
}

func TestClockOut_ConfirmationThenForce(t *testing.T) {
	env := newTestEnv(t)
	ctx := employeeCtx()

	env.at(time.Date(2024, 3, 11, 3, 30, 0, 0, time.UTC))
	_, err := env.svc.ClockIn(ctx, attendance.ClockInRequest{})
	require.NoError(t, err)

	env.at(env.clock.Add(time.Hour))
	result, err := env.svc.ClockOut(ctx, attendance.ClockOutRequest{})
	require.NoError(t, err)
	require.NotNil(t, result.Confirmation)
	assert.Nil(t, result.Completed)

	c := result.Confirmation
	assert.Equal(t, attendance.ResultConfirmationRequired, c.Status)
	assert.True(t, c.RequiresConfirmation)
	assert.Equal(t, 1.0, c.WorkedHours)
	assert.Equal(t, 9.0, c.ExpectedHours)
	assert.Equal(t, 8.0, c.RemainingHours)
	assert.Equal(t, 11.1, c.CompletionPercentage)

	// Nothing changed.
	assert.Equal(t, 1, env.sessions.open())
	assert.True(t, env.days.get(testEmployeeID, monday).IsCurrentlyClockedIn)

	lat, lng := 12.97, 77.59
	result, err = env.svc.ClockOut(ctx, attendance.ClockOutRequest{Force: true, Latitude: &lat, Longitude: &lng})
	require.NoError(t, err)
	require.NotNil(t, result.Completed)
	assert.Nil(t, result.Confirmation)

	done := result.Completed
	assert.Equal(t, 1, done.SessionNumber)
	assert.Equal(t, 1.0, done.SessionDuration)
	assert.Equal(t, 1.0, done.TotalWorkingHours)
	assert.Equal(t, "10:00:00", done.ClockOutTime)
	assert.Equal(t, 2, done.SessionsRemaining)
	assert.True(t, done.IsEarlyDeparture)
	assert.Equal(t, 465, done.EarlyDepartureMinutes)

	day := env.days.get(testEmployeeID, monday)
	assert.False(t, day.IsCurrentlyClockedIn)
	assert.Nil(t, day.CurrentSessionType)
	assert.False(t, day.LocationTrackingActive)
	assert.Equal(t, "12.97,77.59", *day.LocationOut)
	assert.Zero(t, env.sessions.open())

	require.Len(t, env.locations.logs, 1)
	assert.Equal(t, tracking.LogTypeClockOut, env.locations.logs[0].LogType)
}

func TestClockOut_FullShiftNeedsNoConfirmation(t *testing.T) {
	env := newTestEnv(t)
	ctx := employeeCtx()

	env.at(time.Date(2024, 3, 11, 3, 30, 0, 0, time.UTC))
	_, err := env.svc.ClockIn(ctx, attendance.ClockInRequest{})
	require.NoError(t, err)

	env.at(env.clock.Add(9 * time.Hour))
	result, err := env.svc.ClockOut(ctx, attendance.ClockOutRequest{})
	require.NoError(t, err)
	require.NotNil(t, result.Completed)
	assert.Equal(t, 9.0, result.Completed.TotalWorkingHours)
	assert.False(t, result.Completed.IsEarlyDeparture)
}

func TestClockOut_States(t *testing.T) {
	env := newTestEnv(t)
	ctx := employeeCtx()

	_, err := env.svc.ClockOut(ctx, attendance.ClockOutRequest{Force: true})
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)

	_, err = env.svc.ClockIn(ctx, attendance.ClockInRequest{})
	require.NoError(t, err)
	env.at(env.clock.Add(time.Hour))
	_, err = env.svc.ClockOut(ctx, attendance.ClockOutRequest{Force: true})
	require.NoError(t, err)

	_, err = env.svc.ClockOut(ctx, attendance.ClockOutRequest{Force: true})
	assert.ErrorIs(t, err, attendance.ErrNotClockedIn)
}

func TestClockOut_OvernightSession(t *testing.T) {
	env := newTestEnv(t)
	env.shifts.assigned = &shift.ShiftSchedule{
		StartTime:                      clockAt(22, 0),
		EndTime:                        clockAt(6, 0),
		GracePeriodMinutes:             10,
		EarlyDepartureThresholdMinutes: 15,
	}
	ctx := employeeCtx()

	// 22:00 IST on Monday.
	env.at(time.Date(2024, 3, 11, 16, 30, 0, 0, time.UTC))
	in, err := env.svc.ClockIn(ctx, attendance.ClockInRequest{})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-11", in.Date)

	day := env.days.get(testEmployeeID, monday)
	assert.Equal(t, env.clock.Add(8*time.Hour), *day.LocationTrackingEndTime)

	// A new session cannot start on Tuesday while Monday's is open.
	env.at(time.Date(2024, 3, 11, 23, 0, 0, 0, time.UTC))
	_, err = env.svc.ClockIn(ctx, attendance.ClockInRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedIn)

	// 06:00 IST on Tuesday.
	env.at(time.Date(2024, 3, 12, 0, 30, 0, 0, time.UTC))
	out, err := env.svc.ClockOut(ctx, attendance.ClockOutRequest{})
	require.NoError(t, err)
	require.NotNil(t, out.Completed)
	assert.Equal(t, in.AttendanceID, out.Completed.AttendanceID)
	assert.Equal(t, 8.0, out.Completed.TotalWorkingHours)
	assert.False(t, out.Completed.IsEarlyDeparture)
}

func TestGetToday(t *testing.T) {
	env := newTestEnv(t)
	ctx := employeeCtx()

	today, err := env.svc.GetToday(ctx)
	require.NoError(t, err)
	assert.True(t, today.CanClockIn)
	assert.Equal(t, 3, today.SessionsRemaining)
	assert.Equal(t, "0:00", today.EffectiveHours)
	assert.Equal(t, "India Standard Time (IST)", today.TimezoneName)
	assert.Nil(t, today.Attendance)

	start := time.Date(2024, 3, 11, 3, 0, 0, 0, time.UTC)
	env.at(start)
	_, err = env.svc.ClockIn(ctx, attendance.ClockInRequest{})
	require.NoError(t, err)
	env.at(start.Add(3 * time.Hour))
	_, err = env.svc.ClockOut(ctx, attendance.ClockOutRequest{Force: true})
	require.NoError(t, err)

	env.at(start.Add(4 * time.Hour))
	_, err = env.svc.ClockIn(ctx, attendance.ClockInRequest{SessionType: "REMOTE"})
	require.NoError(t, err)
	env.at(start.Add(6*time.Hour + 30*time.Minute))
	_, err = env.svc.ClockOut(ctx, attendance.ClockOutRequest{Force: true})
	require.NoError(t, err)

	env.at(start.Add(7 * time.Hour))
	_, err = env.svc.ClockIn(ctx, attendance.ClockInRequest{})
	require.NoError(t, err)

	env.at(start.Add(8 * time.Hour))
	today, err = env.svc.GetToday(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6.5, today.CumulativeHours)
	assert.Equal(t, "6:30+", today.EffectiveHours)
	assert.False(t, today.CanClockIn)
	assert.Equal(t, 0, today.SessionsRemaining)
	require.NotNil(t, today.Attendance)
	assert.Len(t, today.Attendance.Sessions, 3)
	assert.Equal(t, attendance.StatusHybrid, today.Attendance.Status)
}

func TestGetByID_EmployeeCannotReadOthers(t *testing.T) {
	env := newTestEnv(t)
	other := env.days.put(attendance.Attendance{CompanyID: testCompanyID, EmployeeID: "emp-2", Date: monday})

	_, err := env.svc.GetByID(employeeCtx(), other.ID)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)

	resp, err := env.svc.GetByID(managerCtx(), other.ID)
	require.NoError(t, err)
	assert.Equal(t, "emp-2", resp.EmployeeID)
}

func TestListMine(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < 3; i++ {
		env.days.put(attendance.Attendance{CompanyID: testCompanyID, EmployeeID: testEmployeeID, Date: monday.AddDate(0, 0, -i)})
	}
	env.days.put(attendance.Attendance{CompanyID: testCompanyID, EmployeeID: "emp-2", Date: monday})

	resp, err := env.svc.ListMine(employeeCtx(), attendance.MyAttendanceFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.TotalCount)
	assert.Equal(t, 1, resp.TotalPages)
	assert.Equal(t, "1-3 of 3", resp.Showing)
	require.Len(t, resp.Attendances, 3)
	assert.Equal(t, "2024-03-11", resp.Attendances[0].Date)
}

func TestRegularize(t *testing.T) {
	env := newTestEnv(t)
	ctx := employeeCtx()

	env.at(time.Date(2024, 3, 11, 3, 50, 0, 0, time.UTC))
	_, err := env.svc.ClockIn(ctx, attendance.ClockInRequest{})
	require.NoError(t, err)
	env.at(env.clock.Add(2 * time.Hour))
	_, err = env.svc.ClockOut(ctx, attendance.ClockOutRequest{Force: true})
	require.NoError(t, err)
	sessionID := env.sessions.rows[0].ID

	req := attendance.RegularizeRequest{
		SessionID: "0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		ClockIn:   "2024-03-11T09:00:00+05:30",
		ClockOut:  "2024-03-11T18:00:00+05:30",
		Note:      "badge reader outage",
	}

	_, err = env.svc.Regularize(ctx, req)
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	_, err = env.svc.Regularize(managerCtx(), req)
	assert.ErrorIs(t, err, attendance.ErrSessionNotFound)

	env.sessions.rows[0].ID = req.SessionID
	resp, err := env.svc.Regularize(managerCtx(), req)
	require.NoError(t, err)
	assert.Equal(t, 9.0, resp.TotalWorkingHours)
	assert.False(t, resp.IsLate)
	assert.False(t, resp.IsEarlyDeparture)
	require.NotNil(t, resp.RegularizationNote)
	assert.Equal(t, "badge reader outage", *resp.RegularizationNote)
	require.Len(t, resp.Sessions, 1)
	assert.Equal(t, 9.0, resp.Sessions[0].DurationHours)
	assert.NotEqual(t, sessionID, resp.Sessions[0].ID)

	require.Len(t, env.notifier.queued, 1)
	assert.Equal(t, notification.TypeAttendanceRegularized, env.notifier.queued[0].Type)
	assert.Equal(t, testUserID, env.notifier.queued[0].RecipientID)
}

func TestRegularize_OpenSession(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.ClockIn(employeeCtx(), attendance.ClockInRequest{})
	require.NoError(t, err)
	env.sessions.rows[0].ID = "0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b"

	_, err = env.svc.Regularize(managerCtx(), attendance.RegularizeRequest{
		SessionID: env.sessions.rows[0].ID,
		ClockIn:   "2024-03-11T09:00:00+05:30",
		ClockOut:  "2024-03-11T18:00:00+05:30",
		Note:      "fix",
	})
	assert.ErrorIs(t, err, attendance.ErrSessionStillOpen)
}
