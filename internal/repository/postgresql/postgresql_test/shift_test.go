package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/tracking"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clock(h, m int) time.Time {
	return time.Date(0, 1, 1, h, m, 0, 0, time.UTC)
}

func TestShiftRepository_CreateAssignDeactivate(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db)
	ctx := context.Background()
	shifts := postgresql.NewShiftRepository(db)
	employees := postgresql.NewEmployeeRepository(db)

	lunchStart, lunchEnd := clock(13, 0), clock(13, 30)
	night, err := shifts.Create(ctx, shift.ShiftSchedule{
		CompanyID: f.CompanyID, Name: "Night", StartTime: clock(22, 0), EndTime: clock(6, 0),
		GracePeriodMinutes: 10, EarlyDepartureThresholdMinutes: 15,
		LunchBreakStart: &lunchStart, LunchBreakEnd: &lunchEnd,
		Monday: true, Tuesday: true, AllowedLateLogins: 3,
		GraceExceededAction: shift.GraceActionHalfDay, IsActive: true,
	})
	require.NoError(t, err)
	assert.True(t, night.IsOvernight())
	assert.Equal(t, 8.0, night.ExpectedHours())
	require.NotNil(t, night.LunchBreakStart)
	assert.Equal(t, 13, night.LunchBreakStart.Hour())

	_, err = shifts.Create(ctx, shift.ShiftSchedule{
		CompanyID: f.CompanyID, Name: "Night", StartTime: clock(21, 0), EndTime: clock(5, 0),
		GraceExceededAction: shift.GraceActionNone, IsActive: true,
	})
	assert.ErrorIs(t, err, shift.ErrShiftNameExists)

	none, err := shifts.GetByEmployeeID(ctx, f.EmployeeID)
	require.NoError(t, err)
	assert.Nil(t, none)

	require.NoError(t, employees.UpdateShift(ctx, f.EmployeeID, f.CompanyID, &night.ID))
	assigned, err := shifts.GetByEmployeeID(ctx, f.EmployeeID)
	require.NoError(t, err)
	require.NotNil(t, assigned)
	assert.Equal(t, "Night", assigned.Name)
	assert.Equal(t, 22, assigned.StartTime.Hour())

	require.NoError(t, shifts.Deactivate(ctx, night.ID, f.CompanyID))
	inactive, err := shifts.GetByEmployeeID(ctx, f.EmployeeID)
	require.NoError(t, err)
	assert.Nil(t, inactive, "an inactive shift is not applied")

	active, err := shifts.List(ctx, f.CompanyID, false)
	require.NoError(t, err)
	assert.Empty(t, active)
	all, err := shifts.List(ctx, f.CompanyID, true)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	emp, err := employees.GetByID(ctx, f.EmployeeID, f.CompanyID)
	require.NoError(t, err)
	require.NotNil(t, emp.ShiftID)
	assert.Equal(t, night.ID, *emp.ShiftID, "deactivation keeps the assignment")
}

func TestLocationLogRepository(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db)
	ctx := context.Background()
	logs := postgresql.NewLocationLogRepository(db)

	base := time.Date(2024, 3, 11, 4, 0, 0, 0, time.UTC)
	for i, logType := range []tracking.LogType{tracking.LogTypeHourly, tracking.LogTypeHourly, tracking.LogTypeManual} {
		_, err := logs.Create(ctx, tracking.LocationLog{
			CompanyID: f.CompanyID, EmployeeID: f.EmployeeID, Latitude: 18.5, Longitude: 73.8,
			Accuracy: tracking.UnknownAccuracy, LogType: logType, Scope: tracking.ScopeGeneral,
			Timestamp: base.Add(time.Duration(i) * time.Hour), IsValid: true,
		})
		require.NoError(t, err)
	}

	list, err := logs.ListByEmployee(ctx, f.EmployeeID, f.CompanyID, tracking.ScopeGeneral, base, base.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, list, 2, "upper bound is exclusive")
	assert.True(t, list[0].Timestamp.Before(list[1].Timestamp))
	assert.Nil(t, list[0].SessionID)

	session, err := logs.ListByEmployee(ctx, f.EmployeeID, f.CompanyID, tracking.ScopeSession, base, base.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, session)
}

func TestCalendarRepository(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db)
	ctx := context.Background()
	cal := postgresql.NewCalendarRepository(db)

	_, err := db.Exec(ctx, `INSERT INTO holidays (company_id, date, name) VALUES ($1, '2024-03-25', 'Holi')`, f.CompanyID)
	require.NoError(t, err)
	_, err = db.Exec(ctx, `
		INSERT INTO leave_requests (employee_id, start_date, end_date, status)
		VALUES ($1, '2024-02-28', '2024-03-02', 'approved'), ($1, '2024-03-20', '2024-03-21', 'rejected')
	`, f.EmployeeID)
	require.NoError(t, err)

	march := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	holidays, err := cal.ListHolidays(ctx, f.CompanyID, march, end)
	require.NoError(t, err)
	require.Len(t, holidays, 1)
	assert.Equal(t, "Holi", holidays[0].Name)

	isHoliday, err := cal.IsHoliday(ctx, f.CompanyID, time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, isHoliday)

	onLeave, err := cal.HasApprovedLeave(ctx, f.EmployeeID, march)
	require.NoError(t, err)
	assert.True(t, onLeave)

	dates, err := cal.ListLeaveDates(ctx, f.EmployeeID, march, end)
	require.NoError(t, err)
	require.Len(t, dates, 2, "clipped to the range and rejected leave ignored")
	assert.Equal(t, 1, dates[0].Day())
	assert.Equal(t, 2, dates[1].Day())
}

func TestUserAndRefreshTokenRepositories(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db)
	ctx := context.Background()
	users := postgresql.NewUserRepository(db)
	tokens := postgresql.NewJWTRepository(db)

	u, err := users.GetByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.RoleEmployee, u.Role)
	require.NotNil(t, u.EmployeeID)
	assert.Equal(t, f.EmployeeID, *u.EmployeeID)
	assert.False(t, u.HasGoogleLink())

	linked, err := users.LinkGoogleAccount(ctx, "google-123", "asha@example.com")
	require.NoError(t, err)
	assert.True(t, linked.HasGoogleLink())

	_, err = users.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	session := auth.SessionTrackingRequest{IPAddress: "127.0.0.1", UserAgent: "test"}
	require.NoError(t, tokens.CreateRefreshToken(ctx, u.ID, "refresh-token", time.Now().Add(time.Hour).Unix(), session))

	owner, revoked, err := tokens.IsRefreshTokenRevoked(ctx, "refresh-token")
	require.NoError(t, err)
	assert.Equal(t, u.ID, owner)
	assert.False(t, revoked)

	require.NoError(t, tokens.RevokeRefreshToken(ctx, "refresh-token"))
	_, revoked, err = tokens.IsRefreshTokenRevoked(ctx, "refresh-token")
	require.NoError(t, err)
	assert.True(t, revoked)

	_, _, err = tokens.IsRefreshTokenRevoked(ctx, "unknown")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
