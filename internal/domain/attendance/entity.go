package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/utils"
)

type Status string

const (
	StatusPresent      Status = "PRESENT"
	StatusWFH          Status = "WFH"
	StatusHybrid       Status = "HYBRID"
	StatusOnDuty       Status = "ON_DUTY"
	StatusHalfDay      Status = "HALF_DAY"
	StatusAbsent       Status = "ABSENT"
	StatusLeave        Status = "LEAVE"
	StatusWeeklyOff    Status = "WEEKLY_OFF"
	StatusHoliday      Status = "HOLIDAY"
	StatusMissingPunch Status = "MISSING_PUNCH"
)

var StatusValues = []string{
	string(StatusPresent), string(StatusWFH), string(StatusHybrid), string(StatusOnDuty),
	string(StatusHalfDay), string(StatusAbsent), string(StatusLeave), string(StatusWeeklyOff),
	string(StatusHoliday), string(StatusMissingPunch),
}

// SessionType is the kind of work performed during one session.
type SessionType string

const (
	SessionTypeWeb    SessionType = "WEB"
	SessionTypeRemote SessionType = "REMOTE"
)

var SessionTypeValues = []string{string(SessionTypeWeb), string(SessionTypeRemote)}

// Status maps a session kind to the day status it implies on its own.
func (t SessionType) Status() Status {
	if t == SessionTypeRemote {
		return StatusWFH
	}
	return StatusPresent
}

// HardMaxDailySessions caps clock-ins per day whatever the configuration says.
const HardMaxDailySessions = 3

// EffectiveMaxSessions clamps a configured cap into 1..HardMaxDailySessions.
// Zero or negative means "not configured".
func EffectiveMaxSessions(configured int) int {
	if configured <= 0 || configured > HardMaxDailySessions {
		return HardMaxDailySessions
	}
	return configured
}

// Attendance is the daily aggregate for one employee on one local date.
// Date holds the employee-local calendar date at midnight UTC.
type Attendance struct {
	ID                      string
	CompanyID               string
	EmployeeID              string
	Date                    time.Time
	Status                  Status
	ClockIn                 *time.Time
	ClockOut                *time.Time
	LocationIn              *string
	LocationOut             *string
	IsCurrentlyClockedIn    bool
	CurrentSessionType      *SessionType
	DailySessionsCount      int
	MaxDailySessions        int
	IsLate                  bool
	LateByMinutes           int
	IsGraceUsed             bool
	IsHalfDayLate           bool
	IsEarlyDeparture        bool
	EarlyDepartureMinutes   int
	TotalWorkingHours       float64
	LocationTrackingActive  bool
	LocationTrackingEndTime *time.Time
	UserTimezone            string
	RegularizationNote      *string
	CreatedAt               time.Time
	UpdatedAt               time.Time

	// DTO
	EmployeeName *string
}

// SessionsRemaining is how many more clock-ins the day allows.
func (a Attendance) SessionsRemaining() int {
	remaining := EffectiveMaxSessions(a.MaxDailySessions) - a.DailySessionsCount
	if remaining < 0 {
		return 0
	}
	return remaining
}

// CanClockIn reports whether another session may start.
func (a Attendance) CanClockIn() bool {
	return !a.IsCurrentlyClockedIn && a.SessionsRemaining() > 0
}

// TrackingOpen reports whether a location sample taken at now is accepted.
func (a Attendance) TrackingOpen(now time.Time) bool {
	if !a.LocationTrackingActive || a.LocationTrackingEndTime == nil {
		return false
	}
	return now.Before(*a.LocationTrackingEndTime)
}

// ProtectedStatus reports whether lateness penalties must leave the status alone.
func (a Attendance) ProtectedStatus() bool {
	switch a.Status {
	case StatusWFH, StatusOnDuty, StatusLeave:
		return true
	}
	return false
}

// Session is one clock-in/clock-out pair.
type Session struct {
	ID                string
	AttendanceID      string
	CompanyID         string
	EmployeeID        string
	Date              time.Time
	SessionNumber     int
	SessionType       SessionType
	ClockIn           time.Time
	ClockOut          *time.Time
	ClockInLatitude   *float64
	ClockInLongitude  *float64
	ClockOutLatitude  *float64
	ClockOutLongitude *float64
	IsActive          bool
	DurationHours     float64
	LocationValidated bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsOpen reports whether the session is still running. A session is either
// open or closed, never both.
func (s Session) IsOpen() bool {
	return s.IsActive && s.ClockOut == nil
}

// Close ends the session at the given instant and derives its duration.
func (s *Session) Close(at time.Time, lat, lng *float64) {
	s.ClockOut = &at
	s.ClockOutLatitude = lat
	s.ClockOutLongitude = lng
	s.IsActive = false
	s.DurationHours = SessionDuration(s.ClockIn, at)
}

// SessionDuration is the hours between in and out rounded to two decimals.
// A clock-out before the clock-in yields zero.
func SessionDuration(in, out time.Time) float64 {
	if !out.After(in) {
		return 0
	}
	return utils.RoundHours(out.Sub(in).Hours(), 2)
}

// StatusForMissingDay classifies a day that has no attendance row. Holidays
// win over leave, leave over week-offs.
func StatusForMissingDay(isHoliday, onLeave, expectedToWork bool) Status {
	switch {
	case isHoliday:
		return StatusHoliday
	case onLeave:
		return StatusLeave
	case !expectedToWork:
		return StatusWeeklyOff
	default:
		return StatusAbsent
	}
}
