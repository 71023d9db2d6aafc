package shift

import "time"

// DefaultShiftHours is the expected working window when an employee has no
// shift assigned.
const DefaultShiftHours = 9

type GraceExceededAction string

const (
	GraceActionNone    GraceExceededAction = "NONE"
	GraceActionHalfDay GraceExceededAction = "HALF_DAY"
	GraceActionLOP     GraceExceededAction = "LOP"
)

var GraceExceededActionValues = []string{
	string(GraceActionNone),
	string(GraceActionHalfDay),
	string(GraceActionLOP),
}

// ShiftSchedule is a named daily work-time template. StartTime, EndTime and
// the lunch bounds carry a wall-clock time only; their date part is ignored.
type ShiftSchedule struct {
	ID                             string
	CompanyID                      string
	Name                           string
	StartTime                      time.Time
	EndTime                        time.Time
	GracePeriodMinutes             int
	EarlyDepartureThresholdMinutes int
	LunchBreakStart                *time.Time
	LunchBreakEnd                  *time.Time
	Monday                         bool
	Tuesday                        bool
	Wednesday                      bool
	Thursday                       bool
	Friday                         bool
	Saturday                       bool
	Sunday                         bool
	AllowedLateLogins              int
	GraceExceededAction            GraceExceededAction
	IsActive                       bool
	CreatedAt                      time.Time
	UpdatedAt                      time.Time
}

func clockOf(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second
}

// IsOvernight reports whether the shift ends on the following calendar day.
func (s ShiftSchedule) IsOvernight() bool {
	return clockOf(s.EndTime) <= clockOf(s.StartTime)
}

// Duration is end minus start, plus 24h when the shift crosses midnight.
// An end equal to start is a full 24h shift.
func (s ShiftSchedule) Duration() time.Duration {
	d := clockOf(s.EndTime) - clockOf(s.StartTime)
	if d <= 0 {
		d += 24 * time.Hour
	}
	return d
}

// ExpectedHours is the shift duration in hours.
func (s ShiftSchedule) ExpectedHours() float64 {
	return s.Duration().Hours()
}

// WorkingDays returns the flags indexed Monday=0 .. Sunday=6.
func (s ShiftSchedule) WorkingDays() [7]bool {
	return [7]bool{s.Monday, s.Tuesday, s.Wednesday, s.Thursday, s.Friday, s.Saturday, s.Sunday}
}

// IsWorkingDay reports whether date falls on one of the shift's working days.
func (s ShiftSchedule) IsWorkingDay(date time.Time) bool {
	return s.WorkingDays()[WeekdayIndex(date)]
}

// StartOn places the shift start on the calendar day of day, in loc.
func (s ShiftSchedule) StartOn(day time.Time, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(),
		s.StartTime.Hour(), s.StartTime.Minute(), s.StartTime.Second(), 0, loc)
}

// EndOn returns the end of the shift that starts on day, in loc.
func (s ShiftSchedule) EndOn(day time.Time, loc *time.Location) time.Time {
	return s.StartOn(day, loc).Add(s.Duration())
}

// WeekdayIndex maps a date to Monday=0 .. Sunday=6.
func WeekdayIndex(date time.Time) int {
	return (int(date.Weekday()) + 6) % 7
}

// ExpectedHoursFor returns the expected hours of s, or DefaultShiftHours when
// no shift is assigned.
func ExpectedHoursFor(s *ShiftSchedule) float64 {
	if s == nil {
		return DefaultShiftHours
	}
	return s.ExpectedHours()
}

// TrackingWindow is how long location samples are accepted after a clock-in.
func TrackingWindow(s *ShiftSchedule) time.Duration {
	if s == nil {
		return DefaultShiftHours * time.Hour
	}
	return s.Duration()
}
