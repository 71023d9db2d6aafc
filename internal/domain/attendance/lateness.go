package attendance

import (
	"strconv"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
)

type LateArrivalResult struct {
	IsLate        bool
	LateByMinutes int
	IsGraceUsed   bool
}

// ShiftStartFor returns the start of the shift instance that clockIn belongs
// to, in clockIn's location. For overnight shifts an early-morning clock-in
// that falls before the previous evening's shift has ended belongs to that
// previous shift.
func ShiftStartFor(clockIn time.Time, s *shift.ShiftSchedule) time.Time {
	loc := clockIn.Location()
	start := s.StartOn(clockIn, loc)
	if s.IsOvernight() && clockIn.Before(start) {
		prev := s.StartOn(clockIn.AddDate(0, 0, -1), loc)
		if clockIn.Before(prev.Add(s.Duration())) {
			return prev
		}
	}
	return start
}

// ComputeLateArrival compares a local clock-in against the shift start plus
// grace. A nil shift attributes no lateness.
func ComputeLateArrival(clockInLocal time.Time, s *shift.ShiftSchedule) LateArrivalResult {
	if s == nil {
		return LateArrivalResult{}
	}

	start := ShiftStartFor(clockInLocal, s)
	graceEnd := start.Add(time.Duration(s.GracePeriodMinutes) * time.Minute)

	switch {
	case clockInLocal.After(graceEnd):
		return LateArrivalResult{
			IsLate:        true,
			LateByMinutes: int(clockInLocal.Sub(graceEnd) / time.Minute),
		}
	case clockInLocal.After(start):
		return LateArrivalResult{IsGraceUsed: true}
	default:
		return LateArrivalResult{}
	}
}

// ApplyLateArrival copies res onto a and, when grace was used and the month's
// earlier grace uses already reached the shift allowance, applies the shift's
// grace-exceeded action. WFH, ON_DUTY and LEAVE statuses are never replaced.
func ApplyLateArrival(a *Attendance, res LateArrivalResult, priorGraceUses int, s *shift.ShiftSchedule) {
	a.IsLate = res.IsLate
	a.LateByMinutes = res.LateByMinutes
	a.IsGraceUsed = res.IsGraceUsed
	a.IsHalfDayLate = false

	if s == nil || !res.IsGraceUsed || priorGraceUses < s.AllowedLateLogins {
		return
	}

	switch s.GraceExceededAction {
	case shift.GraceActionHalfDay:
		a.IsHalfDayLate = true
		if !a.ProtectedStatus() {
			a.Status = StatusHalfDay
		}
	case shift.GraceActionLOP:
		a.IsHalfDayLate = true
		if !a.ProtectedStatus() {
			a.Status = StatusAbsent
		}
	}
}

type EarlyDepartureResult struct {
	IsEarlyDeparture bool
	Minutes          int
}

// ComputeEarlyDeparture checks a clock-out against the end of the shift
// instance the day's first clock-in belongs to, less the shift's
// early-departure threshold.
func ComputeEarlyDeparture(clockInLocal, clockOutLocal time.Time, s *shift.ShiftSchedule) EarlyDepartureResult {
	if s == nil {
		return EarlyDepartureResult{}
	}

	end := ShiftStartFor(clockInLocal, s).Add(s.Duration())
	threshold := end.Add(-time.Duration(s.EarlyDepartureThresholdMinutes) * time.Minute)
	out := clockOutLocal.In(clockInLocal.Location())
	if !out.Before(threshold) {
		return EarlyDepartureResult{}
	}
	return EarlyDepartureResult{
		IsEarlyDeparture: true,
		Minutes:          int(threshold.Sub(out) / time.Minute),
	}
}

const (
	WarningLevelWarning  = "warning"
	WarningLevelCritical = "critical"

	// lateWarningWindowDays is the trailing window counted for the warning.
	lateWarningWindowDays = 7
	criticalLateCount     = 5
)

// LateWarning tells an employee how often they arrived late recently.
type LateWarning struct {
	Level      string `json:"level"`
	Count      int    `json:"count"`
	WindowDays int    `json:"window_days"`
	Message    string `json:"message"`
}

// ClassifyLateWarning counts today on top of the late or grace days found in
// the trailing window that excludes today.
func ClassifyLateWarning(priorLateDays int) LateWarning {
	count := priorLateDays + 1
	level := WarningLevelWarning
	if count >= criticalLateCount {
		level = WarningLevelCritical
	}
	return LateWarning{
		Level:      level,
		Count:      count,
		WindowDays: lateWarningWindowDays,
		Message:    lateWarningMessage(count, level),
	}
}

func lateWarningMessage(count int, level string) string {
	msg := "You have been late " + pluralTimes(count) + " in the last 7 days."
	if level == WarningLevelCritical {
		msg += " Please ensure timely attendance to avoid loss of pay."
	}
	return msg
}

func pluralTimes(n int) string {
	if n == 1 {
		return "1 time"
	}
	return strconv.Itoa(n) + " times"
}
