package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/utils"
)

// ClosedHours sums the recorded durations of closed sessions.
func ClosedHours(sessions []Session) float64 {
	var total float64
	for _, s := range sessions {
		if !s.IsOpen() {
			total += s.DurationHours
		}
	}
	return utils.RoundHours(total, 2)
}

// CumulativeHours is the closed total plus the time elapsed so far in an open
// session. Each session counts once, as either closed or open.
func CumulativeHours(sessions []Session, now time.Time) float64 {
	var total float64
	for _, s := range sessions {
		if s.IsOpen() {
			if now.After(s.ClockIn) {
				total += now.Sub(s.ClockIn).Hours()
			}
			continue
		}
		total += s.DurationHours
	}
	return utils.RoundHours(total, 2)
}

// DeriveStatus returns HYBRID when the day mixes session kinds, otherwise the
// status implied by the single kind seen. No sessions yields PRESENT.
func DeriveStatus(sessions []Session) Status {
	seen := make(map[SessionType]struct{}, 2)
	var last SessionType
	for _, s := range sessions {
		seen[s.SessionType] = struct{}{}
		last = s.SessionType
	}
	switch len(seen) {
	case 0:
		return StatusPresent
	case 1:
		return last.Status()
	default:
		return StatusHybrid
	}
}

// ShiftProgress is the clock-out confirmation payload.
type ShiftProgress struct {
	WorkedHours          float64
	ExpectedHours        float64
	RemainingHours       float64
	CompletionPercentage float64
}

// ComputeShiftProgress rounds all figures to one decimal.
func ComputeShiftProgress(worked, expected float64) ShiftProgress {
	remaining := expected - worked
	if remaining < 0 {
		remaining = 0
	}
	return ShiftProgress{
		WorkedHours:          utils.RoundHours(worked, 1),
		ExpectedHours:        utils.RoundHours(expected, 1),
		RemainingHours:       utils.RoundHours(remaining, 1),
		CompletionPercentage: utils.Percentage(worked, expected, 1),
	}
}
