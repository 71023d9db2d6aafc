package tracking

import "time"

type LogType string

const (
	LogTypeClockIn  LogType = "CLOCK_IN"
	LogTypeClockOut LogType = "CLOCK_OUT"
	LogTypeHourly   LogType = "HOURLY"
	LogTypeManual   LogType = "MANUAL"
)

// Scope separates the per-session trail from the coarse history used by
// map views.
type Scope string

const (
	ScopeSession Scope = "SESSION"
	ScopeGeneral Scope = "GENERAL"
)

const (
	// UnknownAccuracy is stored when the client sent no accuracy.
	UnknownAccuracy = 9999.0

	// DefaultAccuracyThreshold bounds the accuracy of samples kept in the
	// general history.
	DefaultAccuracyThreshold = 2500.0

	// HourlyInterval is how often a running session is expected to report.
	HourlyInterval = 55 * time.Minute
)

type LocationLog struct {
	ID         string
	CompanyID  string
	EmployeeID string
	SessionID  *string
	Latitude   float64
	Longitude  float64
	Accuracy   float64
	LogType    LogType
	Scope      Scope
	Timestamp  time.Time
	IsValid    bool
	CreatedAt  time.Time
}

// AccuracyOrUnknown returns the reported accuracy or UnknownAccuracy.
func AccuracyOrUnknown(accuracy *float64) float64 {
	if accuracy == nil {
		return UnknownAccuracy
	}
	return *accuracy
}

// IsAccurate reports whether a sample is good enough for the general history.
// A sample without a reported accuracy is accepted.
func IsAccurate(accuracy *float64, threshold float64) bool {
	if threshold <= 0 {
		threshold = DefaultAccuracyThreshold
	}
	return accuracy == nil || *accuracy <= threshold
}
