package attendance

import "errors"

// Attendance domain errors
var (
	// Clock-in errors
	ErrAlreadyClockedIn   = errors.New("you are already clocked in, clock out first")
	ErrMaxSessionsReached = errors.New("maximum sessions for today reached")
	ErrSessionConflict    = errors.New("session was modified concurrently, please refresh and try again")

	// Clock-out errors
	ErrNotClockedIn    = errors.New("you are not currently clocked in")
	ErrNoActiveSession = errors.New("no active session found")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrSessionNotFound    = errors.New("attendance session not found")
	ErrSessionStillOpen   = errors.New("an open session cannot be regularized")
	ErrEmployeeRequired   = errors.New("an employee profile is required for attendance")
)
