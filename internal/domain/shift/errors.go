package shift

import "errors"

var (
	ErrShiftNotFound    = errors.New("shift schedule not found")
	ErrShiftNameExists  = errors.New("shift schedule with this name already exists")
	ErrShiftInactive    = errors.New("shift schedule is inactive")
	ErrInvalidShiftData = errors.New("invalid shift schedule data")
)
