package tracking

import "errors"

var (
	ErrLocationRequired = errors.New("latitude and longitude are required")
	ErrEmployeeRequired = errors.New("an employee profile is required for location tracking")
)
