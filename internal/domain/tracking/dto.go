package tracking

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// Submission outcomes. Only a validation failure is an error; every other
// refusal is a normal response.
const (
	StatusSuccess          = "success"
	StatusTrackingInactive = "tracking_inactive"
	StatusNoActiveSession  = "no_active_session"
	StatusNotClockedIn     = "not_clocked_in"
	StatusNoAttendance     = "no_attendance"
)

type SubmitLocationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
}

func (r *SubmitLocationRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Latitude == nil {
		errs = append(errs, validator.ValidationError{Field: "latitude", Message: "latitude is required"})
	} else if !validator.IsValidLatitude(*r.Latitude) {
		errs = append(errs, validator.ValidationError{Field: "latitude", Message: "latitude must be between -90 and 90"})
	}

	if r.Longitude == nil {
		errs = append(errs, validator.ValidationError{Field: "longitude", Message: "longitude is required"})
	} else if !validator.IsValidLongitude(*r.Longitude) {
		errs = append(errs, validator.ValidationError{Field: "longitude", Message: "longitude must be between -180 and 180"})
	}

	if r.Accuracy != nil && *r.Accuracy < 0 {
		errs = append(errs, validator.ValidationError{Field: "accuracy", Message: "accuracy must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SubmitLocationResponse struct {
	Status                 string  `json:"status"`
	Message                string  `json:"message"`
	LocationTrackingActive bool    `json:"location_tracking_active"`
	SessionNumber          int     `json:"session_number,omitempty"`
	RecordedInHistory      bool    `json:"recorded_in_history"`
	TrackingEndTime        *string `json:"tracking_end_time,omitempty"`
}

type TrackingStatusResponse struct {
	IsClockedIn            bool    `json:"is_clocked_in"`
	LocationTrackingActive bool    `json:"location_tracking_active"`
	TrackingStopped        bool    `json:"tracking_stopped"`
	NeedsLocation          bool    `json:"needs_location"`
	SessionCount           int     `json:"session_count"`
	CurrentSessionNumber   int     `json:"current_session_number,omitempty"`
	TrackingEndTime        *string `json:"tracking_end_time,omitempty"`
	LastLocationAt         *string `json:"last_location_at,omitempty"`
}

type HistoryRequest struct {
	EmployeeID string `json:"-"`
	Date       string `json:"date"`
}

func (r *HistoryRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id must be a valid UUID"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LocationLogResponse struct {
	ID        string  `json:"id"`
	SessionID *string `json:"session_id,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
	LogType   LogType `json:"log_type"`
	Timestamp string  `json:"timestamp"`
	IsValid   bool    `json:"is_valid"`
}

type HistoryResponse struct {
	EmployeeID string                `json:"employee_id"`
	Date       string                `json:"date"`
	Timezone   string                `json:"timezone"`
	Logs       []LocationLogResponse `json:"logs"`
}

func NewLocationLogResponse(l LocationLog) LocationLogResponse {
	return LocationLogResponse{
		ID:        l.ID,
		SessionID: l.SessionID,
		Latitude:  l.Latitude,
		Longitude: l.Longitude,
		Accuracy:  l.Accuracy,
		LogType:   l.LogType,
		Timestamp: l.Timestamp.UTC().Format(time.RFC3339),
		IsValid:   l.IsValid,
	}
}
