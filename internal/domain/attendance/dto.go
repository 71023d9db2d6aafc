package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// ========================================
// CLOCK-IN / CLOCK-OUT DTOs
// ========================================

type ClockInRequest struct {
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Accuracy    *float64 `json:"accuracy,omitempty"`
	Timezone    string   `json:"timezone,omitempty"`
	SessionType string   `json:"session_type"`
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	r.SessionType = strings.ToUpper(strings.TrimSpace(r.SessionType))
	if r.SessionType == "" {
		r.SessionType = string(SessionTypeWeb)
	}
	if !validator.IsInSlice(r.SessionType, SessionTypeValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "session_type",
			Message: "session_type must be one of: WEB, REMOTE",
		})
	}

	errs = append(errs, validateCoordinates(r.Latitude, r.Longitude, r.Accuracy)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ClockInResponse struct {
	Status             string       `json:"status"`
	Message            string       `json:"message"`
	AttendanceID       string       `json:"attendance_id"`
	SessionNumber      int          `json:"session_number"`
	SessionType        SessionType  `json:"session_type"`
	ClockInTime        string       `json:"clock_in_time"`
	Date               string       `json:"date"`
	Timezone           string       `json:"timezone"`
	TotalSessionsToday int          `json:"total_sessions_today"`
	MaxSessions        int          `json:"max_sessions"`
	IsLate             bool         `json:"is_late"`
	LateByMinutes      int          `json:"late_by_minutes"`
	IsGraceUsed        bool         `json:"is_grace_used"`
	LocationValidated  bool         `json:"location_validated"`
	LateWarning        *LateWarning `json:"late_warning,omitempty"`
}

type ClockOutRequest struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
	Timezone  string   `json:"timezone,omitempty"`
	Force     bool     `json:"force"`
}

func (r *ClockOutRequest) Validate() error {
	errs := validateCoordinates(r.Latitude, r.Longitude, r.Accuracy)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

const (
	ResultSuccess              = "success"
	ResultConfirmationRequired = "confirmation_required"
)

// ClockOutConfirmation is returned instead of closing the session when the
// day's worked time is below the shift expectation and force was not set.
type ClockOutConfirmation struct {
	Status               string  `json:"status"`
	RequiresConfirmation bool    `json:"requires_confirmation"`
	Message              string  `json:"message"`
	WorkedHours          float64 `json:"worked_hours"`
	ExpectedHours        float64 `json:"expected_hours"`
	CompletionPercentage float64 `json:"completion_percentage"`
	RemainingHours       float64 `json:"remaining_hours"`
}

type ClockOutResponse struct {
	Status                string      `json:"status"`
	Message               string      `json:"message"`
	AttendanceID          string      `json:"attendance_id"`
	SessionNumber         int         `json:"session_number"`
	SessionType           SessionType `json:"session_type"`
	SessionDuration       float64     `json:"session_duration"`
	ClockOutTime          string      `json:"clock_out_time"`
	TotalWorkingHours     float64     `json:"total_working_hours"`
	SessionsRemaining     int         `json:"sessions_remaining"`
	IsEarlyDeparture      bool        `json:"is_early_departure"`
	EarlyDepartureMinutes int         `json:"early_departure_minutes"`
}

// ClockOutResult holds exactly one of Confirmation or Completed.
type ClockOutResult struct {
	Confirmation *ClockOutConfirmation
	Completed    *ClockOutResponse
}

// ========================================
// QUERY DTOs
// ========================================

type SessionResponse struct {
	ID                string      `json:"id"`
	SessionNumber     int         `json:"session_number"`
	SessionType       SessionType `json:"session_type"`
	ClockIn           string      `json:"clock_in"`
	ClockOut          *string     `json:"clock_out,omitempty"`
	ClockInLatitude   *float64    `json:"clock_in_latitude,omitempty"`
	ClockInLongitude  *float64    `json:"clock_in_longitude,omitempty"`
	ClockOutLatitude  *float64    `json:"clock_out_latitude,omitempty"`
	ClockOutLongitude *float64    `json:"clock_out_longitude,omitempty"`
	IsActive          bool        `json:"is_active"`
	DurationHours     float64     `json:"duration_hours"`
	LocationValidated bool        `json:"location_validated"`
}

type AttendanceResponse struct {
	ID                      string            `json:"id"`
	EmployeeID              string            `json:"employee_id"`
	EmployeeName            *string           `json:"employee_name,omitempty"`
	Date                    string            `json:"date"`
	Status                  Status            `json:"status"`
	ClockIn                 *string           `json:"clock_in,omitempty"`
	ClockOut                *string           `json:"clock_out,omitempty"`
	LocationIn              *string           `json:"location_in,omitempty"`
	LocationOut             *string           `json:"location_out,omitempty"`
	IsCurrentlyClockedIn    bool              `json:"is_currently_clocked_in"`
	CurrentSessionType      *SessionType      `json:"current_session_type,omitempty"`
	DailySessionsCount      int               `json:"daily_sessions_count"`
	MaxDailySessions        int               `json:"max_daily_sessions"`
	IsLate                  bool              `json:"is_late"`
	LateByMinutes           int               `json:"late_by_minutes"`
	IsGraceUsed             bool              `json:"is_grace_used"`
	IsHalfDayLate           bool              `json:"is_half_day_late"`
	IsEarlyDeparture        bool              `json:"is_early_departure"`
	EarlyDepartureMinutes   int               `json:"early_departure_minutes"`
	TotalWorkingHours       float64           `json:"total_working_hours"`
	LocationTrackingActive  bool              `json:"location_tracking_active"`
	LocationTrackingEndTime *string           `json:"location_tracking_end_time,omitempty"`
	UserTimezone            string            `json:"user_timezone"`
	RegularizationNote      *string           `json:"regularization_note,omitempty"`
	Sessions                []SessionResponse `json:"sessions,omitempty"`
	CreatedAt               string            `json:"created_at"`
	UpdatedAt               string            `json:"updated_at"`
}

// TodayResponse describes the caller's current local day.
type TodayResponse struct {
	Date              string              `json:"date"`
	Timezone          string              `json:"timezone"`
	TimezoneName      string              `json:"timezone_name"`
	CanClockIn        bool                `json:"can_clock_in"`
	SessionsRemaining int                 `json:"sessions_remaining"`
	CumulativeHours   float64             `json:"cumulative_hours"`
	EffectiveHours    string              `json:"effective_hours"`
	Attendance        *AttendanceResponse `json:"attendance,omitempty"`
}

type MyAttendanceFilter struct {
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status    *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // date, clock_in, total_working_hours, status
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *MyAttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Status != nil {
		upper := strings.ToUpper(*f.Status)
		f.Status = &upper
		if !validator.IsInSlice(upper, StatusValues) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: " + strings.Join(StatusValues, ", "),
			})
		}
	}

	var start, end time.Time
	if f.StartDate != nil && *f.StartDate != "" {
		d, valid := validator.IsValidDate(*f.StartDate)
		if !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
		start = d
	}
	if f.EndDate != nil && *f.EndDate != "" {
		d, valid := validator.IsValidDate(*f.EndDate)
		if !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
		end = d
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if f.SortBy != "" {
		validSortFields := []string{"date", "clock_in", "total_working_hours", "status"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: date, clock_in, total_working_hours, status",
			})
		}
	} else {
		f.SortBy = "date"
	}

	if f.SortOrder != "" {
		if !validator.IsInSlice(strings.ToLower(f.SortOrder), []string{"asc", "desc"}) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		f.SortOrder = "desc"
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Showing     string               `json:"showing"`
	Attendances []AttendanceResponse `json:"attendances"`
}

// RegularizeRequest corrects the times of a closed session.
type RegularizeRequest struct {
	SessionID string `json:"-"`
	ClockIn   string `json:"clock_in"`  // RFC3339
	ClockOut  string `json:"clock_out"` // RFC3339
	Note      string `json:"note"`

	clockIn  time.Time
	clockOut time.Time
}

func (r *RegularizeRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.SessionID) {
		errs = append(errs, validator.ValidationError{
			Field:   "session_id",
			Message: "session_id must be a valid UUID",
		})
	}

	in, inOK := validator.IsValidDateTime(r.ClockIn)
	if !inOK {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_in",
			Message: "clock_in must be an ISO8601 timestamp",
		})
	}
	out, outOK := validator.IsValidDateTime(r.ClockOut)
	if !outOK {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_out",
			Message: "clock_out must be an ISO8601 timestamp",
		})
	}
	if inOK && outOK && !out.After(in) {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_out",
			Message: "clock_out must be after clock_in",
		})
	}

	if validator.IsEmpty(r.Note) {
		errs = append(errs, validator.ValidationError{
			Field:   "note",
			Message: "note is required",
		})
	} else if len(r.Note) > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "note",
			Message: "note must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	r.clockIn, r.clockOut = in.UTC(), out.UTC()
	return nil
}

// Times returns the parsed instants. Only meaningful after Validate succeeds.
func (r *RegularizeRequest) Times() (time.Time, time.Time) {
	return r.clockIn, r.clockOut
}

func validateCoordinates(lat, lng, accuracy *float64) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if (lat == nil) != (lng == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude and longitude must be provided together",
		})
	}
	if lat != nil && !validator.IsValidLatitude(*lat) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}
	if lng != nil && !validator.IsValidLongitude(*lng) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}
	if accuracy != nil && *accuracy < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "accuracy",
			Message: "accuracy must not be negative",
		})
	}

	return errs
}

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04:05"
)

func formatInstant(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

// NewSessionResponse converts a Session for output.
func NewSessionResponse(s Session) SessionResponse {
	return SessionResponse{
		ID:                s.ID,
		SessionNumber:     s.SessionNumber,
		SessionType:       s.SessionType,
		ClockIn:           s.ClockIn.UTC().Format(time.RFC3339),
		ClockOut:          formatInstant(s.ClockOut),
		ClockInLatitude:   s.ClockInLatitude,
		ClockInLongitude:  s.ClockInLongitude,
		ClockOutLatitude:  s.ClockOutLatitude,
		ClockOutLongitude: s.ClockOutLongitude,
		IsActive:          s.IsActive,
		DurationHours:     s.DurationHours,
		LocationValidated: s.LocationValidated,
	}
}

// NewAttendanceResponse converts an Attendance and, optionally, its sessions.
func NewAttendanceResponse(a Attendance, sessions []Session) AttendanceResponse {
	resp := AttendanceResponse{
		ID:                      a.ID,
		EmployeeID:              a.EmployeeID,
		EmployeeName:            a.EmployeeName,
		Date:                    a.Date.Format(dateLayout),
		Status:                  a.Status,
		ClockIn:                 formatInstant(a.ClockIn),
		ClockOut:                formatInstant(a.ClockOut),
		LocationIn:              a.LocationIn,
		LocationOut:             a.LocationOut,
		IsCurrentlyClockedIn:    a.IsCurrentlyClockedIn,
		CurrentSessionType:      a.CurrentSessionType,
		DailySessionsCount:      a.DailySessionsCount,
		MaxDailySessions:        EffectiveMaxSessions(a.MaxDailySessions),
		IsLate:                  a.IsLate,
		LateByMinutes:           a.LateByMinutes,
		IsGraceUsed:             a.IsGraceUsed,
		IsHalfDayLate:           a.IsHalfDayLate,
		IsEarlyDeparture:        a.IsEarlyDeparture,
		EarlyDepartureMinutes:   a.EarlyDepartureMinutes,
		TotalWorkingHours:       a.TotalWorkingHours,
		LocationTrackingActive:  a.LocationTrackingActive,
		LocationTrackingEndTime: formatInstant(a.LocationTrackingEndTime),
		UserTimezone:            a.UserTimezone,
		RegularizationNote:      a.RegularizationNote,
		CreatedAt:               a.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:               a.UpdatedAt.UTC().Format(time.RFC3339),
	}
	for _, s := range sessions {
		resp.Sessions = append(resp.Sessions, NewSessionResponse(s))
	}
	return resp
}

// FormatDate renders a stored attendance date.
func FormatDate(d time.Time) string {
	return d.Format(dateLayout)
}

// FormatClock renders t as a wall-clock time in loc.
func FormatClock(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(clockLayout)
}
