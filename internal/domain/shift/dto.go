package shift

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

var weekdayNames = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

type CreateShiftRequest struct {
	Name                           string   `json:"name"`
	StartTime                      string   `json:"start_time"`
	EndTime                        string   `json:"end_time"`
	GracePeriodMinutes             *int     `json:"grace_period_minutes"`
	EarlyDepartureThresholdMinutes *int     `json:"early_departure_threshold_minutes"`
	LunchBreakStart                *string  `json:"lunch_break_start"`
	LunchBreakEnd                  *string  `json:"lunch_break_end"`
	WorkingDays                    []string `json:"working_days"`
	AllowedLateLogins              *int     `json:"allowed_late_logins"`
	GraceExceededAction            string   `json:"grace_exceeded_action"`
}

func (r *CreateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}
	if _, ok := validator.IsValidClockTime(r.StartTime); !ok {
		errs = append(errs, validator.ValidationError{Field: "start_time", Message: "start_time must be HH:MM or HH:MM:SS"})
	}
	if _, ok := validator.IsValidClockTime(r.EndTime); !ok {
		errs = append(errs, validator.ValidationError{Field: "end_time", Message: "end_time must be HH:MM or HH:MM:SS"})
	}
	errs = append(errs, validateMinutes("grace_period_minutes", r.GracePeriodMinutes)...)
	errs = append(errs, validateMinutes("early_departure_threshold_minutes", r.EarlyDepartureThresholdMinutes)...)
	errs = append(errs, validateLunch(r.LunchBreakStart, r.LunchBreakEnd)...)
	errs = append(errs, validateWorkingDays(r.WorkingDays)...)
	if r.AllowedLateLogins != nil && *r.AllowedLateLogins < 0 {
		errs = append(errs, validator.ValidationError{Field: "allowed_late_logins", Message: "allowed_late_logins must be a non-negative number"})
	}
	if r.GraceExceededAction != "" && !validator.IsInSlice(r.GraceExceededAction, GraceExceededActionValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "grace_exceeded_action",
			Message: "grace_exceeded_action must be one of: " + strings.Join(GraceExceededActionValues, ", "),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToEntity builds a shift with defaults applied. Call Validate first.
func (r *CreateShiftRequest) ToEntity(companyID string) ShiftSchedule {
	start, _ := validator.IsValidClockTime(r.StartTime)
	end, _ := validator.IsValidClockTime(r.EndTime)

	s := ShiftSchedule{
		CompanyID:                      companyID,
		Name:                           strings.TrimSpace(r.Name),
		StartTime:                      start,
		EndTime:                        end,
		GracePeriodMinutes:             intOr(r.GracePeriodMinutes, 15),
		EarlyDepartureThresholdMinutes: intOr(r.EarlyDepartureThresholdMinutes, 15),
		AllowedLateLogins:              intOr(r.AllowedLateLogins, 3),
		GraceExceededAction:            GraceActionNone,
		IsActive:                       true,
	}
	if r.GraceExceededAction != "" {
		s.GraceExceededAction = GraceExceededAction(r.GraceExceededAction)
	}
	s.LunchBreakStart = parseOptionalClock(r.LunchBreakStart)
	s.LunchBreakEnd = parseOptionalClock(r.LunchBreakEnd)

	days := r.WorkingDays
	if len(days) == 0 {
		days = weekdayNames[:5]
	}
	s.setWorkingDays(days)
	return s
}

type UpdateShiftRequest struct {
	Name                           *string  `json:"name"`
	StartTime                      *string  `json:"start_time"`
	EndTime                        *string  `json:"end_time"`
	GracePeriodMinutes             *int     `json:"grace_period_minutes"`
	EarlyDepartureThresholdMinutes *int     `json:"early_departure_threshold_minutes"`
	LunchBreakStart                *string  `json:"lunch_break_start"`
	LunchBreakEnd                  *string  `json:"lunch_break_end"`
	WorkingDays                    []string `json:"working_days"`
	AllowedLateLogins              *int     `json:"allowed_late_logins"`
	GraceExceededAction            *string  `json:"grace_exceeded_action"`
	IsActive                       *bool    `json:"is_active"`
}

func (r *UpdateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name cannot be empty"})
	}
	if r.StartTime != nil {
		if _, ok := validator.IsValidClockTime(*r.StartTime); !ok {
			errs = append(errs, validator.ValidationError{Field: "start_time", Message: "start_time must be HH:MM or HH:MM:SS"})
		}
	}
	if r.EndTime != nil {
		if _, ok := validator.IsValidClockTime(*r.EndTime); !ok {
			errs = append(errs, validator.ValidationError{Field: "end_time", Message: "end_time must be HH:MM or HH:MM:SS"})
		}
	}
	errs = append(errs, validateMinutes("grace_period_minutes", r.GracePeriodMinutes)...)
	errs = append(errs, validateMinutes("early_departure_threshold_minutes", r.EarlyDepartureThresholdMinutes)...)
	errs = append(errs, validateLunch(r.LunchBreakStart, r.LunchBreakEnd)...)
	if r.WorkingDays != nil {
		errs = append(errs, validateWorkingDays(r.WorkingDays)...)
	}
	if r.AllowedLateLogins != nil && *r.AllowedLateLogins < 0 {
		errs = append(errs, validator.ValidationError{Field: "allowed_late_logins", Message: "allowed_late_logins must be a non-negative number"})
	}
	if r.GraceExceededAction != nil && !validator.IsInSlice(*r.GraceExceededAction, GraceExceededActionValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "grace_exceeded_action",
			Message: "grace_exceeded_action must be one of: " + strings.Join(GraceExceededActionValues, ", "),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Apply merges the non-nil fields into s. Call Validate first.
func (r *UpdateShiftRequest) Apply(s *ShiftSchedule) {
	if r.Name != nil {
		s.Name = strings.TrimSpace(*r.Name)
	}
	if r.StartTime != nil {
		s.StartTime, _ = validator.IsValidClockTime(*r.StartTime)
	}
	if r.EndTime != nil {
		s.EndTime, _ = validator.IsValidClockTime(*r.EndTime)
	}
	if r.GracePeriodMinutes != nil {
		s.GracePeriodMinutes = *r.GracePeriodMinutes
	}
	if r.EarlyDepartureThresholdMinutes != nil {
		s.EarlyDepartureThresholdMinutes = *r.EarlyDepartureThresholdMinutes
	}
	if r.LunchBreakStart != nil {
		s.LunchBreakStart = parseOptionalClock(r.LunchBreakStart)
	}
	if r.LunchBreakEnd != nil {
		s.LunchBreakEnd = parseOptionalClock(r.LunchBreakEnd)
	}
	if r.WorkingDays != nil {
		s.setWorkingDays(r.WorkingDays)
	}
	if r.AllowedLateLogins != nil {
		s.AllowedLateLogins = *r.AllowedLateLogins
	}
	if r.GraceExceededAction != nil {
		s.GraceExceededAction = GraceExceededAction(*r.GraceExceededAction)
	}
	if r.IsActive != nil {
		s.IsActive = *r.IsActive
	}
}

type AssignShiftRequest struct {
	ShiftID *string `json:"shift_id"`
}

func (r *AssignShiftRequest) Validate() error {
	if r.ShiftID != nil && !validator.IsValidUUID(*r.ShiftID) {
		return validator.ValidationErrors{{Field: "shift_id", Message: "shift_id must be a valid UUID"}}
	}
	return nil
}

type ShiftResponse struct {
	ID                             string   `json:"id"`
	Name                           string   `json:"name"`
	StartTime                      string   `json:"start_time"`
	EndTime                        string   `json:"end_time"`
	IsOvernight                    bool     `json:"is_overnight"`
	DurationHours                  float64  `json:"duration_hours"`
	GracePeriodMinutes             int      `json:"grace_period_minutes"`
	EarlyDepartureThresholdMinutes int      `json:"early_departure_threshold_minutes"`
	LunchBreakStart                *string  `json:"lunch_break_start,omitempty"`
	LunchBreakEnd                  *string  `json:"lunch_break_end,omitempty"`
	WorkingDays                    []string `json:"working_days"`
	AllowedLateLogins              int      `json:"allowed_late_logins"`
	GraceExceededAction            string   `json:"grace_exceeded_action"`
	IsActive                       bool     `json:"is_active"`
	CreatedAt                      string   `json:"created_at"`
	UpdatedAt                      string   `json:"updated_at"`
}

func NewShiftResponse(s ShiftSchedule) ShiftResponse {
	resp := ShiftResponse{
		ID:                             s.ID,
		Name:                           s.Name,
		StartTime:                      s.StartTime.Format("15:04:05"),
		EndTime:                        s.EndTime.Format("15:04:05"),
		IsOvernight:                    s.IsOvernight(),
		DurationHours:                  s.Duration().Hours(),
		GracePeriodMinutes:             s.GracePeriodMinutes,
		EarlyDepartureThresholdMinutes: s.EarlyDepartureThresholdMinutes,
		WorkingDays:                    []string{},
		AllowedLateLogins:              s.AllowedLateLogins,
		GraceExceededAction:            string(s.GraceExceededAction),
		IsActive:                       s.IsActive,
		CreatedAt:                      s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:                      s.UpdatedAt.Format(time.RFC3339),
	}
	if s.LunchBreakStart != nil {
		v := s.LunchBreakStart.Format("15:04:05")
		resp.LunchBreakStart = &v
	}
	if s.LunchBreakEnd != nil {
		v := s.LunchBreakEnd.Format("15:04:05")
		resp.LunchBreakEnd = &v
	}
	for i, working := range s.WorkingDays() {
		if working {
			resp.WorkingDays = append(resp.WorkingDays, weekdayNames[i])
		}
	}
	return resp
}

func (s *ShiftSchedule) setWorkingDays(days []string) {
	flags := [7]bool{}
	for _, d := range days {
		for i, name := range weekdayNames {
			if strings.EqualFold(strings.TrimSpace(d), name) {
				flags[i] = true
			}
		}
	}
	s.Monday, s.Tuesday, s.Wednesday, s.Thursday = flags[0], flags[1], flags[2], flags[3]
	s.Friday, s.Saturday, s.Sunday = flags[4], flags[5], flags[6]
}

func validateMinutes(field string, v *int) validator.ValidationErrors {
	if v != nil && (*v < 0 || *v > 720) {
		return validator.ValidationErrors{{Field: field, Message: field + " must be between 0 and 720"}}
	}
	return nil
}

func validateLunch(start, end *string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if (start == nil) != (end == nil) {
		errs = append(errs, validator.ValidationError{Field: "lunch_break", Message: "lunch_break_start and lunch_break_end must be set together"})
		return errs
	}
	if start == nil {
		return nil
	}
	if _, ok := validator.IsValidClockTime(*start); !ok {
		errs = append(errs, validator.ValidationError{Field: "lunch_break_start", Message: "lunch_break_start must be HH:MM or HH:MM:SS"})
	}
	if _, ok := validator.IsValidClockTime(*end); !ok {
		errs = append(errs, validator.ValidationError{Field: "lunch_break_end", Message: "lunch_break_end must be HH:MM or HH:MM:SS"})
	}
	return errs
}

func validateWorkingDays(days []string) validator.ValidationErrors {
	for _, d := range days {
		if !validator.IsInSlice(strings.ToLower(strings.TrimSpace(d)), weekdayNames) {
			return validator.ValidationErrors{{Field: "working_days", Message: "working_days must contain weekday names (monday..sunday)"}}
		}
	}
	return nil
}

func parseOptionalClock(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, ok := validator.IsValidClockTime(*s)
	if !ok {
		return nil
	}
	return &t
}

func intOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}
