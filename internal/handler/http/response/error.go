package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/branch"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/tracking"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// Reason codes for attendance state conflicts. Clients branch on these.
const (
	CodeAlreadyClockedIn   = "ALREADY_CLOCKED_IN"
	CodeMaxSessionsReached = "MAX_SESSIONS_REACHED"
	CodeNoActiveSession    = "NO_ACTIVE_SESSION"
	CodeNotClockedIn       = "NOT_CLOCKED_IN"
	CodeDatabaseConflict   = "DATABASE_CONFLICT"
	CodeSessionStillOpen   = "SESSION_STILL_OPEN"
	CodeShiftInactive      = "SHIFT_INACTIVE"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrAccountNotProvisioned):
		Forbidden(w, err.Error())
	case errors.Is(err, auth.ErrGoogleAccessDeniedByUser):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, auth.ErrOAuthDisabled):
		NotFound(w, err.Error())

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserInactive):
		Forbidden(w, "User account is inactive")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrCompanyIDRequired):
		Forbidden(w, err.Error())

	// Employee and branch errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeInactive):
		Forbidden(w, "Employee is not active")
	case errors.Is(err, attendance.ErrEmployeeRequired),
		errors.Is(err, tracking.ErrEmployeeRequired):
		Forbidden(w, err.Error())
	case errors.Is(err, branch.ErrBranchNotFound):
		NotFound(w, "Branch not found")

	// Attendance state conflicts
	case errors.Is(err, attendance.ErrAlreadyClockedIn):
		ConflictWithCode(w, CodeAlreadyClockedIn, err.Error())
	case errors.Is(err, attendance.ErrMaxSessionsReached):
		ConflictWithCode(w, CodeMaxSessionsReached, err.Error())
	case errors.Is(err, attendance.ErrNoActiveSession):
		ConflictWithCode(w, CodeNoActiveSession, err.Error())
	case errors.Is(err, attendance.ErrNotClockedIn):
		ConflictWithCode(w, CodeNotClockedIn, err.Error())
	case errors.Is(err, attendance.ErrSessionConflict):
		ConflictWithCode(w, CodeDatabaseConflict, err.Error())
	case errors.Is(err, attendance.ErrSessionStillOpen):
		ConflictWithCode(w, CodeSessionStillOpen, err.Error())
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrSessionNotFound):
		NotFound(w, "Attendance session not found")

	// Tracking
	case errors.Is(err, tracking.ErrLocationRequired):
		BadRequest(w, err.Error(), nil)

	// Shift domain errors
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift schedule not found")
	case errors.Is(err, shift.ErrShiftNameExists):
		Conflict(w, err.Error())
	case errors.Is(err, shift.ErrShiftInactive):
		ConflictWithCode(w, CodeShiftInactive, err.Error())
	case errors.Is(err, shift.ErrInvalidShiftData):
		BadRequest(w, err.Error(), nil)

	// Notification domain errors
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")
	case errors.Is(err, notification.ErrInvalidNotificationType):
		BadRequest(w, err.Error(), nil)

	// Report errors
	case errors.Is(err, report.ErrReportGenerationFailed):
		slog.Error("report generation failed", "error", err)
		InternalServerError(w, "Failed to generate report")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
