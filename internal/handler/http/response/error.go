package response

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/pragyatmika/hrms-backend-go/internal/domain/attendance"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/auth"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/employee"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/exception"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/leave"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/user"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var geoErr *attendance.OutOfGeofenceError
	if errors.As(err, &geoErr) {
		OutOfGeofence(w, geoErr.Error(), map[string]string{
			"distance_meters": fmt.Sprintf("%d", int(geoErr.Distance)),
			"radius_meters":   fmt.Sprintf("%d", int(geoErr.Radius)),
		})
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrInvalidSignupKey):
		Forbidden(w, "Invalid admin signup key")
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin access required")
	case errors.Is(err, user.ErrEmployeeRoleRequired):
		Forbidden(w, "Employee access required")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, employee.ErrInvalidStandardTime):
		BadRequest(w, "Employee standard time is invalid", nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrNoOpenSession):
		BadRequest(w, "Cannot check out without check-in", nil)
	case errors.Is(err, attendance.ErrNoPriorCheckIn):
		BadRequest(w, "No check-in recorded for that date", nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// Exception domain errors
	case errors.Is(err, exception.ErrRequestNotFound):
		NotFound(w, "Request not found")
	case errors.Is(err, exception.ErrAlreadyProcessed):
		Conflict(w, "Request already processed")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrBalanceNotFound):
		NotFound(w, "Leave balance not found")
	case errors.Is(err, leave.ErrInsufficientBalance):
		BadRequest(w, "Insufficient leave balance", nil)
	case errors.Is(err, leave.ErrNoLeaveDays):
		BadRequest(w, "Leave range contains no working days", nil)
	case errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed):
		Conflict(w, "Leave request already processed")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		ServiceUnavailable(w, "Service temporarily unavailable")
	}
}
