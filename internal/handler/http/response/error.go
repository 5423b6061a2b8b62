package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/domain/auth"
	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/pkg/validator"
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
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrMissingClaim):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrUnknownRole):
		Forbidden(w, "Unknown role")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrInvalidEmployeeRef):
		BadRequest(w, "Invalid employee reference", nil)
	case errors.Is(err, employee.ErrCompensationNotFound):
		NotFound(w, "Compensation not found")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrNoActiveAttendance):
		NotFound(w, "No active attendance for today")
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrApproverNotFound):
		NotFound(w, "Approver not found")
	case errors.Is(err, attendance.ErrAttendanceNotSubmitted):
		Conflict(w, "Attendance is not awaiting approval")
	case errors.Is(err, attendance.ErrAlreadyApproved):
		Conflict(w, "Attendance has already been approved")
	case errors.Is(err, attendance.ErrNotDesignatedApprover):
		Forbidden(w, "Only the designated approver or an administrator may review this attendance")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayslipAlreadyExists):
		Conflict(w, "Payslip for this period already exists")
	case errors.Is(err, payroll.ErrPayslipNotFound):
		NotFound(w, "Payslip not found")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred: "+err.Error())
	}
}
