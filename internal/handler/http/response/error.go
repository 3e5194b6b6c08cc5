package response

import (
	"errors"
	"net/http"

	"github.com/attendly/attendly-backend-go/internal/domain/attendance"
	"github.com/attendly/attendly-backend-go/internal/domain/employee"
	"github.com/attendly/attendly-backend-go/internal/domain/leave"
	"github.com/attendly/attendly-backend-go/internal/domain/payroll"
	"github.com/attendly/attendly-backend-go/internal/domain/shift"
	"github.com/attendly/attendly-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// A malformed punch record is a data problem on the caller's side of
	// the fence, not a server fault.
	var integrityErr *attendance.DataIntegrityError
	if errors.As(err, &integrityErr) {
		UnprocessableEntity(w, integrityErr.Error(), map[string]string{
			"employee_id": integrityErr.EmployeeID,
			"date":        integrityErr.Date.Format("2006-01-02"),
		})
		return
	}

	var configErr *payroll.ConfigurationError
	if errors.As(err, &configErr) {
		UnprocessableEntity(w, configErr.Error(), nil)
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyPunchedIn):
		Conflict(w, "You have already punched in today")
	case errors.Is(err, attendance.ErrAlreadyPunchedOut):
		Conflict(w, "You have already punched out today")
	case errors.Is(err, attendance.ErrNotPunchedIn):
		BadRequest(w, "You have not punched in yet", nil)
	case errors.Is(err, attendance.ErrOutsideAllowedRadius):
		Forbidden(w, "You are outside the allowed office radius")
	case errors.Is(err, attendance.ErrPunchRecordNotFound):
		NotFound(w, "Punch record not found")

	// Shift domain errors
	case errors.Is(err, shift.ErrShiftPolicyNotFound):
		NotFound(w, "Shift policy not found")
	case errors.Is(err, shift.ErrInvalidShiftWindow):
		BadRequest(w, "Shift end must be after shift start", nil)
	case errors.Is(err, shift.ErrInvalidThresholds):
		BadRequest(w, "Half day threshold must be below the full day threshold", nil)

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, leave.ErrInvalidDateRange):
		BadRequest(w, "Leave start date must not be after end date", nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayrollSettingsNotFound):
		NotFound(w, "Payroll settings not found")
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period", nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
