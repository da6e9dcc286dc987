package response

import (
	"errors"
	"net/http"

	"github.com/worklane/worklane-backend-go/internal/domain/employee"
	"github.com/worklane/worklane-backend-go/internal/domain/payroll"
	"github.com/worklane/worklane-backend-go/internal/domain/settings"
	"github.com/worklane/worklane-backend-go/internal/domain/shift"
	"github.com/worklane/worklane-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Shift domain errors
	case errors.Is(err, shift.ErrRegistrationNotFound):
		NotFound(w, "Shift registration not found")
	case errors.Is(err, shift.ErrDuplicateDate):
		Conflict(w, "A registration already exists for this date")
	case errors.Is(err, shift.ErrNotPermitted):
		Forbidden(w, "Not permitted to act for this employee")
	case errors.Is(err, shift.ErrApprovalRequired):
		Forbidden(w, "Approval capability required")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrRecordNotFound):
		NotFound(w, "Payroll record not found")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Settings domain errors
	case errors.Is(err, settings.ErrSettingNotFound):
		NotFound(w, "Setting not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
