package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/report"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Guard rejections carry the record they refer to
	var details map[string]string
	var guardErr *payroll.GuardError
	if errors.As(err, &guardErr) {
		details = guardErr.Details()
	}

	switch {
	// Auth errors
	case errors.Is(err, user.ErrInvalidToken), errors.Is(err, user.ErrInvalidRole):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())

	// Payroll domain errors
	case errors.Is(err, payroll.ErrInvalidInput):
		BadRequest(w, err.Error(), details)
	case errors.Is(err, payroll.ErrPayrollRecordNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrForbidden):
		ErrorWithCode(w, http.StatusForbidden, "FORBIDDEN", err.Error(), details)
	case errors.Is(err, payroll.ErrNeedsConfirmation):
		ErrorWithCode(w, http.StatusConflict, "NEEDS_CONFIRMATION", err.Error(), details)
	case errors.Is(err, payroll.ErrInvalidTransition):
		ErrorWithCode(w, http.StatusConflict, "INVALID_TRANSITION", err.Error(), details)
	case errors.Is(err, payroll.ErrDeletionBlocked):
		ErrorWithCode(w, http.StatusConflict, "DELETION_BLOCKED", err.Error(), details)
	case errors.Is(err, payroll.ErrMissingReason):
		ErrorWithCode(w, http.StatusBadRequest, "MISSING_REASON", err.Error(), details)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Report domain errors
	case errors.Is(err, report.ErrInvalidRequest):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, report.ErrAccessDenied):
		Forbidden(w, err.Error())

	// Default
	default:
		slog.Error("unhandled error", slog.Any("error", err))
		InternalServerError(w, "An unexpected error occurred")
	}
}
