package payroll

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput          = errors.New("invalid payroll input")
	ErrPayrollRecordNotFound = errors.New("payroll record not found")
	ErrForbidden             = errors.New("role is not permitted to perform this payroll action")
	ErrNeedsConfirmation     = errors.New("payroll record is locked, explicit force is required")
	ErrInvalidTransition     = errors.New("invalid payroll status transition")
	ErrDeletionBlocked       = errors.New("cannot delete locked payroll record")
	ErrMissingReason         = errors.New("unlock reason is required")

	// ErrPayrollRecordLocked is returned by storage when an upsert meets a
	// locked row it was not allowed to overwrite.
	ErrPayrollRecordLocked = errors.New("payroll record is locked")
)

// GuardError is a state-machine rejection carrying the affected record.
// It unwraps to one of the sentinel errors above.
type GuardError struct {
	Err        error
	Action     Action
	EmployeeID string
	Month      int
	Year       int
	Status     *Status

	// LockedCount is set by the bulk pre-check.
	LockedCount int
}

func (e *GuardError) Error() string {
	if e.EmployeeID == "" {
		return fmt.Sprintf("%s %02d/%d: %v", e.Action, e.Month, e.Year, e.Err)
	}
	return fmt.Sprintf("%s %s %02d/%d: %v", e.Action, e.EmployeeID, e.Month, e.Year, e.Err)
}

func (e *GuardError) Unwrap() error {
	return e.Err
}

// Details returns the structured fields a caller needs to tell
// "deny" apart from "ask to confirm".
func (e *GuardError) Details() map[string]string {
	d := map[string]string{
		"action": string(e.Action),
		"month":  fmt.Sprint(e.Month),
		"year":   fmt.Sprint(e.Year),
	}
	if e.EmployeeID != "" {
		d["employee_id"] = e.EmployeeID
	}
	if e.Status != nil {
		d["status"] = string(*e.Status)
	}
	if e.LockedCount > 0 {
		d["locked_count"] = fmt.Sprint(e.LockedCount)
	}
	return d
}

func NewGuardError(err error, action Action, key Key, status *Status) *GuardError {
	return &GuardError{
		Err:        err,
		Action:     action,
		EmployeeID: key.EmployeeID,
		Month:      key.Month,
		Year:       key.Year,
		Status:     status,
	}
}

// ErrorCode returns the stable machine-readable code for a payroll error.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "INVALID_INPUT"
	case errors.Is(err, ErrPayrollRecordNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	case errors.Is(err, ErrNeedsConfirmation):
		return "NEEDS_CONFIRMATION"
	case errors.Is(err, ErrInvalidTransition):
		return "INVALID_TRANSITION"
	case errors.Is(err, ErrDeletionBlocked):
		return "DELETION_BLOCKED"
	case errors.Is(err, ErrMissingReason):
		return "MISSING_REASON"
	default:
		return "INTERNAL_ERROR"
	}
}
