package payroll

import (
	"strings"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/user"
)

// Action names a state-machine operation on a payroll record.
type Action string

const (
	ActionCalculate Action = "calculate"
	ActionConfirm   Action = "confirm"
	ActionLock      Action = "lock"
	ActionUnlock    Action = "unlock"
	ActionDelete    Action = "delete"
	ActionPayslip   Action = "payslip"
)

// Decision is the outcome of an allowed transition.
type Decision struct {
	Next   Status
	Forced bool
}

// CanCalculate guards (re)calculation. current is nil when no record exists.
// A locked record is only recalculated by a role holding the force
// permission, and only when force is set.
func CanCalculate(current *Status, role user.Role, force bool) (Decision, error) {
	if !user.HasPermission(role, user.PermissionPayrollCalculate) {
		return Decision{}, ErrForbidden
	}
	if current == nil {
		return Decision{Next: StatusDraft}, nil
	}

	switch *current {
	case StatusDraft, StatusConfirmed:
		return Decision{Next: StatusDraft}, nil
	case StatusLocked:
		if !user.HasPermission(role, user.PermissionPayrollForce) {
			return Decision{}, ErrForbidden
		}
		if !force {
			return Decision{}, ErrNeedsConfirmation
		}
		return Decision{Next: StatusDraft, Forced: true}, nil
	}
	return Decision{}, ErrInvalidTransition
}

// CanConfirm guards Draft -> Confirmed.
func CanConfirm(current Status, role user.Role) (Decision, error) {
	if !user.HasPermission(role, user.PermissionPayrollConfirm) {
		return Decision{}, ErrForbidden
	}
	if current != StatusDraft {
		return Decision{}, ErrInvalidTransition
	}
	return Decision{Next: StatusConfirmed}, nil
}

// CanLock guards Draft|Confirmed -> Locked.
func CanLock(current Status, role user.Role) (Decision, error) {
	if !user.HasPermission(role, user.PermissionPayrollLock) {
		return Decision{}, ErrForbidden
	}
	if current != StatusDraft && current != StatusConfirmed {
		return Decision{}, ErrInvalidTransition
	}
	return Decision{Next: StatusLocked}, nil
}

// CanUnlock guards Locked -> Draft. Role is checked before the reason.
func CanUnlock(current Status, role user.Role, reason string) (Decision, error) {
	if !user.HasPermission(role, user.PermissionPayrollUnlock) {
		return Decision{}, ErrForbidden
	}
	if strings.TrimSpace(reason) == "" {
		return Decision{}, ErrMissingReason
	}
	if current != StatusLocked {
		return Decision{}, ErrInvalidTransition
	}
	return Decision{Next: StatusDraft}, nil
}

// CanRenderPayslip allows payslips only for signed-off records.
func CanRenderPayslip(current Status, role user.Role) error {
	if !user.HasPermission(role, user.PermissionPayrollView) {
		return ErrForbidden
	}
	if current != StatusConfirmed && current != StatusLocked {
		return ErrInvalidTransition
	}
	return nil
}

// CanDelete guards record removal.
func CanDelete(current Status, role user.Role) error {
	if !user.HasPermission(role, user.PermissionPayrollDelete) {
		return ErrForbidden
	}
	if current == StatusLocked {
		return ErrDeletionBlocked
	}
	return nil
}
