package payroll

import (
	"context"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/user"
)

type PayrollService interface {
	// Calculate (re)computes one employee's record for a month.
	Calculate(ctx context.Context, req CalculateRequest, caller user.Caller) (CalculateResponse, error)
	// CalculateAll runs Calculate for every active employee. Per-employee
	// failures are reported in the result and never abort the run.
	CalculateAll(ctx context.Context, req BulkCalculateRequest, caller user.Caller) (BulkCalculateResponse, error)

	Confirm(ctx context.Context, key Key, caller user.Caller) (PayrollRecordResponse, error)
	Lock(ctx context.Context, req LockRequest, caller user.Caller) (PayrollRecordResponse, error)
	Unlock(ctx context.Context, req UnlockRequest, caller user.Caller) (PayrollRecordResponse, error)
	Delete(ctx context.Context, key Key, caller user.Caller) error

	Get(ctx context.Context, key Key, caller user.Caller) (PayrollRecordResponse, error)
	List(ctx context.Context, filter PayrollFilter, caller user.Caller) (ListPayrollRecordResponse, error)
	Payslip(ctx context.Context, key Key, caller user.Caller) ([]byte, error)
}
