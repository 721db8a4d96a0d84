package payroll

import "context"

// PayrollRepository defines data access for payroll records.
// Reads and writes join the caller's transaction when one is in ctx.
type PayrollRepository interface {
	GetByKey(ctx context.Context, key Key) (PayrollRecord, error)
	// GetByKeyForUpdate reads the record and holds a row lock until the
	// surrounding transaction ends.
	GetByKeyForUpdate(ctx context.Context, key Key) (PayrollRecord, error)
	// Upsert inserts or overwrites the derived fields of the record with the
	// same key in a single statement. A locked row is only overwritten when
	// overwriteLocked is set; otherwise ErrPayrollRecordLocked is returned.
	Upsert(ctx context.Context, record PayrollRecord, overwriteLocked bool) (PayrollRecord, error)
	// UpdateWorkflow persists status, note and sign-off fields.
	UpdateWorkflow(ctx context.Context, record PayrollRecord) (PayrollRecord, error)
	Delete(ctx context.Context, key Key) error
	CountByStatus(ctx context.Context, month, year int, status Status) (int, error)
	List(ctx context.Context, filter PayrollFilter) ([]PayrollRecord, int64, error)
}
