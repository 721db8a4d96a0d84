package employee

import "context"

// EmployeeRepository is the employee directory consumed by payroll.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	// GetActiveIDs returns ids of active employees ordered by id.
	GetActiveIDs(ctx context.Context) ([]string, error)
}
