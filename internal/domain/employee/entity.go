package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is the read-only view of the employee directory needed by payroll.
type Employee struct {
	ID               string
	EmployeeCode     string
	FullName         string
	BaseSalary       decimal.Decimal
	EmploymentStatus EmploymentStatus
	HireDate         time.Time

	// Joined fields
	DepartmentName *string
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusInactive   EmploymentStatus = "inactive"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

func (e Employee) IsActive() bool {
	return e.EmploymentStatus == EmploymentStatusActive
}
