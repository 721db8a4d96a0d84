package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status enum
type Status string

const (
	StatusDraft     Status = "draft"
	StatusConfirmed Status = "confirmed"
	StatusLocked    Status = "locked"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusConfirmed, StatusLocked:
		return true
	}
	return false
}

// Key is the natural key of a payroll record.
type Key struct {
	EmployeeID string `json:"employee_id" validate:"required,uuid"`
	Month      int    `json:"month" validate:"min=1,max=12"`
	Year       int    `json:"year" validate:"min=2000,max=9999"`
}

// PayrollRecord - One employee's pay for one month
type PayrollRecord struct {
	ID                      string
	EmployeeID              string
	PeriodMonth             int
	PeriodYear              int
	TotalHours              decimal.Decimal
	BaseSalaryAtCalculation decimal.Decimal
	OvertimePay             decimal.Decimal
	NetPay                  decimal.Decimal
	Status                  Status
	Note                    *string
	CalculatedAt            time.Time
	ConfirmedBy             *string
	ConfirmedAt             *time.Time
	LockedBy                *string
	LockedAt                *time.Time
	CreatedAt               time.Time
	UpdatedAt               time.Time

	// Joined fields
	EmployeeName   *string
	EmployeeCode   *string
	DepartmentName *string
}

func (r PayrollRecord) Key() Key {
	return Key{EmployeeID: r.EmployeeID, Month: r.PeriodMonth, Year: r.PeriodYear}
}
