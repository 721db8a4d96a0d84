package report

import (
	"fmt"

	"github.com/cmlabs-hris/hris-payroll/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

func invalid(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
}

// ========================================
// PAYROLL SUMMARY
// ========================================

type PeriodRequest struct {
	Month int `json:"month" validate:"min=1,max=12"`
	Year  int `json:"year" validate:"min=2000,max=9999"`
}

func (r *PeriodRequest) Validate() error {
	return invalid(validator.Struct(r))
}

// StatusTotals is the aggregate of a month's payroll records.
type StatusTotals struct {
	TotalEmployees   int
	DraftCount       int
	ConfirmedCount   int
	LockedCount      int
	TotalHours       decimal.Decimal
	TotalBaseSalary  decimal.Decimal
	TotalOvertimePay decimal.Decimal
	TotalNetPay      decimal.Decimal
}

type PayrollSummaryReport struct {
	PeriodMonth      int             `json:"period_month"`
	PeriodYear       int             `json:"period_year"`
	GeneratedAt      string          `json:"generated_at"`
	TotalEmployees   int             `json:"total_employees"`
	DraftCount       int             `json:"draft_count"`
	ConfirmedCount   int             `json:"confirmed_count"`
	LockedCount      int             `json:"locked_count"`
	TotalHours       decimal.Decimal `json:"total_hours"`
	TotalBaseSalary  decimal.Decimal `json:"total_base_salary"`
	TotalOvertimePay decimal.Decimal `json:"total_overtime_pay"`
	TotalNetPay      decimal.Decimal `json:"total_net_pay"`
}

// ========================================
// TOP EARNERS
// ========================================

type TopEarnersRequest struct {
	Month int `json:"month" validate:"min=1,max=12"`
	Year  int `json:"year" validate:"min=2000,max=9999"`
	Limit int `json:"limit" validate:"min=0,max=100"`
}

func (r *TopEarnersRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return invalid(err)
	}
	if r.Limit == 0 {
		r.Limit = 10
	}
	return nil
}

type EarnerRow struct {
	EmployeeID     string          `json:"employee_id"`
	EmployeeName   string          `json:"employee_name"`
	EmployeeCode   string          `json:"employee_code"`
	DepartmentName *string         `json:"department_name,omitempty"`
	TotalHours     decimal.Decimal `json:"total_hours"`
	OvertimePay    decimal.Decimal `json:"overtime_pay"`
	NetPay         decimal.Decimal `json:"net_pay"`
	Status         string          `json:"status"`
}

type TopEarnersReport struct {
	PeriodMonth int         `json:"period_month"`
	PeriodYear  int         `json:"period_year"`
	GeneratedAt string      `json:"generated_at"`
	Rows        []EarnerRow `json:"rows"`
}

// ========================================
// BY DEPARTMENT
// ========================================

type DepartmentRow struct {
	DepartmentName   string          `json:"department_name"`
	EmployeeCount    int             `json:"employee_count"`
	TotalOvertimePay decimal.Decimal `json:"total_overtime_pay"`
	TotalNetPay      decimal.Decimal `json:"total_net_pay"`
	AverageNetPay    decimal.Decimal `json:"average_net_pay"`
}

type DepartmentReport struct {
	PeriodMonth int             `json:"period_month"`
	PeriodYear  int             `json:"period_year"`
	GeneratedAt string          `json:"generated_at"`
	TotalNetPay decimal.Decimal `json:"total_net_pay"`
	Rows        []DepartmentRow `json:"rows"`
}
