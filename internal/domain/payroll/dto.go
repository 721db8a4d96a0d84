package payroll

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// invalid tags validation failures so callers can match ErrInvalidInput
// and still read the per-field details.
func invalid(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}

func (k Key) Validate() error {
	return invalid(validator.Struct(k))
}

// ========== CALCULATION DTOs ==========

type CalculateRequest struct {
	Key
	Force bool `json:"force"`
	// DraftsOnly leaves confirmed records untouched. Set by scheduled runs.
	DraftsOnly bool `json:"-"`
}

func (r *CalculateRequest) Validate() error {
	return invalid(validator.Struct(r))
}

type CalculateResponse struct {
	Record PayrollRecordResponse `json:"record"`
	Forced bool                  `json:"forced"`
}

type BulkCalculateRequest struct {
	Month      int  `json:"month" validate:"min=1,max=12"`
	Year       int  `json:"year" validate:"min=2000,max=9999"`
	Force      bool `json:"force"`
	DraftsOnly bool `json:"-"`
}

func (r *BulkCalculateRequest) Validate() error {
	return invalid(validator.Struct(r))
}

type BulkOutcome string

const (
	BulkOutcomeSuccess BulkOutcome = "success"
	BulkOutcomeSkipped BulkOutcome = "skipped"
	BulkOutcomeError   BulkOutcome = "error"
)

// BulkItemError reports one employee that was skipped or failed.
type BulkItemError struct {
	EmployeeID string      `json:"employee_id"`
	Outcome    BulkOutcome `json:"outcome"`
	Code       string      `json:"code"`
	Reason     string      `json:"reason"`
}

type BulkCalculateResponse struct {
	PeriodMonth int             `json:"period_month"`
	PeriodYear  int             `json:"period_year"`
	Total       int             `json:"total"`
	Success     int             `json:"success"`
	Skipped     int             `json:"skipped"`
	Error       int             `json:"error"`
	Forced      bool            `json:"forced"`
	Errors      []BulkItemError `json:"errors"`
}

// ========== WORKFLOW DTOs ==========

type LockRequest struct {
	Key
	Note string `json:"note"`
}

func (r *LockRequest) Validate() error {
	return invalid(validator.Struct(r))
}

type UnlockRequest struct {
	Key
	Reason string `json:"reason"`
}

func (r *UnlockRequest) Validate() error {
	return invalid(validator.Struct(r))
}

// ========== RECORD DTOs ==========

type PayrollRecordResponse struct {
	ID                      string          `json:"id"`
	EmployeeID              string          `json:"employee_id"`
	EmployeeName            *string         `json:"employee_name,omitempty"`
	EmployeeCode            *string         `json:"employee_code,omitempty"`
	DepartmentName          *string         `json:"department_name,omitempty"`
	PeriodMonth             int             `json:"period_month"`
	PeriodYear              int             `json:"period_year"`
	TotalHours              decimal.Decimal `json:"total_hours"`
	BaseSalaryAtCalculation decimal.Decimal `json:"base_salary_at_calculation"`
	OvertimePay             decimal.Decimal `json:"overtime_pay"`
	NetPay                  decimal.Decimal `json:"net_pay"`
	Status                  Status          `json:"status"`
	Note                    *string         `json:"note,omitempty"`
	CalculatedAt            time.Time       `json:"calculated_at"`
	ConfirmedBy             *string         `json:"confirmed_by,omitempty"`
	ConfirmedAt             *time.Time      `json:"confirmed_at,omitempty"`
	LockedBy                *string         `json:"locked_by,omitempty"`
	LockedAt                *time.Time      `json:"locked_at,omitempty"`
}

func ToResponse(r PayrollRecord) PayrollRecordResponse {
	return PayrollRecordResponse{
		ID:                      r.ID,
		EmployeeID:              r.EmployeeID,
		EmployeeName:            r.EmployeeName,
		EmployeeCode:            r.EmployeeCode,
		DepartmentName:          r.DepartmentName,
		PeriodMonth:             r.PeriodMonth,
		PeriodYear:              r.PeriodYear,
		TotalHours:              r.TotalHours,
		BaseSalaryAtCalculation: r.BaseSalaryAtCalculation,
		OvertimePay:             r.OvertimePay,
		NetPay:                  r.NetPay,
		Status:                  r.Status,
		Note:                    r.Note,
		CalculatedAt:            r.CalculatedAt,
		ConfirmedBy:             r.ConfirmedBy,
		ConfirmedAt:             r.ConfirmedAt,
		LockedBy:                r.LockedBy,
		LockedAt:                r.LockedAt,
	}
}

type PayrollFilter struct {
	PeriodMonth *int    `json:"period_month,omitempty" validate:"omitempty,min=1,max=12"`
	PeriodYear  *int    `json:"period_year,omitempty" validate:"omitempty,min=2000,max=9999"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=draft confirmed locked"`
	EmployeeID  *string `json:"employee_id,omitempty" validate:"omitempty,uuid"`
	Page        int     `json:"page" validate:"min=0"`
	Limit       int     `json:"limit" validate:"min=0,max=100"`
	SortBy      string  `json:"sort_by" validate:"omitempty,oneof=period employee_name net_pay status calculated_at"`
	SortOrder   string  `json:"sort_order" validate:"omitempty,oneof=asc desc"`
}

// Validate checks the filter and fills pagination and sort defaults.
func (f *PayrollFilter) Validate() error {
	if err := validator.Struct(f); err != nil {
		return invalid(err)
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.SortBy == "" {
		f.SortBy = "period"
	}
	if f.SortOrder == "" {
		f.SortOrder = "desc"
	}
	return nil
}

type ListPayrollRecordResponse struct {
	Data       []PayrollRecordResponse `json:"data"`
	TotalCount int64                   `json:"total_count"`
	Page       int                     `json:"page"`
	Limit      int                     `json:"limit"`
}
