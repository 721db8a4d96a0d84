package report

import "context"

// ReportRepository defines the interface for report data access
type ReportRepository interface {
	GetPayrollStatusTotals(ctx context.Context, month, year int) (StatusTotals, error)
	GetTopEarners(ctx context.Context, month, year, limit int) ([]EarnerRow, error)
	GetDepartmentTotals(ctx context.Context, month, year int) ([]DepartmentRow, error)
}
