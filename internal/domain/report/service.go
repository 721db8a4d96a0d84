package report

import (
	"context"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/user"
)

// ReportService defines the interface for read-only payroll reports
type ReportService interface {
	PayrollSummary(ctx context.Context, req PeriodRequest, caller user.Caller) (PayrollSummaryReport, error)
	TopEarners(ctx context.Context, req TopEarnersRequest, caller user.Caller) (TopEarnersReport, error)
	ByDepartment(ctx context.Context, req PeriodRequest, caller user.Caller) (DepartmentReport, error)
}
