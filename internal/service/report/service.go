package report

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/report"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/user"
	"github.com/shopspring/decimal"
)

type ReportServiceImpl struct {
	reportRepo report.ReportRepository
	now        func() time.Time
}

func NewReportService(reportRepo report.ReportRepository) report.ReportService {
	return &ReportServiceImpl{
		reportRepo: reportRepo,
		now:        time.Now,
	}
}

func (s *ReportServiceImpl) authorize(caller user.Caller) error {
	if !caller.Can(user.PermissionReportsView) {
		return report.ErrAccessDenied
	}
	return nil
}

// PayrollSummary aggregates a month's payroll records by status
func (s *ReportServiceImpl) PayrollSummary(ctx context.Context, req report.PeriodRequest, caller user.Caller) (report.PayrollSummaryReport, error) {
	if err := req.Validate(); err != nil {
		return report.PayrollSummaryReport{}, err
	}
	if err := s.authorize(caller); err != nil {
		return report.PayrollSummaryReport{}, err
	}

	totals, err := s.reportRepo.GetPayrollStatusTotals(ctx, req.Month, req.Year)
	if err != nil {
		return report.PayrollSummaryReport{}, fmt.Errorf("failed to get payroll totals: %w", err)
	}

	return report.PayrollSummaryReport{
		PeriodMonth:      req.Month,
		PeriodYear:       req.Year,
		GeneratedAt:      s.now().Format(time.RFC3339),
		TotalEmployees:   totals.TotalEmployees,
		DraftCount:       totals.DraftCount,
		ConfirmedCount:   totals.ConfirmedCount,
		LockedCount:      totals.LockedCount,
		TotalHours:       totals.TotalHours,
		TotalBaseSalary:  totals.TotalBaseSalary,
		TotalOvertimePay: totals.TotalOvertimePay,
		TotalNetPay:      totals.TotalNetPay,
	}, nil
}

// TopEarners lists the highest net pay records for a month
func (s *ReportServiceImpl) TopEarners(ctx context.Context, req report.TopEarnersRequest, caller user.Caller) (report.TopEarnersReport, error) {
	if err := req.Validate(); err != nil {
		return report.TopEarnersReport{}, err
	}
	if err := s.authorize(caller); err != nil {
		return report.TopEarnersReport{}, err
	}

	rows, err := s.reportRepo.GetTopEarners(ctx, req.Month, req.Year, req.Limit)
	if err != nil {
		return report.TopEarnersReport{}, fmt.Errorf("failed to get top earners: %w", err)
	}
	if rows == nil {
		rows = []report.EarnerRow{}
	}

	return report.TopEarnersReport{
		PeriodMonth: req.Month,
		PeriodYear:  req.Year,
		GeneratedAt: s.now().Format(time.RFC3339),
		Rows:        rows,
	}, nil
}

// ByDepartment totals a month's payroll per department
func (s *ReportServiceImpl) ByDepartment(ctx context.Context, req report.PeriodRequest, caller user.Caller) (report.DepartmentReport, error) {
	if err := req.Validate(); err != nil {
		return report.DepartmentReport{}, err
	}
	if err := s.authorize(caller); err != nil {
		return report.DepartmentReport{}, err
	}

	rows, err := s.reportRepo.GetDepartmentTotals(ctx, req.Month, req.Year)
	if err != nil {
		return report.DepartmentReport{}, fmt.Errorf("failed to get department totals: %w", err)
	}

	total := decimal.Zero
	for i := range rows {
		if rows[i].EmployeeCount > 0 {
			rows[i].AverageNetPay = rows[i].TotalNetPay.Div(decimal.NewFromInt(int64(rows[i].EmployeeCount))).Round(0)
		}
		total = total.Add(rows[i].TotalNetPay)
	}
	if rows == nil {
		rows = []report.DepartmentRow{}
	}

	return report.DepartmentReport{
		PeriodMonth: req.Month,
		PeriodYear:  req.Year,
		GeneratedAt: s.now().Format(time.RFC3339),
		TotalNetPay: total,
		Rows:        rows,
	}, nil
}
