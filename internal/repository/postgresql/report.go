package postgresql

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/report"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

func periodWhere(month, year int) sq.Eq {
	return sq.Eq{"pr.period_month": month, "pr.period_year": year}
}

func (r *reportRepositoryImpl) GetPayrollStatusTotals(ctx context.Context, month, year int) (report.StatusTotals, error) {
	q := GetQuerier(ctx, r.db)

	query, args, err := psql.Select("COUNT(*)").
		Column(sq.Expr("COUNT(*) FILTER (WHERE pr.status = ?)", payroll.StatusDraft)).
		Column(sq.Expr("COUNT(*) FILTER (WHERE pr.status = ?)", payroll.StatusConfirmed)).
		Column(sq.Expr("COUNT(*) FILTER (WHERE pr.status = ?)", payroll.StatusLocked)).
		Columns(
			"COALESCE(SUM(pr.total_hours), 0)",
			"COALESCE(SUM(pr.base_salary_at_calculation), 0)",
			"COALESCE(SUM(pr.overtime_pay), 0)",
			"COALESCE(SUM(pr.net_pay), 0)",
		).
		From("payroll_records pr").
		Where(periodWhere(month, year)).
		ToSql()
	if err != nil {
		return report.StatusTotals{}, fmt.Errorf("failed to build totals query: %w", err)
	}

	var t report.StatusTotals
	err = q.QueryRow(ctx, query, args...).Scan(
		&t.TotalEmployees, &t.DraftCount, &t.ConfirmedCount, &t.LockedCount,
		&t.TotalHours, &t.TotalBaseSalary, &t.TotalOvertimePay, &t.TotalNetPay,
	)
	if err != nil {
		return report.StatusTotals{}, fmt.Errorf("failed to get payroll totals: %w", err)
	}

	return t, nil
}

func (r *reportRepositoryImpl) GetTopEarners(ctx context.Context, month, year, limit int) ([]report.EarnerRow, error) {
	q := GetQuerier(ctx, r.db)

	query, args, err := psql.Select(
		"pr.employee_id", "e.full_name", "e.employee_code", "d.name",
		"pr.total_hours", "pr.overtime_pay", "pr.net_pay", "pr.status",
	).
		From("payroll_records pr").
		Join("employees e ON e.id = pr.employee_id").
		LeftJoin("departments d ON d.id = e.department_id").
		Where(periodWhere(month, year)).
		OrderBy("pr.net_pay DESC", "e.full_name ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build top earners query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get top earners: %w", err)
	}

	result, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (report.EarnerRow, error) {
		var e report.EarnerRow
		err := row.Scan(
			&e.EmployeeID, &e.EmployeeName, &e.EmployeeCode, &e.DepartmentName,
			&e.TotalHours, &e.OvertimePay, &e.NetPay, &e.Status,
		)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan top earners: %w", err)
	}

	return result, nil
}

func (r *reportRepositoryImpl) GetDepartmentTotals(ctx context.Context, month, year int) ([]report.DepartmentRow, error) {
	q := GetQuerier(ctx, r.db)

	query, args, err := psql.Select(
		"COALESCE(d.name, 'Unassigned') AS department_name",
		"COUNT(*)",
		"COALESCE(SUM(pr.overtime_pay), 0)",
		"COALESCE(SUM(pr.net_pay), 0)",
	).
		From("payroll_records pr").
		Join("employees e ON e.id = pr.employee_id").
		LeftJoin("departments d ON d.id = e.department_id").
		Where(periodWhere(month, year)).
		GroupBy("department_name").
		OrderBy("department_name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build department query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get department totals: %w", err)
	}

	result, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (report.DepartmentRow, error) {
		var d report.DepartmentRow
		err := row.Scan(&d.DepartmentName, &d.EmployeeCount, &d.TotalOvertimePay, &d.TotalNetPay)
		return d, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan department totals: %w", err)
	}

	return result, nil
}
