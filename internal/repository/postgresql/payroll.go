package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var payrollRecordColumns = []string{
	"pr.id", "pr.employee_id", "pr.period_month", "pr.period_year",
	"pr.total_hours", "pr.base_salary_at_calculation", "pr.overtime_pay", "pr.net_pay",
	"pr.status", "pr.note", "pr.calculated_at",
	"pr.confirmed_by", "pr.confirmed_at", "pr.locked_by", "pr.locked_at",
	"pr.created_at", "pr.updated_at",
	"e.full_name", "e.employee_code", "d.name",
}

// selectRecords reads payroll rows from source (a table or CTE aliased pr)
// together with the joined employee fields.
func selectRecords(source string) string {
	return fmt.Sprintf(`
		SELECT %s
		FROM %s pr
		LEFT JOIN employees e ON e.id = pr.employee_id
		LEFT JOIN departments d ON d.id = e.department_id
	`, strings.Join(payrollRecordColumns, ", "), source)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPayrollRecord(row rowScanner) (payroll.PayrollRecord, error) {
	var r payroll.PayrollRecord
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.PeriodMonth, &r.PeriodYear,
		&r.TotalHours, &r.BaseSalaryAtCalculation, &r.OvertimePay, &r.NetPay,
		&r.Status, &r.Note, &r.CalculatedAt,
		&r.ConfirmedBy, &r.ConfirmedAt, &r.LockedBy, &r.LockedAt,
		&r.CreatedAt, &r.UpdatedAt,
		&r.EmployeeName, &r.EmployeeCode, &r.DepartmentName,
	)
	return r, err
}

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

func (r *payrollRepository) GetByKey(ctx context.Context, key payroll.Key) (payroll.PayrollRecord, error) {
	return r.getByKey(ctx, key, "")
}

func (r *payrollRepository) GetByKeyForUpdate(ctx context.Context, key payroll.Key) (payroll.PayrollRecord, error) {
	return r.getByKey(ctx, key, "FOR UPDATE OF pr")
}

func (r *payrollRepository) getByKey(ctx context.Context, key payroll.Key, lock string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := selectRecords("payroll_records") + `
		WHERE pr.employee_id = $1 AND pr.period_month = $2 AND pr.period_year = $3
	` + lock

	record, err := scanPayrollRecord(q.QueryRow(ctx, query, key.EmployeeID, key.Month, key.Year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	return record, nil
}

func (r *payrollRepository) Upsert(ctx context.Context, record payroll.PayrollRecord, overwriteLocked bool) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to generate payroll record id: %w", err)
	}

	query := `
		WITH upserted AS (
			INSERT INTO payroll_records (
				id, employee_id, period_month, period_year,
				total_hours, base_salary_at_calculation, overtime_pay, net_pay,
				status, note, calculated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (employee_id, period_month, period_year) DO UPDATE SET
				total_hours = EXCLUDED.total_hours,
				base_salary_at_calculation = EXCLUDED.base_salary_at_calculation,
				overtime_pay = EXCLUDED.overtime_pay,
				net_pay = EXCLUDED.net_pay,
				status = EXCLUDED.status,
				note = EXCLUDED.note,
				calculated_at = EXCLUDED.calculated_at,
				confirmed_by = NULL,
				confirmed_at = NULL,
				locked_by = NULL,
				locked_at = NULL,
				updated_at = NOW()
			WHERE payroll_records.status <> 'locked' OR $12::boolean
			RETURNING *
		)
	` + selectRecords("upserted")

	saved, err := scanPayrollRecord(q.QueryRow(ctx, query,
		id.String(), record.EmployeeID, record.PeriodMonth, record.PeriodYear,
		record.TotalHours, record.BaseSalaryAtCalculation, record.OvertimePay, record.NetPay,
		record.Status, record.Note, record.CalculatedAt, overwriteLocked,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordLocked
	}
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to upsert payroll record: %w", err)
	}

	return saved, nil
}

func (r *payrollRepository) UpdateWorkflow(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH updated AS (
			UPDATE payroll_records SET
				status = $4,
				note = $5,
				confirmed_by = $6,
				confirmed_at = $7,
				locked_by = $8,
				locked_at = $9,
				updated_at = NOW()
			WHERE employee_id = $1 AND period_month = $2 AND period_year = $3
			RETURNING *
		)
	` + selectRecords("updated")

	saved, err := scanPayrollRecord(q.QueryRow(ctx, query,
		record.EmployeeID, record.PeriodMonth, record.PeriodYear,
		record.Status, record.Note,
		record.ConfirmedBy, record.ConfirmedAt, record.LockedBy, record.LockedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to update payroll record: %w", err)
	}

	return saved, nil
}

func (r *payrollRepository) Delete(ctx context.Context, key payroll.Key) error {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM payroll_records
		WHERE employee_id = $1 AND period_month = $2 AND period_year = $3
		RETURNING id
	`

	var deletedID string
	err := q.QueryRow(ctx, query, key.EmployeeID, key.Month, key.Year).Scan(&deletedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.ErrPayrollRecordNotFound
		}
		return fmt.Errorf("failed to delete payroll record: %w", err)
	}

	return nil
}

func (r *payrollRepository) CountByStatus(ctx context.Context, month, year int, status payroll.Status) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM payroll_records
		WHERE period_month = $1 AND period_year = $2 AND status = $3
	`

	var count int
	if err := q.QueryRow(ctx, query, month, year, status).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count payroll records: %w", err)
	}

	return count, nil
}

var payrollSortColumns = map[string][]string{
	"period":        {"pr.period_year", "pr.period_month", "e.full_name"},
	"employee_name": {"e.full_name"},
	"net_pay":       {"pr.net_pay"},
	"status":        {"pr.status"},
	"calculated_at": {"pr.calculated_at"},
}

func (r *payrollRepository) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := sq.And{}
	if filter.PeriodMonth != nil {
		where = append(where, sq.Eq{"pr.period_month": *filter.PeriodMonth})
	}
	if filter.PeriodYear != nil {
		where = append(where, sq.Eq{"pr.period_year": *filter.PeriodYear})
	}
	if filter.Status != nil {
		where = append(where, sq.Eq{"pr.status": *filter.Status})
	}
	if filter.EmployeeID != nil {
		where = append(where, sq.Eq{"pr.employee_id": *filter.EmployeeID})
	}

	countQuery, countArgs, err := psql.Select("COUNT(*)").From("payroll_records pr").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int64
	if err := q.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll records: %w", err)
	}

	direction := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		direction = "ASC"
	}
	sortCols, ok := payrollSortColumns[filter.SortBy]
	if !ok {
		sortCols = payrollSortColumns["period"]
	}
	orderBy := make([]string, 0, len(sortCols)+1)
	for _, c := range sortCols {
		orderBy = append(orderBy, c+" "+direction)
	}
	orderBy = append(orderBy, "pr.employee_id ASC")

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	listQuery, args, err := psql.Select(payrollRecordColumns...).
		From("payroll_records pr").
		LeftJoin("employees e ON e.id = pr.employee_id").
		LeftJoin("departments d ON d.id = e.department_id").
		Where(where).
		OrderBy(orderBy...).
		Limit(uint64(limit)).
		Offset(uint64((page - 1) * limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := q.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.PayrollRecord
	for rows.Next() {
		record, err := scanPayrollRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate payroll records: %w", err)
	}

	return records, total, nil
}
