package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.HoursAggregator {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) GetTotalHours(ctx context.Context, employeeID string, month, year int) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(work_hours_in_minutes), 0)
		FROM attendances
		WHERE employee_id = $1
		  AND EXTRACT(MONTH FROM date) = $2
		  AND EXTRACT(YEAR FROM date) = $3
		  AND status = ANY($4)
	`

	var minutes int64
	if err := q.QueryRow(ctx, query, employeeID, month, year, attendance.PayableStatuses()).Scan(&minutes); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum attendance hours: %w", err)
	}

	return decimal.NewFromInt(minutes).Div(decimal.NewFromInt(60)).Round(2), nil
}
