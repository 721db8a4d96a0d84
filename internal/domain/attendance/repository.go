package attendance

import (
	"context"

	"github.com/shopspring/decimal"
)

// HoursAggregator sums worked hours from the attendance ledger.
type HoursAggregator interface {
	// GetTotalHours returns the hours worked by an employee in the given
	// month. It returns zero when the employee has no attendance rows.
	GetTotalHours(ctx context.Context, employeeID string, month, year int) (decimal.Decimal, error)
}
