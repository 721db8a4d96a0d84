package payroll

import "github.com/shopspring/decimal"

const StandardHours = 40

var (
	standardHours      = decimal.NewFromInt(StandardHours)
	OvertimeMultiplier = decimal.NewFromFloat(1.5)
)

// PayBreakdown is the output of Calculate.
type PayBreakdown struct {
	BaseSalary    decimal.Decimal
	TotalHours    decimal.Decimal
	HourlyRate    decimal.Decimal
	OvertimeHours decimal.Decimal
	OvertimePay   decimal.Decimal
	NetPay        decimal.Decimal
}

// Calculate computes overtime and net pay for one month. The base salary
// is rounded half away from zero to whole currency units once, so
// NetPay == BaseSalary + OvertimePay holds exactly. Inputs are assumed
// non-negative.
func Calculate(baseSalary, totalHours decimal.Decimal) PayBreakdown {
	baseSalary = baseSalary.Round(0)
	hourlyRate := baseSalary.Div(standardHours)

	b := PayBreakdown{
		BaseSalary:    baseSalary,
		TotalHours:    totalHours,
		HourlyRate:    hourlyRate,
		OvertimeHours: decimal.Zero,
		OvertimePay:   decimal.Zero,
		NetPay:        baseSalary,
	}
	if totalHours.LessThanOrEqual(standardHours) {
		return b
	}

	b.OvertimeHours = totalHours.Sub(standardHours)
	b.OvertimePay = b.OvertimeHours.Mul(hourlyRate).Mul(OvertimeMultiplier).Round(0)
	b.NetPay = baseSalary.Add(b.OvertimePay)
	return b
}
