package cron

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/user"
)

const DraftRefreshJobName = "payroll_draft_refresh"

// PayrollJobs keeps the current month's draft records in step with
// attendance as it accrues.
type PayrollJobs struct {
	payrollService payroll.PayrollService
	logger         *slog.Logger
	now            func() time.Time
}

func NewPayrollJobs(payrollService payroll.PayrollService, logger *slog.Logger) *PayrollJobs {
	if logger == nil {
		logger = slog.Default()
	}
	return &PayrollJobs{
		payrollService: payrollService,
		logger:         logger,
		now:            time.Now,
	}
}

func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob(DraftRefreshJobName, interval, j.RefreshCurrentMonth)
}

// RefreshCurrentMonth recalculates the current month's drafts as the system
// identity without force. Confirmed records keep their sign-off and a month
// holding locked records is left untouched.
func (j *PayrollJobs) RefreshCurrentMonth(ctx context.Context) error {
	now := j.now().UTC()
	req := payroll.BulkCalculateRequest{Month: int(now.Month()), Year: now.Year(), DraftsOnly: true}

	result, err := j.payrollService.CalculateAll(ctx, req, user.System())
	if err != nil {
		if errors.Is(err, payroll.ErrNeedsConfirmation) || errors.Is(err, payroll.ErrForbidden) {
			j.logger.Info("Cron: payroll month has locked records, skipping draft refresh",
				"month", req.Month, "year", req.Year, "reason", err.Error())
			return nil
		}
		return err
	}

	j.logger.Info("Cron: payroll drafts refreshed",
		"month", req.Month,
		"year", req.Year,
		"total", result.Total,
		"success", result.Success,
		"skipped", result.Skipped,
		"error", result.Error,
	)
	return nil
}
