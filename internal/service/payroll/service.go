package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/payslip"
)

type PayrollServiceImpl struct {
	tx           database.Transactor
	payrollRepo  payroll.PayrollRepository
	employeeRepo employee.EmployeeRepository
	hours        attendance.HoursAggregator
	payslips     *payslip.Generator
	logger       *slog.Logger
	now          func() time.Time
}

func NewPayrollService(
	tx database.Transactor,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	hours attendance.HoursAggregator,
	payslips *payslip.Generator,
	logger *slog.Logger,
) payroll.PayrollService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PayrollServiceImpl{
		tx:           tx,
		payrollRepo:  payrollRepo,
		employeeRepo: employeeRepo,
		hours:        hours,
		payslips:     payslips,
		logger:       logger.With(slog.String("component", "payroll")),
		now:          time.Now,
	}
}

// currentStatus reads the record under a row lock. It returns a nil status
// when no record exists yet.
func (s *PayrollServiceImpl) currentStatus(ctx context.Context, key payroll.Key) (*payroll.PayrollRecord, error) {
	record, err := s.payrollRepo.GetByKeyForUpdate(ctx, key)
	if err != nil {
		if errors.Is(err, payroll.ErrPayrollRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// ========== CALCULATION ==========

func (s *PayrollServiceImpl) Calculate(ctx context.Context, req payroll.CalculateRequest, caller user.Caller) (payroll.CalculateResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.CalculateResponse{}, err
	}
	if !caller.Can(user.PermissionPayrollCalculate) {
		return payroll.CalculateResponse{}, payroll.NewGuardError(payroll.ErrForbidden, payroll.ActionCalculate, req.Key, nil)
	}

	var result payroll.CalculateResponse
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
		if err != nil {
			return err
		}

		existing, err := s.currentStatus(ctx, req.Key)
		if err != nil {
			return err
		}

		var status *payroll.Status
		var note *string
		if existing != nil {
			status = &existing.Status
			note = existing.Note
		}

		decision, err := payroll.CanCalculate(status, caller.Role, req.Force)
		if err != nil {
			return payroll.NewGuardError(err, payroll.ActionCalculate, req.Key, status)
		}
		if req.DraftsOnly && status != nil && *status != payroll.StatusDraft {
			return payroll.NewGuardError(payroll.ErrInvalidTransition, payroll.ActionCalculate, req.Key, status)
		}

		totalHours, err := s.hours.GetTotalHours(ctx, req.EmployeeID, req.Month, req.Year)
		if err != nil {
			return fmt.Errorf("failed to get total hours: %w", err)
		}
		if emp.BaseSalary.IsNegative() || totalHours.IsNegative() {
			return fmt.Errorf("%w: negative base salary or hours for employee %s", payroll.ErrInvalidInput, emp.ID)
		}

		pay := payroll.Calculate(emp.BaseSalary, totalHours)
		now := s.now()

		if decision.Forced {
			note = payroll.AppendNote(note, now, payroll.ActionCalculate, caller.Username, "forced recalculation of locked record")
		}

		saved, err := s.payrollRepo.Upsert(ctx, payroll.PayrollRecord{
			EmployeeID:              req.EmployeeID,
			PeriodMonth:             req.Month,
			PeriodYear:              req.Year,
			TotalHours:              totalHours,
			BaseSalaryAtCalculation: pay.BaseSalary,
			OvertimePay:             pay.OvertimePay,
			NetPay:                  pay.NetPay,
			Status:                  decision.Next,
			Note:                    note,
			CalculatedAt:            now,
		}, decision.Forced)
		if errors.Is(err, payroll.ErrPayrollRecordLocked) {
			// Locked by a concurrent writer after our read.
			lockedStatus := payroll.StatusLocked
			guardErr := payroll.ErrNeedsConfirmation
			if !caller.Can(user.PermissionPayrollForce) {
				guardErr = payroll.ErrForbidden
			}
			return payroll.NewGuardError(guardErr, payroll.ActionCalculate, req.Key, &lockedStatus)
		}
		if err != nil {
			return err
		}

		if decision.Forced {
			s.logger.WarnContext(ctx, "locked payroll record force-recalculated",
				slog.String("employee_id", req.EmployeeID),
				slog.Int("month", req.Month),
				slog.Int("year", req.Year),
				slog.String("by", caller.Username),
			)
		}

		result = payroll.CalculateResponse{Record: payroll.ToResponse(saved), Forced: decision.Forced}
		return nil
	})
	if err != nil {
		return payroll.CalculateResponse{}, err
	}

	return result, nil
}

func (s *PayrollServiceImpl) CalculateAll(ctx context.Context, req payroll.BulkCalculateRequest, caller user.Caller) (payroll.BulkCalculateResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.BulkCalculateResponse{}, err
	}

	period := payroll.Key{Month: req.Month, Year: req.Year}
	if !caller.Can(user.PermissionPayrollCalculate) {
		return payroll.BulkCalculateResponse{}, payroll.NewGuardError(payroll.ErrForbidden, payroll.ActionCalculate, period, nil)
	}

	// Callers without force authority may not bulk-skip locked records.
	if !caller.Can(user.PermissionPayrollForce) {
		locked, err := s.payrollRepo.CountByStatus(ctx, req.Month, req.Year, payroll.StatusLocked)
		if err != nil {
			return payroll.BulkCalculateResponse{}, err
		}
		if locked > 0 {
			kind := payroll.ErrNeedsConfirmation
			if req.Force {
				kind = payroll.ErrForbidden
			}
			lockedStatus := payroll.StatusLocked
			guardErr := payroll.NewGuardError(kind, payroll.ActionCalculate, period, &lockedStatus)
			guardErr.LockedCount = locked
			return payroll.BulkCalculateResponse{}, guardErr
		}
	}

	ids, err := s.employeeRepo.GetActiveIDs(ctx)
	if err != nil {
		return payroll.BulkCalculateResponse{}, fmt.Errorf("failed to get active employees: %w", err)
	}

	result := payroll.BulkCalculateResponse{
		PeriodMonth: req.Month,
		PeriodYear:  req.Year,
		Total:       len(ids),
		Errors:      []payroll.BulkItemError{},
	}

	for _, id := range ids {
		res, err := s.Calculate(ctx, payroll.CalculateRequest{
			Key:        payroll.Key{EmployeeID: id, Month: req.Month, Year: req.Year},
			Force:      req.Force,
			DraftsOnly: req.DraftsOnly,
		}, caller)

		outcome := classifyOutcome(err)
		switch outcome {
		case payroll.BulkOutcomeSuccess:
			result.Success++
			if res.Forced {
				result.Forced = true
			}
			continue
		case payroll.BulkOutcomeSkipped:
			result.Skipped++
		default:
			result.Error++
			s.logger.ErrorContext(ctx, "payroll calculation failed",
				slog.String("employee_id", id),
				slog.Int("month", req.Month),
				slog.Int("year", req.Year),
				slog.Any("error", err),
			)
		}

		result.Errors = append(result.Errors, payroll.BulkItemError{
			EmployeeID: id,
			Outcome:    outcome,
			Code:       errorCode(err),
			Reason:     err.Error(),
		})
	}

	s.logger.InfoContext(ctx, "bulk payroll calculation finished",
		slog.Int("month", req.Month),
		slog.Int("year", req.Year),
		slog.Int("total", result.Total),
		slog.Int("success", result.Success),
		slog.Int("skipped", result.Skipped),
		slog.Int("error", result.Error),
		slog.Bool("forced", result.Forced),
		slog.String("by", caller.Username),
	)

	return result, nil
}

// classifyOutcome treats guard rejections on a locked record, and confirmed
// records left alone by a drafts-only run, as skips. Everything else is an
// error.
func classifyOutcome(err error) payroll.BulkOutcome {
	if err == nil {
		return payroll.BulkOutcomeSuccess
	}

	var guardErr *payroll.GuardError
	if !errors.As(err, &guardErr) || guardErr.Status == nil {
		return payroll.BulkOutcomeError
	}
	switch *guardErr.Status {
	case payroll.StatusLocked:
		if errors.Is(err, payroll.ErrNeedsConfirmation) || errors.Is(err, payroll.ErrForbidden) {
			return payroll.BulkOutcomeSkipped
		}
	case payroll.StatusConfirmed:
		if errors.Is(err, payroll.ErrInvalidTransition) {
			return payroll.BulkOutcomeSkipped
		}
	}
	return payroll.BulkOutcomeError
}

func errorCode(err error) string {
	if errors.Is(err, employee.ErrEmployeeNotFound) {
		return "NOT_FOUND"
	}
	return payroll.ErrorCode(err)
}

// ========== WORKFLOW ==========

// transition loads the record under lock, applies fn and persists the result.
func (s *PayrollServiceImpl) transition(ctx context.Context, key payroll.Key, fn func(record *payroll.PayrollRecord) error) (payroll.PayrollRecordResponse, error) {
	var result payroll.PayrollRecordResponse
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		record, err := s.payrollRepo.GetByKeyForUpdate(ctx, key)
		if err != nil {
			return err
		}

		if err := fn(&record); err != nil {
			return err
		}

		saved, err := s.payrollRepo.UpdateWorkflow(ctx, record)
		if err != nil {
			return err
		}
		result = payroll.ToResponse(saved)
		return nil
	})
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	return result, nil
}

func (s *PayrollServiceImpl) Confirm(ctx context.Context, key payroll.Key, caller user.Caller) (payroll.PayrollRecordResponse, error) {
	if err := key.Validate(); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	if !caller.Can(user.PermissionPayrollConfirm) {
		return payroll.PayrollRecordResponse{}, payroll.NewGuardError(payroll.ErrForbidden, payroll.ActionConfirm, key, nil)
	}

	return s.transition(ctx, key, func(record *payroll.PayrollRecord) error {
		decision, err := payroll.CanConfirm(record.Status, caller.Role)
		if err != nil {
			return payroll.NewGuardError(err, payroll.ActionConfirm, key, &record.Status)
		}

		now := s.now()
		record.Status = decision.Next
		record.ConfirmedBy = &caller.Username
		record.ConfirmedAt = &now
		return nil
	})
}

func (s *PayrollServiceImpl) Lock(ctx context.Context, req payroll.LockRequest, caller user.Caller) (payroll.PayrollRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	if !caller.Can(user.PermissionPayrollLock) {
		return payroll.PayrollRecordResponse{}, payroll.NewGuardError(payroll.ErrForbidden, payroll.ActionLock, req.Key, nil)
	}

	return s.transition(ctx, req.Key, func(record *payroll.PayrollRecord) error {
		decision, err := payroll.CanLock(record.Status, caller.Role)
		if err != nil {
			return payroll.NewGuardError(err, payroll.ActionLock, req.Key, &record.Status)
		}

		now := s.now()
		record.Status = decision.Next
		record.LockedBy = &caller.Username
		record.LockedAt = &now
		record.Note = payroll.AppendNote(record.Note, now, payroll.ActionLock, caller.Username, req.Note)
		return nil
	})
}

func (s *PayrollServiceImpl) Unlock(ctx context.Context, req payroll.UnlockRequest, caller user.Caller) (payroll.PayrollRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	// Role and reason are checked before the record is read.
	if _, err := payroll.CanUnlock(payroll.StatusLocked, caller.Role, req.Reason); err != nil {
		return payroll.PayrollRecordResponse{}, payroll.NewGuardError(err, payroll.ActionUnlock, req.Key, nil)
	}

	return s.transition(ctx, req.Key, func(record *payroll.PayrollRecord) error {
		decision, err := payroll.CanUnlock(record.Status, caller.Role, req.Reason)
		if err != nil {
			return payroll.NewGuardError(err, payroll.ActionUnlock, req.Key, &record.Status)
		}

		now := s.now()
		record.Status = decision.Next
		record.LockedBy = nil
		record.LockedAt = nil
		record.ConfirmedBy = nil
		record.ConfirmedAt = nil
		record.Note = payroll.AppendNote(record.Note, now, payroll.ActionUnlock, caller.Username, req.Reason)
		return nil
	})
}

func (s *PayrollServiceImpl) Delete(ctx context.Context, key payroll.Key, caller user.Caller) error {
	if err := key.Validate(); err != nil {
		return err
	}
	if !caller.Can(user.PermissionPayrollDelete) {
		return payroll.NewGuardError(payroll.ErrForbidden, payroll.ActionDelete, key, nil)
	}

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		record, err := s.payrollRepo.GetByKeyForUpdate(ctx, key)
		if err != nil {
			return err
		}

		if err := payroll.CanDelete(record.Status, caller.Role); err != nil {
			return payroll.NewGuardError(err, payroll.ActionDelete, key, &record.Status)
		}

		return s.payrollRepo.Delete(ctx, key)
	})
}

// ========== QUERIES ==========

func (s *PayrollServiceImpl) Get(ctx context.Context, key payroll.Key, caller user.Caller) (payroll.PayrollRecordResponse, error) {
	if err := key.Validate(); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	if !caller.Can(user.PermissionPayrollView) {
		return payroll.PayrollRecordResponse{}, payroll.ErrForbidden
	}

	record, err := s.payrollRepo.GetByKey(ctx, key)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	return payroll.ToResponse(record), nil
}

func (s *PayrollServiceImpl) List(ctx context.Context, filter payroll.PayrollFilter, caller user.Caller) (payroll.ListPayrollRecordResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.ListPayrollRecordResponse{}, err
	}
	if !caller.Can(user.PermissionPayrollView) {
		return payroll.ListPayrollRecordResponse{}, payroll.ErrForbidden
	}

	records, total, err := s.payrollRepo.List(ctx, filter)
	if err != nil {
		return payroll.ListPayrollRecordResponse{}, err
	}

	data := make([]payroll.PayrollRecordResponse, 0, len(records))
	for _, r := range records {
		data = append(data, payroll.ToResponse(r))
	}

	return payroll.ListPayrollRecordResponse{
		Data:       data,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (s *PayrollServiceImpl) Payslip(ctx context.Context, key payroll.Key, caller user.Caller) ([]byte, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	if !caller.Can(user.PermissionPayrollView) {
		return nil, payroll.NewGuardError(payroll.ErrForbidden, payroll.ActionPayslip, key, nil)
	}

	record, err := s.payrollRepo.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := payroll.CanRenderPayslip(record.Status, caller.Role); err != nil {
		return nil, payroll.NewGuardError(err, payroll.ActionPayslip, key, &record.Status)
	}

	return s.payslips.Render(payslip.Payslip{
		EmployeeName:   deref(record.EmployeeName),
		EmployeeCode:   deref(record.EmployeeCode),
		DepartmentName: deref(record.DepartmentName),
		Month:          record.PeriodMonth,
		Year:           record.PeriodYear,
		TotalHours:     record.TotalHours,
		BaseSalary:     record.BaseSalaryAtCalculation,
		OvertimePay:    record.OvertimePay,
		NetPay:         record.NetPay,
		Status:         string(record.Status),
		CalculatedAt:   record.CalculatedAt,
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
