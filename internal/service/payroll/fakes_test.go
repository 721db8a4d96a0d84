package payroll

import (
	"context"
	"errors"
	"sort"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

type fakeTransactor struct {
	calls int
}

func (f *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakePayrollRepo struct {
	records   map[payroll.Key]payroll.PayrollRecord
	upsertErr map[string]error
	countErr  error
	// unseen hides records from reads, as if written after the read.
	unseen map[payroll.Key]bool

	upserts int
	updates int
	deletes int
}

func newFakePayrollRepo() *fakePayrollRepo {
	return &fakePayrollRepo{
		records:   map[payroll.Key]payroll.PayrollRecord{},
		upsertErr: map[string]error{},
		unseen:    map[payroll.Key]bool{},
	}
}

func (f *fakePayrollRepo) put(r payroll.PayrollRecord) {
	if r.ID == "" {
		r.ID = "rec-" + r.EmployeeID
	}
	f.records[r.Key()] = r
}

func (f *fakePayrollRepo) GetByKey(ctx context.Context, key payroll.Key) (payroll.PayrollRecord, error) {
	r, ok := f.records[key]
	if !ok {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	return r, nil
}

func (f *fakePayrollRepo) GetByKeyForUpdate(ctx context.Context, key payroll.Key) (payroll.PayrollRecord, error) {
	if f.unseen[key] {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	return f.GetByKey(ctx, key)
}

func (f *fakePayrollRepo) Upsert(ctx context.Context, record payroll.PayrollRecord, overwriteLocked bool) (payroll.PayrollRecord, error) {
	if err := f.upsertErr[record.EmployeeID]; err != nil {
		return payroll.PayrollRecord{}, err
	}

	if existing, ok := f.records[record.Key()]; ok && existing.Status == payroll.StatusLocked && !overwriteLocked {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordLocked
	}
	f.upserts++

	if existing, ok := f.records[record.Key()]; ok {
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
	}
	record.ConfirmedBy, record.ConfirmedAt = nil, nil
	record.LockedBy, record.LockedAt = nil, nil
	f.put(record)
	return f.records[record.Key()], nil
}

func (f *fakePayrollRepo) UpdateWorkflow(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	if _, ok := f.records[record.Key()]; !ok {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	f.updates++
	f.records[record.Key()] = record
	return record, nil
}

func (f *fakePayrollRepo) Delete(ctx context.Context, key payroll.Key) error {
	if _, ok := f.records[key]; !ok {
		return payroll.ErrPayrollRecordNotFound
	}
	f.deletes++
	delete(f.records, key)
	return nil
}

func (f *fakePayrollRepo) CountByStatus(ctx context.Context, month, year int, status payroll.Status) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	n := 0
	for k, r := range f.records {
		if k.Month == month && k.Year == year && r.Status == status {
			n++
		}
	}
	return n, nil
}

func (f *fakePayrollRepo) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, int64, error) {
	var out []payroll.PayrollRecord
	for _, r := range f.records {
		if filter.Status != nil && string(r.Status) != *filter.Status {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, int64(len(out)), nil
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
	listErr   error
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployeeRepo) GetActiveIDs(ctx context.Context) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var ids []string
	for id, e := range f.employees {
		if e.IsActive() {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

type fakeHours struct {
	hours map[string]decimal.Decimal
	errs  map[string]error
	calls int
}

func (f *fakeHours) GetTotalHours(ctx context.Context, employeeID string, month, year int) (decimal.Decimal, error) {
	f.calls++
	if err := f.errs[employeeID]; err != nil {
		return decimal.Zero, err
	}
	if h, ok := f.hours[employeeID]; ok {
		return h, nil
	}
	return decimal.Zero, nil
}

var errStoreDown = errors.New("store unavailable")
