package payroll

import (
	"testing"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/user"
	"github.com/stretchr/testify/assert"
)

func statusPtr(s Status) *Status {
	return &s
}

func TestCanCalculate(t *testing.T) {
	tests := []struct {
		name       string
		current    *Status
		role       user.Role
		force      bool
		wantErr    error
		wantForced bool
	}{
		{"new record admin", nil, user.RoleAdmin, false, nil, false},
		{"new record accountant", nil, user.RoleAccountant, false, nil, false},
		{"new record employee", nil, user.RoleEmployee, false, ErrForbidden, false},
		{"draft accountant", statusPtr(StatusDraft), user.RoleAccountant, false, nil, false},
		{"draft employee", statusPtr(StatusDraft), user.RoleEmployee, false, ErrForbidden, false},
		{"confirmed accountant", statusPtr(StatusConfirmed), user.RoleAccountant, false, nil, false},
		{"confirmed admin", statusPtr(StatusConfirmed), user.RoleAdmin, false, nil, false},
		{"confirmed employee", statusPtr(StatusConfirmed), user.RoleEmployee, true, ErrForbidden, false},
		{"locked accountant", statusPtr(StatusLocked), user.RoleAccountant, false, ErrForbidden, false},
		{"locked accountant force", statusPtr(StatusLocked), user.RoleAccountant, true, ErrForbidden, false},
		{"locked admin", statusPtr(StatusLocked), user.RoleAdmin, false, ErrNeedsConfirmation, false},
		{"locked admin force", statusPtr(StatusLocked), user.RoleAdmin, true, nil, true},
		{"draft admin force is not forced", statusPtr(StatusDraft), user.RoleAdmin, true, nil, false},
		{"unknown status", statusPtr(Status("paid")), user.RoleAdmin, false, ErrInvalidTransition, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanCalculate(tt.current, tt.role, tt.force)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, StatusDraft, got.Next)
			assert.Equal(t, tt.wantForced, got.Forced)
		})
	}
}

func TestCanConfirm(t *testing.T) {
	tests := []struct {
		current Status
		role    user.Role
		wantErr error
	}{
		{StatusDraft, user.RoleAdmin, nil},
		{StatusDraft, user.RoleAccountant, nil},
		{StatusDraft, user.RoleEmployee, ErrForbidden},
		{StatusConfirmed, user.RoleAccountant, ErrInvalidTransition},
		{StatusLocked, user.RoleAdmin, ErrInvalidTransition},
	}
	for _, tt := range tests {
		got, err := CanConfirm(tt.current, tt.role)
		if tt.wantErr != nil {
			assert.ErrorIs(t, err, tt.wantErr, "%s/%s", tt.current, tt.role)
			continue
		}
		assert.NoError(t, err)
		assert.Equal(t, StatusConfirmed, got.Next)
	}
}

func TestCanLock(t *testing.T) {
	tests := []struct {
		current Status
		role    user.Role
		wantErr error
	}{
		{StatusDraft, user.RoleAccountant, nil},
		{StatusConfirmed, user.RoleAccountant, nil},
		{StatusConfirmed, user.RoleAdmin, nil},
		{StatusDraft, user.RoleEmployee, ErrForbidden},
		{StatusLocked, user.RoleAdmin, ErrInvalidTransition},
	}
	for _, tt := range tests {
		got, err := CanLock(tt.current, tt.role)
		if tt.wantErr != nil {
			assert.ErrorIs(t, err, tt.wantErr, "%s/%s", tt.current, tt.role)
			continue
		}
		assert.NoError(t, err)
		assert.Equal(t, StatusLocked, got.Next)
	}
}

func TestCanUnlock(t *testing.T) {
	tests := []struct {
		name    string
		current Status
		role    user.Role
		reason  string
		wantErr error
	}{
		{"admin with reason", StatusLocked, user.RoleAdmin, "wrong hours", nil},
		{"accountant is forbidden", StatusLocked, user.RoleAccountant, "wrong hours", ErrForbidden},
		{"role checked before reason", StatusLocked, user.RoleAccountant, "", ErrForbidden},
		{"blank reason", StatusLocked, user.RoleAdmin, "   ", ErrMissingReason},
		{"not locked", StatusConfirmed, user.RoleAdmin, "wrong hours", ErrInvalidTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanUnlock(tt.current, tt.role, tt.reason)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, StatusDraft, got.Next)
		})
	}
}

func TestCanDelete(t *testing.T) {
	assert.NoError(t, CanDelete(StatusDraft, user.RoleAccountant))
	assert.NoError(t, CanDelete(StatusConfirmed, user.RoleAdmin))
	assert.ErrorIs(t, CanDelete(StatusLocked, user.RoleAdmin), ErrDeletionBlocked)
	assert.ErrorIs(t, CanDelete(StatusDraft, user.RoleEmployee), ErrForbidden)
}

func TestCanRenderPayslip(t *testing.T) {
	assert.NoError(t, CanRenderPayslip(StatusConfirmed, user.RoleAccountant))
	assert.NoError(t, CanRenderPayslip(StatusLocked, user.RoleAdmin))
	assert.ErrorIs(t, CanRenderPayslip(StatusDraft, user.RoleAdmin), ErrInvalidTransition)
	assert.ErrorIs(t, CanRenderPayslip(StatusLocked, user.RoleEmployee), ErrForbidden)
}
