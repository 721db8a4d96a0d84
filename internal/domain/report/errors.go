package report

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid report request")
	ErrAccessDenied   = errors.New("role is not permitted to view payroll reports")
)
