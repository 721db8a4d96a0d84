package attendance

import "time"

// Attendance is a single clock-in/clock-out session in the attendance ledger.
type Attendance struct {
	ID                 string
	EmployeeID         string
	Date               time.Time
	ClockIn            *time.Time
	ClockOut           *time.Time
	WorkHoursInMinutes *int
	Status             Status
}

type Status string

const (
	StatusOnTime          Status = "on_time"
	StatusLate            Status = "late"
	StatusWaitingApproval Status = "waiting_approval"
	StatusRejected        Status = "rejected"
	StatusAbsent          Status = "absent"
	StatusLeave           Status = "leave"
)

// CountsTowardHours reports whether the session's minutes are paid time.
func (s Status) CountsTowardHours() bool {
	switch s {
	case StatusOnTime, StatusLate, StatusWaitingApproval:
		return true
	}
	return false
}

var allStatuses = []Status{
	StatusOnTime,
	StatusLate,
	StatusWaitingApproval,
	StatusRejected,
	StatusAbsent,
	StatusLeave,
}

// PayableStatuses lists statuses whose minutes are summed into monthly hours.
func PayableStatuses() []string {
	var out []string
	for _, s := range allStatuses {
		if s.CountsTowardHours() {
			out = append(out, string(s))
		}
	}
	return out
}
