package leave

import "time"

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending  LeaveRequestStatus = "pending"
	LeaveRequestStatusApproved LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected LeaveRequestStatus = "rejected"
)

// LeaveRequest as owned by the leave subsystem. StartDate and EndDate are
// calendar days, both inclusive.
type LeaveRequest struct {
	ID         string
	EmployeeID string
	Type       string
	StartDate  time.Time
	EndDate    time.Time
	Status     LeaveRequestStatus
	Reason     *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
