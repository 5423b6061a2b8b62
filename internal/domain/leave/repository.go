package leave

import (
	"context"
	"time"
)

// LeaveRequestRepository - read access to leave_requests for payroll
type LeaveRequestRepository interface {
	// ListByEmployeeStatusInRange returns requests with the given status whose
	// [start_date, end_date] overlaps [from, to].
	ListByEmployeeStatusInRange(ctx context.Context, employeeID string, status LeaveRequestStatus, from, to time.Time) ([]LeaveRequest, error)
}
