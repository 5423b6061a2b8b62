package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/domain/user"
)

// AttendanceService defines the clock-in/out lifecycle and approval handoff.
// employeeRef is either an employee id or an employee code.
type AttendanceService interface {
	// ClockIn opens today's row if needed and ensures one running segment.
	ClockIn(ctx context.Context, employeeRef string) (AttendanceResponse, error)

	// Pause closes the running segment; no-op when paused.
	Pause(ctx context.Context, employeeRef string) (AttendanceResponse, error)

	// Resume opens a new segment; no-op when running.
	Resume(ctx context.Context, employeeRef string) (AttendanceResponse, error)

	// ClockOut closes the day, recomputes hours and auto-submits to the manager.
	ClockOut(ctx context.Context, employeeRef string) (ClockOutResponse, error)

	SubmitForApproval(ctx context.Context, employeeRef string, req SubmitForApprovalRequest) (AttendanceResponse, error)

	Approve(ctx context.Context, requester user.Requester, attendanceID string) (AttendanceResponse, error)
	Reject(ctx context.Context, requester user.Requester, attendanceID string) (AttendanceResponse, error)

	GetToday(ctx context.Context, employeeRef string) (TodayResponse, error)
	ListForEmployee(ctx context.Context, employeeRef string) (ListAttendanceResponse, error)
	ListPendingApprovals(ctx context.Context, approverUserID string) (ListAttendanceResponse, error)
	ListApproved(ctx context.Context, requester user.Requester) (ListAttendanceResponse, error)

	// CloseStaleSessions ends segments left running on earlier days whose start
	// is older than olderThan. It returns the number of rows closed.
	CloseStaleSessions(ctx context.Context, olderThan time.Duration) (int, error)
}
