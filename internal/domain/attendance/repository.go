package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance rows.
// Rows are returned without their timestamps; see TimestampRepository.
type AttendanceRepository interface {
	// EnsureForDay inserts a row for (EmployeeID, WorkDate) unless one exists
	// and returns the stored row. Concurrent callers observe the same row.
	EnsureForDay(ctx context.Context, attendance Attendance) (Attendance, error)

	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (Attendance, error)

	// GetByEmployeeAndDate returns ErrAttendanceNotFound when there is no row.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, workDate time.Time) (Attendance, error)

	// LockByEmployeeAndDate is GetByEmployeeAndDate with a row lock.
	LockByEmployeeAndDate(ctx context.Context, employeeID string, workDate time.Time) (Attendance, error)

	// SetClockIn sets clock_in only if it is still null.
	SetClockIn(ctx context.Context, id string, clockIn time.Time) error

	// Update writes clock-out, hours and approval fields.
	Update(ctx context.Context, attendance Attendance) error

	// ListByEmployee returns rows newest work date first.
	ListByEmployee(ctx context.Context, employeeID string) ([]Attendance, error)

	// ListByEmployeeInRange returns rows with from <= work_date <= to, oldest first.
	ListByEmployeeInRange(ctx context.Context, employeeID string, from, to time.Time) ([]Attendance, error)

	ListByApproverAndStatus(ctx context.Context, approverUserID string, status Status) ([]Attendance, error)

	ListByStatusInScope(ctx context.Context, status Status, scope Scope) ([]Attendance, error)

	// ListWithOpenTimestampBefore finds rows for days before workDate that still
	// have a running segment.
	ListWithOpenTimestampBefore(ctx context.Context, workDate time.Time) ([]Attendance, error)
}

// TimestampRepository stores work segments.
type TimestampRepository interface {
	// OpenIfNone inserts ts as the running segment. When another segment is
	// already running it returns that one and created=false.
	OpenIfNone(ctx context.Context, ts Timestamp) (open Timestamp, created bool, err error)

	// CloseOpen ends the running segment of attendanceID, if any, and reports
	// whether one was closed.
	CloseOpen(ctx context.Context, attendanceID string, endTime time.Time) (bool, error)

	ListByAttendance(ctx context.Context, attendanceID string) ([]Timestamp, error)

	// ListByAttendanceIDs groups segments by attendance id, oldest start first.
	ListByAttendanceIDs(ctx context.Context, attendanceIDs []string) (map[string][]Timestamp, error)
}
