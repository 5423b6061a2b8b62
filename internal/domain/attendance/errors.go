package attendance

import "errors"

// Attendance domain errors
var (
	ErrNoActiveAttendance = errors.New("no active attendance for today")
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrApproverNotFound   = errors.New("approver user not found")

	// Approval errors
	ErrAttendanceNotSubmitted = errors.New("attendance is not awaiting approval")
	ErrNotDesignatedApprover  = errors.New("only the designated approver or an administrator may review this attendance")
	ErrAlreadyApproved        = errors.New("attendance has already been approved")
)
