package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusNone      Status = "none"
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// SessionState is derived from the day's row and its segments, never stored.
type SessionState string

const (
	SessionNotStarted SessionState = "not_started"
	SessionRunning    SessionState = "running"
	SessionPaused     SessionState = "paused"
	SessionClosed     SessionState = "closed"
)

type Attendance struct {
	ID          string
	EmployeeID  string
	WorkDate    time.Time
	ClockIn     *time.Time
	ClockOut    *time.Time
	TotalHours  decimal.Decimal
	Status      Status
	ApproverID  *string
	SubmittedAt *time.Time
	ApprovedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Timestamps []Timestamp

	// DTO
	EmployeeCode *string
	EmployeeName *string
}

// Timestamp is one work segment. A nil EndTime means the segment is running.
type Timestamp struct {
	ID           string
	AttendanceID string
	StartTime    time.Time
	EndTime      *time.Time
	CreatedAt    time.Time
}

func (t Timestamp) IsOpen() bool {
	return t.EndTime == nil
}

// OpenTimestamp returns the running segment, or nil.
func (a Attendance) OpenTimestamp() *Timestamp {
	for i := range a.Timestamps {
		if a.Timestamps[i].IsOpen() {
			return &a.Timestamps[i]
		}
	}
	return nil
}

func (a Attendance) SessionState() SessionState {
	switch {
	case a.ClockIn == nil:
		return SessionNotStarted
	case a.ClockOut != nil && a.OpenTimestamp() == nil:
		return SessionClosed
	case a.OpenTimestamp() != nil:
		return SessionRunning
	default:
		return SessionPaused
	}
}

// TotalHours sums closed segments in hours, rounded to 2 decimals. Segments
// with an end before their start count as zero.
func TotalHours(timestamps []Timestamp) decimal.Decimal {
	var total time.Duration
	for _, ts := range timestamps {
		if ts.EndTime == nil {
			continue
		}
		if d := ts.EndTime.Sub(ts.StartTime); d > 0 {
			total += d
		}
	}
	return decimal.NewFromInt(int64(total)).
		Div(decimal.NewFromInt(int64(time.Hour))).
		Round(2)
}

// WorkDate normalizes t to midnight of its calendar day in loc.
func WorkDate(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
