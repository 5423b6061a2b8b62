package attendance

import (
	"time"

	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// REQUEST DTOs
// ========================================

type SubmitForApprovalRequest struct {
	ApproverID string `json:"approver_id" validate:"required,uuid"`
}

func (r *SubmitForApprovalRequest) Validate() error {
	return validator.Struct(r)
}

type ReviewRequest struct {
	AttendanceID string `json:"-" validate:"required,uuid"`
}

func (r *ReviewRequest) Validate() error {
	return validator.Struct(r)
}

// ========================================
// RESPONSE DTOs
// ========================================

type TimestampResponse struct {
	ID        string  `json:"id"`
	StartTime string  `json:"start_time"`
	EndTime   *string `json:"end_time"`
}

type AttendanceResponse struct {
	ID           string              `json:"id"`
	EmployeeID   string              `json:"employee_id"`
	EmployeeCode *string             `json:"employee_code,omitempty"`
	EmployeeName *string             `json:"employee_name,omitempty"`
	WorkDate     string              `json:"work_date"`
	ClockIn      *string             `json:"clock_in"`
	ClockOut     *string             `json:"clock_out"`
	TotalHours   decimal.Decimal     `json:"total_hours"`
	Status       Status              `json:"status"`
	SessionState SessionState        `json:"session_state"`
	ApproverID   *string             `json:"approver_id"`
	SubmittedAt  *string             `json:"submitted_at"`
	ApprovedAt   *string             `json:"approved_at"`
	Timestamps   []TimestampResponse `json:"timestamps"`
}

type ClockOutResponse struct {
	Attendance AttendanceResponse `json:"attendance"`
	HasManager bool               `json:"has_manager"`
	ManagerID  *string            `json:"manager_id"`
}

// TodayResponse is returned for the current day. Attendance is nil before the
// first clock-in.
type TodayResponse struct {
	WorkDate     string              `json:"work_date"`
	SessionState SessionState        `json:"session_state"`
	Attendance   *AttendanceResponse `json:"attendance"`
}

type ListAttendanceResponse struct {
	Attendances []AttendanceResponse `json:"attendances"`
	Total       int                  `json:"total"`
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

// ToResponse converts an attendance row with its segments into the API shape.
func ToResponse(a Attendance) AttendanceResponse {
	timestamps := make([]TimestampResponse, 0, len(a.Timestamps))
	for _, ts := range a.Timestamps {
		timestamps = append(timestamps, TimestampResponse{
			ID:        ts.ID,
			StartTime: ts.StartTime.Format(time.RFC3339),
			EndTime:   formatTime(ts.EndTime),
		})
	}

	status := a.Status
	if status == "" {
		status = StatusNone
	}

	return AttendanceResponse{
		ID:           a.ID,
		EmployeeID:   a.EmployeeID,
		EmployeeCode: a.EmployeeCode,
		EmployeeName: a.EmployeeName,
		WorkDate:     a.WorkDate.Format(time.DateOnly),
		ClockIn:      formatTime(a.ClockIn),
		ClockOut:     formatTime(a.ClockOut),
		TotalHours:   a.TotalHours.Round(2),
		Status:       status,
		SessionState: a.SessionState(),
		ApproverID:   a.ApproverID,
		SubmittedAt:  formatTime(a.SubmittedAt),
		ApprovedAt:   formatTime(a.ApprovedAt),
		Timestamps:   timestamps,
	}
}

func ToListResponse(attendances []Attendance) ListAttendanceResponse {
	items := make([]AttendanceResponse, 0, len(attendances))
	for _, a := range attendances {
		items = append(items, ToResponse(a))
	}
	return ListAttendanceResponse{Attendances: items, Total: len(items)}
}
