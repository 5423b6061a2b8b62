package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/pkg/validator"
	"github.com/google/uuid"
)

type AttendanceServiceImpl struct {
	tx          database.Transactor
	attendances attendance.AttendanceRepository
	timestamps  attendance.TimestampRepository
	employees   employee.EmployeeRepository
	loc         *time.Location
	now         func() time.Time
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	timestampRepo attendance.TimestampRepository,
	employeeRepo employee.EmployeeRepository,
	loc *time.Location,
) attendance.AttendanceService {
	return newService(tx, attendanceRepo, timestampRepo, employeeRepo, loc, time.Now)
}

func newService(
	tx database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	timestampRepo attendance.TimestampRepository,
	employeeRepo employee.EmployeeRepository,
	loc *time.Location,
	now func() time.Time,
) *AttendanceServiceImpl {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceServiceImpl{
		tx:          tx,
		attendances: attendanceRepo,
		timestamps:  timestampRepo,
		employees:   employeeRepo,
		loc:         loc,
		now:         now,
	}
}

// clock returns the current instant and today's work date in the business timezone.
func (s *AttendanceServiceImpl) clock() (time.Time, time.Time) {
	now := s.now().In(s.loc).Truncate(time.Microsecond)
	return now, attendance.WorkDate(now, s.loc)
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// ClockIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockIn(ctx context.Context, employeeRef string) (attendance.AttendanceResponse, error) {
	emp, err := employee.Resolve(ctx, s.employees, employeeRef)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	now, workDate := s.clock()

	var result attendance.Attendance
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		row, err := s.attendances.EnsureForDay(ctx, attendance.Attendance{
			ID:         newID(),
			EmployeeID: emp.ID,
			WorkDate:   workDate,
			Status:     attendance.StatusNone,
		})
		if err != nil {
			return fmt.Errorf("failed to find or create attendance: %w", err)
		}

		if row.ClockIn == nil {
			if err := s.attendances.SetClockIn(ctx, row.ID, now); err != nil {
				return fmt.Errorf("failed to set clock in: %w", err)
			}
			row.ClockIn = &now
		}
		if err := s.withdrawSubmission(ctx, row); err != nil {
			return err
		}

		if _, _, err := s.timestamps.OpenIfNone(ctx, attendance.Timestamp{
			ID:           newID(),
			AttendanceID: row.ID,
			StartTime:    now,
		}); err != nil {
			return fmt.Errorf("failed to open timestamp: %w", err)
		}

		result, err = s.load(ctx, row.ID)
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return attendance.ToResponse(result), nil
}

// Pause implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Pause(ctx context.Context, employeeRef string) (attendance.AttendanceResponse, error) {
	return s.withToday(ctx, employeeRef, func(ctx context.Context, row attendance.Attendance, now time.Time) error {
		if _, err := s.timestamps.CloseOpen(ctx, row.ID, now); err != nil {
			return fmt.Errorf("failed to close timestamp: %w", err)
		}
		return nil
	})
}

// Resume implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Resume(ctx context.Context, employeeRef string) (attendance.AttendanceResponse, error) {
	return s.withToday(ctx, employeeRef, func(ctx context.Context, row attendance.Attendance, now time.Time) error {
		if err := s.withdrawSubmission(ctx, row); err != nil {
			return err
		}
		if _, _, err := s.timestamps.OpenIfNone(ctx, attendance.Timestamp{
			ID:           newID(),
			AttendanceID: row.ID,
			StartTime:    now,
		}); err != nil {
			return fmt.Errorf("failed to open timestamp: %w", err)
		}
		return nil
	})
}

// withdrawSubmission puts a submitted day back to none before a new segment
// opens, so a day with running work can't be approved. Clocking out submits
// it again.
func (s *AttendanceServiceImpl) withdrawSubmission(ctx context.Context, row attendance.Attendance) error {
	if row.Status != attendance.StatusSubmitted {
		return nil
	}
	row.Status = attendance.StatusNone
	row.SubmittedAt = nil
	if err := s.attendances.Update(ctx, row); err != nil {
		return fmt.Errorf("failed to withdraw submission: %w", err)
	}
	return nil
}

// ClockOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockOut(ctx context.Context, employeeRef string) (attendance.ClockOutResponse, error) {
	emp, err := employee.Resolve(ctx, s.employees, employeeRef)
	if err != nil {
		return attendance.ClockOutResponse{}, err
	}
	now, workDate := s.clock()

	var (
		result    attendance.Attendance
		managerID *string
	)
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		row, err := s.lockToday(ctx, emp.ID, workDate)
		if err != nil {
			return err
		}

		if _, err := s.timestamps.CloseOpen(ctx, row.ID, now); err != nil {
			return fmt.Errorf("failed to close timestamp: %w", err)
		}
		timestamps, err := s.timestamps.ListByAttendance(ctx, row.ID)
		if err != nil {
			return fmt.Errorf("failed to list timestamps: %w", err)
		}

		row.ClockOut = &now
		row.TotalHours = attendance.TotalHours(timestamps)

		manager, err := s.employees.GetManager(ctx, emp.ID)
		switch {
		case errors.Is(err, employee.ErrManagerNotFound):
		case err != nil:
			return fmt.Errorf("failed to get manager: %w", err)
		default:
			managerID = &manager.UserID
			// An approved day keeps its approval when the employee clocks out again.
			if row.Status != attendance.StatusApproved {
				row.ApproverID = &manager.UserID
				row.Status = attendance.StatusSubmitted
				row.SubmittedAt = &now
				row.ApprovedAt = nil
			}
		}

		if err := s.attendances.Update(ctx, row); err != nil {
			return fmt.Errorf("failed to update attendance: %w", err)
		}

		result, err = s.load(ctx, row.ID)
		return err
	})
	if err != nil {
		return attendance.ClockOutResponse{}, err
	}

	return attendance.ClockOutResponse{
		Attendance: attendance.ToResponse(result),
		HasManager: managerID != nil,
		ManagerID:  managerID,
	}, nil
}

// SubmitForApproval implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) SubmitForApproval(ctx context.Context, employeeRef string, req attendance.SubmitForApprovalRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return s.withToday(ctx, employeeRef, func(ctx context.Context, row attendance.Attendance, now time.Time) error {
		if row.Status == attendance.StatusApproved {
			return attendance.ErrAlreadyApproved
		}
		approverID := req.ApproverID
		row.ApproverID = &approverID
		row.Status = attendance.StatusSubmitted
		row.SubmittedAt = &now
		row.ApprovedAt = nil

		if err := s.attendances.Update(ctx, row); err != nil {
			return fmt.Errorf("failed to submit attendance: %w", err)
		}
		return nil
	})
}

// Approve implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Approve(ctx context.Context, requester user.Requester, attendanceID string) (attendance.AttendanceResponse, error) {
	return s.review(ctx, requester, attendanceID, attendance.StatusApproved)
}

// Reject implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Reject(ctx context.Context, requester user.Requester, attendanceID string) (attendance.AttendanceResponse, error) {
	return s.review(ctx, requester, attendanceID, attendance.StatusRejected)
}

func (s *AttendanceServiceImpl) review(ctx context.Context, requester user.Requester, attendanceID string, decision attendance.Status) (attendance.AttendanceResponse, error) {
	req := attendance.ReviewRequest{AttendanceID: attendanceID}
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	now, _ := s.clock()

	var result attendance.Attendance
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		row, err := s.attendances.GetByIDForUpdate(ctx, attendanceID)
		if err != nil {
			return err
		}

		if !requester.IsAdmin() && (row.ApproverID == nil || *row.ApproverID != requester.UserID) {
			return attendance.ErrNotDesignatedApprover
		}
		if row.Status != attendance.StatusSubmitted {
			return attendance.ErrAttendanceNotSubmitted
		}

		row.Status = decision
		if decision == attendance.StatusApproved {
			row.ApprovedAt = &now
		} else {
			row.ApprovedAt = nil
		}

		if err := s.attendances.Update(ctx, row); err != nil {
			return fmt.Errorf("failed to update attendance status: %w", err)
		}

		result, err = s.load(ctx, row.ID)
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("Attendance reviewed",
		"attendance_id", result.ID,
		"status", result.Status,
		"reviewer_id", requester.UserID)

	return attendance.ToResponse(result), nil
}

// GetToday implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetToday(ctx context.Context, employeeRef string) (attendance.TodayResponse, error) {
	emp, err := employee.Resolve(ctx, s.employees, employeeRef)
	if err != nil {
		return attendance.TodayResponse{}, err
	}
	_, workDate := s.clock()

	response := attendance.TodayResponse{
		WorkDate:     workDate.Format(time.DateOnly),
		SessionState: attendance.SessionNotStarted,
	}

	row, err := s.attendances.GetByEmployeeAndDate(ctx, emp.ID, workDate)
	if errors.Is(err, attendance.ErrAttendanceNotFound) {
		return response, nil
	}
	if err != nil {
		return attendance.TodayResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	rows, err := s.withTimestamps(ctx, []attendance.Attendance{row})
	if err != nil {
		return attendance.TodayResponse{}, err
	}

	resp := attendance.ToResponse(rows[0])
	response.SessionState = resp.SessionState
	response.Attendance = &resp
	return response, nil
}

// ListForEmployee implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListForEmployee(ctx context.Context, employeeRef string) (attendance.ListAttendanceResponse, error) {
	emp, err := employee.Resolve(ctx, s.employees, employeeRef)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	rows, err := s.attendances.ListByEmployee(ctx, emp.ID)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}
	return s.toList(ctx, rows)
}

// ListPendingApprovals implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListPendingApprovals(ctx context.Context, approverUserID string) (attendance.ListAttendanceResponse, error) {
	if !validator.IsValidUUID(approverUserID) {
		return attendance.ListAttendanceResponse{}, validator.ValidationErrors{
			{Field: "approver_id", Message: "approver_id must be a valid UUID"},
		}
	}

	rows, err := s.attendances.ListByApproverAndStatus(ctx, approverUserID, attendance.StatusSubmitted)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list pending approvals: %w", err)
	}
	return s.toList(ctx, rows)
}

// ListApproved implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListApproved(ctx context.Context, requester user.Requester) (attendance.ListAttendanceResponse, error) {
	scope, err := attendance.ScopeFor(requester)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	rows, err := s.attendances.ListByStatusInScope(ctx, attendance.StatusApproved, scope)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list approved attendance: %w", err)
	}
	return s.toList(ctx, rows)
}

// CloseStaleSessions implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CloseStaleSessions(ctx context.Context, olderThan time.Duration) (int, error) {
	now, today := s.clock()
	cutoff := now.Add(-olderThan)

	rows, err := s.attendances.ListWithOpenTimestampBefore(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("failed to get stale sessions: %w", err)
	}
	rows, err = s.withTimestamps(ctx, rows)
	if err != nil {
		return 0, err
	}

	closed := 0
	for _, row := range rows {
		open := row.OpenTimestamp()
		if open == nil || open.StartTime.After(cutoff) {
			continue
		}

		// The segment ends with its work day.
		workDate := row.WorkDate
		endOfDay := time.Date(workDate.Year(), workDate.Month(), workDate.Day(), 23, 59, 59, 0, s.loc)
		if endOfDay.Before(open.StartTime) {
			endOfDay = open.StartTime
		}

		var didClose bool
		err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
			locked, err := s.attendances.GetByIDForUpdate(ctx, row.ID)
			if err != nil {
				return err
			}
			// Another request may have closed it since the scan.
			didClose, err = s.timestamps.CloseOpen(ctx, locked.ID, endOfDay)
			if err != nil || !didClose {
				return err
			}
			timestamps, err := s.timestamps.ListByAttendance(ctx, locked.ID)
			if err != nil {
				return err
			}
			locked.TotalHours = attendance.TotalHours(timestamps)
			locked.ClockOut = &endOfDay
			return s.attendances.Update(ctx, locked)
		})
		if err != nil {
			slog.Error("Failed to close stale attendance session",
				"attendance_id", row.ID,
				"employee_id", row.EmployeeID,
				"error", err)
			continue
		}
		if didClose {
			closed++
		}
	}

	return closed, nil
}

// withToday resolves the employee, locks today's row and runs fn in one
// transaction, then returns the reloaded row.
func (s *AttendanceServiceImpl) withToday(ctx context.Context, employeeRef string, fn func(ctx context.Context, row attendance.Attendance, now time.Time) error) (attendance.AttendanceResponse, error) {
	emp, err := employee.Resolve(ctx, s.employees, employeeRef)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	now, workDate := s.clock()

	var result attendance.Attendance
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		row, err := s.lockToday(ctx, emp.ID, workDate)
		if err != nil {
			return err
		}
		if err := fn(ctx, row, now); err != nil {
			return err
		}
		result, err = s.load(ctx, row.ID)
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return attendance.ToResponse(result), nil
}

func (s *AttendanceServiceImpl) lockToday(ctx context.Context, employeeID string, workDate time.Time) (attendance.Attendance, error) {
	row, err := s.attendances.LockByEmployeeAndDate(ctx, employeeID, workDate)
	if errors.Is(err, attendance.ErrAttendanceNotFound) {
		return attendance.Attendance{}, attendance.ErrNoActiveAttendance
	}
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	return row, nil
}

// load reads a row together with its segments.
func (s *AttendanceServiceImpl) load(ctx context.Context, id string) (attendance.Attendance, error) {
	row, err := s.attendances.GetByID(ctx, id)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to reload attendance: %w", err)
	}
	row.Timestamps, err = s.timestamps.ListByAttendance(ctx, id)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to list timestamps: %w", err)
	}
	return row, nil
}

func (s *AttendanceServiceImpl) withTimestamps(ctx context.Context, rows []attendance.Attendance) ([]attendance.Attendance, error) {
	if len(rows) == 0 {
		return rows, nil
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}

	grouped, err := s.timestamps.ListByAttendanceIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list timestamps: %w", err)
	}
	for i := range rows {
		rows[i].Timestamps = grouped[rows[i].ID]
	}
	return rows, nil
}

func (s *AttendanceServiceImpl) toList(ctx context.Context, rows []attendance.Attendance) (attendance.ListAttendanceResponse, error) {
	rows, err := s.withTimestamps(ctx, rows)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	return attendance.ToListResponse(rows), nil
}
