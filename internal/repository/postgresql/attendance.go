package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

const attendanceColumns = `
	a.id, a.employee_id, a.work_date, a.clock_in, a.clock_out, a.total_hours,
	a.status, a.approver_id, a.submitted_at, a.approved_at, a.created_at, a.updated_at,
	e.employee_code, e.full_name`

const attendanceFrom = `
	FROM attendances a
	JOIN employees e ON e.id = a.employee_id`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID, &att.EmployeeID, &att.WorkDate, &att.ClockIn, &att.ClockOut, &att.TotalHours,
		&att.Status, &att.ApproverID, &att.SubmittedAt, &att.ApprovedAt, &att.CreatedAt, &att.UpdatedAt,
		&att.EmployeeCode, &att.EmployeeName,
	)
	return att, err
}

func (a *attendanceRepository) getOne(ctx context.Context, query string, args ...any) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	att, err := scanAttendance(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return att, nil
}

func (a *attendanceRepository) list(ctx context.Context, query string, args ...any) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance: %w", err)
	}
	return attendances, nil
}

// EnsureForDay implements attendance.AttendanceRepository.
func (a *attendanceRepository) EnsureForDay(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	status := att.Status
	if status == "" {
		status = attendance.StatusNone
	}

	// A concurrent insert for the same day makes this a no-op; the row is
	// then read back below.
	query := `
		INSERT INTO attendances (id, employee_id, work_date, status)
		VALUES ($1, $2, $3::date, $4)
		ON CONFLICT ON CONSTRAINT uq_attendances_employee_work_date DO NOTHING
	`
	if _, err := q.Exec(ctx, query, att.ID, att.EmployeeID, att.WorkDate.Format(time.DateOnly), status); err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to insert attendance: %w", err)
	}

	return a.GetByEmployeeAndDate(ctx, att.EmployeeID, att.WorkDate)
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	return a.getOne(ctx, `SELECT `+attendanceColumns+attendanceFrom+` WHERE a.id = $1`, id)
}

// GetByIDForUpdate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByIDForUpdate(ctx context.Context, id string) (attendance.Attendance, error) {
	return a.getOne(ctx, `SELECT `+attendanceColumns+attendanceFrom+` WHERE a.id = $1 FOR UPDATE OF a`, id)
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, workDate time.Time) (attendance.Attendance, error) {
	return a.getOne(ctx,
		`SELECT `+attendanceColumns+attendanceFrom+` WHERE a.employee_id = $1 AND a.work_date = $2::date`,
		employeeID, workDate.Format(time.DateOnly))
}

// LockByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) LockByEmployeeAndDate(ctx context.Context, employeeID string, workDate time.Time) (attendance.Attendance, error) {
	return a.getOne(ctx,
		`SELECT `+attendanceColumns+attendanceFrom+` WHERE a.employee_id = $1 AND a.work_date = $2::date FOR UPDATE OF a`,
		employeeID, workDate.Format(time.DateOnly))
}

// SetClockIn implements attendance.AttendanceRepository.
func (a *attendanceRepository) SetClockIn(ctx context.Context, id string, clockIn time.Time) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET clock_in = COALESCE(clock_in, $2), updated_at = NOW()
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query, id, clockIn)
	if err != nil {
		return fmt.Errorf("failed to set clock in: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances SET
			clock_out = $2,
			total_hours = $3,
			status = $4,
			approver_id = $5,
			submitted_at = $6,
			approved_at = $7,
			updated_at = NOW()
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query,
		att.ID,
		att.ClockOut,
		att.TotalHours,
		att.Status,
		att.ApproverID,
		att.SubmittedAt,
		att.ApprovedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return attendance.ErrApproverNotFound
		}
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string) ([]attendance.Attendance, error) {
	return a.list(ctx,
		`SELECT `+attendanceColumns+attendanceFrom+` WHERE a.employee_id = $1 ORDER BY a.work_date DESC`,
		employeeID)
}

// ListByEmployeeInRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployeeInRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	return a.list(ctx,
		`SELECT `+attendanceColumns+attendanceFrom+`
		WHERE a.employee_id = $1 AND a.work_date BETWEEN $2::date AND $3::date
		ORDER BY a.work_date ASC`,
		employeeID, from.Format(time.DateOnly), to.Format(time.DateOnly))
}

// ListByApproverAndStatus implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByApproverAndStatus(ctx context.Context, approverUserID string, status attendance.Status) ([]attendance.Attendance, error) {
	return a.list(ctx,
		`SELECT `+attendanceColumns+attendanceFrom+`
		WHERE a.approver_id = $1 AND a.status = $2
		ORDER BY a.work_date DESC, a.submitted_at DESC`,
		approverUserID, status)
}

// ListByStatusInScope implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByStatusInScope(ctx context.Context, status attendance.Status, scope attendance.Scope) ([]attendance.Attendance, error) {
	query := `SELECT ` + attendanceColumns + attendanceFrom + ` WHERE a.status = $1`
	args := []any{status}

	switch {
	case scope.All:
	case scope.ManagerUserID != "":
		query += ` AND e.manager_id IN (SELECT m.id FROM employees m WHERE m.user_id = $2)`
		args = append(args, scope.ManagerUserID)
	default:
		if len(scope.EmployeeIDs) == 0 {
			return []attendance.Attendance{}, nil
		}
		query += ` AND a.employee_id = ANY($2::uuid[])`
		args = append(args, scope.EmployeeIDs)
	}
	query += ` ORDER BY a.work_date DESC, e.employee_code ASC`

	return a.list(ctx, query, args...)
}

// ListWithOpenTimestampBefore implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListWithOpenTimestampBefore(ctx context.Context, workDate time.Time) ([]attendance.Attendance, error) {
	return a.list(ctx,
		`SELECT `+attendanceColumns+attendanceFrom+`
		WHERE a.work_date < $1::date
		  AND EXISTS (
			SELECT 1 FROM attendance_timestamps t
			WHERE t.attendance_id = a.id AND t.end_time IS NULL
		  )
		ORDER BY a.work_date ASC`,
		workDate.Format(time.DateOnly))
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}
