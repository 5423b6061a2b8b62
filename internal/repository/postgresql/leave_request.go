package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/pkg/database"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

// ListByEmployeeStatusInRange implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListByEmployeeStatusInRange(ctx context.Context, employeeID string, status leave.LeaveRequestStatus, from, to time.Time) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, leave_type, start_date, end_date, status, reason, created_at, updated_at
		FROM leave_requests
		WHERE employee_id = $1
		  AND status = $2
		  AND start_date <= $4::date
		  AND end_date >= $3::date
		ORDER BY start_date ASC
	`

	rows, err := q.Query(ctx, query, employeeID, status, from.Format(time.DateOnly), to.Format(time.DateOnly))
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		var lr leave.LeaveRequest
		err := rows.Scan(
			&lr.ID,
			&lr.EmployeeID,
			&lr.Type,
			&lr.StartDate,
			&lr.EndDate,
			&lr.Status,
			&lr.Reason,
			&lr.CreatedAt,
			&lr.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, lr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leave requests: %w", err)
	}

	return requests, nil
}
