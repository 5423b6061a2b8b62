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

type timestampRepository struct {
	db *database.DB
}

func NewTimestampRepository(db *database.DB) attendance.TimestampRepository {
	return &timestampRepository{db: db}
}

// OpenIfNone implements attendance.TimestampRepository.
func (r *timestampRepository) OpenIfNone(ctx context.Context, ts attendance.Timestamp) (attendance.Timestamp, bool, error) {
	q := GetQuerier(ctx, r.db)

	// The partial unique index allows one running segment per attendance row.
	query := `
		INSERT INTO attendance_timestamps (id, attendance_id, start_time)
		VALUES ($1, $2, $3)
		ON CONFLICT (attendance_id) WHERE end_time IS NULL DO NOTHING
		RETURNING id, attendance_id, start_time, end_time, created_at
	`
	var created attendance.Timestamp
	err := q.QueryRow(ctx, query, ts.ID, ts.AttendanceID, ts.StartTime).Scan(
		&created.ID, &created.AttendanceID, &created.StartTime, &created.EndTime, &created.CreatedAt,
	)
	if err == nil {
		return created, true, nil
	}
	// No row back means a segment is already running.
	if !errors.Is(err, pgx.ErrNoRows) {
		return attendance.Timestamp{}, false, fmt.Errorf("failed to open timestamp: %w", err)
	}

	open, err := r.getOpen(ctx, ts.AttendanceID)
	if err != nil {
		return attendance.Timestamp{}, false, err
	}
	return open, false, nil
}

func (r *timestampRepository) getOpen(ctx context.Context, attendanceID string) (attendance.Timestamp, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, attendance_id, start_time, end_time, created_at
		FROM attendance_timestamps
		WHERE attendance_id = $1 AND end_time IS NULL
	`
	var ts attendance.Timestamp
	err := q.QueryRow(ctx, query, attendanceID).Scan(
		&ts.ID, &ts.AttendanceID, &ts.StartTime, &ts.EndTime, &ts.CreatedAt,
	)
	if err != nil {
		return attendance.Timestamp{}, fmt.Errorf("failed to get open timestamp: %w", err)
	}
	return ts, nil
}

// CloseOpen implements attendance.TimestampRepository.
func (r *timestampRepository) CloseOpen(ctx context.Context, attendanceID string, endTime time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	// GREATEST keeps end_time >= start_time when clocks disagree.
	query := `
		UPDATE attendance_timestamps
		SET end_time = GREATEST($2, start_time)
		WHERE attendance_id = $1 AND end_time IS NULL
	`
	tag, err := q.Exec(ctx, query, attendanceID, endTime)
	if err != nil {
		return false, fmt.Errorf("failed to close timestamp: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListByAttendance implements attendance.TimestampRepository.
func (r *timestampRepository) ListByAttendance(ctx context.Context, attendanceID string) ([]attendance.Timestamp, error) {
	grouped, err := r.ListByAttendanceIDs(ctx, []string{attendanceID})
	if err != nil {
		return nil, err
	}
	return grouped[attendanceID], nil
}

// ListByAttendanceIDs implements attendance.TimestampRepository.
func (r *timestampRepository) ListByAttendanceIDs(ctx context.Context, attendanceIDs []string) (map[string][]attendance.Timestamp, error) {
	grouped := make(map[string][]attendance.Timestamp, len(attendanceIDs))
	if len(attendanceIDs) == 0 {
		return grouped, nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, attendance_id, start_time, end_time, created_at
		FROM attendance_timestamps
		WHERE attendance_id = ANY($1::uuid[])
		ORDER BY attendance_id, start_time ASC
	`
	rows, err := q.Query(ctx, query, attendanceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list timestamps: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ts attendance.Timestamp
		if err := rows.Scan(&ts.ID, &ts.AttendanceID, &ts.StartTime, &ts.EndTime, &ts.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan timestamp: %w", err)
		}
		grouped[ts.AttendanceID] = append(grouped[ts.AttendanceID], ts)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate timestamps: %w", err)
	}
	return grouped, nil
}
