package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/domain/attendance"
)

type AttendanceJobs struct {
	attendanceService attendance.AttendanceService
	maxAge            time.Duration
	interval          time.Duration
}

// NewAttendanceJobs closes sessions whose running segment started more than
// maxAge ago on an earlier work date, checking every interval.
func NewAttendanceJobs(attendanceService attendance.AttendanceService, maxAge, interval time.Duration) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceService: attendanceService,
		maxAge:            maxAge,
		interval:          interval,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("close_stale_sessions", j.interval, j.CloseStaleSessions)
}

func (j *AttendanceJobs) CloseStaleSessions(ctx context.Context) error {
	slog.Info("Cron: Starting close stale sessions job", "max_age", j.maxAge)

	closed, err := j.attendanceService.CloseStaleSessions(ctx, j.maxAge)
	if err != nil {
		return fmt.Errorf("failed to close stale sessions: %w", err)
	}

	slog.Info("Cron: Close stale sessions job finished", "closed", closed)
	return nil
}
