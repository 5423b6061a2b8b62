package payroll

import (
	"time"

	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/domain/leave"
)

const (
	CycleStartDay = 22
	CycleEndDay   = 21
)

// CycleDates returns the pay cycle for a payroll month: the 22nd of the
// previous month at 00:00 through the 21st of month at 23:59:59.999.
func CycleDates(month, year int, loc *time.Location) (time.Time, time.Time) {
	// time.Date normalizes month 0 to December of the previous year.
	start := time.Date(year, time.Month(month)-1, CycleStartDay, 0, 0, 0, 0, loc)
	end := time.Date(year, time.Month(month), CycleEndDay, 23, 59, 59, int(999*time.Millisecond), loc)
	return start, end
}

// WorkingDaysInCycle lists every day in [start, end] except Sundays, each at
// midnight in start's location.
func WorkingDaysInCycle(start, end time.Time) []time.Time {
	var days []time.Time
	loc := start.Location()
	for d := midnight(start); !d.After(end); d = time.Date(d.Year(), d.Month(), d.Day()+1, 0, 0, 0, 0, loc) {
		if d.Weekday() == time.Sunday {
			continue
		}
		days = append(days, d)
	}
	return days
}

// DateKey identifies a calendar day independent of its location.
func DateKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

// LeaveDates expands approved leave into the set of non-Sunday days it
// covers. Requests in any other status are ignored.
func LeaveDates(leaves []leave.LeaveRequest) map[string]struct{} {
	dates := make(map[string]struct{})
	for _, l := range leaves {
		if l.Status != leave.LeaveRequestStatusApproved {
			continue
		}
		from := time.Date(l.StartDate.Year(), l.StartDate.Month(), l.StartDate.Day(), 0, 0, 0, 0, time.UTC)
		to := time.Date(l.EndDate.Year(), l.EndDate.Month(), l.EndDate.Day(), 0, 0, 0, 0, time.UTC)
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			if d.Weekday() == time.Sunday {
				continue
			}
			dates[DateKey(d)] = struct{}{}
		}
	}
	return dates
}

// ClassifyDay applies leave before presence. A row without a clock-in is
// not presence.
func ClassifyDay(onLeave bool, record *attendance.Attendance) DayStatus {
	switch {
	case onLeave:
		return DayStatusLeave
	case record != nil && record.ClockIn != nil:
		return DayStatusPresent
	default:
		return DayStatusAbsent
	}
}

// BuildSheet classifies each working day against attendance rows and leave
// dates.
func BuildSheet(workingDays []time.Time, records []attendance.Attendance, leaveDates map[string]struct{}) ([]SheetDay, SheetSummary) {
	byDate := make(map[string]attendance.Attendance, len(records))
	for _, r := range records {
		byDate[DateKey(r.WorkDate)] = r
	}

	days := make([]SheetDay, 0, len(workingDays))
	summary := SheetSummary{TotalWorkingDays: len(workingDays)}

	for _, d := range workingDays {
		key := DateKey(d)
		_, onLeave := leaveDates[key]

		day := SheetDay{Date: d, IsOnLeave: onLeave}
		var record *attendance.Attendance
		if r, ok := byDate[key]; ok {
			record = &r
			day.ClockIn = r.ClockIn
			day.ClockOut = r.ClockOut
			day.TotalHours = r.TotalHours
		}
		day.Status = ClassifyDay(onLeave, record)

		switch day.Status {
		case DayStatusPresent:
			summary.PresentDays++
		case DayStatusLeave:
			summary.LeaveDays++
		default:
			summary.AbsentDays++
		}
		days = append(days, day)
	}

	return days, summary
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
