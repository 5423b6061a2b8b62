package attendance

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/domain/employee"
)

type passThroughTx struct{}

func (passThroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// memStore is an in-memory attendance and timestamp repository. The mutex
// stands in for the unique constraints of the real schema.
type memStore struct {
	mu         sync.Mutex
	rows       map[string]attendance.Attendance
	timestamps map[string][]attendance.Timestamp

	// reportsTo maps employee id to the manager's user id.
	reportsTo map[string]string
	updateErr error
}

func newMemStore() *memStore {
	return &memStore{
		rows:       make(map[string]attendance.Attendance),
		timestamps: make(map[string][]attendance.Timestamp),
		reportsTo:  make(map[string]string),
	}
}

func dayKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

func (m *memStore) EnsureForDay(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.EmployeeID == a.EmployeeID && dayKey(row.WorkDate) == dayKey(a.WorkDate) {
			return row, nil
		}
	}
	m.rows[a.ID] = a
	return a, nil
}

func (m *memStore) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return row, nil
}

func (m *memStore) GetByIDForUpdate(ctx context.Context, id string) (attendance.Attendance, error) {
	return m.GetByID(ctx, id)
}

func (m *memStore) GetByEmployeeAndDate(ctx context.Context, employeeID string, workDate time.Time) (attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.EmployeeID == employeeID && dayKey(row.WorkDate) == dayKey(workDate) {
			return row, nil
		}
	}
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (m *memStore) LockByEmployeeAndDate(ctx context.Context, employeeID string, workDate time.Time) (attendance.Attendance, error) {
	return m.GetByEmployeeAndDate(ctx, employeeID, workDate)
}

func (m *memStore) SetClockIn(ctx context.Context, id string, clockIn time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row := m.rows[id]
	if row.ClockIn == nil {
		row.ClockIn = &clockIn
	}
	m.rows[id] = row
	return nil
}

func (m *memStore) Update(ctx context.Context, a attendance.Attendance) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[a.ID]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	a.Timestamps = nil
	m.rows[a.ID] = a
	return nil
}

func (m *memStore) sorted(match func(attendance.Attendance) bool, newestFirst bool) []attendance.Attendance {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []attendance.Attendance
	for _, row := range m.rows {
		if match(row) {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if newestFirst {
			return out[i].WorkDate.After(out[j].WorkDate)
		}
		return out[i].WorkDate.Before(out[j].WorkDate)
	})
	return out
}

func (m *memStore) ListByEmployee(ctx context.Context, employeeID string) ([]attendance.Attendance, error) {
	return m.sorted(func(a attendance.Attendance) bool { return a.EmployeeID == employeeID }, true), nil
}

func (m *memStore) ListByEmployeeInRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	return m.sorted(func(a attendance.Attendance) bool {
		return a.EmployeeID == employeeID && !a.WorkDate.Before(from) && !a.WorkDate.After(to)
	}, false), nil
}

func (m *memStore) ListByApproverAndStatus(ctx context.Context, approverUserID string, status attendance.Status) ([]attendance.Attendance, error) {
	return m.sorted(func(a attendance.Attendance) bool {
		return a.ApproverID != nil && *a.ApproverID == approverUserID && a.Status == status
	}, true), nil
}

func (m *memStore) ListByStatusInScope(ctx context.Context, status attendance.Status, scope attendance.Scope) ([]attendance.Attendance, error) {
	return m.sorted(func(a attendance.Attendance) bool {
		if a.Status != status {
			return false
		}
		switch {
		case scope.All:
			return true
		case scope.ManagerUserID != "":
			return m.reportsTo[a.EmployeeID] == scope.ManagerUserID
		default:
			for _, id := range scope.EmployeeIDs {
				if id == a.EmployeeID {
					return true
				}
			}
			return false
		}
	}, true), nil
}

func (m *memStore) ListWithOpenTimestampBefore(ctx context.Context, workDate time.Time) ([]attendance.Attendance, error) {
	return m.sorted(func(a attendance.Attendance) bool {
		if dayKey(a.WorkDate) >= dayKey(workDate) {
			return false
		}
		for _, ts := range m.timestamps[a.ID] {
			if ts.EndTime == nil {
				return true
			}
		}
		return false
	}, false), nil
}

func (m *memStore) OpenIfNone(ctx context.Context, ts attendance.Timestamp) (attendance.Timestamp, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.timestamps[ts.AttendanceID] {
		if existing.EndTime == nil {
			return existing, false, nil
		}
	}
	m.timestamps[ts.AttendanceID] = append(m.timestamps[ts.AttendanceID], ts)
	return ts, true, nil
}

func (m *memStore) CloseOpen(ctx context.Context, attendanceID string, endTime time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.timestamps[attendanceID]
	for i := range list {
		if list[i].EndTime == nil {
			end := endTime
			list[i].EndTime = &end
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ListByAttendance(ctx context.Context, attendanceID string) ([]attendance.Timestamp, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]attendance.Timestamp(nil), m.timestamps[attendanceID]...), nil
}

func (m *memStore) ListByAttendanceIDs(ctx context.Context, ids []string) (map[string][]attendance.Timestamp, error) {
	out := make(map[string][]attendance.Timestamp, len(ids))
	for _, id := range ids {
		list, _ := m.ListByAttendance(ctx, id)
		out[id] = list
	}
	return out, nil
}

func (m *memStore) openCount(attendanceID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, ts := range m.timestamps[attendanceID] {
		if ts.EndTime == nil {
			n++
		}
	}
	return n
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
	managers  map[string]employee.Manager
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployeeRepo) GetByEmployeeCode(ctx context.Context, code string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.EmployeeCode == code {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) GetManager(ctx context.Context, employeeID string) (employee.Manager, error) {
	m, ok := f.managers[employeeID]
	if !ok {
		return employee.Manager{}, employee.ErrManagerNotFound
	}
	return m, nil
}

func (f *fakeEmployeeRepo) GetDirectReportIDs(ctx context.Context, managerUserID string) ([]string, error) {
	var ids []string
	for empID, m := range f.managers {
		if m.UserID == managerUserID {
			ids = append(ids, empID)
		}
	}
	return ids, nil
}

func (f *fakeEmployeeRepo) GetCompensation(ctx context.Context, employeeID string) (employee.Compensation, error) {
	return employee.Compensation{}, employee.ErrCompensationNotFound
}

// fakeClock is a settable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
