package attendance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	employeeID      = "0190f1d2-0000-7000-8000-000000000001"
	loneEmployeeID  = "0190f1d2-0000-7000-8000-000000000002"
	managerUserID   = "0190f1d2-0000-7000-8000-0000000000aa"
	otherUserID     = "0190f1d2-0000-7000-8000-0000000000bb"
	adminUserID     = "0190f1d2-0000-7000-8000-0000000000cc"
	managerEmployee = "0190f1d2-0000-7000-8000-0000000000a1"
)

type fixture struct {
	svc   *AttendanceServiceImpl
	store *memStore
	clock *fakeClock
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	store := newMemStore()
	store.reportsTo[employeeID] = managerUserID

	employees := &fakeEmployeeRepo{
		employees: map[string]employee.Employee{
			employeeID:     {ID: employeeID, EmployeeCode: "EMP001", FullName: "Asha Rao"},
			loneEmployeeID: {ID: loneEmployeeID, EmployeeCode: "EMP002", FullName: "Vikram Shah"},
		},
		managers: map[string]employee.Manager{
			employeeID: {EmployeeID: managerEmployee, UserID: managerUserID, FullName: "Meera Iyer"},
		},
	}

	clock := &fakeClock{now: at(9, 0)}
	svc := newService(passThroughTx{}, store, store, employees, time.UTC, clock.Now)

	return fixture{svc: svc, store: store, clock: clock}
}

func at(hour, minute int) time.Time {
	return time.Date(2024, time.March, 4, hour, minute, 0, 0, time.UTC)
}

func TestClockIn_CreatesRowAndOneOpenSegment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svc.ClockIn(ctx, employeeID)
	require.NoError(t, err)

	assert.Equal(t, "2024-03-04", resp.WorkDate)
	require.NotNil(t, resp.ClockIn)
	assert.Equal(t, "2024-03-04T09:00:00Z", *resp.ClockIn)
	assert.Equal(t, attendance.SessionRunning, resp.SessionState)
	require.Len(t, resp.Timestamps, 1)
	assert.Nil(t, resp.Timestamps[0].EndTime)
}

func TestClockIn_IsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.ClockIn(ctx, employeeID)
	require.NoError(t, err)

	f.clock.Set(at(9, 15))
	second, err := f.svc.ClockIn(ctx, "EMP001")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, *first.ClockIn, *second.ClockIn)
	assert.Len(t, second.Timestamps, 1)
	assert.Len(t, f.store.rows, 1)
}

func TestClockIn_ConcurrentCallsShareOneRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make([]string, 20)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := f.svc.ClockIn(ctx, employeeID)
			if err == nil {
				ids[i] = resp.ID
			}
		}(i)
	}
	wg.Wait()

	require.Len(t, f.store.rows, 1)
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	assert.Equal(t, 1, f.store.openCount(ids[0]))
}

func TestClockIn_UnknownEmployee(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ClockIn(context.Background(), "0190f1d2-0000-7000-8000-00000000ffff")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = f.svc.ClockIn(context.Background(), "   ")
	assert.ErrorIs(t, err, employee.ErrInvalidEmployeeRef)
}

func TestPauseResumeClockOut_RequireTodaysRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Pause(ctx, employeeID)
	assert.ErrorIs(t, err, attendance.ErrNoActiveAttendance)

	_, err = f.svc.Resume(ctx, employeeID)
	assert.ErrorIs(t, err, attendance.ErrNoActiveAttendance)

	_, err = f.svc.ClockOut(ctx, employeeID)
	assert.ErrorIs(t, err, attendance.ErrNoActiveAttendance)

	_, err = f.svc.SubmitForApproval(ctx, employeeID, attendance.SubmitForApprovalRequest{ApproverID: managerUserID})
	assert.ErrorIs(t, err, attendance.ErrNoActiveAttendance)
}

func TestFullDay_WithManagerAutoSubmits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.ClockIn(ctx, employeeID)
	require.NoError(t, err)

	f.clock.Set(at(12, 0))
	paused, err := f.svc.Pause(ctx, employeeID)
	require.NoError(t, err)
	assert.Equal(t, attendance.SessionPaused, paused.SessionState)

	// repeated pause is a no-op
	f.clock.Set(at(12, 30))
	paused, err = f.svc.Pause(ctx, employeeID)
	require.NoError(t, err)
	require.Len(t, paused.Timestamps, 1)
	assert.Equal(t, "2024-03-04T12:00:00Z", *paused.Timestamps[0].EndTime)

	f.clock.Set(at(13, 0))
	_, err = f.svc.Resume(ctx, employeeID)
	require.NoError(t, err)

	// repeated resume does not open a second segment
	f.clock.Set(at(13, 10))
	resumed, err := f.svc.Resume(ctx, employeeID)
	require.NoError(t, err)
	assert.Len(t, resumed.Timestamps, 2)
	assert.Equal(t, attendance.SessionRunning, resumed.SessionState)

	f.clock.Set(at(17, 30))
	out, err := f.svc.ClockOut(ctx, employeeID)
	require.NoError(t, err)

	assert.True(t, out.HasManager)
	require.NotNil(t, out.ManagerID)
	assert.Equal(t, managerUserID, *out.ManagerID)

	a := out.Attendance
	assert.True(t, decimal.RequireFromString("7.5").Equal(a.TotalHours), "total %s", a.TotalHours)
	assert.Equal(t, attendance.StatusSubmitted, a.Status)
	assert.Equal(t, attendance.SessionClosed, a.SessionState)
	require.NotNil(t, a.ApproverID)
	assert.Equal(t, managerUserID, *a.ApproverID)
	assert.NotNil(t, a.SubmittedAt)
	assert.Equal(t, "2024-03-04T17:30:00Z", *a.ClockOut)
	for _, ts := range a.Timestamps {
		assert.NotNil(t, ts.EndTime)
	}
}

func TestClockOut_WithoutManagerThenExplicitSubmit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.ClockIn(ctx, loneEmployeeID)
	require.NoError(t, err)

	f.clock.Set(at(17, 0))
	out, err := f.svc.ClockOut(ctx, "EMP002")
	require.NoError(t, err)

	assert.False(t, out.HasManager)
	assert.Nil(t, out.ManagerID)
	assert.Equal(t, attendance.StatusNone, out.Attendance.Status)
	assert.Nil(t, out.Attendance.ApproverID)
	assert.True(t, decimal.NewFromInt(8).Equal(out.Attendance.TotalHours))

	_, err = f.svc.SubmitForApproval(ctx, loneEmployeeID, attendance.SubmitForApprovalRequest{ApproverID: "not-a-uuid"})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))

	submitted, err := f.svc.SubmitForApproval(ctx, loneEmployeeID, attendance.SubmitForApprovalRequest{ApproverID: otherUserID})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusSubmitted, submitted.Status)
	assert.Equal(t, otherUserID, *submitted.ApproverID)
	assert.NotNil(t, submitted.SubmittedAt)
}

func TestClockOut_UpdateFailurePropagates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.ClockIn(ctx, employeeID)
	require.NoError(t, err)

	f.store.updateErr = errors.New("connection reset")
	_, err = f.svc.ClockOut(ctx, employeeID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func submittedDay(t *testing.T, f fixture) string {
	t.Helper()
	ctx := context.Background()

	_, err := f.svc.ClockIn(ctx, employeeID)
	require.NoError(t, err)
	f.clock.Set(at(17, 0))
	out, err := f.svc.ClockOut(ctx, employeeID)
	require.NoError(t, err)
	require.Equal(t, attendance.StatusSubmitted, out.Attendance.Status)
	return out.Attendance.ID
}

func TestApprove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := submittedDay(t, f)

	other := user.Requester{UserID: otherUserID, Role: user.RoleManager}
	_, err := f.svc.Approve(ctx, other, id)
	assert.ErrorIs(t, err, attendance.ErrNotDesignatedApprover)

	manager := user.Requester{UserID: managerUserID, Role: user.RoleManager}
	f.clock.Set(at(18, 0))
	approved, err := f.svc.Approve(ctx, manager, id)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedAt)
	assert.Equal(t, "2024-03-04T18:00:00Z", *approved.ApprovedAt)

	// a second approval is rejected rather than silently re-applied
	_, err = f.svc.Approve(ctx, manager, id)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotSubmitted)

	_, err = f.svc.Reject(ctx, manager, id)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotSubmitted)
}

func TestReject_ByAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := submittedDay(t, f)

	admin := user.Requester{UserID: adminUserID, Role: user.RoleHRManager}
	rejected, err := f.svc.Reject(ctx, admin, id)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusRejected, rejected.Status)
	assert.Nil(t, rejected.ApprovedAt)
}

func TestReview_InvalidOrUnknownID(t *testing.T) {
	f := newFixture(t)
	admin := user.Requester{UserID: adminUserID, Role: user.RoleGlobalAdmin}

	_, err := f.svc.Approve(context.Background(), admin, "abc")
	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs))

	_, err = f.svc.Approve(context.Background(), admin, "0190f1d2-0000-7000-8000-00000000dead")
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestReview_NotSubmitted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svc.ClockIn(ctx, employeeID)
	require.NoError(t, err)

	admin := user.Requester{UserID: adminUserID, Role: user.RoleGlobalAdmin}
	_, err = f.svc.Reject(ctx, admin, resp.ID)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotSubmitted)
}

func TestSubmit_ApprovedDayIsFinal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := submittedDay(t, f)

	_, err := f.svc.Approve(ctx, user.Requester{UserID: managerUserID, Role: user.RoleManager}, id)
	require.NoError(t, err)

	_, err = f.svc.SubmitForApproval(ctx, employeeID, attendance.SubmitForApprovalRequest{ApproverID: otherUserID})
	assert.ErrorIs(t, err, attendance.ErrAlreadyApproved)
}

func TestClockIn_AfterSubmitWithdrawsSubmission(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := submittedDay(t, f)
	manager := user.Requester{UserID: managerUserID, Role: user.RoleManager}

	f.clock.Set(at(18, 0))
	reopened, err := f.svc.ClockIn(ctx, employeeID)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusNone, reopened.Status)
	assert.Nil(t, reopened.SubmittedAt)
	assert.Equal(t, attendance.SessionRunning, reopened.SessionState)

	_, err = f.svc.Approve(ctx, manager, id)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotSubmitted)

	pending, err := f.svc.ListPendingApprovals(ctx, managerUserID)
	require.NoError(t, err)
	assert.Zero(t, pending.Total)

	f.clock.Set(at(19, 0))
	out, err := f.svc.ClockOut(ctx, employeeID)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusSubmitted, out.Attendance.Status)
	assert.True(t, decimal.NewFromInt(9).Equal(out.Attendance.TotalHours), "total %s", out.Attendance.TotalHours)

	_, err = f.svc.Approve(ctx, manager, id)
	require.NoError(t, err)
}

func TestResume_AfterSubmitWithdrawsSubmission(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	submittedDay(t, f)

	f.clock.Set(at(18, 0))
	resumed, err := f.svc.Resume(ctx, employeeID)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusNone, resumed.Status)
	assert.Nil(t, resumed.SubmittedAt)
}

func TestClockIn_ApprovedDayStaysApproved(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := submittedDay(t, f)

	_, err := f.svc.Approve(ctx, user.Requester{UserID: managerUserID, Role: user.RoleManager}, id)
	require.NoError(t, err)

	f.clock.Set(at(18, 0))
	reopened, err := f.svc.ClockIn(ctx, employeeID)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusApproved, reopened.Status)
}

func TestListPendingAndApproved(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := submittedDay(t, f)

	pending, err := f.svc.ListPendingApprovals(ctx, managerUserID)
	require.NoError(t, err)
	require.Equal(t, 1, pending.Total)
	assert.Equal(t, id, pending.Attendances[0].ID)
	assert.NotEmpty(t, pending.Attendances[0].Timestamps)

	none, err := f.svc.ListPendingApprovals(ctx, otherUserID)
	require.NoError(t, err)
	assert.Zero(t, none.Total)

	_, err = f.svc.Approve(ctx, user.Requester{UserID: managerUserID, Role: user.RoleManager}, id)
	require.NoError(t, err)

	self := employeeID
	stranger := loneEmployeeID
	tests := []struct {
		name      string
		requester user.Requester
		want      int
	}{
		{"admin sees all", user.Requester{UserID: adminUserID, Role: user.RoleGlobalAdmin}, 1},
		{"manager sees direct reports", user.Requester{UserID: managerUserID, Role: user.RoleManager}, 1},
		{"other manager sees nothing", user.Requester{UserID: otherUserID, Role: user.RoleManager}, 0},
		{"employee sees own", user.Requester{UserID: "u-self", Role: user.RoleEmployee, EmployeeID: &self}, 1},
		{"employee does not see others", user.Requester{UserID: "u-other", Role: user.RoleEmployee, EmployeeID: &stranger}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := f.svc.ListApproved(ctx, tt.requester)
			require.NoError(t, err)
			assert.Equal(t, tt.want, list.Total)
		})
	}
}

func TestListForEmployee_NewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, day := range []int{4, 6, 5} {
		f.clock.Set(time.Date(2024, time.March, day, 9, 0, 0, 0, time.UTC))
		_, err := f.svc.ClockIn(ctx, employeeID)
		require.NoError(t, err)
	}

	list, err := f.svc.ListForEmployee(ctx, "EMP001")
	require.NoError(t, err)
	require.Equal(t, 3, list.Total)
	assert.Equal(t, "2024-03-06", list.Attendances[0].WorkDate)
	assert.Equal(t, "2024-03-05", list.Attendances[1].WorkDate)
	assert.Equal(t, "2024-03-04", list.Attendances[2].WorkDate)
}

func TestGetToday(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	today, err := f.svc.GetToday(ctx, employeeID)
	require.NoError(t, err)
	assert.Equal(t, attendance.SessionNotStarted, today.SessionState)
	assert.Nil(t, today.Attendance)

	_, err = f.svc.ClockIn(ctx, employeeID)
	require.NoError(t, err)

	today, err = f.svc.GetToday(ctx, employeeID)
	require.NoError(t, err)
	assert.Equal(t, attendance.SessionRunning, today.SessionState)
	require.NotNil(t, today.Attendance)
}

func TestCloseStaleSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.ClockIn(ctx, employeeID)
	require.NoError(t, err)

	// still the same day: nothing to close
	f.clock.Set(at(23, 0))
	closed, err := f.svc.CloseStaleSessions(ctx, time.Hour)
	require.NoError(t, err)
	assert.Zero(t, closed)

	f.clock.Set(time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC))
	closed, err = f.svc.CloseStaleSessions(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, closed)

	list, err := f.svc.ListForEmployee(ctx, employeeID)
	require.NoError(t, err)
	require.Equal(t, 1, list.Total)
	a := list.Attendances[0]
	assert.Equal(t, attendance.SessionClosed, a.SessionState)
	assert.Equal(t, "2024-03-04T23:59:59Z", *a.ClockOut)
	assert.True(t, decimal.RequireFromString("15").Equal(a.TotalHours), "total %s", a.TotalHours)
	// closing a stale session does not submit it
	assert.Equal(t, attendance.StatusNone, a.Status)

	closed, err = f.svc.CloseStaleSessions(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Zero(t, closed)
}
