package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/pkg/export"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type PayrollServiceImpl struct {
	employees   employee.EmployeeRepository
	attendances attendance.AttendanceRepository
	leaves      leave.LeaveRequestRepository
	payslips    payroll.PayslipRepository
	loc         *time.Location
}

func NewPayrollService(
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	leaveRepo leave.LeaveRequestRepository,
	payslipRepo payroll.PayslipRepository,
	loc *time.Location,
) payroll.PayrollService {
	if loc == nil {
		loc = time.UTC
	}
	return &PayrollServiceImpl{
		employees:   employeeRepo,
		attendances: attendanceRepo,
		leaves:      leaveRepo,
		payslips:    payslipRepo,
		loc:         loc,
	}
}

// cycleData is everything read for one employee and pay cycle.
type cycleData struct {
	employee     employee.Employee
	start, end   time.Time
	days         []payroll.SheetDay
	summary      payroll.SheetSummary
	compensation employee.Compensation
}

// loadCycle reads attendance, approved leave and optionally compensation in
// parallel and classifies the cycle's working days.
func (s *PayrollServiceImpl) loadCycle(ctx context.Context, employeeRef string, period payroll.PeriodRequest, withCompensation bool) (cycleData, error) {
	if err := period.Validate(); err != nil {
		return cycleData{}, err
	}
	emp, err := employee.Resolve(ctx, s.employees, employeeRef)
	if err != nil {
		return cycleData{}, err
	}

	start, end := payroll.CycleDates(period.Month, period.Year, s.loc)
	workingDays := payroll.WorkingDaysInCycle(start, end)

	var (
		records      []attendance.Attendance
		leaves       []leave.LeaveRequest
		compensation employee.Compensation
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := s.attendances.ListByEmployeeInRange(gCtx, emp.ID, start, end)
		if err != nil {
			return fmt.Errorf("failed to list attendance for cycle: %w", err)
		}
		records = rows
		return nil
	})

	g.Go(func() error {
		rows, err := s.leaves.ListByEmployeeStatusInRange(gCtx, emp.ID, leave.LeaveRequestStatusApproved, start, end)
		if err != nil {
			return fmt.Errorf("failed to list approved leave for cycle: %w", err)
		}
		leaves = rows
		return nil
	})

	if withCompensation {
		g.Go(func() error {
			comp, err := s.employees.GetCompensation(gCtx, emp.ID)
			if err != nil {
				if errors.Is(err, employee.ErrCompensationNotFound) {
					return err
				}
				return fmt.Errorf("failed to get compensation: %w", err)
			}
			compensation = comp
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return cycleData{}, err
	}

	days, summary := payroll.BuildSheet(workingDays, records, payroll.LeaveDates(leaves))

	return cycleData{
		employee:     emp,
		start:        start,
		end:          end,
		days:         days,
		summary:      summary,
		compensation: compensation,
	}, nil
}

// GetAttendanceSheet implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetAttendanceSheet(ctx context.Context, employeeRef string, period payroll.PeriodRequest) (payroll.AttendanceSheetResponse, error) {
	data, err := s.loadCycle(ctx, employeeRef, period, false)
	if err != nil {
		return payroll.AttendanceSheetResponse{}, err
	}

	days, summary := payroll.ToSheetResponse(data.days, data.summary)
	return payroll.AttendanceSheetResponse{
		EmployeeID:   data.employee.ID,
		EmployeeCode: data.employee.EmployeeCode,
		EmployeeName: data.employee.FullName,
		Month:        period.Month,
		Year:         period.Year,
		CycleStart:   data.start.Format(payroll.CycleTimeLayout),
		CycleEnd:     data.end.Format(payroll.CycleTimeLayout),
		Days:         days,
		Summary:      summary,
	}, nil
}

func (s *PayrollServiceImpl) computePayslip(ctx context.Context, employeeRef string, period payroll.PeriodRequest) (payroll.Payslip, error) {
	data, err := s.loadCycle(ctx, employeeRef, period, true)
	if err != nil {
		return payroll.Payslip{}, err
	}

	p := payroll.CalculatePayslip(data.compensation, data.summary.AbsentDays)
	p.EmployeeID = data.employee.ID
	p.PeriodMonth = period.Month
	p.PeriodYear = period.Year
	p.CycleStart = data.start
	p.CycleEnd = data.end
	p.WorkingDays = data.summary.TotalWorkingDays
	p.EmployeeCode = &data.employee.EmployeeCode
	p.EmployeeName = &data.employee.FullName
	return p, nil
}

// GeneratePayslip implements payroll.PayrollService.
func (s *PayrollServiceImpl) GeneratePayslip(ctx context.Context, employeeRef string, period payroll.PeriodRequest) (payroll.PayslipResponse, error) {
	p, err := s.computePayslip(ctx, employeeRef, period)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}
	return payroll.ToPayslipResponse(p), nil
}

// SavePayslip implements payroll.PayrollService.
func (s *PayrollServiceImpl) SavePayslip(ctx context.Context, employeeRef string, period payroll.PeriodRequest) (payroll.PayslipResponse, error) {
	p, err := s.computePayslip(ctx, employeeRef, period)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	p.ID = uuid.Must(uuid.NewV7()).String()
	saved, err := s.payslips.Create(ctx, p)
	if err != nil {
		if errors.Is(err, payroll.ErrPayslipAlreadyExists) {
			return payroll.PayslipResponse{}, err
		}
		return payroll.PayslipResponse{}, fmt.Errorf("failed to save payslip: %w", err)
	}
	saved.EmployeeCode = p.EmployeeCode
	saved.EmployeeName = p.EmployeeName

	return payroll.ToPayslipResponse(saved), nil
}

// ListPayslipHistory implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListPayslipHistory(ctx context.Context, employeeRef string) (payroll.ListPayslipResponse, error) {
	emp, err := employee.Resolve(ctx, s.employees, employeeRef)
	if err != nil {
		return payroll.ListPayslipResponse{}, err
	}

	payslips, err := s.payslips.ListByEmployee(ctx, emp.ID)
	if err != nil {
		return payroll.ListPayslipResponse{}, fmt.Errorf("failed to list payslips: %w", err)
	}

	items := make([]payroll.PayslipResponse, 0, len(payslips))
	for _, p := range payslips {
		p.EmployeeCode = &emp.EmployeeCode
		p.EmployeeName = &emp.FullName
		items = append(items, payroll.ToPayslipResponse(p))
	}
	return payroll.ListPayslipResponse{Payslips: items, Total: len(items)}, nil
}

// ExportAttendanceSheet implements payroll.PayrollService.
func (s *PayrollServiceImpl) ExportAttendanceSheet(ctx context.Context, employeeRef string, period payroll.PeriodRequest) ([]byte, string, error) {
	sheet, err := s.GetAttendanceSheet(ctx, employeeRef, period)
	if err != nil {
		return nil, "", err
	}
	data, err := export.AttendanceSheet(sheet)
	if err != nil {
		return nil, "", err
	}
	return data, fmt.Sprintf("attendance-sheet_%s_%04d-%02d.xlsx", sheet.EmployeeCode, period.Year, period.Month), nil
}

// ExportPayslip implements payroll.PayrollService.
func (s *PayrollServiceImpl) ExportPayslip(ctx context.Context, employeeRef string, period payroll.PeriodRequest) ([]byte, string, error) {
	p, err := s.GeneratePayslip(ctx, employeeRef, period)
	if err != nil {
		return nil, "", err
	}
	data, err := export.Payslip(p)
	if err != nil {
		return nil, "", err
	}
	return data, fmt.Sprintf("payslip_%s_%04d-%02d.xlsx", p.EmployeeCode, period.Year, period.Month), nil
}
