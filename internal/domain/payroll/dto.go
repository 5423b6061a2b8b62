package payroll

import (
	"time"

	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// CycleTimeLayout renders cycle bounds with millisecond precision so the
// 23:59:59.999 end of a cycle survives serialization.
const CycleTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// ========== PERIOD ==========

type PeriodRequest struct {
	Month int `json:"month" validate:"required,min=1,max=12"`
	Year  int `json:"year" validate:"required,min=2000,max=9999"`
}

func (r *PeriodRequest) Validate() error {
	return validator.Struct(r)
}

// ========== ATTENDANCE SHEET DTOs ==========

type SheetDayResponse struct {
	Date       string          `json:"date"`
	Weekday    string          `json:"weekday"`
	Status     DayStatus       `json:"status"`
	ClockIn    *string         `json:"clock_in"`
	ClockOut   *string         `json:"clock_out"`
	TotalHours decimal.Decimal `json:"total_hours"`
	IsOnLeave  bool            `json:"is_on_leave"`
}

type SheetSummaryResponse struct {
	TotalWorkingDays int `json:"total_working_days"`
	PresentDays      int `json:"present_days"`
	AbsentDays       int `json:"absent_days"`
	LeaveDays        int `json:"leave_days"`
}

type AttendanceSheetResponse struct {
	EmployeeID   string               `json:"employee_id"`
	EmployeeCode string               `json:"employee_code"`
	EmployeeName string               `json:"employee_name"`
	Month        int                  `json:"month"`
	Year         int                  `json:"year"`
	CycleStart   string               `json:"cycle_start"`
	CycleEnd     string               `json:"cycle_end"`
	Days         []SheetDayResponse   `json:"days"`
	Summary      SheetSummaryResponse `json:"summary"`
}

// ========== PAYSLIP DTOs ==========

type PayslipResponse struct {
	ID               *string         `json:"id,omitempty"`
	EmployeeID       string          `json:"employee_id"`
	EmployeeCode     string          `json:"employee_code"`
	EmployeeName     string          `json:"employee_name"`
	Month            int             `json:"month"`
	Year             int             `json:"year"`
	CycleStart       string          `json:"cycle_start"`
	CycleEnd         string          `json:"cycle_end"`
	TotalWorkingDays int             `json:"total_working_days"`
	AbsentDays       int             `json:"absent_days"`
	BasicSalary      decimal.Decimal `json:"basic_salary"`
	GrossSalary      decimal.Decimal `json:"gross_salary"`
	PerDaySalary     decimal.Decimal `json:"per_day_salary"`
	AbsenceDeduction decimal.Decimal `json:"absence_deduction"`
	Allowances       []LineItem      `json:"allowances"`
	Deductions       []LineItem      `json:"deductions"`
	TotalDeductions  decimal.Decimal `json:"total_deductions"`
	NetPay           decimal.Decimal `json:"net_pay"`
	CreatedAt        *string         `json:"created_at,omitempty"`
}

type ListPayslipResponse struct {
	Payslips []PayslipResponse `json:"payslips"`
	Total    int               `json:"total"`
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

// ToSheetResponse shapes a classified cycle for the API.
func ToSheetResponse(days []SheetDay, summary SheetSummary) ([]SheetDayResponse, SheetSummaryResponse) {
	out := make([]SheetDayResponse, 0, len(days))
	for _, d := range days {
		out = append(out, SheetDayResponse{
			Date:       d.Date.Format(time.DateOnly),
			Weekday:    d.Date.Weekday().String(),
			Status:     d.Status,
			ClockIn:    formatTime(d.ClockIn),
			ClockOut:   formatTime(d.ClockOut),
			TotalHours: d.TotalHours.Round(2),
			IsOnLeave:  d.IsOnLeave,
		})
	}
	return out, SheetSummaryResponse{
		TotalWorkingDays: summary.TotalWorkingDays,
		PresentDays:      summary.PresentDays,
		AbsentDays:       summary.AbsentDays,
		LeaveDays:        summary.LeaveDays,
	}
}

func ToPayslipResponse(p Payslip) PayslipResponse {
	allowances := p.Allowances
	if allowances == nil {
		allowances = []LineItem{}
	}
	deductions := p.Deductions
	if deductions == nil {
		deductions = []LineItem{}
	}

	resp := PayslipResponse{
		EmployeeID:       p.EmployeeID,
		Month:            p.PeriodMonth,
		Year:             p.PeriodYear,
		CycleStart:       p.CycleStart.Format(CycleTimeLayout),
		CycleEnd:         p.CycleEnd.Format(CycleTimeLayout),
		TotalWorkingDays: p.WorkingDays,
		AbsentDays:       p.AbsentDays,
		BasicSalary:      p.BasicSalary,
		GrossSalary:      p.GrossSalary,
		PerDaySalary:     p.PerDaySalary,
		AbsenceDeduction: p.AbsenceDeduction,
		Allowances:       allowances,
		Deductions:       deductions,
		TotalDeductions:  p.TotalDeductions,
		NetPay:           p.NetPay,
	}
	if p.ID != "" {
		id := p.ID
		resp.ID = &id
		resp.CreatedAt = formatTime(&p.CreatedAt)
	}
	if p.EmployeeCode != nil {
		resp.EmployeeCode = *p.EmployeeCode
	}
	if p.EmployeeName != nil {
		resp.EmployeeName = *p.EmployeeName
	}
	return resp
}
