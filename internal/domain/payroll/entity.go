package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

type DayStatus string

const (
	DayStatusPresent DayStatus = "present"
	DayStatusAbsent  DayStatus = "absent"
	DayStatusLeave   DayStatus = "leave"
)

// SheetDay is one working day of a pay cycle.
type SheetDay struct {
	Date       time.Time
	Status     DayStatus
	ClockIn    *time.Time
	ClockOut   *time.Time
	TotalHours decimal.Decimal
	IsOnLeave  bool
}

type SheetSummary struct {
	TotalWorkingDays int
	PresentDays      int
	AbsentDays       int
	LeaveDays        int
}

// LineItem is a named allowance or deduction on a payslip.
type LineItem struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
}

// Payslip - computed or persisted pay breakdown for one employee and cycle
type Payslip struct {
	ID               string
	EmployeeID       string
	PeriodMonth      int
	PeriodYear       int
	CycleStart       time.Time
	CycleEnd         time.Time
	BasicSalary      decimal.Decimal
	GrossSalary      decimal.Decimal
	PerDaySalary     decimal.Decimal
	WorkingDays      int
	AbsentDays       int
	AbsenceDeduction decimal.Decimal
	Allowances       []LineItem
	Deductions       []LineItem
	TotalDeductions  decimal.Decimal
	NetPay           decimal.Decimal
	CreatedAt        time.Time

	// Joined fields
	EmployeeCode *string
	EmployeeName *string
}
