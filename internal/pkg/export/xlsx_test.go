package export

import (
	"bytes"
	"testing"

	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestAttendanceSheet(t *testing.T) {
	clockIn := "2024-03-04T09:00:00Z"
	data, err := AttendanceSheet(payroll.AttendanceSheetResponse{
		EmployeeCode: "EMP001",
		EmployeeName: "Asha Rao",
		CycleStart:   "2024-02-22T00:00:00.000Z",
		CycleEnd:     "2024-03-21T23:59:59.999Z",
		Days: []payroll.SheetDayResponse{
			{Date: "2024-03-04", Weekday: "Monday", Status: payroll.DayStatusPresent, ClockIn: &clockIn, TotalHours: decimal.RequireFromString("7.5")},
			{Date: "2024-03-05", Weekday: "Tuesday", Status: payroll.DayStatusLeave, IsOnLeave: true},
		},
		Summary: payroll.SheetSummaryResponse{TotalWorkingDays: 2, PresentDays: 1, LeaveDays: 1},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Attendance"}, f.GetSheetList())

	v, err := f.GetCellValue("Attendance", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Employee", v)

	v, err = f.GetCellValue("Attendance", "C5")
	require.NoError(t, err)
	assert.Equal(t, "present", v)

	v, err = f.GetCellValue("Attendance", "G6")
	require.NoError(t, err)
	assert.Equal(t, "Yes", v)
}

func TestPayslip(t *testing.T) {
	data, err := Payslip(payroll.PayslipResponse{
		EmployeeCode:    "EMP001",
		EmployeeName:    "Asha Rao",
		Month:           3,
		Year:            2024,
		BasicSalary:     decimal.NewFromInt(50000),
		GrossSalary:     decimal.NewFromInt(85000),
		TotalDeductions: decimal.NewFromInt(8500),
		NetPay:          decimal.NewFromInt(76500),
		Deductions: []payroll.LineItem{
			{Name: "Absence Deduction", Description: "Absence deduction (2 days × 1.5)", Amount: decimal.NewFromInt(8500)},
		},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Payslip")
	require.NoError(t, err)

	var net []string
	for _, r := range rows {
		if len(r) > 0 && r[0] == "Net Pay" {
			net = r
		}
	}
	require.NotNil(t, net)
	assert.Equal(t, "76500.00", net[len(net)-1])

	period, err := f.GetCellValue("Payslip", "B2")
	require.NoError(t, err)
	assert.Equal(t, "2024-03", period)
}
