package payroll

import "context"

// PayrollService derives attendance sheets and payslips for a pay cycle.
// It never writes attendance state.
type PayrollService interface {
	GetAttendanceSheet(ctx context.Context, employeeRef string, period PeriodRequest) (AttendanceSheetResponse, error)

	// GeneratePayslip computes the payslip on the fly without persisting it.
	GeneratePayslip(ctx context.Context, employeeRef string, period PeriodRequest) (PayslipResponse, error)

	SavePayslip(ctx context.Context, employeeRef string, period PeriodRequest) (PayslipResponse, error)
	ListPayslipHistory(ctx context.Context, employeeRef string) (ListPayslipResponse, error)

	// ExportAttendanceSheet and ExportPayslip render XLSX workbooks.
	ExportAttendanceSheet(ctx context.Context, employeeRef string, period PeriodRequest) ([]byte, string, error)
	ExportPayslip(ctx context.Context, employeeRef string, period PeriodRequest) ([]byte, string, error)
}
