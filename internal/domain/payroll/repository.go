package payroll

import "context"

// PayslipRepository persists generated payslips
type PayslipRepository interface {
	// Create returns ErrPayslipAlreadyExists for a duplicate employee period.
	Create(ctx context.Context, payslip Payslip) (Payslip, error)

	GetByPeriod(ctx context.Context, employeeID string, month, year int) (Payslip, error)

	// ListByEmployee returns payslips newest period first.
	ListByEmployee(ctx context.Context, employeeID string) ([]Payslip, error)
}
