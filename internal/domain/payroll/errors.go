package payroll

import "errors"

var (
	ErrPayslipAlreadyExists = errors.New("payslip for this period already exists")
	ErrPayslipNotFound      = errors.New("payslip not found")
)
