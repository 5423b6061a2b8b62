package payroll

import (
	"fmt"

	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

var (
	// PerDayDivisor is fixed regardless of the cycle's actual length.
	PerDayDivisor = decimal.NewFromInt(30)

	// AbsencePenaltyMultiplier applies to each unexcused absent working day.
	AbsencePenaltyMultiplier = decimal.RequireFromString("1.5")
)

// CalculatePayslip fills the money fields of a payslip from compensation and
// the number of absent working days. Amounts are rounded to 2 places once,
// after the full computation.
func CalculatePayslip(comp employee.Compensation, absentDays int) Payslip {
	gross := comp.GrossSalary()
	perDay := gross.Div(PerDayDivisor)

	var allowances []LineItem
	if comp.HouseRentAllowance.IsPositive() {
		allowances = append(allowances, LineItem{Name: "House Rent Allowance", Amount: comp.HouseRentAllowance.Round(2)})
	}
	if comp.SpecialAllowance.IsPositive() {
		allowances = append(allowances, LineItem{Name: "Special Allowance", Amount: comp.SpecialAllowance.Round(2)})
	}

	var deductions []LineItem
	for _, d := range []struct {
		name   string
		amount decimal.Decimal
	}{
		{"Employee PF", comp.EmployeePF},
		{"Employee ESI", comp.EmployeeESI},
		{"Professional Tax", comp.ProfessionalTax},
		{"Income Tax", comp.IncomeTax},
	} {
		if d.amount.IsPositive() {
			deductions = append(deductions, LineItem{Name: d.name, Amount: d.amount.Round(2)})
		}
	}

	absenceDeduction := decimal.Zero
	if absentDays > 0 {
		absenceDeduction = decimal.NewFromInt(int64(absentDays)).
			Mul(perDay).
			Mul(AbsencePenaltyMultiplier).
			Round(2)
		deductions = append(deductions, LineItem{
			Name:        "Absence Deduction",
			Description: fmt.Sprintf("Absence deduction (%d days × %s)", absentDays, AbsencePenaltyMultiplier.String()),
			Amount:      absenceDeduction,
		})
	}

	total := decimal.Zero
	for _, d := range deductions {
		total = total.Add(d.Amount)
	}

	return Payslip{
		EmployeeID:       comp.EmployeeID,
		BasicSalary:      comp.BasicSalary.Round(2),
		GrossSalary:      gross.Round(2),
		PerDaySalary:     perDay.Round(2),
		AbsentDays:       absentDays,
		AbsenceDeduction: absenceDeduction,
		Allowances:       allowances,
		Deductions:       deductions,
		TotalDeductions:  total,
		NetPay:           gross.Sub(total).Round(2),
	}
}
