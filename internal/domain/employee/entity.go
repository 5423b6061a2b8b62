package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID           string
	UserID       *string
	EmployeeCode string
	FullName     string
	ManagerID    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Manager is the approving user behind an employee's reporting line.
type Manager struct {
	EmployeeID string
	UserID     string
	FullName   string
}

// Compensation holds the monthly salary figures payroll reads.
type Compensation struct {
	EmployeeID         string
	BasicSalary        decimal.Decimal
	HouseRentAllowance decimal.Decimal
	SpecialAllowance   decimal.Decimal
	EmployeePF         decimal.Decimal
	EmployeeESI        decimal.Decimal
	ProfessionalTax    decimal.Decimal
	IncomeTax          decimal.Decimal
	UpdatedAt          time.Time
}

// GrossSalary is basic + HRA + special allowance.
func (c Compensation) GrossSalary() decimal.Decimal {
	return c.BasicSalary.Add(c.HouseRentAllowance).Add(c.SpecialAllowance)
}
