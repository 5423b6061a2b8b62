package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type payslipRepository struct {
	db *database.DB
}

func NewPayslipRepository(db *database.DB) payroll.PayslipRepository {
	return &payslipRepository{db: db}
}

const payslipColumns = `
	id, employee_id, period_month, period_year, cycle_start, cycle_end,
	basic_salary, gross_salary, per_day_salary, working_days, absent_days, absence_deduction,
	allowances, deductions, total_deductions, net_pay, created_at`

func scanPayslip(row pgx.Row) (payroll.Payslip, error) {
	var (
		p                      payroll.Payslip
		allowances, deductions []byte
	)
	err := row.Scan(
		&p.ID, &p.EmployeeID, &p.PeriodMonth, &p.PeriodYear, &p.CycleStart, &p.CycleEnd,
		&p.BasicSalary, &p.GrossSalary, &p.PerDaySalary, &p.WorkingDays, &p.AbsentDays, &p.AbsenceDeduction,
		&allowances, &deductions, &p.TotalDeductions, &p.NetPay, &p.CreatedAt,
	)
	if err != nil {
		return payroll.Payslip{}, err
	}
	if err := json.Unmarshal(allowances, &p.Allowances); err != nil {
		return payroll.Payslip{}, fmt.Errorf("failed to decode allowances: %w", err)
	}
	if err := json.Unmarshal(deductions, &p.Deductions); err != nil {
		return payroll.Payslip{}, fmt.Errorf("failed to decode deductions: %w", err)
	}
	return p, nil
}

// Create implements payroll.PayslipRepository.
func (r *payslipRepository) Create(ctx context.Context, p payroll.Payslip) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	allowances, err := json.Marshal(nonNilItems(p.Allowances))
	if err != nil {
		return payroll.Payslip{}, fmt.Errorf("failed to encode allowances: %w", err)
	}
	deductions, err := json.Marshal(nonNilItems(p.Deductions))
	if err != nil {
		return payroll.Payslip{}, fmt.Errorf("failed to encode deductions: %w", err)
	}

	query := `
		INSERT INTO payslips (
			id, employee_id, period_month, period_year, cycle_start, cycle_end,
			basic_salary, gross_salary, per_day_salary, working_days, absent_days, absence_deduction,
			allowances, deductions, total_deductions, net_pay
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + payslipColumns

	saved, err := scanPayslip(q.QueryRow(ctx, query,
		p.ID, p.EmployeeID, p.PeriodMonth, p.PeriodYear, p.CycleStart, p.CycleEnd,
		p.BasicSalary, p.GrossSalary, p.PerDaySalary, p.WorkingDays, p.AbsentDays, p.AbsenceDeduction,
		allowances, deductions, p.TotalDeductions, p.NetPay,
	))
	if err != nil {
		if isUniqueViolation(err, "uq_payslips_employee_period") {
			return payroll.Payslip{}, payroll.ErrPayslipAlreadyExists
		}
		return payroll.Payslip{}, fmt.Errorf("failed to create payslip: %w", err)
	}
	return saved, nil
}

// GetByPeriod implements payroll.PayslipRepository.
func (r *payslipRepository) GetByPeriod(ctx context.Context, employeeID string, month, year int) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payslipColumns + `
		FROM payslips
		WHERE employee_id = $1 AND period_month = $2 AND period_year = $3`

	p, err := scanPayslip(q.QueryRow(ctx, query, employeeID, month, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payslip{}, payroll.ErrPayslipNotFound
		}
		return payroll.Payslip{}, fmt.Errorf("failed to get payslip: %w", err)
	}
	return p, nil
}

// ListByEmployee implements payroll.PayslipRepository.
func (r *payslipRepository) ListByEmployee(ctx context.Context, employeeID string) ([]payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payslipColumns + `
		FROM payslips
		WHERE employee_id = $1
		ORDER BY period_year DESC, period_month DESC`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslips: %w", err)
	}
	defer rows.Close()

	var payslips []payroll.Payslip
	for rows.Next() {
		p, err := scanPayslip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payslip: %w", err)
		}
		payslips = append(payslips, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payslips: %w", err)
	}
	return payslips, nil
}

func nonNilItems(items []payroll.LineItem) []payroll.LineItem {
	if items == nil {
		return []payroll.LineItem{}
	}
	return items
}
