package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func (e *employeeRepositoryImpl) getOne(ctx context.Context, where string, arg string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT id, user_id, employee_code, full_name, manager_id, created_at, updated_at
		FROM employees
		WHERE ` + where

	var emp employee.Employee
	err := q.QueryRow(ctx, query, arg).Scan(
		&emp.ID, &emp.UserID, &emp.EmployeeCode, &emp.FullName, &emp.ManagerID, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return e.getOne(ctx, "id = $1", id)
}

// GetByEmployeeCode implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByEmployeeCode(ctx context.Context, employeeCode string) (employee.Employee, error) {
	return e.getOne(ctx, "employee_code = $1", employeeCode)
}

// GetManager implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetManager(ctx context.Context, employeeID string) (employee.Manager, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT m.id, m.user_id, m.full_name
		FROM employees e
		JOIN employees m ON m.id = e.manager_id
		WHERE e.id = $1 AND m.user_id IS NOT NULL
	`

	var mgr employee.Manager
	err := q.QueryRow(ctx, query, employeeID).Scan(&mgr.EmployeeID, &mgr.UserID, &mgr.FullName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Manager{}, employee.ErrManagerNotFound
		}
		return employee.Manager{}, fmt.Errorf("failed to get manager: %w", err)
	}
	return mgr, nil
}

// GetDirectReportIDs implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetDirectReportIDs(ctx context.Context, managerUserID string) ([]string, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT e.id
		FROM employees e
		JOIN employees m ON m.id = e.manager_id
		WHERE m.user_id = $1
		ORDER BY e.employee_code
	`

	rows, err := q.Query(ctx, query, managerUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get direct reports: %w", err)
	}
	defer rows.Close()

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan direct reports: %w", err)
	}
	return ids, nil
}

// GetCompensation implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetCompensation(ctx context.Context, employeeID string) (employee.Compensation, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT employee_id, basic_salary, house_rent_allowance, special_allowance,
			   employee_pf, employee_esi, professional_tax, income_tax, updated_at
		FROM compensations
		WHERE employee_id = $1
	`

	var c employee.Compensation
	err := q.QueryRow(ctx, query, employeeID).Scan(
		&c.EmployeeID, &c.BasicSalary, &c.HouseRentAllowance, &c.SpecialAllowance,
		&c.EmployeePF, &c.EmployeeESI, &c.ProfessionalTax, &c.IncomeTax, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Compensation{}, employee.ErrCompensationNotFound
		}
		return employee.Compensation{}, fmt.Errorf("failed to get compensation: %w", err)
	}
	return c, nil
}
