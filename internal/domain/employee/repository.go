package employee

import "context"

// EmployeeRepository is the read-only employee directory used by timekeeping.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByEmployeeCode(ctx context.Context, employeeCode string) (Employee, error)

	// GetManager returns ErrManagerNotFound when the employee has no manager
	// or the manager has no user account.
	GetManager(ctx context.Context, employeeID string) (Manager, error)

	// GetDirectReportIDs lists employees whose manager is linked to managerUserID.
	GetDirectReportIDs(ctx context.Context, managerUserID string) ([]string, error)

	GetCompensation(ctx context.Context, employeeID string) (Compensation, error)
}
