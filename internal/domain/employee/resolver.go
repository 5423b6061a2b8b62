package employee

import (
	"context"
	"strings"

	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/pkg/validator"
)

// Resolve looks an employee up by internal id when ref is a UUID, otherwise
// by business employee code.
func Resolve(ctx context.Context, repo EmployeeRepository, ref string) (Employee, error) {
	ref = strings.TrimSpace(ref)
	if validator.IsEmpty(ref) {
		return Employee{}, ErrInvalidEmployeeRef
	}
	if validator.IsValidUUID(ref) {
		return repo.GetByID(ctx, strings.ToLower(ref))
	}
	if !validator.IsValidEmployeeCode(ref) {
		return Employee{}, ErrInvalidEmployeeRef
	}
	return repo.GetByEmployeeCode(ctx, ref)
}
