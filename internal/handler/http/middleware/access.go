package middleware

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/domain/auth"
	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

// EmployeeAccess describes who may act on the employee named by the
// {employeeRef} URL parameter.
type EmployeeAccess struct {
	// Own lets a requester act on their own employee record.
	Own user.Permission
	// All lets a requester act on any employee.
	All user.Permission
	// DirectReports lets managers act on employees reporting to them.
	DirectReports bool
}

// RequireEmployeeAccess resolves {employeeRef} and lets the request through
// when the requester holds rule.All, is the employee and holds rule.Own, or
// manages the employee and rule.DirectReports is set.
func RequireEmployeeAccess(employees employee.EmployeeRepository, rule EmployeeAccess) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requester, ok := GetRequester(r.Context())
			if !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if rule.All != "" && user.HasPermission(requester.Role, rule.All) {
				next.ServeHTTP(w, r)
				return
			}

			emp, err := employee.Resolve(r.Context(), employees, chi.URLParam(r, "employeeRef"))
			if err != nil {
				response.HandleError(w, err)
				return
			}

			if requester.EmployeeID != nil && *requester.EmployeeID == emp.ID && user.HasPermission(requester.Role, rule.Own) {
				next.ServeHTTP(w, r)
				return
			}

			if rule.DirectReports && requester.IsManager() {
				reports, err := employees.GetDirectReportIDs(r.Context(), requester.UserID)
				if err != nil {
					response.HandleError(w, fmt.Errorf("failed to get direct reports: %w", err))
					return
				}
				if slices.Contains(reports, emp.ID) {
					next.ServeHTTP(w, r)
					return
				}
			}

			response.HandleError(w, user.ErrInsufficientPermissions)
		})
	}
}
