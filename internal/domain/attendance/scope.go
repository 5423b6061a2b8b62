package attendance

import "github.com/cmlabs-hris/hrms-timekeeping-go/internal/domain/user"

// Scope is the set of attendance rows a requester may read. Exactly one of
// All, ManagerUserID or EmployeeIDs applies; an empty EmployeeIDs matches nothing.
type Scope struct {
	All           bool
	ManagerUserID string
	EmployeeIDs   []string
}

// ScopeFor maps a requester's role to a read scope. Admins see everything,
// managers their direct reports and employees only themselves.
func ScopeFor(requester user.Requester) (Scope, error) {
	switch requester.Role {
	case user.RoleGlobalAdmin, user.RoleHRManager:
		return Scope{All: true}, nil
	case user.RoleManager:
		return Scope{ManagerUserID: requester.UserID}, nil
	case user.RoleEmployee:
		if requester.EmployeeID == nil || *requester.EmployeeID == "" {
			return Scope{EmployeeIDs: []string{}}, nil
		}
		return Scope{EmployeeIDs: []string{*requester.EmployeeID}}, nil
	default:
		return Scope{}, user.ErrUnknownRole
	}
}
