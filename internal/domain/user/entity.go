package user

type Role string

const (
	RoleGlobalAdmin Role = "global_admin" // Sees and approves everything
	RoleHRManager   Role = "hr_manager"   // Company-wide HR access
	RoleManager     Role = "manager"      // Approves direct reports
	RoleEmployee    Role = "employee"     // Own records only
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleGlobalAdmin, RoleHRManager, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// Requester is the authenticated caller of an operation, built from token claims.
type Requester struct {
	UserID     string
	EmployeeID *string
	Role       Role
}

// IsAdmin checks if the requester has company-wide access
func (r Requester) IsAdmin() bool {
	return r.Role == RoleGlobalAdmin || r.Role == RoleHRManager
}

// IsManager checks if the requester is a line manager
func (r Requester) IsManager() bool {
	return r.Role == RoleManager
}
