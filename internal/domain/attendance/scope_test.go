package attendance

import (
	"testing"

	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeFor(t *testing.T) {
	employeeID := "emp-1"

	tests := []struct {
		name      string
		requester user.Requester
		want      Scope
	}{
		{"global admin", user.Requester{UserID: "u1", Role: user.RoleGlobalAdmin}, Scope{All: true}},
		{"hr manager", user.Requester{UserID: "u2", Role: user.RoleHRManager}, Scope{All: true}},
		{"manager", user.Requester{UserID: "u3", Role: user.RoleManager}, Scope{ManagerUserID: "u3"}},
		{"employee", user.Requester{UserID: "u4", Role: user.RoleEmployee, EmployeeID: &employeeID}, Scope{EmployeeIDs: []string{"emp-1"}}},
		{"employee without record", user.Requester{UserID: "u5", Role: user.RoleEmployee}, Scope{EmployeeIDs: []string{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ScopeFor(tt.requester)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScopeFor_UnknownRole(t *testing.T) {
	_, err := ScopeFor(user.Requester{UserID: "u", Role: "intern"})
	assert.ErrorIs(t, err, user.ErrUnknownRole)
}
