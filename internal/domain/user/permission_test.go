package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleGlobalAdmin, PermissionAttendanceApprove))
	assert.True(t, HasPermission(RoleManager, PermissionAttendanceApprove))
	assert.False(t, HasPermission(RoleEmployee, PermissionAttendanceApprove))
	assert.False(t, HasPermission(RoleManager, PermissionPayrollGenerate))
	assert.False(t, HasPermission(Role("intern"), PermissionAttendanceViewOwn))
	assert.True(t, HasPermission(RoleEmployee, PermissionPayrollViewOwn))
	assert.False(t, HasPermission(RoleEmployee, PermissionPayrollViewAll))
	assert.False(t, HasPermission(RoleManager, PermissionAttendanceViewAll))
}

func TestRequester_Roles(t *testing.T) {
	assert.True(t, Requester{Role: RoleHRManager}.IsAdmin())
	assert.True(t, Requester{Role: RoleManager}.IsManager())
	assert.False(t, Requester{Role: RoleHRManager}.IsManager())
	assert.False(t, Role("").IsValid())
}
