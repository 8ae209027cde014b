package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	tests := []struct {
		role       Role
		permission Permission
		want       bool
	}{
		{RoleEmployee, PermissionAttendanceClock, true},
		{RoleEmployee, PermissionLeaveApprove, false},
		{RoleDepartmentHead, PermissionLeaveApprove, true},
		{RoleDepartmentHead, PermissionEmployeeManage, false},
		{RoleHRManager, PermissionPayrollProcess, true},
		{RoleHRManager, PermissionCompanyManage, false},
		{RoleAdmin, PermissionCompanyManage, true},
		{Role("Owner"), PermissionViewOwnProfile, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.permission), func(t *testing.T) {
			assert.Equal(t, tt.want, HasPermission(tt.role, tt.permission))
		})
	}
}

func TestRolePermissionsAreIndependent(t *testing.T) {
	// The role tables are built from a shared base slice; appending to one
	// must never leak into another.
	assert.False(t, HasPermission(RoleEmployee, PermissionReviewWrite))
	assert.False(t, HasPermission(RoleDepartmentHead, PermissionPayrollProcess))
}

func TestRoleValid(t *testing.T) {
	for _, r := range Roles {
		assert.True(t, r.Valid())
	}
	assert.False(t, Role("Pending").Valid())
}
