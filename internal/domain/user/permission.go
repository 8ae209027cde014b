package user

type Permission string

const (
	PermissionViewOwnProfile Permission = "profile.view_own"
	PermissionEditOwnProfile Permission = "profile.edit_own"

	PermissionAttendanceClock   Permission = "attendance.clock"
	PermissionAttendanceViewOwn Permission = "attendance.view_own"

	PermissionLeaveCreate  Permission = "leave.create"
	PermissionLeaveApprove Permission = "leave.approve"

	PermissionEmployeeViewAll Permission = "employee.view_all"
	PermissionEmployeeManage  Permission = "employee.manage"
	PermissionOrgChartView    Permission = "employee.org_chart"

	PermissionCompanyManage Permission = "company.manage"

	PermissionPayrollProcess Permission = "payroll.process"
	PermissionReviewWrite    Permission = "performance.write"
	PermissionReviewViewAll  Permission = "performance.view_all"

	PermissionReportsView Permission = "reports.view"
)

var basePermissions = []Permission{
	PermissionViewOwnProfile,
	PermissionEditOwnProfile,
	PermissionAttendanceClock,
	PermissionAttendanceViewOwn,
	PermissionLeaveCreate,
}

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleEmployee: basePermissions,
	RoleDepartmentHead: append(append([]Permission{}, basePermissions...),
		PermissionLeaveApprove,
		PermissionEmployeeViewAll,
		PermissionReviewWrite,
	),
	RoleHRManager: append(append([]Permission{}, basePermissions...),
		PermissionLeaveApprove,
		PermissionEmployeeViewAll,
		PermissionEmployeeManage,
		PermissionOrgChartView,
		PermissionPayrollProcess,
		PermissionReviewWrite,
		PermissionReviewViewAll,
		PermissionReportsView,
	),
	RoleAdmin: append(append([]Permission{}, basePermissions...),
		PermissionLeaveApprove,
		PermissionEmployeeViewAll,
		PermissionEmployeeManage,
		PermissionOrgChartView,
		PermissionCompanyManage,
		PermissionPayrollProcess,
		PermissionReviewWrite,
		PermissionReviewViewAll,
		PermissionReportsView,
	),
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
