package user

type Role string

const (
	RoleEmployee       Role = "Employee"
	RoleDepartmentHead Role = "Department Head"
	RoleHRManager      Role = "HR Manager"
	RoleAdmin          Role = "Admin"
)

var Roles = []Role{RoleEmployee, RoleDepartmentHead, RoleHRManager, RoleAdmin}

func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}
