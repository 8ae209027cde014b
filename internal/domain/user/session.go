package user

// Session is the authenticated caller, built from verified token claims
// and passed explicitly to every service call that needs it.
type Session struct {
	EmployeeID string
	CompanyID  string
	Role       Role
}

func (s Session) Can(p Permission) bool {
	return HasPermission(s.Role, p)
}

func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}
