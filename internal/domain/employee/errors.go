package employee

import "errors"

var (
	ErrEmployeeNotFound           = errors.New("employee not found")
	ErrEmailExists                = errors.New("email already registered")
	ErrInvalidRole                = errors.New("invalid role")
	ErrCannotRemoveSelf           = errors.New("cannot remove your own account")
	ErrAlreadyScheduledForRemoval = errors.New("employee is already scheduled for removal")
	ErrInvalidManager             = errors.New("manager must be another employee of the same company")
	ErrForbidden                  = errors.New("insufficient permissions")
)
