package user

import "errors"

var (
	ErrInsufficientPermission = errors.New("insufficient permissions")
	ErrInvalidSession         = errors.New("session is missing or invalid")
)
