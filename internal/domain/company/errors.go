package company

import "errors"

var (
	ErrCompanyNotFound         = errors.New("company not found")
	ErrInvalidInvitationCode   = errors.New("invalid invitation code")
	ErrInvitationCodeConflict  = errors.New("invitation code already in use")
	ErrInvitationCodeExhausted = errors.New("could not generate a unique invitation code, please try again")
	ErrAdminSignupInProgress   = errors.New("another company registration is in progress, please try again shortly")
)
