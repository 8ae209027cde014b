package auth

import (
	"strings"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/verification"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

type credentials struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

func (c *credentials) normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Phone = strings.TrimSpace(c.Phone)
}

func (c *credentials) validate(errs *validator.ValidationErrors) {
	if validator.IsEmpty(c.Name) {
		errs.Add("name", "name is required")
	} else if len(c.Name) > 255 {
		errs.Add("name", "name must not exceed 255 characters")
	}

	if validator.IsEmpty(c.Email) {
		errs.Add("email", "email is required")
	} else if len(c.Email) > 254 {
		errs.Add("email", "email must not exceed 254 characters")
	} else if !validator.IsValidEmail(c.Email) {
		errs.Add("email", "email must be a valid email address, e.g. user@example.com")
	}

	if validator.IsEmpty(c.Password) {
		errs.Add("password", "password is required")
	} else if len(c.Password) < 8 {
		errs.Add("password", "password must be at least 8 characters long")
	} else if len(c.Password) > 72 {
		// bcrypt ignores everything past 72 bytes
		errs.Add("password", "password must not exceed 72 characters")
	}

	if c.Phone != "" && !validator.IsValidPhoneNumber(c.Phone) {
		errs.Add("phone", "phone must be 7-15 digits")
	}
}

type AdminSignupRequest struct {
	credentials
	CompanyName string              `json:"company_name"`
	Avatar      *verification.Image `json:"-"`
}

func (r *AdminSignupRequest) Validate() error {
	var errs validator.ValidationErrors

	r.normalize()
	r.CompanyName = strings.TrimSpace(r.CompanyName)
	r.credentials.validate(&errs)

	if validator.IsEmpty(r.CompanyName) {
		errs.Add("company_name", "company_name is required")
	} else if len(r.CompanyName) > 255 {
		errs.Add("company_name", "company_name must not exceed 255 characters")
	}
	if r.Avatar == nil || len(r.Avatar.Data) == 0 {
		errs.Add("avatar", "avatar is required")
	}

	return errs.Err()
}

type EmployeeSignupRequest struct {
	credentials
	InvitationCode string              `json:"invitation_code"`
	Avatar         *verification.Image `json:"-"`
}

func (r *EmployeeSignupRequest) Validate() error {
	var errs validator.ValidationErrors

	r.normalize()
	r.InvitationCode = strings.ToUpper(strings.TrimSpace(r.InvitationCode))
	r.credentials.validate(&errs)

	if validator.IsEmpty(r.InvitationCode) {
		errs.Add("invitation_code", "invitation_code is required")
	} else if !validator.IsValidInvitationCode(r.InvitationCode) {
		errs.Add("invitation_code", "invitation_code must be 6 letters or digits")
	}
	if r.Avatar == nil || len(r.Avatar.Data) == 0 {
		errs.Add("avatar", "avatar is required")
	}

	return errs.Err()
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = strings.ToLower(strings.TrimSpace(r.Email))

	// Email
	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}

	// Password
	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AuthResponse struct {
	AccessToken string                    `json:"access_token"`
	TokenType   string                    `json:"token_type"`
	ExpiresAt   int64                     `json:"expires_at"`
	Employee    employee.EmployeeResponse `json:"employee"`
	// InvitationCode is returned once to the admin who created the company.
	InvitationCode string `json:"invitation_code,omitempty"`
}
