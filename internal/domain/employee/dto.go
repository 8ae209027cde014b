package employee

import (
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/verification"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

type UpdateProfileRequest struct {
	Name       *string `json:"name,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Department *string `json:"department,omitempty"`
	JobTitle   *string `json:"job_title,omitempty"`
	ManagerID  *string `json:"manager_id,omitempty"`
}

func (r *UpdateProfileRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs.Add("name", "name cannot be empty")
		} else if len(*r.Name) > 255 {
			errs.Add("name", "name must not exceed 255 characters")
		}
	}
	if r.Phone != nil && *r.Phone != "" && !validator.IsValidPhoneNumber(*r.Phone) {
		errs.Add("phone", "phone must be 7-15 digits")
	}
	if r.Department != nil && len(*r.Department) > 100 {
		errs.Add("department", "department must not exceed 100 characters")
	}
	if r.JobTitle != nil && len(*r.JobTitle) > 100 {
		errs.Add("job_title", "job_title must not exceed 100 characters")
	}
	if r.ManagerID != nil && *r.ManagerID != "" && !validator.IsValidUUID(*r.ManagerID) {
		errs.Add("manager_id", "manager_id must be a valid UUID")
	}

	return errs.Err()
}

func (r *UpdateProfileRequest) Empty() bool {
	return r.Name == nil && r.Phone == nil && r.Department == nil && r.JobTitle == nil && r.ManagerID == nil
}

type UpdateAvatarRequest struct {
	Avatar *verification.Image
}

func (r *UpdateAvatarRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Avatar == nil || len(r.Avatar.Data) == 0 {
		errs.Add("avatar", "avatar is required")
	}
	return errs.Err()
}

type RemoveEmployeeRequest struct {
	Reason string `json:"reason"`
}

func (r *RemoveEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "reason is required")
	} else if len(r.Reason) > 1000 {
		errs.Add("reason", "reason must not exceed 1000 characters")
	}
	return errs.Err()
}

type EmployeeResponse struct {
	ID                    string     `json:"id"`
	CompanyID             string     `json:"company_id"`
	Name                  string     `json:"name"`
	Email                 string     `json:"email"`
	Role                  user.Role  `json:"role"`
	AvatarURL             *string    `json:"avatar_url,omitempty"`
	OnboardingCompleted   bool       `json:"onboarding_completed"`
	ManagerID             *string    `json:"manager_id,omitempty"`
	Department            *string    `json:"department,omitempty"`
	JobTitle              *string    `json:"job_title,omitempty"`
	Phone                 *string    `json:"phone,omitempty"`
	DateOfJoining         string     `json:"date_of_joining"`
	ScheduledDeletionDate *time.Time `json:"scheduled_deletion_date,omitempty"`
	TerminationReason     *string    `json:"termination_reason,omitempty"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:                    e.ID,
		CompanyID:             e.CompanyID,
		Name:                  e.Name,
		Email:                 e.Email,
		Role:                  e.Role,
		AvatarURL:             e.AvatarURL,
		OnboardingCompleted:   e.OnboardingCompleted,
		ManagerID:             e.ManagerID,
		Department:            e.Department,
		JobTitle:              e.JobTitle,
		Phone:                 e.Phone,
		DateOfJoining:         e.DateOfJoining.Format("2006-01-02"),
		ScheduledDeletionDate: e.ScheduledDeletionDate,
		TerminationReason:     e.TerminationReason,
	}
}

// ResolveAvatar swaps the stored avatar key for a URL clients can fetch.
func (r EmployeeResponse) ResolveAvatar(url func(key string) string) EmployeeResponse {
	if r.AvatarURL != nil && *r.AvatarURL != "" {
		resolved := url(*r.AvatarURL)
		r.AvatarURL = &resolved
	}
	return r
}

// OrgChartNode is one employee and their direct reports.
type OrgChartNode struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Role       user.Role       `json:"role"`
	JobTitle   *string         `json:"job_title,omitempty"`
	Department *string         `json:"department,omitempty"`
	AvatarURL  *string         `json:"avatar_url,omitempty"`
	Reports    []*OrgChartNode `json:"reports"`
}

type OrgChart struct {
	Roots []*OrgChartNode `json:"roots"`
	// Cycles lists reporting loops found in manager links, by employee ID.
	// Each loop is broken at one member, who is then shown as a root.
	Cycles [][]string `json:"cycles,omitempty"`
}
