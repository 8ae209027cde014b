package employee

import (
	"context"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
)

// EmployeeService defines business logic for employee operations
type EmployeeService interface {
	Me(ctx context.Context, session user.Session) (EmployeeResponse, error)
	List(ctx context.Context, session user.Session) ([]EmployeeResponse, error)
	Get(ctx context.Context, session user.Session, id string) (EmployeeResponse, error)
	UpdateProfile(ctx context.Context, session user.Session, req UpdateProfileRequest) (EmployeeResponse, error)

	// UpdateAvatar stores a new profile picture only after it passes portrait validation.
	UpdateAvatar(ctx context.Context, session user.Session, req UpdateAvatarRequest) (EmployeeResponse, error)
	CompleteOnboarding(ctx context.Context, session user.Session) (EmployeeResponse, error)

	// Remove schedules the employee for deletion; nothing is deleted immediately.
	Remove(ctx context.Context, session user.Session, id string, req RemoveEmployeeRequest) (EmployeeResponse, error)
	OrgChart(ctx context.Context, session user.Session) (OrgChart, error)
}
