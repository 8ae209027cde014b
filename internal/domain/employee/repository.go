package employee

import (
	"context"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
)

type EmployeeRepository interface {
	// Create inserts an employee. A duplicate email yields ErrEmailExists.
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	GetByID(ctx context.Context, id, companyID string) (Employee, error)
	GetByEmail(ctx context.Context, email string) (Employee, error)
	ListByCompany(ctx context.Context, companyID string) ([]Employee, error)
	ListByRole(ctx context.Context, companyID string, role user.Role) ([]Employee, error)
	UpdateProfile(ctx context.Context, id, companyID string, req UpdateProfileRequest) (Employee, error)
	UpdateAvatar(ctx context.Context, id, companyID, avatarURL string) (Employee, error)
	CompleteOnboarding(ctx context.Context, id, companyID string) (Employee, error)
	// ScheduleDeletion only succeeds for employees not already scheduled.
	ScheduleDeletion(ctx context.Context, id, companyID string, date time.Time, reason string) (Employee, error)
	// ListDeletionDue returns employees past their deletion date whose
	// deletion-due event has not been marked as published.
	ListDeletionDue(ctx context.Context, now time.Time) ([]Employee, error)
	MarkDeletionDuePublished(ctx context.Context, ids []string, at time.Time) error
}
