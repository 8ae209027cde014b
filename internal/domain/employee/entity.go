package employee

import (
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
)

type Employee struct {
	ID                    string
	CompanyID             string
	Name                  string
	Email                 string
	PasswordHash          string
	Role                  user.Role
	AvatarURL             *string
	OnboardingCompleted   bool
	ManagerID             *string
	ScheduledDeletionDate *time.Time
	TerminationReason     *string
	Department            *string
	JobTitle              *string
	Phone                 *string
	DateOfJoining         time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// ScheduledForDeletion reports whether a removal has been requested.
// Such accounts keep their data but can no longer sign in.
func (e Employee) ScheduledForDeletion() bool {
	return e.ScheduledDeletionDate != nil
}

// RemovalGracePeriod is how long a removed employee stays in the store
// before the external deletion job is told to purge them.
const RemovalGracePeriod = 10 * 24 * time.Hour
