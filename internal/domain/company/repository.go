package company

import "context"

type CompanyRepository interface {
	// Create inserts a company. A taken invitation code yields ErrInvitationCodeConflict.
	Create(ctx context.Context, newCompany Company) (Company, error)
	GetByID(ctx context.Context, id string) (Company, error)
	GetByInvitationCode(ctx context.Context, code string) (Company, error)
	ExistsByInvitationCode(ctx context.Context, code string) (bool, error)
	// UpdateInvitationCode yields ErrInvitationCodeConflict when code is taken.
	UpdateInvitationCode(ctx context.Context, id, code string) error
	UpdateGeofence(ctx context.Context, id string, req UpdateGeofenceRequest) (Company, error)
	UpdateTimezone(ctx context.Context, id, timezone string) (Company, error)
}
