package company

import (
	"context"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
)

// InvitationCodeIssuer assigns a fresh unique invitation code to a company.
// It joins the caller's transaction when one is open.
type InvitationCodeIssuer interface {
	Issue(ctx context.Context, companyID string) (string, error)
}

type CompanyService interface {
	GetMy(ctx context.Context, session user.Session) (CompanyResponse, error)
	UpdateGeofence(ctx context.Context, session user.Session, req UpdateGeofenceRequest) (CompanyResponse, error)
	UpdateTimezone(ctx context.Context, session user.Session, req UpdateTimezoneRequest) (CompanyResponse, error)
	RegenerateInvitationCode(ctx context.Context, session user.Session) (InvitationCodeResponse, error)
	ShareInvitationCode(ctx context.Context, session user.Session, req ShareInvitationRequest) (ShareInvitationResponse, error)
}
