package company

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/email"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentEmails bounds SMTP connections opened by one share request.
const maxConcurrentEmails = 5

type CompanyServiceImpl struct {
	company.CompanyRepository
	employeeRepo employee.EmployeeRepository
	issuer       company.InvitationCodeIssuer
	emailService email.EmailService
	frontendURL  string
}

func NewCompanyService(
	companyRepo company.CompanyRepository,
	employeeRepo employee.EmployeeRepository,
	issuer company.InvitationCodeIssuer,
	emailService email.EmailService,
	frontendURL string,
) company.CompanyService {
	return &CompanyServiceImpl{
		CompanyRepository: companyRepo,
		employeeRepo:      employeeRepo,
		issuer:            issuer,
		emailService:      emailService,
		frontendURL:       frontendURL,
	}
}

// GetMy implements company.CompanyService.
func (c *CompanyServiceImpl) GetMy(ctx context.Context, session user.Session) (company.CompanyResponse, error) {
	companyData, err := c.CompanyRepository.GetByID(ctx, session.CompanyID)
	if err != nil {
		return company.CompanyResponse{}, err
	}
	return company.NewCompanyResponse(companyData, session.Can(user.PermissionCompanyManage)), nil
}

// UpdateGeofence implements company.CompanyService.
func (c *CompanyServiceImpl) UpdateGeofence(ctx context.Context, session user.Session, req company.UpdateGeofenceRequest) (company.CompanyResponse, error) {
	if !session.Can(user.PermissionCompanyManage) {
		return company.CompanyResponse{}, user.ErrInsufficientPermission
	}

	updated, err := c.CompanyRepository.UpdateGeofence(ctx, session.CompanyID, req)
	if err != nil {
		return company.CompanyResponse{}, err
	}

	slog.Info("Company geofence updated", "company_id", session.CompanyID, "radius_meters", req.RadiusMeters)
	return company.NewCompanyResponse(updated, true), nil
}

// UpdateTimezone implements company.CompanyService.
func (c *CompanyServiceImpl) UpdateTimezone(ctx context.Context, session user.Session, req company.UpdateTimezoneRequest) (company.CompanyResponse, error) {
	if !session.Can(user.PermissionCompanyManage) {
		return company.CompanyResponse{}, user.ErrInsufficientPermission
	}

	updated, err := c.CompanyRepository.UpdateTimezone(ctx, session.CompanyID, req.Timezone)
	if err != nil {
		return company.CompanyResponse{}, err
	}
	return company.NewCompanyResponse(updated, true), nil
}

// RegenerateInvitationCode implements company.CompanyService.
func (c *CompanyServiceImpl) RegenerateInvitationCode(ctx context.Context, session user.Session) (company.InvitationCodeResponse, error) {
	if !session.Can(user.PermissionCompanyManage) {
		return company.InvitationCodeResponse{}, user.ErrInsufficientPermission
	}

	code, err := c.issuer.Issue(ctx, session.CompanyID)
	if err != nil {
		return company.InvitationCodeResponse{}, err
	}
	return company.InvitationCodeResponse{InvitationCode: code}, nil
}

// ShareInvitationCode implements company.CompanyService.
// Failed deliveries are reported per address rather than failing the request.
func (c *CompanyServiceImpl) ShareInvitationCode(ctx context.Context, session user.Session, req company.ShareInvitationRequest) (company.ShareInvitationResponse, error) {
	if !session.Can(user.PermissionCompanyManage) {
		return company.ShareInvitationResponse{}, user.ErrInsufficientPermission
	}

	companyData, err := c.CompanyRepository.GetByID(ctx, session.CompanyID)
	if err != nil {
		return company.ShareInvitationResponse{}, err
	}
	if companyData.InvitationCode == company.PendingInvitationCode {
		return company.ShareInvitationResponse{}, company.ErrAdminSignupInProgress
	}
	inviter, err := c.employeeRepo.GetByID(ctx, session.EmployeeID, session.CompanyID)
	if err != nil {
		return company.ShareInvitationResponse{}, fmt.Errorf("failed to get inviter: %w", err)
	}

	signupURL := c.signupURL(companyData.InvitationCode)

	var (
		mu   sync.Mutex
		resp = company.ShareInvitationResponse{Sent: []string{}}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentEmails)
	for _, to := range req.Emails {
		g.Go(func() error {
			err := c.emailService.SendInvitationCode(gctx, to, inviter.Name, companyData.Name, companyData.InvitationCode, signupURL)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				slog.Error("Failed to send invitation email", "to", to, "company_id", session.CompanyID, "error", err)
				resp.Failed = append(resp.Failed, to)
				return nil
			}
			resp.Sent = append(resp.Sent, to)
			return nil
		})
	}
	_ = g.Wait()

	return resp, nil
}

func (c *CompanyServiceImpl) signupURL(code string) string {
	return fmt.Sprintf("%s/signup?code=%s", c.frontendURL, url.QueryEscape(code))
}
