package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/verification"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/ems-backend-go/internal/service/file"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	transactor   database.Transactor
	companyRepo  company.CompanyRepository
	employeeRepo employee.EmployeeRepository
	issuer       company.InvitationCodeIssuer
	verifier     verification.Verifier
	fileService  file.FileService
	jwt.Service
}

func NewAuthService(
	transactor database.Transactor,
	companyRepo company.CompanyRepository,
	employeeRepo employee.EmployeeRepository,
	issuer company.InvitationCodeIssuer,
	verifier verification.Verifier,
	fileService file.FileService,
	jwtService jwt.Service,
) auth.AuthService {
	return &AuthServiceImpl{
		transactor:   transactor,
		companyRepo:  companyRepo,
		employeeRepo: employeeRepo,
		issuer:       issuer,
		verifier:     verifier,
		fileService:  fileService,
		Service:      jwtService,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// SignupAdmin implements auth.AuthService.
// The company holds the PENDING sentinel only inside the transaction; the real
// code is issued before commit, so a committed company always has one.
func (a *AuthServiceImpl) SignupAdmin(ctx context.Context, req auth.AdminSignupRequest) (auth.AuthResponse, error) {
	if req.Avatar == nil {
		return auth.AuthResponse{}, auth.ErrAvatarRequired
	}
	if err := verification.RequireValidPortrait(ctx, a.verifier, *req.Avatar); err != nil {
		return auth.AuthResponse{}, err
	}

	passwordHash, err := a.hashPassword(req.Password)
	if err != nil {
		return auth.AuthResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	var (
		admin     employee.Employee
		code      string
		avatarKey string
	)
	err = a.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		inFlight, err := a.companyRepo.ExistsByInvitationCode(ctx, company.PendingInvitationCode)
		if err != nil {
			return err
		}
		if inFlight {
			return company.ErrAdminSignupInProgress
		}

		newCompany, err := a.companyRepo.Create(ctx, company.Company{
			Name:           req.CompanyName,
			InvitationCode: company.PendingInvitationCode,
		})
		if err != nil {
			if errors.Is(err, company.ErrInvitationCodeConflict) {
				return company.ErrAdminSignupInProgress
			}
			return fmt.Errorf("failed to create company: %w", err)
		}

		admin, err = a.employeeRepo.Create(ctx, employee.Employee{
			CompanyID:    newCompany.ID,
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: passwordHash,
			Role:         user.RoleAdmin,
			Phone:        optional(req.Phone),
		})
		if err != nil {
			return err
		}

		if admin, avatarKey, err = a.attachAvatar(ctx, admin, *req.Avatar); err != nil {
			return err
		}

		code, err = a.issuer.Issue(ctx, newCompany.ID)
		return err
	})
	if err != nil {
		a.discardAvatar(ctx, avatarKey)
		return auth.AuthResponse{}, err
	}

	slog.Info("Company registered", "company_id", admin.CompanyID, "admin_id", admin.ID)

	resp, err := a.issueToken(admin)
	if err != nil {
		return auth.AuthResponse{}, err
	}
	resp.InvitationCode = code
	return resp, nil
}

// SignupEmployee implements auth.AuthService.
func (a *AuthServiceImpl) SignupEmployee(ctx context.Context, req auth.EmployeeSignupRequest) (auth.AuthResponse, error) {
	if req.Avatar == nil {
		return auth.AuthResponse{}, auth.ErrAvatarRequired
	}

	companyData, err := a.companyRepo.GetByInvitationCode(ctx, req.InvitationCode)
	if err != nil {
		if errors.Is(err, company.ErrCompanyNotFound) {
			return auth.AuthResponse{}, company.ErrInvalidInvitationCode
		}
		return auth.AuthResponse{}, err
	}

	if err := verification.RequireValidPortrait(ctx, a.verifier, *req.Avatar); err != nil {
		return auth.AuthResponse{}, err
	}

	passwordHash, err := a.hashPassword(req.Password)
	if err != nil {
		return auth.AuthResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	var (
		newEmployee employee.Employee
		avatarKey   string
	)
	err = a.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		created, err := a.employeeRepo.Create(ctx, employee.Employee{
			CompanyID:    companyData.ID,
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: passwordHash,
			Role:         user.RoleEmployee,
			Phone:        optional(req.Phone),
		})
		if err != nil {
			return err
		}

		newEmployee, avatarKey, err = a.attachAvatar(ctx, created, *req.Avatar)
		return err
	})
	if err != nil {
		a.discardAvatar(ctx, avatarKey)
		return auth.AuthResponse{}, err
	}

	slog.Info("Employee joined company", "company_id", companyData.ID, "employee_id", newEmployee.ID)
	return a.issueToken(newEmployee)
}

// attachAvatar stores the portrait and records its key on the employee.
func (a *AuthServiceImpl) attachAvatar(ctx context.Context, emp employee.Employee, avatar verification.Image) (employee.Employee, string, error) {
	key, err := a.fileService.StoreAvatar(ctx, emp.ID, avatar)
	if err != nil {
		return emp, "", err
	}
	updated, err := a.employeeRepo.UpdateAvatar(ctx, emp.ID, emp.CompanyID, key)
	if err != nil {
		return emp, key, fmt.Errorf("failed to save avatar: %w", err)
	}
	return updated, key, nil
}

func (a *AuthServiceImpl) discardAvatar(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := a.fileService.DeleteFile(ctx, key); err != nil {
		slog.Warn("Failed to remove orphaned avatar", "key", key, "error", err)
	}
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.AuthResponse, error) {
	emp, err := a.employeeRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.AuthResponse{}, auth.ErrInvalidCredentials
		}
		return auth.AuthResponse{}, fmt.Errorf("failed to get employee by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(req.Password)); err != nil {
		return auth.AuthResponse{}, auth.ErrInvalidCredentials
	}

	if emp.ScheduledForDeletion() {
		reason := ""
		if emp.TerminationReason != nil {
			reason = *emp.TerminationReason
		}
		return auth.AuthResponse{}, &auth.ScheduledDeletionError{Date: *emp.ScheduledDeletionDate, Reason: reason}
	}

	return a.issueToken(emp)
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, accessToken string) error {
	token, err := a.Service.JWTAuth().Decode(accessToken)
	if err != nil {
		return auth.ErrInvalidToken
	}
	a.Service.RevokeToken(accessToken, token.Expiration().Unix())
	return nil
}

func (a *AuthServiceImpl) issueToken(emp employee.Employee) (auth.AuthResponse, error) {
	session := user.Session{EmployeeID: emp.ID, CompanyID: emp.CompanyID, Role: emp.Role}

	accessToken, expiresAt, err := a.Service.GenerateAccessToken(session, emp.Email)
	if err != nil {
		return auth.AuthResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	return auth.AuthResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		Employee:    employee.NewEmployeeResponse(emp).ResolveAvatar(a.fileService.URL),
	}, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
