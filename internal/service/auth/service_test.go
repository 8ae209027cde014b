package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/verification"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/ems-backend-go/internal/service/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-key-for-jwt"

type MockCompanyRepository struct {
	mock.Mock
	company.CompanyRepository
}

func (m *MockCompanyRepository) Create(ctx context.Context, c company.Company) (company.Company, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(company.Company), args.Error(1)
}

func (m *MockCompanyRepository) GetByInvitationCode(ctx context.Context, code string) (company.Company, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(company.Company), args.Error(1)
}

func (m *MockCompanyRepository) ExistsByInvitationCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

type MockEmployeeRepository struct {
	mock.Mock
	employee.EmployeeRepository
}

func (m *MockEmployeeRepository) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(employee.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(employee.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) UpdateAvatar(ctx context.Context, id, companyID, key string) (employee.Employee, error) {
	args := m.Called(ctx, id, companyID, key)
	return args.Get(0).(employee.Employee), args.Error(1)
}

type MockIssuer struct {
	mock.Mock
}

func (m *MockIssuer) Issue(ctx context.Context, companyID string) (string, error) {
	args := m.Called(ctx, companyID)
	return args.String(0), args.Error(1)
}

type MockVerifier struct {
	mock.Mock
	verification.Verifier
}

func (m *MockVerifier) ValidatePortrait(ctx context.Context, img verification.Image) (verification.PortraitResult, error) {
	args := m.Called(ctx, img)
	return args.Get(0).(verification.PortraitResult), args.Error(1)
}

type MockFileService struct {
	mock.Mock
	file.FileService
}

func (m *MockFileService) StoreAvatar(ctx context.Context, employeeID string, img verification.Image) (string, error) {
	args := m.Called(ctx, employeeID, img)
	return args.String(0), args.Error(1)
}

func (m *MockFileService) DeleteFile(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockFileService) URL(key string) string {
	return "https://files.example.com/" + key
}

// rollbackTransactor runs fn and reports whether it failed, standing in for a rolled-back tx.
type rollbackTransactor struct {
	rolledBack bool
}

func (r *rollbackTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	r.rolledBack = err != nil
	return err
}

type deps struct {
	companies *MockCompanyRepository
	employees *MockEmployeeRepository
	issuer    *MockIssuer
	verifier  *MockVerifier
	files     *MockFileService
	tx        *rollbackTransactor
	jwt       *jwt.JWTService
}

func newDeps(t *testing.T) (*deps, auth.AuthService) {
	t.Helper()
	jwtService, err := jwt.NewJWTService(testSecret, "1h")
	require.NoError(t, err)

	d := &deps{
		companies: new(MockCompanyRepository),
		employees: new(MockEmployeeRepository),
		issuer:    new(MockIssuer),
		verifier:  new(MockVerifier),
		files:     new(MockFileService),
		tx:        &rollbackTransactor{},
		jwt:       jwtService,
	}
	svc := NewAuthService(d.tx, d.companies, d.employees, d.issuer, d.verifier, d.files, jwtService)
	return d, svc
}

var avatar = verification.Image{Data: []byte("portrait"), MIMEType: "image/jpeg"}

func adminSignupRequest() auth.AdminSignupRequest {
	req := auth.AdminSignupRequest{CompanyName: "Acme", Avatar: &avatar}
	req.Name = "Alice"
	req.Email = "alice@example.com"
	req.Password = "password123"
	return req
}

func TestSignupAdmin_Success(t *testing.T) {
	d, svc := newDeps(t)
	ctx := context.Background()

	d.verifier.On("ValidatePortrait", mock.Anything, avatar).Return(verification.PortraitResult{IsValid: true, Reason: "Photo is valid."}, nil)
	d.companies.On("ExistsByInvitationCode", mock.Anything, company.PendingInvitationCode).Return(false, nil)
	d.companies.On("Create", mock.Anything, mock.MatchedBy(func(c company.Company) bool {
		return c.InvitationCode == company.PendingInvitationCode && c.Name == "Acme"
	})).Return(company.Company{ID: "co-1", Name: "Acme", InvitationCode: company.PendingInvitationCode}, nil)
	d.employees.On("Create", mock.Anything, mock.MatchedBy(func(e employee.Employee) bool {
		return e.Role == user.RoleAdmin && e.CompanyID == "co-1" &&
			bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte("password123")) == nil
	})).Return(employee.Employee{ID: "emp-1", CompanyID: "co-1", Email: "alice@example.com", Role: user.RoleAdmin}, nil)
	d.files.On("StoreAvatar", mock.Anything, "emp-1", avatar).Return("avatars/emp-1/a.jpg", nil)
	key := "avatars/emp-1/a.jpg"
	d.employees.On("UpdateAvatar", mock.Anything, "emp-1", "co-1", key).
		Return(employee.Employee{ID: "emp-1", CompanyID: "co-1", Email: "alice@example.com", Role: user.RoleAdmin, AvatarURL: &key}, nil)
	d.issuer.On("Issue", mock.Anything, "co-1").Return("AB12CD", nil)

	resp, err := svc.SignupAdmin(ctx, adminSignupRequest())

	require.NoError(t, err)
	assert.Equal(t, "AB12CD", resp.InvitationCode)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "https://files.example.com/avatars/emp-1/a.jpg", *resp.Employee.AvatarURL)
	assert.False(t, d.tx.rolledBack)

	token, err := d.jwt.JWTAuth().Decode(resp.AccessToken)
	require.NoError(t, err)
	session, err := jwt.SessionFromClaims(token.PrivateClaims())
	require.NoError(t, err)
	assert.Equal(t, user.Session{EmployeeID: "emp-1", CompanyID: "co-1", Role: user.RoleAdmin}, session)
}

func TestSignupAdmin_PortraitRejectedCreatesNothing(t *testing.T) {
	d, svc := newDeps(t)
	d.verifier.On("ValidatePortrait", mock.Anything, avatar).Return(verification.PortraitResult{IsValid: false, Reason: "No face detected."}, nil)

	_, err := svc.SignupAdmin(context.Background(), adminSignupRequest())

	var rejected *verification.PortraitRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "No face detected.", rejected.Reason)
	d.companies.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	d.files.AssertNotCalled(t, "StoreAvatar", mock.Anything, mock.Anything, mock.Anything)
}

func TestSignupAdmin_PendingSignupInFlight(t *testing.T) {
	d, svc := newDeps(t)
	d.verifier.On("ValidatePortrait", mock.Anything, avatar).Return(verification.PortraitResult{IsValid: true}, nil)
	d.companies.On("ExistsByInvitationCode", mock.Anything, company.PendingInvitationCode).Return(true, nil)

	_, err := svc.SignupAdmin(context.Background(), adminSignupRequest())

	assert.ErrorIs(t, err, company.ErrAdminSignupInProgress)
	d.companies.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSignupAdmin_ConcurrentSentinelInsert(t *testing.T) {
	d, svc := newDeps(t)
	d.verifier.On("ValidatePortrait", mock.Anything, avatar).Return(verification.PortraitResult{IsValid: true}, nil)
	d.companies.On("ExistsByInvitationCode", mock.Anything, company.PendingInvitationCode).Return(false, nil)
	d.companies.On("Create", mock.Anything, mock.Anything).Return(company.Company{}, company.ErrInvitationCodeConflict)

	_, err := svc.SignupAdmin(context.Background(), adminSignupRequest())

	assert.ErrorIs(t, err, company.ErrAdminSignupInProgress)
	assert.True(t, d.tx.rolledBack)
}

func TestSignupAdmin_CodeExhaustedRollsBack(t *testing.T) {
	d, svc := newDeps(t)
	d.verifier.On("ValidatePortrait", mock.Anything, avatar).Return(verification.PortraitResult{IsValid: true}, nil)
	d.companies.On("ExistsByInvitationCode", mock.Anything, company.PendingInvitationCode).Return(false, nil)
	d.companies.On("Create", mock.Anything, mock.Anything).Return(company.Company{ID: "co-1", InvitationCode: company.PendingInvitationCode}, nil)
	d.employees.On("Create", mock.Anything, mock.Anything).Return(employee.Employee{ID: "emp-1", CompanyID: "co-1"}, nil)
	d.files.On("StoreAvatar", mock.Anything, "emp-1", avatar).Return("avatars/emp-1/a.jpg", nil)
	d.employees.On("UpdateAvatar", mock.Anything, "emp-1", "co-1", "avatars/emp-1/a.jpg").Return(employee.Employee{ID: "emp-1", CompanyID: "co-1"}, nil)
	d.issuer.On("Issue", mock.Anything, "co-1").Return("", company.ErrInvitationCodeExhausted)
	d.files.On("DeleteFile", mock.Anything, "avatars/emp-1/a.jpg").Return(nil)

	_, err := svc.SignupAdmin(context.Background(), adminSignupRequest())

	assert.ErrorIs(t, err, company.ErrInvitationCodeExhausted)
	assert.True(t, d.tx.rolledBack, "the sentinel company is never committed")
	d.files.AssertCalled(t, "DeleteFile", mock.Anything, "avatars/emp-1/a.jpg")
}

func TestSignupEmployee_InvalidCode(t *testing.T) {
	d, svc := newDeps(t)
	d.companies.On("GetByInvitationCode", mock.Anything, "ZZZZZZ").Return(company.Company{}, company.ErrCompanyNotFound)

	req := auth.EmployeeSignupRequest{InvitationCode: "ZZZZZZ", Avatar: &avatar}
	_, err := svc.SignupEmployee(context.Background(), req)

	assert.ErrorIs(t, err, company.ErrInvalidInvitationCode)
	d.verifier.AssertNotCalled(t, "ValidatePortrait", mock.Anything, mock.Anything)
}

func TestSignupEmployee_DuplicateEmail(t *testing.T) {
	d, svc := newDeps(t)
	d.companies.On("GetByInvitationCode", mock.Anything, "AB12CD").Return(company.Company{ID: "co-1"}, nil)
	d.verifier.On("ValidatePortrait", mock.Anything, avatar).Return(verification.PortraitResult{IsValid: true}, nil)
	d.employees.On("Create", mock.Anything, mock.Anything).Return(employee.Employee{}, employee.ErrEmailExists)

	req := auth.EmployeeSignupRequest{InvitationCode: "AB12CD", Avatar: &avatar}
	req.Password = "password123"
	_, err := svc.SignupEmployee(context.Background(), req)

	assert.ErrorIs(t, err, employee.ErrEmailExists)
	d.files.AssertNotCalled(t, "StoreAvatar", mock.Anything, mock.Anything, mock.Anything)
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestLogin(t *testing.T) {
	d, svc := newDeps(t)
	hash := hashed(t, "password123")
	d.employees.On("GetByEmail", mock.Anything, "bob@example.com").
		Return(employee.Employee{ID: "emp-2", CompanyID: "co-1", Email: "bob@example.com", PasswordHash: hash, Role: user.RoleEmployee}, nil)
	d.employees.On("GetByEmail", mock.Anything, "nobody@example.com").Return(employee.Employee{}, employee.ErrEmployeeNotFound)

	resp, err := svc.Login(context.Background(), auth.LoginRequest{Email: "bob@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "emp-2", resp.Employee.ID)

	_, err = svc.Login(context.Background(), auth.LoginRequest{Email: "bob@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), auth.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_BlockedWhenScheduledForDeletion(t *testing.T) {
	d, svc := newDeps(t)
	date := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	reason := "Contract ended"
	d.employees.On("GetByEmail", mock.Anything, "carol@example.com").Return(employee.Employee{
		ID: "emp-3", CompanyID: "co-1", PasswordHash: hashed(t, "password123"), Role: user.RoleEmployee,
		ScheduledDeletionDate: &date, TerminationReason: &reason,
	}, nil)

	_, err := svc.Login(context.Background(), auth.LoginRequest{Email: "carol@example.com", Password: "password123"})

	assert.ErrorIs(t, err, auth.ErrAccountScheduledForDeletion)
	var scheduled *auth.ScheduledDeletionError
	require.True(t, errors.As(err, &scheduled))
	assert.Equal(t, date, scheduled.Date)
	assert.Equal(t, reason, scheduled.Reason)
}

func TestLogout_RevokesToken(t *testing.T) {
	d, svc := newDeps(t)
	token, _, err := d.jwt.GenerateAccessToken(user.Session{EmployeeID: "emp-1", CompanyID: "co-1", Role: user.RoleEmployee}, "a@example.com")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), token))
	assert.True(t, d.jwt.IsTokenRevoked(token))

	assert.ErrorIs(t, svc.Logout(context.Background(), "not-a-token"), auth.ErrInvalidToken)
}
