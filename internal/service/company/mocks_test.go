package company

import (
	"context"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/stretchr/testify/mock"
)

type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) Create(ctx context.Context, newCompany company.Company) (company.Company, error) {
	args := m.Called(ctx, newCompany)
	return args.Get(0).(company.Company), args.Error(1)
}

func (m *MockCompanyRepository) GetByID(ctx context.Context, id string) (company.Company, error) {
	args := m.Called(ctx, id)
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

func (m *MockCompanyRepository) UpdateInvitationCode(ctx context.Context, id, code string) error {
	args := m.Called(ctx, id, code)
	return args.Error(0)
}

func (m *MockCompanyRepository) UpdateGeofence(ctx context.Context, id string, req company.UpdateGeofenceRequest) (company.Company, error) {
	args := m.Called(ctx, id, req)
	return args.Get(0).(company.Company), args.Error(1)
}

func (m *MockCompanyRepository) UpdateTimezone(ctx context.Context, id, timezone string) (company.Company, error) {
	args := m.Called(ctx, id, timezone)
	return args.Get(0).(company.Company), args.Error(1)
}

type MockEmployeeRepository struct {
	mock.Mock
	employee.EmployeeRepository
}

func (m *MockEmployeeRepository) GetByID(ctx context.Context, id, companyID string) (employee.Employee, error) {
	args := m.Called(ctx, id, companyID)
	return args.Get(0).(employee.Employee), args.Error(1)
}

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendInvitationCode(ctx context.Context, to, inviterName, companyName, code, signupURL string) error {
	args := m.Called(ctx, to, inviterName, companyName, code, signupURL)
	return args.Error(0)
}

// passthroughTransactor runs fn directly; savepoint behaviour is covered by the repository tests.
type passthroughTransactor struct {
	calls int
}

func (p *passthroughTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}

var (
	adminSession    = user.Session{EmployeeID: "emp-admin", CompanyID: "co-1", Role: user.RoleAdmin}
	employeeSession = user.Session{EmployeeID: "emp-1", CompanyID: "co-1", Role: user.RoleEmployee}
)
