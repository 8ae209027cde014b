package company

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestCompanyService(repo *MockCompanyRepository, employees *MockEmployeeRepository, mailer *MockEmailService) company.CompanyService {
	issuer := NewInvitationCodeIssuer(repo, &passthroughTransactor{})
	return NewCompanyService(repo, employees, issuer, mailer, "https://ems.example.com")
}

func TestGetMy_HidesCodeFromEmployees(t *testing.T) {
	repo := new(MockCompanyRepository)
	repo.On("GetByID", mock.Anything, "co-1").Return(company.Company{ID: "co-1", Name: "Acme", InvitationCode: "ABC123"}, nil)
	svc := newTestCompanyService(repo, new(MockEmployeeRepository), new(MockEmailService))

	resp, err := svc.GetMy(context.Background(), employeeSession)
	require.NoError(t, err)
	assert.Empty(t, resp.InvitationCode)
	assert.False(t, resp.GeofenceConfigured)

	resp, err = svc.GetMy(context.Background(), adminSession)
	require.NoError(t, err)
	assert.Equal(t, "ABC123", resp.InvitationCode)
}

func TestUpdateGeofence_RequiresAdmin(t *testing.T) {
	repo := new(MockCompanyRepository)
	svc := newTestCompanyService(repo, new(MockEmployeeRepository), new(MockEmailService))
	req := company.UpdateGeofenceRequest{Latitude: 37.422, Longitude: -122.084, RadiusMeters: 200}

	_, err := svc.UpdateGeofence(context.Background(), employeeSession, req)
	assert.ErrorIs(t, err, user.ErrInsufficientPermission)
	repo.AssertNotCalled(t, "UpdateGeofence", mock.Anything, mock.Anything, mock.Anything)

	lat, lng, radius := req.Latitude, req.Longitude, req.RadiusMeters
	repo.On("UpdateGeofence", mock.Anything, "co-1", req).
		Return(company.Company{ID: "co-1", Latitude: &lat, Longitude: &lng, RadiusMeters: &radius}, nil)

	resp, err := svc.UpdateGeofence(context.Background(), adminSession, req)
	require.NoError(t, err)
	assert.True(t, resp.GeofenceConfigured)
}

func TestRegenerateInvitationCode(t *testing.T) {
	repo := new(MockCompanyRepository)
	repo.On("UpdateInvitationCode", mock.Anything, "co-1", mock.Anything).Return(nil)
	svc := newTestCompanyService(repo, new(MockEmployeeRepository), new(MockEmailService))

	resp, err := svc.RegenerateInvitationCode(context.Background(), adminSession)

	require.NoError(t, err)
	assert.Regexp(t, invitationCodePattern, resp.InvitationCode)
}

func TestShareInvitationCode_ReportsFailuresPerAddress(t *testing.T) {
	repo := new(MockCompanyRepository)
	repo.On("GetByID", mock.Anything, "co-1").Return(company.Company{ID: "co-1", Name: "Acme", InvitationCode: "ABC123"}, nil)
	employees := new(MockEmployeeRepository)
	employees.On("GetByID", mock.Anything, "emp-admin", "co-1").Return(employee.Employee{Name: "Alice"}, nil)
	mailer := new(MockEmailService)
	signup := "https://ems.example.com/signup?code=ABC123"
	mailer.On("SendInvitationCode", mock.Anything, "ok@example.com", "Alice", "Acme", "ABC123", signup).Return(nil)
	mailer.On("SendInvitationCode", mock.Anything, "bad@example.com", "Alice", "Acme", "ABC123", signup).Return(errors.New("mailbox unavailable"))
	svc := newTestCompanyService(repo, employees, mailer)

	resp, err := svc.ShareInvitationCode(context.Background(), adminSession, company.ShareInvitationRequest{
		Emails: []string{"ok@example.com", "bad@example.com"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"ok@example.com"}, resp.Sent)
	assert.Equal(t, []string{"bad@example.com"}, resp.Failed)
	mailer.AssertExpectations(t)
}

func TestShareInvitationCode_PendingSignup(t *testing.T) {
	repo := new(MockCompanyRepository)
	repo.On("GetByID", mock.Anything, "co-1").Return(company.Company{ID: "co-1", InvitationCode: company.PendingInvitationCode}, nil)
	svc := newTestCompanyService(repo, new(MockEmployeeRepository), new(MockEmailService))

	_, err := svc.ShareInvitationCode(context.Background(), adminSession, company.ShareInvitationRequest{Emails: []string{"a@example.com"}})

	assert.ErrorIs(t, err, company.ErrAdminSignupInProgress)
}
