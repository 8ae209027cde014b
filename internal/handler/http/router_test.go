package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/ems-backend-go/internal/config"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/sse"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// newTestRouter wires real handlers around nil services, except for the employee service.
// Requests that reach a nil service would panic, so each case must stop at a gate or hit Me.
func newTestRouter(t *testing.T, employees employee.EmployeeService, burst int) (*chi.Mux, *jwt.JWTService) {
	t.Helper()
	jwtService, err := jwt.NewJWTService("router-test-secret", "1h")
	require.NoError(t, err)

	handlers := Handlers{
		Auth:         NewAuthHandler(nil),
		Company:      NewCompanyHandler(nil),
		Employee:     NewEmployeeHandler(employees),
		Attendance:   NewAttendanceHandler(nil),
		Verification: NewVerificationHandler(nil),
		Leave:        NewLeaveHandler(nil),
		Payroll:      NewPayrollHandler(nil),
		Performance:  NewPerformanceHandler(nil),
		Assistant:    NewAssistantHandler(nil),
		Notification: NewNotificationHandler(sse.NewHub()),
	}
	app := config.AppConfig{Env: "test", FrontendURL: "http://localhost:3000"}
	limiter := middleware.NewEmployeeRateLimiter(rate.Limit(0), burst)
	return NewRouter(app, t.TempDir(), jwtService, limiter, handlers), jwtService
}

func bearer(t *testing.T, svc *jwt.JWTService, s user.Session) string {
	t.Helper()
	token, _, err := svc.GenerateAccessToken(s, "someone@acme.io")
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRouter_RequiresToken(t *testing.T) {
	router, _ := newTestRouter(t, nil, 1)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_Me(t *testing.T) {
	svc := new(MockEmployeeService)
	svc.On("Me", mock.Anything, employeeSession).Return(employee.EmployeeResponse{ID: "emp-1", Name: "Ann"}, nil)
	router, jwtService := newTestRouter(t, svc, 1)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", bearer(t, jwtService, employeeSession))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestRouter_PermissionGates(t *testing.T) {
	router, jwtService := newTestRouter(t, nil, 1)

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodPut, "/api/v1/companies/my/geofence"},
		{http.MethodPost, "/api/v1/companies/my/invitation-code"},
		{http.MethodGet, "/api/v1/employees"},
		{http.MethodGet, "/api/v1/employees/org-chart"},
		{http.MethodPost, "/api/v1/employees/emp-2/removal"},
		{http.MethodPost, "/api/v1/payroll/process"},
		{http.MethodGet, "/api/v1/performance/reviews"},
		{http.MethodGet, "/api/v1/reports/turnover"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			req.Header.Set("Authorization", bearer(t, jwtService, employeeSession))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusForbidden, rec.Code)
		})
	}
}

func TestRouter_ModelEndpointsAreRateLimited(t *testing.T) {
	// Burst 0 with no refill rejects every request that reaches the limiter.
	router, jwtService := newTestRouter(t, nil, 0)

	for _, path := range []string{"/api/v1/verification/portrait", "/api/v1/verification/face", "/api/v1/attendance/clock"} {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.Header.Set("Authorization", bearer(t, jwtService, employeeSession))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusTooManyRequests, rec.Code, path)
	}
}
