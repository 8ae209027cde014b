package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(t *testing.T, want user.Session) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, err := Session(r.Context())
		require.NoError(t, err)
		assert.Equal(t, want, got)
		w.WriteHeader(http.StatusNoContent)
	})
}

func protected(t *testing.T, svc *jwt.JWTService, want user.Session) http.Handler {
	return jwtauth.Verify(svc.JWTAuth(), TokenSources...)(AuthRequired(svc)(okHandler(t, want)))
}

func TestAuthRequired(t *testing.T) {
	svc, err := jwt.NewJWTService("test-secret", "1h")
	require.NoError(t, err)
	session := user.Session{EmployeeID: "emp-1", CompanyID: "co-1", Role: user.RoleEmployee}
	token, exp, err := svc.GenerateAccessToken(session, "e@acme.io")
	require.NoError(t, err)

	t.Run("header token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		protected(t, svc, session).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("query token for event streams", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/?jwt="+token, nil)
		rec := httptest.NewRecorder()
		protected(t, svc, session).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		protected(t, svc, session).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("revoked token", func(t *testing.T) {
		svc.RevokeToken(token, exp)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		protected(t, svc, session).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequirePermission(t *testing.T) {
	handler := RequirePermission(user.PermissionPayrollProcess)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		role user.Role
		want int
	}{
		{user.RoleEmployee, http.StatusForbidden},
		{user.RoleHRManager, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			ctx := WithSession(context.Background(), user.Session{EmployeeID: "e", CompanyID: "c", Role: tt.role})
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx))
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEmployeeRateLimiter(t *testing.T) {
	limiter := NewEmployeeRateLimiter(0, 2)
	handler := limiter.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func(employeeID string) int {
		ctx := WithSession(context.Background(), user.Session{EmployeeID: employeeID, CompanyID: "c", Role: user.RoleEmployee})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil).WithContext(ctx))
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, call("a"))
	assert.Equal(t, http.StatusNoContent, call("a"))
	assert.Equal(t, http.StatusTooManyRequests, call("a"))
	assert.Equal(t, http.StatusNoContent, call("b"))
}
