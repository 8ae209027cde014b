package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	svc, err := NewJWTService("test-secret", "1h")
	require.NoError(t, err)

	session := user.Session{EmployeeID: "emp-1", CompanyID: "comp-1", Role: user.RoleHRManager}
	token, expiresAt, err := svc.GenerateAccessToken(session, "hr@acme.io")
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)

	got, err := SessionFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, session, got)
	assert.Equal(t, "access", claims["type"])
}

func TestSessionFromContext(t *testing.T) {
	svc, err := NewJWTService("test-secret", "1h")
	require.NoError(t, err)

	token, _, err := svc.GenerateAccessToken(user.Session{EmployeeID: "e", CompanyID: "c", Role: user.RoleAdmin}, "a@b.co")
	require.NoError(t, err)
	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)

	ctx := jwtauth.NewContext(context.Background(), decoded, nil)
	session, err := SessionFromContext(ctx)
	require.NoError(t, err)
	assert.True(t, session.IsAdmin())

	_, err = SessionFromContext(context.Background())
	assert.ErrorIs(t, err, user.ErrInvalidSession)
}

func TestSessionFromClaims_Invalid(t *testing.T) {
	cases := map[string]map[string]interface{}{
		"missing employee": {"company_id": "c", "role": "Admin"},
		"missing company":  {"employee_id": "e", "role": "Admin"},
		"unknown role":     {"employee_id": "e", "company_id": "c", "role": "Owner"},
	}
	for name, claims := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := SessionFromClaims(claims)
			assert.ErrorIs(t, err, user.ErrInvalidSession)
		})
	}
}

func TestRevokeToken(t *testing.T) {
	svc, err := NewJWTService("test-secret", "1h")
	require.NoError(t, err)

	now := time.Now()
	svc.now = func() time.Time { return now }

	svc.RevokeToken("stale", now.Add(-time.Minute).Unix())
	svc.RevokeToken("fresh", now.Add(time.Hour).Unix())
	assert.True(t, svc.IsTokenRevoked("fresh"))

	// Revoking again prunes entries that have expired.
	svc.RevokeToken("another", now.Add(time.Hour).Unix())
	assert.False(t, svc.IsTokenRevoked("stale"))
	assert.True(t, svc.IsTokenRevoked("another"))
	assert.False(t, svc.IsTokenRevoked("never"))
}
