package jwt

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

type Service interface {
	GenerateAccessToken(session user.Session, email string) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
	RevokeToken(token string, expiresAt int64)
	IsTokenRevoked(token string) bool
}

type JWTService struct {
	accessTokenExpiration time.Duration
	tokenAuth             *jwtauth.JWTAuth
	revokedTokens         map[string]int64
	mu                    sync.RWMutex
	now                   func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpiration string) (*JWTService, error) {
	exp, err := time.ParseDuration(accessTokenExpiration)
	if err != nil {
		return nil, fmt.Errorf("invalid access token expiration %q: %w", accessTokenExpiration, err)
	}
	return &JWTService{
		accessTokenExpiration: exp,
		tokenAuth:             jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revokedTokens:         make(map[string]int64),
		now:                   time.Now,
	}, nil
}

func (j *JWTService) GenerateAccessToken(session user.Session, email string) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.accessTokenExpiration).Unix()

	claims := map[string]interface{}{
		"sub":         session.EmployeeID,
		"employee_id": session.EmployeeID,
		"company_id":  session.CompanyID,
		"role":        string(session.Role),
		"email":       email,
		"type":        "access",
		"exp":         expiresAt,
	}
	jwtauth.SetIssuedNow(claims)

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// RevokeToken remembers token until it would have expired anyway.
func (j *JWTService) RevokeToken(token string, expiresAt int64) {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now().Unix()
	for t, exp := range j.revokedTokens {
		if exp < now {
			delete(j.revokedTokens, t)
		}
	}
	j.revokedTokens[token] = expiresAt
}

func (j *JWTService) IsTokenRevoked(token string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedTokens[token]
	return revoked
}

// SessionFromContext builds the caller's session from claims verified by jwtauth.Verifier.
func SessionFromContext(ctx context.Context) (user.Session, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return user.Session{}, fmt.Errorf("%w: %v", user.ErrInvalidSession, err)
	}
	return SessionFromClaims(claims)
}

func SessionFromClaims(claims map[string]interface{}) (user.Session, error) {
	employeeID, _ := claims["employee_id"].(string)
	companyID, _ := claims["company_id"].(string)
	role, _ := claims["role"].(string)

	session := user.Session{EmployeeID: employeeID, CompanyID: companyID, Role: user.Role(role)}
	if employeeID == "" || companyID == "" || !session.Role.Valid() {
		return user.Session{}, user.ErrInvalidSession
	}
	return session, nil
}
