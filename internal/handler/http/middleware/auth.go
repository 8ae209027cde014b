package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type sessionKey struct{}

// TokenSources lists where a bearer token may come from. Browsers cannot set
// headers on an EventSource, so the query string is accepted as well.
var TokenSources = []func(r *http.Request) string{jwtauth.TokenFromHeader, jwtauth.TokenFromQuery}

// AuthRequired runs after jwtauth.Verify. It rejects refresh or revoked tokens
// and stores the caller's session on the request context.
func AuthRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if tokenType != "access" || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if jwtService.IsTokenRevoked(rawToken(r)) {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			session, err := jwt.SessionFromClaims(claims)
			if err != nil {
				response.HandleError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, session)))
		}
		return http.HandlerFunc(hfn)
	}
}

// Session returns the session stored by AuthRequired.
func Session(ctx context.Context) (user.Session, error) {
	session, ok := ctx.Value(sessionKey{}).(user.Session)
	if !ok {
		return user.Session{}, user.ErrInvalidSession
	}
	return session, nil
}

// WithSession is used by handler tests to skip token verification.
func WithSession(ctx context.Context, session user.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

func rawToken(r *http.Request) string {
	for _, source := range TokenSources {
		if token := source(r); token != "" {
			return token
		}
	}
	return ""
}
