package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/domain/auth"
	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type requesterKey struct{}

// AuthRequired rejects requests without a valid access token and stores the
// caller as a user.Requester in the request context. It expects
// jwtauth.Verifier to run first.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())

			if err != nil {
				if errors.Is(err, jwtauth.ErrExpired) {
					response.HandleError(w, auth.ErrTokenExpired)
					return
				}
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if tokenType != jwt.TokenTypeAccess || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			requester, err := RequesterFromClaims(claims)
			if err != nil {
				response.HandleError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), requesterKey{}, requester)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}

// RequesterFromClaims builds the caller identity from access token claims.
func RequesterFromClaims(claims map[string]interface{}) (user.Requester, error) {
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return user.Requester{}, auth.ErrMissingClaim
	}

	roleStr, ok := claims["role"].(string)
	if !ok {
		return user.Requester{}, auth.ErrMissingClaim
	}
	role := user.Role(roleStr)
	if !role.IsValid() {
		return user.Requester{}, user.ErrUnknownRole
	}

	requester := user.Requester{UserID: userID, Role: role}
	if empID, ok := claims["employee_id"].(string); ok && empID != "" {
		requester.EmployeeID = &empID
	}
	return requester, nil
}

// GetRequester returns the caller stored by AuthRequired.
func GetRequester(ctx context.Context) (user.Requester, bool) {
	requester, ok := ctx.Value(requesterKey{}).(user.Requester)
	return requester, ok
}
