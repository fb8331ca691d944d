package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"climbing-gym/belay/internal/auth"
	"climbing-gym/belay/internal/common"
	"climbing-gym/belay/internal/constants"
	"climbing-gym/belay/internal/db/repositories"
	"climbing-gym/belay/internal/logging"

	"github.com/golang-jwt/jwt/v5"
)

type tokenParser interface {
	Parse(tokenString string) (*auth.JWTClaims, error)
}

type authStateLoader interface {
	GetAuthState(ctx context.Context, userID uint) (*repositories.AuthState, error)
}

// AuthMiddleware accepts a Bearer access token, then checks the account is
// still active and the token predates no password change. Roles come from
// the database, not the token.
func AuthMiddleware(tokens tokenParser, users authStateLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				unauthorized(w, constants.ErrCodeUnauthorized)
				return
			}

			claims, err := tokens.Parse(strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")))
			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					unauthorized(w, constants.ErrCodeTokenExpired)
					return
				}
				unauthorized(w, constants.ErrCodeInvalidToken)
				return
			}

			state, err := users.GetAuthState(r.Context(), claims.UserID())
			if errors.Is(err, repositories.ErrNotFound) {
				unauthorized(w, constants.ErrCodeInvalidToken)
				return
			}
			if err != nil {
				logging.Error("Failed to load auth state", "user_id", claims.UserID(), "error", err)
				common.RespondError(w, http.StatusInternalServerError, constants.GetErrorMessage(constants.ErrCodeInternal), "")
				return
			}
			if !state.IsActive || state.TokenVersion != claims.TokenVersion() {
				unauthorized(w, constants.ErrCodeInvalidToken)
				return
			}

			claims.RoleValues = state.Roles
			if info := getRequestInfo(r.Context()); info != nil {
				info.UserID = claims.UserID()
			}

			ctx := auth.SetUserClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, code string) {
	common.RespondError(w, http.StatusUnauthorized, constants.GetErrorMessage(code), "Authorization")
}
