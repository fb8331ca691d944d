package middleware

import (
	"net/http"

	"climbing-gym/belay/internal/auth"
	"climbing-gym/belay/internal/common"
	"climbing-gym/belay/internal/constants"
)

// RequireAnyRole lets the request through when the caller holds at least one of roles
func RequireAnyRole(roles ...constants.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := auth.GetUserClaims(r.Context())
			if claims == nil {
				common.RespondError(w, http.StatusUnauthorized, constants.GetErrorMessage(constants.ErrCodeUnauthorized), "")
				return
			}
			for _, role := range roles {
				if claims.HasRole(role) {
					next.ServeHTTP(w, r)
					return
				}
			}
			common.RespondError(w, http.StatusForbidden, constants.GetErrorMessage(constants.ErrCodeForbidden), "")
		})
	}
}

func IsAdminMiddleware() func(http.Handler) http.Handler {
	return RequireAnyRole(constants.RoleAdmin)
}
