package middleware

import (
	"net/http"

	"climbing-gym/belay/internal/constants"
)

func IsClimberMiddleware() func(http.Handler) http.Handler {
	return RequireAnyRole(constants.RoleClimber)
}
