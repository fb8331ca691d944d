package middleware

import (
	"net/http"

	"climbing-gym/belay/internal/constants"
)

// IsGymOwnerMiddleware admits gym owners and the staff acting for them
func IsGymOwnerMiddleware() func(http.Handler) http.Handler {
	return RequireAnyRole(constants.RoleGymOwner, constants.RoleGymStaff)
}

// IsOwnerOnlyMiddleware admits the gym owner alone
func IsOwnerOnlyMiddleware() func(http.Handler) http.Handler {
	return RequireAnyRole(constants.RoleGymOwner)
}

func IsStaffMiddleware() func(http.Handler) http.Handler {
	return RequireAnyRole(constants.RoleGymStaff)
}
