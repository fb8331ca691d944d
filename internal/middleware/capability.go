package middleware

import (
	"context"
	"net/http"

	"climbing-gym/belay/internal/common"
	"climbing-gym/belay/internal/services"
)

type capabilityGate interface {
	Require(ctx context.Context, gymCtx services.GymContext, capabilities ...services.Capability) error
}

// RequireCapability answers 400 with the gate's reason when the gym's plan
// does not grant every capability.
func RequireCapability(gate capabilityGate, resolver gymResolver, capabilities ...services.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r, gymCtx, err := resolveGymContext(r, resolver)
			if err != nil {
				common.RespondServiceError(w, err)
				return
			}
			if err := gate.Require(r.Context(), gymCtx, capabilities...); err != nil {
				common.RespondServiceError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
