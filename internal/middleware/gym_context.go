package middleware

import (
	"context"
	"net/http"

	"climbing-gym/belay/internal/auth"
	"climbing-gym/belay/internal/common"
	"climbing-gym/belay/internal/services"
)

const gymContextKey ctxKey = "gym_context"

type gymResolver interface {
	Resolve(ctx context.Context, claims auth.UserClaims) (services.GymContext, error)
}

// GetGymContext returns the gym resolved by GymContextMiddleware, or nil
func GetGymContext(ctx context.Context) services.GymContext {
	if gymCtx, ok := ctx.Value(gymContextKey).(services.GymContext); ok {
		return gymCtx
	}
	return nil
}

func resolveGymContext(r *http.Request, resolver gymResolver) (*http.Request, services.GymContext, error) {
	if gymCtx := GetGymContext(r.Context()); gymCtx != nil {
		return r, gymCtx, nil
	}
	gymCtx, err := resolver.Resolve(r.Context(), auth.GetUserClaims(r.Context()))
	if err != nil {
		return r, nil, err
	}
	if info := getRequestInfo(r.Context()); info != nil {
		info.GymID = gymCtx.GymID()
	}
	return r.WithContext(context.WithValue(r.Context(), gymContextKey, gymCtx)), gymCtx, nil
}

// GymContextMiddleware resolves the gym the caller acts on once per request
func GymContextMiddleware(resolver gymResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r, _, err := resolveGymContext(r, resolver)
			if err != nil {
				common.RespondServiceError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
