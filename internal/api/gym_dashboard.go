package api

import (
	"context"
	"net/http"

	"climbing-gym/belay/internal/common"
	"climbing-gym/belay/internal/models/dtos/responses"
	"climbing-gym/belay/internal/services"
)

type dashboardService interface {
	Summary(ctx context.Context, gymCtx services.GymContext) (*responses.DashboardSummary, error)
	Details(ctx context.Context, gymCtx services.GymContext) (*responses.DashboardDetails, error)
	RouteGradeVotes(ctx context.Context, gymCtx services.GymContext, routeID uint) (map[string]float64, error)
	GymVisits(ctx context.Context, gymCtx services.GymContext, userID uint) (*responses.GymVisits, error)
}

type subscriptionStatusService interface {
	Status(ctx context.Context, gymCtx services.GymContext) (*responses.SubscriptionStatus, error)
}

// DashboardSummaryHandler handles GET /api/v1/gym/dashboard
func DashboardSummaryHandler(svc dashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gymCtx, ok := requireGymContext(w, r)
		if !ok {
			return
		}
		out, err := svc.Summary(r.Context(), gymCtx)
		if err != nil {
			common.RespondServiceError(w, err)
			return
		}
		common.RespondSuccess(w, out)
	}
}

// DashboardDetailsHandler handles GET /api/v1/gym/dashboard/details
func DashboardDetailsHandler(svc dashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gymCtx, ok := requireGymContext(w, r)
		if !ok {
			return
		}
		out, err := svc.Details(r.Context(), gymCtx)
		if err != nil {
			common.RespondServiceError(w, err)
			return
		}
		common.RespondSuccess(w, out)
	}
}

// RouteGradesHandler handles GET /api/v1/gym/routes/{route_id}/grades
func RouteGradesHandler(svc dashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gymCtx, ok := requireGymContext(w, r)
		if !ok {
			return
		}
		routeID, err := urlParamUint(r, "route_id")
		if err != nil {
			common.RespondServiceError(w, err)
			return
		}
		out, err := svc.RouteGradeVotes(r.Context(), gymCtx, routeID)
		if err != nil {
			common.RespondServiceError(w, err)
			return
		}
		common.RespondSuccess(w, out)
	}
}

// MemberVisitsHandler handles GET /api/v1/gym/members/{user_id}/visits
func MemberVisitsHandler(svc dashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gymCtx, ok := requireGymContext(w, r)
		if !ok {
			return
		}
		userID, err := urlParamUint(r, "user_id")
		if err != nil {
			common.RespondServiceError(w, err)
			return
		}
		out, err := svc.GymVisits(r.Context(), gymCtx, userID)
		if err != nil {
			common.RespondServiceError(w, err)
			return
		}
		common.RespondSuccess(w, out)
	}
}

// SubscriptionStatusHandler handles GET /api/v1/gym/subscription
func SubscriptionStatusHandler(svc subscriptionStatusService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gymCtx, ok := requireGymContext(w, r)
		if !ok {
			return
		}
		out, err := svc.Status(r.Context(), gymCtx)
		if err != nil {
			common.RespondServiceError(w, err)
			return
		}
		common.RespondSuccess(w, out)
	}
}
