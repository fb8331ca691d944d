package api

import (
	"context"
	"net/http"
	"strings"

	"climbing-gym/belay/internal/common"
	"climbing-gym/belay/internal/constants"
	"climbing-gym/belay/internal/models/dtos/responses"
	"climbing-gym/belay/internal/services"
)

type memberService interface {
	ListMembers(ctx context.Context, gymCtx services.GymContext, q services.MemberQuery) (*responses.MemberPage, error)
	TotalMemberCount(ctx context.Context, gymCtx services.GymContext) (*responses.MemberCount, error)
	BlockMember(ctx context.Context, gymCtx services.GymContext, userID uint) error
	MemberProfile(ctx context.Context, gymCtx services.GymContext, userID uint) (*responses.MemberProfile, error)
}

// ListMembersHandler handles GET /api/v1/gym/members
func ListMembersHandler(svc memberService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gymCtx, ok := requireGymContext(w, r)
		if !ok {
			return
		}

		page, err := queryInt(r, "page")
		if err != nil {
			common.RespondServiceError(w, err)
			return
		}
		pageSize, err := queryInt(r, "page_size")
		if err != nil {
			common.RespondServiceError(w, err)
			return
		}

		q := r.URL.Query()
		ordering := q.Get("ordering")
		if ordering == "" {
			ordering = q.Get("order_by")
		}

		out, err := svc.ListMembers(r.Context(), gymCtx, services.MemberQuery{
			ClimbingLevel:        strings.TrimSpace(q.Get("climbing_level")),
			AgeRange:             q.Get("age_range"),
			Gender:               q.Get("gender"),
			SearchSubmittedRoute: strings.TrimSpace(q.Get("search_submitted_route")),
			Search:               strings.TrimSpace(q.Get("search")),
			OrderBy:              strings.TrimSpace(ordering),
			Page:                 page,
			PageSize:             pageSize,
		})
		if err != nil {
			common.RespondServiceError(w, err)
			return
		}
		common.RespondSuccess(w, out)
	}
}

// MemberCountHandler handles GET /api/v1/gym/members/count
func MemberCountHandler(svc memberService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gymCtx, ok := requireGymContext(w, r)
		if !ok {
			return
		}
		out, err := svc.TotalMemberCount(r.Context(), gymCtx)
		if err != nil {
			common.RespondServiceError(w, err)
			return
		}
		common.RespondSuccess(w, out)
	}
}

// BlockMemberHandler handles DELETE /api/v1/gym/members/{user_id}
func BlockMemberHandler(svc memberService) http.HandlerFunc {
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
		if err := svc.BlockMember(r.Context(), gymCtx, userID); err != nil {
			common.RespondServiceError(w, err)
			return
		}
		common.RespondSuccess(w, responses.MessageResponse{Message: constants.MsgMemberBlocked})
	}
}

// MemberProfileHandler handles GET /api/v1/gym/members/{user_id}
func MemberProfileHandler(svc memberService) http.HandlerFunc {
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
		out, err := svc.MemberProfile(r.Context(), gymCtx, userID)
		if err != nil {
			common.RespondServiceError(w, err)
			return
		}
		common.RespondSuccess(w, out)
	}
}
