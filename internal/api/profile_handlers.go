package api

import (
	"context"
	"net/http"

	"climbing-gym/belay/internal/common"
	"climbing-gym/belay/internal/models/dtos/requests"
	"climbing-gym/belay/internal/models/dtos/responses"
)

type profileService interface {
	UpdateBasic(ctx context.Context, userID uint, req requests.UpdateBasicRequest) error
	UpdateBiometric(ctx context.Context, userID uint, req requests.UpdateBiometricRequest) error
	UpdateClimbing(ctx context.Context, userID uint, req requests.UpdateClimbingRequest) error
	Percentage(ctx context.Context, userID uint) (*responses.PercentageResponse, error)
}

// PercentageHandler handles GET /api/v1/user/percentage
func PercentageHandler(svc profileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}
		out, err := svc.Percentage(r.Context(), claims.UserID())
		if err != nil {
			common.RespondServiceError(w, err)
			return
		}
		common.RespondSuccess(w, out)
	}
}

// profileUpdateHandler decodes T and hands it to apply, then answers with the fresh percentages
func profileUpdateHandler[T any](svc profileService, apply func(ctx context.Context, userID uint, req T) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		var req T
		if err := decodeAndValidate(r, &req); err != nil {
			common.RespondServiceError(w, err)
			return
		}
		if err := apply(r.Context(), claims.UserID(), req); err != nil {
			common.RespondServiceError(w, err)
			return
		}

		out, err := svc.Percentage(r.Context(), claims.UserID())
		if err != nil {
			common.RespondServiceError(w, err)
			return
		}
		common.RespondSuccess(w, out)
	}
}

// UpdateBasicHandler handles PUT /api/v1/user/basic
func UpdateBasicHandler(svc profileService) http.HandlerFunc {
	return profileUpdateHandler(svc, svc.UpdateBasic)
}

// UpdateBiometricHandler handles PUT /api/v1/user/biometric
func UpdateBiometricHandler(svc profileService) http.HandlerFunc {
	return profileUpdateHandler(svc, svc.UpdateBiometric)
}

// UpdateClimbingHandler handles PUT /api/v1/user/climbing
func UpdateClimbingHandler(svc profileService) http.HandlerFunc {
	return profileUpdateHandler(svc, svc.UpdateClimbing)
}
