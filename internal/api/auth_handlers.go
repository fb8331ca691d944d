package api

import (
	"context"
	"net/http"

	"climbing-gym/belay/internal/common"
	"climbing-gym/belay/internal/constants"
	"climbing-gym/belay/internal/models/dtos/requests"
	"climbing-gym/belay/internal/models/dtos/responses"
)

type accountService interface {
	SignUp(ctx context.Context, req requests.SignUpRequest) (*responses.SignUpResponse, error)
	SignUpGym(ctx context.Context, req requests.GymSignUpRequest) (*responses.SignUpResponse, error)
	Login(ctx context.Context, req requests.LoginRequest) (*responses.TokenResponse, error)
	ChangePassword(ctx context.Context, userID uint, req requests.ChangePasswordRequest) error
	VerifyEmail(ctx context.Context, token string) error
}

// SignUpHandler handles POST /api/v1/auth/signup
func SignUpHandler(svc accountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.SignUpRequest
		if err := decodeAndValidate(r, &req); err != nil {
			common.RespondServiceError(w, err)
			return
		}

		out, err := svc.SignUp(r.Context(), req)
		if err != nil {
			common.RespondServiceError(w, err)
			return
		}
		common.RespondSuccess(w, out, http.StatusCreated)
	}
}

// GymSignUpHandler handles POST /api/v1/auth/gym-signup
func GymSignUpHandler(svc accountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.GymSignUpRequest
		if err := decodeAndValidate(r, &req); err != nil {
			common.RespondServiceError(w, err)
			return
		}

		out, err := svc.SignUpGym(r.Context(), req)
		if err != nil {
			common.RespondServiceError(w, err)
			return
		}
		common.RespondSuccess(w, out, http.StatusCreated)
	}
}

// LoginHandler handles POST /api/v1/auth/login
func LoginHandler(svc accountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.LoginRequest
		if err := decodeAndValidate(r, &req); err != nil {
			common.RespondServiceError(w, err)
			return
		}

		out, err := svc.Login(r.Context(), req)
		if err != nil {
			common.RespondServiceError(w, err)
			return
		}
		common.RespondSuccess(w, out)
	}
}

// VerifyEmailHandler handles GET /api/v1/auth/verify-email?token=
func VerifyEmailHandler(svc accountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.VerifyEmail(r.Context(), r.URL.Query().Get("token")); err != nil {
			common.RespondServiceError(w, err)
			return
		}
		common.RespondSuccess(w, responses.MessageResponse{Message: constants.MsgEmailVerified})
	}
}

// ChangePasswordHandler handles POST /api/v1/user/change-password
func ChangePasswordHandler(svc accountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		var req requests.ChangePasswordRequest
		if err := decodeAndValidate(r, &req); err != nil {
			common.RespondServiceError(w, err)
			return
		}

		if err := svc.ChangePassword(r.Context(), claims.UserID(), req); err != nil {
			common.RespondServiceError(w, err)
			return
		}
		common.RespondSuccess(w, responses.MessageResponse{Message: constants.MsgPasswordChanged})
	}
}
