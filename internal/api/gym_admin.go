package api

import (
	"context"
	"net/http"

	"climbing-gym/belay/internal/common"
	"climbing-gym/belay/internal/models/dtos/requests"
	"climbing-gym/belay/internal/models/dtos/responses"
	gormModels "climbing-gym/belay/internal/models/gorm"
	"climbing-gym/belay/internal/services"
)

type gymAdminService interface {
	AddStaff(ctx context.Context, gymCtx services.GymContext, req requests.AddStaffRequest) error
	CreateWall(ctx context.Context, gymCtx services.GymContext, req requests.CreateWallRequest) (*gormModels.SectionWall, error)
	CreateAnnouncement(ctx context.Context, gymCtx services.GymContext, req requests.CreateAnnouncementRequest) (*gormModels.Announcement, error)
}

// AddStaffHandler handles POST /api/v1/gym/staff
func AddStaffHandler(svc gymAdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gymCtx, ok := requireGymContext(w, r)
		if !ok {
			return
		}
		var req requests.AddStaffRequest
		if err := decodeAndValidate(r, &req); err != nil {
			common.RespondServiceError(w, err)
			return
		}
		if err := svc.AddStaff(r.Context(), gymCtx, req); err != nil {
			common.RespondServiceError(w, err)
			return
		}
		common.RespondSuccess(w, responses.MessageResponse{Message: "Staff member added"}, http.StatusCreated)
	}
}

// CreateWallHandler handles POST /api/v1/gym/walls
func CreateWallHandler(svc gymAdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gymCtx, ok := requireGymContext(w, r)
		if !ok {
			return
		}
		var req requests.CreateWallRequest
		if err := decodeAndValidate(r, &req); err != nil {
			common.RespondServiceError(w, err)
			return
		}
		wall, err := svc.CreateWall(r.Context(), gymCtx, req)
		if err != nil {
			common.RespondServiceError(w, err)
			return
		}
		common.RespondSuccess(w, responses.CreatedResponse{ID: wall.ID}, http.StatusCreated)
	}
}

// CreateAnnouncementHandler handles POST /api/v1/gym/announcements
func CreateAnnouncementHandler(svc gymAdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gymCtx, ok := requireGymContext(w, r)
		if !ok {
			return
		}
		var req requests.CreateAnnouncementRequest
		if err := decodeAndValidate(r, &req); err != nil {
			common.RespondServiceError(w, err)
			return
		}
		a, err := svc.CreateAnnouncement(r.Context(), gymCtx, req)
		if err != nil {
			common.RespondServiceError(w, err)
			return
		}
		common.RespondSuccess(w, responses.CreatedResponse{ID: a.ID}, http.StatusCreated)
	}
}
