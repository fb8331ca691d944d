package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"climbing-gym/belay/internal/db/repositories"
	"climbing-gym/belay/internal/logging"
	"climbing-gym/belay/internal/models/dtos/requests"
	gormModels "climbing-gym/belay/internal/models/gorm"
)

type gymAdminStore interface {
	AddStaff(ctx context.Context, gymID, userID uint, now time.Time) error
	CreateWall(ctx context.Context, gymID uint, wall *gormModels.SectionWall) error
	CreateAnnouncement(ctx context.Context, a *gormModels.Announcement) error
	MemberContacts(ctx context.Context, gymID uint) ([]repositories.MemberContact, error)
}

type announcementNotifier interface {
	EmailPlain(ctx context.Context, recipients []string, subject, body string) error
	Push(ctx context.Context, deviceTokens []string, title, body string, data map[string]string) error
}

// GymAdminService holds the plan-gated gym management actions. Capability
// checks run in middleware before these are reached.
type GymAdminService struct {
	gyms     gymAdminStore
	users    userLoader
	notifier announcementNotifier
	now      func() time.Time
}

func NewGymAdminService(gyms gymAdminStore, users userLoader, notifier announcementNotifier) *GymAdminService {
	return &GymAdminService{gyms: gyms, users: users, notifier: notifier, now: time.Now}
}

// AddStaff makes an existing climber a staff member of the gym
func (s *GymAdminService) AddStaff(ctx context.Context, gymCtx GymContext, req requests.AddStaffRequest) error {
	if req.UserID == gymCtx.OwnerUserID() {
		return validationError("user_id", "the gym owner cannot be added as staff")
	}
	if _, err := s.users.GetByID(ctx, req.UserID, false); err != nil {
		return wrapRepoError(err)
	}
	if err := s.gyms.AddStaff(ctx, gymCtx.GymID(), req.UserID, s.now()); err != nil {
		return wrapRepoError(err)
	}
	logging.Info("Staff added", "gym_id", gymCtx.GymID(), "user_id", req.UserID, "by", gymCtx.ActorUserID())
	return nil
}

func (s *GymAdminService) CreateWall(ctx context.Context, gymCtx GymContext, req requests.CreateWallRequest) (*gormModels.SectionWall, error) {
	wall := &gormModels.SectionWall{
		GymLayoutID:        req.GymLayoutID,
		GymLayoutSectionID: req.GymLayoutSectionID,
		Name:               req.Name,
		Category:           req.Category,
		WallTypeID:         req.WallTypeID,
		Image:              req.Image,
		CreatedBy:          gymCtx.ActorUserID(),
	}
	err := s.gyms.CreateWall(ctx, gymCtx.GymID(), wall)
	if errors.Is(err, repositories.ErrLayoutNotInGym) {
		return nil, validationError("gym_layout_id", "layout does not belong to this gym")
	}
	if err != nil {
		return nil, wrapRepoError(err)
	}
	return wall, nil
}

// CreateAnnouncement stores an announcement and, when asked, queues push and
// email notices to every member. Notification failures never undo the announcement.
func (s *GymAdminService) CreateAnnouncement(ctx context.Context, gymCtx GymContext, req requests.CreateAnnouncementRequest) (*gormModels.Announcement, error) {
	a := &gormModels.Announcement{
		GymID:    gymCtx.GymID(),
		Title:    req.Title,
		SubTitle: req.SubTitle,
		Priority: req.Priority,
		Banner:   req.Banner,
		IsActive: true,
	}
	if err := s.gyms.CreateAnnouncement(ctx, a); err != nil {
		return nil, wrapRepoError(err)
	}

	if req.Notify && s.notifier != nil {
		s.notifyMembers(ctx, gymCtx, a)
	}
	return a, nil
}

func (s *GymAdminService) notifyMembers(ctx context.Context, gymCtx GymContext, a *gormModels.Announcement) {
	contacts, err := s.gyms.MemberContacts(ctx, gymCtx.GymID())
	if err != nil {
		logging.Warn("Failed to load member contacts", "gym_id", gymCtx.GymID(), "error", err)
		return
	}

	var emails, tokens []string
	for _, c := range contacts {
		if c.Email != "" {
			emails = append(emails, c.Email)
		}
		if c.DeviceToken != "" {
			tokens = append(tokens, c.DeviceToken)
		}
	}

	data := map[string]string{
		"type":            "announcement",
		"announcement_id": strconv.FormatUint(uint64(a.ID), 10),
		"gym_id":          strconv.FormatUint(uint64(a.GymID), 10),
	}
	if err := s.notifier.Push(ctx, tokens, a.Title, a.SubTitle, data); err != nil {
		logging.Warn("Failed to queue announcement push", "announcement_id", a.ID, "error", err)
	}
	body := a.Title
	if a.SubTitle != "" {
		body += "\n\n" + a.SubTitle
	}
	if err := s.notifier.EmailPlain(ctx, emails, a.Title, body); err != nil {
		logging.Warn("Failed to queue announcement email", "announcement_id", a.ID, "error", err)
	}

	logging.Info("Announcement notifications queued",
		"announcement_id", a.ID,
		"emails", len(emails),
		"devices", len(tokens),
	)
}
