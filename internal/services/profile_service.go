package services

import (
	"context"
	"strings"
	"time"

	"climbing-gym/belay/internal/models/dtos/requests"
	"climbing-gym/belay/internal/models/dtos/responses"
	gormModels "climbing-gym/belay/internal/models/gorm"
)

type profileStore interface {
	GetByID(ctx context.Context, userID uint, includeDeleted bool) (*gormModels.User, error)
	UpdateUser(ctx context.Context, userID uint, fields map[string]interface{}) error
	SaveDetails(ctx context.Context, d *gormModels.UserDetails) error
	SaveBiometric(ctx context.Context, b *gormModels.UserBiometric) error
	SavePreference(ctx context.Context, p *gormModels.UserPreference) error
}

type percentageRecalculator interface {
	Get(ctx context.Context, userID uint) (*gormModels.UserDetailPercentage, error)
	RecalculateQuietly(ctx context.Context, userID uint, parts ...PercentagePart)
}

// ProfileService applies climber profile edits and keeps the completion snapshot current
type ProfileService struct {
	users       profileStore
	percentages percentageRecalculator
}

func NewProfileService(users profileStore, percentages percentageRecalculator) *ProfileService {
	return &ProfileService{users: users, percentages: percentages}
}

func (s *ProfileService) load(ctx context.Context, userID uint) (*gormModels.User, error) {
	user, err := s.users.GetByID(ctx, userID, false)
	if err != nil {
		return nil, wrapRepoError(err)
	}
	if user.Details == nil {
		user.Details = &gormModels.UserDetails{UserID: userID}
	}
	if user.Biometric == nil {
		user.Biometric = &gormModels.UserBiometric{UserID: userID}
	}
	if user.Preference == nil {
		user.Preference = &gormModels.UserPreference{UserID: userID}
	}
	return user, nil
}

// UpdateBasic edits name, avatar and climbing preference. Only fields present in req change.
func (s *ProfileService) UpdateBasic(ctx context.Context, userID uint, req requests.UpdateBasicRequest) error {
	user, err := s.load(ctx, userID)
	if err != nil {
		return err
	}

	if req.FullName != nil {
		if err := s.users.UpdateUser(ctx, userID, map[string]interface{}{"full_name": strings.TrimSpace(*req.FullName)}); err != nil {
			return wrapRepoError(err)
		}
	}
	if req.UserAvatar != nil {
		user.Details.UserAvatar = *req.UserAvatar
		if err := s.users.SaveDetails(ctx, user.Details); err != nil {
			return wrapRepoError(err)
		}
	}

	p := user.Preference
	changed := false
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
			changed = true
		}
	}
	if req.PreferClimbing != nil {
		p.PreferClimbing = req.PreferClimbing
		changed = true
	}
	set(&p.RopeGrading, req.RopeGrading)
	set(&p.BoulderingGrading, req.BoulderingGrading)
	set(&p.Bouldering, req.Bouldering)
	set(&p.TopRope, req.TopRope)
	set(&p.LeadClimbing, req.LeadClimbing)
	if changed {
		if err := s.users.SavePreference(ctx, p); err != nil {
			return wrapRepoError(err)
		}
	}

	s.percentages.RecalculateQuietly(ctx, userID, PartBasic)
	return nil
}

// UpdateBiometric edits body measurements. Only fields present in req change.
func (s *ProfileService) UpdateBiometric(ctx context.Context, userID uint, req requests.UpdateBiometricRequest) error {
	user, err := s.load(ctx, userID)
	if err != nil {
		return err
	}

	b := user.Biometric
	if req.Height != nil {
		b.Height = req.Height
	}
	if req.Wingspan != nil {
		b.Wingspan = req.Wingspan
	}
	if req.ApeIndex != nil {
		b.ApeIndex = req.ApeIndex
	}
	if req.Gender != nil {
		b.Gender = *req.Gender
	}
	if req.Birthday != nil {
		day, err := time.Parse("2006-01-02", *req.Birthday)
		if err != nil {
			return validationError("birthday", "birthday must be YYYY-MM-DD")
		}
		b.Birthday = &day
	}
	if req.Weight != nil {
		b.Weight = req.Weight
	}
	if req.ShoeSize != nil {
		b.ShoeSize = req.ShoeSize
	}
	if req.HandSize != nil {
		b.HandSize = req.HandSize
	}

	if err := s.users.SaveBiometric(ctx, b); err != nil {
		return wrapRepoError(err)
	}
	s.percentages.RecalculateQuietly(ctx, userID, PartBiometric)
	return nil
}

// UpdateClimbing replaces the strength and weakness lists that are present in req
func (s *ProfileService) UpdateClimbing(ctx context.Context, userID uint, req requests.UpdateClimbingRequest) error {
	user, err := s.load(ctx, userID)
	if err != nil {
		return err
	}

	d := user.Details
	if req.StrengthHold != nil {
		d.StrengthHold = req.StrengthHold
	}
	if req.StrengthMove != nil {
		d.StrengthMove = req.StrengthMove
	}
	if req.WeaknessHold != nil {
		d.WeaknessHold = req.WeaknessHold
	}
	if req.WeaknessMove != nil {
		d.WeaknessMove = req.WeaknessMove
	}

	if err := s.users.SaveDetails(ctx, d); err != nil {
		return wrapRepoError(err)
	}
	s.percentages.RecalculateQuietly(ctx, userID, PartClimbing)
	return nil
}

func (s *ProfileService) Percentage(ctx context.Context, userID uint) (*responses.PercentageResponse, error) {
	p, err := s.percentages.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &responses.PercentageResponse{
		BasicDetail:     p.BasicDetail,
		ClimbingDetail:  p.ClimbingDetail,
		BiometricDetail: p.BiometricDetail,
		OverallDetail:   p.OverallDetail,
	}, nil
}
