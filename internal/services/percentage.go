package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"climbing-gym/belay/internal/db/repositories"
	"climbing-gym/belay/internal/logging"
	"climbing-gym/belay/internal/metrics"
	gormModels "climbing-gym/belay/internal/models/gorm"
)

type BasicInput struct {
	Avatar         string
	FullName       string
	Email          string
	PreferClimbing *int
}

type ClimbingInput struct {
	StrengthHold []string
	StrengthMove []string
	WeaknessHold []string
	WeaknessMove []string
}

type BiometricInput struct {
	Height   *float64
	Wingspan *float64
	ApeIndex *float64
	Gender   int
	Birthday *time.Time
	Weight   *float64
	ShoeSize *float64
	HandSize *float64
}

// BasicPercentage scores avatar, full name, email and a valid climbing preference.
func BasicPercentage(in BasicInput) float64 {
	set := 0
	for _, s := range []string{in.Avatar, in.FullName, in.Email} {
		if s != "" {
			set++
		}
	}
	if in.PreferClimbing != nil && *in.PreferClimbing >= 0 && *in.PreferClimbing <= 2 {
		set++
	}
	return float64(set) / 4 * 100
}

// ClimbingPercentage starts from a base of 5 of 7 points and adds one for any
// strength and one for any weakness.
func ClimbingPercentage(in ClimbingInput) float64 {
	points := 5
	if len(in.StrengthHold) > 0 || len(in.StrengthMove) > 0 {
		points++
	}
	if len(in.WeaknessHold) > 0 || len(in.WeaknessMove) > 0 {
		points++
	}
	return float64(points) / 7 * 100
}

// BiometricPercentage is the share of biometric fields that are set. Gender 0 means unset.
func BiometricPercentage(in BiometricInput) float64 {
	fields := []bool{
		in.Height != nil,
		in.Wingspan != nil,
		in.ApeIndex != nil,
		in.Gender != 0,
		in.Birthday != nil,
		in.Weight != nil,
		in.ShoeSize != nil,
		in.HandSize != nil,
	}
	set := 0
	for _, ok := range fields {
		if ok {
			set++
		}
	}
	return float64(set) / float64(len(fields)) * 100
}

func OverallPercentage(basic, climbing, biometric float64) float64 {
	return (basic + climbing + biometric) / 300 * 100
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// PercentagePart names one of the three recomputable sections
type PercentagePart string

const (
	PartBasic     PercentagePart = "basic"
	PartClimbing  PercentagePart = "climbing"
	PartBiometric PercentagePart = "biometric"
)

// PercentageError is a non-fatal recalculation failure. The stored snapshot is unchanged.
type PercentageError struct {
	UserID uint
	Parts  []PercentagePart
	Err    error
}

func (e *PercentageError) Error() string {
	return fmt.Sprintf("percentage recalculation for user %d failed: %v", e.UserID, e.Err)
}

func (e *PercentageError) Unwrap() error {
	return e.Err
}

type percentageStore interface {
	Get(ctx context.Context, userID uint) (*gormModels.UserDetailPercentage, error)
	Upsert(ctx context.Context, p *gormModels.UserDetailPercentage) error
}

type userLoader interface {
	GetByID(ctx context.Context, userID uint, includeDeleted bool) (*gormModels.User, error)
}

type PercentageService struct {
	store   percentageStore
	users   userLoader
	metrics *metrics.MetricsRegistry
}

func NewPercentageService(store percentageStore, users userLoader, reg *metrics.MetricsRegistry) *PercentageService {
	return &PercentageService{store: store, users: users, metrics: reg}
}

func (s *PercentageService) Get(ctx context.Context, userID uint) (*gormModels.UserDetailPercentage, error) {
	p, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, wrapRepoError(err)
	}
	return p, nil
}

// Recalculate recomputes the requested parts (all three when none are given),
// then overall, and persists the snapshot.
func (s *PercentageService) Recalculate(ctx context.Context, userID uint, parts ...PercentagePart) (*gormModels.UserDetailPercentage, error) {
	if len(parts) == 0 {
		parts = []PercentagePart{PartBasic, PartClimbing, PartBiometric}
	}
	fail := func(err error) (*gormModels.UserDetailPercentage, error) {
		return nil, &PercentageError{UserID: userID, Parts: parts, Err: err}
	}

	user, err := s.users.GetByID(ctx, userID, false)
	if err != nil {
		return fail(err)
	}

	snapshot, err := s.store.Get(ctx, userID)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		snapshot = &gormModels.UserDetailPercentage{UserID: userID}
	case err != nil:
		return fail(err)
	}

	for _, part := range parts {
		switch part {
		case PartBasic:
			snapshot.BasicDetail = round2(BasicPercentage(basicInputOf(user)))
		case PartClimbing:
			snapshot.ClimbingDetail = round2(ClimbingPercentage(climbingInputOf(user)))
		case PartBiometric:
			snapshot.BiometricDetail = round2(BiometricPercentage(biometricInputOf(user)))
		default:
			return fail(fmt.Errorf("unknown percentage part %q", part))
		}
	}
	snapshot.OverallDetail = round2(OverallPercentage(snapshot.BasicDetail, snapshot.ClimbingDetail, snapshot.BiometricDetail))

	if err := s.store.Upsert(ctx, snapshot); err != nil {
		return fail(err)
	}
	return snapshot, nil
}

// RecalculateQuietly runs Recalculate for callers whose own update must not
// fail because of it. Failures are logged and counted.
func (s *PercentageService) RecalculateQuietly(ctx context.Context, userID uint, parts ...PercentagePart) {
	_, err := s.Recalculate(ctx, userID, parts...)
	if err == nil {
		return
	}

	var pErr *PercentageError
	if errors.As(err, &pErr) {
		for _, part := range pErr.Parts {
			if s.metrics != nil {
				s.metrics.PercentageFailures.WithLabelValues(string(part)).Inc()
			}
		}
	}
	logging.Warn("Profile completion recalculation failed",
		"user_id", userID,
		"error", err.Error(),
	)
}

func basicInputOf(u *gormModels.User) BasicInput {
	in := BasicInput{FullName: u.FullName, Email: u.Email}
	if u.Details != nil {
		in.Avatar = u.Details.UserAvatar
	}
	if u.Preference != nil {
		in.PreferClimbing = u.Preference.PreferClimbing
	}
	return in
}

func climbingInputOf(u *gormModels.User) ClimbingInput {
	if u.Details == nil {
		return ClimbingInput{}
	}
	return ClimbingInput{
		StrengthHold: u.Details.StrengthHold,
		StrengthMove: u.Details.StrengthMove,
		WeaknessHold: u.Details.WeaknessHold,
		WeaknessMove: u.Details.WeaknessMove,
	}
}

func biometricInputOf(u *gormModels.User) BiometricInput {
	b := u.Biometric
	if b == nil {
		return BiometricInput{}
	}
	return BiometricInput{
		Height:   b.Height,
		Wingspan: b.Wingspan,
		ApeIndex: b.ApeIndex,
		Gender:   b.Gender,
		Birthday: b.Birthday,
		Weight:   b.Weight,
		ShoeSize: b.ShoeSize,
		HandSize: b.HandSize,
	}
}
