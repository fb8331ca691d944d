package services

import (
	"context"
	"time"

	"climbing-gym/belay/internal/auth"
	"climbing-gym/belay/internal/constants"
	gormModels "climbing-gym/belay/internal/models/gorm"
)

// GymContext is the gym a gym-scoped request acts on, resolved once per request.
type GymContext interface {
	Gym() *gormModels.Gym
	GymID() uint
	OwnerUserID() uint
	OwnerCreatedAt() time.Time
	ActorUserID() uint
	IsOwner() bool
}

// OwnerContext is a gym owner acting on their own gym
type OwnerContext struct {
	gym *gormModels.Gym
}

func (c OwnerContext) Gym() *gormModels.Gym      { return c.gym }
func (c OwnerContext) GymID() uint               { return c.gym.ID }
func (c OwnerContext) OwnerUserID() uint         { return c.gym.UserID }
func (c OwnerContext) OwnerCreatedAt() time.Time { return c.gym.User.CreatedAt }
func (c OwnerContext) ActorUserID() uint         { return c.gym.UserID }
func (c OwnerContext) IsOwner() bool             { return true }

// StaffContext is a staff member acting on their home gym on the owner's behalf
type StaffContext struct {
	gym     *gormModels.Gym
	staffID uint
}

func (c StaffContext) Gym() *gormModels.Gym      { return c.gym }
func (c StaffContext) GymID() uint               { return c.gym.ID }
func (c StaffContext) OwnerUserID() uint         { return c.gym.UserID }
func (c StaffContext) OwnerCreatedAt() time.Time { return c.gym.User.CreatedAt }
func (c StaffContext) ActorUserID() uint         { return c.staffID }
func (c StaffContext) IsOwner() bool             { return false }

// NewOwnerContext and NewStaffContext build contexts directly; handlers use the resolver.
func NewOwnerContext(gym *gormModels.Gym) OwnerContext { return OwnerContext{gym: gym} }

func NewStaffContext(gym *gormModels.Gym, staffID uint) StaffContext {
	return StaffContext{gym: gym, staffID: staffID}
}

type gymLookup interface {
	GetByOwner(ctx context.Context, ownerID uint) (*gormModels.Gym, error)
	GetByID(ctx context.Context, gymID uint) (*gormModels.Gym, error)
	HomeGymID(ctx context.Context, userID uint) (*uint, error)
}

type GymContextResolver struct {
	gyms gymLookup
}

func NewGymContextResolver(gyms gymLookup) *GymContextResolver {
	return &GymContextResolver{gyms: gyms}
}

// Resolve maps the caller to the gym they act on. Owners get their own gym,
// active staff get their home gym, everyone else gets NO_GYM_CONTEXT.
func (r *GymContextResolver) Resolve(ctx context.Context, claims auth.UserClaims) (GymContext, error) {
	if claims == nil {
		return nil, newServiceError(constants.ErrCodeUnauthorized, nil)
	}

	if claims.HasRole(constants.RoleGymOwner) {
		gym, err := r.gyms.GetByOwner(ctx, claims.UserID())
		if err != nil {
			return nil, newServiceError(constants.ErrCodeNoGymContext, err)
		}
		return OwnerContext{gym: gym}, nil
	}

	if claims.HasRole(constants.RoleGymStaff) {
		homeGymID, err := r.gyms.HomeGymID(ctx, claims.UserID())
		if err != nil {
			return nil, wrapRepoError(err)
		}
		if homeGymID == nil {
			return nil, newServiceError(constants.ErrCodeNoGymContext, nil)
		}
		gym, err := r.gyms.GetByID(ctx, *homeGymID)
		if err != nil {
			return nil, newServiceError(constants.ErrCodeNoGymContext, err)
		}
		return StaffContext{gym: gym, staffID: claims.UserID()}, nil
	}

	return nil, newServiceError(constants.ErrCodeNoGymContext, nil)
}
