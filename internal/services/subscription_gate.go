package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"climbing-gym/belay/internal/constants"
	"climbing-gym/belay/internal/db/repositories"
	"climbing-gym/belay/internal/metrics"
	"climbing-gym/belay/internal/models/dtos/responses"
	gormModels "climbing-gym/belay/internal/models/gorm"
)

// Capability is one plan-gated action
type Capability string

const (
	CapAnnouncements  Capability = "announcements"
	CapBiometricData  Capability = "biometric_data"
	CapSignUpInfo     Capability = "sign_up_info"
	CapGymStaffAccess Capability = "gym_staff_access"
	CapWallPics       Capability = "wall_pics"
	CapAddStaff       Capability = "add_staff"
	CapAddWall        Capability = "add_wall"
	CapFeedbackAccess Capability = "feedback_access"
)

// Profile access levels returned by UserProfileAccess
const (
	ProfileAccessFull       = 1
	ProfileAccessBiometric  = 2
	ProfileAccessSignUpInfo = 3
)

type subscriptionLookup interface {
	GetByOwner(ctx context.Context, ownerID uint) (*gormModels.UserSubscription, error)
}

type quotaCounter interface {
	CountActiveStaff(ctx context.Context, gymID uint) (int64, error)
	CountWallsSince(ctx context.Context, gymID uint, since *time.Time) (int64, error)
}

type SubscriptionGate struct {
	subs    subscriptionLookup
	quotas  quotaCounter
	metrics *metrics.MetricsRegistry
}

func NewSubscriptionGate(subs subscriptionLookup, quotas quotaCounter, m *metrics.MetricsRegistry) *SubscriptionGate {
	return &SubscriptionGate{subs: subs, quotas: quotas, metrics: m}
}

// activePlan returns the owner's plan, or nil when the gym has no usable subscription
func (g *SubscriptionGate) activePlan(ctx context.Context, gymCtx GymContext) (*gormModels.UserSubscription, *gormModels.SubscriptionPlan, error) {
	sub, err := g.subs.GetByOwner(ctx, gymCtx.OwnerUserID())
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, wrapRepoError(err)
	}
	if !sub.IsSubscribed || sub.Plan == nil {
		return sub, nil, nil
	}
	return sub, sub.Plan, nil
}

// Check reports whether the gym's plan allows capability. A denial carries the
// reason shown to the user; err is only set when the lookup itself failed.
func (g *SubscriptionGate) Check(ctx context.Context, gymCtx GymContext, capability Capability) (bool, string, error) {
	sub, plan, err := g.activePlan(ctx, gymCtx)
	if err != nil {
		return false, "", err
	}
	if plan == nil {
		return g.deny(capability, constants.GetErrorMessage(constants.ErrCodeNotActiveSubscription))
	}

	upgrade := constants.GetErrorMessage(constants.ErrCodeUpgradePlan)
	switch capability {
	case CapAnnouncements:
		if !plan.AnnouncementsCreate {
			return g.deny(capability, upgrade)
		}
	case CapBiometricData:
		if !plan.AccessToBiometricData {
			return g.deny(capability, upgrade)
		}
	case CapSignUpInfo:
		if !plan.AccessToSignUpInfo {
			return g.deny(capability, upgrade)
		}
	case CapGymStaffAccess:
		if !plan.AccessToGymStaff {
			return g.deny(capability, upgrade)
		}
	case CapWallPics:
		if !plan.AccessToWallPics {
			return g.deny(capability, upgrade)
		}
	case CapFeedbackAccess:
		if plan.AccessFeedbackPerMonth <= 0 {
			return g.deny(capability, upgrade)
		}
	case CapAddStaff:
		count, err := g.quotas.CountActiveStaff(ctx, gymCtx.GymID())
		if err != nil {
			return false, "", wrapRepoError(err)
		}
		if count >= int64(plan.ActiveGymStaffNumber) {
			return g.deny(capability, fmt.Sprintf(constants.MsgStaffLimitFmt, plan.ActiveGymStaffNumber))
		}
	case CapAddWall:
		count, err := g.quotas.CountWallsSince(ctx, gymCtx.GymID(), sub.SubscriptionStart)
		if err != nil {
			return false, "", wrapRepoError(err)
		}
		if count >= int64(plan.UploadedWallNumber) {
			return g.deny(capability, fmt.Sprintf(constants.MsgWallLimitFmt, plan.UploadedWallNumber))
		}
	default:
		return false, "", fmt.Errorf("unknown capability %q", capability)
	}
	return true, "", nil
}

func (g *SubscriptionGate) deny(capability Capability, reason string) (bool, string, error) {
	if g.metrics != nil {
		g.metrics.SubscriptionDenials.WithLabelValues(string(capability)).Inc()
	}
	return false, reason, nil
}

// Require is Check folded into a single error for service callers
func (g *SubscriptionGate) Require(ctx context.Context, gymCtx GymContext, capabilities ...Capability) error {
	for _, c := range capabilities {
		ok, reason, err := g.Check(ctx, gymCtx, c)
		if err != nil {
			return err
		}
		if !ok {
			return &ServiceError{Code: constants.ErrCodeUpgradePlan, Message: reason}
		}
	}
	return nil
}

// WallSlotsLeft is how many more walls the plan allows this period
func (g *SubscriptionGate) WallSlotsLeft(ctx context.Context, gymCtx GymContext) (int64, error) {
	sub, plan, err := g.activePlan(ctx, gymCtx)
	if err != nil {
		return 0, err
	}
	if plan == nil {
		return 0, newServiceError(constants.ErrCodeNoActivePlan, nil)
	}
	count, err := g.quotas.CountWallsSince(ctx, gymCtx.GymID(), sub.SubscriptionStart)
	if err != nil {
		return 0, wrapRepoError(err)
	}
	left := int64(plan.UploadedWallNumber) - count
	if left < 0 {
		left = 0
	}
	return left, nil
}

// UserProfileAccess decides how much of a member profile the gym may read.
func (g *SubscriptionGate) UserProfileAccess(ctx context.Context, gymCtx GymContext) (int, error) {
	_, plan, err := g.activePlan(ctx, gymCtx)
	if err != nil {
		return 0, err
	}
	if plan == nil {
		g.deny(CapBiometricData, "")
		return 0, newServiceError(constants.ErrCodeNotActiveSubscription, nil)
	}

	switch {
	case plan.AccessToBiometricData && plan.AccessToSignUpInfo:
		return ProfileAccessFull, nil
	case plan.AccessToBiometricData:
		return ProfileAccessBiometric, nil
	case plan.AccessToSignUpInfo:
		return ProfileAccessSignUpInfo, nil
	default:
		g.deny(CapBiometricData, "")
		return 0, newServiceError(constants.ErrCodeUpgradePlan, nil)
	}
}

// Status summarizes the gym's subscription for the owner dashboard
func (g *SubscriptionGate) Status(ctx context.Context, gymCtx GymContext) (*responses.SubscriptionStatus, error) {
	sub, plan, err := g.activePlan(ctx, gymCtx)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		out := &responses.SubscriptionStatus{
			Message: constants.GetErrorMessage(constants.ErrCodeNotActiveSubscription),
		}
		if sub != nil {
			out.SubscriptionStart = responses.NewTimestamp(sub.SubscriptionStart)
			out.SubscriptionEnd = responses.NewTimestamp(sub.SubscriptionEnd)
		}
		return out, nil
	}

	left, err := g.WallSlotsLeft(ctx, gymCtx)
	if err != nil {
		return nil, err
	}
	return &responses.SubscriptionStatus{
		IsActive:          true,
		PlanTitle:         plan.Title,
		SubscriptionStart: responses.NewTimestamp(sub.SubscriptionStart),
		SubscriptionEnd:   responses.NewTimestamp(sub.SubscriptionEnd),
		WallSlotsLeft:     &left,
		FeedbackPerMonth:  plan.AccessFeedbackPerMonth,
	}, nil
}
