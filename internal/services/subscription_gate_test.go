package services

import (
	"context"
	"testing"
	"time"

	"climbing-gym/belay/internal/constants"
	"climbing-gym/belay/internal/db/repositories"
	gormModels "climbing-gym/belay/internal/models/gorm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubscriptionLookup struct {
	getByOwnerFunc func(ctx context.Context, ownerID uint) (*gormModels.UserSubscription, error)
}

func (f *fakeSubscriptionLookup) GetByOwner(ctx context.Context, ownerID uint) (*gormModels.UserSubscription, error) {
	return f.getByOwnerFunc(ctx, ownerID)
}

type fakeQuotaCounter struct {
	staff int64
	walls int64
	since *time.Time
}

func (f *fakeQuotaCounter) CountActiveStaff(context.Context, uint) (int64, error) {
	return f.staff, nil
}

func (f *fakeQuotaCounter) CountWallsSince(_ context.Context, _ uint, since *time.Time) (int64, error) {
	f.since = since
	return f.walls, nil
}

func gateFixture(sub *gormModels.UserSubscription, quotas *fakeQuotaCounter) (*SubscriptionGate, GymContext) {
	lookup := &fakeSubscriptionLookup{getByOwnerFunc: func(context.Context, uint) (*gormModels.UserSubscription, error) {
		if sub == nil {
			return nil, repositories.ErrNotFound
		}
		return sub, nil
	}}
	gym := &gormModels.Gym{Base: gormModels.Base{ID: 3}, UserID: 1}
	return NewSubscriptionGate(lookup, quotas, testMetrics()), NewOwnerContext(gym)
}

func activeSubscription(plan *gormModels.SubscriptionPlan) *gormModels.UserSubscription {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &gormModels.UserSubscription{
		UserID:             1,
		IsSubscribed:       true,
		SubscriptionStart:  &start,
		SubscriptionStatus: constants.SubscriptionActive,
		Plan:               plan,
	}
}

func TestSubscriptionGate_NoSubscription(t *testing.T) {
	gate, gymCtx := gateFixture(nil, &fakeQuotaCounter{})

	ok, reason, err := gate.Check(context.Background(), gymCtx, CapAnnouncements)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "Please activate your subscription.", reason)
	assert.Equal(t, 1.0, counterValue(t, gate.metrics.SubscriptionDenials.WithLabelValues("announcements")))
}

func TestSubscriptionGate_InactiveSubscriptionHasNoPlan(t *testing.T) {
	sub := activeSubscription(&gormModels.SubscriptionPlan{AnnouncementsCreate: true})
	sub.IsSubscribed = false
	gate, gymCtx := gateFixture(sub, &fakeQuotaCounter{})

	ok, _, err := gate.Check(context.Background(), gymCtx, CapAnnouncements)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSubscriptionGate_PlanFlags(t *testing.T) {
	plan := &gormModels.SubscriptionPlan{
		AnnouncementsCreate:    true,
		AccessToWallPics:       false,
		AccessToGymStaff:       true,
		AccessFeedbackPerMonth: 0,
	}
	gate, gymCtx := gateFixture(activeSubscription(plan), &fakeQuotaCounter{})
	ctx := context.Background()

	ok, _, err := gate.Check(ctx, gymCtx, CapAnnouncements)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, reason, err := gate.Check(ctx, gymCtx, CapWallPics)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "Upgrade your plan", reason)

	ok, _, err = gate.Check(ctx, gymCtx, CapFeedbackAccess)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = gate.Check(ctx, gymCtx, Capability("teleport"))
	assert.Error(t, err)
}

func TestSubscriptionGate_StaffQuota(t *testing.T) {
	plan := &gormModels.SubscriptionPlan{AccessToGymStaff: true, ActiveGymStaffNumber: 2}
	quotas := &fakeQuotaCounter{staff: 1}
	gate, gymCtx := gateFixture(activeSubscription(plan), quotas)

	require.NoError(t, gate.Require(context.Background(), gymCtx, CapGymStaffAccess, CapAddStaff))

	quotas.staff = 2
	err := gate.Require(context.Background(), gymCtx, CapGymStaffAccess, CapAddStaff)
	require.Error(t, err)
	assert.Equal(t, constants.ErrCodeUpgradePlan, ErrorCode(err))

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "Upgrade your plan to add more staff member (Current limit -> 2).", svcErr.Message)
}

func TestSubscriptionGate_WallQuotaCountsFromSubscriptionStart(t *testing.T) {
	plan := &gormModels.SubscriptionPlan{AccessToWallPics: true, UploadedWallNumber: 5}
	quotas := &fakeQuotaCounter{walls: 3}
	sub := activeSubscription(plan)
	gate, gymCtx := gateFixture(sub, quotas)

	left, err := gate.WallSlotsLeft(context.Background(), gymCtx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), left)
	assert.Equal(t, sub.SubscriptionStart, quotas.since)

	quotas.walls = 9
	left, err = gate.WallSlotsLeft(context.Background(), gymCtx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), left)

	ok, reason, err := gate.Check(context.Background(), gymCtx, CapAddWall)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "Upgrade your plan to add more walls (Current limit -> 5).", reason)
}

func TestSubscriptionGate_WallSlotsWithoutPlan(t *testing.T) {
	gate, gymCtx := gateFixture(nil, &fakeQuotaCounter{})

	_, err := gate.WallSlotsLeft(context.Background(), gymCtx)
	assert.Equal(t, constants.ErrCodeNoActivePlan, ErrorCode(err))
}

func TestSubscriptionGate_UserProfileAccess(t *testing.T) {
	cases := []struct {
		name      string
		plan      *gormModels.SubscriptionPlan
		wantLevel int
		wantCode  string
	}{
		{"full", &gormModels.SubscriptionPlan{AccessToBiometricData: true, AccessToSignUpInfo: true}, ProfileAccessFull, ""},
		{"biometric only", &gormModels.SubscriptionPlan{AccessToBiometricData: true}, ProfileAccessBiometric, ""},
		{"sign up info only", &gormModels.SubscriptionPlan{AccessToSignUpInfo: true}, ProfileAccessSignUpInfo, ""},
		{"neither", &gormModels.SubscriptionPlan{}, 0, constants.ErrCodeUpgradePlan},
		{"no plan", nil, 0, constants.ErrCodeNotActiveSubscription},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var sub *gormModels.UserSubscription
			if tc.plan != nil {
				sub = activeSubscription(tc.plan)
			}
			gate, gymCtx := gateFixture(sub, &fakeQuotaCounter{})

			level, err := gate.UserProfileAccess(context.Background(), gymCtx)
			assert.Equal(t, tc.wantLevel, level)
			assert.Equal(t, tc.wantCode, ErrorCode(err))
		})
	}
}

func TestSubscriptionGate_Status(t *testing.T) {
	plan := &gormModels.SubscriptionPlan{Title: "Pro", UploadedWallNumber: 10, AccessFeedbackPerMonth: 4}
	gate, gymCtx := gateFixture(activeSubscription(plan), &fakeQuotaCounter{walls: 4})

	status, err := gate.Status(context.Background(), gymCtx)
	require.NoError(t, err)
	assert.True(t, status.IsActive)
	assert.Equal(t, "Pro", status.PlanTitle)
	require.NotNil(t, status.WallSlotsLeft)
	assert.Equal(t, int64(6), *status.WallSlotsLeft)
	assert.Equal(t, 4, status.FeedbackPerMonth)

	inactive, _ := gateFixture(nil, &fakeQuotaCounter{})
	status, err = inactive.Status(context.Background(), gymCtx)
	require.NoError(t, err)
	assert.False(t, status.IsActive)
	assert.Nil(t, status.WallSlotsLeft)
}
