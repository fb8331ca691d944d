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

func TestSubscriptionExpiry_ExpireLapsed(t *testing.T) {
	db := setupTestDB(t)
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)

	lapsedOwner := seedUser(t, db, "lapsed@belay.test", constants.RoleGymOwner)
	currentOwner := seedUser(t, db, "current@belay.test", constants.RoleGymOwner)

	plan := &gormModels.SubscriptionPlan{Title: "Pro"}
	require.NoError(t, db.Create(plan).Error)

	ended := now.AddDate(0, 0, -3)
	future := now.AddDate(0, 1, 0)
	lapsed := &gormModels.UserSubscription{
		UserID: lapsedOwner.ID, IsSubscribed: true, SubscriptionEnd: &ended,
		SubscriptionStatus: constants.SubscriptionActive, SubscriptionID: "sub_old", PlanID: &plan.ID,
	}
	current := &gormModels.UserSubscription{
		UserID: currentOwner.ID, IsSubscribed: true, SubscriptionEnd: &future,
		SubscriptionStatus: constants.SubscriptionActive, PlanID: &plan.ID,
	}
	require.NoError(t, db.Omit("Plan", "User").Create(lapsed).Error)
	require.NoError(t, db.Omit("Plan", "User").Create(current).Error)

	notifier := &recordingNotifier{}
	svc := NewSubscriptionExpiryService(repositories.NewSubscriptionRepository(db), notifier)
	svc.now = func() time.Time { return now }

	closed, err := svc.ExpireLapsed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, closed)

	var stored gormModels.UserSubscription
	require.NoError(t, db.First(&stored, lapsed.ID).Error)
	assert.False(t, stored.IsSubscribed)
	assert.Nil(t, stored.PlanID)
	assert.Equal(t, "", stored.SubscriptionID)
	assert.Equal(t, constants.SubscriptionExpired, stored.SubscriptionInterval)

	require.NoError(t, db.First(&stored, current.ID).Error)
	assert.True(t, stored.IsSubscribed)

	require.Len(t, notifier.emails, 1)
	assert.Equal(t, []string{"lapsed@belay.test"}, notifier.emails[0].Recipients)
	assert.Equal(t, "subscription_ended", notifier.emails[0].Template)
	assert.Equal(t, "2024-06-12", notifier.emails[0].Data["ended_at"])

	// a second pass finds nothing left to close
	closed, err = svc.ExpireLapsed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, closed)
}
