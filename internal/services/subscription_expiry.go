package services

import (
	"context"
	"time"

	"climbing-gym/belay/internal/constants"
	"climbing-gym/belay/internal/logging"
	gormModels "climbing-gym/belay/internal/models/gorm"
)

type expiringSubscriptions interface {
	Expired(ctx context.Context, now time.Time) ([]gormModels.UserSubscription, error)
	Save(ctx context.Context, sub *gormModels.UserSubscription) error
}

// SubscriptionExpiryService closes subscriptions whose paid period has ended
// and tells the owner by email.
type SubscriptionExpiryService struct {
	subs     expiringSubscriptions
	notifier emailNotifier
	now      func() time.Time
}

func NewSubscriptionExpiryService(subs expiringSubscriptions, notifier emailNotifier) *SubscriptionExpiryService {
	return &SubscriptionExpiryService{subs: subs, notifier: notifier, now: time.Now}
}

// ExpireLapsed returns how many subscriptions were closed. One failed save
// does not stop the rest.
func (s *SubscriptionExpiryService) ExpireLapsed(ctx context.Context) (int, error) {
	now := s.now()
	lapsed, err := s.subs.Expired(ctx, now)
	if err != nil {
		return 0, wrapRepoError(err)
	}

	closed := 0
	for i := range lapsed {
		sub := &lapsed[i]
		endedAt := now
		if sub.SubscriptionEnd != nil {
			endedAt = *sub.SubscriptionEnd
		}
		owner := sub.User

		deactivateSubscription(sub)
		sub.User = nil
		if err := s.subs.Save(ctx, sub); err != nil {
			logging.Error("Failed to expire subscription", "subscription_id", sub.ID, "user_id", sub.UserID, "error", err)
			continue
		}
		closed++

		if owner == nil || s.notifier == nil {
			continue
		}
		data := map[string]string{
			"full_name": owner.FullName,
			"ended_at":  endedAt.UTC().Format("2006-01-02"),
		}
		if err := s.notifier.EmailHTML(ctx, []string{owner.Email}, constants.MsgSubscriptionEnded, "subscription_ended", data); err != nil {
			logging.Warn("Failed to enqueue subscription ended email", "user_id", owner.ID, "error", err)
		}
	}
	return closed, nil
}
