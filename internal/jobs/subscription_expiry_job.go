package jobs

import (
	"context"
	"time"

	"climbing-gym/belay/internal/logging"
	"climbing-gym/belay/internal/metrics"
)

type subscriptionExpirer interface {
	ExpireLapsed(ctx context.Context) (int, error)
}

// SubscriptionExpiryJob closes lapsed subscriptions on a schedule
type SubscriptionExpiryJob struct {
	expirer subscriptionExpirer
	metrics *metrics.MetricsRegistry
}

func NewSubscriptionExpiryJob(expirer subscriptionExpirer, m *metrics.MetricsRegistry) *SubscriptionExpiryJob {
	return &SubscriptionExpiryJob{expirer: expirer, metrics: m}
}

func (j *SubscriptionExpiryJob) Run(ctx context.Context) error {
	start := time.Now()
	logging.Info("Subscription expiry starting")

	closed, err := j.expirer.ExpireLapsed(ctx)
	if j.metrics != nil {
		j.metrics.JobDuration.WithLabelValues("subscription_expiry").Observe(time.Since(start).Seconds())
	}
	if err != nil {
		logging.Error("Subscription expiry failed", "error", err)
		return err
	}

	logging.Info("Subscription expiry finished",
		"closed", closed,
		"duration", time.Since(start).Truncate(time.Millisecond).String(),
	)
	return nil
}

// RunScheduled runs once immediately and then every interval until ctx ends
func (j *SubscriptionExpiryJob) RunScheduled(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	_ = j.Run(ctx)

	for {
		select {
		case <-ticker.C:
			_ = j.Run(ctx)
		case <-ctx.Done():
			logging.Info("Subscription expiry job shutting down")
			return
		}
	}
}
