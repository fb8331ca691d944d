package jobs

import (
	"context"
	"time"

	"climbing-gym/belay/internal/metrics"
)

// InitializeJobs starts all background jobs
func InitializeJobs(
	ctx context.Context,
	expirer subscriptionExpirer,
	m *metrics.MetricsRegistry,
) *SubscriptionExpiryJob {
	expiryJob := NewSubscriptionExpiryJob(expirer, m)

	go expiryJob.RunScheduled(ctx, 24*time.Hour)

	return expiryJob
}
