package workers

import (
	"context"
	"os"
	"time"

	"climbing-gym/belay/internal/common"
	"climbing-gym/belay/internal/config"
	"climbing-gym/belay/internal/constants"
	"climbing-gym/belay/internal/logging"
	"climbing-gym/belay/internal/metrics"
	"climbing-gym/belay/internal/providers"
)

type WorkersContainer struct {
	Outbound *OutboundWorker
	Monitor  *QueueMonitor
}

func InitWorkers(
	ctx context.Context,
	cfg config.QueueConfig,
	redQ *common.RedisQueueService,
	mailer providers.EmailSender,
	push providers.PushSender,
	tokens deviceTokenPruner,
	m *metrics.MetricsRegistry,
) *WorkersContainer {
	workerID, err := os.Hostname()
	if err != nil || workerID == "" {
		workerID = "belay"
	}

	outbound := NewOutboundWorker(workerID, OutboundWorkerConfig{
		Stream:      cfg.Stream,
		DeadStream:  constants.StreamOutboundDead,
		Group:       cfg.Group,
		Workers:     cfg.Workers,
		MaxAttempts: cfg.MaxAttempts,
		BlockFor:    cfg.BlockFor,
		ClaimIdle:   cfg.ClaimIdle,
		RetryDelay:  cfg.RetryDelay,
	}, redQ, mailer, push, tokens, m)

	monitor := NewQueueMonitor(redQ, outbound.cfg.Group, 10000, outbound.cfg.Stream, outbound.cfg.DeadStream)

	go func() {
		if err := outbound.Start(ctx); err != nil {
			logging.Error("Outbound worker failed to start", "error", err)
		}
	}()
	go monitor.Start(ctx, 30*time.Second)

	return &WorkersContainer{
		Outbound: outbound,
		Monitor:  monitor,
	}
}
