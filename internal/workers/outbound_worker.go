package workers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"climbing-gym/belay/internal/common"
	"climbing-gym/belay/internal/constants"
	"climbing-gym/belay/internal/logging"
	"climbing-gym/belay/internal/metrics"
	"climbing-gym/belay/internal/providers"
)

type taskQueue interface {
	Publish(ctx context.Context, stream string, task *common.OutboundTask) error
	Dequeue(ctx context.Context, stream, group, consumer string, block time.Duration) (*common.OutboundTask, string, error)
	Ack(ctx context.Context, stream, group, messageID string) error
	CreateConsumerGroup(ctx context.Context, stream, group string) error
	ClaimStale(ctx context.Context, stream, group, consumer string, minIdle time.Duration) ([]*common.OutboundTask, []string, error)
}

type deviceTokenPruner interface {
	ClearDeviceTokens(ctx context.Context, tokens []string) error
}

// OutboundWorkerConfig controls stream names and retry behaviour. A retry waits
// RetryDelay, doubling per attempt up to MaxDelay. MaxDelay must stay under
// ClaimIdle or the stale claimer takes over tasks a consumer is still holding.
type OutboundWorkerConfig struct {
	Stream      string
	DeadStream  string
	Group       string
	Workers     int
	MaxAttempts int
	BlockFor    time.Duration
	ClaimIdle   time.Duration
	ClaimEvery  time.Duration
	RetryDelay  time.Duration
	MaxDelay    time.Duration
}

// OutboundWorker delivers queued email and push tasks
type OutboundWorker struct {
	workerID string
	cfg      OutboundWorkerConfig
	queue    taskQueue
	mailer   providers.EmailSender
	push     providers.PushSender
	tokens   deviceTokenPruner
	metrics  *metrics.MetricsRegistry
	now      func() time.Time
}

func NewOutboundWorker(
	workerID string,
	cfg OutboundWorkerConfig,
	queue taskQueue,
	mailer providers.EmailSender,
	push providers.PushSender,
	tokens deviceTokenPruner,
	m *metrics.MetricsRegistry,
) *OutboundWorker {
	if cfg.Stream == "" {
		cfg.Stream = constants.StreamOutboundTasks
	}
	if cfg.DeadStream == "" {
		cfg.DeadStream = constants.StreamOutboundDead
	}
	if cfg.Group == "" {
		cfg.Group = constants.GroupOutbound
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.BlockFor <= 0 {
		cfg.BlockFor = 5 * time.Second
	}
	if cfg.ClaimIdle <= 0 {
		cfg.ClaimIdle = 5 * time.Minute
	}
	if cfg.ClaimEvery <= 0 {
		cfg.ClaimEvery = 2 * time.Minute
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 5 * time.Second
	}
	if cfg.MaxDelay <= 0 || cfg.MaxDelay >= cfg.ClaimIdle {
		cfg.MaxDelay = cfg.ClaimIdle / 2
	}

	return &OutboundWorker{
		workerID: workerID,
		cfg:      cfg,
		queue:    queue,
		mailer:   mailer,
		push:     push,
		tokens:   tokens,
		metrics:  m,
		now:      time.Now,
	}
}

// Start runs the consumers and the stale claimer until ctx is cancelled
func (w *OutboundWorker) Start(ctx context.Context) error {
	if err := w.queue.CreateConsumerGroup(ctx, w.cfg.Stream, w.cfg.Group); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	logging.Info("Outbound worker starting", "worker_id", w.workerID, "consumers", w.cfg.Workers, "stream", w.cfg.Stream)

	var wg sync.WaitGroup
	for i := 0; i < w.cfg.Workers; i++ {
		wg.Add(1)
		consumer := fmt.Sprintf("%s-%d", w.workerID, i)
		go func() {
			defer wg.Done()
			w.consume(ctx, consumer)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		w.claimStale(ctx)
	}()

	wg.Wait()
	logging.Info("Outbound worker stopped", "worker_id", w.workerID)
	return nil
}

func (w *OutboundWorker) consume(ctx context.Context, consumer string) {
	processed, failed := 0, 0
	for {
		select {
		case <-ctx.Done():
			logging.Info("Outbound consumer shutting down", "consumer", consumer, "processed", processed, "failed", failed)
			return
		default:
		}

		task, messageID, err := w.queue.Dequeue(ctx, w.cfg.Stream, w.cfg.Group, consumer, w.cfg.BlockFor)
		if err != nil {
			if messageID != "" {
				// undecodable, nothing to retry
				logging.Warn("Dropping undecodable outbound message", "message_id", messageID, "error", err)
				w.ack(ctx, messageID)
				continue
			}
			if ctx.Err() != nil {
				continue
			}
			logging.Warn("Outbound dequeue failed", "consumer", consumer, "error", err)
			time.Sleep(time.Second)
			continue
		}
		if task == nil {
			continue
		}
		if !w.waitUntilDue(ctx, task) {
			// left pending for the stale claimer
			continue
		}

		if w.Handle(ctx, task) {
			processed++
		} else {
			failed++
		}
		w.ack(ctx, messageID)
	}
}

// Handle delivers one task and schedules a retry or dead letters it on failure.
// The caller acks the source message either way. Returns true on delivery.
func (w *OutboundWorker) Handle(ctx context.Context, task *common.OutboundTask) bool {
	err := w.deliver(ctx, task)
	if err == nil {
		w.count(task.Kind, "delivered")
		return true
	}

	task.Attempt++
	task.LastError = err.Error()

	if providers.IsPermanent(err) || task.Attempt >= w.cfg.MaxAttempts {
		logging.Error("Outbound task dead lettered", "task_id", task.ID, "kind", task.Kind, "attempt", task.Attempt, "error", err)
		if pubErr := w.queue.Publish(ctx, w.cfg.DeadStream, task); pubErr != nil {
			logging.Error("Failed to dead letter task", "task_id", task.ID, "error", pubErr)
		}
		w.count(task.Kind, "dead_lettered")
		return false
	}

	delay := w.retryDelay(task.Attempt)
	task.NotBefore = w.now().Add(delay)
	logging.Warn("Outbound task failed, retrying", "task_id", task.ID, "kind", task.Kind, "attempt", task.Attempt, "retry_in", delay, "error", err)
	if pubErr := w.queue.Publish(ctx, w.cfg.Stream, task); pubErr != nil {
		logging.Error("Failed to requeue task", "task_id", task.ID, "error", pubErr)
	}
	w.count(task.Kind, "retried")
	return false
}

// retryDelay backs off exponentially from RetryDelay, capped at MaxDelay
func (w *OutboundWorker) retryDelay(attempt int) time.Duration {
	delay := w.cfg.RetryDelay
	for i := 1; i < attempt && delay < w.cfg.MaxDelay; i++ {
		delay *= 2
	}
	if delay > w.cfg.MaxDelay {
		delay = w.cfg.MaxDelay
	}
	return delay
}

// waitUntilDue holds a retried task until its NotBefore. False means ctx ended first.
func (w *OutboundWorker) waitUntilDue(ctx context.Context, task *common.OutboundTask) bool {
	wait := task.NotBefore.Sub(w.now())
	if wait <= 0 {
		return true
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (w *OutboundWorker) deliver(ctx context.Context, task *common.OutboundTask) error {
	switch task.Kind {
	case constants.TaskEmailHTML:
		return w.mailer.SendHTML(ctx, task.Recipients, task.Subject, task.Template, task.Data)
	case constants.TaskEmailPlain:
		return w.mailer.SendPlain(ctx, task.Recipients, task.Subject, task.Body)
	case constants.TaskPush:
		result, err := w.push.Send(ctx, task.DeviceTokens, task.Title, task.Body, task.Data)
		if err != nil {
			return err
		}
		if len(result.InvalidTokens) > 0 && w.tokens != nil {
			if err := w.tokens.ClearDeviceTokens(ctx, result.InvalidTokens); err != nil {
				logging.Warn("Failed to clear dead device tokens", "count", len(result.InvalidTokens), "error", err)
			}
		}
		return nil
	}
	return &providers.ProviderError{Provider: "outbound", Message: "unknown task kind " + task.Kind, Permanent: true}
}

// claimStale takes over tasks whose consumer died before acking
func (w *OutboundWorker) claimStale(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.ClaimEvery)
	defer ticker.Stop()

	claimer := w.workerID + "-claimer"
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tasks, messageIDs, err := w.queue.ClaimStale(ctx, w.cfg.Stream, w.cfg.Group, claimer, w.cfg.ClaimIdle)
			if err != nil {
				logging.Warn("Failed to claim stale outbound tasks", "error", err)
				continue
			}
			if len(tasks) > 0 {
				logging.Info("Claimed stale outbound tasks", "count", len(tasks))
			}
			for i, task := range tasks {
				w.Handle(ctx, task)
				w.ack(ctx, messageIDs[i])
			}
		}
	}
}

func (w *OutboundWorker) ack(ctx context.Context, messageID string) {
	if err := w.queue.Ack(ctx, w.cfg.Stream, w.cfg.Group, messageID); err != nil {
		logging.Warn("Failed to ack outbound message", "message_id", messageID, "error", err)
	}
}

func (w *OutboundWorker) count(kind, outcome string) {
	if w.metrics != nil {
		w.metrics.OutboundTasksTotal.WithLabelValues(kind, outcome).Inc()
	}
}
