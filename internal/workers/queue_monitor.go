package workers

import (
	"context"
	"fmt"
	"time"

	"climbing-gym/belay/internal/logging"
)

type queueStats interface {
	QueueLength(ctx context.Context, stream string) (int64, error)
	PendingCount(ctx context.Context, stream, group string) (int64, error)
	TrimStream(ctx context.Context, stream string, maxLen int64) error
}

// QueueStats is a point-in-time view of one stream
type QueueStats struct {
	Stream       string    `json:"stream"`
	QueueLength  int64     `json:"queue_length"`
	PendingCount int64     `json:"pending_count"`
	LastChecked  time.Time `json:"last_checked"`
}

// QueueMonitor logs outbound stream health and keeps streams bounded
type QueueMonitor struct {
	queue   queueStats
	group   string
	streams []string
	maxLen  int64
}

func NewQueueMonitor(queue queueStats, group string, maxLen int64, streams ...string) *QueueMonitor {
	return &QueueMonitor{queue: queue, group: group, streams: streams, maxLen: maxLen}
}

func (m *QueueMonitor) Start(ctx context.Context, interval time.Duration) {
	logging.Info("Queue monitor starting", "interval", interval.String(), "max_len", m.maxLen)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.check(ctx)
	for {
		select {
		case <-ctx.Done():
			logging.Info("Queue monitor shutting down")
			return
		case <-ticker.C:
			m.check(ctx)
		}
	}
}

func (m *QueueMonitor) check(ctx context.Context) {
	stats, err := m.Stats(ctx)
	if err != nil {
		logging.Warn("Queue health check failed", "error", err)
		return
	}

	for _, s := range stats {
		status := "ok"
		if s.PendingCount > 1000 {
			status = "high_pending"
		} else if s.QueueLength > 5000 {
			status = "high_queue"
		}
		logging.Info("Queue health", "stream", s.Stream, "length", s.QueueLength, "pending", s.PendingCount, "status", status)

		if m.maxLen > 0 && s.QueueLength > m.maxLen {
			if err := m.queue.TrimStream(ctx, s.Stream, m.maxLen); err != nil {
				logging.Warn("Failed to trim stream", "stream", s.Stream, "error", err)
			}
		}
	}
}

// Stats returns length and pending counts for every monitored stream
func (m *QueueMonitor) Stats(ctx context.Context) ([]QueueStats, error) {
	out := make([]QueueStats, 0, len(m.streams))
	for _, stream := range m.streams {
		length, err := m.queue.QueueLength(ctx, stream)
		if err != nil {
			return nil, fmt.Errorf("stream %s: %w", stream, err)
		}
		// no consumer group yet means nothing pending
		pending, err := m.queue.PendingCount(ctx, stream, m.group)
		if err != nil {
			pending = 0
		}
		out = append(out, QueueStats{
			Stream:       stream,
			QueueLength:  length,
			PendingCount: pending,
			LastChecked:  time.Now(),
		})
	}
	return out, nil
}
