package common

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"climbing-gym/belay/internal/logging"

	"github.com/redis/go-redis/v9"
)

// OutboundTask is one unit of notification work placed on the outbound stream
type OutboundTask struct {
	ID           string            `json:"id"`
	Kind         string            `json:"kind"`
	Attempt      int               `json:"attempt"`
	Recipients   []string          `json:"recipients,omitempty"`
	Subject      string            `json:"subject,omitempty"`
	Template     string            `json:"template,omitempty"`
	Body         string            `json:"body,omitempty"`
	Data         map[string]string `json:"data,omitempty"`
	DeviceTokens []string          `json:"device_tokens,omitempty"`
	Title        string            `json:"title,omitempty"`
	LastError    string            `json:"last_error,omitempty"`
	EnqueuedAt   time.Time         `json:"enqueued_at"`
	NotBefore    time.Time         `json:"not_before"`
}

// RedisQueueService provides queue functionality using Redis Streams
type RedisQueueService struct {
	client *redis.Client
}

func NewRedisQueueService(client *redis.Client) *RedisQueueService {
	return &RedisQueueService{
		client: client,
	}
}

// Publish adds a task to streamName
func (s *RedisQueueService) Publish(ctx context.Context, streamName string, task *OutboundTask) error {
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal outbound task: %w", err)
	}

	// XADD stream_name * data <json>
	args := &redis.XAddArgs{
		Stream: streamName,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}
	if _, err := s.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to add to stream: %w", err)
	}
	return nil
}

// PublishBatch adds tasks in one pipeline round trip
func (s *RedisQueueService) PublishBatch(ctx context.Context, streamName string, tasks []*OutboundTask) error {
	if len(tasks) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for _, task := range tasks {
		data, err := json.Marshal(task)
		if err != nil {
			return fmt.Errorf("failed to marshal outbound task %s: %w", task.ID, err)
		}
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: streamName,
			Values: map[string]interface{}{"data": string(data)},
		})
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to execute batch: %w", err)
	}
	return nil
}

// Dequeue reads one new task for consumerName. Returns (nil, "", nil) when
// nothing arrived within blockTime.
func (s *RedisQueueService) Dequeue(ctx context.Context, streamName, groupName, consumerName string, blockTime time.Duration) (*OutboundTask, string, error) {
	// XREADGROUP GROUP group consumer BLOCK milliseconds COUNT 1 STREAMS stream >
	streams, err := s.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    groupName,
		Consumer: consumerName,
		Streams:  []string{streamName, ">"},
		Count:    1,
		Block:    blockTime,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("failed to read from stream: %w", err)
	}

	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return nil, "", nil
	}

	msg := streams[0].Messages[0]
	task, err := decodeTask(msg)
	if err != nil {
		return nil, msg.ID, err
	}
	return task, msg.ID, nil
}

func decodeTask(msg redis.XMessage) (*OutboundTask, error) {
	dataStr, ok := msg.Values["data"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid message format: data field missing")
	}

	var task OutboundTask
	if err := json.Unmarshal([]byte(dataStr), &task); err != nil {
		return nil, fmt.Errorf("failed to unmarshal outbound task: %w", err)
	}
	return &task, nil
}

// Ack acknowledges successful processing of a message
func (s *RedisQueueService) Ack(ctx context.Context, streamName, groupName, messageID string) error {
	return s.client.XAck(ctx, streamName, groupName, messageID).Err()
}

// CreateConsumerGroup creates a consumer group for the stream if it doesn't exist
func (s *RedisQueueService) CreateConsumerGroup(ctx context.Context, streamName, groupName string) error {
	// XGROUP CREATE stream group 0 MKSTREAM
	err := s.client.XGroupCreateMkStream(ctx, streamName, groupName, "0").Err()
	if err != nil && strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return nil
	}
	return err
}

// QueueLength returns the number of entries in the stream
func (s *RedisQueueService) QueueLength(ctx context.Context, streamName string) (int64, error) {
	length, err := s.client.XLen(ctx, streamName).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue length: %w", err)
	}
	return length, nil
}

// PendingCount returns the number of unacknowledged messages for a consumer group
func (s *RedisQueueService) PendingCount(ctx context.Context, streamName, groupName string) (int64, error) {
	pending, err := s.client.XPending(ctx, streamName, groupName).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get pending count: %w", err)
	}
	return pending.Count, nil
}

// ClaimStale takes over messages left pending longer than minIdleTime by dead consumers
func (s *RedisQueueService) ClaimStale(ctx context.Context, streamName, groupName, consumerName string, minIdleTime time.Duration) ([]*OutboundTask, []string, error) {
	pending, err := s.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: streamName,
		Group:  groupName,
		Start:  "-",
		End:    "+",
		Count:  100,
	}).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get pending messages: %w", err)
	}

	var staleIDs []string
	for _, p := range pending {
		if p.Idle >= minIdleTime {
			staleIDs = append(staleIDs, p.ID)
		}
	}
	if len(staleIDs) == 0 {
		return nil, nil, nil
	}

	messages, err := s.client.XClaim(ctx, &redis.XClaimArgs{
		Stream:   streamName,
		Group:    groupName,
		Consumer: consumerName,
		MinIdle:  minIdleTime,
		Messages: staleIDs,
	}).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to claim stale messages: %w", err)
	}

	var tasks []*OutboundTask
	var messageIDs []string
	for _, msg := range messages {
		task, err := decodeTask(msg)
		if err != nil {
			logging.Warn("Dropping undecodable claimed message", "message_id", msg.ID, "error", err)
			_ = s.Ack(ctx, streamName, groupName, msg.ID)
			continue
		}
		tasks = append(tasks, task)
		messageIDs = append(messageIDs, msg.ID)
	}
	return tasks, messageIDs, nil
}

// TrimStream keeps only the most recent maxLen entries
func (s *RedisQueueService) TrimStream(ctx context.Context, streamName string, maxLen int64) error {
	return s.client.XTrimMaxLen(ctx, streamName, maxLen).Err()
}
