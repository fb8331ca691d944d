package services

import (
	"context"
	"fmt"
	"time"

	"climbing-gym/belay/internal/common"
	"climbing-gym/belay/internal/constants"
	"climbing-gym/belay/internal/logging"
	"climbing-gym/belay/internal/metrics"

	"github.com/google/uuid"
)

// TaskPublisher puts outbound tasks on a stream. RedisQueueService implements it.
type TaskPublisher interface {
	Publish(ctx context.Context, stream string, task *common.OutboundTask) error
	PublishBatch(ctx context.Context, stream string, tasks []*common.OutboundTask) error
}

// NotificationService turns notification intents into queued outbound tasks.
// Delivery happens in the outbound worker; callers enqueue after their own commit.
type NotificationService struct {
	publisher TaskPublisher
	stream    string
	metrics   *metrics.MetricsRegistry
	now       func() time.Time
}

func NewNotificationService(publisher TaskPublisher, stream string, m *metrics.MetricsRegistry) *NotificationService {
	if stream == "" {
		stream = constants.StreamOutboundTasks
	}
	return &NotificationService{
		publisher: publisher,
		stream:    stream,
		metrics:   m,
		now:       time.Now,
	}
}

func (n *NotificationService) newTask(kind string) *common.OutboundTask {
	return &common.OutboundTask{
		ID:         uuid.NewString(),
		Kind:       kind,
		EnqueuedAt: n.now().UTC(),
	}
}

// EmailHTML queues a templated email, one task per chunk of recipients
func (n *NotificationService) EmailHTML(ctx context.Context, recipients []string, subject, template string, data map[string]string) error {
	var tasks []*common.OutboundTask
	for _, chunk := range common.Chunk(recipients, constants.NotificationChunkSize) {
		t := n.newTask(constants.TaskEmailHTML)
		t.Recipients = chunk
		t.Subject = subject
		t.Template = template
		t.Data = data
		tasks = append(tasks, t)
	}
	return n.enqueue(ctx, constants.TaskEmailHTML, tasks)
}

// EmailPlain queues a plain text email, one task per chunk of recipients
func (n *NotificationService) EmailPlain(ctx context.Context, recipients []string, subject, body string) error {
	var tasks []*common.OutboundTask
	for _, chunk := range common.Chunk(recipients, constants.NotificationChunkSize) {
		t := n.newTask(constants.TaskEmailPlain)
		t.Recipients = chunk
		t.Subject = subject
		t.Body = body
		tasks = append(tasks, t)
	}
	return n.enqueue(ctx, constants.TaskEmailPlain, tasks)
}

// Push queues a push notification, one task per chunk of device tokens
func (n *NotificationService) Push(ctx context.Context, deviceTokens []string, title, body string, data map[string]string) error {
	var tasks []*common.OutboundTask
	for _, chunk := range common.Chunk(deviceTokens, constants.NotificationChunkSize) {
		t := n.newTask(constants.TaskPush)
		t.DeviceTokens = chunk
		t.Title = title
		t.Body = body
		t.Data = data
		tasks = append(tasks, t)
	}
	return n.enqueue(ctx, constants.TaskPush, tasks)
}

func (n *NotificationService) enqueue(ctx context.Context, kind string, tasks []*common.OutboundTask) error {
	if len(tasks) == 0 {
		return nil
	}

	var err error
	if len(tasks) == 1 {
		err = n.publisher.Publish(ctx, n.stream, tasks[0])
	} else {
		err = n.publisher.PublishBatch(ctx, n.stream, tasks)
	}

	outcome := "enqueued"
	if err != nil {
		outcome = "enqueue_failed"
	}
	if n.metrics != nil {
		n.metrics.OutboundTasksTotal.WithLabelValues(kind, outcome).Add(float64(len(tasks)))
	}
	if err != nil {
		return fmt.Errorf("failed to enqueue %d %s task(s): %w", len(tasks), kind, err)
	}

	logging.Debug("Outbound tasks enqueued", "kind", kind, "count", len(tasks))
	return nil
}
