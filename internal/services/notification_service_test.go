package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"climbing-gym/belay/internal/common"
	"climbing-gym/belay/internal/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	single  []*common.OutboundTask
	batches [][]*common.OutboundTask
	streams []string
	err     error
}

func (f *fakePublisher) Publish(_ context.Context, stream string, task *common.OutboundTask) error {
	f.streams = append(f.streams, stream)
	f.single = append(f.single, task)
	return f.err
}

func (f *fakePublisher) PublishBatch(_ context.Context, stream string, tasks []*common.OutboundTask) error {
	f.streams = append(f.streams, stream)
	f.batches = append(f.batches, tasks)
	return f.err
}

func recipients(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("member%d@belay.test", i)
	}
	return out
}

func TestNotificationService_SingleChunkUsesPublish(t *testing.T) {
	pub := &fakePublisher{}
	reg := testMetrics()
	svc := NewNotificationService(pub, "", reg)
	enqueued := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return enqueued }

	err := svc.EmailHTML(context.Background(), []string{"a@belay.test"}, "Welcome", "verify_email", map[string]string{"verify_url": "u"})
	require.NoError(t, err)

	require.Len(t, pub.single, 1)
	assert.Empty(t, pub.batches)
	assert.Equal(t, []string{constants.StreamOutboundTasks}, pub.streams)

	task := pub.single[0]
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, constants.TaskEmailHTML, task.Kind)
	assert.Equal(t, "verify_email", task.Template)
	assert.Equal(t, enqueued, task.EnqueuedAt)
	assert.Equal(t, 1.0, counterValue(t, reg.OutboundTasksTotal.WithLabelValues(constants.TaskEmailHTML, "enqueued")))
}

func TestNotificationService_ChunksRecipients(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewNotificationService(pub, "custom:stream", nil)

	require.NoError(t, svc.EmailPlain(context.Background(), recipients(120), "Route reset", "Wall 3 closes Friday."))

	assert.Empty(t, pub.single)
	require.Len(t, pub.batches, 1)
	batch := pub.batches[0]
	require.Len(t, batch, 3)
	assert.Len(t, batch[0].Recipients, 50)
	assert.Len(t, batch[1].Recipients, 50)
	assert.Len(t, batch[2].Recipients, 20)
	assert.Equal(t, "Wall 3 closes Friday.", batch[2].Body)
	assert.NotEqual(t, batch[0].ID, batch[1].ID)
	assert.Equal(t, []string{"custom:stream"}, pub.streams)
}

func TestNotificationService_PushWithoutTokensIsNoop(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewNotificationService(pub, "", nil)

	require.NoError(t, svc.Push(context.Background(), nil, "Title", "Body", nil))
	assert.Empty(t, pub.single)
	assert.Empty(t, pub.batches)
}

func TestNotificationService_PublishFailure(t *testing.T) {
	pub := &fakePublisher{err: errors.New("redis down")}
	reg := testMetrics()
	svc := NewNotificationService(pub, "", reg)

	err := svc.Push(context.Background(), []string{"tok-1", "tok-2"}, "New wall", "Check it out", map[string]string{"gym_id": "4"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis down")

	require.Len(t, pub.single, 1)
	assert.Equal(t, []string{"tok-1", "tok-2"}, pub.single[0].DeviceTokens)
	assert.Equal(t, 1.0, counterValue(t, reg.OutboundTasksTotal.WithLabelValues(constants.TaskPush, "enqueue_failed")))
}
