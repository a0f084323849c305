package queue

import (
	"context"
	"testing"

	"github.com/denisokoth/shopcore-api/internal/application/port"
	"github.com/denisokoth/shopcore-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJob(orderID uuid.UUID, jobType enum.JobType, state string) port.Job {
	return port.Job{
		ID:      uuid.New(),
		OrderID: orderID,
		Type:    jobType,
		State:   state,
	}
}

func TestMemoryQueueFIFO(t *testing.T) {
	q := NewMemoryQueue()
	ctx := context.Background()

	first := newJob(uuid.New(), enum.JobTypeGenerateDocuments, "pending")
	second := newJob(uuid.New(), enum.JobTypeCreateInvoice, "confirmed")

	accepted, err := q.Enqueue(ctx, first)
	require.NoError(t, err)
	assert.True(t, accepted)
	accepted, err = q.Enqueue(ctx, second)
	require.NoError(t, err)
	assert.True(t, accepted)

	got, err := q.Dequeue(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, first.ID, got.ID)

	got, err = q.Dequeue(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, second.ID, got.ID)

	got, err = q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Nil(t, got, "empty queue yields nil")
}

func TestMemoryQueueDeduplicatesWaitingJobs(t *testing.T) {
	q := NewMemoryQueue()
	ctx := context.Background()
	orderID := uuid.New()

	accepted, err := q.Enqueue(ctx, newJob(orderID, enum.JobTypeGenerateDocuments, "pending"))
	require.NoError(t, err)
	assert.True(t, accepted)

	// same order, type and state while the first is still waiting
	accepted, err = q.Enqueue(ctx, newJob(orderID, enum.JobTypeGenerateDocuments, "pending"))
	require.NoError(t, err)
	assert.False(t, accepted)

	// different state is different work
	accepted, err = q.Enqueue(ctx, newJob(orderID, enum.JobTypeGenerateDocuments, "confirmed"))
	require.NoError(t, err)
	assert.True(t, accepted)

	assert.Equal(t, 2, q.Len())
}

func TestMemoryQueueDedupClearsAfterDequeue(t *testing.T) {
	q := NewMemoryQueue()
	ctx := context.Background()
	orderID := uuid.New()

	_, err := q.Enqueue(ctx, newJob(orderID, enum.JobTypeGenerateDocuments, "pending"))
	require.NoError(t, err)
	_, err = q.Dequeue(ctx)
	require.NoError(t, err)

	accepted, err := q.Enqueue(ctx, newJob(orderID, enum.JobTypeGenerateDocuments, "pending"))
	require.NoError(t, err)
	assert.True(t, accepted, "dedup only applies to waiting jobs")
}

func TestMemoryQueueRetriesBypassDedup(t *testing.T) {
	q := NewMemoryQueue()
	ctx := context.Background()
	orderID := uuid.New()

	_, err := q.Enqueue(ctx, newJob(orderID, enum.JobTypeGenerateDocuments, "pending"))
	require.NoError(t, err)

	retry := newJob(orderID, enum.JobTypeGenerateDocuments, "pending")
	retry.Attempts = 1
	accepted, err := q.Enqueue(ctx, retry)
	require.NoError(t, err)
	assert.True(t, accepted)
	assert.Equal(t, 2, q.Len())
}

func TestMemoryQueueClosed(t *testing.T) {
	q := NewMemoryQueue()
	ctx := context.Background()
	require.NoError(t, q.Close())

	_, err := q.Enqueue(ctx, newJob(uuid.New(), enum.JobTypeGenerateDocuments, "pending"))
	assert.ErrorIs(t, err, ErrQueueClosed)

	_, err = q.Dequeue(ctx)
	assert.ErrorIs(t, err, ErrQueueClosed)
}
