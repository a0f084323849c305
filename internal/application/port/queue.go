package port

import (
	"context"
	"time"

	"github.com/denisokoth/shopcore-api/internal/domain/enum"
	"github.com/google/uuid"
)

// Job is a unit of asynchronous work tied to an order. State carries the
// lowercase order status key for document template selection.
type Job struct {
	ID         uuid.UUID    `json:"id"`
	OrderID    uuid.UUID    `json:"order_id"`
	Type       enum.JobType `json:"type"`
	State      string       `json:"state"`
	Attempts   int          `json:"attempts"`
	LastError  string       `json:"last_error,omitempty"`
	EnqueuedAt time.Time    `json:"enqueued_at"`
}

// Key identifies a job for enqueue-time deduplication. Two jobs with the
// same order, type and state are considered the same piece of work.
func (j Job) Key() string {
	return j.OrderID.String() + ":" + string(j.Type) + ":" + j.State
}

// JobQueue abstracts the backing queue so the worker can run against the
// in-process queue or a durable broker interchangeably.
type JobQueue interface {
	// Enqueue appends the job at the tail. Implementations may drop
	// duplicates of jobs already waiting, reporting false in that case.
	Enqueue(ctx context.Context, job Job) (bool, error)
	// Dequeue pops the head of the queue, returning nil when empty.
	Dequeue(ctx context.Context) (*Job, error)
	Close() error
}
