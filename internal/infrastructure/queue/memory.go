package queue

import (
	"context"
	"errors"
	"sync"

	"github.com/denisokoth/shopcore-api/internal/application/port"
)

// ErrQueueClosed is returned by operations on a closed queue
var ErrQueueClosed = errors.New("queue is closed")

// MemoryQueue is a process-local FIFO job queue. Identical jobs (same
// order, type and state) waiting in the queue are deduplicated at
// enqueue time.
type MemoryQueue struct {
	mu      sync.Mutex
	jobs    []port.Job
	waiting map[string]int
	closed  bool
}

// NewMemoryQueue creates an empty in-memory queue
func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{waiting: make(map[string]int)}
}

var _ port.JobQueue = (*MemoryQueue)(nil)

func (q *MemoryQueue) Enqueue(ctx context.Context, job port.Job) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false, ErrQueueClosed
	}

	// Retries carry attempts > 0 and always go back in, dedup applies
	// only to fresh work.
	if job.Attempts == 0 && q.waiting[job.Key()] > 0 {
		jobsDeduplicated.WithLabelValues(string(job.Type)).Inc()
		return false, nil
	}

	q.jobs = append(q.jobs, job)
	q.waiting[job.Key()]++
	jobsEnqueued.WithLabelValues(string(job.Type)).Inc()
	return true, nil
}

func (q *MemoryQueue) Dequeue(ctx context.Context) (*port.Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil, ErrQueueClosed
	}
	if len(q.jobs) == 0 {
		return nil, nil
	}

	job := q.jobs[0]
	q.jobs = q.jobs[1:]
	if q.waiting[job.Key()] > 1 {
		q.waiting[job.Key()]--
	} else {
		delete(q.waiting, job.Key())
	}
	return &job, nil
}

// Len reports the number of waiting jobs
func (q *MemoryQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.jobs = nil
	q.waiting = map[string]int{}
	return nil
}
