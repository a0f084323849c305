package queue

import (
	"context"
	"time"

	"github.com/denisokoth/shopcore-api/internal/application/port"
	"go.uber.org/zap"
)

// Executor runs a single job to completion
type Executor interface {
	Execute(ctx context.Context, job port.Job) error
}

// Worker drains the job queue on a fixed interval in a single
// goroutine. A failed job is re-enqueued with an incremented attempt
// count until it exceeds the retry budget, then dropped with a log.
type Worker struct {
	queue        port.JobQueue
	executor     Executor
	pollInterval time.Duration
	maxRetries   int
	logger       *zap.Logger
}

// NewWorker creates a job worker
func NewWorker(queue port.JobQueue, executor Executor, pollInterval time.Duration, maxRetries int, logger *zap.Logger) *Worker {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Worker{
		queue:        queue,
		executor:     executor,
		pollInterval: pollInterval,
		maxRetries:   maxRetries,
		logger:       logger,
	}
}

// Run processes jobs until the context is cancelled
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("job worker started",
		zap.Duration("poll_interval", w.pollInterval),
		zap.Int("max_retries", w.maxRetries))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("job worker stopping")
			return
		case <-ticker.C:
			w.Drain(ctx)
		}
	}
}

// Drain processes queued jobs until the queue is empty or the context
// is cancelled
func (w *Worker) Drain(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		job, err := w.queue.Dequeue(ctx)
		if err != nil {
			w.logger.Error("failed to dequeue job", zap.Error(err))
			return
		}
		if job == nil {
			return
		}

		w.process(ctx, *job)
	}
}

func (w *Worker) process(ctx context.Context, job port.Job) {
	err := w.executor.Execute(ctx, job)
	if err == nil {
		jobsProcessed.WithLabelValues(string(job.Type), "success").Inc()
		return
	}
	jobsProcessed.WithLabelValues(string(job.Type), "error").Inc()

	job.Attempts++
	job.LastError = err.Error()

	if job.Attempts > w.maxRetries {
		jobsDropped.WithLabelValues(string(job.Type)).Inc()
		w.logger.Error("job dropped after exhausting retries",
			zap.String("job_id", job.ID.String()),
			zap.String("order_id", job.OrderID.String()),
			zap.String("type", string(job.Type)),
			zap.String("state", job.State),
			zap.Int("attempts", job.Attempts),
			zap.Error(err))
		return
	}

	w.logger.Warn("job failed, re-enqueueing",
		zap.String("job_id", job.ID.String()),
		zap.String("order_id", job.OrderID.String()),
		zap.String("type", string(job.Type)),
		zap.Int("attempt", job.Attempts),
		zap.Error(err))

	if _, enqErr := w.queue.Enqueue(ctx, job); enqErr != nil {
		w.logger.Error("failed to re-enqueue job",
			zap.String("job_id", job.ID.String()),
			zap.Error(enqErr))
		return
	}
	jobsRetried.WithLabelValues(string(job.Type)).Inc()
}
