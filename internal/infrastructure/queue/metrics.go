package queue

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	jobsEnqueued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopcore_jobs_enqueued_total",
			Help: "Total number of jobs accepted into the queue",
		},
		[]string{"type"},
	)

	jobsDeduplicated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopcore_jobs_deduplicated_total",
			Help: "Total number of duplicate jobs rejected at enqueue",
		},
		[]string{"type"},
	)

	jobsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopcore_jobs_processed_total",
			Help: "Total number of jobs executed",
		},
		[]string{"type", "status"},
	)

	jobsRetried = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopcore_jobs_retried_total",
			Help: "Total number of jobs re-enqueued after a failure",
		},
		[]string{"type"},
	)

	jobsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopcore_jobs_dropped_total",
			Help: "Total number of jobs dropped after exhausting retries",
		},
		[]string{"type"},
	)
)
