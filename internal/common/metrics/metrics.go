// internal/common/metrics/metrics.go

// Package metrics holds the Prometheus collectors shared by the workers.
// Job lifecycle metrics are labeled by task_type; matching metrics are
// labeled by mode (single or batch) so pool-wide runs can be told apart
// from per-opportunity ones on the same panels.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	MatchRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "match_runs_total",
			Help: "Total number of match runs executed",
		},
		[]string{"mode"},
	)

	MatchResultsReturned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "match_results_returned_total",
			Help: "Total number of match results returned to callers",
		},
		[]string{"mode"},
	)

	MatchScoreDistribution = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "match_score_distribution",
			Help:    "Distribution of composite match scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
		[]string{"mode"},
	)
)
