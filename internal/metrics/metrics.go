package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PlatformPublishTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postflow_platform_publish_total",
		Help: "Platform publish attempts by outcome",
	}, []string{"platform", "outcome"})

	PlatformPublishDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "postflow_platform_publish_duration_seconds",
		Help:    "Duration of platform publish calls",
		Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	}, []string{"platform"})

	ScanRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postflow_scan_runs_total",
		Help: "Due-post scanner runs by result",
	}, []string{"result"})

	ScanPostsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postflow_scan_posts_total",
		Help: "Posts handled by the due-post scanner by outcome",
	}, []string{"outcome"})

	PublishNowTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postflow_publish_now_total",
		Help: "Manual publish triggers by outcome",
	}, []string{"outcome"})
)

const (
	OutcomePublished = "published"
	OutcomeFailed    = "failed"
	OutcomeSkipped   = "skipped"
	OutcomeEnqueued  = "enqueued"
	OutcomeTimeout   = "timeout"
	OutcomeRejected  = "rejected"
)
