package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Submissions 按 pathway 与结果（ok / empty / invalid / unavailable / error）统计提交次数。
	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pathwise_submissions_total",
			Help: "Total number of questionnaire submissions by pathway and outcome",
		},
		[]string{"pathway", "outcome"},
	)

	PipelineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pathwise_pipeline_duration_seconds",
			Help:    "Duration of one recommendation pipeline run",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"pathway"},
	)

	BundleLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pathwise_bundle_loads_total",
			Help: "Model bundle load attempts by pathway and result",
		},
		[]string{"pathway", "result"},
	)

	StorageErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pathwise_storage_errors_total",
			Help: "Persistence failures by operation",
		},
		[]string{"operation"},
	)

	// FilterErrors 统计过滤器出错（该过滤器被跳过）的次数。
	FilterErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pathwise_filter_errors_total",
			Help: "Filter failures by filter name; a failing filter is skipped",
		},
		[]string{"filter"},
	)
)
