// Package metrics defines Prometheus metrics for automerch.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "automerch"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	HTTPPanicsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_panics_total",
		Help:      "Handler panics recovered by the HTTP server.",
	})

	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "1 if the last liveness probe succeeded.",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "1 if the last readiness probe succeeded.",
	})
)

// Outbound provider metrics. The provider label is "etsy" or "printful".
var (
	ProviderAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provider_attempts_total",
		Help:      "Outbound provider HTTP attempts by outcome.",
	}, []string{"provider", "outcome"})

	ProviderRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provider_retries_total",
		Help:      "Outbound provider retries by reason (rate_limited, server_error, network).",
	}, []string{"provider", "reason"})

	ProviderRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "provider_request_duration_seconds",
		Help:      "Duration of logical provider calls including retries.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"provider"})

	ProviderDryRunTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provider_dry_run_total",
		Help:      "Provider calls answered with a synthetic dry-run response.",
	}, []string{"provider"})

	RateLimitDailyUsage = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "rate_limit_daily_usage",
		Help:      "Calls made in the current daily quota window.",
	}, []string{"provider"})
)

// OAuth metrics.
var (
	TokenRefreshesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refreshes_total",
		Help:      "Token refresh attempts by result (refreshed, failed, skipped).",
	}, []string{"result"})

	TokenExchangesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_exchanges_total",
		Help:      "Authorization code exchanges by result.",
	}, []string{"result"})
)

// Job metrics.
var (
	JobRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "job_runs_total",
		Help:      "Background job runs by job and status.",
	}, []string{"job", "status"})

	SchedulerNextRunTimestamp = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "scheduler_next_run_timestamp",
		Help:      "Unix timestamp of the next scheduled run of each job.",
	}, []string{"job"})

	JobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "job_duration_seconds",
		Help:      "Duration of background job runs in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"job"})

	DraftsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "drafts_created_total",
		Help:      "Etsy draft listings created.",
	})

	ImageUploadFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "image_upload_failures_total",
		Help:      "Listing image uploads that failed and were skipped.",
	})
)

// Notification metrics.
var (
	NotificationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notification_duration_seconds",
		Help:      "Duration of notification webhook deliveries in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	NotificationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_failures_total",
		Help:      "Notification deliveries that failed.",
	})
)
