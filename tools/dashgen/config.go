package main

import "errors"

// KnownMetrics is the set of metric names exported by automerch plus the
// recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"automerch_http_request_duration_seconds_bucket": true,
	"automerch_http_requests_total":                  true,
	"automerch_http_panics_total":                    true,

	// Health metrics.
	"automerch_healthz_up": true,
	"automerch_readyz_up":  true,

	// Provider metrics.
	"automerch_provider_attempts_total":                  true,
	"automerch_provider_retries_total":                   true,
	"automerch_provider_request_duration_seconds_bucket": true,
	"automerch_provider_dry_run_total":                   true,
	"automerch_rate_limit_daily_usage":                   true,

	// OAuth metrics.
	"automerch_token_refreshes_total": true,
	"automerch_token_exchanges_total": true,

	// Job metrics.
	"automerch_job_runs_total":               true,
	"automerch_job_duration_seconds_bucket":  true,
	"automerch_scheduler_next_run_timestamp": true,
	"automerch_drafts_created_total":         true,
	"automerch_image_upload_failures_total":  true,

	// Notification metrics.
	"automerch_notification_failures_total":         true,
	"automerch_notification_duration_seconds_bucket": true,

	// Recording rules.
	"automerch:http_requests:rate5m":     true,
	"automerch:http_errors:rate5m":       true,
	"automerch:provider_attempts:rate5m": true,
	"automerch:provider_retries:rate5m":  true,
	"automerch:job_runs:rate5m":          true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
