package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// JobRuns returns a timeseries panel showing job runs by job and status.
func JobRuns() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Job Runs").
		Description("Background job runs per second by job and status").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`automerch:job_runs:rate5m`, "{{job}} {{status}}", "A")).
		FillOpacity(10).
		LineWidth(2).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleBars)
}

// JobFailures returns a stat panel showing failed job runs in the last 24h.
func JobFailures() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Job Failures (24h)").
		Description("Job runs that ended with status error").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`sum(increase(automerch_job_runs_total{`+Job+`,status="error"}[24h])) by (job)`, "{{job}}", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 3)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeNone)
}

// JobDuration returns a timeseries panel showing p95 job duration.
func JobDuration() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Job Duration (p95)").
		Description("95th percentile job run duration").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(StatWidth).
		WithTarget(PromQuery(
			`histogram_quantile(0.95, sum(rate(automerch_job_duration_seconds_bucket{`+Job+`}[15m])) by (le, job))`,
			"{{job}}",
			"A",
		)).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// NextRun returns a stat panel showing time until each job's next run.
func NextRun() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Next Run").
		Description("Time until the next scheduled run of each job").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`automerch_scheduler_next_run_timestamp{`+Job+`} - time()`, "{{job}}", "A")).
		Unit("s").
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeNone)
}
