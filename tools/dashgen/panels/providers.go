package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// ProviderAttempts returns a timeseries panel showing outbound Etsy and
// Printful attempts by outcome.
func ProviderAttempts() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Provider Attempts").
		Description("Outbound HTTP attempts per second by provider and outcome").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`automerch:provider_attempts:rate5m`, "{{provider}} {{outcome}}", "A")).
		Unit("reqps").
		FillOpacity(10).
		LineWidth(2).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// ProviderRetries returns a timeseries panel showing retries by reason.
func ProviderRetries() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Retries").
		Description("Retries per second by provider and reason (rate_limited, server_error, network)").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`automerch:provider_retries:rate5m`, "{{provider}} {{reason}}", "A")).
		Unit("reqps").
		FillOpacity(10).
		LineWidth(2).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenYellowRed(0.1, 1)).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// ProviderLatency returns a timeseries panel showing p95 logical call
// duration per provider, retries and backoff included.
func ProviderLatency() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Provider Latency (p95)").
		Description("95th percentile call duration including retries and backoff").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(StatWidth).
		WithTarget(PromQuery(
			`histogram_quantile(0.95, sum(rate(automerch_provider_request_duration_seconds_bucket{`+Job+`}[5m])) by (le, provider))`,
			"{{provider}}",
			"A",
		)).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// DryRunCalls returns a stat panel showing calls answered by the dry-run
// synthesizer in the last hour. Nonzero in production means dry_run is on.
func DryRunCalls() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Dry-Run Calls (1h)").
		Description("Provider calls answered with synthetic responses").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`sum(increase(automerch_provider_dry_run_total{`+Job+`}[1h])) by (provider)`, "{{provider}}", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 100)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}
