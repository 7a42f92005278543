package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// TokenRefreshes returns a timeseries panel showing token refreshes by result.
func TokenRefreshes() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Token Refreshes").
		Description("OAuth token refresh attempts by result").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`sum(increase(automerch_token_refreshes_total{`+Job+`}[1h])) by (result)`, "{{result}}", "A")).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleBars)
}

// TokenExchanges returns a stat panel showing shop connections in the last 7 days.
func TokenExchanges() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Shop Connections (7d)").
		Description("Authorization code exchanges by result").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`sum(increase(automerch_token_exchanges_total{`+Job+`}[7d])) by (result)`, "{{result}}", "A")).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		GraphMode(common.BigValueGraphModeNone)
}

// DraftsCreated returns a stat panel showing drafts created in the last 24h.
func DraftsCreated() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Drafts Created (24h)").
		Description("Etsy draft listings created").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`sum(increase(automerch_drafts_created_total{`+Job+`}[24h]))`, "", "A")).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeArea)
}

// ImageFailures returns a stat panel showing skipped image uploads in the last 24h.
func ImageFailures() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Image Upload Failures (24h)").
		Description("Listing images that failed to upload and were skipped").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`sum(increase(automerch_image_upload_failures_total{`+Job+`}[24h]))`, "", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 10)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeNone)
}
