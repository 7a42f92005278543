// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/automerch/tools/dashgen/panels"
)

// BuildOverview constructs the automerch overview dashboard.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("Automerch Overview").
		Uid("automerch-overview").
		Tags([]string{"automerch", "etsy", "printful"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.EtsyQuotaGauge()).
		WithPanel(panels.UptimeStat()))

	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()))

	b.WithRow(dashboard.NewRowBuilder("Providers").
		WithPanel(panels.ProviderAttempts()).
		WithPanel(panels.ProviderRetries()).
		WithPanel(panels.ProviderLatency()).
		WithPanel(panels.DryRunCalls()))

	b.WithRow(dashboard.NewRowBuilder("Jobs").
		WithPanel(panels.JobRuns()).
		WithPanel(panels.JobFailures()).
		WithPanel(panels.JobDuration()).
		WithPanel(panels.NextRun()))

	b.WithRow(dashboard.NewRowBuilder("Listings & Auth").
		WithPanel(panels.TokenRefreshes()).
		WithPanel(panels.TokenExchanges()).
		WithPanel(panels.DraftsCreated()).
		WithPanel(panels.ImageFailures()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
