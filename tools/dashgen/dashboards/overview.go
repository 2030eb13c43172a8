// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/nvenk/partscout/tools/dashgen/panels"
)

// BuildOverview constructs the partscout Overview dashboard with all
// metric rows.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("Partscout Overview").
		Uid("partscout-overview").
		Tags([]string{"partscout"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	// Row 1: Overview.
	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.SearchRateStat()).
		WithPanel(panels.UptimeStat()))

	// Row 2: HTTP.
	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()))

	// Row 3: Sources.
	b.WithRow(dashboard.NewRowBuilder("Sources").
		WithPanel(panels.SourceRequestRate()).
		WithPanel(panels.SourceFailureRate()).
		WithPanel(panels.SourceNoOfferRate()).
		WithPanel(panels.SourceLatency()).
		WithPanel(panels.TokenRefreshRate()))

	// Row 4: Search.
	b.WithRow(dashboard.NewRowBuilder("Search").
		WithPanel(panels.SearchLatency()).
		WithPanel(panels.EmptySearchRatio()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
