// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/trip-market/tools/dashgen/panels"
)

// OverviewUID is the stable dashboard UID.
const OverviewUID = "tripmarket-overview"

// BuildOverview constructs the Trip Market Overview dashboard covering the
// mock API and tripctl browsing sessions.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("Trip Market Overview").
		Uid(OverviewUID).
		Tags([]string{"tripmarket", "tripmock", "tripctl"}).
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
		WithPanel(panels.UptimeStat()).
		WithPanel(panels.RateTableStat()))

	// Row 2: Mock API.
	b.WithRow(dashboard.NewRowBuilder("Mock API").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()))

	// Row 3: Client API.
	b.WithRow(dashboard.NewRowBuilder("Client API").
		WithPanel(panels.ClientRequestRate()).
		WithPanel(panels.ClientLatency()).
		WithPanel(panels.RateLimitWaits()))

	// Row 4: Listings.
	b.WithRow(dashboard.NewRowBuilder("Listings").
		WithPanel(panels.FetchOutcomes()).
		WithPanel(panels.FetchDuration()).
		WithPanel(panels.StaleRatio()))

	// Row 5: Saved items and currency.
	b.WithRow(dashboard.NewRowBuilder("Saved & Currency").
		WithPanel(panels.SaveToggles()).
		WithPanel(panels.ConversionFallbacks()).
		WithPanel(panels.RateRefreshFailures()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
