package panels

import (
	"fmt"

	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
)

func upStat(title, description, metric string) *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title(title).
		Description(description).
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(metric, "", "A")).
		Thresholds(ThresholdsRedGreen(1)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeNone).
		TextMode(common.BigValueTextModeValue)
}

// HealthzStat returns a stat panel showing the mock API health check status.
func HealthzStat() *stat.PanelBuilder {
	return upStat("Healthz", "Health check status (1 = ok, 0 = failing)", `tripmarket_healthz_up`)
}

// ReadyzStat returns a stat panel showing whether the catalog is loaded.
func ReadyzStat() *stat.PanelBuilder {
	return upStat("Readyz", "Readiness check status (1 = catalog loaded, 0 = not ready)", `tripmarket_readyz_up`)
}

// UptimeStat returns a stat panel showing mock API process uptime.
func UptimeStat() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Uptime").
		Description("Time since process start").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(
			fmt.Sprintf(`time() - process_start_time_seconds{job=%q}`, ServerJob),
			"", "A",
		)).
		Unit("s").
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeNone)
}

// RateTableStat returns a stat panel showing how many currencies the
// client's last rate table held.
func RateTableStat() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Rate Table Currencies").
		Description("Currencies in the most recently loaded exchange-rate table").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(
			fmt.Sprintf(`max(tripmarket_rate_table_currencies{job=%q})`, ClientJob),
			"", "A",
		)).
		Thresholds(ThresholdsRedGreen(2)).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeNone)
}
