package panels

import (
	"fmt"

	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// SaveToggles returns a timeseries panel showing wishlist toggles by
// outcome.
func SaveToggles() *timeseries.PanelBuilder {
	return timeseriesPanel("Save Toggles", "Wishlist toggles per second by outcome", "ops").
		WithTarget(PromQuery(
			fmt.Sprintf(`sum by (outcome) (rate(tripmarket_save_toggles_total{job=%q}[5m]))`, ClientJob),
			"{{outcome}}", "A",
		))
}

// ConversionFallbacks returns a stat panel showing prices that were shown
// unconverted because a rate was missing.
func ConversionFallbacks() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Conversion Fallbacks (1h)").
		Description("Prices shown in their source currency because no rate was available").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(
			fmt.Sprintf(`sum(increase(tripmarket_conversion_fallbacks_total{job=%q}[1h]))`, ClientJob),
			"", "A",
		)).
		Thresholds(ThresholdsGreenYellowRed(1, 50)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}

// RateRefreshFailures returns a stat panel showing failed exchange-rate
// reloads.
func RateRefreshFailures() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Rate Refresh Failures (1h)").
		Description("Exchange-rate reloads that failed in the last hour").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(
			fmt.Sprintf(`sum(increase(tripmarket_rate_refreshes_total{job=%q, outcome="error"}[1h]))`, ClientJob),
			"", "A",
		)).
		Thresholds(ThresholdsGreenYellowRed(1, 3)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeNone)
}
