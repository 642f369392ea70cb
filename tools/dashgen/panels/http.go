package panels

import (
	"fmt"

	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// timeseriesPanel returns a timeseries panel with the dashboard's common
// line styling.
func timeseriesPanel(title, description, unit string) *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title(title).
		Description(description).
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		Unit(unit).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

func quantile(q float64, metric, job, by string) string {
	return fmt.Sprintf(`histogram_quantile(%.2f, sum(rate(%s_bucket{job=%q}[5m])) by (%s))`, q, metric, job, by)
}

// RequestRate returns a timeseries panel showing the mock API request rate.
func RequestRate() *timeseries.PanelBuilder {
	return timeseriesPanel("Request Rate", "Mock API requests per second", "reqps").
		WithTarget(PromQuery(`tripmarket:http_requests:rate5m`, "req/s", "A"))
}

// LatencyPercentiles returns a timeseries panel showing p50, p95, and p99
// mock API latencies, including configured catalog latency.
func LatencyPercentiles() *timeseries.PanelBuilder {
	const metric = "tripmarket_http_request_duration_seconds"
	return timeseriesPanel("Latency Percentiles", "Mock API request duration percentiles", "s").
		WithTarget(PromQuery(quantile(0.50, metric, ServerJob, "le"), "p50", "A")).
		WithTarget(PromQuery(quantile(0.95, metric, ServerJob, "le"), "p95", "B")).
		WithTarget(PromQuery(quantile(0.99, metric, ServerJob, "le"), "p99", "C"))
}

// ErrorRate returns a timeseries panel showing the mock API 5xx error rate
// as a percentage.
func ErrorRate() *timeseries.PanelBuilder {
	return timeseriesPanel("Error Rate %", "HTTP 5xx error rate as percentage of total requests", "percent").
		WithTarget(PromQuery(
			`tripmarket:http_errors:rate5m / tripmarket:http_requests:rate5m * 100`,
			"error %", "A",
		)).
		Thresholds(ThresholdsGreenYellowRed(1, 5)).
		ColorScheme(ColorSchemeThresholds())
}
