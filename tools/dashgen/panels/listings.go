package panels

import (
	"fmt"

	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// FetchOutcomes returns a timeseries panel showing listing fetches per
// second by outcome (ok, error, stale, canceled).
func FetchOutcomes() *timeseries.PanelBuilder {
	return timeseriesPanel("Listing Fetches", "Listing fetches per second by outcome", "ops").
		WithTarget(PromQuery(
			fmt.Sprintf(`sum by (outcome) (rate(tripmarket_listing_fetches_total{job=%q}[5m]))`, ClientJob),
			"{{outcome}}", "A",
		))
}

// FetchDuration returns a timeseries panel showing p50 and p95 listing fetch
// duration.
func FetchDuration() *timeseries.PanelBuilder {
	const metric = "tripmarket_listing_fetch_duration_seconds"
	return timeseriesPanel("Fetch Duration", "Listing fetch duration percentiles", "s").
		WithTarget(PromQuery(quantile(0.50, metric, ClientJob, "le"), "p50", "A")).
		WithTarget(PromQuery(quantile(0.95, metric, ClientJob, "le"), "p95", "B"))
}

// StaleRatio returns a timeseries panel showing the share of responses
// discarded because a newer query superseded them.
func StaleRatio() *timeseries.PanelBuilder {
	return timeseriesPanel("Stale Responses %", "Responses dropped in favour of a newer query", "percent").
		WithTarget(PromQuery(
			`tripmarket:listing_stale:rate5m / tripmarket:listing_fetches:rate5m * 100`,
			"stale %", "A",
		))
}
