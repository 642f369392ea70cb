package panels

import (
	"fmt"

	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// ClientRequestRate returns a timeseries panel showing tripctl API calls per
// second by endpoint.
func ClientRequestRate() *timeseries.PanelBuilder {
	return timeseriesPanel("Client Requests", "tripctl API calls per second by endpoint", "reqps").
		WithTarget(PromQuery(`tripmarket:api_requests:rate5m`, "{{endpoint}}", "A"))
}

// ClientLatency returns a timeseries panel showing p95 client request
// latency by endpoint.
func ClientLatency() *timeseries.PanelBuilder {
	return timeseriesPanel("Client Latency (p95)", "95th percentile API call duration seen by tripctl", "s").
		WithTarget(PromQuery(
			quantile(0.95, "tripmarket_api_request_duration_seconds", ClientJob, "le, endpoint"),
			"{{endpoint}}", "A",
		))
}

// RateLimitWaits returns a stat panel showing how often the client-side
// rate limiter held a request back.
func RateLimitWaits() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Rate Limit Waits (1h)").
		Description("Requests delayed by the client-side rate limiter in the last hour").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			fmt.Sprintf(`sum(increase(tripmarket_api_rate_limit_waits_total{job=%q}[1h]))`, ClientJob),
			"", "A",
		)).
		Thresholds(ThresholdsGreenYellowRed(10, 100)).
		ColorScheme(ColorSchemeThresholds())
}
