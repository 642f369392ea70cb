package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "tripmarket-recording-rules",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "tripmarket-recording",
					Rules: []Rule{
						{
							Record: "tripmarket:http_requests:rate5m",
							Expr:   `sum(rate(tripmarket_http_requests_total[5m]))`,
						},
						{
							Record: "tripmarket:http_errors:rate5m",
							Expr:   `sum(rate(tripmarket_http_requests_total{status=~"5.."}[5m]))`,
						},
						{
							Record: "tripmarket:api_requests:rate5m",
							Expr:   `sum by (endpoint) (rate(tripmarket_api_requests_total[5m]))`,
						},
						{
							Record: "tripmarket:listing_fetches:rate5m",
							Expr:   `sum(rate(tripmarket_listing_fetches_total[5m]))`,
						},
						{
							Record: "tripmarket:listing_fetch_errors:rate5m",
							Expr:   `sum(rate(tripmarket_listing_fetches_total{outcome="error"}[5m]))`,
						},
						{
							Record: "tripmarket:listing_stale:rate5m",
							Expr:   `sum(rate(tripmarket_listing_fetches_total{outcome="stale"}[5m]))`,
						},
					},
				},
			},
		},
	}
}
