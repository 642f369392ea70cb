package rules

// AlertRules returns a PrometheusRule CR containing alert rules for the
// mock API and tripctl sessions.
func AlertRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "tripmarket-alerts",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "tripmarket-alerts",
					Rules: []Rule{
						{
							Alert: "TripmockDown",
							Expr:  `absent(up{job="tripmock"})`,
							For:   "2m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "tripmock is down",
								"description": "The tripmock job has been absent for more than 2 minutes.",
							},
						},
						{
							Alert: "TripmockNotReady",
							Expr:  `tripmarket_readyz_up == 0`,
							For:   "2m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "tripmock catalog is not loaded",
								"description": "The readiness probe has reported an empty catalog for more than 2 minutes.",
							},
						},
						{
							Alert: "TripmockHighErrorRate",
							Expr:  `tripmarket:http_errors:rate5m / tripmarket:http_requests:rate5m > 0.05`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "High HTTP error rate on tripmock",
								"description": "More than 5% of mock API requests are returning 5xx errors over the last 5 minutes.",
							},
						},
						{
							Alert: "ListingFetchErrors",
							Expr:  `tripmarket:listing_fetch_errors:rate5m / tripmarket:listing_fetches:rate5m > 0.2`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Listing fetches are failing",
								"description": "More than 20% of listing fetches ended in an error over the last 5 minutes.",
							},
						},
						{
							Alert: "SaveToggleFailures",
							Expr:  `increase(tripmarket_save_toggles_total{outcome="failed"}[5m]) > 0`,
							For:   "1m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Wishlist saves are failing",
								"description": "One or more save toggles were reverted after the server rejected them.",
							},
						},
						{
							Alert: "RateRefreshFailing",
							Expr:  `increase(tripmarket_rate_refreshes_total{outcome="error"}[15m]) > 2`,
							For:   "0m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Exchange rates are not refreshing",
								"description": "More than two exchange-rate reloads failed in 15 minutes; converted prices may be stale.",
							},
						},
					},
				},
			},
		},
	}
}
