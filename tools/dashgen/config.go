package main

import "errors"

// KnownMetrics is the set of metric names exported by tripmock and tripctl
// plus recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// Mock API HTTP metrics.
	"tripmarket_http_request_duration_seconds": true,
	"tripmarket_http_requests_total":           true,

	// Health metrics.
	"tripmarket_healthz_up": true,
	"tripmarket_readyz_up":  true,

	// API client metrics.
	"tripmarket_api_request_duration_seconds": true,
	"tripmarket_api_requests_total":           true,
	"tripmarket_api_rate_limit_waits_total":   true,

	// Listing metrics.
	"tripmarket_listing_fetches_total":          true,
	"tripmarket_listing_fetch_duration_seconds": true,

	// Saved and currency metrics.
	"tripmarket_save_toggles_total":         true,
	"tripmarket_conversion_fallbacks_total": true,
	"tripmarket_rate_refreshes_total":       true,
	"tripmarket_rate_table_currencies":      true,

	// Recording rules.
	"tripmarket:http_requests:rate5m":        true,
	"tripmarket:http_errors:rate5m":          true,
	"tripmarket:api_requests:rate5m":         true,
	"tripmarket:listing_fetches:rate5m":      true,
	"tripmarket:listing_fetch_errors:rate5m": true,
	"tripmarket:listing_stale:rate5m":        true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
