package main

import "errors"

// KnownMetrics is the set of metric names exported by partscout plus
// recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"partscout_http_request_duration_seconds": true,
	"partscout_http_requests_total":           true,

	// Health metrics.
	"partscout_healthz_up": true,
	"partscout_readyz_up":  true,

	// Source adapter metrics.
	"partscout_source_requests_total":           true,
	"partscout_source_failures_total":           true,
	"partscout_source_no_offer_total":           true,
	"partscout_source_request_duration_seconds": true,
	"partscout_token_refreshes_total":           true,

	// Aggregation metrics.
	"partscout_searches_total":           true,
	"partscout_searches_no_offers_total": true,
	"partscout_search_duration_seconds":  true,

	// Recording rules.
	"partscout:http_requests:rate5m":      true,
	"partscout:http_errors:rate5m":        true,
	"partscout:source_requests:rate5m":    true,
	"partscout:source_failures:rate5m":    true,
	"partscout:searches:rate5m":           true,
	"partscout:searches_no_offers:rate5m": true,

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
