package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return newCR("partscout-recording-rules", RuleGroup{
		Name: "partscout-recording",
		Rules: []Rule{
			{
				Record: "partscout:http_requests:rate5m",
				Expr:   `sum(rate(partscout_http_requests_total[5m]))`,
			},
			{
				Record: "partscout:http_errors:rate5m",
				Expr:   `sum(rate(partscout_http_requests_total{status=~"5.."}[5m]))`,
			},
			{
				Record: "partscout:source_requests:rate5m",
				Expr:   `sum(rate(partscout_source_requests_total[5m])) by (source)`,
			},
			{
				Record: "partscout:source_failures:rate5m",
				Expr:   `sum(rate(partscout_source_failures_total[5m])) by (source)`,
			},
			{
				Record: "partscout:searches:rate5m",
				Expr:   `rate(partscout_searches_total[5m])`,
			},
			{
				Record: "partscout:searches_no_offers:rate5m",
				Expr:   `rate(partscout_searches_no_offers_total[5m])`,
			},
		},
	})
}
