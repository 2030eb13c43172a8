package rules

// AlertRules returns a PrometheusRule CR containing alert rules for
// partscout operational monitoring.
func AlertRules() PrometheusRule {
	return newCR("partscout-alerts", RuleGroup{
		Name: "partscout-alerts",
		Rules: []Rule{
			{
				Alert: "PartscoutDown",
				Expr:  `absent(up{job="partscout"})`,
				For:   "2m",
				Labels: map[string]string{
					"severity": "critical",
				},
				Annotations: map[string]string{
					"summary":     "Partscout is down",
					"description": "The partscout job has been absent for more than 2 minutes.",
				},
			},
			{
				Alert: "PartscoutReadinessDown",
				Expr:  `partscout_readyz_up == 0`,
				For:   "2m",
				Labels: map[string]string{
					"severity": "critical",
				},
				Annotations: map[string]string{
					"summary":     "Partscout readiness check is failing",
					"description": "The readiness probe has been reporting not-ready for more than 2 minutes.",
				},
			},
			{
				Alert: "PartscoutHighErrorRate",
				Expr:  `partscout:http_errors:rate5m / partscout:http_requests:rate5m > 0.05`,
				For:   "5m",
				Labels: map[string]string{
					"severity": "warning",
				},
				Annotations: map[string]string{
					"summary":     "High HTTP error rate on partscout",
					"description": "More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes.",
				},
			},
			{
				Alert: "PartscoutSourceFailures",
				Expr:  `partscout:source_failures:rate5m / partscout:source_requests:rate5m > 0.5`,
				For:   "10m",
				Labels: map[string]string{
					"severity": "warning",
				},
				Annotations: map[string]string{
					"summary":     "A distributor source is failing most lookups",
					"description": "One or more sources have failed over half of their offer lookups for the last 10 minutes. Check credentials and upstream status.",
				},
			},
			{
				Alert: "PartscoutAllSearchesEmpty",
				Expr:  `partscout:searches_no_offers:rate5m / partscout:searches:rate5m > 0.9`,
				For:   "15m",
				Labels: map[string]string{
					"severity": "warning",
				},
				Annotations: map[string]string{
					"summary":     "Nearly all searches return no offers",
					"description": "Over 90% of searches found no offers for the last 15 minutes. Every source may be failing silently.",
				},
			},
		},
	})
}
