package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// SourceRequestRate returns a timeseries panel showing offer lookups per
// second, split by source.
func SourceRequestRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Lookups by Source").
		Description("Offer lookups per second, per distributor").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`partscout:source_requests:rate5m`, "{{source}}", "A")).
		Unit("reqps").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// SourceFailureRate returns a timeseries panel showing failed lookups per
// second, split by source.
func SourceFailureRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Failures by Source").
		Description("Failed offer lookups per second, per distributor").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`partscout:source_failures:rate5m`, "{{source}}", "A")).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenYellowRed(0.1, 1)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine)
}

// SourceNoOfferRate returns a timeseries panel showing lookups that found
// no quantity-1 price break, split by source.
func SourceNoOfferRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("No-Offer Lookups").
		Description("Lookups that succeeded but found no quantity-1 offer, per distributor").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`sum(rate(partscout_source_no_offer_total[5m])) by (source)`,
			"{{source}}", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// SourceLatency returns a timeseries panel showing the p95 lookup duration
// per source.
func SourceLatency() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Lookup Latency (p95)").
		Description("95th percentile offer lookup duration, per distributor").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`histogram_quantile(0.95, sum(rate(partscout_source_request_duration_seconds_bucket{job="partscout"}[5m])) by (le, source))`,
			"{{source}}",
			"A",
		)).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// TokenRefreshRate returns a timeseries panel showing credential exchanges
// per second, split by source.
func TokenRefreshRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Token Refreshes").
		Description("Credential-exchange calls per second, per distributor").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`sum(rate(partscout_token_refreshes_total[5m])) by (source)`,
			"{{source}}", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}
