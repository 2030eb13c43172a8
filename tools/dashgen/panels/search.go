package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// SearchLatency returns a timeseries panel showing p50 and p95 end-to-end
// search durations.
func SearchLatency() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Search Latency").
		Description("End-to-end aggregated search duration percentiles").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`histogram_quantile(0.50, sum(rate(partscout_search_duration_seconds_bucket{job="partscout"}[5m])) by (le))`,
			"p50",
			"A",
		)).
		WithTarget(PromQuery(
			`histogram_quantile(0.95, sum(rate(partscout_search_duration_seconds_bucket{job="partscout"}[5m])) by (le))`,
			"p95",
			"B",
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

// EmptySearchRatio returns a timeseries panel showing the share of searches
// where no source had the part.
func EmptySearchRatio() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Empty Search %").
		Description("Percentage of searches where every source came back empty").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`partscout:searches_no_offers:rate5m / partscout:searches:rate5m * 100`,
			"empty %", "A",
		)).
		Unit("percent").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(50, 90)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine)
}
