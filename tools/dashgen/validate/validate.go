// Package validate checks generated dashboards for PromQL syntax errors
// and references to metrics the service does not export.
package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/prometheus/prometheus/promql/parser"
)

// Result collects validation findings. Errors fail the build; warnings
// flag queries against metrics missing from the known set.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether validation found no errors.
func (r Result) Ok() bool {
	return len(r.Errors) == 0
}

// Dashboard validates every Prometheus expression found in the dashboard
// against PromQL syntax and the known metric set.
func Dashboard(dash any, known map[string]bool) Result {
	var r Result

	data, err := json.Marshal(dash)
	if err != nil {
		r.Errors = append(r.Errors, fmt.Sprintf("marshaling dashboard: %v", err))
		return r
	}

	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		r.Errors = append(r.Errors, fmt.Sprintf("decoding dashboard: %v", err))
		return r
	}

	for _, expr := range collectExprs(tree) {
		checkExpr(expr, known, &r)
	}
	return r
}

func checkExpr(expr string, known map[string]bool, r *Result) {
	node, err := parser.ParseExpr(expr)
	if err != nil {
		r.Errors = append(r.Errors, fmt.Sprintf("invalid PromQL %q: %v", expr, err))
		return
	}

	//nolint:errcheck // the inspector never returns an error
	parser.Inspect(node, func(n parser.Node, _ []parser.Node) error {
		vs, ok := n.(*parser.VectorSelector)
		if !ok || vs.Name == "" {
			return nil
		}
		if !known[baseMetricName(vs.Name)] {
			r.Warnings = append(r.Warnings,
				fmt.Sprintf("unknown metric %q in %q", vs.Name, expr))
		}
		return nil
	})
}

// baseMetricName strips histogram and summary series suffixes so that
// partscout_x_seconds_bucket matches the registered partscout_x_seconds.
func baseMetricName(name string) string {
	for _, suffix := range []string{"_bucket", "_sum", "_count"} {
		if strings.HasSuffix(name, suffix) {
			return strings.TrimSuffix(name, suffix)
		}
	}
	return name
}

// collectExprs walks the decoded JSON tree gathering every "expr" value.
func collectExprs(node any) []string {
	var out []string
	switch v := node.(type) {
	case map[string]any:
		for key, val := range v {
			if key == "expr" {
				if s, ok := val.(string); ok {
					out = append(out, s)
					continue
				}
			}
			out = append(out, collectExprs(val)...)
		}
	case []any:
		for _, item := range v {
			out = append(out, collectExprs(item)...)
		}
	}
	return out
}
