// Package render builds the presentation-layer outputs produced alongside
// aggregation: chart configurations and spoken narration text. No drawing
// or speech synthesis happens here.
package render

import (
	"strings"

	"github.com/sells-group/insights-cli/internal/model"
)

// ChartConfig is the renderer-agnostic chart description handed to the
// presentation layer.
type ChartConfig struct {
	Type   string   `json:"type"` // "bar" or "line"
	Title  string   `json:"title"`
	Labels []string `json:"labels"`
	Series []Series `json:"series"`
}

// Series is one named data series.
type Series struct {
	Name string    `json:"name"`
	Data []float64 `json:"data"`
}

// chartFields fixes the order metrics appear in across every chart so
// sources stay visually comparable.
var chartFields = []struct {
	label string
	get   func(m model.StandardMetrics) *float64
}{
	{"Impressions", func(m model.StandardMetrics) *float64 { return m.Impressions }},
	{"Clicks", func(m model.StandardMetrics) *float64 { return m.Clicks }},
	{"Conversions", func(m model.StandardMetrics) *float64 { return m.Conversions }},
	{"Spend", func(m model.StandardMetrics) *float64 { return m.Spend }},
	{"Revenue", func(m model.StandardMetrics) *float64 { return m.Revenue }},
	{"Users", func(m model.StandardMetrics) *float64 { return m.Users }},
	{"Sessions", func(m model.StandardMetrics) *float64 { return m.Sessions }},
}

// ChartFor builds a chart config for one source's metrics. Queries asking
// about change over time get a line chart; everything else a bar chart.
func ChartFor(name string, m model.StandardMetrics, query string) ChartConfig {
	chartType := "bar"
	q := strings.ToLower(query)
	for _, kw := range []string{"trend", "over time", "history", "daily", "weekly"} {
		if strings.Contains(q, kw) {
			chartType = "line"
			break
		}
	}

	cfg := ChartConfig{
		Type:  chartType,
		Title: name + " performance",
	}

	var data []float64
	for _, f := range chartFields {
		if v := f.get(m); v != nil {
			cfg.Labels = append(cfg.Labels, f.label)
			data = append(data, *v)
		}
	}
	cfg.Series = []Series{{Name: name, Data: data}}

	return cfg
}
