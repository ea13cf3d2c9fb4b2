package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/insights-cli/internal/model"
)

func TestChartForBarByDefault(t *testing.T) {
	m := model.StandardMetrics{
		Platform:    "meta_ads",
		Impressions: model.Float(1000),
		Clicks:      model.Float(50),
		Spend:       model.Float(25),
	}

	cfg := ChartFor("Meta Ads", m, "how are my ads doing")

	assert.Equal(t, "bar", cfg.Type)
	assert.Equal(t, "Meta Ads performance", cfg.Title)
	// Only present fields appear, in the fixed order.
	assert.Equal(t, []string{"Impressions", "Clicks", "Spend"}, cfg.Labels)
	require.Len(t, cfg.Series, 1)
	assert.Equal(t, "Meta Ads", cfg.Series[0].Name)
	assert.Equal(t, []float64{1000, 50, 25}, cfg.Series[0].Data)
}

func TestChartForLineOnTrendQueries(t *testing.T) {
	m := model.StandardMetrics{Platform: "shopify", Revenue: model.Float(500)}

	for _, q := range []string{
		"show me the trend",
		"revenue over time",
		"daily sales",
	} {
		cfg := ChartFor("Shopify", m, q)
		assert.Equal(t, "line", cfg.Type, q)
	}
}

func TestChartForNoMetrics(t *testing.T) {
	cfg := ChartFor("Empty", model.StandardMetrics{Platform: "x"}, "")
	assert.Empty(t, cfg.Labels)
	require.Len(t, cfg.Series, 1)
	assert.Empty(t, cfg.Series[0].Data)
}
