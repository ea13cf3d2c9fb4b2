package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/insights-cli/internal/model"
)

func platform(id, name string, quality float64, conversions, spend *float64) model.PlatformMetrics {
	return model.PlatformMetrics{
		SourceID:   id,
		SourceName: name,
		Quality:    quality,
		Metrics: model.StandardMetrics{
			Platform:    id,
			Conversions: conversions,
			Spend:       spend,
		},
	}
}

func TestSynthesizeSingleSource(t *testing.T) {
	platforms := []model.PlatformMetrics{
		platform("meta_ads", "Meta Ads", model.QualityLive, model.Float(180), model.Float(2450)),
	}
	assert.Empty(t, Synthesize(platforms))
}

func TestSynthesizeEmpty(t *testing.T) {
	assert.Empty(t, Synthesize(nil))
}

func TestSynthesizeCombinedPerformance(t *testing.T) {
	platforms := []model.PlatformMetrics{
		platform("meta_ads", "Meta Ads", model.QualityLive, model.Float(180), model.Float(250)),
		platform("google_ads", "Google Ads", model.QualityFallback, model.Float(145), model.Float(100)),
	}

	insights := Synthesize(platforms)
	require.Len(t, insights, 2)

	combined := insights[0]
	assert.Equal(t, model.InsightTrend, combined.Type)
	assert.Contains(t, combined.Description, "2 sources")
	assert.Contains(t, combined.Description, "325 total conversions")
	assert.Contains(t, combined.Description, "$350.00")
	require.NotNil(t, combined.Value)
	assert.Equal(t, 325.0, *combined.Value)
	assert.InDelta(t, 0.75, combined.Confidence, 0.001)
	assert.Equal(t, []string{"meta_ads", "google_ads"}, combined.Sources)
}

func TestSynthesizeTopPerformer(t *testing.T) {
	platforms := []model.PlatformMetrics{
		platform("meta_ads", "Meta Ads", model.QualityLive, model.Float(180), model.Float(250)),
		platform("google_ads", "Google Ads", model.QualitySuspect, model.Float(300), model.Float(100)),
		platform("shopify", "Shopify", model.QualityLive, model.Float(90), nil),
	}

	insights := Synthesize(platforms)
	require.Len(t, insights, 2)

	top := insights[1]
	assert.Equal(t, model.InsightBenchmark, top.Type)
	assert.Contains(t, top.Description, "Google Ads")
	assert.Contains(t, top.Description, "300 conversions")
	assert.Equal(t, model.QualitySuspect, top.Confidence)
	assert.Equal(t, []string{"google_ads"}, top.Sources)
}

func TestSynthesizeTopPerformerTieKeepsFirst(t *testing.T) {
	platforms := []model.PlatformMetrics{
		platform("meta_ads", "Meta Ads", model.QualityLive, model.Float(100), nil),
		platform("google_ads", "Google Ads", model.QualityLive, model.Float(100), nil),
	}

	insights := Synthesize(platforms)
	require.Len(t, insights, 2)
	assert.Equal(t, []string{"meta_ads"}, insights[1].Sources)
}

func TestSynthesizeNoConversionsSkipsTopPerformer(t *testing.T) {
	platforms := []model.PlatformMetrics{
		platform("a", "A", model.QualityLive, nil, model.Float(10)),
		platform("b", "B", model.QualityLive, nil, model.Float(20)),
	}

	insights := Synthesize(platforms)
	require.Len(t, insights, 1)
	assert.Equal(t, model.InsightTrend, insights[0].Type)
}
