// Package insight derives cross-source observations from aggregated metrics.
package insight

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/insights-cli/internal/model"
)

var printer = message.NewPrinter(language.English)

// Synthesize computes the cross-source insights for an aggregated result.
// Pure function: no store or network access. Deeper statistical correlation
// is a future concern; today this covers the combined-performance summary
// and the top performer.
func Synthesize(platforms []model.PlatformMetrics) []model.Insight {
	var insights []model.Insight

	if len(platforms) > 1 {
		insights = append(insights, combinedPerformance(platforms))
	}
	if len(platforms) >= 2 {
		if top, ok := topPerformer(platforms); ok {
			insights = append(insights, top)
		}
	}

	return insights
}

func combinedPerformance(platforms []model.PlatformMetrics) model.Insight {
	var totalSpend, totalConversions float64
	sources := make([]string, 0, len(platforms))
	for _, p := range platforms {
		if p.Metrics.Spend != nil {
			totalSpend += *p.Metrics.Spend
		}
		if p.Metrics.Conversions != nil {
			totalConversions += *p.Metrics.Conversions
		}
		sources = append(sources, p.SourceID)
	}

	return model.Insight{
		Type:  model.InsightTrend,
		Title: "Multi-source performance",
		Description: printer.Sprintf("Across %d sources: %.0f total conversions on $%.2f total spend.",
			len(platforms), totalConversions, totalSpend),
		Value:      model.Float(totalConversions),
		Confidence: model.MeanQuality(platforms),
		Sources:    sources,
	}
}

// topPerformer names the source with the most conversions. Ties keep the
// first occurrence in input order.
func topPerformer(platforms []model.PlatformMetrics) (model.Insight, bool) {
	best := -1
	bestConversions := 0.0
	for i, p := range platforms {
		if p.Metrics.Conversions == nil {
			continue
		}
		if best == -1 || *p.Metrics.Conversions > bestConversions {
			best = i
			bestConversions = *p.Metrics.Conversions
		}
	}
	if best == -1 {
		return model.Insight{}, false
	}

	winner := platforms[best]
	return model.Insight{
		Type:  model.InsightBenchmark,
		Title: "Top performer",
		Description: printer.Sprintf("%s leads with %.0f conversions.",
			winner.SourceName, bestConversions),
		Value:      model.Float(bestConversions),
		Confidence: winner.Quality,
		Sources:    []string{winner.SourceID},
	}, true
}
