package render

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/insights-cli/internal/model"
)

var printer = message.NewPrinter(language.English)

// Narration builds the spoken summary for an aggregated result. The text is
// plain sentences so a TTS layer can read it verbatim.
func Narration(u *model.UnifiedMetrics) string {
	if len(u.Platforms) == 0 {
		return "No connected data sources were found for this account."
	}

	var sb strings.Builder

	names := make([]string, 0, len(u.Platforms))
	degraded := 0
	for _, p := range u.Platforms {
		names = append(names, p.SourceName)
		if p.Quality < model.QualityLive {
			degraded++
		}
	}

	sb.WriteString(printer.Sprintf("Here is your performance across %d sources: %s. ",
		len(u.Platforms), strings.Join(names, ", ")))

	var spend, conversions float64
	for _, p := range u.Platforms {
		if p.Metrics.Spend != nil {
			spend += *p.Metrics.Spend
		}
		if p.Metrics.Conversions != nil {
			conversions += *p.Metrics.Conversions
		}
	}
	if spend > 0 || conversions > 0 {
		sb.WriteString(printer.Sprintf("Combined, you drove %.0f conversions on $%.2f in spend. ",
			conversions, spend))
	}

	for _, ins := range u.Insights {
		sb.WriteString(ins.Description)
		sb.WriteString(" ")
	}

	if degraded > 0 {
		sb.WriteString(printer.Sprintf("Note: %d of %d sources returned degraded data.",
			degraded, len(u.Platforms)))
	}

	return strings.TrimSpace(sb.String())
}
