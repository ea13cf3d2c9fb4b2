// Package export writes aggregated results to spreadsheet files.
package export

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/insights-cli/internal/model"
)

// WriteUnified writes a unified result to an XLSX workbook: one summary
// sheet with a row per source, and an insights sheet when present.
func WriteUnified(path string, u *model.UnifiedMetrics) error {
	f := xlsx.NewFile()

	sheet, err := f.AddSheet("Sources")
	if err != nil {
		return eris.Wrap(err, "export: add sources sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{
		"Source", "Type", "Quality", "Freshness", "Impressions", "Clicks",
		"Conversions", "Spend", "Revenue", "Error",
	} {
		header.AddCell().SetString(h)
	}

	for _, p := range u.Platforms {
		row := sheet.AddRow()
		row.AddCell().SetString(p.SourceName)
		row.AddCell().SetString(string(p.SourceType))
		row.AddCell().SetFloat(p.Quality)
		row.AddCell().SetString(p.Freshness)
		addMetricCell(row, p.Metrics.Impressions)
		addMetricCell(row, p.Metrics.Clicks)
		addMetricCell(row, p.Metrics.Conversions)
		addMetricCell(row, p.Metrics.Spend)
		addMetricCell(row, p.Metrics.Revenue)
		row.AddCell().SetString(p.Error)
	}

	summary := sheet.AddRow()
	summary.AddCell().SetString("Overall quality")
	summary.AddCell().SetString(fmt.Sprintf("%.2f", u.OverallQuality))

	if len(u.Insights) > 0 {
		insights, err := f.AddSheet("Insights")
		if err != nil {
			return eris.Wrap(err, "export: add insights sheet")
		}
		ihead := insights.AddRow()
		for _, h := range []string{"Type", "Title", "Description", "Confidence"} {
			ihead.AddCell().SetString(h)
		}
		for _, ins := range u.Insights {
			row := insights.AddRow()
			row.AddCell().SetString(string(ins.Type))
			row.AddCell().SetString(ins.Title)
			row.AddCell().SetString(ins.Description)
			row.AddCell().SetFloat(ins.Confidence)
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}

func addMetricCell(row *xlsx.Row, v *float64) {
	cell := row.AddCell()
	if v != nil {
		cell.SetFloat(*v)
	}
}
