package connector

import (
	"github.com/sells-group/insights-cli/internal/model"
	"github.com/sells-group/insights-cli/internal/store"
)

// SourceGoogleAds is the source id for the Google Ads connector.
const SourceGoogleAds = "google_ads"

// GoogleAds normalizes Google Ads campaign reports.
type GoogleAds struct {
	base
}

// NewGoogleAds creates the Google Ads connector.
func NewGoogleAds(st store.Store, opts ...Option) *GoogleAds {
	spec := sourceSpec{
		info: model.ConnectorInfo{
			ID:      SourceGoogleAds,
			Name:    "Google Ads",
			Type:    model.SourceTypeAdvertising,
			Version: "1.1.0",
		},
		caps: model.Capabilities{
			RealTime:    true,
			Historical:  true,
			Predictive:  true,
			CrossSource: true,
		},
		dataType: "ad_performance",
		currency: "USD",
		fields: map[string]fieldSpec{
			"impressions": {aliases: []string{"impressions"}, def: 98500},
			"clicks":      {aliases: []string{"clicks", "interactions"}, def: 2950},
			"conversions": {aliases: []string{"conversions", "all_conversions"}, def: 145},
			"spend":       {aliases: []string{"cost", "spend"}, def: 2100},
			"revenue":     {aliases: []string{"conversion_value", "revenue"}, def: 7300},
			"ctr":         {aliases: []string{"ctr"}, def: 2.99},
		},
		primary:   []string{"impressions", "clicks", "spend"},
		supported: []string{"impressions", "clicks", "conversions", "spend", "revenue", "ctr"},
	}
	return &GoogleAds{base: newBase(spec, st, opts...)}
}
