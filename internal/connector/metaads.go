package connector

import (
	"github.com/sells-group/insights-cli/internal/model"
	"github.com/sells-group/insights-cli/internal/store"
)

// SourceMetaAds is the source id for the Meta Ads connector.
const SourceMetaAds = "meta_ads"

// MetaAds normalizes Meta (Facebook/Instagram) Ads insights. The Graph API
// reports spend under amount_spent and revenue as purchase conversion value,
// both covered by the alias tables.
type MetaAds struct {
	base
}

// NewMetaAds creates the Meta Ads connector.
func NewMetaAds(st store.Store, opts ...Option) *MetaAds {
	spec := sourceSpec{
		info: model.ConnectorInfo{
			ID:      SourceMetaAds,
			Name:    "Meta Ads",
			Type:    model.SourceTypeAdvertising,
			Version: "1.2.0",
		},
		caps: model.Capabilities{
			RealTime:    true,
			Historical:  true,
			CrossSource: true,
		},
		dataType: "ad_performance",
		currency: "USD",
		fields: map[string]fieldSpec{
			"impressions": {aliases: []string{"impressions", "views"}, def: 125000},
			"clicks":      {aliases: []string{"clicks", "link_clicks"}, def: 3400},
			"conversions": {aliases: []string{"conversions", "purchases"}, def: 180},
			"spend":       {aliases: []string{"spend", "amount_spent", "cost"}, def: 2450},
			"revenue":     {aliases: []string{"revenue", "purchase_value"}, def: 8900},
			"ctr":         {aliases: []string{"ctr"}, def: 2.72},
		},
		primary:   []string{"impressions", "clicks", "spend"},
		supported: []string{"impressions", "clicks", "conversions", "spend", "revenue", "ctr"},
	}
	return &MetaAds{base: newBase(spec, st, opts...)}
}
