package connector

import (
	"github.com/sells-group/insights-cli/internal/model"
	"github.com/sells-group/insights-cli/internal/store"
)

// SourceLinkedInAds is the source id for the LinkedIn Ads connector.
const SourceLinkedInAds = "linkedin_ads"

// LinkedInAds normalizes LinkedIn Campaign Manager reports.
type LinkedInAds struct {
	base
}

// NewLinkedInAds creates the LinkedIn Ads connector.
func NewLinkedInAds(st store.Store, opts ...Option) *LinkedInAds {
	spec := sourceSpec{
		info: model.ConnectorInfo{
			ID:      SourceLinkedInAds,
			Name:    "LinkedIn Ads",
			Type:    model.SourceTypeAdvertising,
			Version: "1.0.0",
		},
		caps: model.Capabilities{
			Historical:  true,
			CrossSource: true,
		},
		dataType: "ad_performance",
		currency: "USD",
		fields: map[string]fieldSpec{
			"impressions": {aliases: []string{"impressions"}, def: 41200},
			"clicks":      {aliases: []string{"clicks"}, def: 680},
			"conversions": {aliases: []string{"conversions", "external_website_conversions", "leads"}, def: 52},
			"spend":       {aliases: []string{"cost_in_usd", "cost_in_local_currency", "spend"}, def: 1350},
			"ctr":         {aliases: []string{"ctr"}, def: 1.65},
		},
		primary:   []string{"impressions", "clicks", "spend"},
		supported: []string{"impressions", "clicks", "conversions", "spend", "ctr"},
	}
	return &LinkedInAds{base: newBase(spec, st, opts...)}
}
