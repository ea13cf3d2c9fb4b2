package connector

import (
	"github.com/sells-group/insights-cli/internal/model"
	"github.com/sells-group/insights-cli/internal/store"
)

// SourceMailchimp is the source id for the Mailchimp connector.
const SourceMailchimp = "mailchimp"

// Mailchimp normalizes email campaign reports. Sends map onto impressions
// and the click rate onto ctr so email campaigns compare against paid
// channels in the unified view.
type Mailchimp struct {
	base
}

// NewMailchimp creates the Mailchimp connector.
func NewMailchimp(st store.Store, opts ...Option) *Mailchimp {
	spec := sourceSpec{
		info: model.ConnectorInfo{
			ID:      SourceMailchimp,
			Name:    "Mailchimp",
			Type:    model.SourceTypeEmail,
			Version: "1.0.1",
		},
		caps: model.Capabilities{
			Historical: true,
		},
		dataType: "email_campaign",
		fields: map[string]fieldSpec{
			"impressions": {aliases: []string{"emails_sent", "sends"}, def: 18500},
			"users":       {aliases: []string{"unique_opens", "opens"}, def: 6100},
			"clicks":      {aliases: []string{"clicks", "unique_clicks"}, def: 940},
			"open_rate":   {aliases: []string{"open_rate"}, def: 32.9},
			"ctr":         {aliases: []string{"click_rate", "ctr"}, def: 5.08},
		},
		primary:   []string{"impressions", "open_rate"},
		supported: []string{"impressions", "users", "clicks", "open_rate", "ctr"},
	}
	return &Mailchimp{base: newBase(spec, st, opts...)}
}
