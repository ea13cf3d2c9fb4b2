package connector

import (
	"github.com/sells-group/insights-cli/internal/model"
	"github.com/sells-group/insights-cli/internal/store"
)

// SourceGoogleAnalytics is the source id for the Google Analytics connector.
const SourceGoogleAnalytics = "google_analytics"

// GoogleAnalytics normalizes GA4 property reports. GA4 renamed most UA
// metrics (goal_completions became key events), so the alias tables carry
// both generations of field names.
type GoogleAnalytics struct {
	base
}

// NewGoogleAnalytics creates the Google Analytics connector.
func NewGoogleAnalytics(st store.Store, opts ...Option) *GoogleAnalytics {
	spec := sourceSpec{
		info: model.ConnectorInfo{
			ID:      SourceGoogleAnalytics,
			Name:    "Google Analytics",
			Type:    model.SourceTypeAnalytics,
			Version: "2.0.1",
		},
		caps: model.Capabilities{
			RealTime:    true,
			Historical:  true,
			CrossSource: true,
		},
		dataType: "web_analytics",
		fields: map[string]fieldSpec{
			"users":           {aliases: []string{"total_users", "users", "active_users"}, def: 15400},
			"sessions":        {aliases: []string{"sessions", "visits"}, def: 22800},
			"conversions":     {aliases: []string{"goal_completions", "key_events", "conversions"}, def: 420},
			"bounce_rate":     {aliases: []string{"bounce_rate"}, def: 47.3},
			"engagement_rate": {aliases: []string{"engagement_rate"}, def: 58.6},
		},
		primary:   []string{"users", "sessions"},
		supported: []string{"users", "sessions", "conversions", "bounce_rate", "engagement_rate"},
	}
	return &GoogleAnalytics{base: newBase(spec, st, opts...)}
}
