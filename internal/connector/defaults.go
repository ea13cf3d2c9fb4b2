package connector

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// FallbackProvider supplies the per-source fallback dataset substituted when
// no live snapshot exists. Injectable so tests can pin deterministic
// fixtures instead of the built-in demo values.
type FallbackProvider interface {
	Dataset(sourceID string) map[string]any
}

// builtinFallback serves the baked-in demo datasets. Each dataset uses the
// source's native field names and is internally consistent: normalizing and
// validating it always passes.
type builtinFallback struct{}

// BuiltinFallback returns the provider backed by the built-in demo datasets.
func BuiltinFallback() FallbackProvider { return builtinFallback{} }

func (builtinFallback) Dataset(sourceID string) map[string]any {
	if d, ok := builtinDatasets[sourceID]; ok {
		// Copy so callers can't mutate the shared literal.
		out := make(map[string]any, len(d))
		for k, v := range d {
			out[k] = v
		}
		return out
	}
	return map[string]any{}
}

var builtinDatasets = map[string]map[string]any{
	SourceMetaAds: {
		"impressions":    125000.0,
		"clicks":         3400.0,
		"conversions":    180.0,
		"amount_spent":   2450.0,
		"purchase_value": 8900.0,
		"ctr":            2.72,
		"reach":          98000.0,
		"frequency":      1.28,
	},
	SourceGoogleAds: {
		"impressions":      98500.0,
		"clicks":           2950.0,
		"conversions":      145.0,
		"cost":             2100.0,
		"conversion_value": 7300.0,
		"ctr":              2.99,
		"quality_score":    7.4,
	},
	SourceGoogleAnalytics: {
		"total_users":     15400.0,
		"sessions":        22800.0,
		"goal_completions": 420.0,
		"bounce_rate":     47.3,
		"engagement_rate": 58.6,
		"avg_session_duration": 184.0,
	},
	SourceShopify: {
		"orders":          310.0,
		"total_sales":     18600.0,
		"sessions":        12400.0,
		"conversion_rate": 2.5,
		"average_order_value": 60.0,
		"returning_customer_rate": 27.0,
	},
	SourceLinkedInAds: {
		"impressions":     41200.0,
		"clicks":          680.0,
		"conversions":     52.0,
		"cost_in_usd":     1350.0,
		"ctr":             1.65,
		"leads":           48.0,
	},
	SourceMailchimp: {
		"emails_sent":  18500.0,
		"unique_opens": 6100.0,
		"clicks":       940.0,
		"open_rate":    32.9,
		"click_rate":   5.08,
		"unsubscribes": 42.0,
	},
}

// fileFallback serves datasets loaded from a YAML fixture file, keyed by
// source id. Unknown sources fall through to the built-in datasets.
type fileFallback struct {
	datasets map[string]map[string]any
}

// LoadFallbackFile reads a YAML map of source id -> raw dataset.
func LoadFallbackFile(path string) (FallbackProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "connector: read fallback fixture %s", path)
	}

	var datasets map[string]map[string]any
	if err := yaml.Unmarshal(data, &datasets); err != nil {
		return nil, eris.Wrap(err, "connector: parse fallback fixture")
	}

	return &fileFallback{datasets: datasets}, nil
}

func (f *fileFallback) Dataset(sourceID string) map[string]any {
	if d, ok := f.datasets[sourceID]; ok {
		out := make(map[string]any, len(d))
		for k, v := range d {
			out[k] = v
		}
		return out
	}
	return BuiltinFallback().Dataset(sourceID)
}
