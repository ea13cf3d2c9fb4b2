// Package connector defines the capability contract every data source
// implements and the shared normalization machinery behind it.
package connector

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/insights-cli/internal/model"
	"github.com/sells-group/insights-cli/internal/store"
)

// Connector is the fixed capability contract for one external data source.
// Implementations are constructed once at startup, hold no per-user state,
// and are safe for concurrent use.
type Connector interface {
	Info() model.ConnectorInfo
	Capabilities() model.Capabilities
	SupportedMetrics() []string

	// IsAuthenticated reports whether a non-expired credential is stored for
	// the user. Absent or expired credentials are (false, nil); only a store
	// failure produces an error.
	IsAuthenticated(ctx context.Context, userID string) (bool, error)

	// FetchRaw returns the most recent raw snapshot payload for the user.
	// A missing snapshot yields the connector's fallback dataset, not an
	// error; a store failure is returned to the caller so the aggregation
	// task can substitute degraded metrics.
	FetchRaw(ctx context.Context, userID string) (map[string]any, error)

	// Normalize maps the source's raw field names onto the canonical shape.
	// Every supported metric is populated, falling back to the source's
	// literal default when no alias is present.
	Normalize(raw map[string]any) model.StandardMetrics

	// Validate checks presence of the source's primary metrics and range
	// sanity of rate fields. It never fails hard.
	Validate(m model.StandardMetrics) model.ValidationResult

	// Freshness buckets now minus the metrics timestamp into a human string.
	Freshness(m model.StandardMetrics, now time.Time) string

	// FallbackRaw returns the source's fallback dataset.
	FallbackRaw() map[string]any
}

// fieldSpec describes how one canonical field is populated from a raw
// payload: the first present alias wins, else the source default.
type fieldSpec struct {
	aliases []string
	def     float64
}

// sourceSpec is the per-source table driving the shared implementation.
type sourceSpec struct {
	info      model.ConnectorInfo
	caps      model.Capabilities
	dataType  string
	currency  string
	fields    map[string]fieldSpec // canonical field name -> spec
	primary   []string             // metrics that must be present to validate
	supported []string
}

// base carries the shared behavior of every built-in connector. Concrete
// connectors embed it and supply their sourceSpec.
type base struct {
	spec     sourceSpec
	store    store.Store
	fallback FallbackProvider
	now      func() time.Time
}

// Option configures a connector at construction time.
type Option func(*base)

// WithFallbackProvider substitutes the fallback dataset provider, letting
// tests inject deterministic fixtures instead of the built-in demo values.
func WithFallbackProvider(p FallbackProvider) Option {
	return func(b *base) { b.fallback = p }
}

// WithNow sets a fixed clock for testing credential expiry.
func WithNow(t time.Time) Option {
	return func(b *base) { b.now = func() time.Time { return t } }
}

func newBase(spec sourceSpec, st store.Store, opts ...Option) base {
	b := base{
		spec:     spec,
		store:    st,
		fallback: BuiltinFallback(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (b *base) Info() model.ConnectorInfo       { return b.spec.info }
func (b *base) Capabilities() model.Capabilities { return b.spec.caps }

func (b *base) SupportedMetrics() []string {
	out := make([]string, len(b.spec.supported))
	copy(out, b.spec.supported)
	return out
}

func (b *base) IsAuthenticated(ctx context.Context, userID string) (bool, error) {
	cred, err := b.store.GetCredential(ctx, userID, b.spec.info.ID)
	if err != nil {
		return false, eris.Wrapf(err, "connector %s: credential lookup", b.spec.info.ID)
	}
	if cred == nil || cred.AccessToken == "" {
		return false, nil
	}
	return !cred.Expired(b.now()), nil
}

func (b *base) FetchRaw(ctx context.Context, userID string) (map[string]any, error) {
	snap, err := b.store.GetLatestSnapshot(ctx, userID, b.spec.info.ID)
	if err != nil {
		return nil, eris.Wrapf(err, "connector %s: snapshot lookup", b.spec.info.ID)
	}
	if snap == nil {
		return b.FallbackRaw(), nil
	}
	return snap.Payload, nil
}

func (b *base) FallbackRaw() map[string]any {
	return b.fallback.Dataset(b.spec.info.ID)
}

func (b *base) Normalize(raw map[string]any) model.StandardMetrics {
	m := model.StandardMetrics{
		Platform:         b.spec.info.ID,
		DataType:         b.spec.dataType,
		Timestamp:        rawTimestamp(raw, b.now()),
		Currency:         b.spec.currency,
		PlatformSpecific: raw,
	}
	for field, spec := range b.spec.fields {
		setField(&m, field, coalesce(raw, spec.def, spec.aliases...))
	}
	return m
}

func (b *base) Validate(m model.StandardMetrics) model.ValidationResult {
	res := model.ValidationResult{IsValid: true}

	for _, field := range b.spec.primary {
		if fieldValue(&m, field) == nil {
			res.IsValid = false
			res.Issues = append(res.Issues, fmt.Sprintf("missing primary metric %q", field))
		}
	}

	for field, v := range rateFields(&m) {
		if v != nil && (*v < 0 || *v > 100) {
			res.IsValid = false
			res.Issues = append(res.Issues, fmt.Sprintf("rate %q out of range: %.2f", field, *v))
		}
	}

	return res
}

func (b *base) Freshness(m model.StandardMetrics, now time.Time) string {
	return FreshnessString(m.Timestamp, now)
}

// FreshnessString buckets the age of a data point into a human string.
func FreshnessString(ts, now time.Time) string {
	age := now.Sub(ts)
	switch {
	case age < time.Hour:
		return "just now"
	case age < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(age.Hours()))
	default:
		return fmt.Sprintf("%d days ago", int(age.Hours()/24))
	}
}

// coalesce returns the first alias present in raw as a float, else the
// source default.
func coalesce(raw map[string]any, def float64, aliases ...string) *float64 {
	for _, key := range aliases {
		if v, ok := raw[key]; ok {
			if f, ok := toFloat(v); ok {
				return &f
			}
		}
	}
	d := def
	return &d
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

// rawTimestamp extracts the snapshot timestamp from common raw keys, falling
// back to now so the canonical record always carries one.
func rawTimestamp(raw map[string]any, now time.Time) time.Time {
	for _, key := range []string{"timestamp", "date", "synced_at", "updated_at"} {
		if v, ok := raw[key]; ok {
			if s, ok := v.(string); ok {
				if ts, err := time.Parse(time.RFC3339, s); err == nil {
					return ts
				}
			}
			if t, ok := v.(time.Time); ok {
				return t
			}
		}
	}
	return now
}

func setField(m *model.StandardMetrics, field string, v *float64) {
	if p := fieldPtr(m, field); p != nil {
		*p = v
	}
}

func fieldValue(m *model.StandardMetrics, field string) *float64 {
	if p := fieldPtr(m, field); p != nil {
		return *p
	}
	return nil
}

func fieldPtr(m *model.StandardMetrics, field string) **float64 {
	switch field {
	case "impressions":
		return &m.Impressions
	case "clicks":
		return &m.Clicks
	case "conversions":
		return &m.Conversions
	case "spend":
		return &m.Spend
	case "revenue":
		return &m.Revenue
	case "users":
		return &m.Users
	case "sessions":
		return &m.Sessions
	case "ctr":
		return &m.CTR
	case "conversion_rate":
		return &m.ConversionRate
	case "bounce_rate":
		return &m.BounceRate
	case "open_rate":
		return &m.OpenRate
	case "engagement_rate":
		return &m.EngagementRate
	}
	return nil
}

func rateFields(m *model.StandardMetrics) map[string]*float64 {
	return map[string]*float64{
		"ctr":             m.CTR,
		"conversion_rate": m.ConversionRate,
		"bounce_rate":     m.BounceRate,
		"open_rate":       m.OpenRate,
		"engagement_rate": m.EngagementRate,
	}
}
