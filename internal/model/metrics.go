package model

import "time"

// SourceType classifies a data source by what kind of metrics it produces.
type SourceType string

const (
	SourceTypeAdvertising SourceType = "advertising"
	SourceTypeAnalytics   SourceType = "analytics"
	SourceTypeCommerce    SourceType = "commerce"
	SourceTypeEmail       SourceType = "email"
)

// Quality levels assigned to a source's contribution to an aggregated result.
const (
	QualityLive     = 1.0 // fetched and validated live data
	QualitySuspect  = 0.7 // fetched data that failed validation
	QualityFallback = 0.5 // synthesized fallback data
)

// StandardMetrics is the canonical shape every source is normalized into.
// Optional numeric fields are pointers so "absent" and "zero" stay distinct.
// Platform and Timestamp are always set; rate fields, when present, lie in
// [0,100]; counts and amounts, when present, are >= 0.
type StandardMetrics struct {
	Platform  string    `json:"platform"`
	DataType  string    `json:"data_type"`
	Timestamp time.Time `json:"timestamp"`
	Currency  string    `json:"currency,omitempty"`

	Impressions    *float64 `json:"impressions,omitempty"`
	Clicks         *float64 `json:"clicks,omitempty"`
	Conversions    *float64 `json:"conversions,omitempty"`
	Spend          *float64 `json:"spend,omitempty"`
	Revenue        *float64 `json:"revenue,omitempty"`
	Users          *float64 `json:"users,omitempty"`
	Sessions       *float64 `json:"sessions,omitempty"`
	CTR            *float64 `json:"ctr,omitempty"`
	ConversionRate *float64 `json:"conversion_rate,omitempty"`
	BounceRate     *float64 `json:"bounce_rate,omitempty"`
	OpenRate       *float64 `json:"open_rate,omitempty"`
	EngagementRate *float64 `json:"engagement_rate,omitempty"`

	// PlatformSpecific preserves the untransformed source payload.
	PlatformSpecific map[string]any `json:"platform_specific,omitempty"`
}

// Float returns a pointer to v, for building optional metric fields.
func Float(v float64) *float64 { return &v }

// PlatformMetrics wraps one source's normalized metrics with the
// orchestration metadata produced during an aggregation request.
type PlatformMetrics struct {
	SourceID   string          `json:"source_id"`
	SourceName string          `json:"source_name"`
	SourceType SourceType      `json:"source_type"`
	Metrics    StandardMetrics `json:"metrics"`
	Quality    float64         `json:"quality"`
	Freshness  string          `json:"freshness"`
	Error      string          `json:"error,omitempty"`
	LastSync   *time.Time      `json:"last_sync,omitempty"`
}

// UnifiedMetrics is the top-level aggregation result: one entry per attempted
// source, never fewer, with degradation expressed in the quality scores
// rather than as an error.
type UnifiedMetrics struct {
	RequestID      string            `json:"request_id"`
	UserID         string            `json:"user_id"`
	Platforms      []PlatformMetrics `json:"platforms"`
	Insights       []Insight         `json:"insights,omitempty"`
	OverallQuality float64           `json:"overall_quality"`
	LastUpdated    time.Time         `json:"last_updated"`
	DataFreshness  map[string]string `json:"data_freshness"`
}

// MeanQuality computes the arithmetic mean of per-source qualities.
// Returns 0 for an empty platform list.
func MeanQuality(platforms []PlatformMetrics) float64 {
	if len(platforms) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range platforms {
		sum += p.Quality
	}
	return sum / float64(len(platforms))
}

// ValidationResult reports whether normalized metrics passed a connector's
// sanity checks. A failed validation lowers quality but never excludes the
// source.
type ValidationResult struct {
	IsValid bool     `json:"is_valid"`
	Issues  []string `json:"issues,omitempty"`
}
