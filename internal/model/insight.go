package model

// InsightType tags the kind of observation an insight carries.
type InsightType string

const (
	InsightTrend          InsightType = "trend"
	InsightCorrelation    InsightType = "correlation"
	InsightAnomaly        InsightType = "anomaly"
	InsightRecommendation InsightType = "recommendation"
	InsightBenchmark      InsightType = "benchmark"
)

// Insight is a structured observation derived from aggregated metrics.
type Insight struct {
	Type        InsightType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Value       *float64    `json:"value,omitempty"`
	Confidence  float64     `json:"confidence"`
	Sources     []string    `json:"sources"`
}
