// Package bridge adapts the persisted per-(user, source, time) snapshot
// table into the same unified shape the registry produces, using
// bridge-local field-mapping tables instead of live connector calls.
package bridge

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/insights-cli/internal/insight"
	"github.com/sells-group/insights-cli/internal/model"
	"github.com/sells-group/insights-cli/internal/store"
)

// Bridge serves unified metrics straight from the snapshot store for the
// advertising sources a user has connected.
type Bridge struct {
	store      store.Store
	mappings   map[string]FieldMapping
	synthesize bool
	now        func() time.Time
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithNow sets a fixed clock for testing.
func WithNow(t time.Time) Option {
	return func(b *Bridge) { b.now = func() time.Time { return t } }
}

// WithoutInsights disables cross-source insight synthesis.
func WithoutInsights() Option {
	return func(b *Bridge) { b.synthesize = false }
}

// New creates a Bridge. A nil mappings table uses DefaultMappings.
func New(st store.Store, mappings map[string]FieldMapping, opts ...Option) *Bridge {
	if mappings == nil {
		mappings = DefaultMappings()
	}
	b := &Bridge{
		store:      st,
		mappings:   mappings,
		synthesize: true,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// UnifiedPlatformData aggregates the latest persisted snapshot of every
// connected advertising source into one unified result. Mirrors the
// registry contract: one entry per source, failures degrade entries instead
// of the call.
func (b *Bridge) UnifiedPlatformData(ctx context.Context, userID string) (*model.UnifiedMetrics, error) {
	conns, err := b.store.ListConnections(ctx, userID)
	if err != nil {
		return nil, eris.Wrapf(err, "bridge: list connections %s", userID)
	}

	var targets []model.SourceConnection
	for _, conn := range conns {
		if conn.Status != model.ConnectionActive {
			continue
		}
		if conn.SourceType != model.SourceTypeAdvertising {
			continue
		}
		if _, ok := b.mappings[conn.SourceID]; !ok {
			zap.L().Debug("bridge: no mapping for connected source", zap.String("source", conn.SourceID))
			continue
		}
		targets = append(targets, conn)
	}

	now := b.now()
	platforms := make([]model.PlatformMetrics, len(targets))

	g := new(errgroup.Group)
	for i, conn := range targets {
		g.Go(func() error {
			platforms[i] = b.fetchOne(ctx, conn, now)
			return nil
		})
	}
	_ = g.Wait()

	unified := &model.UnifiedMetrics{
		RequestID:      uuid.New().String(),
		UserID:         userID,
		Platforms:      platforms,
		OverallQuality: model.MeanQuality(platforms),
		LastUpdated:    now,
		DataFreshness:  make(map[string]string, len(platforms)),
	}
	for _, p := range platforms {
		unified.DataFreshness[p.SourceID] = p.Freshness
	}
	if b.synthesize {
		unified.Insights = insight.Synthesize(platforms)
	}

	return unified, nil
}

func (b *Bridge) fetchOne(ctx context.Context, conn model.SourceConnection, now time.Time) model.PlatformMetrics {
	mapping := b.mappings[conn.SourceID]

	entry := model.PlatformMetrics{
		SourceID:   conn.SourceID,
		SourceName: mapping.SourceName,
		SourceType: conn.SourceType,
	}

	snap, err := b.store.GetLatestSnapshot(ctx, conn.UserID, conn.SourceID)
	if err != nil {
		zap.L().Warn("bridge: snapshot query failed, substituting fallback",
			zap.String("source", conn.SourceID),
			zap.String("user", conn.UserID),
			zap.Error(err),
		)
		entry.Metrics = mapping.Fallback(conn.SourceID, now)
		entry.Quality = model.QualityFallback
		entry.Error = err.Error()
		entry.Freshness = Freshness(now, now)
		return entry
	}

	if snap == nil {
		entry.Metrics = mapping.Fallback(conn.SourceID, now)
		entry.Quality = model.QualityFallback
		entry.Freshness = Freshness(now, now)
		return entry
	}

	entry.Metrics = mapping.Apply(conn.SourceID, snap.Payload, snap.CreatedAt)
	entry.Quality = model.QualityLive
	if issues := rateIssues(entry.Metrics); len(issues) > 0 {
		entry.Quality = model.QualitySuspect
		zap.L().Warn("bridge: mapped metrics failed range checks",
			zap.String("source", conn.SourceID),
			zap.Strings("issues", issues),
		)
	}
	entry.Freshness = Freshness(snap.CreatedAt, now)
	entry.LastSync = &snap.CreatedAt
	return entry
}

func rateIssues(m model.StandardMetrics) []string {
	var issues []string
	if m.CTR != nil && (*m.CTR < 0 || *m.CTR > 100) {
		issues = append(issues, fmt.Sprintf("ctr out of range: %.2f", *m.CTR))
	}
	if m.ConversionRate != nil && (*m.ConversionRate < 0 || *m.ConversionRate > 100) {
		issues = append(issues, fmt.Sprintf("conversion_rate out of range: %.2f", *m.ConversionRate))
	}
	return issues
}

// Freshness buckets a snapshot age like the connector layer does, with an
// extra weeks bucket for the older rows the snapshot table accumulates.
func Freshness(ts, now time.Time) string {
	age := now.Sub(ts)
	switch {
	case age < time.Hour:
		return "synced just now"
	case age < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(age.Hours()))
	case age < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(age.Hours()/24))
	default:
		return fmt.Sprintf("%dw ago", int(age.Hours()/(24*7)))
	}
}
