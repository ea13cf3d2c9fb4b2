// Package registry holds the set of registered connectors and orchestrates
// discovery, relevance selection, and the concurrent unified fetch.
package registry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/insights-cli/internal/config"
	"github.com/sells-group/insights-cli/internal/connector"
	"github.com/sells-group/insights-cli/internal/insight"
	"github.com/sells-group/insights-cli/internal/model"
	"github.com/sells-group/insights-cli/internal/resilience"
)

// Registry manages the registered connectors for one process. Build it once
// at startup with the full connector list; registration is not safe to run
// concurrently with an in-flight aggregation.
type Registry struct {
	mu         sync.RWMutex
	cfg        config.RegistryConfig
	connectors map[string]connector.Connector
	order      []string // registration order, drives result ordering
	keywords   map[string][]string
	limiter    *rate.Limiter
	now        func() time.Time
}

// New creates a registry over an explicit connector list.
func New(cfg config.RegistryConfig, connectors ...connector.Connector) *Registry {
	r := &Registry{
		cfg:        cfg,
		connectors: make(map[string]connector.Connector),
		keywords:   builtinKeywords(),
		now:        time.Now,
	}
	if cfg.RateLimitPerSec > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitPerSec), 1)
	}
	for _, c := range connectors {
		r.Register(c)
	}
	return r
}

// WithNow sets a fixed clock for testing.
func (r *Registry) WithNow(t time.Time) *Registry {
	r.now = func() time.Time { return t }
	return r
}

// WithKeywords overrides the relevance keyword table for the given sources.
func (r *Registry) WithKeywords(keywords map[string][]string) *Registry {
	for id, kws := range keywords {
		r.keywords[id] = kws
	}
	return r
}

// Register adds a connector. An id collision silently overwrites the
// previous registration (last registration wins) but keeps its position.
func (r *Registry) Register(c connector.Connector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := c.Info().ID
	if _, exists := r.connectors[id]; !exists {
		r.order = append(r.order, id)
	}
	r.connectors[id] = c
}

// Unregister removes a connector by id.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.connectors[id]; !exists {
		return
	}
	delete(r.connectors, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Get returns a connector by id, or nil if not registered.
func (r *Registry) Get(id string) connector.Connector {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.connectors[id]
}

// List returns all registered connectors in registration order.
func (r *Registry) List() []connector.Connector {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]connector.Connector, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.connectors[id])
	}
	return out
}

// ConnectedPlatforms checks every registered connector's stored credential
// concurrently and returns those with a live one, in registration order.
// A failing check excludes only that connector, never the others.
func (r *Registry) ConnectedPlatforms(ctx context.Context, userID string) ([]connector.Connector, error) {
	candidates := r.List()
	connected := make([]bool, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range candidates {
		g.Go(func() error {
			ok, err := c.IsAuthenticated(gctx, userID)
			if err != nil {
				zap.L().Warn("registry: auth check failed",
					zap.String("source", c.Info().ID),
					zap.String("user", userID),
					zap.Error(err),
				)
				return nil
			}
			connected[i] = ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []connector.Connector
	for i, c := range candidates {
		if connected[i] {
			out = append(out, c)
		}
	}
	return out, nil
}

// FetchUnified aggregates metrics for a user across the target connectors:
// the explicit platform ids when given (unknown ids dropped), else the
// user's connected set. Each target runs as an independent task; any task
// failure degrades only its own entry. The result always has one entry per
// target.
func (r *Registry) FetchUnified(ctx context.Context, userID string, platformIDs ...string) (*model.UnifiedMetrics, error) {
	targets := r.resolveTargets(ctx, userID, platformIDs)
	now := r.now()

	platforms := make([]model.PlatformMetrics, len(targets))
	policy := resilience.PolicyForRetries(r.cfg.MaxRetries - 1)

	g := new(errgroup.Group)
	for i, c := range targets {
		g.Go(func() error {
			platforms[i] = r.fetchOne(ctx, c, userID, policy, now)
			return nil
		})
	}
	// Join-all: a slow or broken source must not hide the others, so there
	// is no short-circuit on first failure.
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
	if r.cfg.CrossSourceAnalysis {
		unified.Insights = insight.Synthesize(platforms)
	}

	zap.L().Info("registry: unified fetch complete",
		zap.String("user", userID),
		zap.Int("platforms", len(platforms)),
		zap.Float64("overall_quality", unified.OverallQuality),
	)

	return unified, nil
}

func (r *Registry) resolveTargets(ctx context.Context, userID string, platformIDs []string) []connector.Connector {
	if len(platformIDs) > 0 {
		var targets []connector.Connector
		for _, id := range platformIDs {
			if c := r.Get(id); c != nil {
				targets = append(targets, c)
			} else {
				zap.L().Debug("registry: unknown platform id requested", zap.String("source", id))
			}
		}
		return targets
	}

	if !r.cfg.AutoDiscovery {
		return r.List()
	}

	connected, err := r.ConnectedPlatforms(ctx, userID)
	if err != nil {
		zap.L().Warn("registry: discovery failed", zap.String("user", userID), zap.Error(err))
		return nil
	}
	return connected
}

// fetchOne runs the fetch -> normalize -> validate pipeline for a single
// connector under its own deadline. It never returns an error: every
// failure path yields a fully-populated fallback entry.
func (r *Registry) fetchOne(ctx context.Context, c connector.Connector, userID string, policy resilience.Policy, now time.Time) model.PlatformMetrics {
	info := c.Info()

	fetchCtx := ctx
	if timeout := r.cfg.FetchTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if r.limiter != nil {
		if err := r.limiter.Wait(fetchCtx); err != nil {
			return r.fallbackEntry(c, err, now)
		}
	}

	raw, err := resilience.DoVal(fetchCtx, policy, func(ctx context.Context) (map[string]any, error) {
		return c.FetchRaw(ctx, userID)
	})
	if err != nil {
		zap.L().Warn("registry: fetch failed, substituting fallback",
			zap.String("source", info.ID),
			zap.String("user", userID),
			zap.Error(err),
		)
		return r.fallbackEntry(c, err, now)
	}

	metrics := c.Normalize(raw)
	validation := c.Validate(metrics)

	quality := model.QualityLive
	if !validation.IsValid {
		quality = model.QualitySuspect
		zap.L().Warn("registry: validation issues",
			zap.String("source", info.ID),
			zap.Strings("issues", validation.Issues),
		)
	}

	ts := metrics.Timestamp
	return model.PlatformMetrics{
		SourceID:   info.ID,
		SourceName: info.Name,
		SourceType: info.Type,
		Metrics:    metrics,
		Quality:    quality,
		Freshness:  c.Freshness(metrics, now),
		LastSync:   &ts,
	}
}

// fallbackEntry synthesizes the degraded entry substituted for a failed
// task. The fallback dataset keeps the entry internally valid; the error
// and the 0.5 quality carry the degradation signal.
func (r *Registry) fallbackEntry(c connector.Connector, cause error, now time.Time) model.PlatformMetrics {
	info := c.Info()

	var metrics model.StandardMetrics
	if r.cfg.FallbackToMock {
		metrics = c.Normalize(c.FallbackRaw())
	} else {
		metrics = model.StandardMetrics{
			Platform:  info.ID,
			Timestamp: now,
		}
	}

	return model.PlatformMetrics{
		SourceID:   info.ID,
		SourceName: info.Name,
		SourceType: info.Type,
		Metrics:    metrics,
		Quality:    model.QualityFallback,
		Freshness:  c.Freshness(metrics, now),
		Error:      cause.Error(),
	}
}
