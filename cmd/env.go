package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/insights-cli/internal/bridge"
	"github.com/sells-group/insights-cli/internal/connector"
	"github.com/sells-group/insights-cli/internal/registry"
	"github.com/sells-group/insights-cli/internal/store"
)

// appEnv holds the initialized store, registry, and bridge shared by the
// fetch/sources/serve/export commands.
type appEnv struct {
	Store    store.Store
	Registry *registry.Registry
	Bridge   *bridge.Bridge
}

// Close releases resources held by the environment.
func (e *appEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initEnv sets up the store, registers the built-in connectors, and builds
// the registry and bridge. Callers should defer env.Close().
func initEnv(ctx context.Context) (*appEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	var opts []connector.Option
	if cfg.Registry.FallbackDataFile != "" {
		fp, err := connector.LoadFallbackFile(cfg.Registry.FallbackDataFile)
		if err != nil {
			_ = st.Close()
			return nil, err
		}
		opts = append(opts, connector.WithFallbackProvider(fp))
	}

	reg := registry.New(cfg.Registry,
		connector.NewMetaAds(st, opts...),
		connector.NewGoogleAds(st, opts...),
		connector.NewGoogleAnalytics(st, opts...),
		connector.NewShopify(st, opts...),
		connector.NewLinkedInAds(st, opts...),
		connector.NewMailchimp(st, opts...),
	)

	if cfg.Registry.RelevanceKeywordFile != "" {
		keywords, err := registry.LoadKeywordFile(cfg.Registry.RelevanceKeywordFile)
		if err != nil {
			_ = st.Close()
			return nil, err
		}
		reg.WithKeywords(keywords)
	}

	return &appEnv{
		Store:    st,
		Registry: reg,
		Bridge:   bridge.New(st, nil),
	}, nil
}

// initStore opens the configured database backend.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		st, err := store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
		if err != nil {
			return nil, eris.Wrap(err, "open postgres store")
		}
		return st, nil
	case "sqlite", "":
		st, err := store.NewSQLite(cfg.Store.DatabaseURL)
		if err != nil {
			return nil, eris.Wrap(err, "open sqlite store")
		}
		return st, nil
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
