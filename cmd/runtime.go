package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/zjrosen/strata/internal/asset"
	"github.com/zjrosen/strata/internal/catalog"
	"github.com/zjrosen/strata/internal/catalog/sqlite"
	"github.com/zjrosen/strata/internal/config"
	"github.com/zjrosen/strata/internal/flags"
	"github.com/zjrosen/strata/internal/log"
	"github.com/zjrosen/strata/internal/panel"
	"github.com/zjrosen/strata/internal/panels"
	"github.com/zjrosen/strata/internal/pubsub"
	"github.com/zjrosen/strata/internal/tracing"
	"github.com/zjrosen/strata/internal/uimanager"
	"github.com/zjrosen/strata/internal/watcher"
)

type runtimeOptions struct {
	watch bool
}

// runtime owns everything the host needs: the catalog, the loader, the
// manager and its collaborators.
type runtime struct {
	store   catalog.Store
	memory  *catalog.Memory
	db      *sqlite.Store
	loader  *asset.CatalogLoader
	tracing *tracing.Provider
	flags   *flags.Registry
	events  *pubsub.Broker[uimanager.Event]
	manager *uimanager.Manager
	watcher *watcher.Watcher
	watch   <-chan struct{}

	manifestDir string
}

func newRuntime(ctx context.Context, c config.Config, opts runtimeOptions) (*runtime, error) {
	rt := &runtime{
		flags:       flags.New(c.Flags),
		events:      pubsub.NewBroker[uimanager.Event](),
		manifestDir: c.Catalog.ManifestDir,
	}

	if err := rt.openCatalog(c.Catalog); err != nil {
		rt.events.Close()
		return nil, err
	}

	tp, err := tracing.NewProvider(c.Tracing)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("initializing tracing: %w", err)
	}
	rt.tracing = tp

	rt.loader = asset.NewCatalogLoader(rt.store, panels.NewKinds().Resource,
		asset.WithLatency(c.Loader.Latency),
		asset.WithDefinitionTTL(c.Loader.DefinitionTTL),
		asset.WithSlidingTTL(c.Loader.SlidingTTL),
	)

	rt.manager = uimanager.New(rt.loader,
		uimanager.WithContext(ctx),
		uimanager.WithBroker(rt.events),
		uimanager.WithTracer(tp.Tracer()),
		uimanager.WithFlags(rt.flags),
		uimanager.WithStrictInvariants(c.Strict),
	)

	preload := make([]panel.Address, len(c.Preload))
	for i, a := range c.Preload {
		preload[i] = panel.Address(a)
	}
	if err := rt.manager.Initialize(c.Layers, preload...); err != nil {
		_ = rt.Close(ctx)
		return nil, err
	}

	if opts.watch && rt.memory != nil {
		rt.startWatcher()
	}
	return rt, nil
}

func (rt *runtime) openCatalog(c config.CatalogConfig) error {
	if c.Backend == config.BackendSQLite {
		db, err := sqlite.Open(c.SQLitePath)
		if err != nil {
			return fmt.Errorf("opening catalog database: %w", err)
		}
		rt.db = db
		rt.store = db
		return nil
	}

	defs, err := loadManifests(c.ManifestDir)
	if err != nil {
		return err
	}
	rt.memory = catalog.NewMemory(defs...)
	rt.store = rt.memory
	log.Info(log.CatCatalog, "catalog loaded", "backend", config.BackendManifest, "panels", len(defs))
	return nil
}

// startWatcher reloads manifests on change. The app works without it, so
// failures are logged and ignored.
func (rt *runtime) startWatcher() {
	w, err := watcher.New(watcher.DefaultConfig(rt.manifestDir))
	if err != nil {
		log.Warn(log.CatWatcher, "manifest watcher unavailable", "error", err)
		return
	}
	ch, err := w.Start()
	if err != nil {
		_ = w.Stop()
		log.Warn(log.CatWatcher, "manifest watcher unavailable", "error", err)
		return
	}
	rt.watcher = w
	rt.watch = ch
}

// Reload re-reads the catalog and drops cached definitions so the next load
// sees the new content. Panels already loaded keep their prefab.
func (rt *runtime) Reload(ctx context.Context) (int, error) {
	if rt.memory != nil {
		defs, err := loadManifests(rt.manifestDir)
		if err != nil {
			return 0, err
		}
		rt.memory.Replace(defs)
	}
	if err := rt.loader.Invalidate(ctx); err != nil {
		return 0, fmt.Errorf("invalidating definitions: %w", err)
	}
	defs, err := rt.store.List(ctx)
	if err != nil {
		return 0, err
	}
	log.Info(log.CatCatalog, "catalog reloaded", "panels", len(defs))
	return len(defs), nil
}

// Close shuts everything down in reverse order of creation.
func (rt *runtime) Close(ctx context.Context) error {
	var errs []error
	if rt.watcher != nil {
		errs = append(errs, rt.watcher.Stop())
	}
	if rt.manager != nil {
		rt.manager.Shutdown()
	}
	if rt.tracing != nil {
		errs = append(errs, rt.tracing.Shutdown(ctx))
	}
	if rt.db != nil {
		errs = append(errs, rt.db.Close())
	}
	rt.events.Close()
	return errors.Join(errs...)
}

// loadManifests merges user manifests from dir over the builtin catalog.
func loadManifests(dir string) ([]catalog.Definition, error) {
	builtin, err := catalog.LoadBuiltin()
	if err != nil {
		return nil, fmt.Errorf("loading builtin panels: %w", err)
	}
	user, err := catalog.LoadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("loading manifests from %s: %w", dir, err)
	}
	return catalog.Merge(builtin, user), nil
}
