// Package app wires configuration into the running simulator: the engine,
// the replay feed, the recorder and the inspection API.
package app

import (
	"context"
	"errors"
	"fmt"

	brcfg "simbroker/internal/config"
	"simbroker/internal/config/loader"
	"simbroker/internal/contract"
	"simbroker/internal/engine"
	"simbroker/internal/logger"
	"simbroker/internal/market"
	"simbroker/internal/store/sqlite"
	httpapi "simbroker/internal/transport/http"

	"golang.org/x/sync/errgroup"
)

type App struct {
	cfg      *brcfg.Config
	engine   *engine.Engine
	cache    *market.Cache
	registry *contract.Registry
	store    *sqlite.Store
	api      *httpapi.Server
	replay   *market.ReplaySource
	watcher  *loader.Watcher
}

// NewApp builds the application object graph without starting anything.
func NewApp(cfg *brcfg.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	logger.SetLevel(cfg.App.LogLevel)
	return NewBuilder(cfg).Build()
}

// Engine exposes the account engine for order entry by the host.
func (a *App) Engine() *engine.Engine {
	return a.engine
}

// Cache exposes the snapshot cache for external data feeds.
func (a *App) Cache() *market.Cache {
	return a.cache
}

// Registry exposes the contract specification registry.
func (a *App) Registry() *contract.Registry {
	return a.registry
}

// Run starts the overrides watcher, HTTP API and replay feed, and blocks
// until the feed completes or ctx is canceled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.cfg == nil {
		return fmt.Errorf("app not initialized")
	}
	if a.watcher != nil {
		if err := a.watcher.Start(); err != nil {
			return err
		}
		defer a.watcher.Stop()
	}
	if a.store != nil {
		defer a.store.Close()
	}

	group, ctx := errgroup.WithContext(ctx)
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.api != nil {
		group.Go(func() error {
			if err := a.api.Start(runCtx); err != nil {
				return fmt.Errorf("http api error: %w", err)
			}
			return nil
		})
	}

	if a.replay != nil {
		group.Go(func() error {
			defer cancel()
			err := a.replay.Run(runCtx, func(symbol string, snap *market.Snapshot) {
				a.engine.OnSnapshot(runCtx, symbol, snap)
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("replay feed error: %w", err)
			}
			logger.Infof("replay feed complete")
			return nil
		})
	} else {
		logger.Infof("no replay feed configured; serving api only")
	}

	return group.Wait()
}
