package app

import (
	"fmt"
	"strings"
	"time"

	"simbroker/internal/calendar"
	brcfg "simbroker/internal/config"
	"simbroker/internal/config/loader"
	"simbroker/internal/contract"
	"simbroker/internal/engine"
	"simbroker/internal/fees"
	"simbroker/internal/logger"
	"simbroker/internal/market"
	"simbroker/internal/store/sqlite"
	httpapi "simbroker/internal/transport/http"
	"simbroker/internal/types"
)

// Builder assembles the application object graph from config: calendars,
// instruments, the contract registry, the engine and its ambient services.
type Builder struct {
	cfg *brcfg.Config
}

func NewBuilder(cfg *brcfg.Config) *Builder {
	return &Builder{cfg: cfg}
}

func (b *Builder) Build() (*App, error) {
	cfg := b.cfg
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}

	overrides, watcher, err := b.buildOverrides()
	if err != nil {
		return nil, err
	}

	calendars, err := b.buildCalendars(overrides)
	if err != nil {
		return nil, err
	}
	instruments, err := b.buildInstruments(calendars)
	if err != nil {
		return nil, err
	}
	registry, err := b.buildRegistry(calendars, overrides)
	if err != nil {
		return nil, err
	}

	feeTable := fees.Table{
		types.AssetClassEquity: fees.EquityFee{
			RateBps: cfg.Fees.Equity.RateBps,
			Minimum: cfg.Fees.Equity.Minimum,
		},
		types.AssetClassFuture: fees.FutureFee{
			BrokeragePerContract: cfg.Fees.Future.BrokeragePerContract,
			ExchangePerContract:  cfg.Fees.Future.ExchangePerContract,
		},
	}

	cache := market.NewCache()

	var recorder engine.Recorder
	var st *sqlite.Store
	if cfg.Store.Enabled {
		st, err = sqlite.NewStore(cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("opening store failed: %w", err)
		}
		recorder = st
	}

	eng, err := engine.New(engine.Config{
		Instruments:  instruments,
		Fees:         feeTable,
		Currency:     cfg.Account.Currency,
		StartingCash: cfg.Account.StartingCash,
		Cache:        cache,
		Recorder:     recorder,
	})
	if err != nil {
		return nil, err
	}

	if watcher != nil {
		watcher.Subscribe(func(o loader.Overrides) {
			for symbol, tier := range o.MarginTiers {
				symbol = strings.ToUpper(symbol)
				err := eng.UpdateMarginTier(symbol, types.MarginTier{
					InitialPerUnit:     tier.InitialPerUnit,
					MaintenancePerUnit: tier.MaintenancePerUnit,
				})
				if err != nil {
					logger.Warnf("margin tier override for %s skipped: %v", symbol, err)
				}
			}
			for _, dates := range o.Holidays {
				registry.AddHolidays(dates)
			}
		})
	}

	var api *httpapi.Server
	if cfg.HTTP.Enabled {
		api, err = httpapi.NewServer(httpapi.Config{Addr: cfg.HTTP.Addr, Engine: eng, Store: st})
		if err != nil {
			return nil, err
		}
	}

	var replay *market.ReplaySource
	if cfg.Replay.Path != "" {
		replay = market.NewReplaySource(cfg.Replay.Path, cache)
	}

	return &App{
		cfg:      cfg,
		engine:   eng,
		cache:    cache,
		registry: registry,
		store:    st,
		api:      api,
		replay:   replay,
		watcher:  watcher,
	}, nil
}

func (b *Builder) buildOverrides() (loader.Overrides, *loader.Watcher, error) {
	path := strings.TrimSpace(b.cfg.Overrides.Path)
	if path == "" {
		return loader.Overrides{}, nil, nil
	}
	watcher, err := loader.NewWatcher(path)
	if err != nil {
		return loader.Overrides{}, nil, fmt.Errorf("loading overrides failed: %w", err)
	}
	return watcher.Current(), watcher, nil
}

func (b *Builder) buildCalendars(overrides loader.Overrides) (map[string]*calendar.Hours, error) {
	out := make(map[string]*calendar.Hours, len(b.cfg.Calendars))
	for _, cc := range b.cfg.Calendars {
		loc := time.UTC
		if cc.Timezone != "" {
			parsed, err := time.LoadLocation(cc.Timezone)
			if err != nil {
				return nil, fmt.Errorf("calendar %s: %w", cc.Name, err)
			}
			loc = parsed
		}
		var hours *calendar.Hours
		switch strings.ToLower(cc.Preset) {
		case "futures24":
			hours = calendar.Futures24(loc, cc.Holidays)
		default:
			hours = calendar.Equity(loc, cc.Holidays)
		}
		if extra, ok := overrides.Holidays[cc.Name]; ok {
			hours.AddHolidays(extra)
		}
		out[cc.Name] = hours
	}
	return out, nil
}

func (b *Builder) buildInstruments(calendars map[string]*calendar.Hours) (map[string]*types.Instrument, error) {
	out := make(map[string]*types.Instrument, len(b.cfg.Instruments))
	for _, ic := range b.cfg.Instruments {
		class, err := types.ParseAssetClass(ic.Class)
		if err != nil {
			return nil, err
		}
		hours := calendars[ic.Calendar]
		inst := types.NewInstrument(ic.Symbol, class, ic.Multiplier, ic.TickSize, types.MarginTier{
			InitialPerUnit:     ic.InitialPerUnit,
			MaintenancePerUnit: ic.MaintenancePerUnit,
		}, hours)
		if class == types.AssetClassEquity && ic.Leverage > 1 {
			if err := inst.SetLeverage(ic.Leverage); err != nil {
				return nil, err
			}
		}
		out[inst.Symbol] = inst
	}
	return out, nil
}

func (b *Builder) buildRegistry(calendars map[string]*calendar.Hours, overrides loader.Overrides) (*contract.Registry, error) {
	holidays := make([]string, 0)
	for _, cc := range b.cfg.Calendars {
		holidays = append(holidays, cc.Holidays...)
	}
	for _, extra := range overrides.Holidays {
		holidays = append(holidays, extra...)
	}
	registry := contract.NewRegistry(time.UTC, holidays)
	for _, ct := range b.cfg.Contracts {
		cycle, err := contract.ParseCycle(ct.Cycle)
		if err != nil {
			return nil, fmt.Errorf("contract %s: %w", ct.Symbol, err)
		}
		registry.Register(contract.Entry{
			Symbol:    ct.Symbol,
			Cycle:     cycle,
			EODOffset: time.Duration(ct.EODOffsetHours) * time.Hour,
		})
	}
	return registry, nil
}
