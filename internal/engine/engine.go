// Package engine runs one account's event timeline: order admission against
// the margin model, fill attempts against published snapshots, and ledger
// mutation through the accounting model, strictly in event order.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"simbroker/internal/fees"
	"simbroker/internal/fill"
	"simbroker/internal/logger"
	"simbroker/internal/margin"
	"simbroker/internal/market"
	"simbroker/internal/portfolio"
	"simbroker/internal/types"
)

// Recorder persists the engine's outputs. A nil recorder disables
// persistence; the core never requires it.
type Recorder interface {
	RecordOrder(ctx context.Context, o *types.Order) error
	RecordFill(ctx context.Context, f types.FillEvent) error
	RecordTransaction(ctx context.Context, tx portfolio.Transaction) error
	RecordEquityPoint(ctx context.Context, p EquityPoint) error
}

// EquityPoint is one mark of the account value over time.
type EquityPoint struct {
	Time       time.Time `json:"time"`
	Equity     float64   `json:"equity"`
	Cash       float64   `json:"cash"`
	MarginUsed float64   `json:"margin_used"`
}

// Admission is the result of submitting an order.
type Admission struct {
	OrderID         string  `json:"order_id"`
	Approved        bool    `json:"approved"`
	Reason          string  `json:"reason,omitempty"`
	InitialMargin   float64 `json:"initial_margin"`
	MarginRemaining float64 `json:"margin_remaining"`
}

// AccountView is a read-only summary for inspection surfaces.
type AccountView struct {
	Currency       string  `json:"currency"`
	Cash           float64 `json:"cash"`
	NetLiquidation float64 `json:"net_liquidation"`
	MarginUsed     float64 `json:"margin_used"`
}

type Config struct {
	Instruments  map[string]*types.Instrument
	Fees         fees.Table
	Currency     string
	StartingCash float64
	Cache        *market.Cache
	Recorder     Recorder
}

// Engine owns the account context. All state mutation happens under one
// mutex: the event flow itself is sequential, the lock only serializes
// read-only inspection against it.
type Engine struct {
	mu sync.Mutex

	instruments map[string]*types.Instrument
	cache       *market.Cache
	recorder    Recorder
	currency    string

	fillModel   *fill.Model
	marginModel *margin.Model
	acctModel   *portfolio.Model

	cash     *portfolio.CashLedger
	holdings map[string]*portfolio.Holding

	pending   []*types.Order
	ordersAll []*types.Order
}

func New(cfg Config) (*Engine, error) {
	if len(cfg.Instruments) == 0 {
		return nil, errors.New("engine requires at least one instrument")
	}
	if cfg.Cache == nil {
		return nil, errors.New("engine requires a snapshot cache")
	}
	if cfg.Currency == "" {
		cfg.Currency = "USD"
	}
	if cfg.Fees == nil {
		cfg.Fees = fees.DefaultTable()
	}
	cash := portfolio.NewCashLedger()
	cash.Deposit(cfg.Currency, cfg.StartingCash)
	return &Engine{
		instruments: cfg.Instruments,
		cache:       cfg.Cache,
		recorder:    cfg.Recorder,
		currency:    cfg.Currency,
		fillModel:   fill.NewModel(),
		marginModel: margin.NewModel(cfg.Fees),
		acctModel:   portfolio.NewModel(cfg.Fees, cfg.Currency),
		cash:        cash,
		holdings:    make(map[string]*portfolio.Holding),
	}, nil
}

// SubmitOrder runs margin admission. Approved orders wait in the pending
// book for the next snapshot; rejected ones terminate as Invalid.
func (e *Engine) SubmitOrder(ctx context.Context, o *types.Order) (Admission, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	inst, ok := e.instruments[o.Symbol]
	if !ok {
		return Admission{}, fmt.Errorf("%w: %s", types.ErrUnknownSymbol, o.Symbol)
	}
	if o.Quantity == 0 {
		return Admission{}, fmt.Errorf("order %s has zero quantity", o.ID)
	}

	price := e.cache.Get(o.Symbol).Price()
	initial := e.marginModel.InitialMargin(inst, o, price)
	remaining := e.marginModel.MarginRemaining(e.fundsLocked(), e.exposureLocked(inst), inst, o.Quantity)

	adm := Admission{OrderID: o.ID, InitialMargin: initial, MarginRemaining: remaining}
	e.ordersAll = append(e.ordersAll, o)
	if initial > remaining {
		adm.Reason = fmt.Sprintf("initial margin %.2f exceeds remaining %.2f", initial, remaining)
		o.Reason = adm.Reason
		o.TransitionTo(types.OrderStatusInvalid)
		e.recordOrder(ctx, o)
		return adm, nil
	}
	adm.Approved = true
	e.pending = append(e.pending, o)
	e.recordOrder(ctx, o)
	return adm, nil
}

// CancelOrder transitions a pending order to Canceled. Terminal orders
// cannot be canceled.
func (e *Engine) CancelOrder(ctx context.Context, orderID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, o := range e.pending {
		if o.ID != orderID {
			continue
		}
		if !o.TransitionTo(types.OrderStatusCanceled) {
			return fmt.Errorf("order %s is already %s", orderID, o.Status)
		}
		e.recordOrder(ctx, o)
		return nil
	}
	return fmt.Errorf("order %s is not pending", orderID)
}

// OnSnapshot attempts fills for every pending order of the symbol, applies
// the results, then sweeps for margin calls and marks the equity curve.
func (e *Engine) OnSnapshot(ctx context.Context, symbol string, snap *market.Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()

	inst, ok := e.instruments[symbol]
	if !ok || snap == nil {
		return
	}
	now := snap.UpdatedAt

	kept := e.pending[:0]
	for _, o := range e.pending {
		if o.Status.Terminal() {
			continue
		}
		if o.Symbol != symbol {
			kept = append(kept, o)
			continue
		}
		ev := e.fillModel.TryFill(o, inst, snap, now)
		if !ev.Filled() {
			kept = append(kept, o)
			continue
		}
		e.applyLocked(ctx, inst, &ev)
		e.recordOrder(ctx, o)
	}
	e.pending = kept

	e.sweepMarginCallsLocked(ctx, now)
	e.markEquityLocked(ctx, now)
}

// applyLocked routes a fill through accounting; anomalies are logged and the
// fill is dropped without touching the ledger.
func (e *Engine) applyLocked(ctx context.Context, inst *types.Instrument, ev *types.FillEvent) {
	h := e.holdingLocked(inst.Symbol)
	txBefore := e.acctModel.TransactionCount()
	if err := e.acctModel.ApplyFill(e.cash, h, inst, ev); err != nil {
		var anomaly *portfolio.AnomalyError
		if errors.As(err, &anomaly) {
			logger.Warnf("dropping fill for %s: %v", ev.Symbol, anomaly)
			return
		}
		logger.Errorf("fill application failed for %s: %v", ev.Symbol, err)
		return
	}
	e.recordFill(ctx, *ev)
	if tx, ok := e.acctModel.LastTransaction(); ok && e.acctModel.TransactionCount() > txBefore {
		if e.recorder != nil {
			if err := e.recorder.RecordTransaction(ctx, tx); err != nil {
				logger.Debugf("transaction record failed: %v", err)
			}
		}
	}
}

// sweepMarginCallsLocked liquidates holdings while maintenance margin in use
// exceeds net liquidation value. Synthesized orders bypass admission and
// fill against the current snapshot.
func (e *Engine) sweepMarginCallsLocked(ctx context.Context, now time.Time) {
	for symbol, h := range e.holdings {
		if h.Quantity == 0 {
			continue
		}
		inst := e.instruments[symbol]
		if inst == nil {
			continue
		}
		// Recomputed per holding: an earlier liquidation in this sweep
		// frees margin and moves cash, which changes how much the next
		// holding has to shed.
		funds := e.fundsLocked()
		o := e.marginModel.MarginCallOrder(inst, h.Quantity, funds.NetLiquidation, funds.MarginUsed, now)
		if o == nil {
			continue
		}
		logger.Warnf("margin call on %s: liquidating %.0f units", symbol, o.AbsQuantity())
		snap := e.cache.Get(symbol)
		ev := e.fillModel.TryFill(o, inst, snap, now)
		e.ordersAll = append(e.ordersAll, o)
		e.recordOrder(ctx, o)
		if ev.Filled() {
			e.applyLocked(ctx, inst, &ev)
		}
	}
}

func (e *Engine) markEquityLocked(ctx context.Context, now time.Time) {
	funds := e.fundsLocked()
	point := EquityPoint{
		Time:       now,
		Equity:     funds.NetLiquidation,
		Cash:       e.cash.Balance(e.currency),
		MarginUsed: funds.MarginUsed,
	}
	if e.recorder != nil {
		if err := e.recorder.RecordEquityPoint(ctx, point); err != nil {
			logger.Debugf("equity point record failed: %v", err)
		}
	}
}

func (e *Engine) holdingLocked(symbol string) *portfolio.Holding {
	h, ok := e.holdings[symbol]
	if !ok {
		h = &portfolio.Holding{Symbol: symbol}
		e.holdings[symbol] = h
	}
	return h
}

// fundsLocked values the account at current snapshot prices. Closing a
// position frees its reserved maintenance margin back to cash and realizes
// the current unrealized result, so net liquidation is cash plus both.
func (e *Engine) fundsLocked() margin.Funds {
	netLiq := e.cash.Balance(e.currency)
	used := 0.0
	for symbol, h := range e.holdings {
		inst := e.instruments[symbol]
		if inst == nil || h.Quantity == 0 {
			continue
		}
		netLiq += h.UnrealizedProfit(e.cache.Get(symbol).Price(), inst.Multiplier)
		used += e.marginModel.MaintenanceMargin(inst, h.Quantity)
	}
	return margin.Funds{NetLiquidation: netLiq + used, MarginUsed: used}
}

func (e *Engine) exposureLocked(inst *types.Instrument) margin.Exposure {
	h, ok := e.holdings[inst.Symbol]
	if !ok || h.Quantity == 0 {
		return margin.Exposure{}
	}
	return margin.Exposure{
		Quantity:     h.Quantity,
		AveragePrice: h.AveragePrice,
		UnrealizedPL: h.UnrealizedProfit(e.cache.Get(inst.Symbol).Price(), inst.Multiplier),
	}
}

func (e *Engine) recordOrder(ctx context.Context, o *types.Order) {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.RecordOrder(ctx, o); err != nil {
		logger.Debugf("order record failed: %v", err)
	}
}

func (e *Engine) recordFill(ctx context.Context, ev types.FillEvent) {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.RecordFill(ctx, ev); err != nil {
		logger.Debugf("fill record failed: %v", err)
	}
}

// UpdateMarginTier applies a margin tier revision from config hot reload.
func (e *Engine) UpdateMarginTier(symbol string, tier types.MarginTier) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	inst, ok := e.instruments[symbol]
	if !ok {
		return fmt.Errorf("%w: %s", types.ErrUnknownSymbol, symbol)
	}
	inst.Tier = tier
	return nil
}

// Account returns the current account summary.
func (e *Engine) Account() AccountView {
	e.mu.Lock()
	defer e.mu.Unlock()
	funds := e.fundsLocked()
	return AccountView{
		Currency:       e.currency,
		Cash:           e.cash.Balance(e.currency),
		NetLiquidation: funds.NetLiquidation,
		MarginUsed:     funds.MarginUsed,
	}
}

// Holdings returns value copies of every holding.
func (e *Engine) Holdings() []portfolio.Holding {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]portfolio.Holding, 0, len(e.holdings))
	for _, h := range e.holdings {
		out = append(out, *h)
	}
	return out
}

// Orders returns value copies of every order seen, in submission order.
func (e *Engine) Orders() []types.Order {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]types.Order, 0, len(e.ordersAll))
	for _, o := range e.ordersAll {
		out = append(out, *o)
	}
	return out
}

// Transactions returns the closing-trade ledger.
func (e *Engine) Transactions() []portfolio.Transaction {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.acctModel.Transactions()
}
