// Package fill decides whether, how and at what price an order transacts
// against the latest market snapshot. Prices are always the worst attainable
// case for the simulated strategy within the current bar.
package fill

import (
	"math"
	"time"

	"simbroker/internal/market"
	"simbroker/internal/types"
)

// Model is stateless; one instance serves every instrument.
type Model struct{}

func NewModel() *Model {
	return &Model{}
}

// TryFill evaluates one fill attempt. It never returns an error: missing
// snapshot data yields the zero-quantity outcome with the order status
// untouched. A successful fill is all-or-nothing, sets the terminal Filled
// status and carries the order's full signed quantity.
func (m *Model) TryFill(o *types.Order, inst *types.Instrument, snap *market.Snapshot, now time.Time) types.FillEvent {
	if o == nil || o.Status.Terminal() || o.Quantity == 0 {
		return noFillAt(o, now)
	}
	if snap == nil || snap.Price() <= 0 {
		return types.NoFill(o, now)
	}

	var price float64
	var ok bool
	switch o.Kind {
	case types.OrderKindMarket:
		price, ok = snap.Price(), true
	case types.OrderKindLimit:
		price, ok = limitFill(o, snap)
	case types.OrderKindStopMarket:
		price, ok = stopMarketFill(o, snap)
	case types.OrderKindStopLimit:
		price, ok = stopLimitFill(o, snap)
	case types.OrderKindMarketOnOpen:
		price, ok = marketOnOpenFill(o, inst, snap, now)
	case types.OrderKindMarketOnClose:
		price, ok = marketOnCloseFill(o, inst, snap, now)
	default:
		return types.NoFill(o, now)
	}
	if !ok || price <= 0 {
		return types.NoFill(o, now)
	}

	o.TransitionTo(types.OrderStatusFilled)
	return types.FillEvent{
		OrderID:  o.ID,
		Symbol:   o.Symbol,
		Quantity: o.Quantity,
		Price:    price,
		Status:   o.Status,
		Time:     now,
	}
}

// limitFill: a buy transacts when the bar traded at or below the limit, a
// sell when it traded at or above; the granted price is capped at the bar
// extreme so gaps through the limit fill at the worse bar boundary.
func limitFill(o *types.Order, snap *market.Snapshot) (float64, bool) {
	bar := snap.Bar
	if bar == nil || o.LimitPrice <= 0 {
		return 0, false
	}
	if o.Direction() > 0 {
		if decimalLTE(bar.Low, o.LimitPrice) {
			return math.Min(o.LimitPrice, bar.High), true
		}
		return 0, false
	}
	if decimalGTE(bar.High, o.LimitPrice) {
		return math.Max(o.LimitPrice, bar.Low), true
	}
	return 0, false
}

// stopMarketFill: once the stop triggers, the fill price is the worse of the
// stop and the current price.
func stopMarketFill(o *types.Order, snap *market.Snapshot) (float64, bool) {
	price := snap.Price()
	if o.StopPrice <= 0 || price <= 0 {
		return 0, false
	}
	if o.Direction() > 0 {
		if decimalGTE(price, o.StopPrice) {
			return math.Max(price, o.StopPrice), true
		}
		return 0, false
	}
	if decimalLTE(price, o.StopPrice) {
		return math.Min(price, o.StopPrice), true
	}
	return 0, false
}

// stopLimitFill requires the stop to trigger and the price to sit inside the
// limit envelope in the same attempt; it then fills at the limit price.
// The trigger is re-evaluated from scratch on every attempt and never
// latched, so a bar that breaches the stop but overshoots the limit leaves
// the order waiting as if the stop had never fired.
func stopLimitFill(o *types.Order, snap *market.Snapshot) (float64, bool) {
	price := snap.Price()
	if o.StopPrice <= 0 || o.LimitPrice <= 0 || price <= 0 {
		return 0, false
	}
	if o.Direction() > 0 {
		if decimalGTE(price, o.StopPrice) && decimalLTE(price, o.LimitPrice) {
			return o.LimitPrice, true
		}
		return 0, false
	}
	if decimalLTE(price, o.StopPrice) && decimalGTE(price, o.LimitPrice) {
		return o.LimitPrice, true
	}
	return 0, false
}

// marketOnOpenFill waits for the first session open after order creation and
// fills at that bar's open.
func marketOnOpenFill(o *types.Order, inst *types.Instrument, snap *market.Snapshot, now time.Time) (float64, bool) {
	if inst == nil || inst.Hours == nil || snap.Bar == nil {
		return 0, false
	}
	open := inst.Hours.NextOpen(o.CreatedAt)
	if open.IsZero() || now.Before(open) {
		return 0, false
	}
	return snap.Bar.Open, true
}

// marketOnCloseFill waits for the close of the order's session and fills at
// that bar's close.
func marketOnCloseFill(o *types.Order, inst *types.Instrument, snap *market.Snapshot, now time.Time) (float64, bool) {
	if inst == nil || inst.Hours == nil || snap.Bar == nil {
		return 0, false
	}
	closeAt := inst.Hours.NextClose(o.CreatedAt)
	if closeAt.IsZero() || now.Before(closeAt) {
		return 0, false
	}
	return snap.Bar.Close, true
}

func noFillAt(o *types.Order, at time.Time) types.FillEvent {
	if o == nil {
		return types.FillEvent{Time: at}
	}
	return types.NoFill(o, at)
}
