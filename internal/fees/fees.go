// Package fees provides the per-asset-class fee policies consulted by the
// margin and accounting models.
package fees

import (
	"fmt"
	"math"

	"simbroker/internal/types"
)

// Policy computes the fee for transacting qty units at price. It must be a
// pure function.
type Policy interface {
	Fee(inst *types.Instrument, qty, price float64) float64
}

// FutureFee charges a flat brokerage plus exchange fee per contract.
type FutureFee struct {
	BrokeragePerContract float64
	ExchangePerContract  float64
}

func (f FutureFee) Fee(_ *types.Instrument, qty, _ float64) float64 {
	return math.Abs(qty) * (f.BrokeragePerContract + f.ExchangePerContract)
}

// EquityFee charges basis points of notional with a per-order minimum.
type EquityFee struct {
	RateBps float64
	Minimum float64
}

func (f EquityFee) Fee(inst *types.Instrument, qty, price float64) float64 {
	notional := math.Abs(qty) * price * inst.Multiplier
	fee := notional * f.RateBps / 10000
	if fee < f.Minimum {
		fee = f.Minimum
	}
	return fee
}

// Table is the closed capability table keyed by asset class.
type Table map[types.AssetClass]Policy

// DefaultTable mirrors common US retail fee schedules; config overrides it.
func DefaultTable() Table {
	return Table{
		types.AssetClassEquity: EquityFee{RateBps: 0.5, Minimum: 1},
		types.AssetClassFuture: FutureFee{BrokeragePerContract: 0.85, ExchangePerContract: 1.29},
	}
}

// For returns the policy for the instrument's class.
func (t Table) For(inst *types.Instrument) (Policy, error) {
	p, ok := t[inst.Class]
	if !ok {
		return nil, fmt.Errorf("%w: no fee policy for class %s", types.ErrInvalidInstrumentType, inst.Class)
	}
	return p, nil
}

// Fee is a convenience that returns zero for unknown classes; admission and
// accounting call For when the miss must surface.
func (t Table) Fee(inst *types.Instrument, qty, price float64) float64 {
	p, ok := t[inst.Class]
	if !ok {
		return 0
	}
	return p.Fee(inst, qty, price)
}
