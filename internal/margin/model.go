// Package margin computes the collateral rules: initial margin for order
// admission, maintenance margin for open holdings, remaining capacity for a
// prospective order, and the forced liquidation order when an account
// breaches its margin.
package margin

import (
	"math"
	"time"

	"simbroker/internal/fees"
	"simbroker/internal/types"
)

// Funds is the account-level view the margin model needs: equity if all
// positions were closed now, and the maintenance margin already committed.
type Funds struct {
	NetLiquidation float64
	MarginUsed     float64
}

// Unused is the account margin not committed to existing holdings.
func (f Funds) Unused() float64 {
	return f.NetLiquidation - f.MarginUsed
}

// Exposure summarizes one holding for the remaining-margin computation.
type Exposure struct {
	Quantity     float64 // signed held quantity
	AveragePrice float64
	UnrealizedPL float64
}

type Model struct {
	fees fees.Table
}

func NewModel(feeTable fees.Table) *Model {
	return &Model{fees: feeTable}
}

// InitialMargin is the collateral needed to admit the order: size times the
// tier's initial per-unit requirement plus the estimated order fee.
func (m *Model) InitialMargin(inst *types.Instrument, o *types.Order, price float64) float64 {
	return o.AbsQuantity()*inst.Tier.InitialPerUnit + m.fees.Fee(inst, o.Quantity, price)
}

// MaintenanceMargin is the collateral needed to keep holding qty units.
func (m *Model) MaintenanceMargin(inst *types.Instrument, qty float64) float64 {
	return math.Abs(qty) * inst.Tier.MaintenancePerUnit
}

// MarginRemaining returns the margin available to a prospective order in the
// given direction. Orders trading back toward flat get the unused account
// margin in full; orders that grow or reverse exposure are instead granted
// twice the current exposure value (unrealized profit plus unlevered cost)
// on top of the unused margin, modelling worst-case intratrade risk.
func (m *Model) MarginRemaining(funds Funds, exp Exposure, inst *types.Instrument, orderQty float64) float64 {
	unused := funds.Unused()
	if exp.Quantity == 0 || orderQty == 0 {
		return unused
	}
	reducing := exp.Quantity*orderQty < 0 && math.Abs(orderQty) <= math.Abs(exp.Quantity)
	if reducing {
		return unused
	}
	cost := math.Abs(exp.Quantity) * exp.AveragePrice * inst.Multiplier / inst.Leverage()
	return 2*(exp.UnrealizedPL+cost) + unused
}

// MarginCallOrder synthesizes the liquidating order when the maintenance
// margin in use exceeds net liquidation value. It returns nil when the
// account is inside its bounds or flat. The liquidation size is the excess
// above the contract count sustainable at the initial rate, clamped to
// [1, |held|], with the sign flipped to close the position.
func (m *Model) MarginCallOrder(inst *types.Instrument, heldQty, netLiquidation, totalMarginUsed float64, now time.Time) *types.Order {
	if heldQty == 0 || totalMarginUsed <= netLiquidation {
		return nil
	}
	if inst.Tier.InitialPerUnit <= 0 {
		return nil
	}
	sustainable := math.Floor(netLiquidation / inst.Tier.InitialPerUnit)
	if sustainable < 0 {
		sustainable = 0
	}
	absHeld := math.Abs(heldQty)
	liquidate := absHeld - sustainable
	if liquidate < 1 {
		liquidate = 1
	}
	if liquidate > absHeld {
		liquidate = absHeld
	}
	direction := -1.0
	if heldQty < 0 {
		direction = 1.0
	}
	o := types.NewOrder(inst.Symbol, direction*liquidate, types.OrderKindMarket, now)
	o.Reason = "margin call"
	return o
}
