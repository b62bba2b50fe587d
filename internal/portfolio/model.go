package portfolio

import (
	"fmt"
	"math"

	"simbroker/internal/fees"
	"simbroker/internal/types"
)

// AnomalyError marks a fill whose application would violate an accounting
// invariant. The fill is dropped and no state is mutated; callers log and
// continue, so a bad event can never corrupt the ledger.
type AnomalyError struct {
	Symbol string
	Reason string
}

func (e *AnomalyError) Error() string {
	return fmt.Sprintf("accounting anomaly on %s: %s", e.Symbol, e.Reason)
}

// Model applies realized fills to holdings and cash. It is the only
// component with a fail-soft boundary.
type Model struct {
	fees     fees.Table
	currency string

	transactions []Transaction
}

func NewModel(feeTable fees.Table, currency string) *Model {
	return &Model{fees: feeTable, currency: currency}
}

// Transactions returns the closing-trade ledger in application order.
func (m *Model) Transactions() []Transaction {
	out := make([]Transaction, len(m.transactions))
	copy(out, m.transactions)
	return out
}

// TransactionCount avoids copying when only the length matters.
func (m *Model) TransactionCount() int {
	return len(m.transactions)
}

// LastTransaction returns the most recent closing-trade entry.
func (m *Model) LastTransaction() (Transaction, bool) {
	if len(m.transactions) == 0 {
		return Transaction{}, false
	}
	return m.transactions[len(m.transactions)-1], true
}

// ApplyFill mutates the holding and cash ledger for one fill. Zero-quantity
// fills are the defined no-op. All checks run before any mutation, so an
// AnomalyError leaves both targets untouched.
func (m *Model) ApplyFill(ledger *CashLedger, h *Holding, inst *types.Instrument, fill *types.FillEvent) error {
	if fill == nil || fill.Quantity == 0 {
		return nil
	}
	if err := m.checkFill(h, inst, fill); err != nil {
		return err
	}

	delta := fill.Quantity
	price := fill.Price
	mult := inst.Multiplier
	oldQty := h.Quantity
	newQty := oldQty + delta

	fee, err := m.feeFor(inst, delta, price)
	if err != nil {
		return err
	}

	closingQty := closingPortion(oldQty, delta)
	realized := 0.0
	if closingQty != 0 {
		realized = realizedProfit(h.AveragePrice, price, closingQty, mult)
	}

	switch {
	case oldQty == 0 || sameSign(oldQty, delta):
		// Extending (or opening): quantity-weighted cost basis.
		h.AveragePrice = weightedAverage(h.AveragePrice, oldQty, price, delta)
	case newQty != 0 && !sameSign(oldQty, newQty):
		// Direction flip: basis resets to the fill price for the new side.
		h.AveragePrice = price
	}
	// Pure close keeps the average price; at zero quantity it is undefined.

	fill.Fee = fee

	marginFreed := (math.Abs(oldQty) - math.Abs(newQty)) * inst.Tier.MaintenancePerUnit
	ledger.Deposit(m.currency, marginFreed+realized-fee)

	h.Symbol = inst.Symbol
	h.Quantity = newQty
	h.TotalFees += fee
	h.TotalSaleVolume += math.Abs(delta) * price * mult
	if closingQty != 0 {
		h.RealizedProfit += realized
		h.LastTradeProfit = realized
		m.transactions = append(m.transactions, Transaction{
			Symbol:    inst.Symbol,
			NetProfit: realized - fee,
			Time:      fill.Time,
		})
	}
	return nil
}

func (m *Model) checkFill(h *Holding, inst *types.Instrument, fill *types.FillEvent) error {
	if inst == nil {
		return &AnomalyError{Symbol: fill.Symbol, Reason: "nil instrument"}
	}
	if fill.Symbol != inst.Symbol {
		return &AnomalyError{
			Symbol: fill.Symbol,
			Reason: fmt.Sprintf("fill symbol does not match instrument %s", inst.Symbol),
		}
	}
	if h.Symbol != "" && h.Symbol != inst.Symbol {
		return &AnomalyError{
			Symbol: fill.Symbol,
			Reason: fmt.Sprintf("holding belongs to %s", h.Symbol),
		}
	}
	if fill.Price <= 0 {
		return &AnomalyError{Symbol: fill.Symbol, Reason: "non-positive fill price"}
	}
	return nil
}

func (m *Model) feeFor(inst *types.Instrument, qty, price float64) (float64, error) {
	if _, err := m.fees.For(inst); err != nil {
		return 0, &AnomalyError{Symbol: inst.Symbol, Reason: err.Error()}
	}
	return m.fees.Fee(inst, qty, price), nil
}

// closingPortion returns the signed part of delta that reduces the magnitude
// of oldQty: zero when extending or opening, all of delta on a partial or
// full close, and exactly -oldQty when the fill flips direction.
func closingPortion(oldQty, delta float64) float64 {
	if oldQty == 0 || sameSign(oldQty, delta) {
		return 0
	}
	if math.Abs(delta) <= math.Abs(oldQty) {
		return delta
	}
	return -oldQty
}

func sameSign(a, b float64) bool {
	return (a > 0 && b > 0) || (a < 0 && b < 0)
}
