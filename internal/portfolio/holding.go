// Package portfolio owns the position ledger: per-instrument holdings, the
// cash ledger, and the fill-application bookkeeping that keeps them
// consistent.
package portfolio

import (
	"math"
	"sync"
	"time"
)

// Holding is one instrument's position. AveragePrice is undefined while
// Quantity is zero and must not be read then. Holdings are created lazily on
// first fill and never deleted.
type Holding struct {
	Symbol          string  `json:"symbol"`
	Quantity        float64 `json:"quantity"`
	AveragePrice    float64 `json:"average_price"`
	RealizedProfit  float64 `json:"realized_profit"`
	TotalFees       float64 `json:"total_fees"`
	TotalSaleVolume float64 `json:"total_sale_volume"`
	LastTradeProfit float64 `json:"last_trade_profit"`
}

// UnrealizedProfit values the open position against price.
func (h *Holding) UnrealizedProfit(price, multiplier float64) float64 {
	if h.Quantity == 0 || price <= 0 {
		return 0
	}
	return (price - h.AveragePrice) * h.Quantity * multiplier
}

// AbsCost is the unleveraged absolute cost basis of the open position.
func (h *Holding) AbsCost(multiplier float64) float64 {
	return math.Abs(h.Quantity) * h.AveragePrice * multiplier
}

// CashLedger maps currency codes to balances.
type CashLedger struct {
	mu       sync.RWMutex
	balances map[string]float64
}

func NewCashLedger() *CashLedger {
	return &CashLedger{balances: make(map[string]float64)}
}

func (l *CashLedger) Deposit(currency string, amount float64) {
	l.mu.Lock()
	l.balances[currency] += amount
	l.mu.Unlock()
}

func (l *CashLedger) Balance(currency string) float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[currency]
}

func (l *CashLedger) Balances() map[string]float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]float64, len(l.balances))
	for k, v := range l.balances {
		out[k] = v
	}
	return out
}

// Transaction is one closing trade's net result after fees.
type Transaction struct {
	Symbol    string    `json:"symbol"`
	NetProfit float64   `json:"net_profit"`
	Time      time.Time `json:"time"`
}
