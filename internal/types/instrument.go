// Package types holds the core trading data model shared by the fill, margin
// and accounting components.
package types

import (
	"fmt"
	"strings"

	"simbroker/internal/calendar"
)

type AssetClass string

const (
	AssetClassEquity AssetClass = "equity"
	AssetClassFuture AssetClass = "future"
)

func ParseAssetClass(s string) (AssetClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "equity", "stock":
		return AssetClassEquity, nil
	case "future", "futures":
		return AssetClassFuture, nil
	default:
		return "", fmt.Errorf("%w: asset class %q", ErrInvalidInstrumentType, s)
	}
}

// MarginTier is the per-unit collateral requirement for an instrument.
// For futures the unit is one contract; for equities one share.
type MarginTier struct {
	InitialPerUnit     float64 `json:"initial_per_unit"`
	MaintenancePerUnit float64 `json:"maintenance_per_unit"`
}

// Instrument describes one tradable symbol. It is immutable after
// construction except for Multiplier, which moves when a derivative contract
// rolls, and Leverage on asset classes that allow it.
type Instrument struct {
	Symbol     string          `json:"symbol"`
	Class      AssetClass      `json:"class"`
	Multiplier float64         `json:"multiplier"`
	TickSize   float64         `json:"tick_size"`
	Tier       MarginTier      `json:"tier"`
	Hours      *calendar.Hours `json:"-"`

	leverage float64
}

// NewInstrument builds an Instrument. Multiplier defaults to 1 and equity
// leverage to 1 when left zero. The calendar is shared, not owned.
func NewInstrument(symbol string, class AssetClass, multiplier, tick float64, tier MarginTier, hours *calendar.Hours) *Instrument {
	if multiplier <= 0 {
		multiplier = 1
	}
	return &Instrument{
		Symbol:     strings.ToUpper(strings.TrimSpace(symbol)),
		Class:      class,
		Multiplier: multiplier,
		TickSize:   tick,
		Tier:       tier,
		Hours:      hours,
		leverage:   1,
	}
}

func (i *Instrument) Leverage() float64 {
	if i.leverage <= 0 {
		return 1
	}
	return i.leverage
}

// SetLeverage adjusts buying-power leverage. Futures margin is fixed by the
// exchange tier, so the operation is rejected for them.
func (i *Instrument) SetLeverage(v float64) error {
	if i.Class == AssetClassFuture {
		return fmt.Errorf("%w: leverage is fixed by margin tier for %s", ErrUnsupportedOperation, i.Symbol)
	}
	if v < 1 {
		return fmt.Errorf("leverage must be >= 1, got %v", v)
	}
	i.leverage = v
	return nil
}

// SetMultiplier moves the contract multiplier on a roll. Only derivative
// instruments may be remultiplied.
func (i *Instrument) SetMultiplier(m float64) error {
	if i.Class != AssetClassFuture {
		return fmt.Errorf("%w: multiplier is fixed for %s", ErrUnsupportedOperation, i.Symbol)
	}
	if m <= 0 {
		return fmt.Errorf("multiplier must be positive, got %v", m)
	}
	i.Multiplier = m
	return nil
}
