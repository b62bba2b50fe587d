// Package market holds the per-instrument market snapshot cache and the
// replay source that feeds it during simulations.
package market

import "time"

// Bar is one aggregated trade bar. Invariant: High >= Open, Close, Low and
// Low <= Open, Close.
type Bar struct {
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
	Time   time.Time `json:"time"`
}

// Valid reports whether the OHLC ordering invariant holds.
func (b Bar) Valid() bool {
	if b.High < b.Open || b.High < b.Close || b.High < b.Low {
		return false
	}
	if b.Low > b.Open || b.Low > b.Close {
		return false
	}
	return true
}

// Snapshot is the latest observed market state for one instrument. It is
// written only by the data feed and read without locking by the models; the
// feed publishes whole snapshots, never partial updates.
type Snapshot struct {
	LastPrice float64   `json:"last_price"`
	Bar       *Bar      `json:"bar,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Price returns the best-known current price: the last trade, falling back
// to the bar close. Zero means no data.
func (s *Snapshot) Price() float64 {
	if s == nil {
		return 0
	}
	if s.LastPrice > 0 {
		return s.LastPrice
	}
	if s.Bar != nil {
		return s.Bar.Close
	}
	return 0
}

// Clone returns an independent value copy, including the bar.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := *s
	if s.Bar != nil {
		bar := *s.Bar
		out.Bar = &bar
	}
	return &out
}
