package types

import "time"

// FillEvent is produced exactly once per admissible fill attempt. A no-fill
// outcome carries zero quantity and leaves the order status untouched.
type FillEvent struct {
	OrderID  string      `json:"order_id"`
	Symbol   string      `json:"symbol"`
	Quantity float64     `json:"quantity"`
	Price    float64     `json:"price"`
	Status   OrderStatus `json:"status"`
	Fee      float64     `json:"fee"`
	Time     time.Time   `json:"time"`
}

// NoFill builds the defined zero-quantity outcome for an order.
func NoFill(o *Order, at time.Time) FillEvent {
	return FillEvent{
		OrderID: o.ID,
		Symbol:  o.Symbol,
		Status:  o.Status,
		Time:    at,
	}
}

// Filled reports whether the event transacted any quantity.
func (f FillEvent) Filled() bool {
	return f.Quantity != 0
}
