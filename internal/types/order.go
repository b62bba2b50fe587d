package types

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

type OrderKind string

const (
	OrderKindMarket        OrderKind = "market"
	OrderKindLimit         OrderKind = "limit"
	OrderKindStopMarket    OrderKind = "stop_market"
	OrderKindStopLimit     OrderKind = "stop_limit"
	OrderKindMarketOnOpen  OrderKind = "market_on_open"
	OrderKindMarketOnClose OrderKind = "market_on_close"
)

type OrderStatus int

const (
	OrderStatusNew OrderStatus = iota
	OrderStatusPartiallyFilled
	OrderStatusFilled
	OrderStatusCanceled
	OrderStatusInvalid
)

func (s OrderStatus) String() string {
	switch s {
	case OrderStatusNew:
		return "new"
	case OrderStatusPartiallyFilled:
		return "partially_filled"
	case OrderStatusFilled:
		return "filled"
	case OrderStatusCanceled:
		return "canceled"
	case OrderStatusInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Terminal reports whether no further transition is allowed from s.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderStatusFilled, OrderStatusCanceled, OrderStatusInvalid:
		return true
	default:
		return false
	}
}

// Order is an immutable trade intent; only Status mutates, and only forward.
// Quantity is signed: positive buys, negative sells.
type Order struct {
	ID         string      `json:"id"`
	Symbol     string      `json:"symbol"`
	Quantity   float64     `json:"quantity"`
	Kind       OrderKind   `json:"kind"`
	LimitPrice float64     `json:"limit_price,omitempty"`
	StopPrice  float64     `json:"stop_price,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	Status     OrderStatus `json:"status"`
	Reason     string      `json:"reason,omitempty"`
}

func NewOrder(symbol string, quantity float64, kind OrderKind, createdAt time.Time) *Order {
	return &Order{
		ID:        uuid.NewString(),
		Symbol:    symbol,
		Quantity:  quantity,
		Kind:      kind,
		CreatedAt: createdAt,
		Status:    OrderStatusNew,
	}
}

func NewLimitOrder(symbol string, quantity, limit float64, createdAt time.Time) *Order {
	o := NewOrder(symbol, quantity, OrderKindLimit, createdAt)
	o.LimitPrice = limit
	return o
}

func NewStopMarketOrder(symbol string, quantity, stop float64, createdAt time.Time) *Order {
	o := NewOrder(symbol, quantity, OrderKindStopMarket, createdAt)
	o.StopPrice = stop
	return o
}

func NewStopLimitOrder(symbol string, quantity, stop, limit float64, createdAt time.Time) *Order {
	o := NewOrder(symbol, quantity, OrderKindStopLimit, createdAt)
	o.StopPrice = stop
	o.LimitPrice = limit
	return o
}

// Direction returns +1 for buys and -1 for sells.
func (o *Order) Direction() int {
	if o.Quantity < 0 {
		return -1
	}
	return 1
}

// AbsQuantity is the unsigned order size.
func (o *Order) AbsQuantity() float64 {
	return math.Abs(o.Quantity)
}

// TransitionTo applies a status change, refusing regressions out of terminal
// states. It reports whether the transition took effect.
func (o *Order) TransitionTo(s OrderStatus) bool {
	if o.Status.Terminal() {
		return false
	}
	o.Status = s
	return true
}
