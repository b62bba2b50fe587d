// Package model defines the persistence schema for orders, fills,
// transactions and equity marks.
package model

import (
	"time"

	"gorm.io/datatypes"
)

type OrderModel struct {
	ID         string         `gorm:"column:id;primaryKey"`
	Symbol     string         `gorm:"column:symbol;index"`
	Kind       string         `gorm:"column:kind"`
	Quantity   float64        `gorm:"column:quantity"`
	LimitPrice float64        `gorm:"column:limit_price"`
	StopPrice  float64        `gorm:"column:stop_price"`
	Status     int            `gorm:"column:status;index"`
	Reason     string         `gorm:"column:reason"`
	Detail     datatypes.JSON `gorm:"column:detail"`
	CreatedAt  time.Time      `gorm:"column:created_at"`
	UpdatedAt  time.Time      `gorm:"column:updated_at"`
}

func (OrderModel) TableName() string { return "orders" }

type FillModel struct {
	ID       int64     `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID  string    `gorm:"column:order_id;index"`
	Symbol   string    `gorm:"column:symbol;index"`
	Quantity float64   `gorm:"column:quantity"`
	Price    float64   `gorm:"column:price"`
	Fee      float64   `gorm:"column:fee"`
	Status   int       `gorm:"column:status"`
	FilledAt time.Time `gorm:"column:filled_at;index"`
}

func (FillModel) TableName() string { return "fills" }

type TransactionModel struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Symbol     string    `gorm:"column:symbol;index"`
	NetProfit  float64   `gorm:"column:net_profit"`
	OccurredAt time.Time `gorm:"column:occurred_at;index"`
}

func (TransactionModel) TableName() string { return "transactions" }

type EquityPointModel struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	TS         time.Time `gorm:"column:ts;index"`
	Equity     float64   `gorm:"column:equity"`
	Cash       float64   `gorm:"column:cash"`
	MarginUsed float64   `gorm:"column:margin_used"`
}

func (EquityPointModel) TableName() string { return "equity_points" }
