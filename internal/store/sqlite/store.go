// Package sqlite persists engine output through gorm on a local SQLite
// database. The engine treats it as an optional recorder; durability is the
// host's concern, never the core's.
package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"simbroker/internal/engine"
	"simbroker/internal/portfolio"
	"simbroker/internal/store/model"
	"simbroker/internal/types"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Store struct {
	db *gorm.DB
}

var _ engine.Recorder = (*Store)(nil)

func NewStore(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&cache=shared", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, err
	}
	return NewStoreFromDB(db)
}

func NewStoreFromDB(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("gorm db cannot be nil")
	}
	models := []interface{}{
		&model.OrderModel{},
		&model.FillModel{},
		&model.TransactionModel{},
		&model.EquityPointModel{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		return nil, err
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(2)
		sqlDB.SetMaxIdleConns(2)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// RecordOrder upserts the order row; status updates reuse the same call.
func (s *Store) RecordOrder(ctx context.Context, o *types.Order) error {
	detail, _ := json.Marshal(o)
	row := model.OrderModel{
		ID:         o.ID,
		Symbol:     o.Symbol,
		Kind:       string(o.Kind),
		Quantity:   o.Quantity,
		LimitPrice: o.LimitPrice,
		StopPrice:  o.StopPrice,
		Status:     int(o.Status),
		Reason:     o.Reason,
		Detail:     datatypes.JSON(detail),
		CreatedAt:  o.CreatedAt,
	}
	return s.db.WithContext(ctx).Save(&row).Error
}

func (s *Store) RecordFill(ctx context.Context, f types.FillEvent) error {
	row := model.FillModel{
		OrderID:  f.OrderID,
		Symbol:   f.Symbol,
		Quantity: f.Quantity,
		Price:    f.Price,
		Fee:      f.Fee,
		Status:   int(f.Status),
		FilledAt: f.Time,
	}
	return s.db.WithContext(ctx).Create(&row).Error
}

func (s *Store) RecordTransaction(ctx context.Context, tx portfolio.Transaction) error {
	row := model.TransactionModel{
		Symbol:     tx.Symbol,
		NetProfit:  tx.NetProfit,
		OccurredAt: tx.Time,
	}
	return s.db.WithContext(ctx).Create(&row).Error
}

func (s *Store) RecordEquityPoint(ctx context.Context, p engine.EquityPoint) error {
	row := model.EquityPointModel{
		TS:         p.Time,
		Equity:     p.Equity,
		Cash:       p.Cash,
		MarginUsed: p.MarginUsed,
	}
	return s.db.WithContext(ctx).Create(&row).Error
}

// ListOrders returns orders ordered by creation time, optionally filtered by
// status.
func (s *Store) ListOrders(ctx context.Context, status *int, limit int) ([]model.OrderModel, error) {
	var rows []model.OrderModel
	q := s.db.WithContext(ctx).Order("created_at ASC")
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) ListFills(ctx context.Context, symbol string, limit int) ([]model.FillModel, error) {
	var rows []model.FillModel
	q := s.db.WithContext(ctx).Order("filled_at ASC")
	if symbol != "" {
		q = q.Where("symbol = ?", symbol)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) ListTransactions(ctx context.Context, limit int) ([]model.TransactionModel, error) {
	var rows []model.TransactionModel
	q := s.db.WithContext(ctx).Order("occurred_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) ListEquityPoints(ctx context.Context, limit int) ([]model.EquityPointModel, error) {
	var rows []model.EquityPointModel
	q := s.db.WithContext(ctx).Order("ts ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
