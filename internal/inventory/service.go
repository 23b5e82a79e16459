// Package inventory keeps the spare-parts catalogue and its stock levels,
// and raises an alert when a part drops to its reorder level.
package inventory

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/ukydev/marine-pms/internal/db"
	"github.com/ukydev/marine-pms/internal/models"
)

var (
	ErrNotFound     = db.ErrNotFound
	ErrConflict     = db.ErrDuplicate
	ErrInvalidInput = db.ErrInvalidInput
)

// StockAlert describes a part whose stock has just fallen to or below its
// minimum.
type StockAlert struct {
	Item models.InventoryItem
	Part models.Part
}

// StockAlerter is told when a stock record turns low.
type StockAlerter interface {
	NotifyLowStock(ctx context.Context, alert StockAlert) error
}

// Stores bundles the collections the service reads and writes.
type Stores struct {
	Parts     db.PartCollection
	Inventory db.InventoryCollection
}

// Service manages parts and stock.
type Service struct {
	parts db.PartCollection
	stock db.InventoryCollection

	alerter StockAlerter
	now     func() time.Time
	log     logrus.FieldLogger
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithAlerter registers a receiver for low-stock alerts.
func WithAlerter(a StockAlerter) Option {
	return func(s *Service) { s.alerter = a }
}

// WithLogger sets the service logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Service) { s.log = l }
}

// NewService creates an inventory service over the given stores.
func NewService(stores Stores, opts ...Option) *Service {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	s := &Service{
		parts: stores.Parts,
		stock: stores.Inventory,
		now:   func() time.Time { return time.Now().UTC() },
		log:   discard,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// alertIfTurnedLow fires the alerter when item crossed into low stock.
// Alert failures are logged, never returned.
func (s *Service) alertIfTurnedLow(ctx context.Context, wasLow bool, item models.InventoryItem) {
	if wasLow || !item.IsLowStock() || s.alerter == nil {
		return
	}
	part, err := s.parts.FindPartByID(ctx, item.PartID.Hex())
	if err != nil {
		s.log.WithError(err).WithField("part_id", item.PartID.Hex()).Warn("Low stock on a part that cannot be loaded")
		return
	}
	if err := s.alerter.NotifyLowStock(ctx, StockAlert{Item: item, Part: *part}); err != nil {
		s.log.WithError(err).WithField("inventory_id", item.ID.Hex()).Warn("Failed to send low stock alert")
	}
}
