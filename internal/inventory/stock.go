package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/ukydev/marine-pms/internal/db"
	"github.com/ukydev/marine-pms/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StockUpdate carries the editable stock fields. Nil fields are left
// alone.
type StockUpdate struct {
	Quantity    *int    `json:"quantity"`
	MinQuantity *int    `json:"min_quantity"`
	Warehouse   *string `json:"warehouse"`
}

// StockStats summarizes every stock record.
type StockStats struct {
	TotalItems    int `json:"total_items"`
	LowStockCount int `json:"low_stock_count"`
	TotalQuantity int `json:"total_quantity"`
}

// views joins stock records with their parts. Records whose part is gone
// keep empty part fields.
func (s *Service) views(ctx context.Context, items []models.InventoryItem) ([]models.InventoryView, error) {
	ids := make([]primitive.ObjectID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.PartID)
	}
	parts, err := s.parts.FindPartsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find parts: %w", err)
	}
	byID := make(map[primitive.ObjectID]models.Part, len(parts))
	for _, p := range parts {
		byID[p.ID] = p
	}
	out := make([]models.InventoryView, 0, len(items))
	for _, it := range items {
		p := byID[it.PartID]
		out = append(out, models.InventoryView{
			InventoryItem: it,
			LowStock:      it.IsLowStock(),
			PartName:      p.Name,
			PartNumber:    p.PartNumber,
			Brand:         p.Brand,
			TurboModel:    p.TurboModel,
			UnitPrice:     p.UnitPrice,
		})
	}
	return out, nil
}

// Stock lists stock records with their parts.
func (s *Service) Stock(ctx context.Context, f db.InventoryFilter) ([]models.InventoryView, error) {
	items, err := s.stock.FindInventory(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("find inventory: %w", err)
	}
	return s.views(ctx, items)
}

// LowStock lists every record at or below its minimum.
func (s *Service) LowStock(ctx context.Context) ([]models.InventoryView, error) {
	return s.Stock(ctx, db.InventoryFilter{LowStockOnly: true})
}

// Stats counts stock records, low ones and units on hand.
func (s *Service) Stats(ctx context.Context) (StockStats, error) {
	items, err := s.stock.FindInventory(ctx, db.InventoryFilter{})
	if err != nil {
		return StockStats{}, fmt.Errorf("find inventory: %w", err)
	}
	var st StockStats
	for _, it := range items {
		st.TotalItems++
		st.TotalQuantity += it.Quantity
		if it.IsLowStock() {
			st.LowStockCount++
		}
	}
	return st, nil
}

// UpdateStock sets quantity, minimum or warehouse of a stock record.
func (s *Service) UpdateStock(ctx context.Context, id string, upd StockUpdate) (*models.InventoryItem, error) {
	item, err := s.stock.FindInventoryByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find inventory %s: %w", id, err)
	}
	wasLow := item.IsLowStock()
	if upd.Quantity != nil {
		if *upd.Quantity < 0 {
			return nil, fmt.Errorf("%w: quantity must not be negative", ErrInvalidInput)
		}
		item.Quantity = *upd.Quantity
	}
	if upd.MinQuantity != nil {
		if *upd.MinQuantity < 0 {
			return nil, fmt.Errorf("%w: min_quantity must not be negative", ErrInvalidInput)
		}
		item.MinQuantity = *upd.MinQuantity
	}
	if upd.Warehouse != nil {
		if strings.TrimSpace(*upd.Warehouse) == "" {
			return nil, fmt.Errorf("%w: warehouse must not be empty", ErrInvalidInput)
		}
		item.Warehouse = *upd.Warehouse
	}
	item.LastUpdated = s.now()
	if err := s.stock.UpdateInventory(ctx, *item); err != nil {
		return nil, fmt.Errorf("update inventory: %w", err)
	}
	s.alertIfTurnedLow(ctx, wasLow, *item)
	return item, nil
}

// Adjust books delta units in (positive) or out (negative) of a stock
// record. Taking out more than is on hand fails with ErrInvalidInput and
// leaves the quantity unchanged.
func (s *Service) Adjust(ctx context.Context, id string, delta int, reason string) (*models.InventoryItem, error) {
	item, err := s.stock.AdjustQuantity(ctx, id, delta)
	if err != nil {
		return nil, fmt.Errorf("adjust inventory %s: %w", id, err)
	}
	s.log.WithFields(logrus.Fields{
		"inventory_id": id,
		"adjustment":   delta,
		"quantity":     item.Quantity,
		"reason":       reason,
	}).Info("Stock adjusted")

	before := *item
	before.Quantity -= delta
	s.alertIfTurnedLow(ctx, before.IsLowStock(), *item)
	return item, nil
}
