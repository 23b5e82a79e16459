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

// PartUpdate carries the editable part fields. Nil fields are left alone.
type PartUpdate struct {
	Name         *string  `json:"name"`
	Brand        *string  `json:"brand"`
	TurboModel   *string  `json:"turbo_model"`
	Category     *string  `json:"category"`
	Description  *string  `json:"description"`
	UnitPrice    *float64 `json:"unit_price"`
	LeadTimeDays *int     `json:"lead_time_days"`
}

func validatePart(p models.Part) error {
	switch {
	case strings.TrimSpace(p.PartNumber) == "":
		return fmt.Errorf("%w: part_number is required", ErrInvalidInput)
	case strings.TrimSpace(p.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	case strings.TrimSpace(p.Brand) == "":
		return fmt.Errorf("%w: brand is required", ErrInvalidInput)
	case p.UnitPrice < 0:
		return fmt.Errorf("%w: unit_price must not be negative", ErrInvalidInput)
	case p.LeadTimeDays != nil && *p.LeadTimeDays < 0:
		return fmt.Errorf("%w: lead_time_days must not be negative", ErrInvalidInput)
	}
	return nil
}

// stockByPart indexes stock records by part.
func stockByPart(items []models.InventoryItem) map[primitive.ObjectID]models.InventoryItem {
	out := make(map[primitive.ObjectID]models.InventoryItem, len(items))
	for _, it := range items {
		out[it.PartID] = it
	}
	return out
}

func partView(p models.Part, stock map[primitive.ObjectID]models.InventoryItem) models.PartView {
	view := models.PartView{Part: p}
	if it, ok := stock[p.ID]; ok {
		view.Inventory = &models.StockBrief{
			Quantity:    it.Quantity,
			MinQuantity: it.MinQuantity,
			Warehouse:   it.Warehouse,
			IsLowStock:  it.IsLowStock(),
		}
	}
	return view
}

// Parts lists catalogue entries with their stock.
func (s *Service) Parts(ctx context.Context, f db.PartFilter) ([]models.PartView, error) {
	parts, err := s.parts.FindParts(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("find parts: %w", err)
	}
	ids := make([]primitive.ObjectID, 0, len(parts))
	for _, p := range parts {
		ids = append(ids, p.ID)
	}
	items, err := s.stock.FindInventoryByParts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find inventory: %w", err)
	}
	stock := stockByPart(items)
	out := make([]models.PartView, 0, len(parts))
	for _, p := range parts {
		out = append(out, partView(p, stock))
	}
	return out, nil
}

// Part returns one catalogue entry with its stock.
func (s *Service) Part(ctx context.Context, id string) (*models.PartView, error) {
	p, err := s.parts.FindPartByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find part %s: %w", id, err)
	}
	items, err := s.stock.FindInventoryByParts(ctx, []primitive.ObjectID{p.ID})
	if err != nil {
		return nil, fmt.Errorf("find inventory: %w", err)
	}
	view := partView(*p, stockByPart(items))
	return &view, nil
}

// CreatePart catalogues a part and opens an empty stock record for it at
// the default warehouse.
func (s *Service) CreatePart(ctx context.Context, p models.Part) (*models.Part, error) {
	p.PartNumber = strings.TrimSpace(p.PartNumber)
	if err := validatePart(p); err != nil {
		return nil, err
	}
	created, err := s.parts.InsertPart(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("insert part %s: %w", p.PartNumber, err)
	}
	_, err = s.stock.InsertInventory(ctx, models.InventoryItem{
		PartID:      created.ID,
		MinQuantity: models.DefaultMinQuantity,
		Warehouse:   models.DefaultWarehouse,
	})
	if err != nil {
		if derr := s.parts.DeletePart(ctx, created.ID.Hex()); derr != nil {
			s.log.WithError(derr).WithField("part_id", created.ID.Hex()).Error("Failed to roll back part without stock record")
		}
		return nil, fmt.Errorf("insert inventory: %w", err)
	}
	s.log.WithFields(logrus.Fields{"part_id": created.ID.Hex(), "part_number": created.PartNumber}).Info("Part created")
	return created, nil
}

// UpdatePart applies upd to a part. The part number never changes.
func (s *Service) UpdatePart(ctx context.Context, id string, upd PartUpdate) (*models.Part, error) {
	p, err := s.parts.FindPartByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find part %s: %w", id, err)
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Brand != nil {
		p.Brand = *upd.Brand
	}
	if upd.TurboModel != nil {
		p.TurboModel = *upd.TurboModel
	}
	if upd.Category != nil {
		p.Category = *upd.Category
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.UnitPrice != nil {
		p.UnitPrice = *upd.UnitPrice
	}
	if upd.LeadTimeDays != nil {
		p.LeadTimeDays = upd.LeadTimeDays
	}
	if err := validatePart(*p); err != nil {
		return nil, err
	}
	p.UpdatedAt = s.now()
	if err := s.parts.UpdatePart(ctx, *p); err != nil {
		return nil, fmt.Errorf("update part: %w", err)
	}
	return p, nil
}

// DeletePart removes a part together with its stock record.
func (s *Service) DeletePart(ctx context.Context, id string) error {
	p, err := s.parts.FindPartByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find part %s: %w", id, err)
	}
	if err := s.stock.DeleteInventoryByPart(ctx, p.ID); err != nil {
		return fmt.Errorf("delete inventory: %w", err)
	}
	if err := s.parts.DeletePart(ctx, id); err != nil {
		return fmt.Errorf("delete part: %w", err)
	}
	s.log.WithField("part_id", id).Info("Part deleted")
	return nil
}

// Brands lists the brands in the catalogue.
func (s *Service) Brands(ctx context.Context) ([]string, error) {
	out, err := s.parts.PartBrands(ctx)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	return out, nil
}

// Categories lists the part categories in the catalogue.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	out, err := s.parts.PartCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}
