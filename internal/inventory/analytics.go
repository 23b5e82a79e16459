package inventory

import (
	"context"
	"math"
	"sort"

	"github.com/ukydev/marine-pms/internal/db"
	"github.com/ukydev/marine-pms/internal/models"
)

// BrandQuantity is the number of units on hand for one brand.
type BrandQuantity struct {
	Brand    string `json:"brand"`
	Quantity int    `json:"quantity"`
}

// BrandValue is the value of the stock on hand for one brand.
type BrandValue struct {
	Brand string  `json:"brand"`
	Value float64 `json:"value"`
}

// LowStockEntry is one line of the low-stock summary.
type LowStockEntry struct {
	PartNumber  string `json:"part_number"`
	Name        string `json:"name"`
	Brand       string `json:"brand"`
	Quantity    int    `json:"quantity"`
	MinQuantity int    `json:"min_quantity"`
}

// QuantityByBrand totals units on hand per brand, largest first.
func QuantityByBrand(stock []models.InventoryView) []BrandQuantity {
	totals := make(map[string]int)
	for _, v := range stock {
		totals[v.Brand] += v.Quantity
	}
	out := make([]BrandQuantity, 0, len(totals))
	for b, q := range totals {
		out = append(out, BrandQuantity{Brand: b, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].Brand < out[j].Brand
	})
	return out
}

// ValueByBrand totals unit price times quantity per brand, largest first,
// rounded to cents.
func ValueByBrand(stock []models.InventoryView) []BrandValue {
	totals := make(map[string]float64)
	for _, v := range stock {
		totals[v.Brand] += v.UnitPrice * float64(v.Quantity)
	}
	out := make([]BrandValue, 0, len(totals))
	for b, val := range totals {
		out = append(out, BrandValue{Brand: b, Value: math.Round(val*100) / 100})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Brand < out[j].Brand
	})
	return out
}

// LowStockSummary lists the low records by part number.
func LowStockSummary(stock []models.InventoryView) []LowStockEntry {
	out := make([]LowStockEntry, 0)
	for _, v := range stock {
		if !v.IsLowStock() {
			continue
		}
		out = append(out, LowStockEntry{
			PartNumber:  v.PartNumber,
			Name:        v.PartName,
			Brand:       v.Brand,
			Quantity:    v.Quantity,
			MinQuantity: v.MinQuantity,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PartNumber < out[j].PartNumber })
	return out
}

// catalogued returns every stock record whose part still exists.
func (s *Service) catalogued(ctx context.Context) ([]models.InventoryView, error) {
	all, err := s.Stock(ctx, db.InventoryFilter{})
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, v := range all {
		if v.PartNumber != "" {
			out = append(out, v)
		}
	}
	return out, nil
}

// InventoryByBrand reports units on hand per brand.
func (s *Service) InventoryByBrand(ctx context.Context) ([]BrandQuantity, error) {
	stock, err := s.catalogued(ctx)
	if err != nil {
		return nil, err
	}
	return QuantityByBrand(stock), nil
}

// InventoryValueByBrand reports the value of stock on hand per brand.
func (s *Service) InventoryValueByBrand(ctx context.Context) ([]BrandValue, error) {
	stock, err := s.catalogued(ctx)
	if err != nil {
		return nil, err
	}
	return ValueByBrand(stock), nil
}

// LowStockReport summarizes the low records for the analytics board.
func (s *Service) LowStockReport(ctx context.Context) ([]LowStockEntry, error) {
	stock, err := s.catalogued(ctx)
	if err != nil {
		return nil, err
	}
	return LowStockSummary(stock), nil
}
