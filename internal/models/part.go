package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Stock defaults applied when a part is catalogued.
const (
	DefaultMinQuantity = 5
	DefaultWarehouse   = "Busan HQ"
)

// Part is a catalogued spare part, typically for a turbocharger model.
type Part struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	PartNumber   string              `bson:"part_number" json:"part_number"`
	Name         string              `bson:"name" json:"name"`
	Brand        string              `bson:"brand" json:"brand"` // MAN, MHI, KBB, ABB, Napier, Other
	TurboModel   string              `bson:"turbo_model" json:"turbo_model"`
	Category     string              `bson:"category" json:"category"` // Nozzle Ring, Bearing, Seal, ...
	Description  string              `bson:"description,omitempty" json:"description,omitempty"`
	UnitPrice    float64             `bson:"unit_price" json:"unit_price"`
	EquipmentID  *primitive.ObjectID `bson:"equipment_id,omitempty" json:"equipment_id,omitempty"`
	LeadTimeDays *int                `bson:"lead_time_days,omitempty" json:"lead_time_days,omitempty"`
	CreatedAt    time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time           `bson:"updated_at" json:"updated_at"`
}

// InventoryItem is the stock record of one part. Every part has exactly
// one.
type InventoryItem struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PartID      primitive.ObjectID `bson:"part_id" json:"part_id"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	MinQuantity int                `bson:"min_quantity" json:"min_quantity"`
	Warehouse   string             `bson:"warehouse" json:"warehouse"`
	LastUpdated time.Time          `bson:"last_updated" json:"last_updated"`
}

// IsLowStock reports whether the quantity has fallen to the reorder level.
func (i InventoryItem) IsLowStock() bool {
	return i.Quantity <= i.MinQuantity
}

// StockBrief is the stock summary embedded in part listings.
type StockBrief struct {
	Quantity    int    `json:"quantity"`
	MinQuantity int    `json:"min_quantity"`
	Warehouse   string `json:"warehouse"`
	IsLowStock  bool   `json:"is_low_stock"`
}

// PartView is a part with its stock.
type PartView struct {
	Part
	Inventory *StockBrief `json:"inventory,omitempty"`
}

// InventoryView is a stock record with the identifying fields of its part.
type InventoryView struct {
	InventoryItem
	LowStock   bool    `json:"is_low_stock"`
	PartName   string  `json:"part_name"`
	PartNumber string  `json:"part_number"`
	Brand      string  `json:"brand"`
	TurboModel string  `json:"turbo_model"`
	UnitPrice  float64 `json:"unit_price"`
}
