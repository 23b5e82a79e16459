package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EquipmentStatus is the health tier of a piece of equipment.
type EquipmentStatus string

const (
	EquipmentStatusNormal   EquipmentStatus = "Normal"
	EquipmentStatusWarning  EquipmentStatus = "Warning"
	EquipmentStatusCritical EquipmentStatus = "Critical"
	EquipmentStatusInactive EquipmentStatus = "Inactive"
)

// Equipment categories used across the fleet.
const (
	CategoryMainEngine         = "Main Engine"
	CategoryGenerator          = "Generator"
	CategoryBoiler             = "Boiler"
	CategoryTurbocharger       = "Turbocharger"
	CategoryPump               = "Pump"
	CategoryCompressor         = "Compressor"
	CategorySteeringGear       = "Steering Gear"
	CategoryEmergencyGenerator = "Emergency Generator"
	CategoryPurifier           = "Purifier"
	CategoryHeatExchanger      = "Heat Exchanger"
	CategoryCrane              = "Crane"
	CategoryFuelSystem         = "Fuel System"
	CategoryExhaustSystem      = "Exhaust System"
	CategoryOther              = "Other"
)

// Equipment is a physical machine aboard a vessel. ParentID links it into
// the vessel's equipment hierarchy (engine -> turbocharger).
type Equipment struct {
	ID       primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	VesselID primitive.ObjectID  `bson:"vessel_id" json:"vessel_id"`
	ParentID *primitive.ObjectID `bson:"parent_id,omitempty" json:"parent_id,omitempty"`

	EquipmentCode string `bson:"equipment_code" json:"equipment_code"` // "ME-001", "TC-001"
	Name          string `bson:"name" json:"name"`
	Category      string `bson:"category" json:"category"`
	Maker         string `bson:"maker,omitempty" json:"maker,omitempty"`
	Model         string `bson:"model,omitempty" json:"model,omitempty"`
	SerialNumber  string `bson:"serial_number,omitempty" json:"serial_number,omitempty"`
	RatedPower    string `bson:"rated_power,omitempty" json:"rated_power,omitempty"`
	RatedRPM      string `bson:"rated_rpm,omitempty" json:"rated_rpm,omitempty"`

	InitialRunningHours   float64  `bson:"initial_running_hours" json:"initial_running_hours"`
	CurrentRunningHours   float64  `bson:"current_running_hours" json:"current_running_hours"`
	OverhaulIntervalHours *float64 `bson:"overhaul_interval_hours,omitempty" json:"overhaul_interval_hours,omitempty"`

	InstallDate      *time.Time      `bson:"install_date,omitempty" json:"install_date,omitempty"`
	LastOverhaulDate *time.Time      `bson:"last_overhaul_date,omitempty" json:"last_overhaul_date,omitempty"`
	Status           EquipmentStatus `bson:"status" json:"status"`

	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	SortOrder   int       `bson:"sort_order" json:"sort_order"`
	IsActive    bool      `bson:"is_active" json:"is_active"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}
