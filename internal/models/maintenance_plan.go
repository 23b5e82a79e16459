package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// IntervalType tells how a maintenance plan recurs.
type IntervalType string

const (
	IntervalCalendar     IntervalType = "Calendar"     // every N months
	IntervalRunningHours IntervalType = "RunningHours" // every N running hours
	IntervalCondition    IntervalType = "Condition"
)

// Priority is shared by maintenance plans and work orders.
type Priority string

const (
	PriorityCritical Priority = "Critical"
	PriorityHigh     Priority = "High"
	PriorityMedium   Priority = "Medium"
	PriorityLow      Priority = "Low"
)

// MaintenancePlan is a recurring service definition for one equipment item.
type MaintenancePlan struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	EquipmentID primitive.ObjectID `json:"equipment_id" bson:"equipment_id"`
	VesselID    primitive.ObjectID `json:"vessel_id" bson:"vessel_id"`

	Title         string       `json:"title" bson:"title"`
	Description   string       `json:"description,omitempty" bson:"description,omitempty"`
	IntervalType  IntervalType `json:"interval_type" bson:"interval_type"`
	IntervalValue *float64     `json:"interval_value,omitempty" bson:"interval_value,omitempty"`
	IntervalUnit  string       `json:"interval_unit" bson:"interval_unit"` // "months", "hours"

	Priority       Priority `json:"priority" bson:"priority"`
	IsClassRelated bool     `json:"is_class_related" bson:"is_class_related"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty" bson:"estimated_hours,omitempty"`
	SpareParts     string   `json:"spare_parts,omitempty" bson:"spare_parts,omitempty"`

	LastDoneDate  *time.Time `json:"last_done_date,omitempty" bson:"last_done_date,omitempty"`
	LastDoneHours *float64   `json:"last_done_hours,omitempty" bson:"last_done_hours,omitempty"`
	NextDueDate   *time.Time `json:"next_due_date,omitempty" bson:"next_due_date,omitempty"`
	NextDueHours  *float64   `json:"next_due_hours,omitempty" bson:"next_due_hours,omitempty"`

	IsActive  bool      `json:"is_active" bson:"is_active"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
