package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkOrderStatus is the stored lifecycle state of a work order.
type WorkOrderStatus string

const (
	WorkOrderPlanned    WorkOrderStatus = "Planned"
	WorkOrderInProgress WorkOrderStatus = "InProgress"
	WorkOrderCompleted  WorkOrderStatus = "Completed"
	WorkOrderPostponed  WorkOrderStatus = "Postponed"
	WorkOrderCancelled  WorkOrderStatus = "Cancelled"

	// WorkOrderOverdue is only ever reported, never stored.
	WorkOrderOverdue WorkOrderStatus = "Overdue"
)

// IsValidWorkOrderStatus reports whether s may be stored on a work order.
func IsValidWorkOrderStatus(s WorkOrderStatus) bool {
	switch s {
	case WorkOrderPlanned, WorkOrderInProgress, WorkOrderCompleted, WorkOrderPostponed, WorkOrderCancelled:
		return true
	default:
		return false
	}
}

// WorkOrder is a concrete maintenance task instance.
type WorkOrder struct {
	ID                primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	MaintenancePlanID *primitive.ObjectID `json:"maintenance_plan_id,omitempty" bson:"maintenance_plan_id,omitempty"`
	EquipmentID       primitive.ObjectID  `json:"equipment_id" bson:"equipment_id"`
	VesselID          primitive.ObjectID  `json:"vessel_id" bson:"vessel_id"`

	Title       string          `json:"title" bson:"title"`
	Description string          `json:"description,omitempty" bson:"description,omitempty"`
	Status      WorkOrderStatus `json:"status" bson:"status"`
	Priority    Priority        `json:"priority" bson:"priority"`

	PlannedDate   *time.Time `json:"planned_date,omitempty" bson:"planned_date,omitempty"`
	DueDate       *time.Time `json:"due_date,omitempty" bson:"due_date,omitempty"`
	StartedDate   *time.Time `json:"started_date,omitempty" bson:"started_date,omitempty"`
	CompletedDate *time.Time `json:"completed_date,omitempty" bson:"completed_date,omitempty"`

	AssignedTo               string   `json:"assigned_to,omitempty" bson:"assigned_to,omitempty"`
	CompletedBy              string   `json:"completed_by,omitempty" bson:"completed_by,omitempty"`
	ActualHours              *float64 `json:"actual_hours,omitempty" bson:"actual_hours,omitempty"`
	RunningHoursAtCompletion *float64 `json:"running_hours_at_completion,omitempty" bson:"running_hours_at_completion,omitempty"`

	Remarks        string `json:"remarks,omitempty" bson:"remarks,omitempty"`
	IsClassRelated bool   `json:"is_class_related" bson:"is_class_related"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// WorkOrderView is a work order as returned by list endpoints.
type WorkOrderView struct {
	WorkOrder
	IsOverdue     bool   `json:"is_overdue"`
	EquipmentName string `json:"equipment_name,omitempty"`
	EquipmentCode string `json:"equipment_code,omitempty"`
}
