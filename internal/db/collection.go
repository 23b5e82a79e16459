package db

import (
	"context"
	"errors"
	"time"

	"github.com/ukydev/marine-pms/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicate    = errors.New("duplicate key")
	ErrNilStorage   = errors.New("mongo collection is nil")
	ErrInvalidInput = errors.New("invalid input")
)

// VesselFilter narrows vessel queries. Zero values match everything.
type VesselFilter struct {
	IDs        []string
	ActiveOnly bool
}

// EquipmentFilter narrows equipment queries.
type EquipmentFilter struct {
	VesselID   string
	Category   string
	ActiveOnly bool
}

// WorkOrderFilter narrows work-order queries. PlannedFrom and PlannedTo
// are inclusive bounds on planned_date.
type WorkOrderFilter struct {
	VesselID    string
	EquipmentID string
	Statuses    []models.WorkOrderStatus
	PlannedFrom *time.Time
	PlannedTo   *time.Time
}

// PlanFilter narrows maintenance-plan queries.
type PlanFilter struct {
	VesselID    string
	EquipmentID string
	ActiveOnly  bool
}

// VesselCollection defines the interface for vessel data operations.
type VesselCollection interface {
	InsertVessel(ctx context.Context, vessel models.Vessel) (*models.Vessel, error)
	FindVessels(ctx context.Context, filter VesselFilter) ([]models.Vessel, error)
	FindVesselByID(ctx context.Context, id string) (*models.Vessel, error)
	UpdateVessel(ctx context.Context, vessel models.Vessel) error
}

// EquipmentCollection defines the interface for equipment data operations.
// Equipment codes are unique per vessel.
type EquipmentCollection interface {
	InsertEquipment(ctx context.Context, eq models.Equipment) (*models.Equipment, error)
	FindEquipment(ctx context.Context, filter EquipmentFilter) ([]models.Equipment, error)
	FindEquipmentByID(ctx context.Context, id string) (*models.Equipment, error)
	FindEquipmentByCode(ctx context.Context, vesselID, code string) (*models.Equipment, error)
	UpdateEquipment(ctx context.Context, eq models.Equipment) error
	UpdateRunningHours(ctx context.Context, id string, hours float64, status models.EquipmentStatus) error
	DeleteEquipment(ctx context.Context, ids []primitive.ObjectID) error
}

// RunningHoursCollection defines the interface for running-hours records.
// (equipment_id, recorded_date) is unique.
type RunningHoursCollection interface {
	UpsertRunningHours(ctx context.Context, rec models.RunningHours) (*models.RunningHours, error)
	FindLatestBefore(ctx context.Context, equipmentID string, date time.Time) (*models.RunningHours, error)
	FindLatest(ctx context.Context, equipmentID string) (*models.RunningHours, error)
	FindRunningHours(ctx context.Context, equipmentID string, since time.Time) ([]models.RunningHours, error)
	DeleteByEquipment(ctx context.Context, ids []primitive.ObjectID) error
}

// WorkOrderCollection defines the interface for work-order data operations.
type WorkOrderCollection interface {
	InsertWorkOrder(ctx context.Context, wo models.WorkOrder) (*models.WorkOrder, error)
	FindWorkOrders(ctx context.Context, filter WorkOrderFilter) ([]models.WorkOrder, error)
	FindWorkOrderByID(ctx context.Context, id string) (*models.WorkOrder, error)
	UpdateWorkOrder(ctx context.Context, wo models.WorkOrder) error
	DeleteWorkOrdersByEquipment(ctx context.Context, ids []primitive.ObjectID) (int64, error)
}

// MaintenancePlanCollection defines the interface for maintenance plans.
type MaintenancePlanCollection interface {
	InsertPlan(ctx context.Context, plan models.MaintenancePlan) (*models.MaintenancePlan, error)
	FindPlans(ctx context.Context, filter PlanFilter) ([]models.MaintenancePlan, error)
	FindPlanByID(ctx context.Context, id string) (*models.MaintenancePlan, error)
	UpdatePlan(ctx context.Context, plan models.MaintenancePlan) error
	DeletePlansByEquipment(ctx context.Context, ids []primitive.ObjectID) (int64, error)
}
