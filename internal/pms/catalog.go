package pms

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/ukydev/marine-pms/internal/db"
	"github.com/ukydev/marine-pms/internal/models"
)

// Vessel returns one vessel.
func (s *Service) Vessel(ctx context.Context, id string) (*models.Vessel, error) {
	v, err := s.vessels.FindVesselByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find vessel %s: %w", id, err)
	}
	return v, nil
}

// Vessels lists vessels, restricted to ids when given.
func (s *Service) Vessels(ctx context.Context, ids []string) ([]models.Vessel, error) {
	out, err := s.vessels.FindVessels(ctx, db.VesselFilter{IDs: ids})
	if err != nil {
		return nil, fmt.Errorf("find vessels: %w", err)
	}
	return out, nil
}

// CreateVessel stores a new active vessel.
func (s *Service) CreateVessel(ctx context.Context, v models.Vessel) (*models.Vessel, error) {
	if strings.TrimSpace(v.Name) == "" {
		return nil, fmt.Errorf("%w: vessel name is required", ErrInvalidInput)
	}
	v.IsActive = true
	out, err := s.vessels.InsertVessel(ctx, v)
	if err != nil {
		return nil, fmt.Errorf("insert vessel: %w", err)
	}
	return out, nil
}

// EquipmentTree returns the equipment hierarchy of a vessel.
func (s *Service) EquipmentTree(ctx context.Context, vesselID string) ([]*EquipmentNode, error) {
	if _, err := s.Vessel(ctx, vesselID); err != nil {
		return nil, err
	}
	items, err := s.equipment.FindEquipment(ctx, db.EquipmentFilter{VesselID: vesselID})
	if err != nil {
		return nil, fmt.Errorf("find equipment: %w", err)
	}
	return BuildTree(items), nil
}

// VesselEquipment lists a vessel's equipment, optionally by category.
func (s *Service) VesselEquipment(ctx context.Context, vesselID, category string) ([]models.Equipment, error) {
	items, err := s.equipment.FindEquipment(ctx, db.EquipmentFilter{VesselID: vesselID, Category: category})
	if err != nil {
		return nil, fmt.Errorf("find equipment: %w", err)
	}
	return items, nil
}

// Equipment returns one equipment item.
func (s *Service) Equipment(ctx context.Context, id string) (*models.Equipment, error) {
	eq, err := s.equipment.FindEquipmentByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find equipment %s: %w", id, err)
	}
	return eq, nil
}

// CreateEquipment registers an equipment item. The vessel and parent must
// exist and the code must be free on the vessel. The live counter starts
// at the initial running hours.
func (s *Service) CreateEquipment(ctx context.Context, eq models.Equipment) (*models.Equipment, error) {
	if strings.TrimSpace(eq.EquipmentCode) == "" || strings.TrimSpace(eq.Name) == "" {
		return nil, fmt.Errorf("%w: equipment code and name are required", ErrInvalidInput)
	}
	if eq.InitialRunningHours < 0 {
		return nil, fmt.Errorf("%w: initial running hours must not be negative", ErrInvalidInput)
	}
	if _, err := s.vessels.FindVesselByID(ctx, eq.VesselID.Hex()); err != nil {
		return nil, fmt.Errorf("find vessel %s: %w", eq.VesselID.Hex(), err)
	}
	if eq.ParentID != nil {
		if _, err := s.equipment.FindEquipmentByID(ctx, eq.ParentID.Hex()); err != nil {
			return nil, fmt.Errorf("find parent equipment %s: %w", eq.ParentID.Hex(), err)
		}
	}
	if err := s.checkCodeFree(ctx, eq); err != nil {
		return nil, err
	}

	if eq.CurrentRunningHours == 0 {
		eq.CurrentRunningHours = eq.InitialRunningHours
	}
	if eq.Status == "" {
		eq.Status = models.EquipmentStatusNormal
	}
	eq.Status = EvaluateStatus(eq.CurrentRunningHours, eq.OverhaulIntervalHours, eq.Status)
	eq.IsActive = true

	out, err := s.equipment.InsertEquipment(ctx, eq)
	if err != nil {
		return nil, fmt.Errorf("insert equipment: %w", err)
	}
	return out, nil
}

// EquipmentUpdate carries the editable equipment fields. Nil fields are
// left untouched.
type EquipmentUpdate struct {
	EquipmentCode         *string                 `json:"equipment_code,omitempty"`
	Name                  *string                 `json:"name,omitempty"`
	Category              *string                 `json:"category,omitempty"`
	Maker                 *string                 `json:"maker,omitempty"`
	Model                 *string                 `json:"model,omitempty"`
	SerialNumber          *string                 `json:"serial_number,omitempty"`
	OverhaulIntervalHours *float64                `json:"overhaul_interval_hours,omitempty"`
	Status                *models.EquipmentStatus `json:"status,omitempty"`
	Description           *string                 `json:"description,omitempty"`
	SortOrder             *int                    `json:"sort_order,omitempty"`
	IsActive              *bool                   `json:"is_active,omitempty"`
}

// UpdateEquipment applies upd to an equipment item.
func (s *Service) UpdateEquipment(ctx context.Context, id string, upd EquipmentUpdate) (*models.Equipment, error) {
	eq, err := s.Equipment(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.EquipmentCode != nil && *upd.EquipmentCode != eq.EquipmentCode {
		eq.EquipmentCode = *upd.EquipmentCode
		if err := s.checkCodeFree(ctx, *eq); err != nil {
			return nil, err
		}
	}
	setString(&eq.Name, upd.Name)
	setString(&eq.Category, upd.Category)
	setString(&eq.Maker, upd.Maker)
	setString(&eq.Model, upd.Model)
	setString(&eq.SerialNumber, upd.SerialNumber)
	setString(&eq.Description, upd.Description)
	if upd.SortOrder != nil {
		eq.SortOrder = *upd.SortOrder
	}
	if upd.IsActive != nil {
		eq.IsActive = *upd.IsActive
	}
	if upd.Status != nil {
		eq.Status = *upd.Status
	}
	if upd.OverhaulIntervalHours != nil {
		eq.OverhaulIntervalHours = upd.OverhaulIntervalHours
		eq.Status = EvaluateStatus(eq.CurrentRunningHours, eq.OverhaulIntervalHours, eq.Status)
	}

	if err := s.equipment.UpdateEquipment(ctx, *eq); err != nil {
		return nil, fmt.Errorf("update equipment: %w", err)
	}
	return eq, nil
}

// DeleteEquipment removes an equipment item together with every item
// below it and their running-hours records, maintenance plans and work
// orders. It returns the removed equipment ids.
func (s *Service) DeleteEquipment(ctx context.Context, id string) ([]string, error) {
	eq, err := s.Equipment(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.equipment.FindEquipment(ctx, db.EquipmentFilter{VesselID: eq.VesselID.Hex()})
	if err != nil {
		return nil, fmt.Errorf("find equipment: %w", err)
	}
	ids := Descendants(items, eq.ID)

	orders, err := s.orders.DeleteWorkOrdersByEquipment(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("delete work orders: %w", err)
	}
	plans, err := s.plans.DeletePlansByEquipment(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("delete maintenance plans: %w", err)
	}
	if err := s.hours.DeleteByEquipment(ctx, ids); err != nil {
		return nil, fmt.Errorf("delete running hours: %w", err)
	}
	if err := s.equipment.DeleteEquipment(ctx, ids); err != nil {
		return nil, fmt.Errorf("delete equipment: %w", err)
	}

	out := make([]string, 0, len(ids))
	for _, oid := range ids {
		out = append(out, oid.Hex())
	}
	s.log.WithFields(logrus.Fields{
		"equipment_id": id,
		"removed":      len(out),
		"work_orders":  orders,
		"plans":        plans,
	}).Info("Deleted equipment subtree")
	return out, nil
}

func (s *Service) checkCodeFree(ctx context.Context, eq models.Equipment) error {
	existing, err := s.equipment.FindEquipmentByCode(ctx, eq.VesselID.Hex(), eq.EquipmentCode)
	switch {
	case errors.Is(err, db.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("find equipment by code: %w", err)
	case existing.ID != eq.ID:
		return fmt.Errorf("%w: equipment code %q already exists on this vessel", ErrConflict, eq.EquipmentCode)
	}
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// Plans lists active maintenance plans.
func (s *Service) Plans(ctx context.Context, vesselID, equipmentID string) ([]models.MaintenancePlan, error) {
	out, err := s.plans.FindPlans(ctx, db.PlanFilter{VesselID: vesselID, EquipmentID: equipmentID, ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("find maintenance plans: %w", err)
	}
	return out, nil
}

// Plan returns one maintenance plan.
func (s *Service) Plan(ctx context.Context, id string) (*models.MaintenancePlan, error) {
	p, err := s.plans.FindPlanByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find maintenance plan %s: %w", id, err)
	}
	return p, nil
}

func validatePlan(p models.MaintenancePlan) error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: plan title is required", ErrInvalidInput)
	}
	switch p.IntervalType {
	case models.IntervalCalendar, models.IntervalRunningHours, models.IntervalCondition:
	default:
		return fmt.Errorf("%w: unknown interval type %q", ErrInvalidInput, p.IntervalType)
	}
	if p.IntervalValue != nil && *p.IntervalValue < 0 {
		return fmt.Errorf("%w: interval value must not be negative", ErrInvalidInput)
	}
	return nil
}

// CreatePlan stores a new maintenance plan for an existing equipment item.
// The plan's vessel is taken from the equipment.
func (s *Service) CreatePlan(ctx context.Context, p models.MaintenancePlan) (*models.MaintenancePlan, error) {
	if err := validatePlan(p); err != nil {
		return nil, err
	}
	eq, err := s.Equipment(ctx, p.EquipmentID.Hex())
	if err != nil {
		return nil, err
	}
	p.VesselID = eq.VesselID
	if p.Priority == "" {
		p.Priority = models.PriorityMedium
	}
	p.IsActive = true
	out, err := s.plans.InsertPlan(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("insert maintenance plan: %w", err)
	}
	return out, nil
}

// UpdatePlan replaces the editable fields of a maintenance plan.
func (s *Service) UpdatePlan(ctx context.Context, id string, p models.MaintenancePlan) (*models.MaintenancePlan, error) {
	if err := validatePlan(p); err != nil {
		return nil, err
	}
	existing, err := s.Plan(ctx, id)
	if err != nil {
		return nil, err
	}
	p.ID = existing.ID
	p.EquipmentID = existing.EquipmentID
	p.VesselID = existing.VesselID
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = s.now()
	if err := s.plans.UpdatePlan(ctx, p); err != nil {
		return nil, fmt.Errorf("update maintenance plan: %w", err)
	}
	return &p, nil
}

// WorkOrderFilter narrows work-order listings.
type WorkOrderFilter struct {
	VesselID string
	Status   models.WorkOrderStatus
}

// WorkOrders lists work orders with the derived overdue flag. Filtering by
// the Overdue status selects orders for which the flag holds.
func (s *Service) WorkOrders(ctx context.Context, f WorkOrderFilter) ([]models.WorkOrderView, error) {
	filter := db.WorkOrderFilter{VesselID: f.VesselID}
	switch {
	case f.Status == models.WorkOrderOverdue:
		filter.Statuses = openStatuses
	case f.Status != "":
		filter.Statuses = []models.WorkOrderStatus{f.Status}
	}
	orders, err := s.orders.FindWorkOrders(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find work orders: %w", err)
	}
	equipment, err := s.equipment.FindEquipment(ctx, db.EquipmentFilter{VesselID: f.VesselID})
	if err != nil {
		return nil, fmt.Errorf("find equipment: %w", err)
	}
	views := Annotate(orders, equipment, s.now())
	if f.Status != models.WorkOrderOverdue {
		return views, nil
	}
	out := views[:0]
	for _, v := range views {
		if v.IsOverdue {
			out = append(out, v)
		}
	}
	return out, nil
}

// WorkOrder returns one work order with its overdue flag.
func (s *Service) WorkOrder(ctx context.Context, id string) (*models.WorkOrderView, error) {
	wo, err := s.orders.FindWorkOrderByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find work order %s: %w", id, err)
	}
	view := models.WorkOrderView{WorkOrder: *wo, IsOverdue: IsOverdue(*wo, s.now())}
	if eq, err := s.equipment.FindEquipmentByID(ctx, wo.EquipmentID.Hex()); err == nil {
		view.EquipmentName = eq.Name
		view.EquipmentCode = eq.EquipmentCode
	}
	return &view, nil
}

// CreateWorkOrder stores a new work order for an existing equipment item.
// The status defaults to Planned and the vessel is taken from the
// equipment. An order created as Completed is stamped with the equipment's
// running hours and advances its linked plan, as UpdateWorkOrder does.
func (s *Service) CreateWorkOrder(ctx context.Context, wo models.WorkOrder, userID string) (*models.WorkOrder, error) {
	if strings.TrimSpace(wo.Title) == "" {
		return nil, fmt.Errorf("%w: work order title is required", ErrInvalidInput)
	}
	eq, err := s.Equipment(ctx, wo.EquipmentID.Hex())
	if err != nil {
		return nil, err
	}
	if wo.MaintenancePlanID != nil {
		if _, err := s.Plan(ctx, wo.MaintenancePlanID.Hex()); err != nil {
			return nil, err
		}
	}
	wo.VesselID = eq.VesselID
	if wo.Priority == "" {
		wo.Priority = models.PriorityMedium
	}
	status := wo.Status
	if status == "" {
		status = models.WorkOrderPlanned
	}
	wo.Status = models.WorkOrderPlanned
	if err := ApplyStatus(&wo, status, userID, s.now()); err != nil {
		return nil, err
	}
	doneHours := eq.CurrentRunningHours
	if wo.CompletedDate != nil {
		wo.RunningHoursAtCompletion = &doneHours
	}

	out, err := s.orders.InsertWorkOrder(ctx, wo)
	if err != nil {
		return nil, fmt.Errorf("insert work order: %w", err)
	}
	if out.CompletedDate != nil && out.MaintenancePlanID != nil {
		if err := s.advanceLinkedPlan(ctx, out.MaintenancePlanID.Hex(), *out.CompletedDate, doneHours); err != nil {
			return nil, err
		}
	}
	return out, nil
}
