package pms

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ukydev/marine-pms/internal/db"
	"github.com/ukydev/marine-pms/internal/models"
)

// DefaultHorizonDays is used when no upcoming horizon is given.
const DefaultHorizonDays = 30

var openStatuses = []models.WorkOrderStatus{models.WorkOrderPlanned, models.WorkOrderInProgress}

// IsOverdue reports whether a non-terminal work order is past its due date.
func IsOverdue(wo models.WorkOrder, now time.Time) bool {
	if wo.Status != models.WorkOrderPlanned && wo.Status != models.WorkOrderInProgress {
		return false
	}
	return wo.DueDate != nil && wo.DueDate.Before(now)
}

// IsUpcoming reports whether a planned work order starts within the next
// horizonDays days.
func IsUpcoming(wo models.WorkOrder, now time.Time, horizonDays int) bool {
	if wo.Status != models.WorkOrderPlanned || wo.PlannedDate == nil {
		return false
	}
	limit := now.AddDate(0, 0, horizonDays)
	return !wo.PlannedDate.Before(now) && !wo.PlannedDate.After(limit)
}

// Overdue lists overdue work orders, earliest due date first. An empty
// vesselID means every vessel.
func (s *Service) Overdue(ctx context.Context, vesselID string) ([]models.WorkOrder, error) {
	orders, err := s.orders.FindWorkOrders(ctx, db.WorkOrderFilter{VesselID: vesselID, Statuses: openStatuses})
	if err != nil {
		return nil, fmt.Errorf("find work orders: %w", err)
	}
	now := s.now()
	out := make([]models.WorkOrder, 0)
	for _, wo := range orders {
		if IsOverdue(wo, now) {
			out = append(out, wo)
		}
	}
	sortByDate(out, func(wo models.WorkOrder) *time.Time { return wo.DueDate })
	return out, nil
}

// Upcoming lists planned work orders starting within horizonDays,
// earliest planned date first.
func (s *Service) Upcoming(ctx context.Context, vesselID string, horizonDays int) ([]models.WorkOrder, error) {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	orders, err := s.orders.FindWorkOrders(ctx, db.WorkOrderFilter{
		VesselID: vesselID,
		Statuses: []models.WorkOrderStatus{models.WorkOrderPlanned},
	})
	if err != nil {
		return nil, fmt.Errorf("find work orders: %w", err)
	}
	now := s.now()
	out := make([]models.WorkOrder, 0)
	for _, wo := range orders {
		if IsUpcoming(wo, now, horizonDays) {
			out = append(out, wo)
		}
	}
	sortByDate(out, func(wo models.WorkOrder) *time.Time { return wo.PlannedDate })
	return out, nil
}

// sortByDate orders work orders by the selected date, then by id so that
// equal dates still give a stable total order. Missing dates sort last.
func sortByDate(orders []models.WorkOrder, key func(models.WorkOrder) *time.Time) {
	sort.SliceStable(orders, func(i, j int) bool {
		a, b := key(orders[i]), key(orders[j])
		switch {
		case a == nil && b == nil:
		case a == nil:
			return false
		case b == nil:
			return true
		case !a.Equal(*b):
			return a.Before(*b)
		}
		return orders[i].ID.Hex() < orders[j].ID.Hex()
	})
}

// ApplyStatus moves a work order to status. The started and completed
// stamps are written the first time the order enters InProgress or
// Completed and never overwritten afterwards.
func ApplyStatus(wo *models.WorkOrder, status models.WorkOrderStatus, userID string, now time.Time) error {
	if !models.IsValidWorkOrderStatus(status) {
		return fmt.Errorf("%w: unknown work order status %q", ErrInvalidInput, status)
	}
	switch status {
	case models.WorkOrderInProgress:
		if wo.StartedDate == nil {
			t := now
			wo.StartedDate = &t
		}
	case models.WorkOrderCompleted:
		if wo.CompletedDate == nil {
			t := now
			wo.CompletedDate = &t
			wo.CompletedBy = userID
		}
	}
	wo.Status = status
	return nil
}

// WorkOrderUpdate carries the fields a caller may change on a work order.
// Nil fields are left untouched.
type WorkOrderUpdate struct {
	Title          *string                 `json:"title,omitempty"`
	Description    *string                 `json:"description,omitempty"`
	Status         *models.WorkOrderStatus `json:"status,omitempty"`
	Priority       *models.Priority        `json:"priority,omitempty"`
	PlannedDate    *time.Time              `json:"planned_date,omitempty"`
	DueDate        *time.Time              `json:"due_date,omitempty"`
	AssignedTo     *string                 `json:"assigned_to,omitempty"`
	ActualHours    *float64                `json:"actual_hours,omitempty"`
	Remarks        *string                 `json:"remarks,omitempty"`
	IsClassRelated *bool                   `json:"is_class_related,omitempty"`
}

// UpdateWorkOrder applies upd to the work order with the given id. The
// first completion captures the equipment's running hours and advances the
// linked maintenance plan.
func (s *Service) UpdateWorkOrder(ctx context.Context, id string, upd WorkOrderUpdate, userID string) (*models.WorkOrder, error) {
	wo, err := s.orders.FindWorkOrderByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find work order %s: %w", id, err)
	}

	if upd.Title != nil {
		wo.Title = *upd.Title
	}
	if upd.Description != nil {
		wo.Description = *upd.Description
	}
	if upd.Priority != nil {
		wo.Priority = *upd.Priority
	}
	if upd.PlannedDate != nil {
		wo.PlannedDate = upd.PlannedDate
	}
	if upd.DueDate != nil {
		wo.DueDate = upd.DueDate
	}
	if upd.AssignedTo != nil {
		wo.AssignedTo = *upd.AssignedTo
	}
	if upd.ActualHours != nil {
		if *upd.ActualHours < 0 {
			return nil, fmt.Errorf("%w: actual hours must not be negative", ErrInvalidInput)
		}
		wo.ActualHours = upd.ActualHours
	}
	if upd.Remarks != nil {
		wo.Remarks = *upd.Remarks
	}
	if upd.IsClassRelated != nil {
		wo.IsClassRelated = *upd.IsClassRelated
	}

	now := s.now()
	justCompleted := false
	if upd.Status != nil {
		wasCompleted := wo.CompletedDate != nil
		if err := ApplyStatus(wo, *upd.Status, userID, now); err != nil {
			return nil, err
		}
		justCompleted = !wasCompleted && wo.CompletedDate != nil
	}

	var doneHours float64
	if justCompleted {
		eq, err := s.equipment.FindEquipmentByID(ctx, wo.EquipmentID.Hex())
		if err != nil {
			return nil, fmt.Errorf("find equipment %s: %w", wo.EquipmentID.Hex(), err)
		}
		doneHours = eq.CurrentRunningHours
		wo.RunningHoursAtCompletion = &doneHours
	}

	wo.UpdatedAt = now
	if err := s.orders.UpdateWorkOrder(ctx, *wo); err != nil {
		return nil, fmt.Errorf("update work order: %w", err)
	}

	if justCompleted && wo.MaintenancePlanID != nil {
		if err := s.advanceLinkedPlan(ctx, wo.MaintenancePlanID.Hex(), *wo.CompletedDate, doneHours); err != nil {
			return nil, err
		}
	}
	return wo, nil
}

func (s *Service) advanceLinkedPlan(ctx context.Context, planID string, doneAt time.Time, doneHours float64) error {
	plan, err := s.plans.FindPlanByID(ctx, planID)
	if errors.Is(err, db.ErrNotFound) {
		s.log.WithField("plan_id", planID).Warn("Completed work order references a missing maintenance plan")
		return nil
	}
	if err != nil {
		return fmt.Errorf("find maintenance plan %s: %w", planID, err)
	}
	AdvancePlan(plan, doneAt, doneHours)
	plan.UpdatedAt = s.now()
	if err := s.plans.UpdatePlan(ctx, *plan); err != nil {
		return fmt.Errorf("update maintenance plan: %w", err)
	}
	return nil
}
