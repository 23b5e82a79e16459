package pms

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ukydev/marine-pms/internal/db"
	"github.com/ukydev/marine-pms/internal/models"
)

// AdvancePlan moves a plan's last/next markers after the work it schedules
// was done at doneAt with the equipment at doneHours.
func AdvancePlan(plan *models.MaintenancePlan, doneAt time.Time, doneHours float64) {
	done := doneAt
	hours := doneHours
	plan.LastDoneDate = &done
	plan.LastDoneHours = &hours

	if plan.IntervalValue == nil || *plan.IntervalValue <= 0 {
		return
	}
	interval := *plan.IntervalValue

	switch plan.IntervalType {
	case models.IntervalCalendar:
		n := int(math.Round(interval))
		var next time.Time
		switch plan.IntervalUnit {
		case "days":
			next = doneAt.AddDate(0, 0, n)
		case "weeks":
			next = doneAt.AddDate(0, 0, 7*n)
		case "years":
			next = doneAt.AddDate(n, 0, 0)
		default:
			next = doneAt.AddDate(0, n, 0)
		}
		plan.NextDueDate = &next
	case models.IntervalRunningHours:
		next := doneHours + interval
		plan.NextDueHours = &next
	}
}

// DuePlan is an active plan whose next due date or hours has been reached.
type DuePlan struct {
	models.MaintenancePlan
	EquipmentCode       string  `json:"equipment_code,omitempty"`
	EquipmentName       string  `json:"equipment_name,omitempty"`
	CurrentRunningHours float64 `json:"current_running_hours"`
	DueByDate           bool    `json:"due_by_date"`
	DueByHours          bool    `json:"due_by_hours"`
}

// IsPlanDue reports whether a plan is due by calendar date or by running
// hours at the given time and counter.
func IsPlanDue(plan models.MaintenancePlan, now time.Time, currentHours float64) (byDate, byHours bool) {
	if !plan.IsActive {
		return false, false
	}
	byDate = plan.NextDueDate != nil && !plan.NextDueDate.After(now)
	byHours = plan.NextDueHours != nil && currentHours >= *plan.NextDueHours
	return byDate, byHours
}

// DuePlans lists active plans that have come due, earliest next due date
// first.
func (s *Service) DuePlans(ctx context.Context, vesselID string) ([]DuePlan, error) {
	plans, err := s.plans.FindPlans(ctx, db.PlanFilter{VesselID: vesselID, ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("find maintenance plans: %w", err)
	}
	equipment, err := s.equipment.FindEquipment(ctx, db.EquipmentFilter{VesselID: vesselID})
	if err != nil {
		return nil, fmt.Errorf("find equipment: %w", err)
	}
	byID := make(map[string]models.Equipment, len(equipment))
	for _, eq := range equipment {
		byID[eq.ID.Hex()] = eq
	}

	now := s.now()
	out := make([]DuePlan, 0)
	for _, p := range plans {
		eq := byID[p.EquipmentID.Hex()]
		byDate, byHours := IsPlanDue(p, now, eq.CurrentRunningHours)
		if !byDate && !byHours {
			continue
		}
		out = append(out, DuePlan{
			MaintenancePlan:     p,
			EquipmentCode:       eq.EquipmentCode,
			EquipmentName:       eq.Name,
			CurrentRunningHours: eq.CurrentRunningHours,
			DueByDate:           byDate,
			DueByHours:          byHours,
		})
	}
	sortDuePlans(out)
	return out, nil
}

func sortDuePlans(plans []DuePlan) {
	sort.SliceStable(plans, func(i, j int) bool {
		a, b := plans[i].NextDueDate, plans[j].NextDueDate
		switch {
		case a != nil && b != nil && !a.Equal(*b):
			return a.Before(*b)
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return plans[i].ID.Hex() < plans[j].ID.Hex()
	})
}
