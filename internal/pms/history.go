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

// DefaultHistoryDays is the history window used when none is given.
const DefaultHistoryDays = 30

// ChartPoint is one day of a running-hours chart.
type ChartPoint struct {
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
	Total float64 `json:"total"`
}

// LatestEntry is the current counter of one equipment item together with
// its most recent daily observation.
type LatestEntry struct {
	EquipmentID           string                 `json:"equipment_id"`
	EquipmentCode         string                 `json:"equipment_code"`
	EquipmentName         string                 `json:"equipment_name"`
	Category              string                 `json:"category"`
	ParentID              string                 `json:"parent_id,omitempty"`
	CurrentRunningHours   float64                `json:"current_running_hours"`
	OverhaulIntervalHours *float64               `json:"overhaul_interval_hours,omitempty"`
	Status                models.EquipmentStatus `json:"status"`
	LastRecordedDate      string                 `json:"last_recorded_date,omitempty"`
	LastDailyHours        float64                `json:"last_daily_hours"`
}

// History returns the records of one equipment item from the last days
// days, oldest first.
func (s *Service) History(ctx context.Context, equipmentID string, days int) ([]models.RunningHours, error) {
	if days <= 0 {
		days = DefaultHistoryDays
	}
	if _, err := s.equipment.FindEquipmentByID(ctx, equipmentID); err != nil {
		return nil, fmt.Errorf("find equipment %s: %w", equipmentID, err)
	}
	since := models.CalendarDate(s.now()).AddDate(0, 0, -days)
	records, err := s.hours.FindRunningHours(ctx, equipmentID, since)
	if err != nil {
		return nil, fmt.Errorf("find running hours: %w", err)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].RecordedDate.Before(records[j].RecordedDate)
	})
	if records == nil {
		records = []models.RunningHours{}
	}
	return records, nil
}

// Chart flattens History into date/hours/total points.
func (s *Service) Chart(ctx context.Context, equipmentID string, days int) ([]ChartPoint, error) {
	records, err := s.History(ctx, equipmentID, days)
	if err != nil {
		return nil, err
	}
	out := make([]ChartPoint, 0, len(records))
	for _, r := range records {
		out = append(out, ChartPoint{
			Date:  r.RecordedDate.Format(models.DateLayout),
			Hours: r.DailyHours,
			Total: r.TotalHours,
		})
	}
	return out, nil
}

// LatestByVessel lists the active equipment of a vessel with its counter
// and last observation, in display order.
func (s *Service) LatestByVessel(ctx context.Context, vesselID string) ([]LatestEntry, error) {
	equipment, err := s.equipment.FindEquipment(ctx, db.EquipmentFilter{VesselID: vesselID, ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("find equipment: %w", err)
	}
	sort.SliceStable(equipment, func(i, j int) bool {
		if equipment[i].SortOrder != equipment[j].SortOrder {
			return equipment[i].SortOrder < equipment[j].SortOrder
		}
		return equipment[i].Name < equipment[j].Name
	})

	out := make([]LatestEntry, 0, len(equipment))
	for _, eq := range equipment {
		entry := LatestEntry{
			EquipmentID:           eq.ID.Hex(),
			EquipmentCode:         eq.EquipmentCode,
			EquipmentName:         eq.Name,
			Category:              eq.Category,
			CurrentRunningHours:   eq.CurrentRunningHours,
			OverhaulIntervalHours: eq.OverhaulIntervalHours,
			Status:                eq.Status,
		}
		if eq.ParentID != nil {
			entry.ParentID = eq.ParentID.Hex()
		}
		last, err := s.hours.FindLatest(ctx, eq.ID.Hex())
		switch {
		case err == nil:
			entry.LastRecordedDate = last.RecordedDate.Format(models.DateLayout)
			entry.LastDailyHours = last.DailyHours
		case errors.Is(err, db.ErrNotFound):
		default:
			return nil, fmt.Errorf("find latest running hours: %w", err)
		}
		out = append(out, entry)
	}
	return out, nil
}

// Calendar returns the work orders planned within one month. Orders that
// are overdue are reported with the Overdue status.
func (s *Service) Calendar(ctx context.Context, vesselID string, year int, month time.Month) ([]models.WorkOrderView, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("%w: month must be between 1 and 12", ErrInvalidInput)
	}
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0).Add(-time.Nanosecond)

	orders, err := s.orders.FindWorkOrders(ctx, db.WorkOrderFilter{
		VesselID:    vesselID,
		PlannedFrom: &from,
		PlannedTo:   &to,
	})
	if err != nil {
		return nil, fmt.Errorf("find work orders: %w", err)
	}
	sortByDate(orders, func(wo models.WorkOrder) *time.Time { return wo.PlannedDate })

	now := s.now()
	out := make([]models.WorkOrderView, 0, len(orders))
	for _, wo := range orders {
		v := models.WorkOrderView{WorkOrder: wo, IsOverdue: IsOverdue(wo, now)}
		if v.IsOverdue {
			v.Status = models.WorkOrderOverdue
		}
		out = append(out, v)
	}
	return out, nil
}

// Annotate wraps work orders for list responses, marking the overdue ones
// and attaching equipment names where known.
func Annotate(orders []models.WorkOrder, equipment []models.Equipment, now time.Time) []models.WorkOrderView {
	byID := make(map[string]models.Equipment, len(equipment))
	for _, eq := range equipment {
		byID[eq.ID.Hex()] = eq
	}
	out := make([]models.WorkOrderView, 0, len(orders))
	for _, wo := range orders {
		v := models.WorkOrderView{WorkOrder: wo, IsOverdue: IsOverdue(wo, now)}
		if eq, ok := byID[wo.EquipmentID.Hex()]; ok {
			v.EquipmentName = eq.Name
			v.EquipmentCode = eq.EquipmentCode
		}
		out = append(out, v)
	}
	return out
}
