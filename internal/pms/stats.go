package pms

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ukydev/marine-pms/internal/db"
	"github.com/ukydev/marine-pms/internal/models"
)

// PMSStats summarizes the work orders of one vessel or the whole fleet.
type PMSStats struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	Overdue        int     `json:"overdue"`
	InProgress     int     `json:"in_progress"`
	Planned        int     `json:"planned"`
	CompletionRate float64 `json:"completion_rate"`
}

// ReliabilityEntry is the completion record of one equipment item.
type ReliabilityEntry struct {
	EquipmentID   string  `json:"equipment_id"`
	EquipmentName string  `json:"equipment_name"`
	EquipmentCode string  `json:"equipment_code"`
	Category      string  `json:"category"`
	TotalWO       int     `json:"total_wo"`
	CompletedWO   int     `json:"completed_wo"`
	OverdueWO     int     `json:"overdue_wo"`
	Reliability   float64 `json:"reliability"`
}

// VesselCompletion is the completion rate of one vessel.
type VesselCompletion struct {
	VesselID       string  `json:"vessel_id"`
	VesselName     string  `json:"vessel_name"`
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	CompletionRate float64 `json:"completion_rate"`
}

// StatusCount is the number of work orders in one stored status.
type StatusCount struct {
	Status models.WorkOrderStatus `json:"status"`
	Count  int                    `json:"count"`
}

// VesselSummary is the fleet overview row of one active vessel.
type VesselSummary struct {
	VesselID            string  `json:"vessel_id"`
	VesselName          string  `json:"vessel_name"`
	VesselType          string  `json:"vessel_type"`
	EquipmentCount      int     `json:"equipment_count"`
	TotalWorkOrders     int     `json:"total_work_orders"`
	OverdueWorkOrders   int     `json:"overdue_work_orders"`
	CompletedWorkOrders int     `json:"completed_work_orders"`
	CompletionRate      float64 `json:"completion_rate"`
}

// ComputeStats folds work orders into PMSStats as of now.
func ComputeStats(orders []models.WorkOrder, now time.Time) PMSStats {
	var st PMSStats
	for _, wo := range orders {
		st.Total++
		switch wo.Status {
		case models.WorkOrderCompleted:
			st.Completed++
		case models.WorkOrderInProgress:
			st.InProgress++
		case models.WorkOrderPlanned:
			st.Planned++
		}
		if IsOverdue(wo, now) {
			st.Overdue++
		}
	}
	st.CompletionRate = percent(st.Completed, st.Total)
	return st
}

// Stats reports work-order counts and the completion rate.
func (s *Service) Stats(ctx context.Context, vesselID string) (PMSStats, error) {
	orders, err := s.orders.FindWorkOrders(ctx, db.WorkOrderFilter{VesselID: vesselID})
	if err != nil {
		return PMSStats{}, fmt.Errorf("find work orders: %w", err)
	}
	return ComputeStats(orders, s.now()), nil
}

// ComputeReliability ranks equipment by the share of its work orders that
// were completed, worst first. Equipment without work orders is left out.
func ComputeReliability(equipment []models.Equipment, orders []models.WorkOrder, now time.Time) []ReliabilityEntry {
	type tally struct{ total, completed, overdue int }
	counts := make(map[string]*tally)
	for _, wo := range orders {
		key := wo.EquipmentID.Hex()
		t, ok := counts[key]
		if !ok {
			t = &tally{}
			counts[key] = t
		}
		t.total++
		if wo.Status == models.WorkOrderCompleted {
			t.completed++
		}
		if IsOverdue(wo, now) {
			t.overdue++
		}
	}

	out := make([]ReliabilityEntry, 0)
	for _, eq := range equipment {
		if !eq.IsActive {
			continue
		}
		t, ok := counts[eq.ID.Hex()]
		if !ok || t.total == 0 {
			continue
		}
		out = append(out, ReliabilityEntry{
			EquipmentID:   eq.ID.Hex(),
			EquipmentName: eq.Name,
			EquipmentCode: eq.EquipmentCode,
			Category:      eq.Category,
			TotalWO:       t.total,
			CompletedWO:   t.completed,
			OverdueWO:     t.overdue,
			Reliability:   percent(t.completed, t.total),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Reliability != out[j].Reliability {
			return out[i].Reliability < out[j].Reliability
		}
		if out[i].EquipmentCode != out[j].EquipmentCode {
			return out[i].EquipmentCode < out[j].EquipmentCode
		}
		return out[i].EquipmentID < out[j].EquipmentID
	})
	return out
}

// EquipmentReliability ranks the active equipment of a vessel (or fleet).
func (s *Service) EquipmentReliability(ctx context.Context, vesselID string) ([]ReliabilityEntry, error) {
	equipment, err := s.equipment.FindEquipment(ctx, db.EquipmentFilter{VesselID: vesselID, ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("find equipment: %w", err)
	}
	orders, err := s.orders.FindWorkOrders(ctx, db.WorkOrderFilter{VesselID: vesselID})
	if err != nil {
		return nil, fmt.Errorf("find work orders: %w", err)
	}
	return ComputeReliability(equipment, orders, s.now()), nil
}

// CompletionByVessel reports the completion rate per vessel.
func (s *Service) CompletionByVessel(ctx context.Context, vesselID string) ([]VesselCompletion, error) {
	filter := db.VesselFilter{}
	if vesselID != "" {
		filter.IDs = []string{vesselID}
	}
	vessels, err := s.vessels.FindVessels(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find vessels: %w", err)
	}
	orders, err := s.orders.FindWorkOrders(ctx, db.WorkOrderFilter{VesselID: vesselID})
	if err != nil {
		return nil, fmt.Errorf("find work orders: %w", err)
	}
	byVessel := groupByVessel(orders)

	out := make([]VesselCompletion, 0, len(vessels))
	for _, v := range vessels {
		var completed int
		vo := byVessel[v.ID.Hex()]
		for _, wo := range vo {
			if wo.Status == models.WorkOrderCompleted {
				completed++
			}
		}
		out = append(out, VesselCompletion{
			VesselID:       v.ID.Hex(),
			VesselName:     v.Name,
			Total:          len(vo),
			Completed:      completed,
			CompletionRate: percent(completed, len(vo)),
		})
	}
	return out, nil
}

// StatusDistribution counts work orders per stored status.
func (s *Service) StatusDistribution(ctx context.Context, vesselID string) ([]StatusCount, error) {
	orders, err := s.orders.FindWorkOrders(ctx, db.WorkOrderFilter{VesselID: vesselID})
	if err != nil {
		return nil, fmt.Errorf("find work orders: %w", err)
	}
	counts := make(map[models.WorkOrderStatus]int)
	for _, wo := range orders {
		counts[wo.Status]++
	}
	out := make([]StatusCount, 0, len(counts))
	for st, n := range counts {
		out = append(out, StatusCount{Status: st, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return out, nil
}

// FleetSummary reports equipment and work-order figures per active vessel.
func (s *Service) FleetSummary(ctx context.Context) ([]VesselSummary, error) {
	vessels, err := s.vessels.FindVessels(ctx, db.VesselFilter{ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("find vessels: %w", err)
	}
	equipment, err := s.equipment.FindEquipment(ctx, db.EquipmentFilter{ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("find equipment: %w", err)
	}
	orders, err := s.orders.FindWorkOrders(ctx, db.WorkOrderFilter{})
	if err != nil {
		return nil, fmt.Errorf("find work orders: %w", err)
	}

	eqCount := make(map[string]int)
	for _, eq := range equipment {
		eqCount[eq.VesselID.Hex()]++
	}
	byVessel := groupByVessel(orders)
	now := s.now()

	out := make([]VesselSummary, 0, len(vessels))
	for _, v := range vessels {
		st := ComputeStats(byVessel[v.ID.Hex()], now)
		out = append(out, VesselSummary{
			VesselID:            v.ID.Hex(),
			VesselName:          v.Name,
			VesselType:          v.VesselType,
			EquipmentCount:      eqCount[v.ID.Hex()],
			TotalWorkOrders:     st.Total,
			OverdueWorkOrders:   st.Overdue,
			CompletedWorkOrders: st.Completed,
			CompletionRate:      st.CompletionRate,
		})
	}
	return out, nil
}

func groupByVessel(orders []models.WorkOrder) map[string][]models.WorkOrder {
	out := make(map[string][]models.WorkOrder)
	for _, wo := range orders {
		key := wo.VesselID.Hex()
		out[key] = append(out[key], wo)
	}
	return out
}
