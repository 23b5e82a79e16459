package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/ukydev/marine-pms/internal/models"
	"github.com/ukydev/marine-pms/internal/pms"
)

// ListPlans lists maintenance plans, filtered by ?vessel_id= and
// ?equipment_id=.
func (h *PMSHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	vesselID, err := scopedVessel(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	plans, err := h.svc.Plans(r.Context(), vesselID, r.URL.Query().Get("equipment_id"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

// DuePlans lists active plans that have come due.
func (h *PMSHandler) DuePlans(w http.ResponseWriter, r *http.Request) {
	vesselID, err := scopedVessel(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	plans, err := h.svc.DuePlans(r.Context(), vesselID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

func (h *PMSHandler) planFor(r *http.Request, id string) (*models.MaintenancePlan, error) {
	p, err := h.svc.Plan(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if err := checkVessel(r, p.VesselID.Hex()); err != nil {
		return nil, err
	}
	return p, nil
}

// GetPlan returns one maintenance plan.
func (h *PMSHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	p, err := h.planFor(r, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// CreatePlan adds a maintenance plan to an equipment item.
func (h *PMSHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var p models.MaintenancePlan
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, h.log, err)
		return
	}
	if _, err := h.equipmentFor(r, p.EquipmentID.Hex()); err != nil {
		writeError(w, h.log, err)
		return
	}
	created, err := h.svc.CreatePlan(r.Context(), p)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdatePlan replaces the editable fields of a maintenance plan.
func (h *PMSHandler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.planFor(r, id); err != nil {
		writeError(w, h.log, err)
		return
	}
	var p models.MaintenancePlan
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, h.log, err)
		return
	}
	updated, err := h.svc.UpdatePlan(r.Context(), id, p)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// ListWorkOrders lists work orders filtered by ?vessel_id= and ?status=.
// The Overdue status selects orders past their due date.
func (h *PMSHandler) ListWorkOrders(w http.ResponseWriter, r *http.Request) {
	vesselID, err := scopedVessel(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	status := models.WorkOrderStatus(r.URL.Query().Get("status"))
	if status != "" && status != models.WorkOrderOverdue && !models.IsValidWorkOrderStatus(status) {
		badRequest(w, "unknown work order status: "+string(status))
		return
	}
	orders, err := h.svc.WorkOrders(r.Context(), pms.WorkOrderFilter{VesselID: vesselID, Status: status})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// GetWorkOrder returns one work order.
func (h *PMSHandler) GetWorkOrder(w http.ResponseWriter, r *http.Request) {
	wo, err := h.svc.WorkOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if err := checkVessel(r, wo.VesselID.Hex()); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, wo)
}

// CreateWorkOrder opens a work order on an equipment item.
func (h *PMSHandler) CreateWorkOrder(w http.ResponseWriter, r *http.Request) {
	var wo models.WorkOrder
	if err := decodeJSON(r, &wo); err != nil {
		writeError(w, h.log, err)
		return
	}
	if _, err := h.equipmentFor(r, wo.EquipmentID.Hex()); err != nil {
		writeError(w, h.log, err)
		return
	}
	created, err := h.svc.CreateWorkOrder(r.Context(), wo, userID(r))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateWorkOrder changes a work order, including its status.
func (h *PMSHandler) UpdateWorkOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	current, err := h.svc.WorkOrder(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if err := checkVessel(r, current.VesselID.Hex()); err != nil {
		writeError(w, h.log, err)
		return
	}
	var upd pms.WorkOrderUpdate
	if err := decodeJSON(r, &upd); err != nil {
		writeError(w, h.log, err)
		return
	}
	wo, err := h.svc.UpdateWorkOrder(r.Context(), id, upd, userID(r))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if wo.Status != current.Status {
		h.log.WithFields(logrus.Fields{
			"work_order_id": id,
			"from":          current.Status,
			"to":            wo.Status,
			"user_id":       userID(r),
		}).Info("Work order status changed")
	}
	writeJSON(w, http.StatusOK, wo)
}

// WorkOrderStats summarizes work orders of one vessel or the fleet.
func (h *PMSHandler) WorkOrderStats(w http.ResponseWriter, r *http.Request) {
	vesselID, err := scopedVessel(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	stats, err := h.svc.Stats(r.Context(), vesselID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// OverdueWorkOrders lists overdue work orders, earliest due first.
func (h *PMSHandler) OverdueWorkOrders(w http.ResponseWriter, r *http.Request) {
	vesselID, err := scopedVessel(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	orders, err := h.svc.Overdue(r.Context(), vesselID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// UpcomingWorkOrders lists planned work orders starting within ?days=.
func (h *PMSHandler) UpcomingWorkOrders(w http.ResponseWriter, r *http.Request) {
	vesselID, err := scopedVessel(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	days, err := intQuery(r, "days", pms.DefaultHorizonDays)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	orders, err := h.svc.Upcoming(r.Context(), vesselID, days)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// WorkOrderCalendar lists the work orders planned in ?year= / ?month=,
// defaulting to the current month.
func (h *PMSHandler) WorkOrderCalendar(w http.ResponseWriter, r *http.Request) {
	vesselID, err := scopedVessel(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	now := h.svc.Now()
	year, err := intQuery(r, "year", now.Year())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	month, err := intQuery(r, "month", int(now.Month()))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	orders, err := h.svc.Calendar(r.Context(), vesselID, year, time.Month(month))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}
