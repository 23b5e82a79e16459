package handlers

import (
	"net/http"

	"github.com/ukydev/marine-pms/internal/auth"
	"github.com/ukydev/marine-pms/internal/pms"
)

// CompletionRate reports the completion rate per vessel.
func (h *PMSHandler) CompletionRate(w http.ResponseWriter, r *http.Request) {
	vesselID, err := scopedVessel(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	rows, err := h.svc.CompletionByVessel(r.Context(), vesselID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// WorkOrderDistribution counts work orders per status.
func (h *PMSHandler) WorkOrderDistribution(w http.ResponseWriter, r *http.Request) {
	vesselID, err := scopedVessel(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	rows, err := h.svc.StatusDistribution(r.Context(), vesselID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// EquipmentReliability ranks equipment by work-order completion.
func (h *PMSHandler) EquipmentReliability(w http.ResponseWriter, r *http.Request) {
	vesselID, err := scopedVessel(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	rows, err := h.svc.EquipmentReliability(r.Context(), vesselID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// VesselSummary reports the fleet overview, limited to the vessels the
// caller may see.
func (h *PMSHandler) VesselSummary(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.FleetSummary(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	claims := claimsOf(r)
	visible := make([]pms.VesselSummary, 0, len(rows))
	for _, row := range rows {
		if auth.CanAccessVessel(claims, row.VesselID) {
			visible = append(visible, row)
		}
	}
	writeJSON(w, http.StatusOK, visible)
}
