package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ukydev/marine-pms/internal/models"
)

// ListVessels lists the vessels the caller may see.
func (h *PMSHandler) ListVessels(w http.ResponseWriter, r *http.Request) {
	var ids []string
	if c := claimsOf(r); c != nil && models.IsCrew(c.Role) && c.VesselID != "" {
		ids = []string{c.VesselID}
	}
	vessels, err := h.svc.Vessels(r.Context(), ids)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, vessels)
}

// GetVessel returns one vessel.
func (h *PMSHandler) GetVessel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := checkVessel(r, id); err != nil {
		writeError(w, h.log, err)
		return
	}
	v, err := h.svc.Vessel(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// CreateVessel registers a vessel.
func (h *PMSHandler) CreateVessel(w http.ResponseWriter, r *http.Request) {
	var v models.Vessel
	if err := decodeJSON(r, &v); err != nil {
		writeError(w, h.log, err)
		return
	}
	created, err := h.svc.CreateVessel(r.Context(), v)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	h.log.WithField("vessel_id", created.ID.Hex()).Info("Vessel created")
	writeJSON(w, http.StatusCreated, created)
}

// EquipmentTree returns a vessel's equipment hierarchy.
func (h *PMSHandler) EquipmentTree(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := checkVessel(r, id); err != nil {
		writeError(w, h.log, err)
		return
	}
	tree, err := h.svc.EquipmentTree(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

// VesselEquipment lists a vessel's equipment as a flat list, optionally
// filtered by ?category=.
func (h *PMSHandler) VesselEquipment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := checkVessel(r, id); err != nil {
		writeError(w, h.log, err)
		return
	}
	items, err := h.svc.VesselEquipment(r.Context(), id, r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}
