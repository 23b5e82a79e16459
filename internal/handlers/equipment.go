package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/ukydev/marine-pms/internal/models"
	"github.com/ukydev/marine-pms/internal/pms"
)

// GetEquipment returns one equipment item.
func (h *PMSHandler) GetEquipment(w http.ResponseWriter, r *http.Request) {
	eq, err := h.equipmentFor(r, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, eq)
}

// CreateEquipment adds an equipment item to a vessel.
func (h *PMSHandler) CreateEquipment(w http.ResponseWriter, r *http.Request) {
	var eq models.Equipment
	if err := decodeJSON(r, &eq); err != nil {
		writeError(w, h.log, err)
		return
	}
	if err := checkVessel(r, eq.VesselID.Hex()); err != nil {
		writeError(w, h.log, err)
		return
	}
	created, err := h.svc.CreateEquipment(r.Context(), eq)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateEquipment edits an equipment item.
func (h *PMSHandler) UpdateEquipment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.equipmentFor(r, id); err != nil {
		writeError(w, h.log, err)
		return
	}
	var upd pms.EquipmentUpdate
	if err := decodeJSON(r, &upd); err != nil {
		writeError(w, h.log, err)
		return
	}
	eq, err := h.svc.UpdateEquipment(r.Context(), id, upd)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, eq)
}

// DeleteEquipment removes an equipment item and everything below it.
func (h *PMSHandler) DeleteEquipment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.equipmentFor(r, id); err != nil {
		writeError(w, h.log, err)
		return
	}
	removed, err := h.svc.DeleteEquipment(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	h.log.WithFields(logrus.Fields{
		"equipment_id": id,
		"removed":      len(removed),
		"user_id":      userID(r),
	}).Info("Equipment deleted")
	writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": removed})
}
