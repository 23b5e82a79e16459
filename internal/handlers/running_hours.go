package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/ukydev/marine-pms/internal/export"
	"github.com/ukydev/marine-pms/internal/models"
	"github.com/ukydev/marine-pms/internal/pms"
)

type recordRequest struct {
	EquipmentID  string  `json:"equipment_id"`
	RecordedDate string  `json:"recorded_date"`
	DailyHours   float64 `json:"daily_hours"`
	Note         string  `json:"note"`
}

type bulkRequest struct {
	VesselID     string         `json:"vessel_id"`
	RecordedDate string         `json:"recorded_date"`
	Records      []pms.BulkItem `json:"records"`
}

type recordResponse struct {
	models.RunningHours
	EquipmentName string `json:"equipment_name"`
	EquipmentCode string `json:"equipment_code"`
}

// recordDate parses an optional YYYY-MM-DD date; empty means today.
func (h *PMSHandler) recordDate(raw string) (time.Time, error) {
	if raw == "" {
		return models.CalendarDate(h.svc.Now()), nil
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: recorded_date must be YYYY-MM-DD", pms.ErrInvalidInput)
	}
	return d, nil
}

// RecordHours stores one day of running hours for one equipment item.
func (h *PMSHandler) RecordHours(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}
	if req.EquipmentID == "" {
		badRequest(w, "equipment_id is required")
		return
	}
	date, err := h.recordDate(req.RecordedDate)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	eq, err := h.equipmentFor(r, req.EquipmentID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	rec, err := h.svc.Record(r.Context(), pms.RecordInput{
		EquipmentID: req.EquipmentID,
		Date:        date,
		DailyHours:  req.DailyHours,
		RecordedBy:  userID(r),
		Note:        req.Note,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, recordResponse{
		RunningHours:  *rec,
		EquipmentName: eq.Name,
		EquipmentCode: eq.EquipmentCode,
	})
}

// RecordHoursBulk stores one day of running hours for several equipment
// items. Items that fail are listed in the result.
func (h *PMSHandler) RecordHoursBulk(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}
	if req.VesselID != "" {
		if err := checkVessel(r, req.VesselID); err != nil {
			writeError(w, h.log, err)
			return
		}
	}
	date, err := h.recordDate(req.RecordedDate)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	items, denied := h.accessibleItems(r, req.Records)
	res := h.svc.RecordBulk(r.Context(), pms.BulkInput{
		Date:       date,
		RecordedBy: userID(r),
		Items:      items,
	})
	res.Errors = append(res.Errors, denied...)

	h.log.WithFields(logrus.Fields{
		"date":     res.Date,
		"recorded": res.Recorded,
		"failed":   len(res.Errors),
		"user_id":  userID(r),
	}).Info("Bulk running hours recorded")
	writeJSON(w, http.StatusOK, res)
}

// accessibleItems drops items on vessels outside a crew member's
// assignment and reports them as errors.
func (h *PMSHandler) accessibleItems(r *http.Request, items []pms.BulkItem) ([]pms.BulkItem, []string) {
	c := claimsOf(r)
	if c == nil || !models.IsCrew(c.Role) || c.VesselID == "" {
		return items, nil
	}
	allowed := make([]pms.BulkItem, 0, len(items))
	var denied []string
	for _, item := range items {
		if _, err := h.equipmentFor(r, item.EquipmentID); err != nil {
			denied = append(denied, fmt.Sprintf("%s: %v", item.EquipmentID, err))
			continue
		}
		allowed = append(allowed, item)
	}
	return allowed, denied
}

// VesselLatestHours lists the current counter of each active equipment
// item of a vessel.
func (h *PMSHandler) VesselLatestHours(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := checkVessel(r, id); err != nil {
		writeError(w, h.log, err)
		return
	}
	entries, err := h.svc.LatestByVessel(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HoursHistory lists the records of the last ?days= days.
func (h *PMSHandler) HoursHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	days, err := intQuery(r, "days", pms.DefaultHistoryDays)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if _, err := h.equipmentFor(r, id); err != nil {
		writeError(w, h.log, err)
		return
	}
	records, err := h.svc.History(r.Context(), id, days)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// HoursChart returns chart points for the last ?days= days.
func (h *PMSHandler) HoursChart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	days, err := intQuery(r, "days", pms.DefaultHistoryDays)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if _, err := h.equipmentFor(r, id); err != nil {
		writeError(w, h.log, err)
		return
	}
	points, err := h.svc.Chart(r.Context(), id, days)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

// ExportHours downloads the last ?days= days as an xlsx workbook.
func (h *PMSHandler) ExportHours(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	days, err := intQuery(r, "days", pms.DefaultHistoryDays)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	eq, err := h.equipmentFor(r, id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	records, err := h.svc.History(r.Context(), id, days)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteRunningHours(&buf, *eq, records); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.FileName(*eq)))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
