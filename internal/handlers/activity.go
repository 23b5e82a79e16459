package handlers

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/ukydev/marine-pms/internal/activity"
	"github.com/ukydev/marine-pms/internal/db"
	"github.com/ukydev/marine-pms/internal/models"
)

// ActivityService queries the user activity trail.
type ActivityService interface {
	List(ctx context.Context, f db.ActivityFilter) (activity.Page, error)
	Online(ctx context.Context) ([]models.OnlineUser, error)
}

// ActivityHandler serves the activity trail to developers.
type ActivityHandler struct {
	svc ActivityService
	log logrus.FieldLogger
}

// NewActivityHandler creates a handler over svc.
func NewActivityHandler(svc ActivityService, log logrus.FieldLogger) *ActivityHandler {
	return &ActivityHandler{svc: svc, log: log}
}

// Logs lists trail entries, filtered by ?action= and ?user_id= and paged
// by ?offset= and ?limit=.
func (h *ActivityHandler) Logs(w http.ResponseWriter, r *http.Request) {
	offset, err := intQuery(r, "offset", 0)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	limit, err := intQuery(r, "limit", activity.DefaultPageSize)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if offset < 0 || limit < 1 || limit > activity.MaxPageSize {
		badRequest(w, "offset must be >= 0 and limit between 1 and 500")
		return
	}
	q := r.URL.Query()
	page, err := h.svc.List(r.Context(), db.ActivityFilter{
		Action: q.Get("action"),
		UserID: q.Get("user_id"),
		Skip:   offset,
		Limit:  limit,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Online lists the users currently signed in.
func (h *ActivityHandler) Online(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.Online(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}
