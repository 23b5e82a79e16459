package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/ukydev/marine-pms/internal/models"
)

// NotificationService reads and updates the caller's notifications.
type NotificationService interface {
	List(ctx context.Context, userID string, skip, limit int) ([]models.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id, userID string) (*models.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	CheckLowStock(ctx context.Context) (int, error)
}

// NotificationHandler serves the per-user notification inbox.
type NotificationHandler struct {
	svc NotificationService
	log logrus.FieldLogger
}

// NewNotificationHandler creates a handler over svc.
func NewNotificationHandler(svc NotificationService, log logrus.FieldLogger) *NotificationHandler {
	return &NotificationHandler{svc: svc, log: log}
}

// List returns the caller's notifications, newest first.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := pageQuery(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	notes, err := h.svc.List(r.Context(), userID(r), skip, limit)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.UnreadCount(r.Context(), userID(r))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"count": n})
}

// MarkRead flags one notification read. Other users' notifications are
// reported as not found.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	note, err := h.svc.MarkRead(r.Context(), chi.URLParam(r, "id"), userID(r))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.MarkAllRead(r.Context(), userID(r))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "All notifications marked as read", "updated": n})
}

// CheckLowStock alerts the admins about every part currently low on stock.
func (h *NotificationHandler) CheckLowStock(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.CheckLowStock(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"low_stock": n})
}
