package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/ukydev/marine-pms/internal/crm"
	"github.com/ukydev/marine-pms/internal/db"
	"github.com/ukydev/marine-pms/internal/models"
)

// CRMService is the part of the CRM core the HTTP layer drives.
type CRMService interface {
	Customers(ctx context.Context, f db.CustomerFilter) ([]models.Customer, error)
	Customer(ctx context.Context, id string) (*models.Customer, error)
	CreateCustomer(ctx context.Context, c models.Customer) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, id string, upd crm.CustomerUpdate) (*models.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error

	Orders(ctx context.Context, f db.ServiceOrderFilter) ([]models.ServiceOrderView, error)
	Order(ctx context.Context, id string) (*models.ServiceOrderView, error)
	OrdersForUser(ctx context.Context, userID string) ([]models.ServiceOrderView, error)
	CreateOrder(ctx context.Context, o models.ServiceOrder) (*models.ServiceOrder, error)
	UpdateOrder(ctx context.Context, id string, upd crm.OrderUpdate) (*models.ServiceOrder, error)
	Stats(ctx context.Context) (crm.OrderStats, error)

	Inquiries(ctx context.Context, f db.InquiryFilter) ([]models.Inquiry, error)
	Inquiry(ctx context.Context, id string) (*models.Inquiry, error)
	CreateInquiry(ctx context.Context, q models.Inquiry) (*models.Inquiry, error)
	UpdateInquiry(ctx context.Context, id string, upd crm.InquiryUpdate) (*models.Inquiry, error)

	OrderStatusDistribution(ctx context.Context) ([]crm.StatusCount, error)
	MonthlyOrderTrend(ctx context.Context) ([]crm.MonthCount, error)
}

// CRMHandler serves customers, service orders and inquiries.
type CRMHandler struct {
	svc CRMService
	log logrus.FieldLogger
}

// NewCRMHandler creates a handler over svc.
func NewCRMHandler(svc CRMService, log logrus.FieldLogger) *CRMHandler {
	return &CRMHandler{svc: svc, log: log}
}

// ListCustomers lists customers, filtered by ?search= and ?country=.
func (h *CRMHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := pageQuery(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	q := r.URL.Query()
	customers, err := h.svc.Customers(r.Context(), db.CustomerFilter{
		Search:  q.Get("search"),
		Country: q.Get("country"),
		Skip:    skip,
		Limit:   limit,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

func (h *CRMHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Customer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CRMHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var c models.Customer
	if err := decodeJSON(r, &c); err != nil {
		writeError(w, h.log, err)
		return
	}
	created, err := h.svc.CreateCustomer(r.Context(), c)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *CRMHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var upd crm.CustomerUpdate
	if err := decodeJSON(r, &upd); err != nil {
		writeError(w, h.log, err)
		return
	}
	c, err := h.svc.UpdateCustomer(r.Context(), chi.URLParam(r, "id"), upd)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeleteCustomer removes a customer without service orders.
func (h *CRMHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.DeleteCustomer(r.Context(), id); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Customer deleted", "id": id})
}

// ListOrders lists service orders, filtered by ?status=, ?order_type= and
// ?customer_id=.
func (h *CRMHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := pageQuery(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	q := r.URL.Query()
	orders, err := h.svc.Orders(r.Context(), db.ServiceOrderFilter{
		CustomerID: q.Get("customer_id"),
		Status:     models.OrderStatus(q.Get("status")),
		OrderType:  models.OrderType(q.Get("order_type")),
		Skip:       skip,
		Limit:      limit,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// MyOrders lists the orders of the caller's own company.
func (h *CRMHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.OrdersForUser(r.Context(), userID(r))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *CRMHandler) OrderStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *CRMHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.svc.Order(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *CRMHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var o models.ServiceOrder
	if err := decodeJSON(r, &o); err != nil {
		writeError(w, h.log, err)
		return
	}
	created, err := h.svc.CreateOrder(r.Context(), o)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateOrder edits an order; a new status is announced to the customer.
func (h *CRMHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	var upd crm.OrderUpdate
	if err := decodeJSON(r, &upd); err != nil {
		writeError(w, h.log, err)
		return
	}
	o, err := h.svc.UpdateOrder(r.Context(), chi.URLParam(r, "id"), upd)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// ListInquiries lists inquiries, optionally by ?resolved=.
func (h *CRMHandler) ListInquiries(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := pageQuery(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	resolved, err := boolQuery(r, "resolved")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	out, err := h.svc.Inquiries(r.Context(), db.InquiryFilter{Resolved: resolved, Skip: skip, Limit: limit})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CRMHandler) GetInquiry(w http.ResponseWriter, r *http.Request) {
	q, err := h.svc.Inquiry(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

type inquiryRequest struct {
	Subject      string `json:"subject"`
	Message      string `json:"message"`
	ContactEmail string `json:"contact_email"`
}

// CreateInquiry accepts an inquiry from any signed-in user.
func (h *CRMHandler) CreateInquiry(w http.ResponseWriter, r *http.Request) {
	var req inquiryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}
	created, err := h.svc.CreateInquiry(r.Context(), models.Inquiry{
		Subject:      req.Subject,
		Message:      req.Message,
		ContactEmail: req.ContactEmail,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *CRMHandler) UpdateInquiry(w http.ResponseWriter, r *http.Request) {
	var upd crm.InquiryUpdate
	if err := decodeJSON(r, &upd); err != nil {
		writeError(w, h.log, err)
		return
	}
	q, err := h.svc.UpdateInquiry(r.Context(), chi.URLParam(r, "id"), upd)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// OrderStatusDistribution reports orders per status.
func (h *CRMHandler) OrderStatusDistribution(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.OrderStatusDistribution(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// MonthlyOrders reports orders created per month.
func (h *CRMHandler) MonthlyOrders(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.MonthlyOrderTrend(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
