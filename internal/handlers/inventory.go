package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/ukydev/marine-pms/internal/db"
	"github.com/ukydev/marine-pms/internal/inventory"
	"github.com/ukydev/marine-pms/internal/models"
	"github.com/ukydev/marine-pms/internal/pms"
)

const defaultPageSize = 50

// InventoryService is the part of the inventory core the HTTP layer drives.
type InventoryService interface {
	Parts(ctx context.Context, f db.PartFilter) ([]models.PartView, error)
	Part(ctx context.Context, id string) (*models.PartView, error)
	CreatePart(ctx context.Context, p models.Part) (*models.Part, error)
	UpdatePart(ctx context.Context, id string, upd inventory.PartUpdate) (*models.Part, error)
	DeletePart(ctx context.Context, id string) error
	Brands(ctx context.Context) ([]string, error)
	Categories(ctx context.Context) ([]string, error)

	Stock(ctx context.Context, f db.InventoryFilter) ([]models.InventoryView, error)
	LowStock(ctx context.Context) ([]models.InventoryView, error)
	Stats(ctx context.Context) (inventory.StockStats, error)
	UpdateStock(ctx context.Context, id string, upd inventory.StockUpdate) (*models.InventoryItem, error)
	Adjust(ctx context.Context, id string, delta int, reason string) (*models.InventoryItem, error)

	InventoryByBrand(ctx context.Context) ([]inventory.BrandQuantity, error)
	InventoryValueByBrand(ctx context.Context) ([]inventory.BrandValue, error)
	LowStockReport(ctx context.Context) ([]inventory.LowStockEntry, error)
}

// InventoryHandler serves the parts catalogue and stock endpoints.
type InventoryHandler struct {
	svc InventoryService
	log logrus.FieldLogger
}

// NewInventoryHandler creates a handler over svc.
func NewInventoryHandler(svc InventoryService, log logrus.FieldLogger) *InventoryHandler {
	return &InventoryHandler{svc: svc, log: log}
}

// pageQuery reads ?skip= and ?limit=.
func pageQuery(r *http.Request) (skip, limit int, err error) {
	if skip, err = intQuery(r, "skip", 0); err != nil {
		return 0, 0, err
	}
	if limit, err = intQuery(r, "limit", defaultPageSize); err != nil {
		return 0, 0, err
	}
	if skip < 0 || limit < 1 {
		return 0, 0, fmt.Errorf("%w: skip must be >= 0 and limit >= 1", pms.ErrInvalidInput)
	}
	return skip, limit, nil
}

// boolQuery reads an optional boolean query parameter.
func boolQuery(r *http.Request, key string) (*bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be true or false", pms.ErrInvalidInput, key)
	}
	return &b, nil
}

// ListParts lists catalogue parts with their stock, filtered by ?brand=,
// ?category= and ?search=.
func (h *InventoryHandler) ListParts(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := pageQuery(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	q := r.URL.Query()
	parts, err := h.svc.Parts(r.Context(), db.PartFilter{
		Brand:    q.Get("brand"),
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Skip:     skip,
		Limit:    limit,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, parts)
}

// GetPart returns one part with its stock.
func (h *InventoryHandler) GetPart(w http.ResponseWriter, r *http.Request) {
	part, err := h.svc.Part(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, part)
}

// CreatePart adds a part to the catalogue.
func (h *InventoryHandler) CreatePart(w http.ResponseWriter, r *http.Request) {
	var p models.Part
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, h.log, err)
		return
	}
	created, err := h.svc.CreatePart(r.Context(), p)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdatePart edits a part.
func (h *InventoryHandler) UpdatePart(w http.ResponseWriter, r *http.Request) {
	var upd inventory.PartUpdate
	if err := decodeJSON(r, &upd); err != nil {
		writeError(w, h.log, err)
		return
	}
	part, err := h.svc.UpdatePart(r.Context(), chi.URLParam(r, "id"), upd)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, part)
}

// DeletePart removes a part and its stock record.
func (h *InventoryHandler) DeletePart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.DeletePart(r.Context(), id); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Part deleted", "id": id})
}

// PartBrands lists the brands in the catalogue.
func (h *InventoryHandler) PartBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.svc.Brands(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, brands)
}

// PartCategories lists the categories in the catalogue.
func (h *InventoryHandler) PartCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.Categories(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// ListStock lists stock records, optionally ?low_stock_only=true or by
// ?warehouse=.
func (h *InventoryHandler) ListStock(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := pageQuery(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	lowOnly, err := boolQuery(r, "low_stock_only")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	items, err := h.svc.Stock(r.Context(), db.InventoryFilter{
		Warehouse:    r.URL.Query().Get("warehouse"),
		LowStockOnly: lowOnly != nil && *lowOnly,
		Skip:         skip,
		Limit:        limit,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// LowStock lists the stock records at or below their minimum.
func (h *InventoryHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.LowStock(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// StockStats summarizes stock levels.
func (h *InventoryHandler) StockStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// UpdateStock sets quantity, minimum or warehouse of a stock record.
func (h *InventoryHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	var upd inventory.StockUpdate
	if err := decodeJSON(r, &upd); err != nil {
		writeError(w, h.log, err)
		return
	}
	item, err := h.svc.UpdateStock(r.Context(), chi.URLParam(r, "id"), upd)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

type adjustRequest struct {
	Adjustment *int   `json:"adjustment"`
	Reason     string `json:"reason"`
}

// AdjustStock adds to or takes from a stock record. Taking more than is
// on hand is rejected.
func (h *InventoryHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	var req adjustRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}
	if req.Adjustment == nil {
		badRequest(w, "adjustment is required")
		return
	}
	item, err := h.svc.Adjust(r.Context(), chi.URLParam(r, "id"), *req.Adjustment, req.Reason)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// InventoryByBrand reports stock quantity per brand.
func (h *InventoryHandler) InventoryByBrand(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.InventoryByBrand(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// InventoryValueByBrand reports stock value per brand.
func (h *InventoryHandler) InventoryValueByBrand(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.InventoryValueByBrand(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// LowStockSummary lists the low stock parts for the analytics view.
func (h *InventoryHandler) LowStockSummary(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.LowStockReport(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
