package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/ukydev/marine-pms/internal/auth"
	"github.com/ukydev/marine-pms/internal/middleware"
	"github.com/ukydev/marine-pms/internal/models"
	"github.com/ukydev/marine-pms/internal/pms"
)

// PMSService is the part of the PMS core the HTTP layer drives.
type PMSService interface {
	Now() time.Time

	Vessels(ctx context.Context, ids []string) ([]models.Vessel, error)
	Vessel(ctx context.Context, id string) (*models.Vessel, error)
	CreateVessel(ctx context.Context, v models.Vessel) (*models.Vessel, error)

	EquipmentTree(ctx context.Context, vesselID string) ([]*pms.EquipmentNode, error)
	VesselEquipment(ctx context.Context, vesselID, category string) ([]models.Equipment, error)
	Equipment(ctx context.Context, id string) (*models.Equipment, error)
	CreateEquipment(ctx context.Context, eq models.Equipment) (*models.Equipment, error)
	UpdateEquipment(ctx context.Context, id string, upd pms.EquipmentUpdate) (*models.Equipment, error)
	DeleteEquipment(ctx context.Context, id string) ([]string, error)

	Record(ctx context.Context, in pms.RecordInput) (*models.RunningHours, error)
	RecordBulk(ctx context.Context, in pms.BulkInput) pms.BulkResult
	LatestByVessel(ctx context.Context, vesselID string) ([]pms.LatestEntry, error)
	History(ctx context.Context, equipmentID string, days int) ([]models.RunningHours, error)
	Chart(ctx context.Context, equipmentID string, days int) ([]pms.ChartPoint, error)

	Plans(ctx context.Context, vesselID, equipmentID string) ([]models.MaintenancePlan, error)
	Plan(ctx context.Context, id string) (*models.MaintenancePlan, error)
	CreatePlan(ctx context.Context, p models.MaintenancePlan) (*models.MaintenancePlan, error)
	UpdatePlan(ctx context.Context, id string, p models.MaintenancePlan) (*models.MaintenancePlan, error)
	DuePlans(ctx context.Context, vesselID string) ([]pms.DuePlan, error)

	WorkOrders(ctx context.Context, f pms.WorkOrderFilter) ([]models.WorkOrderView, error)
	WorkOrder(ctx context.Context, id string) (*models.WorkOrderView, error)
	CreateWorkOrder(ctx context.Context, wo models.WorkOrder, userID string) (*models.WorkOrder, error)
	UpdateWorkOrder(ctx context.Context, id string, upd pms.WorkOrderUpdate, userID string) (*models.WorkOrder, error)
	Stats(ctx context.Context, vesselID string) (pms.PMSStats, error)
	Overdue(ctx context.Context, vesselID string) ([]models.WorkOrder, error)
	Upcoming(ctx context.Context, vesselID string, horizonDays int) ([]models.WorkOrder, error)
	Calendar(ctx context.Context, vesselID string, year int, month time.Month) ([]models.WorkOrderView, error)

	CompletionByVessel(ctx context.Context, vesselID string) ([]pms.VesselCompletion, error)
	StatusDistribution(ctx context.Context, vesselID string) ([]pms.StatusCount, error)
	EquipmentReliability(ctx context.Context, vesselID string) ([]pms.ReliabilityEntry, error)
	FleetSummary(ctx context.Context) ([]pms.VesselSummary, error)
}

// PMSHandler serves vessels, equipment, running hours, maintenance and
// analytics endpoints.
type PMSHandler struct {
	svc PMSService
	log logrus.FieldLogger
}

// NewPMSHandler creates a handler over svc.
func NewPMSHandler(svc PMSService, log logrus.FieldLogger) *PMSHandler {
	return &PMSHandler{svc: svc, log: log}
}

func claimsOf(r *http.Request) *models.Claims {
	claims, _ := middleware.GetUserFromContext(r.Context())
	return claims
}

// scopedVessel resolves the vessel filter of a listing from ?vessel_id=
// and the caller's assignment.
func scopedVessel(r *http.Request) (string, error) {
	id, ok := auth.ScopeVessel(claimsOf(r), r.URL.Query().Get("vessel_id"))
	if !ok {
		return "", errForbiddenVessel
	}
	return id, nil
}

func checkVessel(r *http.Request, vesselID string) error {
	if !auth.CanAccessVessel(claimsOf(r), vesselID) {
		return fmt.Errorf("%w: %s", errForbiddenVessel, vesselID)
	}
	return nil
}

// equipmentFor loads an equipment item the caller may see.
func (h *PMSHandler) equipmentFor(r *http.Request, id string) (*models.Equipment, error) {
	eq, err := h.svc.Equipment(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if err := checkVessel(r, eq.VesselID.Hex()); err != nil {
		return nil, err
	}
	return eq, nil
}

func userID(r *http.Request) string {
	if c := claimsOf(r); c != nil {
		return c.UserID
	}
	return ""
}
