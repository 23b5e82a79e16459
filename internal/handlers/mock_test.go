package handlers

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/ukydev/marine-pms/internal/models"
	"github.com/ukydev/marine-pms/internal/pms"
)

// MockPMSService is a mock implementation of PMSService
type MockPMSService struct {
	mock.Mock
	now time.Time
}

func (m *MockPMSService) Now() time.Time { return m.now }

func (m *MockPMSService) Vessels(ctx context.Context, ids []string) ([]models.Vessel, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]models.Vessel), args.Error(1)
}

func (m *MockPMSService) Vessel(ctx context.Context, id string) (*models.Vessel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vessel), args.Error(1)
}

func (m *MockPMSService) CreateVessel(ctx context.Context, v models.Vessel) (*models.Vessel, error) {
	args := m.Called(ctx, v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vessel), args.Error(1)
}

func (m *MockPMSService) EquipmentTree(ctx context.Context, vesselID string) ([]*pms.EquipmentNode, error) {
	args := m.Called(ctx, vesselID)
	return args.Get(0).([]*pms.EquipmentNode), args.Error(1)
}

func (m *MockPMSService) VesselEquipment(ctx context.Context, vesselID, category string) ([]models.Equipment, error) {
	args := m.Called(ctx, vesselID, category)
	return args.Get(0).([]models.Equipment), args.Error(1)
}

func (m *MockPMSService) Equipment(ctx context.Context, id string) (*models.Equipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Equipment), args.Error(1)
}

func (m *MockPMSService) CreateEquipment(ctx context.Context, eq models.Equipment) (*models.Equipment, error) {
	args := m.Called(ctx, eq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Equipment), args.Error(1)
}

func (m *MockPMSService) UpdateEquipment(ctx context.Context, id string, upd pms.EquipmentUpdate) (*models.Equipment, error) {
	args := m.Called(ctx, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Equipment), args.Error(1)
}

func (m *MockPMSService) DeleteEquipment(ctx context.Context, id string) ([]string, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockPMSService) Record(ctx context.Context, in pms.RecordInput) (*models.RunningHours, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RunningHours), args.Error(1)
}

func (m *MockPMSService) RecordBulk(ctx context.Context, in pms.BulkInput) pms.BulkResult {
	args := m.Called(ctx, in)
	return args.Get(0).(pms.BulkResult)
}

func (m *MockPMSService) LatestByVessel(ctx context.Context, vesselID string) ([]pms.LatestEntry, error) {
	args := m.Called(ctx, vesselID)
	return args.Get(0).([]pms.LatestEntry), args.Error(1)
}

func (m *MockPMSService) History(ctx context.Context, equipmentID string, days int) ([]models.RunningHours, error) {
	args := m.Called(ctx, equipmentID, days)
	return args.Get(0).([]models.RunningHours), args.Error(1)
}

func (m *MockPMSService) Chart(ctx context.Context, equipmentID string, days int) ([]pms.ChartPoint, error) {
	args := m.Called(ctx, equipmentID, days)
	return args.Get(0).([]pms.ChartPoint), args.Error(1)
}

func (m *MockPMSService) Plans(ctx context.Context, vesselID, equipmentID string) ([]models.MaintenancePlan, error) {
	args := m.Called(ctx, vesselID, equipmentID)
	return args.Get(0).([]models.MaintenancePlan), args.Error(1)
}

func (m *MockPMSService) Plan(ctx context.Context, id string) (*models.MaintenancePlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MaintenancePlan), args.Error(1)
}

func (m *MockPMSService) CreatePlan(ctx context.Context, p models.MaintenancePlan) (*models.MaintenancePlan, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MaintenancePlan), args.Error(1)
}

func (m *MockPMSService) UpdatePlan(ctx context.Context, id string, p models.MaintenancePlan) (*models.MaintenancePlan, error) {
	args := m.Called(ctx, id, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MaintenancePlan), args.Error(1)
}

func (m *MockPMSService) DuePlans(ctx context.Context, vesselID string) ([]pms.DuePlan, error) {
	args := m.Called(ctx, vesselID)
	return args.Get(0).([]pms.DuePlan), args.Error(1)
}

func (m *MockPMSService) WorkOrders(ctx context.Context, f pms.WorkOrderFilter) ([]models.WorkOrderView, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.WorkOrderView), args.Error(1)
}

func (m *MockPMSService) WorkOrder(ctx context.Context, id string) (*models.WorkOrderView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkOrderView), args.Error(1)
}

func (m *MockPMSService) CreateWorkOrder(ctx context.Context, wo models.WorkOrder, userID string) (*models.WorkOrder, error) {
	args := m.Called(ctx, wo, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkOrder), args.Error(1)
}

func (m *MockPMSService) UpdateWorkOrder(ctx context.Context, id string, upd pms.WorkOrderUpdate, userID string) (*models.WorkOrder, error) {
	args := m.Called(ctx, id, upd, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkOrder), args.Error(1)
}

func (m *MockPMSService) Stats(ctx context.Context, vesselID string) (pms.PMSStats, error) {
	args := m.Called(ctx, vesselID)
	return args.Get(0).(pms.PMSStats), args.Error(1)
}

func (m *MockPMSService) Overdue(ctx context.Context, vesselID string) ([]models.WorkOrder, error) {
	args := m.Called(ctx, vesselID)
	return args.Get(0).([]models.WorkOrder), args.Error(1)
}

func (m *MockPMSService) Upcoming(ctx context.Context, vesselID string, horizonDays int) ([]models.WorkOrder, error) {
	args := m.Called(ctx, vesselID, horizonDays)
	return args.Get(0).([]models.WorkOrder), args.Error(1)
}

func (m *MockPMSService) Calendar(ctx context.Context, vesselID string, year int, month time.Month) ([]models.WorkOrderView, error) {
	args := m.Called(ctx, vesselID, year, month)
	return args.Get(0).([]models.WorkOrderView), args.Error(1)
}

func (m *MockPMSService) CompletionByVessel(ctx context.Context, vesselID string) ([]pms.VesselCompletion, error) {
	args := m.Called(ctx, vesselID)
	return args.Get(0).([]pms.VesselCompletion), args.Error(1)
}

func (m *MockPMSService) StatusDistribution(ctx context.Context, vesselID string) ([]pms.StatusCount, error) {
	args := m.Called(ctx, vesselID)
	return args.Get(0).([]pms.StatusCount), args.Error(1)
}

func (m *MockPMSService) EquipmentReliability(ctx context.Context, vesselID string) ([]pms.ReliabilityEntry, error) {
	args := m.Called(ctx, vesselID)
	return args.Get(0).([]pms.ReliabilityEntry), args.Error(1)
}

func (m *MockPMSService) FleetSummary(ctx context.Context) ([]pms.VesselSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).([]pms.VesselSummary), args.Error(1)
}
