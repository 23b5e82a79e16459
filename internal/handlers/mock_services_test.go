package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/ukydev/marine-pms/internal/activity"
	"github.com/ukydev/marine-pms/internal/crm"
	"github.com/ukydev/marine-pms/internal/db"
	"github.com/ukydev/marine-pms/internal/inventory"
	"github.com/ukydev/marine-pms/internal/models"
)

// MockInventoryService is a mock implementation of InventoryService
type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) Parts(ctx context.Context, f db.PartFilter) ([]models.PartView, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.PartView), args.Error(1)
}

func (m *MockInventoryService) Part(ctx context.Context, id string) (*models.PartView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PartView), args.Error(1)
}

func (m *MockInventoryService) CreatePart(ctx context.Context, p models.Part) (*models.Part, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Part), args.Error(1)
}

func (m *MockInventoryService) UpdatePart(ctx context.Context, id string, upd inventory.PartUpdate) (*models.Part, error) {
	args := m.Called(ctx, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Part), args.Error(1)
}

func (m *MockInventoryService) DeletePart(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockInventoryService) Brands(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockInventoryService) Categories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockInventoryService) Stock(ctx context.Context, f db.InventoryFilter) ([]models.InventoryView, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.InventoryView), args.Error(1)
}

func (m *MockInventoryService) LowStock(ctx context.Context) ([]models.InventoryView, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.InventoryView), args.Error(1)
}

func (m *MockInventoryService) Stats(ctx context.Context) (inventory.StockStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(inventory.StockStats), args.Error(1)
}

func (m *MockInventoryService) UpdateStock(ctx context.Context, id string, upd inventory.StockUpdate) (*models.InventoryItem, error) {
	args := m.Called(ctx, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryService) Adjust(ctx context.Context, id string, delta int, reason string) (*models.InventoryItem, error) {
	args := m.Called(ctx, id, delta, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryService) InventoryByBrand(ctx context.Context) ([]inventory.BrandQuantity, error) {
	args := m.Called(ctx)
	return args.Get(0).([]inventory.BrandQuantity), args.Error(1)
}

func (m *MockInventoryService) InventoryValueByBrand(ctx context.Context) ([]inventory.BrandValue, error) {
	args := m.Called(ctx)
	return args.Get(0).([]inventory.BrandValue), args.Error(1)
}

func (m *MockInventoryService) LowStockReport(ctx context.Context) ([]inventory.LowStockEntry, error) {
	args := m.Called(ctx)
	return args.Get(0).([]inventory.LowStockEntry), args.Error(1)
}

// MockCRMService is a mock implementation of CRMService
type MockCRMService struct {
	mock.Mock
}

func (m *MockCRMService) Customers(ctx context.Context, f db.CustomerFilter) ([]models.Customer, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.Customer), args.Error(1)
}

func (m *MockCRMService) Customer(ctx context.Context, id string) (*models.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockCRMService) CreateCustomer(ctx context.Context, c models.Customer) (*models.Customer, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockCRMService) UpdateCustomer(ctx context.Context, id string, upd crm.CustomerUpdate) (*models.Customer, error) {
	args := m.Called(ctx, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockCRMService) DeleteCustomer(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCRMService) Orders(ctx context.Context, f db.ServiceOrderFilter) ([]models.ServiceOrderView, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.ServiceOrderView), args.Error(1)
}

func (m *MockCRMService) Order(ctx context.Context, id string) (*models.ServiceOrderView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ServiceOrderView), args.Error(1)
}

func (m *MockCRMService) OrdersForUser(ctx context.Context, userID string) ([]models.ServiceOrderView, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.ServiceOrderView), args.Error(1)
}

func (m *MockCRMService) CreateOrder(ctx context.Context, o models.ServiceOrder) (*models.ServiceOrder, error) {
	args := m.Called(ctx, o)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ServiceOrder), args.Error(1)
}

func (m *MockCRMService) UpdateOrder(ctx context.Context, id string, upd crm.OrderUpdate) (*models.ServiceOrder, error) {
	args := m.Called(ctx, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ServiceOrder), args.Error(1)
}

func (m *MockCRMService) Stats(ctx context.Context) (crm.OrderStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(crm.OrderStats), args.Error(1)
}

func (m *MockCRMService) Inquiries(ctx context.Context, f db.InquiryFilter) ([]models.Inquiry, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.Inquiry), args.Error(1)
}

func (m *MockCRMService) Inquiry(ctx context.Context, id string) (*models.Inquiry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inquiry), args.Error(1)
}

func (m *MockCRMService) CreateInquiry(ctx context.Context, q models.Inquiry) (*models.Inquiry, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inquiry), args.Error(1)
}

func (m *MockCRMService) UpdateInquiry(ctx context.Context, id string, upd crm.InquiryUpdate) (*models.Inquiry, error) {
	args := m.Called(ctx, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inquiry), args.Error(1)
}

func (m *MockCRMService) OrderStatusDistribution(ctx context.Context) ([]crm.StatusCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]crm.StatusCount), args.Error(1)
}

func (m *MockCRMService) MonthlyOrderTrend(ctx context.Context) ([]crm.MonthCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]crm.MonthCount), args.Error(1)
}

// MockNotificationService is a mock implementation of NotificationService
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) List(ctx context.Context, userID string, skip, limit int) ([]models.Notification, error) {
	args := m.Called(ctx, userID, skip, limit)
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, id, userID string) (*models.Notification, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *MockNotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationService) CheckLowStock(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockActivityService is a mock implementation of ActivityService
type MockActivityService struct {
	mock.Mock
}

func (m *MockActivityService) List(ctx context.Context, f db.ActivityFilter) (activity.Page, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(activity.Page), args.Error(1)
}

func (m *MockActivityService) Online(ctx context.Context) ([]models.OnlineUser, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.OnlineUser), args.Error(1)
}

// MockActivityRecorder is a mock implementation of middleware.ActivityRecorder
type MockActivityRecorder struct {
	mock.Mock
}

func (m *MockActivityRecorder) Record(ctx context.Context, entry models.ActivityLog) {
	m.Called(ctx, entry)
}
