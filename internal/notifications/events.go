package notifications

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/ukydev/marine-pms/internal/inventory"
	"github.com/ukydev/marine-pms/internal/models"
	"github.com/ukydev/marine-pms/internal/pms"
)

// StatusChangeNotification describes an equipment health change.
func StatusChangeNotification(c pms.StatusChange) models.Notification {
	eq := c.Equipment
	kind := models.NotificationInfo
	switch eq.Status {
	case models.EquipmentStatusWarning, models.EquipmentStatusCritical:
		kind = models.NotificationWarning
	case models.EquipmentStatusNormal:
		kind = models.NotificationSuccess
	}
	return models.Notification{
		Title:         fmt.Sprintf("Equipment %s: %s", eq.EquipmentCode, eq.Status),
		Message:       fmt.Sprintf("%s changed from %s to %s at %.0f running hours.", eq.Name, c.Previous, eq.Status, eq.CurrentRunningHours),
		Type:          kind,
		ReferenceID:   eq.ID.Hex(),
		ReferenceType: "equipment",
	}
}

// LowStockNotification describes a stock record at or below its minimum.
func LowStockNotification(inventoryID, partName string, quantity, minQuantity int) models.Notification {
	return models.Notification{
		Title:         "Low Stock Alert",
		Message:       fmt.Sprintf("%s: %d units remaining (min: %d)", partName, quantity, minQuantity),
		Type:          models.NotificationWarning,
		ReferenceID:   inventoryID,
		ReferenceType: "inventory",
	}
}

// NotifyStatusChange tells the admins about an equipment health change.
func (s *Service) NotifyStatusChange(ctx context.Context, c pms.StatusChange) error {
	return s.NotifyAdmins(ctx, StatusChangeNotification(c))
}

// NotifyLowStock tells the admins a part is running out.
func (s *Service) NotifyLowStock(ctx context.Context, a inventory.StockAlert) error {
	return s.NotifyAdmins(ctx, LowStockNotification(a.Item.ID.Hex(), a.Part.Name, a.Item.Quantity, a.Item.MinQuantity))
}

// CheckLowStock alerts the admins about every stock record currently at or
// below its minimum and reports how many there were.
func (s *Service) CheckLowStock(ctx context.Context) (int, error) {
	if s.stock == nil {
		return 0, nil
	}
	items, err := s.stock.LowStock(ctx)
	if err != nil {
		return 0, fmt.Errorf("find low stock: %w", err)
	}
	for _, item := range items {
		n := LowStockNotification(item.ID.Hex(), item.PartName, item.Quantity, item.MinQuantity)
		if err := s.NotifyAdmins(ctx, n); err != nil {
			return 0, err
		}
	}
	s.log.WithFields(logrus.Fields{"low_stock": len(items)}).Info("Low stock check done")
	return len(items), nil
}
