package crm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/ukydev/marine-pms/internal/db"
	"github.com/ukydev/marine-pms/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderUpdate carries the editable order fields. Nil fields are left
// alone.
type OrderUpdate struct {
	Status      *models.OrderStatus `json:"status"`
	Description *string             `json:"description"`
	VesselName  *string             `json:"vessel_name"`
}

// OrderStats counts orders per open state.
type OrderStats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Cancelled  int `json:"cancelled"`
}

// withCustomers joins orders with their customers' names.
func (s *Service) withCustomers(ctx context.Context, orders []models.ServiceOrder) ([]models.ServiceOrderView, error) {
	seen := make(map[primitive.ObjectID]bool)
	ids := make([]primitive.ObjectID, 0)
	for _, o := range orders {
		if !seen[o.CustomerID] {
			seen[o.CustomerID] = true
			ids = append(ids, o.CustomerID)
		}
	}
	customers, err := s.customers.FindCustomersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find customers: %w", err)
	}
	byID := make(map[primitive.ObjectID]models.Customer, len(customers))
	for _, c := range customers {
		byID[c.ID] = c
	}
	out := make([]models.ServiceOrderView, 0, len(orders))
	for _, o := range orders {
		c := byID[o.CustomerID]
		out = append(out, models.ServiceOrderView{
			ServiceOrder:    o,
			CustomerName:    c.ContactName,
			CustomerCompany: c.CompanyName,
		})
	}
	return out, nil
}

// Orders lists service orders, newest first.
func (s *Service) Orders(ctx context.Context, f db.ServiceOrderFilter) ([]models.ServiceOrderView, error) {
	orders, err := s.orders.FindServiceOrders(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("find service orders: %w", err)
	}
	return s.withCustomers(ctx, orders)
}

// Order returns one service order.
func (s *Service) Order(ctx context.Context, id string) (*models.ServiceOrderView, error) {
	o, err := s.orders.FindServiceOrderByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find service order %s: %w", id, err)
	}
	views, err := s.withCustomers(ctx, []models.ServiceOrder{*o})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// OrdersForUser lists the orders of the customer whose email matches the
// user's. Users without a customer record have none.
func (s *Service) OrdersForUser(ctx context.Context, userID string) ([]models.ServiceOrderView, error) {
	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", userID, err)
	}
	c, err := s.customers.FindCustomerByEmail(ctx, strings.ToLower(user.Email))
	if errors.Is(err, db.ErrNotFound) {
		return []models.ServiceOrderView{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find customer by email: %w", err)
	}
	return s.Orders(ctx, db.ServiceOrderFilter{CustomerID: c.ID.Hex()})
}

// CreateOrder opens a service order for an existing customer. The status
// defaults to Pending.
func (s *Service) CreateOrder(ctx context.Context, o models.ServiceOrder) (*models.ServiceOrder, error) {
	switch {
	case !models.IsValidOrderType(o.OrderType):
		return nil, fmt.Errorf("%w: unknown order type %q", ErrInvalidInput, o.OrderType)
	case strings.TrimSpace(o.TurboBrand) == "":
		return nil, fmt.Errorf("%w: turbo_brand is required", ErrInvalidInput)
	case strings.TrimSpace(o.TurboModel) == "":
		return nil, fmt.Errorf("%w: turbo_model is required", ErrInvalidInput)
	}
	if o.Status == "" {
		o.Status = models.OrderPending
	}
	if !models.IsValidOrderStatus(o.Status) {
		return nil, fmt.Errorf("%w: unknown order status %q", ErrInvalidInput, o.Status)
	}
	if _, err := s.customers.FindCustomerByID(ctx, o.CustomerID.Hex()); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: customer %s does not exist", ErrInvalidInput, o.CustomerID.Hex())
		}
		return nil, fmt.Errorf("find customer: %w", err)
	}
	now := s.now()
	o.CreatedAt = now
	o.UpdatedAt = now
	created, err := s.orders.InsertServiceOrder(ctx, o)
	if err != nil {
		return nil, fmt.Errorf("insert service order: %w", err)
	}
	s.log.WithFields(logrus.Fields{"order_id": created.ID.Hex(), "customer_id": o.CustomerID.Hex()}).Info("Service order created")
	return created, nil
}

// UpdateOrder applies upd to an order. A status change notifies the
// customer's user account.
func (s *Service) UpdateOrder(ctx context.Context, id string, upd OrderUpdate) (*models.ServiceOrder, error) {
	o, err := s.orders.FindServiceOrderByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find service order %s: %w", id, err)
	}
	previous := o.Status
	if upd.Status != nil {
		if !models.IsValidOrderStatus(*upd.Status) {
			return nil, fmt.Errorf("%w: unknown order status %q", ErrInvalidInput, *upd.Status)
		}
		o.Status = *upd.Status
	}
	if upd.Description != nil {
		o.Description = *upd.Description
	}
	if upd.VesselName != nil {
		o.VesselName = *upd.VesselName
	}
	o.UpdatedAt = s.now()
	if err := s.orders.UpdateServiceOrder(ctx, *o); err != nil {
		return nil, fmt.Errorf("update service order: %w", err)
	}

	if o.Status != previous {
		s.log.WithFields(logrus.Fields{"order_id": id, "from": previous, "to": o.Status}).Info("Service order status changed")
		c, err := s.customers.FindCustomerByID(ctx, o.CustomerID.Hex())
		if err != nil {
			s.log.WithError(err).WithField("order_id", id).Warn("Order status changed for an unknown customer")
			return o, nil
		}
		s.notifyEmail(ctx, c.Email, models.Notification{
			Title:         fmt.Sprintf("Order Status Updated: %s", o.Status),
			Message:       fmt.Sprintf("Your order for %s %s has been updated to '%s'.", o.TurboBrand, o.TurboModel, o.Status),
			Type:          models.NotificationOrder,
			ReferenceID:   o.ID.Hex(),
			ReferenceType: "order",
		})
	}
	return o, nil
}

// Stats counts orders by status.
func (s *Service) Stats(ctx context.Context) (OrderStats, error) {
	orders, err := s.orders.FindServiceOrders(ctx, db.ServiceOrderFilter{})
	if err != nil {
		return OrderStats{}, fmt.Errorf("find service orders: %w", err)
	}
	st := OrderStats{Total: len(orders)}
	for _, o := range orders {
		switch o.Status {
		case models.OrderPending:
			st.Pending++
		case models.OrderInProgress:
			st.InProgress++
		case models.OrderCompleted:
			st.Completed++
		case models.OrderCancelled:
			st.Cancelled++
		}
	}
	return st, nil
}
