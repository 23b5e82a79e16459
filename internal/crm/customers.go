package crm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ukydev/marine-pms/internal/db"
	"github.com/ukydev/marine-pms/internal/models"
)

// CustomerUpdate carries the editable customer fields. Nil fields are left
// alone.
type CustomerUpdate struct {
	CompanyName *string `json:"company_name"`
	ContactName *string `json:"contact_name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Country     *string `json:"country"`
	VesselType  *string `json:"vessel_type"`
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1
}

func validateCustomer(c models.Customer) error {
	switch {
	case strings.TrimSpace(c.CompanyName) == "":
		return fmt.Errorf("%w: company_name is required", ErrInvalidInput)
	case strings.TrimSpace(c.ContactName) == "":
		return fmt.Errorf("%w: contact_name is required", ErrInvalidInput)
	case !validEmail(c.Email):
		return fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	case strings.TrimSpace(c.Country) == "":
		return fmt.Errorf("%w: country is required", ErrInvalidInput)
	}
	return nil
}

// Customers lists customers.
func (s *Service) Customers(ctx context.Context, f db.CustomerFilter) ([]models.Customer, error) {
	out, err := s.customers.FindCustomers(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("find customers: %w", err)
	}
	return out, nil
}

// Customer returns one customer.
func (s *Service) Customer(ctx context.Context, id string) (*models.Customer, error) {
	c, err := s.customers.FindCustomerByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find customer %s: %w", id, err)
	}
	return c, nil
}

// CreateCustomer registers a customer. Emails are unique.
func (s *Service) CreateCustomer(ctx context.Context, c models.Customer) (*models.Customer, error) {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	if err := validateCustomer(c); err != nil {
		return nil, err
	}
	c.CreatedAt = s.now()
	created, err := s.customers.InsertCustomer(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("insert customer: %w", err)
	}
	s.log.WithField("customer_id", created.ID.Hex()).Info("Customer created")
	return created, nil
}

// UpdateCustomer applies upd to a customer.
func (s *Service) UpdateCustomer(ctx context.Context, id string, upd CustomerUpdate) (*models.Customer, error) {
	c, err := s.Customer(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.CompanyName != nil {
		c.CompanyName = *upd.CompanyName
	}
	if upd.ContactName != nil {
		c.ContactName = *upd.ContactName
	}
	if upd.Email != nil {
		c.Email = strings.ToLower(strings.TrimSpace(*upd.Email))
	}
	if upd.Phone != nil {
		c.Phone = *upd.Phone
	}
	if upd.Country != nil {
		c.Country = *upd.Country
	}
	if upd.VesselType != nil {
		c.VesselType = *upd.VesselType
	}
	if err := validateCustomer(*c); err != nil {
		return nil, err
	}
	if err := s.customers.UpdateCustomer(ctx, *c); err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}
	return c, nil
}

// DeleteCustomer removes a customer that has no service orders.
func (s *Service) DeleteCustomer(ctx context.Context, id string) error {
	c, err := s.Customer(ctx, id)
	if err != nil {
		return err
	}
	orders, err := s.orders.FindServiceOrders(ctx, db.ServiceOrderFilter{CustomerID: c.ID.Hex(), Limit: 1})
	if err != nil {
		return fmt.Errorf("find service orders: %w", err)
	}
	if len(orders) > 0 {
		return fmt.Errorf("%w: customer %s still has service orders", ErrConflict, c.CompanyName)
	}
	if err := s.customers.DeleteCustomer(ctx, id); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	s.log.WithField("customer_id", id).Info("Customer deleted")
	return nil
}
