package crm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ukydev/marine-pms/internal/db"
	"github.com/ukydev/marine-pms/internal/models"
)

// InquiryUpdate carries the fields staff edit when answering. Nil fields
// are left alone.
type InquiryUpdate struct {
	IsResolved *bool   `json:"is_resolved"`
	Response   *string `json:"response"`
}

// Inquiries lists inquiries, newest first.
func (s *Service) Inquiries(ctx context.Context, f db.InquiryFilter) ([]models.Inquiry, error) {
	out, err := s.inquiries.FindInquiries(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("find inquiries: %w", err)
	}
	return out, nil
}

// Inquiry returns one inquiry.
func (s *Service) Inquiry(ctx context.Context, id string) (*models.Inquiry, error) {
	q, err := s.inquiries.FindInquiryByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find inquiry %s: %w", id, err)
	}
	return q, nil
}

// CreateInquiry stores an inquiry and tells the admins. An inquiry without
// a customer is linked to the customer registered under its contact email.
func (s *Service) CreateInquiry(ctx context.Context, q models.Inquiry) (*models.Inquiry, error) {
	q.ContactEmail = strings.ToLower(strings.TrimSpace(q.ContactEmail))
	switch {
	case strings.TrimSpace(q.Subject) == "":
		return nil, fmt.Errorf("%w: subject is required", ErrInvalidInput)
	case strings.TrimSpace(q.Message) == "":
		return nil, fmt.Errorf("%w: message is required", ErrInvalidInput)
	case !validEmail(q.ContactEmail):
		return nil, fmt.Errorf("%w: a valid contact_email is required", ErrInvalidInput)
	}
	if q.CustomerID == nil {
		c, err := s.customers.FindCustomerByEmail(ctx, q.ContactEmail)
		switch {
		case err == nil:
			q.CustomerID = &c.ID
		case !errors.Is(err, db.ErrNotFound):
			return nil, fmt.Errorf("find customer by email: %w", err)
		}
	}
	q.IsResolved = false
	q.Response = ""
	q.CreatedAt = s.now()
	created, err := s.inquiries.InsertInquiry(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("insert inquiry: %w", err)
	}
	s.notifyAdmins(ctx, models.Notification{
		Title:         "New Inquiry",
		Message:       fmt.Sprintf("%s (from %s)", created.Subject, created.ContactEmail),
		Type:          models.NotificationInquiry,
		ReferenceID:   created.ID.Hex(),
		ReferenceType: "inquiry",
	})
	return created, nil
}

// UpdateInquiry records a response or resolution. Resolving an inquiry
// notifies the sender's user account.
func (s *Service) UpdateInquiry(ctx context.Context, id string, upd InquiryUpdate) (*models.Inquiry, error) {
	q, err := s.Inquiry(ctx, id)
	if err != nil {
		return nil, err
	}
	wasResolved := q.IsResolved
	if upd.IsResolved != nil {
		q.IsResolved = *upd.IsResolved
	}
	if upd.Response != nil {
		q.Response = *upd.Response
	}
	if err := s.inquiries.UpdateInquiry(ctx, *q); err != nil {
		return nil, fmt.Errorf("update inquiry: %w", err)
	}
	if q.IsResolved && !wasResolved {
		s.notifyEmail(ctx, q.ContactEmail, models.Notification{
			Title:         "Inquiry Resolved",
			Message:       fmt.Sprintf("Your inquiry '%s' has been answered.", q.Subject),
			Type:          models.NotificationSuccess,
			ReferenceID:   q.ID.Hex(),
			ReferenceType: "inquiry",
		})
	}
	return q, nil
}
