// Package crm keeps the workshop's customers, their service orders and the
// inquiries sent in, and tells the people involved when something changes.
package crm

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/ukydev/marine-pms/internal/db"
	"github.com/ukydev/marine-pms/internal/models"
)

var (
	ErrNotFound     = db.ErrNotFound
	ErrConflict     = db.ErrDuplicate
	ErrInvalidInput = db.ErrInvalidInput
)

// Notifier delivers in-app notifications raised by CRM changes.
type Notifier interface {
	// NotifyEmail addresses the user registered under email, if any.
	NotifyEmail(ctx context.Context, email string, n models.Notification) error
	NotifyAdmins(ctx context.Context, n models.Notification) error
}

// UserFinder resolves the account behind a request.
type UserFinder interface {
	FindUserByID(ctx context.Context, id string) (*models.User, error)
}

// Stores bundles the collections the service reads and writes.
type Stores struct {
	Customers     db.CustomerCollection
	ServiceOrders db.ServiceOrderCollection
	Inquiries     db.InquiryCollection
	Users         UserFinder
}

// Service manages customers, service orders and inquiries.
type Service struct {
	customers db.CustomerCollection
	orders    db.ServiceOrderCollection
	inquiries db.InquiryCollection
	users     UserFinder

	notifier Notifier
	now      func() time.Time
	log      logrus.FieldLogger
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithNotifier registers the receiver of customer and admin notifications.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithLogger sets the service logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Service) { s.log = l }
}

// NewService creates a CRM service over the given stores.
func NewService(stores Stores, opts ...Option) *Service {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	s := &Service{
		customers: stores.Customers,
		orders:    stores.ServiceOrders,
		inquiries: stores.Inquiries,
		users:     stores.Users,
		now:       func() time.Time { return time.Now().UTC() },
		log:       discard,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// notifyEmail and notifyAdmins are best effort: failures are logged.
func (s *Service) notifyEmail(ctx context.Context, email string, n models.Notification) {
	if s.notifier == nil || email == "" {
		return
	}
	if err := s.notifier.NotifyEmail(ctx, email, n); err != nil {
		s.log.WithError(err).WithField("reference_id", n.ReferenceID).Warn("Failed to notify customer")
	}
}

func (s *Service) notifyAdmins(ctx context.Context, n models.Notification) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyAdmins(ctx, n); err != nil {
		s.log.WithError(err).WithField("reference_id", n.ReferenceID).Warn("Failed to notify admins")
	}
}
