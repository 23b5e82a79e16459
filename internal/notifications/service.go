// Package notifications stores in-app notifications for users and fans
// out the events other services raise to the right recipients.
package notifications

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/ukydev/marine-pms/internal/db"
	"github.com/ukydev/marine-pms/internal/inventory"
	"github.com/ukydev/marine-pms/internal/models"
	"github.com/ukydev/marine-pms/internal/pms"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

var ErrNotFound = db.ErrNotFound

// adminRoles receive broadcast notifications.
var adminRoles = []models.Role{models.RoleAdmin, models.RoleDeveloper}

// UserDirectory resolves recipients.
type UserDirectory interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUsers(ctx context.Context, role models.Role) ([]models.User, error)
}

// LowStockSource lists the stock records at or below their minimum.
type LowStockSource interface {
	LowStock(ctx context.Context) ([]models.InventoryView, error)
}

// LowStockFunc adapts a function to LowStockSource.
type LowStockFunc func(ctx context.Context) ([]models.InventoryView, error)

func (f LowStockFunc) LowStock(ctx context.Context) ([]models.InventoryView, error) {
	return f(ctx)
}

// Service delivers and reads notifications.
type Service struct {
	notes db.NotificationCollection
	users UserDirectory
	stock LowStockSource

	now func() time.Time
	log logrus.FieldLogger
}

var (
	_ pms.StatusNotifier     = (*Service)(nil)
	_ inventory.StockAlerter = (*Service)(nil)
)

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLowStockSource enables CheckLowStock.
func WithLowStockSource(src LowStockSource) Option {
	return func(s *Service) { s.stock = src }
}

// WithLogger sets the service logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Service) { s.log = l }
}

// NewService creates a notification service.
func NewService(notes db.NotificationCollection, users UserDirectory, opts ...Option) *Service {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	s := &Service{
		notes: notes,
		users: users,
		now:   func() time.Time { return time.Now().UTC() },
		log:   discard,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Page clamps a requested page size.
func Page(limit int) int {
	switch {
	case limit <= 0:
		return DefaultPageSize
	case limit > MaxPageSize:
		return MaxPageSize
	}
	return limit
}

func (s *Service) deliver(ctx context.Context, n models.Notification, recipients []models.User) error {
	if len(recipients) == 0 {
		return nil
	}
	if n.Type == "" {
		n.Type = models.NotificationInfo
	}
	n.IsRead = false
	n.CreatedAt = s.now()
	batch := make([]models.Notification, 0, len(recipients))
	for _, u := range recipients {
		note := n
		note.UserID = u.ID
		batch = append(batch, note)
	}
	if err := s.notes.InsertNotifications(ctx, batch); err != nil {
		return fmt.Errorf("insert notifications: %w", err)
	}
	return nil
}

// Create sends n to the user it names.
func (s *Service) Create(ctx context.Context, n models.Notification) error {
	if n.UserID.IsZero() {
		return fmt.Errorf("%w: notification has no recipient", db.ErrInvalidInput)
	}
	return s.deliver(ctx, n, []models.User{{ID: n.UserID}})
}

// NotifyAdmins sends n to every active admin and developer.
func (s *Service) NotifyAdmins(ctx context.Context, n models.Notification) error {
	var recipients []models.User
	for _, role := range adminRoles {
		users, err := s.users.FindUsers(ctx, role)
		if err != nil {
			return fmt.Errorf("find %s users: %w", role, err)
		}
		for _, u := range users {
			if u.IsActive {
				recipients = append(recipients, u)
			}
		}
	}
	return s.deliver(ctx, n, recipients)
}

// NotifyEmail sends n to the user registered under email. Addresses
// without an account are skipped.
func (s *Service) NotifyEmail(ctx context.Context, email string, n models.Notification) error {
	u, err := s.users.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, db.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("find user by email: %w", err)
	}
	return s.deliver(ctx, n, []models.User{*u})
}

// List returns a page of the user's notifications, newest first.
func (s *Service) List(ctx context.Context, userID string, skip, limit int) ([]models.Notification, error) {
	if skip < 0 {
		skip = 0
	}
	out, err := s.notes.FindNotifications(ctx, userID, skip, Page(limit))
	if err != nil {
		return nil, fmt.Errorf("find notifications: %w", err)
	}
	return out, nil
}

// UnreadCount counts the user's unread notifications.
func (s *Service) UnreadCount(ctx context.Context, userID string) (int64, error) {
	n, err := s.notes.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return n, nil
}

// MarkRead flags one of the user's notifications as read.
func (s *Service) MarkRead(ctx context.Context, id, userID string) (*models.Notification, error) {
	n, err := s.notes.MarkRead(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("mark notification %s read: %w", id, err)
	}
	return n, nil
}

// MarkAllRead flags all of the user's notifications as read.
func (s *Service) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	n, err := s.notes.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	return n, nil
}
