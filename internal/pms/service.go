// Package pms implements the planned-maintenance arithmetic: running-hours
// accumulation, equipment health tiers, overdue/upcoming work-order scans
// and the aggregate statistics built on top of them.
package pms

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

// StatusChange describes an equipment item moving between health tiers.
type StatusChange struct {
	Equipment models.Equipment
	Previous  models.EquipmentStatus
	At        time.Time
}

// StatusNotifier is told about health tier changes caused by new
// running-hours observations.
type StatusNotifier interface {
	NotifyStatusChange(ctx context.Context, change StatusChange) error
}

// Stores bundles the collections the service reads and writes.
type Stores struct {
	Vessels      db.VesselCollection
	Equipment    db.EquipmentCollection
	RunningHours db.RunningHoursCollection
	WorkOrders   db.WorkOrderCollection
	Plans        db.MaintenancePlanCollection
}

// Service is the PMS core.
type Service struct {
	vessels   db.VesselCollection
	equipment db.EquipmentCollection
	hours     db.RunningHoursCollection
	orders    db.WorkOrderCollection
	plans     db.MaintenancePlanCollection

	notifier StatusNotifier
	now      func() time.Time
	log      logrus.FieldLogger
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithNotifier registers a receiver for equipment status changes.
func WithNotifier(n StatusNotifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithLogger sets the logger used for best-effort side effects.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Service) { s.log = l }
}

// NewService creates a PMS service over the given stores.
func NewService(stores Stores, opts ...Option) *Service {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	s := &Service{
		vessels:   stores.Vessels,
		equipment: stores.Equipment,
		hours:     stores.RunningHours,
		orders:    stores.WorkOrders,
		plans:     stores.Plans,
		now:       func() time.Time { return time.Now().UTC() },
		log:       discard,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time {
	return s.now()
}
