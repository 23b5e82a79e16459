// Package activity keeps the trail of sign-ins and changes users make and
// derives who is currently online from it.
package activity

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/ukydev/marine-pms/internal/db"
	"github.com/ukydev/marine-pms/internal/models"
)

const (
	DefaultPageSize = 100
	MaxPageSize     = 500
)

// Page is one page of the trail and the number of matching entries.
type Page struct {
	Total int64                `json:"total"`
	Logs  []models.ActivityLog `json:"logs"`
}

// Service records and queries activity.
type Service struct {
	logs db.ActivityCollection
	now  func() time.Time
	log  logrus.FieldLogger
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the service logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Service) { s.log = l }
}

// NewService creates an activity service.
func NewService(logs db.ActivityCollection, opts ...Option) *Service {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	s := &Service{
		logs: logs,
		now:  func() time.Time { return time.Now().UTC() },
		log:  discard,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record appends entry to the trail. Failures are logged and dropped so
// that auditing never fails the request being audited.
func (s *Service) Record(ctx context.Context, entry models.ActivityLog) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}
	if err := s.logs.InsertActivity(ctx, entry); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"action":  entry.Action,
			"user_id": entry.UserID,
		}).Warn("Failed to record activity")
	}
}

// List returns a page of the trail, newest first.
func (s *Service) List(ctx context.Context, f db.ActivityFilter) (Page, error) {
	switch {
	case f.Limit <= 0:
		f.Limit = DefaultPageSize
	case f.Limit > MaxPageSize:
		f.Limit = MaxPageSize
	}
	if f.Skip < 0 {
		f.Skip = 0
	}
	logs, total, err := s.logs.FindActivity(ctx, f)
	if err != nil {
		return Page{}, fmt.Errorf("find activity: %w", err)
	}
	return Page{Total: total, Logs: logs}, nil
}

// Online lists the users currently signed in, most recent login first.
func (s *Service) Online(ctx context.Context) ([]models.OnlineUser, error) {
	sessions, err := s.logs.LastSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("find sessions: %w", err)
	}
	return OnlineUsers(sessions), nil
}

// OnlineUsers keeps the sessions whose latest login is newer than their
// latest logout.
func OnlineUsers(sessions []db.SessionSummary) []models.OnlineUser {
	out := make([]models.OnlineUser, 0)
	for _, sess := range sessions {
		if sess.LastLogin == nil {
			continue
		}
		if sess.LastLogout != nil && !sess.LastLogin.After(*sess.LastLogout) {
			continue
		}
		out = append(out, models.OnlineUser{
			UserID:    sess.UserID,
			Username:  sess.Username,
			Email:     sess.Email,
			LastLogin: *sess.LastLogin,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastLogin.Equal(out[j].LastLogin) {
			return out[i].LastLogin.After(out[j].LastLogin)
		}
		return out[i].Username < out[j].Username
	})
	return out
}
