package pms

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/ukydev/marine-pms/internal/db"
	"github.com/ukydev/marine-pms/internal/models"
)

// MaxDailyHours is the upper bound of a single day's running hours.
const MaxDailyHours = 24.0

// RecordInput is one running-hours observation.
type RecordInput struct {
	EquipmentID string
	Date        time.Time
	DailyHours  float64
	RecordedBy  string
	Note        string
}

// BulkItem is one equipment entry of a bulk submission.
type BulkItem struct {
	EquipmentID string  `json:"equipment_id"`
	DailyHours  float64 `json:"daily_hours"`
	Note        string  `json:"note,omitempty"`
}

// BulkInput records several equipment items for one shared date.
type BulkInput struct {
	Date       time.Time
	RecordedBy string
	Items      []BulkItem
}

// BulkResult reports partial success of a bulk submission.
type BulkResult struct {
	Recorded int      `json:"recorded"`
	Errors   []string `json:"errors"`
	Date     string   `json:"date"`
}

// ValidateDailyHours rejects values outside [0, 24].
func ValidateDailyHours(h float64) error {
	if math.IsNaN(h) || h < 0 || h > MaxDailyHours {
		return fmt.Errorf("%w: daily hours must be between 0 and 24", ErrInvalidInput)
	}
	return nil
}

// Record stores the daily running hours of one equipment item and moves
// its live counter forward.
//
// The cumulative total is the stored total of the latest earlier record
// plus the daily hours; when no earlier record exists the equipment's
// counter is the baseline (see priorTotal). An existing record for the
// same date is overwritten in place. Records dated after the given date
// are left as they are.
func (s *Service) Record(ctx context.Context, in RecordInput) (*models.RunningHours, error) {
	if err := ValidateDailyHours(in.DailyHours); err != nil {
		return nil, err
	}

	eq, err := s.equipment.FindEquipmentByID(ctx, in.EquipmentID)
	if err != nil {
		return nil, fmt.Errorf("find equipment %s: %w", in.EquipmentID, err)
	}

	date := models.CalendarDate(in.Date)

	prior, err := s.priorTotal(ctx, eq, date)
	if err != nil {
		return nil, err
	}
	total := prior + in.DailyHours

	rec, err := s.hours.UpsertRunningHours(ctx, models.RunningHours{
		EquipmentID:  eq.ID,
		RecordedDate: date,
		DailyHours:   in.DailyHours,
		TotalHours:   total,
		RecordedBy:   in.RecordedBy,
		Note:         in.Note,
		CreatedAt:    s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("upsert running hours: %w", err)
	}

	previous := eq.Status
	status := EvaluateStatus(total, eq.OverhaulIntervalHours, eq.Status)
	if err := s.equipment.UpdateRunningHours(ctx, eq.ID.Hex(), total, status); err != nil {
		return nil, fmt.Errorf("update equipment counter: %w", err)
	}

	if status != previous {
		eq.CurrentRunningHours = total
		eq.Status = status
		s.notifyStatus(ctx, *eq, previous)
	}

	s.log.WithFields(logrus.Fields{
		"equipment_id": eq.ID.Hex(),
		"date":         date.Format(models.DateLayout),
		"daily_hours":  in.DailyHours,
		"total_hours":  total,
		"status":       status,
	}).Debug("Recorded running hours")

	return rec, nil
}

// priorTotal is the cumulative total the given date builds on. Without an
// earlier record the baseline is the counter as it stood before any
// record on that date, so re-recording the first day is idempotent.
func (s *Service) priorTotal(ctx context.Context, eq *models.Equipment, date time.Time) (float64, error) {
	prev, err := s.hours.FindLatestBefore(ctx, eq.ID.Hex(), date)
	if err == nil {
		return prev.TotalHours, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return 0, fmt.Errorf("find previous running hours: %w", err)
	}

	same, err := s.hours.FindLatestBefore(ctx, eq.ID.Hex(), date.AddDate(0, 0, 1))
	switch {
	case err == nil && same.RecordedDate.Equal(date):
		return same.TotalHours - same.DailyHours, nil
	case err == nil, errors.Is(err, db.ErrNotFound):
		return eq.CurrentRunningHours, nil
	default:
		return 0, fmt.Errorf("find running hours: %w", err)
	}
}

// RecordBulk applies Record to every item. A failing item is reported in
// the result and does not stop the others.
func (s *Service) RecordBulk(ctx context.Context, in BulkInput) BulkResult {
	res := BulkResult{
		Errors: []string{},
		Date:   models.CalendarDate(in.Date).Format(models.DateLayout),
	}
	for _, item := range in.Items {
		_, err := s.Record(ctx, RecordInput{
			EquipmentID: item.EquipmentID,
			Date:        in.Date,
			DailyHours:  item.DailyHours,
			RecordedBy:  in.RecordedBy,
			Note:        item.Note,
		})
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", item.EquipmentID, err))
			continue
		}
		res.Recorded++
	}
	return res
}

func (s *Service) notifyStatus(ctx context.Context, eq models.Equipment, previous models.EquipmentStatus) {
	if s.notifier == nil {
		return
	}
	change := StatusChange{Equipment: eq, Previous: previous, At: s.now()}
	if err := s.notifier.NotifyStatusChange(ctx, change); err != nil {
		s.log.WithError(err).WithField("equipment_id", eq.ID.Hex()).Warn("Failed to publish status change")
	}
}
