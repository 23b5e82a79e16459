package pms

import (
	"math"

	"github.com/ukydev/marine-pms/internal/models"
)

// WarningRatio is the share of the overhaul interval at which equipment
// enters the Warning tier.
const WarningRatio = 0.85

// EvaluateStatus classifies equipment by how much of its overhaul interval
// has been used. Without an interval the current status is kept.
func EvaluateStatus(cumulative float64, interval *float64, current models.EquipmentStatus) models.EquipmentStatus {
	if interval == nil || *interval <= 0 {
		return current
	}
	ratio := cumulative / *interval
	switch {
	case ratio >= 1.0:
		return models.EquipmentStatusCritical
	case ratio >= WarningRatio:
		return models.EquipmentStatusWarning
	default:
		return models.EquipmentStatusNormal
	}
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// percent returns part/total as a percentage rounded to one decimal, or 0
// when total is zero.
func percent(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return round1(float64(part) / float64(total) * 100)
}
