package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// RunningHours is one daily observation for a piece of equipment.
// (EquipmentID, RecordedDate) is unique.
type RunningHours struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EquipmentID  primitive.ObjectID `bson:"equipment_id" json:"equipment_id"`
	RecordedDate time.Time          `bson:"recorded_date" json:"recorded_date"` // UTC midnight
	DailyHours   float64            `bson:"daily_hours" json:"daily_hours"`     // 0-24
	TotalHours   float64            `bson:"total_hours" json:"total_hours"`     // cumulative as of RecordedDate
	RecordedBy   string             `bson:"recorded_by,omitempty" json:"recorded_by,omitempty"`
	Note         string             `bson:"note,omitempty" json:"note,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}

// CalendarDate truncates t to midnight UTC of its calendar day.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a UTC calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
