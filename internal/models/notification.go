package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationType tags how a notification is presented.
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
	NotificationSuccess NotificationType = "success"
	NotificationOrder   NotificationType = "order"
	NotificationInquiry NotificationType = "inquiry"
)

// Notification is an in-app message addressed to one user.
type Notification struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"user_id" json:"user_id"`
	Title         string             `bson:"title" json:"title"`
	Message       string             `bson:"message" json:"message"`
	Type          NotificationType   `bson:"type" json:"type"`
	IsRead        bool               `bson:"is_read" json:"is_read"`
	ReferenceID   string             `bson:"reference_id,omitempty" json:"reference_id,omitempty"`
	ReferenceType string             `bson:"reference_type,omitempty" json:"reference_type,omitempty"` // order, inquiry, inventory, work_order
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}
