package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity actions recorded outside the request audit trail.
const (
	ActivityLogin       = "login"
	ActivityLogout      = "logout"
	ActivityLoginFailed = "login_failed"
)

// ActivityLog is one entry of the user activity trail. Mutating requests
// are stored with Action "METHOD /route/pattern".
type ActivityLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	Username  string             `bson:"username" json:"username"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	Action    string             `bson:"action" json:"action"`
	Status    int                `bson:"status,omitempty" json:"status,omitempty"`
	IPAddress string             `bson:"ip_address,omitempty" json:"ip_address,omitempty"`
	UserAgent string             `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	Details   string             `bson:"details,omitempty" json:"details,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// OnlineUser is a user whose latest login is newer than their latest
// logout.
type OnlineUser struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	LastLogin time.Time `json:"last_login"`
}
