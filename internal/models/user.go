package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role represents user roles in the system
type Role string

const (
	RoleDeveloper     Role = "developer"
	RoleAdmin         Role = "admin"
	RoleShoreManager  Role = "shore_manager"
	RoleCaptain       Role = "captain"
	RoleChiefEngineer Role = "chief_engineer"
	RoleEngineer      Role = "engineer"
	RoleCustomer      Role = "customer"
)

// Action is a capability checked by the authorization policy.
type Action string

const (
	ActionViewPMS                Action = "view_pms"
	ActionRecordRunningHours     Action = "record_running_hours"
	ActionManageWorkOrders       Action = "manage_work_orders"
	ActionManageMaintenancePlans Action = "manage_maintenance_plans"
	ActionManageEquipment        Action = "manage_equipment"
	ActionManageVessels          Action = "manage_vessels"
	ActionViewAnalytics          Action = "view_analytics"
	ActionExportReports          Action = "export_reports"
	ActionManageUsers            Action = "manage_users"
	ActionViewInventory          Action = "view_inventory"
	ActionManageInventory        Action = "manage_inventory"
	ActionManageCustomers        Action = "manage_customers"
	ActionViewActivity           Action = "view_activity"
)

// AllActions lists every action known to the policy.
var AllActions = []Action{
	ActionViewPMS,
	ActionRecordRunningHours,
	ActionManageWorkOrders,
	ActionManageMaintenancePlans,
	ActionManageEquipment,
	ActionManageVessels,
	ActionViewAnalytics,
	ActionExportReports,
	ActionManageUsers,
	ActionViewInventory,
	ActionManageInventory,
	ActionManageCustomers,
	ActionViewActivity,
}

// User represents a user in the system
type User struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Username     string              `bson:"username" json:"username"`
	Email        string              `bson:"email" json:"email"`
	PasswordHash string              `bson:"password_hash" json:"-"`
	Role         Role                `bson:"role" json:"role"`
	FirstName    string              `bson:"first_name" json:"first_name"`
	LastName     string              `bson:"last_name" json:"last_name"`
	Company      string              `bson:"company,omitempty" json:"company,omitempty"`
	Phone        string              `bson:"phone,omitempty" json:"phone,omitempty"`
	VesselID     *primitive.ObjectID `bson:"vessel_id,omitempty" json:"vessel_id,omitempty"`
	IsActive     bool                `bson:"is_active" json:"is_active"`
	LastLogin    *time.Time          `bson:"last_login,omitempty" json:"last_login,omitempty"`
	CreatedAt    time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time           `bson:"updated_at" json:"updated_at"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company"`
	Phone     string `json:"phone"`
	Role      Role   `json:"role"`
	VesselID  string `json:"vessel_id,omitempty"`
}

// LoginResponse represents a successful login response
type LoginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// Claims represents JWT claims
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	VesselID string `json:"vessel_id,omitempty"`
	Exp      int64  `json:"exp"`
}

// IsValidRole checks if a role is valid
func IsValidRole(role Role) bool {
	switch role {
	case RoleDeveloper, RoleAdmin, RoleShoreManager, RoleCaptain,
		RoleChiefEngineer, RoleEngineer, RoleCustomer:
		return true
	default:
		return false
	}
}

// IsCrew reports whether the role belongs to a vessel's onboard crew.
func IsCrew(role Role) bool {
	return role == RoleCaptain || role == RoleChiefEngineer || role == RoleEngineer
}
