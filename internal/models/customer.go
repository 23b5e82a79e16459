package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Customer is a shipping company served by the workshop.
type Customer struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CompanyName string             `bson:"company_name" json:"company_name"`
	ContactName string             `bson:"contact_name" json:"contact_name"`
	Email       string             `bson:"email" json:"email"`
	Phone       string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Country     string             `bson:"country" json:"country"`
	VesselType  string             `bson:"vessel_type,omitempty" json:"vessel_type,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// OrderType classifies a service order.
type OrderType string

const (
	OrderOverhaul         OrderType = "Overhaul"
	OrderPartSupply       OrderType = "Part Supply"
	OrderTechnicalService OrderType = "Technical Service"
)

// IsValidOrderType reports whether t is a known order type.
func IsValidOrderType(t OrderType) bool {
	switch t {
	case OrderOverhaul, OrderPartSupply, OrderTechnicalService:
		return true
	default:
		return false
	}
}

// OrderStatus is the lifecycle state of a service order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "Pending"
	OrderInProgress OrderStatus = "In Progress"
	OrderCompleted  OrderStatus = "Completed"
	OrderCancelled  OrderStatus = "Cancelled"
)

// IsValidOrderStatus reports whether s is a known order status.
func IsValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderPending, OrderInProgress, OrderCompleted, OrderCancelled:
		return true
	default:
		return false
	}
}

// ServiceOrder is a customer's overhaul, part supply or service job.
type ServiceOrder struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CustomerID  primitive.ObjectID `bson:"customer_id" json:"customer_id"`
	OrderType   OrderType          `bson:"order_type" json:"order_type"`
	TurboBrand  string             `bson:"turbo_brand" json:"turbo_brand"`
	TurboModel  string             `bson:"turbo_model" json:"turbo_model"`
	VesselName  string             `bson:"vessel_name,omitempty" json:"vessel_name,omitempty"`
	Status      OrderStatus        `bson:"status" json:"status"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// ServiceOrderView is a service order with its customer's names.
type ServiceOrderView struct {
	ServiceOrder
	CustomerName    string `json:"customer_name"`
	CustomerCompany string `json:"customer_company"`
}

// Inquiry is a question sent to the workshop, optionally by a known
// customer.
type Inquiry struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	CustomerID   *primitive.ObjectID `bson:"customer_id,omitempty" json:"customer_id,omitempty"`
	Subject      string              `bson:"subject" json:"subject"`
	Message      string              `bson:"message" json:"message"`
	ContactEmail string              `bson:"contact_email" json:"contact_email"`
	IsResolved   bool                `bson:"is_resolved" json:"is_resolved"`
	Response     string              `bson:"response,omitempty" json:"response,omitempty"`
	CreatedAt    time.Time           `bson:"created_at" json:"created_at"`
}
