package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Vessel represents a ship whose equipment is tracked by the PMS.
type Vessel struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	IMONumber      string             `bson:"imo_number,omitempty" json:"imo_number,omitempty"`
	VesselType     string             `bson:"vessel_type" json:"vessel_type"` // "Container Ship", "Bulk Carrier", "Tanker", ...
	Flag           string             `bson:"flag,omitempty" json:"flag,omitempty"`
	ClassSociety   string             `bson:"class_society,omitempty" json:"class_society,omitempty"` // KR, DNV, LR, BV, ...
	GrossTonnage   *float64           `bson:"gross_tonnage,omitempty" json:"gross_tonnage,omitempty"`
	BuildYear      *int               `bson:"build_year,omitempty" json:"build_year,omitempty"`
	OwnerCompany   string             `bson:"owner_company,omitempty" json:"owner_company,omitempty"`
	ManagerCompany string             `bson:"manager_company,omitempty" json:"manager_company,omitempty"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	IsActive       bool               `bson:"is_active" json:"is_active"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}
