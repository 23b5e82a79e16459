package db

import (
	"context"
	"time"

	"github.com/ukydev/marine-pms/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPlanCollection implements MaintenancePlanCollection for MongoDB.
type MongoPlanCollection struct {
	Collection *mongo.Collection
}

// InsertPlan inserts a maintenance plan and returns it with its new ID.
func (c *MongoPlanCollection) InsertPlan(ctx context.Context, plan models.MaintenancePlan) (*models.MaintenancePlan, error) {
	if c.Collection == nil {
		return nil, ErrNilStorage
	}
	now := time.Now().UTC()
	plan.ID = primitive.NewObjectID()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	if _, err := c.Collection.InsertOne(ctx, plan); err != nil {
		return nil, translate(err)
	}
	return &plan, nil
}

// FindPlans lists maintenance plans ordered by next due date.
func (c *MongoPlanCollection) FindPlans(ctx context.Context, filter PlanFilter) ([]models.MaintenancePlan, error) {
	query := bson.M{}
	if filter.VesselID != "" {
		oid, err := primitive.ObjectIDFromHex(filter.VesselID)
		if err != nil {
			return []models.MaintenancePlan{}, nil
		}
		query["vessel_id"] = oid
	}
	if filter.EquipmentID != "" {
		oid, err := primitive.ObjectIDFromHex(filter.EquipmentID)
		if err != nil {
			return []models.MaintenancePlan{}, nil
		}
		query["equipment_id"] = oid
	}
	if filter.ActiveOnly {
		query["is_active"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "next_due_date", Value: 1}, {Key: "_id", Value: 1}})
	return findAll[models.MaintenancePlan](ctx, c.Collection, query, opts)
}

// FindPlanByID finds a maintenance plan by its ID.
func (c *MongoPlanCollection) FindPlanByID(ctx context.Context, id string) (*models.MaintenancePlan, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return findOne[models.MaintenancePlan](ctx, c.Collection, bson.M{"_id": oid})
}

// UpdatePlan replaces the stored plan with the same ID.
func (c *MongoPlanCollection) UpdatePlan(ctx context.Context, plan models.MaintenancePlan) error {
	return replaceByID(ctx, c.Collection, plan.ID, plan)
}

// DeletePlansByEquipment removes the maintenance plans of the given
// equipment items and reports how many went.
func (c *MongoPlanCollection) DeletePlansByEquipment(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	return deleteByEquipment(ctx, c.Collection, ids)
}
