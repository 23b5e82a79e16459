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

// MongoEquipmentCollection implements EquipmentCollection for MongoDB.
type MongoEquipmentCollection struct {
	Collection *mongo.Collection
}

// InsertEquipment inserts an equipment item. A code already used on the
// same vessel yields ErrDuplicate.
func (c *MongoEquipmentCollection) InsertEquipment(ctx context.Context, eq models.Equipment) (*models.Equipment, error) {
	if c.Collection == nil {
		return nil, ErrNilStorage
	}
	now := time.Now().UTC()
	eq.ID = primitive.NewObjectID()
	eq.CreatedAt = now
	eq.UpdatedAt = now
	if _, err := c.Collection.InsertOne(ctx, eq); err != nil {
		return nil, translate(err)
	}
	return &eq, nil
}

// FindEquipment lists equipment in display order (sort_order, name).
func (c *MongoEquipmentCollection) FindEquipment(ctx context.Context, filter EquipmentFilter) ([]models.Equipment, error) {
	query := bson.M{}
	if filter.VesselID != "" {
		oid, err := objectID(filter.VesselID)
		if err != nil {
			return []models.Equipment{}, nil
		}
		query["vessel_id"] = oid
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.ActiveOnly {
		query["is_active"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "sort_order", Value: 1}, {Key: "name", Value: 1}})
	return findAll[models.Equipment](ctx, c.Collection, query, opts)
}

// FindEquipmentByID finds an equipment item by its ID.
func (c *MongoEquipmentCollection) FindEquipmentByID(ctx context.Context, id string) (*models.Equipment, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return findOne[models.Equipment](ctx, c.Collection, bson.M{"_id": oid})
}

// FindEquipmentByCode finds the equipment item with code on a vessel.
func (c *MongoEquipmentCollection) FindEquipmentByCode(ctx context.Context, vesselID, code string) (*models.Equipment, error) {
	oid, err := objectID(vesselID)
	if err != nil {
		return nil, err
	}
	return findOne[models.Equipment](ctx, c.Collection, bson.M{"vessel_id": oid, "equipment_code": code})
}

// UpdateEquipment replaces the stored equipment item with the same ID.
func (c *MongoEquipmentCollection) UpdateEquipment(ctx context.Context, eq models.Equipment) error {
	eq.UpdatedAt = time.Now().UTC()
	return replaceByID(ctx, c.Collection, eq.ID, eq)
}

// UpdateRunningHours writes the live counter and health status together.
func (c *MongoEquipmentCollection) UpdateRunningHours(ctx context.Context, id string, hours float64, status models.EquipmentStatus) error {
	if c.Collection == nil {
		return ErrNilStorage
	}
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"current_running_hours": hours,
		"status":                status,
		"updated_at":            time.Now().UTC(),
	}})
	if err != nil {
		return translate(err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteEquipment removes the given equipment items.
func (c *MongoEquipmentCollection) DeleteEquipment(ctx context.Context, ids []primitive.ObjectID) error {
	if c.Collection == nil {
		return ErrNilStorage
	}
	if len(ids) == 0 {
		return nil
	}
	_, err := c.Collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return err
}
