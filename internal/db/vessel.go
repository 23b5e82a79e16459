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

// MongoVesselCollection implements VesselCollection for MongoDB.
type MongoVesselCollection struct {
	Collection *mongo.Collection
}

// InsertVessel inserts a vessel and returns it with its new ID.
func (c *MongoVesselCollection) InsertVessel(ctx context.Context, vessel models.Vessel) (*models.Vessel, error) {
	if c.Collection == nil {
		return nil, ErrNilStorage
	}
	now := time.Now().UTC()
	vessel.ID = primitive.NewObjectID()
	vessel.CreatedAt = now
	vessel.UpdatedAt = now
	if _, err := c.Collection.InsertOne(ctx, vessel); err != nil {
		return nil, translate(err)
	}
	return &vessel, nil
}

// FindVessels lists vessels ordered by name.
func (c *MongoVesselCollection) FindVessels(ctx context.Context, filter VesselFilter) ([]models.Vessel, error) {
	query := bson.M{}
	if len(filter.IDs) > 0 {
		query["_id"] = bson.M{"$in": objectIDs(filter.IDs)}
	}
	if filter.ActiveOnly {
		query["is_active"] = true
	}
	return findAll[models.Vessel](ctx, c.Collection, query, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

// FindVesselByID finds a vessel by its ID.
func (c *MongoVesselCollection) FindVesselByID(ctx context.Context, id string) (*models.Vessel, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return findOne[models.Vessel](ctx, c.Collection, bson.M{"_id": oid})
}

// UpdateVessel replaces the stored vessel with the same ID.
func (c *MongoVesselCollection) UpdateVessel(ctx context.Context, vessel models.Vessel) error {
	vessel.UpdatedAt = time.Now().UTC()
	return replaceByID(ctx, c.Collection, vessel.ID, vessel)
}
