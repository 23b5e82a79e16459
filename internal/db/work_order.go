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

// MongoWorkOrderCollection implements WorkOrderCollection for MongoDB.
type MongoWorkOrderCollection struct {
	Collection *mongo.Collection
}

// InsertWorkOrder inserts a work order and returns it with its new ID.
func (c *MongoWorkOrderCollection) InsertWorkOrder(ctx context.Context, wo models.WorkOrder) (*models.WorkOrder, error) {
	if c.Collection == nil {
		return nil, ErrNilStorage
	}
	now := time.Now().UTC()
	wo.ID = primitive.NewObjectID()
	wo.CreatedAt = now
	wo.UpdatedAt = now
	if _, err := c.Collection.InsertOne(ctx, wo); err != nil {
		return nil, translate(err)
	}
	return &wo, nil
}

// workOrderQuery builds the Mongo filter for f. ok is false when an id in
// f is malformed and nothing can match.
func workOrderQuery(f WorkOrderFilter) (query bson.M, ok bool) {
	query = bson.M{}
	if f.VesselID != "" {
		oid, err := primitive.ObjectIDFromHex(f.VesselID)
		if err != nil {
			return nil, false
		}
		query["vessel_id"] = oid
	}
	if f.EquipmentID != "" {
		oid, err := primitive.ObjectIDFromHex(f.EquipmentID)
		if err != nil {
			return nil, false
		}
		query["equipment_id"] = oid
	}
	if len(f.Statuses) > 0 {
		query["status"] = bson.M{"$in": f.Statuses}
	}
	if f.PlannedFrom != nil || f.PlannedTo != nil {
		rng := bson.M{}
		if f.PlannedFrom != nil {
			rng["$gte"] = *f.PlannedFrom
		}
		if f.PlannedTo != nil {
			rng["$lte"] = *f.PlannedTo
		}
		query["planned_date"] = rng
	}
	return query, true
}

// FindWorkOrders lists work orders ordered by planned date.
func (c *MongoWorkOrderCollection) FindWorkOrders(ctx context.Context, filter WorkOrderFilter) ([]models.WorkOrder, error) {
	query, ok := workOrderQuery(filter)
	if !ok {
		return []models.WorkOrder{}, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "planned_date", Value: 1}, {Key: "_id", Value: 1}})
	return findAll[models.WorkOrder](ctx, c.Collection, query, opts)
}

// FindWorkOrderByID finds a work order by its ID.
func (c *MongoWorkOrderCollection) FindWorkOrderByID(ctx context.Context, id string) (*models.WorkOrder, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return findOne[models.WorkOrder](ctx, c.Collection, bson.M{"_id": oid})
}

// UpdateWorkOrder replaces the stored work order with the same ID.
func (c *MongoWorkOrderCollection) UpdateWorkOrder(ctx context.Context, wo models.WorkOrder) error {
	return replaceByID(ctx, c.Collection, wo.ID, wo)
}

// DeleteWorkOrdersByEquipment removes the work orders of the given
// equipment items and reports how many went.
func (c *MongoWorkOrderCollection) DeleteWorkOrdersByEquipment(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	return deleteByEquipment(ctx, c.Collection, ids)
}
