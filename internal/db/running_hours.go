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

// MongoRunningHoursCollection implements RunningHoursCollection for MongoDB.
type MongoRunningHoursCollection struct {
	Collection *mongo.Collection
}

// UpsertRunningHours writes the record for (equipment_id, recorded_date),
// overwriting the existing one in place. created_at is kept from the
// first write.
func (c *MongoRunningHoursCollection) UpsertRunningHours(ctx context.Context, rec models.RunningHours) (*models.RunningHours, error) {
	if c.Collection == nil {
		return nil, ErrNilStorage
	}
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	filter := bson.M{"equipment_id": rec.EquipmentID, "recorded_date": rec.RecordedDate}
	update := bson.M{
		"$set": bson.M{
			"daily_hours": rec.DailyHours,
			"total_hours": rec.TotalHours,
			"recorded_by": rec.RecordedBy,
			"note":        rec.Note,
		},
		"$setOnInsert": bson.M{"created_at": created},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var out models.RunningHours
	if err := c.Collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&out); err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

// FindLatestBefore returns the latest record dated strictly before date.
func (c *MongoRunningHoursCollection) FindLatestBefore(ctx context.Context, equipmentID string, date time.Time) (*models.RunningHours, error) {
	oid, err := objectID(equipmentID)
	if err != nil {
		return nil, err
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "recorded_date", Value: -1}})
	return findOne[models.RunningHours](ctx, c.Collection, bson.M{
		"equipment_id":  oid,
		"recorded_date": bson.M{"$lt": date},
	}, opts)
}

// FindLatest returns the most recent record of an equipment item.
func (c *MongoRunningHoursCollection) FindLatest(ctx context.Context, equipmentID string) (*models.RunningHours, error) {
	oid, err := objectID(equipmentID)
	if err != nil {
		return nil, err
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "recorded_date", Value: -1}})
	return findOne[models.RunningHours](ctx, c.Collection, bson.M{"equipment_id": oid}, opts)
}

// FindRunningHours lists records dated on or after since, oldest first.
func (c *MongoRunningHoursCollection) FindRunningHours(ctx context.Context, equipmentID string, since time.Time) ([]models.RunningHours, error) {
	oid, err := objectID(equipmentID)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "recorded_date", Value: 1}})
	return findAll[models.RunningHours](ctx, c.Collection, bson.M{
		"equipment_id":  oid,
		"recorded_date": bson.M{"$gte": since},
	}, opts)
}

// DeleteByEquipment removes every record of the given equipment items.
func (c *MongoRunningHoursCollection) DeleteByEquipment(ctx context.Context, ids []primitive.ObjectID) error {
	if c.Collection == nil {
		return ErrNilStorage
	}
	if len(ids) == 0 {
		return nil
	}
	_, err := c.Collection.DeleteMany(ctx, bson.M{"equipment_id": bson.M{"$in": ids}})
	return err
}
