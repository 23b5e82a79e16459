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

// NotificationCollection defines the interface for per-user in-app
// notifications. Every query is scoped to one recipient.
type NotificationCollection interface {
	InsertNotifications(ctx context.Context, notes []models.Notification) error
	FindNotifications(ctx context.Context, userID string, skip, limit int) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id, userID string) (*models.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

// MongoNotificationCollection implements NotificationCollection for
// MongoDB.
type MongoNotificationCollection struct {
	Collection *mongo.Collection
}

// InsertNotifications stores notes in one batch.
func (c *MongoNotificationCollection) InsertNotifications(ctx context.Context, notes []models.Notification) error {
	if c.Collection == nil {
		return ErrNilStorage
	}
	if len(notes) == 0 {
		return nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(notes))
	for _, n := range notes {
		if n.ID.IsZero() {
			n.ID = primitive.NewObjectID()
		}
		if n.CreatedAt.IsZero() {
			n.CreatedAt = now
		}
		docs = append(docs, n)
	}
	_, err := c.Collection.InsertMany(ctx, docs)
	return translate(err)
}

// FindNotifications lists a user's notifications, newest first.
func (c *MongoNotificationCollection) FindNotifications(ctx context.Context, userID string, skip, limit int) ([]models.Notification, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []models.Notification{}, nil
	}
	opts := page(options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}), skip, limit)
	return findAll[models.Notification](ctx, c.Collection, bson.M{"user_id": uid}, opts)
}

// CountUnread counts a user's unread notifications.
func (c *MongoNotificationCollection) CountUnread(ctx context.Context, userID string) (int64, error) {
	if c.Collection == nil {
		return 0, ErrNilStorage
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return 0, nil
	}
	return c.Collection.CountDocuments(ctx, bson.M{"user_id": uid, "is_read": false})
}

// MarkRead flags one of the user's notifications as read. Notifications
// of other users are reported as ErrNotFound.
func (c *MongoNotificationCollection) MarkRead(ctx context.Context, id, userID string) (*models.Notification, error) {
	if c.Collection == nil {
		return nil, ErrNilStorage
	}
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	uid, err := objectID(userID)
	if err != nil {
		return nil, err
	}
	var note models.Notification
	err = c.Collection.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "user_id": uid},
		bson.M{"$set": bson.M{"is_read": true}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&note)
	if err != nil {
		return nil, translate(err)
	}
	return &note, nil
}

// MarkAllRead flags every unread notification of the user as read and
// reports how many changed.
func (c *MongoNotificationCollection) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	if c.Collection == nil {
		return 0, ErrNilStorage
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return 0, nil
	}
	result, err := c.Collection.UpdateMany(ctx,
		bson.M{"user_id": uid, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}
