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

// ActivityFilter narrows activity-log queries.
type ActivityFilter struct {
	Action string
	UserID string
	Skip   int
	Limit  int
}

// SessionSummary is a user's most recent login and logout.
type SessionSummary struct {
	UserID     string     `bson:"_id"`
	Username   string     `bson:"username"`
	Email      string     `bson:"email"`
	LastLogin  *time.Time `bson:"last_login"`
	LastLogout *time.Time `bson:"last_logout"`
}

// ActivityCollection defines the interface for the user activity trail.
type ActivityCollection interface {
	InsertActivity(ctx context.Context, entry models.ActivityLog) error
	FindActivity(ctx context.Context, filter ActivityFilter) ([]models.ActivityLog, int64, error)
	LastSessions(ctx context.Context) ([]SessionSummary, error)
}

// MongoActivityCollection implements ActivityCollection for MongoDB.
type MongoActivityCollection struct {
	Collection *mongo.Collection
}

// InsertActivity appends an entry to the trail.
func (c *MongoActivityCollection) InsertActivity(ctx context.Context, entry models.ActivityLog) error {
	if c.Collection == nil {
		return ErrNilStorage
	}
	entry.ID = primitive.NewObjectID()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	_, err := c.Collection.InsertOne(ctx, entry)
	return translate(err)
}

func activityQuery(f ActivityFilter) bson.M {
	query := bson.M{}
	if f.Action != "" {
		query["action"] = f.Action
	}
	if f.UserID != "" {
		query["user_id"] = f.UserID
	}
	return query
}

// FindActivity returns one page of matching entries, newest first, and the
// number of entries matching in total.
func (c *MongoActivityCollection) FindActivity(ctx context.Context, filter ActivityFilter) ([]models.ActivityLog, int64, error) {
	if c.Collection == nil {
		return nil, 0, ErrNilStorage
	}
	query := activityQuery(filter)
	total, err := c.Collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	opts := page(options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}), filter.Skip, filter.Limit)
	logs, err := findAll[models.ActivityLog](ctx, c.Collection, query, opts)
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// sessionPipeline groups login and logout entries per user, keeping the
// latest of each.
func sessionPipeline() mongo.Pipeline {
	latest := func(action string) bson.M {
		return bson.M{"$max": bson.M{"$cond": bson.A{
			bson.M{"$eq": bson.A{"$action", action}}, "$created_at", nil,
		}}}
	}
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"action": bson.M{"$in": bson.A{models.ActivityLogin, models.ActivityLogout}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: 1}}}},
		{{Key: "$group", Value: bson.M{
			"_id":         "$user_id",
			"username":    bson.M{"$last": "$username"},
			"email":       bson.M{"$last": "$email"},
			"last_login":  latest(models.ActivityLogin),
			"last_logout": latest(models.ActivityLogout),
		}}},
	}
}

// LastSessions reports the latest login and logout of every user that has
// either.
func (c *MongoActivityCollection) LastSessions(ctx context.Context) ([]SessionSummary, error) {
	if c.Collection == nil {
		return nil, ErrNilStorage
	}
	cursor, err := c.Collection.Aggregate(ctx, sessionPipeline())
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	out := make([]SessionSummary, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
