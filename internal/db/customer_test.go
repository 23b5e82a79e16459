package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/marine-pms/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCustomerQuery(t *testing.T) {
	query := customerQuery(CustomerFilter{Search: "hanjin", Country: "Korea"})
	assert.Equal(t, "Korea", query["country"])
	assert.Len(t, query["$or"], 3)
	assert.Empty(t, customerQuery(CustomerFilter{}))
}

func TestServiceOrderQuery(t *testing.T) {
	cust := primitive.NewObjectID()
	query, ok := serviceOrderQuery(ServiceOrderFilter{CustomerID: cust.Hex(), Status: models.OrderPending, OrderType: models.OrderOverhaul})
	require.True(t, ok)
	assert.Equal(t, bson.M{"customer_id": cust, "status": models.OrderPending, "order_type": models.OrderOverhaul}, query)

	_, ok = serviceOrderQuery(ServiceOrderFilter{CustomerID: "bogus"})
	assert.False(t, ok)
}

// Integration test (requires running MongoDB)
func TestNotifications_ScopedToRecipient(t *testing.T) {
	database := testDatabase(t)
	ctx := context.Background()
	coll := &MongoNotificationCollection{Collection: database.Collection(NotificationsKey)}

	alice, bob := primitive.NewObjectID(), primitive.NewObjectID()
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, coll.InsertNotifications(ctx, []models.Notification{
		{UserID: alice, Title: "first", CreatedAt: base},
		{UserID: alice, Title: "second", CreatedAt: base.Add(time.Hour)},
		{UserID: bob, Title: "bob's"},
	}))

	list, err := coll.FindNotifications(ctx, alice.Hex(), 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Title)

	bobs, err := coll.FindNotifications(ctx, bob.Hex(), 0, 0)
	require.NoError(t, err)
	require.Len(t, bobs, 1)

	_, err = coll.MarkRead(ctx, bobs[0].ID.Hex(), alice.Hex())
	assert.ErrorIs(t, err, ErrNotFound)

	read, err := coll.MarkRead(ctx, list[0].ID.Hex(), alice.Hex())
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	unread, err := coll.CountUnread(ctx, alice.Hex())
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread)

	n, err := coll.MarkAllRead(ctx, alice.Hex())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	unread, err = coll.CountUnread(ctx, bob.Hex())
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread)
}

// Integration test (requires running MongoDB)
func TestActivity_LastSessions(t *testing.T) {
	database := testDatabase(t)
	ctx := context.Background()
	coll := &MongoActivityCollection{Collection: database.Collection(ActivityLogsKey)}

	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	for _, e := range []models.ActivityLog{
		{UserID: "u1", Username: "kim", Action: models.ActivityLogin, CreatedAt: base},
		{UserID: "u1", Username: "kim", Action: models.ActivityLogout, CreatedAt: base.Add(time.Hour)},
		{UserID: "u2", Username: "lee", Action: models.ActivityLogin, CreatedAt: base.Add(2 * time.Hour)},
		{UserID: "u2", Username: "lee", Action: "POST /api/parts", CreatedAt: base.Add(3 * time.Hour)},
	} {
		require.NoError(t, coll.InsertActivity(ctx, e))
	}

	sessions, err := coll.LastSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	byUser := map[string]SessionSummary{}
	for _, s := range sessions {
		byUser[s.UserID] = s
	}
	require.NotNil(t, byUser["u1"].LastLogout)
	assert.True(t, byUser["u1"].LastLogout.Equal(base.Add(time.Hour)))
	assert.Nil(t, byUser["u2"].LastLogout)
	assert.Equal(t, "lee", byUser["u2"].Username)

	logs, total, err := coll.FindActivity(ctx, ActivityFilter{UserID: "u2", Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, logs, 1)
	assert.Equal(t, "POST /api/parts", logs[0].Action)
}
