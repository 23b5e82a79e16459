package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/marine-pms/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

func insertTestUser(t *testing.T, userCollection *MongoUserCollection) models.User {
	t.Helper()
	user := models.User{
		Username:     "testuser",
		Email:        "test@example.com",
		PasswordHash: "hashedpassword",
		Role:         models.RoleChiefEngineer,
		FirstName:    "Test",
		LastName:     "User",
	}
	require.NoError(t, userCollection.InsertUser(context.Background(), user))

	var inserted models.User
	err := userCollection.Collection.FindOne(context.Background(), bson.M{"username": "testuser"}).Decode(&inserted)
	require.NoError(t, err)
	return inserted
}

func TestMongoUserCollection_InsertUser(t *testing.T) {
	database := testDatabase(t)
	userCollection := &MongoUserCollection{Collection: database.Collection(UsersKey)}

	found := insertTestUser(t, userCollection)
	assert.Equal(t, "testuser", found.Username)
	assert.Equal(t, "test@example.com", found.Email)
	assert.Equal(t, models.RoleChiefEngineer, found.Role)
	assert.True(t, found.IsActive)
	assert.NotZero(t, found.CreatedAt)
	assert.NotZero(t, found.UpdatedAt)
}

func TestMongoUserCollection_Find(t *testing.T) {
	database := testDatabase(t)
	userCollection := &MongoUserCollection{Collection: database.Collection(UsersKey)}
	inserted := insertTestUser(t, userCollection)
	ctx := context.Background()

	byID, err := userCollection.FindUserByID(ctx, inserted.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "testuser", byID.Username)

	byName, err := userCollection.FindUserByUsername(ctx, "testuser")
	require.NoError(t, err)
	assert.Equal(t, inserted.ID, byName.ID)

	byEmail, err := userCollection.FindUserByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, inserted.ID, byEmail.ID)

	_, err = userCollection.FindUserByID(ctx, "invalid-id")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = userCollection.FindUserByUsername(ctx, "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)

	crew, err := userCollection.FindUsers(ctx, models.RoleChiefEngineer)
	require.NoError(t, err)
	assert.Len(t, crew, 1)

	admins, err := userCollection.FindUsers(ctx, models.RoleAdmin)
	require.NoError(t, err)
	assert.Empty(t, admins)
}

func TestMongoUserCollection_DuplicateUsername(t *testing.T) {
	database := testDatabase(t)
	userCollection := &MongoUserCollection{Collection: database.Collection(UsersKey)}
	insertTestUser(t, userCollection)

	err := userCollection.InsertUser(context.Background(), models.User{Username: "testuser", Email: "other@example.com"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestMongoUserCollection_UpdateUser(t *testing.T) {
	database := testDatabase(t)
	userCollection := &MongoUserCollection{Collection: database.Collection(UsersKey)}
	inserted := insertTestUser(t, userCollection)
	ctx := context.Background()

	updated := inserted
	updated.FirstName = "Updated"
	updated.LastName = "Name"
	require.NoError(t, userCollection.UpdateUser(ctx, inserted.ID.Hex(), updated))

	found, err := userCollection.FindUserByID(ctx, inserted.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Updated", found.FirstName)
	assert.Equal(t, "Name", found.LastName)
	assert.True(t, found.UpdatedAt.After(inserted.UpdatedAt))
}

func TestMongoUserCollection_DeleteUser(t *testing.T) {
	database := testDatabase(t)
	userCollection := &MongoUserCollection{Collection: database.Collection(UsersKey)}
	inserted := insertTestUser(t, userCollection)
	ctx := context.Background()

	require.NoError(t, userCollection.DeleteUser(ctx, inserted.ID.Hex()))

	_, err := userCollection.FindUserByID(ctx, inserted.ID.Hex())
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, userCollection.DeleteUser(ctx, inserted.ID.Hex()), ErrNotFound)
}

func TestMongoUserCollection_UpdateLastLogin(t *testing.T) {
	database := testDatabase(t)
	userCollection := &MongoUserCollection{Collection: database.Collection(UsersKey)}
	inserted := insertTestUser(t, userCollection)
	ctx := context.Background()

	require.NoError(t, userCollection.UpdateLastLogin(ctx, inserted.ID.Hex()))

	found, err := userCollection.FindUserByID(ctx, inserted.ID.Hex())
	require.NoError(t, err)
	require.NotNil(t, found.LastLogin)
	assert.False(t, found.LastLogin.Before(inserted.CreatedAt))
}
