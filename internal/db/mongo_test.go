package db

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/marine-pms/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// testDatabase connects to MONGO_URI and returns a freshly dropped
// database, or skips the test when MongoDB is unavailable.
func testDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MONGO_URI")
	if uri == "" || uri == "uri" {
		t.Skip("MONGO_URI not set or invalid, skipping integration test")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := ConnectMongo(ctx, uri)
	if err != nil {
		t.Skipf("failed to connect: %v, skipping integration test", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	database := client.Database("test_marine_pms")
	require.NoError(t, database.Drop(context.Background()))
	require.NoError(t, EnsureIndexes(context.Background(), database))
	return database
}

func TestConnectMongo_BadURI(t *testing.T) {
	client, err := ConnectMongo(context.Background(), "mongodb://bad:uri")
	assert.Error(t, err)
	assert.Nil(t, client)
}

func TestNilCollections(t *testing.T) {
	ctx := context.Background()

	_, err := (&MongoVesselCollection{}).InsertVessel(ctx, models.Vessel{})
	assert.ErrorIs(t, err, ErrNilStorage)

	_, err = (&MongoEquipmentCollection{}).FindEquipment(ctx, EquipmentFilter{})
	assert.ErrorIs(t, err, ErrNilStorage)

	_, err = (&MongoRunningHoursCollection{}).UpsertRunningHours(ctx, models.RunningHours{})
	assert.ErrorIs(t, err, ErrNilStorage)

	_, err = (&MongoWorkOrderCollection{}).FindWorkOrders(ctx, WorkOrderFilter{})
	assert.ErrorIs(t, err, ErrNilStorage)

	err = (&MongoPlanCollection{}).UpdatePlan(ctx, models.MaintenancePlan{})
	assert.ErrorIs(t, err, ErrNilStorage)

	_, err = (&MongoPartCollection{}).PartBrands(ctx)
	assert.ErrorIs(t, err, ErrNilStorage)

	_, err = (&MongoInventoryCollection{}).AdjustQuantity(ctx, primitive.NewObjectID().Hex(), -1)
	assert.ErrorIs(t, err, ErrNilStorage)

	_, err = (&MongoCustomerCollection{}).FindCustomers(ctx, CustomerFilter{})
	assert.ErrorIs(t, err, ErrNilStorage)

	_, err = (&MongoServiceOrderCollection{}).InsertServiceOrder(ctx, models.ServiceOrder{})
	assert.ErrorIs(t, err, ErrNilStorage)

	err = (&MongoInquiryCollection{}).UpdateInquiry(ctx, models.Inquiry{})
	assert.ErrorIs(t, err, ErrNilStorage)

	_, err = (&MongoNotificationCollection{}).CountUnread(ctx, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrNilStorage)

	_, _, err = (&MongoActivityCollection{}).FindActivity(ctx, ActivityFilter{})
	assert.ErrorIs(t, err, ErrNilStorage)
}

func TestObjectID_Invalid(t *testing.T) {
	_, err := objectID("not-a-hex-id")
	assert.ErrorIs(t, err, ErrNotFound)

	oid := primitive.NewObjectID()
	parsed, err := objectID(oid.Hex())
	require.NoError(t, err)
	assert.Equal(t, oid, parsed)
}

func TestObjectIDs_SkipsMalformed(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	got := objectIDs([]string{a.Hex(), "bogus", b.Hex()})
	assert.Equal(t, []primitive.ObjectID{a, b}, got)
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(mongo.ErrNoDocuments), ErrNotFound)

	other := errors.New("boom")
	assert.Equal(t, other, translate(other))
}

func TestWorkOrderQuery(t *testing.T) {
	vessel := primitive.NewObjectID()
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC)

	query, ok := workOrderQuery(WorkOrderFilter{
		VesselID:    vessel.Hex(),
		Statuses:    []models.WorkOrderStatus{models.WorkOrderPlanned},
		PlannedFrom: &from,
		PlannedTo:   &to,
	})
	require.True(t, ok)
	assert.Equal(t, vessel, query["vessel_id"])
	assert.Equal(t, bson.M{"$in": []models.WorkOrderStatus{models.WorkOrderPlanned}}, query["status"])
	assert.Equal(t, bson.M{"$gte": from, "$lte": to}, query["planned_date"])

	_, ok = workOrderQuery(WorkOrderFilter{VesselID: "bogus"})
	assert.False(t, ok)

	query, ok = workOrderQuery(WorkOrderFilter{})
	require.True(t, ok)
	assert.Empty(t, query)
}

// Integration test (requires running MongoDB)
func TestRunningHours_UpsertKeepsOneRecordPerDay(t *testing.T) {
	database := testDatabase(t)
	ctx := context.Background()
	coll := &MongoRunningHoursCollection{Collection: database.Collection(RunningHoursKey)}

	eqID := primitive.NewObjectID()
	day := models.CalendarDate(time.Date(2025, 1, 2, 15, 0, 0, 0, time.UTC))

	first, err := coll.UpsertRunningHours(ctx, models.RunningHours{EquipmentID: eqID, RecordedDate: day, DailyHours: 10, TotalHours: 110})
	require.NoError(t, err)
	second, err := coll.UpsertRunningHours(ctx, models.RunningHours{EquipmentID: eqID, RecordedDate: day, DailyHours: 20, TotalHours: 120})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 20.0, second.DailyHours)
	assert.Equal(t, 120.0, second.TotalHours)

	n, err := coll.Collection.CountDocuments(ctx, bson.M{"equipment_id": eqID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = coll.UpsertRunningHours(ctx, models.RunningHours{EquipmentID: eqID, RecordedDate: day.AddDate(0, 0, 2), DailyHours: 5, TotalHours: 125})
	require.NoError(t, err)

	prev, err := coll.FindLatestBefore(ctx, eqID.Hex(), day.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Equal(t, 120.0, prev.TotalHours)

	_, err = coll.FindLatestBefore(ctx, eqID.Hex(), day)
	assert.ErrorIs(t, err, ErrNotFound)

	latest, err := coll.FindLatest(ctx, eqID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 125.0, latest.TotalHours)

	records, err := coll.FindRunningHours(ctx, eqID.Hex(), day)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

// Integration test (requires running MongoDB)
func TestEquipment_DuplicateCodeOnVessel(t *testing.T) {
	database := testDatabase(t)
	ctx := context.Background()
	coll := &MongoEquipmentCollection{Collection: database.Collection(EquipmentKey)}

	vessel := primitive.NewObjectID()
	_, err := coll.InsertEquipment(ctx, models.Equipment{VesselID: vessel, EquipmentCode: "ME-001", Name: "Main Engine"})
	require.NoError(t, err)

	_, err = coll.InsertEquipment(ctx, models.Equipment{VesselID: vessel, EquipmentCode: "ME-001", Name: "Copy"})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = coll.InsertEquipment(ctx, models.Equipment{VesselID: primitive.NewObjectID(), EquipmentCode: "ME-001", Name: "Other vessel"})
	assert.NoError(t, err)
}
