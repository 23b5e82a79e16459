package pms

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/marine-pms/internal/models"
)

func TestComputeStats(t *testing.T) {
	past := timePtr(testNow.AddDate(0, 0, -1))
	var orders []models.WorkOrder
	for i := 0; i < 6; i++ {
		orders = append(orders, models.WorkOrder{Status: models.WorkOrderCompleted, DueDate: past})
	}
	orders = append(orders,
		models.WorkOrder{Status: models.WorkOrderPlanned, DueDate: past},
		models.WorkOrder{Status: models.WorkOrderPlanned},
		models.WorkOrder{Status: models.WorkOrderInProgress, DueDate: past},
		models.WorkOrder{Status: models.WorkOrderCancelled, DueDate: past},
	)

	st := ComputeStats(orders, testNow)
	assert.Equal(t, PMSStats{
		Total:          10,
		Completed:      6,
		Overdue:        2,
		InProgress:     1,
		Planned:        2,
		CompletionRate: 60.0,
	}, st)
}

func TestComputeStats_Empty(t *testing.T) {
	assert.Equal(t, PMSStats{}, ComputeStats(nil, testNow))
}

func TestStats_ScopedToVessel(t *testing.T) {
	store := newMemStore()
	v1 := store.addVessel("Ocean Star")
	v2 := store.addVessel("Sea Breeze")
	e1 := store.addEquipment(v1, "ME-001", 0, nil)
	e2 := store.addEquipment(v2, "ME-001", 0, nil)
	store.addOrder(e1, models.WorkOrderCompleted, nil, nil)
	store.addOrder(e1, models.WorkOrderPlanned, nil, nil)
	store.addOrder(e1, models.WorkOrderPlanned, nil, nil)
	store.addOrder(e2, models.WorkOrderCompleted, nil, nil)
	svc := newTestService(store)

	st, err := svc.Stats(context.Background(), v1.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 3, st.Total)
	assert.Equal(t, 33.3, st.CompletionRate)

	fleet, err := svc.Stats(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 4, fleet.Total)
	assert.Equal(t, 50.0, fleet.CompletionRate)
}

func TestStats_StoreError(t *testing.T) {
	store := newMemStore()
	store.failFind = errStoreDown
	svc := newTestService(store)

	_, err := svc.Stats(context.Background(), "")
	assert.ErrorIs(t, err, errStoreDown)
}

func TestComputeReliability(t *testing.T) {
	store := newMemStore()
	v := store.addVessel("Ocean Star")
	good := store.addEquipment(v, "GE-001", 0, nil)
	bad := store.addEquipment(v, "ME-001", 0, nil)
	idle := store.addEquipment(v, "PU-001", 0, nil)
	inactive := store.addEquipment(v, "BO-001", 0, nil)
	inactive.IsActive = false

	past := timePtr(testNow.AddDate(0, 0, -3))
	orders := []models.WorkOrder{
		{EquipmentID: good.ID, Status: models.WorkOrderCompleted},
		{EquipmentID: good.ID, Status: models.WorkOrderCompleted},
		{EquipmentID: bad.ID, Status: models.WorkOrderCompleted},
		{EquipmentID: bad.ID, Status: models.WorkOrderPlanned, DueDate: past},
		{EquipmentID: bad.ID, Status: models.WorkOrderPlanned},
		{EquipmentID: inactive.ID, Status: models.WorkOrderPlanned},
	}

	got := ComputeReliability([]models.Equipment{good, bad, idle, inactive}, orders, testNow)
	require.Len(t, got, 2)

	assert.Equal(t, "ME-001", got[0].EquipmentCode)
	assert.Equal(t, 3, got[0].TotalWO)
	assert.Equal(t, 1, got[0].CompletedWO)
	assert.Equal(t, 1, got[0].OverdueWO)
	assert.Equal(t, 33.3, got[0].Reliability)

	assert.Equal(t, "GE-001", got[1].EquipmentCode)
	assert.Equal(t, 100.0, got[1].Reliability)
}

func TestComputeReliability_TiesByCode(t *testing.T) {
	store := newMemStore()
	v := store.addVessel("Ocean Star")
	b := store.addEquipment(v, "B-001", 0, nil)
	a := store.addEquipment(v, "A-001", 0, nil)
	orders := []models.WorkOrder{
		{EquipmentID: b.ID, Status: models.WorkOrderCompleted},
		{EquipmentID: a.ID, Status: models.WorkOrderCompleted},
	}

	got := ComputeReliability([]models.Equipment{b, a}, orders, testNow)
	require.Len(t, got, 2)
	assert.Equal(t, "A-001", got[0].EquipmentCode)
	assert.Equal(t, "B-001", got[1].EquipmentCode)
}

func TestEquipmentReliability_Empty(t *testing.T) {
	svc := newTestService(newMemStore())
	got, err := svc.EquipmentReliability(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCompletionByVessel(t *testing.T) {
	store := newMemStore()
	v1 := store.addVessel("Alpha")
	v2 := store.addVessel("Bravo")
	e1 := store.addEquipment(v1, "ME-001", 0, nil)
	store.addOrder(e1, models.WorkOrderCompleted, nil, nil)
	store.addOrder(e1, models.WorkOrderPlanned, nil, nil)
	svc := newTestService(store)

	got, err := svc.CompletionByVessel(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, VesselCompletion{VesselID: v1.ID.Hex(), VesselName: "Alpha", Total: 2, Completed: 1, CompletionRate: 50}, got[0])
	assert.Equal(t, VesselCompletion{VesselID: v2.ID.Hex(), VesselName: "Bravo"}, got[1])

	one, err := svc.CompletionByVessel(context.Background(), v2.ID.Hex())
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "Bravo", one[0].VesselName)
}

func TestStatusDistribution(t *testing.T) {
	store := newMemStore()
	v := store.addVessel("Alpha")
	e := store.addEquipment(v, "ME-001", 0, nil)
	store.addOrder(e, models.WorkOrderCompleted, nil, nil)
	store.addOrder(e, models.WorkOrderCompleted, nil, nil)
	store.addOrder(e, models.WorkOrderPlanned, nil, timePtr(testNow.AddDate(0, 0, -1)))
	svc := newTestService(store)

	got, err := svc.StatusDistribution(context.Background(), v.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, []StatusCount{
		{Status: models.WorkOrderCompleted, Count: 2},
		{Status: models.WorkOrderPlanned, Count: 1},
	}, got)
}

func TestFleetSummary(t *testing.T) {
	store := newMemStore()
	v := store.addVessel("Alpha")
	retired, _ := store.InsertVessel(context.Background(), models.Vessel{Name: "Retired", IsActive: false})
	e := store.addEquipment(v, "ME-001", 0, nil)
	store.addEquipment(v, "GE-001", 0, nil)
	store.addEquipment(*retired, "ME-001", 0, nil)
	store.addOrder(e, models.WorkOrderCompleted, nil, nil)
	store.addOrder(e, models.WorkOrderPlanned, nil, timePtr(testNow.AddDate(0, 0, -1)))
	svc := newTestService(store)

	got, err := svc.FleetSummary(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, VesselSummary{
		VesselID:            v.ID.Hex(),
		VesselName:          "Alpha",
		VesselType:          "Bulk Carrier",
		EquipmentCount:      2,
		TotalWorkOrders:     2,
		OverdueWorkOrders:   1,
		CompletedWorkOrders: 1,
		CompletionRate:      50,
	}, got[0])
}
