package pms

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/ukydev/marine-pms/internal/db"
	"github.com/ukydev/marine-pms/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore is an in-memory implementation of every collection the
// service uses.
type memStore struct {
	mu        sync.Mutex
	vessels   map[primitive.ObjectID]models.Vessel
	equipment map[primitive.ObjectID]models.Equipment
	hours     []models.RunningHours
	orders    map[primitive.ObjectID]models.WorkOrder
	plans     map[primitive.ObjectID]models.MaintenancePlan

	failFind error
}

func newMemStore() *memStore {
	return &memStore{
		vessels:   make(map[primitive.ObjectID]models.Vessel),
		equipment: make(map[primitive.ObjectID]models.Equipment),
		orders:    make(map[primitive.ObjectID]models.WorkOrder),
		plans:     make(map[primitive.ObjectID]models.MaintenancePlan),
	}
}

func (m *memStore) stores() Stores {
	return Stores{Vessels: m, Equipment: m, RunningHours: m, WorkOrders: m, Plans: m}
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return oid, db.ErrNotFound
	}
	return oid, nil
}

func (m *memStore) InsertVessel(_ context.Context, v models.Vessel) (*models.Vessel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v.ID.IsZero() {
		v.ID = primitive.NewObjectID()
	}
	m.vessels[v.ID] = v
	return &v, nil
}

func (m *memStore) FindVessels(_ context.Context, f db.VesselFilter) ([]models.Vessel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[string]bool)
	for _, id := range f.IDs {
		want[id] = true
	}
	out := []models.Vessel{}
	for _, v := range m.vessels {
		if len(want) > 0 && !want[v.ID.Hex()] {
			continue
		}
		if f.ActiveOnly && !v.IsActive {
			continue
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) FindVesselByID(_ context.Context, id string) (*models.Vessel, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vessels[oid]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &v, nil
}

func (m *memStore) UpdateVessel(_ context.Context, v models.Vessel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.vessels[v.ID]; !ok {
		return db.ErrNotFound
	}
	m.vessels[v.ID] = v
	return nil
}

func (m *memStore) InsertEquipment(_ context.Context, eq models.Equipment) (*models.Equipment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if eq.ID.IsZero() {
		eq.ID = primitive.NewObjectID()
	}
	m.equipment[eq.ID] = eq
	return &eq, nil
}

func (m *memStore) FindEquipment(_ context.Context, f db.EquipmentFilter) ([]models.Equipment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failFind != nil {
		return nil, m.failFind
	}
	out := []models.Equipment{}
	for _, eq := range m.equipment {
		if f.VesselID != "" && eq.VesselID.Hex() != f.VesselID {
			continue
		}
		if f.Category != "" && eq.Category != f.Category {
			continue
		}
		if f.ActiveOnly && !eq.IsActive {
			continue
		}
		out = append(out, eq)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out, nil
}

func (m *memStore) FindEquipmentByID(_ context.Context, id string) (*models.Equipment, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	eq, ok := m.equipment[oid]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &eq, nil
}

func (m *memStore) FindEquipmentByCode(_ context.Context, vesselID, code string) (*models.Equipment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, eq := range m.equipment {
		if eq.VesselID.Hex() == vesselID && eq.EquipmentCode == code {
			return &eq, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *memStore) UpdateEquipment(_ context.Context, eq models.Equipment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.equipment[eq.ID]; !ok {
		return db.ErrNotFound
	}
	m.equipment[eq.ID] = eq
	return nil
}

func (m *memStore) UpdateRunningHours(_ context.Context, id string, hours float64, status models.EquipmentStatus) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	eq, ok := m.equipment[oid]
	if !ok {
		return db.ErrNotFound
	}
	eq.CurrentRunningHours = hours
	eq.Status = status
	m.equipment[oid] = eq
	return nil
}

func (m *memStore) DeleteEquipment(_ context.Context, ids []primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delete(m.equipment, id)
	}
	return nil
}

func (m *memStore) UpsertRunningHours(_ context.Context, rec models.RunningHours) (*models.RunningHours, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.hours {
		if r.EquipmentID == rec.EquipmentID && r.RecordedDate.Equal(rec.RecordedDate) {
			r.DailyHours = rec.DailyHours
			r.TotalHours = rec.TotalHours
			r.RecordedBy = rec.RecordedBy
			r.Note = rec.Note
			m.hours[i] = r
			return &r, nil
		}
	}
	rec.ID = primitive.NewObjectID()
	m.hours = append(m.hours, rec)
	return &rec, nil
}

func (m *memStore) FindLatestBefore(_ context.Context, equipmentID string, date time.Time) (*models.RunningHours, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var best *models.RunningHours
	for i, r := range m.hours {
		if r.EquipmentID.Hex() != equipmentID || !r.RecordedDate.Before(date) {
			continue
		}
		if best == nil || r.RecordedDate.After(best.RecordedDate) {
			best = &m.hours[i]
		}
	}
	if best == nil {
		return nil, db.ErrNotFound
	}
	out := *best
	return &out, nil
}

func (m *memStore) FindLatest(ctx context.Context, equipmentID string) (*models.RunningHours, error) {
	return m.FindLatestBefore(ctx, equipmentID, time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC))
}

func (m *memStore) FindRunningHours(_ context.Context, equipmentID string, since time.Time) ([]models.RunningHours, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.RunningHours
	for i := len(m.hours) - 1; i >= 0; i-- {
		r := m.hours[i]
		if r.EquipmentID.Hex() == equipmentID && !r.RecordedDate.Before(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) DeleteByEquipment(_ context.Context, ids []primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	drop := make(map[primitive.ObjectID]bool)
	for _, id := range ids {
		drop[id] = true
	}
	kept := m.hours[:0]
	for _, r := range m.hours {
		if !drop[r.EquipmentID] {
			kept = append(kept, r)
		}
	}
	m.hours = kept
	return nil
}

func (m *memStore) countHours(equipmentID primitive.ObjectID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.hours {
		if r.EquipmentID == equipmentID {
			n++
		}
	}
	return n
}

func (m *memStore) InsertWorkOrder(_ context.Context, wo models.WorkOrder) (*models.WorkOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if wo.ID.IsZero() {
		wo.ID = primitive.NewObjectID()
	}
	m.orders[wo.ID] = wo
	return &wo, nil
}

func (m *memStore) FindWorkOrders(_ context.Context, f db.WorkOrderFilter) ([]models.WorkOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failFind != nil {
		return nil, m.failFind
	}
	statuses := make(map[models.WorkOrderStatus]bool)
	for _, s := range f.Statuses {
		statuses[s] = true
	}
	out := []models.WorkOrder{}
	for _, wo := range m.orders {
		if f.VesselID != "" && wo.VesselID.Hex() != f.VesselID {
			continue
		}
		if f.EquipmentID != "" && wo.EquipmentID.Hex() != f.EquipmentID {
			continue
		}
		if len(statuses) > 0 && !statuses[wo.Status] {
			continue
		}
		if f.PlannedFrom != nil && (wo.PlannedDate == nil || wo.PlannedDate.Before(*f.PlannedFrom)) {
			continue
		}
		if f.PlannedTo != nil && (wo.PlannedDate == nil || wo.PlannedDate.After(*f.PlannedTo)) {
			continue
		}
		out = append(out, wo)
	}
	return out, nil
}

func (m *memStore) FindWorkOrderByID(_ context.Context, id string) (*models.WorkOrder, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	wo, ok := m.orders[oid]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &wo, nil
}

func (m *memStore) UpdateWorkOrder(_ context.Context, wo models.WorkOrder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[wo.ID]; !ok {
		return db.ErrNotFound
	}
	m.orders[wo.ID] = wo
	return nil
}

func (m *memStore) DeleteWorkOrdersByEquipment(_ context.Context, ids []primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	drop := idSet(ids)
	var n int64
	for id, wo := range m.orders {
		if drop[wo.EquipmentID] {
			delete(m.orders, id)
			n++
		}
	}
	return n, nil
}

func (m *memStore) InsertPlan(_ context.Context, p models.MaintenancePlan) (*models.MaintenancePlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	m.plans[p.ID] = p
	return &p, nil
}

func (m *memStore) FindPlans(_ context.Context, f db.PlanFilter) ([]models.MaintenancePlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.MaintenancePlan{}
	for _, p := range m.plans {
		if f.VesselID != "" && p.VesselID.Hex() != f.VesselID {
			continue
		}
		if f.EquipmentID != "" && p.EquipmentID.Hex() != f.EquipmentID {
			continue
		}
		if f.ActiveOnly && !p.IsActive {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *memStore) FindPlanByID(_ context.Context, id string) (*models.MaintenancePlan, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.plans[oid]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &p, nil
}

func (m *memStore) UpdatePlan(_ context.Context, p models.MaintenancePlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.plans[p.ID]; !ok {
		return db.ErrNotFound
	}
	m.plans[p.ID] = p
	return nil
}

func (m *memStore) DeletePlansByEquipment(_ context.Context, ids []primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	drop := idSet(ids)
	var n int64
	for id, p := range m.plans {
		if drop[p.EquipmentID] {
			delete(m.plans, id)
			n++
		}
	}
	return n, nil
}

func idSet(ids []primitive.ObjectID) map[primitive.ObjectID]bool {
	set := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// recordingNotifier remembers every status change it is told about.
type recordingNotifier struct {
	changes []StatusChange
	err     error
}

func (n *recordingNotifier) NotifyStatusChange(_ context.Context, c StatusChange) error {
	n.changes = append(n.changes, c)
	return n.err
}

var errStoreDown = errors.New("store down")

func floatPtr(f float64) *float64 { return &f }

func timePtr(t time.Time) *time.Time { return &t }

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestService(store *memStore, opts ...Option) *Service {
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	return NewService(store.stores(), opts...)
}

func (m *memStore) addVessel(name string) models.Vessel {
	v, _ := m.InsertVessel(context.Background(), models.Vessel{Name: name, VesselType: "Bulk Carrier", IsActive: true})
	return *v
}

func (m *memStore) addEquipment(vessel models.Vessel, code string, hours float64, interval *float64) models.Equipment {
	eq, _ := m.InsertEquipment(context.Background(), models.Equipment{
		VesselID:              vessel.ID,
		EquipmentCode:         code,
		Name:                  code,
		Category:              models.CategoryMainEngine,
		CurrentRunningHours:   hours,
		OverhaulIntervalHours: interval,
		Status:                models.EquipmentStatusNormal,
		IsActive:              true,
	})
	return *eq
}

func (m *memStore) addOrder(eq models.Equipment, status models.WorkOrderStatus, planned, due *time.Time) models.WorkOrder {
	wo, _ := m.InsertWorkOrder(context.Background(), models.WorkOrder{
		EquipmentID: eq.ID,
		VesselID:    eq.VesselID,
		Title:       "check " + eq.EquipmentCode,
		Status:      status,
		Priority:    models.PriorityMedium,
		PlannedDate: planned,
		DueDate:     due,
	})
	return *wo
}
