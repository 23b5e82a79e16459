package inventory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ukydev/marine-pms/internal/db"
	"github.com/ukydev/marine-pms/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// memStore is an in-memory parts catalogue and stock ledger.
type memStore struct {
	mu    sync.Mutex
	parts map[primitive.ObjectID]models.Part
	stock map[primitive.ObjectID]models.InventoryItem
}

func newMemStore() *memStore {
	return &memStore{
		parts: make(map[primitive.ObjectID]models.Part),
		stock: make(map[primitive.ObjectID]models.InventoryItem),
	}
}

func newTestService(m *memStore, opts ...Option) *Service {
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	return NewService(Stores{Parts: m, Inventory: m}, opts...)
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return oid, db.ErrNotFound
	}
	return oid, nil
}

func (m *memStore) InsertPart(_ context.Context, p models.Part) (*models.Part, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.parts {
		if existing.PartNumber == p.PartNumber {
			return nil, db.ErrDuplicate
		}
	}
	p.ID = primitive.NewObjectID()
	m.parts[p.ID] = p
	return &p, nil
}

func (m *memStore) FindParts(_ context.Context, f db.PartFilter) ([]models.Part, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Part, 0)
	for _, p := range m.parts {
		if f.Brand != "" && p.Brand != f.Brand {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Name+" "+p.PartNumber+" "+p.TurboModel), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PartNumber < out[j].PartNumber })
	return out, nil
}

func (m *memStore) FindPartByID(_ context.Context, id string) (*models.Part, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.parts[oid]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &p, nil
}

func (m *memStore) FindPartsByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Part, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Part, 0, len(ids))
	for _, id := range ids {
		if p, ok := m.parts[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) UpdatePart(_ context.Context, p models.Part) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.parts[p.ID]; !ok {
		return db.ErrNotFound
	}
	m.parts[p.ID] = p
	return nil
}

func (m *memStore) DeletePart(_ context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.parts[oid]; !ok {
		return db.ErrNotFound
	}
	delete(m.parts, oid)
	return nil
}

func (m *memStore) distinct(field func(models.Part) string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[string]bool{}
	out := make([]string, 0)
	for _, p := range m.parts {
		if v := field(p); v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

func (m *memStore) PartBrands(context.Context) ([]string, error) {
	return m.distinct(func(p models.Part) string { return p.Brand }), nil
}

func (m *memStore) PartCategories(context.Context) ([]string, error) {
	return m.distinct(func(p models.Part) string { return p.Category }), nil
}

func (m *memStore) InsertInventory(_ context.Context, it models.InventoryItem) (*models.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it.ID = primitive.NewObjectID()
	m.stock[it.ID] = it
	return &it, nil
}

func (m *memStore) FindInventory(_ context.Context, f db.InventoryFilter) ([]models.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.InventoryItem, 0)
	for _, it := range m.stock {
		if f.Warehouse != "" && it.Warehouse != f.Warehouse {
			continue
		}
		if f.LowStockOnly && !it.IsLowStock() {
			continue
		}
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out, nil
}

func (m *memStore) FindInventoryByID(_ context.Context, id string) (*models.InventoryItem, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.stock[oid]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &it, nil
}

func (m *memStore) FindInventoryByParts(_ context.Context, ids []primitive.ObjectID) ([]models.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := map[primitive.ObjectID]bool{}
	for _, id := range ids {
		want[id] = true
	}
	out := make([]models.InventoryItem, 0)
	for _, it := range m.stock {
		if want[it.PartID] {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *memStore) UpdateInventory(_ context.Context, it models.InventoryItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.stock[it.ID]; !ok {
		return db.ErrNotFound
	}
	m.stock[it.ID] = it
	return nil
}

func (m *memStore) AdjustQuantity(_ context.Context, id string, delta int) (*models.InventoryItem, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.stock[oid]
	if !ok {
		return nil, db.ErrNotFound
	}
	if it.Quantity+delta < 0 {
		return nil, db.ErrInsufficientStock
	}
	it.Quantity += delta
	m.stock[oid] = it
	return &it, nil
}

func (m *memStore) DeleteInventoryByPart(_ context.Context, partID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, it := range m.stock {
		if it.PartID == partID {
			delete(m.stock, id)
		}
	}
	return nil
}

// stockOf returns the stock record of a part.
func (m *memStore) stockOf(partID primitive.ObjectID) models.InventoryItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.stock {
		if it.PartID == partID {
			return it
		}
	}
	return models.InventoryItem{}
}

// recordingAlerter keeps every alert it receives.
type recordingAlerter struct {
	mu     sync.Mutex
	alerts []StockAlert
}

func (r *recordingAlerter) NotifyLowStock(_ context.Context, a StockAlert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, a)
	return nil
}
