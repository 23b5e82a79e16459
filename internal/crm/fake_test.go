package crm

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ukydev/marine-pms/internal/db"
	"github.com/ukydev/marine-pms/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// memStore is an in-memory CRM database.
type memStore struct {
	mu        sync.Mutex
	customers map[primitive.ObjectID]models.Customer
	orders    map[primitive.ObjectID]models.ServiceOrder
	inquiries map[primitive.ObjectID]models.Inquiry
	users     map[string]models.User
}

func newMemStore() *memStore {
	return &memStore{
		customers: make(map[primitive.ObjectID]models.Customer),
		orders:    make(map[primitive.ObjectID]models.ServiceOrder),
		inquiries: make(map[primitive.ObjectID]models.Inquiry),
		users:     make(map[string]models.User),
	}
}

func newTestService(m *memStore, opts ...Option) *Service {
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	return NewService(Stores{Customers: m, ServiceOrders: m, Inquiries: m, Users: m}, opts...)
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return oid, db.ErrNotFound
	}
	return oid, nil
}

func (m *memStore) addUser(email string) models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := models.User{ID: primitive.NewObjectID(), Username: email, Email: email, Role: models.RoleCustomer}
	m.users[u.ID.Hex()] = u
	return u
}

func (m *memStore) FindUserByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &u, nil
}

func (m *memStore) InsertCustomer(_ context.Context, c models.Customer) (*models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.customers {
		if existing.Email == c.Email {
			return nil, db.ErrDuplicate
		}
	}
	c.ID = primitive.NewObjectID()
	m.customers[c.ID] = c
	return &c, nil
}

func (m *memStore) FindCustomers(_ context.Context, f db.CustomerFilter) ([]models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Customer, 0)
	for _, c := range m.customers {
		if f.Country != "" && c.Country != f.Country {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompanyName < out[j].CompanyName })
	return out, nil
}

func (m *memStore) FindCustomerByID(_ context.Context, id string) (*models.Customer, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customers[oid]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &c, nil
}

func (m *memStore) FindCustomerByEmail(_ context.Context, email string) (*models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.customers {
		if c.Email == email {
			return &c, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *memStore) FindCustomersByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Customer, 0)
	for _, id := range ids {
		if c, ok := m.customers[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) UpdateCustomer(_ context.Context, c models.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[c.ID]; !ok {
		return db.ErrNotFound
	}
	m.customers[c.ID] = c
	return nil
}

func (m *memStore) DeleteCustomer(_ context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[oid]; !ok {
		return db.ErrNotFound
	}
	delete(m.customers, oid)
	return nil
}

func (m *memStore) InsertServiceOrder(_ context.Context, o models.ServiceOrder) (*models.ServiceOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o.ID = primitive.NewObjectID()
	m.orders[o.ID] = o
	return &o, nil
}

func (m *memStore) FindServiceOrders(_ context.Context, f db.ServiceOrderFilter) ([]models.ServiceOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.ServiceOrder, 0)
	for _, o := range m.orders {
		if f.CustomerID != "" && o.CustomerID.Hex() != f.CustomerID {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.OrderType != "" && o.OrderType != f.OrderType {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *memStore) FindServiceOrderByID(_ context.Context, id string) (*models.ServiceOrder, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[oid]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &o, nil
}

func (m *memStore) UpdateServiceOrder(_ context.Context, o models.ServiceOrder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[o.ID]; !ok {
		return db.ErrNotFound
	}
	m.orders[o.ID] = o
	return nil
}

func (m *memStore) InsertInquiry(_ context.Context, q models.Inquiry) (*models.Inquiry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q.ID = primitive.NewObjectID()
	m.inquiries[q.ID] = q
	return &q, nil
}

func (m *memStore) FindInquiries(_ context.Context, f db.InquiryFilter) ([]models.Inquiry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Inquiry, 0)
	for _, q := range m.inquiries {
		if f.Resolved != nil && q.IsResolved != *f.Resolved {
			continue
		}
		out = append(out, q)
	}
	return out, nil
}

func (m *memStore) FindInquiryByID(_ context.Context, id string) (*models.Inquiry, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.inquiries[oid]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &q, nil
}

func (m *memStore) UpdateInquiry(_ context.Context, q models.Inquiry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.inquiries[q.ID]; !ok {
		return db.ErrNotFound
	}
	m.inquiries[q.ID] = q
	return nil
}

// sent is one notification handed to the notifier.
type sent struct {
	email string // empty for admin broadcasts
	note  models.Notification
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sent
}

func (r *recordingNotifier) NotifyEmail(_ context.Context, email string, n models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sent{email: email, note: n})
	return nil
}

func (r *recordingNotifier) NotifyAdmins(_ context.Context, n models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sent{note: n})
	return nil
}
