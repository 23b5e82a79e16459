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

// CustomerFilter narrows customer queries. Search matches company, contact
// name or email, case-insensitively.
type CustomerFilter struct {
	Search  string
	Country string
	Skip    int
	Limit   int
}

// ServiceOrderFilter narrows service-order queries.
type ServiceOrderFilter struct {
	CustomerID string
	Status     models.OrderStatus
	OrderType  models.OrderType
	Skip       int
	Limit      int
}

// InquiryFilter narrows inquiry queries. A nil Resolved matches both.
type InquiryFilter struct {
	Resolved *bool
	Skip     int
	Limit    int
}

// CustomerCollection defines the interface for customer data operations.
// Emails are unique.
type CustomerCollection interface {
	InsertCustomer(ctx context.Context, c models.Customer) (*models.Customer, error)
	FindCustomers(ctx context.Context, filter CustomerFilter) ([]models.Customer, error)
	FindCustomerByID(ctx context.Context, id string) (*models.Customer, error)
	FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error)
	FindCustomersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Customer, error)
	UpdateCustomer(ctx context.Context, c models.Customer) error
	DeleteCustomer(ctx context.Context, id string) error
}

// ServiceOrderCollection defines the interface for service orders.
type ServiceOrderCollection interface {
	InsertServiceOrder(ctx context.Context, o models.ServiceOrder) (*models.ServiceOrder, error)
	FindServiceOrders(ctx context.Context, filter ServiceOrderFilter) ([]models.ServiceOrder, error)
	FindServiceOrderByID(ctx context.Context, id string) (*models.ServiceOrder, error)
	UpdateServiceOrder(ctx context.Context, o models.ServiceOrder) error
}

// InquiryCollection defines the interface for customer inquiries.
type InquiryCollection interface {
	InsertInquiry(ctx context.Context, q models.Inquiry) (*models.Inquiry, error)
	FindInquiries(ctx context.Context, filter InquiryFilter) ([]models.Inquiry, error)
	FindInquiryByID(ctx context.Context, id string) (*models.Inquiry, error)
	UpdateInquiry(ctx context.Context, q models.Inquiry) error
}

// MongoCustomerCollection implements CustomerCollection for MongoDB.
type MongoCustomerCollection struct {
	Collection *mongo.Collection
}

// InsertCustomer inserts a customer and returns it with its new ID.
func (c *MongoCustomerCollection) InsertCustomer(ctx context.Context, cust models.Customer) (*models.Customer, error) {
	if c.Collection == nil {
		return nil, ErrNilStorage
	}
	cust.ID = primitive.NewObjectID()
	cust.CreatedAt = time.Now().UTC()
	if _, err := c.Collection.InsertOne(ctx, cust); err != nil {
		return nil, translate(err)
	}
	return &cust, nil
}

func customerQuery(f CustomerFilter) bson.M {
	query := bson.M{}
	if f.Country != "" {
		query["country"] = f.Country
	}
	if f.Search != "" {
		re := containsFold(f.Search)
		query["$or"] = bson.A{
			bson.M{"company_name": re},
			bson.M{"contact_name": re},
			bson.M{"email": re},
		}
	}
	return query
}

// FindCustomers lists customers ordered by company name.
func (c *MongoCustomerCollection) FindCustomers(ctx context.Context, filter CustomerFilter) ([]models.Customer, error) {
	opts := page(options.Find().SetSort(bson.D{{Key: "company_name", Value: 1}}), filter.Skip, filter.Limit)
	return findAll[models.Customer](ctx, c.Collection, customerQuery(filter), opts)
}

// FindCustomerByID finds a customer by its ID.
func (c *MongoCustomerCollection) FindCustomerByID(ctx context.Context, id string) (*models.Customer, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return findOne[models.Customer](ctx, c.Collection, bson.M{"_id": oid})
}

// FindCustomerByEmail finds a customer by contact email.
func (c *MongoCustomerCollection) FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	return findOne[models.Customer](ctx, c.Collection, bson.M{"email": email})
}

// FindCustomersByIDs loads the customers with the given IDs.
func (c *MongoCustomerCollection) FindCustomersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Customer, error) {
	if len(ids) == 0 {
		return []models.Customer{}, nil
	}
	return findAll[models.Customer](ctx, c.Collection, bson.M{"_id": bson.M{"$in": ids}})
}

// UpdateCustomer replaces the stored customer with the same ID.
func (c *MongoCustomerCollection) UpdateCustomer(ctx context.Context, cust models.Customer) error {
	return replaceByID(ctx, c.Collection, cust.ID, cust)
}

// DeleteCustomer removes a customer.
func (c *MongoCustomerCollection) DeleteCustomer(ctx context.Context, id string) error {
	return deleteByID(ctx, c.Collection, id)
}

// MongoServiceOrderCollection implements ServiceOrderCollection for
// MongoDB.
type MongoServiceOrderCollection struct {
	Collection *mongo.Collection
}

// InsertServiceOrder inserts an order and returns it with its new ID.
func (c *MongoServiceOrderCollection) InsertServiceOrder(ctx context.Context, o models.ServiceOrder) (*models.ServiceOrder, error) {
	if c.Collection == nil {
		return nil, ErrNilStorage
	}
	now := time.Now().UTC()
	o.ID = primitive.NewObjectID()
	o.CreatedAt = now
	o.UpdatedAt = now
	if _, err := c.Collection.InsertOne(ctx, o); err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

// serviceOrderQuery builds the Mongo filter for f. ok is false when the
// customer id is malformed and nothing can match.
func serviceOrderQuery(f ServiceOrderFilter) (query bson.M, ok bool) {
	query = bson.M{}
	if f.CustomerID != "" {
		oid, err := primitive.ObjectIDFromHex(f.CustomerID)
		if err != nil {
			return nil, false
		}
		query["customer_id"] = oid
	}
	if f.Status != "" {
		query["status"] = f.Status
	}
	if f.OrderType != "" {
		query["order_type"] = f.OrderType
	}
	return query, true
}

// FindServiceOrders lists orders, newest first.
func (c *MongoServiceOrderCollection) FindServiceOrders(ctx context.Context, filter ServiceOrderFilter) ([]models.ServiceOrder, error) {
	query, ok := serviceOrderQuery(filter)
	if !ok {
		return []models.ServiceOrder{}, nil
	}
	opts := page(options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}), filter.Skip, filter.Limit)
	return findAll[models.ServiceOrder](ctx, c.Collection, query, opts)
}

// FindServiceOrderByID finds an order by its ID.
func (c *MongoServiceOrderCollection) FindServiceOrderByID(ctx context.Context, id string) (*models.ServiceOrder, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return findOne[models.ServiceOrder](ctx, c.Collection, bson.M{"_id": oid})
}

// UpdateServiceOrder replaces the stored order with the same ID.
func (c *MongoServiceOrderCollection) UpdateServiceOrder(ctx context.Context, o models.ServiceOrder) error {
	o.UpdatedAt = time.Now().UTC()
	return replaceByID(ctx, c.Collection, o.ID, o)
}

// MongoInquiryCollection implements InquiryCollection for MongoDB.
type MongoInquiryCollection struct {
	Collection *mongo.Collection
}

// InsertInquiry inserts an inquiry and returns it with its new ID.
func (c *MongoInquiryCollection) InsertInquiry(ctx context.Context, q models.Inquiry) (*models.Inquiry, error) {
	if c.Collection == nil {
		return nil, ErrNilStorage
	}
	q.ID = primitive.NewObjectID()
	q.CreatedAt = time.Now().UTC()
	if _, err := c.Collection.InsertOne(ctx, q); err != nil {
		return nil, translate(err)
	}
	return &q, nil
}

// FindInquiries lists inquiries, newest first.
func (c *MongoInquiryCollection) FindInquiries(ctx context.Context, filter InquiryFilter) ([]models.Inquiry, error) {
	query := bson.M{}
	if filter.Resolved != nil {
		query["is_resolved"] = *filter.Resolved
	}
	opts := page(options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}), filter.Skip, filter.Limit)
	return findAll[models.Inquiry](ctx, c.Collection, query, opts)
}

// FindInquiryByID finds an inquiry by its ID.
func (c *MongoInquiryCollection) FindInquiryByID(ctx context.Context, id string) (*models.Inquiry, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return findOne[models.Inquiry](ctx, c.Collection, bson.M{"_id": oid})
}

// UpdateInquiry replaces the stored inquiry with the same ID.
func (c *MongoInquiryCollection) UpdateInquiry(ctx context.Context, q models.Inquiry) error {
	return replaceByID(ctx, c.Collection, q.ID, q)
}
