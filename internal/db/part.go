package db

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/ukydev/marine-pms/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PartFilter narrows part queries. Search matches name, part number or
// turbo model, case-insensitively.
type PartFilter struct {
	Brand    string
	Category string
	Search   string
	Skip     int
	Limit    int
}

// InventoryFilter narrows stock queries.
type InventoryFilter struct {
	Warehouse    string
	LowStockOnly bool
	Skip         int
	Limit        int
}

// PartCollection defines the interface for the parts catalogue. Part
// numbers are unique.
type PartCollection interface {
	InsertPart(ctx context.Context, part models.Part) (*models.Part, error)
	FindParts(ctx context.Context, filter PartFilter) ([]models.Part, error)
	FindPartByID(ctx context.Context, id string) (*models.Part, error)
	FindPartsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Part, error)
	UpdatePart(ctx context.Context, part models.Part) error
	DeletePart(ctx context.Context, id string) error
	PartBrands(ctx context.Context) ([]string, error)
	PartCategories(ctx context.Context) ([]string, error)
}

// InventoryCollection defines the interface for stock records. Each part
// has at most one.
type InventoryCollection interface {
	InsertInventory(ctx context.Context, item models.InventoryItem) (*models.InventoryItem, error)
	FindInventory(ctx context.Context, filter InventoryFilter) ([]models.InventoryItem, error)
	FindInventoryByID(ctx context.Context, id string) (*models.InventoryItem, error)
	FindInventoryByParts(ctx context.Context, partIDs []primitive.ObjectID) ([]models.InventoryItem, error)
	UpdateInventory(ctx context.Context, item models.InventoryItem) error
	AdjustQuantity(ctx context.Context, id string, delta int) (*models.InventoryItem, error)
	DeleteInventoryByPart(ctx context.Context, partID primitive.ObjectID) error
}

// ErrInsufficientStock is returned when an adjustment would take a
// quantity below zero.
var ErrInsufficientStock = fmt.Errorf("%w: insufficient stock", ErrInvalidInput)

// MongoPartCollection implements PartCollection for MongoDB.
type MongoPartCollection struct {
	Collection *mongo.Collection
}

// InsertPart inserts a part and returns it with its new ID.
func (c *MongoPartCollection) InsertPart(ctx context.Context, part models.Part) (*models.Part, error) {
	if c.Collection == nil {
		return nil, ErrNilStorage
	}
	now := time.Now().UTC()
	part.ID = primitive.NewObjectID()
	part.CreatedAt = now
	part.UpdatedAt = now
	if _, err := c.Collection.InsertOne(ctx, part); err != nil {
		return nil, translate(err)
	}
	return &part, nil
}

// containsFold matches values containing s, ignoring case.
func containsFold(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func partQuery(f PartFilter) bson.M {
	query := bson.M{}
	if f.Brand != "" {
		query["brand"] = f.Brand
	}
	if f.Category != "" {
		query["category"] = f.Category
	}
	if f.Search != "" {
		re := containsFold(f.Search)
		query["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"part_number": re},
			bson.M{"turbo_model": re},
		}
	}
	return query
}

// page applies skip/limit to opts. A zero limit means no limit.
func page(opts *options.FindOptions, skip, limit int) *options.FindOptions {
	if skip > 0 {
		opts.SetSkip(int64(skip))
	}
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return opts
}

// FindParts lists parts ordered by part number.
func (c *MongoPartCollection) FindParts(ctx context.Context, filter PartFilter) ([]models.Part, error) {
	opts := page(options.Find().SetSort(bson.D{{Key: "part_number", Value: 1}}), filter.Skip, filter.Limit)
	return findAll[models.Part](ctx, c.Collection, partQuery(filter), opts)
}

// FindPartByID finds a part by its ID.
func (c *MongoPartCollection) FindPartByID(ctx context.Context, id string) (*models.Part, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return findOne[models.Part](ctx, c.Collection, bson.M{"_id": oid})
}

// FindPartsByIDs loads the parts with the given IDs in no particular order.
func (c *MongoPartCollection) FindPartsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Part, error) {
	if len(ids) == 0 {
		return []models.Part{}, nil
	}
	return findAll[models.Part](ctx, c.Collection, bson.M{"_id": bson.M{"$in": ids}})
}

// UpdatePart replaces the stored part with the same ID.
func (c *MongoPartCollection) UpdatePart(ctx context.Context, part models.Part) error {
	part.UpdatedAt = time.Now().UTC()
	return replaceByID(ctx, c.Collection, part.ID, part)
}

// DeletePart removes a part.
func (c *MongoPartCollection) DeletePart(ctx context.Context, id string) error {
	return deleteByID(ctx, c.Collection, id)
}

// PartBrands lists the distinct brands in the catalogue.
func (c *MongoPartCollection) PartBrands(ctx context.Context) ([]string, error) {
	return distinctStrings(ctx, c.Collection, "brand")
}

// PartCategories lists the distinct categories in the catalogue.
func (c *MongoPartCollection) PartCategories(ctx context.Context) ([]string, error) {
	return distinctStrings(ctx, c.Collection, "category")
}

// MongoInventoryCollection implements InventoryCollection for MongoDB.
type MongoInventoryCollection struct {
	Collection *mongo.Collection
}

// InsertInventory inserts a stock record and returns it with its new ID.
func (c *MongoInventoryCollection) InsertInventory(ctx context.Context, item models.InventoryItem) (*models.InventoryItem, error) {
	if c.Collection == nil {
		return nil, ErrNilStorage
	}
	item.ID = primitive.NewObjectID()
	item.LastUpdated = time.Now().UTC()
	if _, err := c.Collection.InsertOne(ctx, item); err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

// lowStock matches records whose quantity is at or below their minimum.
var lowStock = bson.M{"$expr": bson.M{"$lte": bson.A{"$quantity", "$min_quantity"}}}

func inventoryQuery(f InventoryFilter) bson.M {
	query := bson.M{}
	if f.Warehouse != "" {
		query["warehouse"] = f.Warehouse
	}
	if f.LowStockOnly {
		for k, v := range lowStock {
			query[k] = v
		}
	}
	return query
}

// FindInventory lists stock records, lowest quantity first.
func (c *MongoInventoryCollection) FindInventory(ctx context.Context, filter InventoryFilter) ([]models.InventoryItem, error) {
	opts := page(options.Find().SetSort(bson.D{{Key: "quantity", Value: 1}, {Key: "_id", Value: 1}}), filter.Skip, filter.Limit)
	return findAll[models.InventoryItem](ctx, c.Collection, inventoryQuery(filter), opts)
}

// FindInventoryByID finds a stock record by its ID.
func (c *MongoInventoryCollection) FindInventoryByID(ctx context.Context, id string) (*models.InventoryItem, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return findOne[models.InventoryItem](ctx, c.Collection, bson.M{"_id": oid})
}

// FindInventoryByParts loads the stock records of the given parts.
func (c *MongoInventoryCollection) FindInventoryByParts(ctx context.Context, partIDs []primitive.ObjectID) ([]models.InventoryItem, error) {
	if len(partIDs) == 0 {
		return []models.InventoryItem{}, nil
	}
	return findAll[models.InventoryItem](ctx, c.Collection, bson.M{"part_id": bson.M{"$in": partIDs}})
}

// UpdateInventory replaces the stored record with the same ID.
func (c *MongoInventoryCollection) UpdateInventory(ctx context.Context, item models.InventoryItem) error {
	item.LastUpdated = time.Now().UTC()
	return replaceByID(ctx, c.Collection, item.ID, item)
}

// AdjustQuantity adds delta to a record's quantity in one atomic update and
// returns the new state. Adjustments that would go below zero fail with
// ErrInsufficientStock and change nothing.
func (c *MongoInventoryCollection) AdjustQuantity(ctx context.Context, id string, delta int) (*models.InventoryItem, error) {
	if c.Collection == nil {
		return nil, ErrNilStorage
	}
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	filter := bson.M{"_id": oid}
	if delta < 0 {
		filter["quantity"] = bson.M{"$gte": -delta}
	}
	update := bson.M{
		"$inc": bson.M{"quantity": delta},
		"$set": bson.M{"last_updated": time.Now().UTC()},
	}
	var item models.InventoryItem
	err = c.Collection.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if _, ferr := c.FindInventoryByID(ctx, id); ferr != nil {
			return nil, ferr
		}
		return nil, ErrInsufficientStock
	}
	if err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

// DeleteInventoryByPart removes the stock record of a part, if any.
func (c *MongoInventoryCollection) DeleteInventoryByPart(ctx context.Context, partID primitive.ObjectID) error {
	if c.Collection == nil {
		return ErrNilStorage
	}
	_, err := c.Collection.DeleteMany(ctx, bson.M{"part_id": partID})
	return err
}
