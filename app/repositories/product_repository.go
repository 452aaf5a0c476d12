// Package repositories maps the domain models onto MongoDB collections.
//
// Every method takes the request context so a client disconnect cancels the
// in-flight store call. Driver failures are returned as apperr.Store errors;
// missing records as apperr.NotFound.
package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shashiranjanraj/productapi/app/models"
	"github.com/shashiranjanraj/productapi/pkg/apperr"
	"github.com/shashiranjanraj/productapi/pkg/metrics"
)

// ErrProductNotFound is returned for unknown or malformed product IDs.
var ErrProductNotFound = apperr.NewNotFound("Product not found")

// ProductRepository persists products.
type ProductRepository interface {
	All(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id string) (models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product models.Product) error
	Delete(ctx context.Context, id string) error
}

// MongoProductRepository is the MongoDB-backed ProductRepository.
type MongoProductRepository struct {
	col *mongo.Collection
}

func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{col: db.Collection(models.ProductCollection)}
}

// All returns every product in the collection's natural order.
func (r *MongoProductRepository) All(ctx context.Context) (products []models.Product, err error) {
	defer observe(models.ProductCollection, "find", time.Now(), &err)

	cur, err := r.col.Find(ctx, bson.D{})
	if err != nil {
		return nil, apperr.NewStore(err)
	}

	products = make([]models.Product, 0)
	if err = cur.All(ctx, &products); err != nil {
		return nil, apperr.NewStore(err)
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

func (r *MongoProductRepository) FindByID(ctx context.Context, id string) (product models.Product, err error) {
	oid, ok := parseID(id)
	if !ok {
		return models.Product{}, ErrProductNotFound
	}

	defer observe(models.ProductCollection, "find_one", time.Now(), &err)

	err = r.col.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, apperr.NewStore(err)
	}
	return product, nil
}

// Create inserts product and sets its store-assigned ID.
func (r *MongoProductRepository) Create(ctx context.Context, product *models.Product) (err error) {
	defer observe(models.ProductCollection, "insert", time.Now(), &err)

	product.ID = primitive.NilObjectID
	res, err := r.col.InsertOne(ctx, product)
	if err != nil {
		return apperr.NewStore(err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		product.ID = oid
	}
	return nil
}

// Update writes the mutable fields of product with $set. The ID and
// created_at are never written.
func (r *MongoProductRepository) Update(ctx context.Context, product models.Product) (err error) {
	defer observe(models.ProductCollection, "update", time.Now(), &err)

	res, err := r.col.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: product.ID}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "name", Value: product.Name},
			{Key: "category", Value: product.Category},
			{Key: "price", Value: product.Price},
			{Key: "stock", Value: product.Stock},
			{Key: "latest_update", Value: product.LatestUpdate},
		}}},
	)
	if err != nil {
		return apperr.NewStore(err)
	}
	if res.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *MongoProductRepository) Delete(ctx context.Context, id string) (err error) {
	oid, ok := parseID(id)
	if !ok {
		return ErrProductNotFound
	}

	defer observe(models.ProductCollection, "delete", time.Now(), &err)

	res, err := r.col.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return apperr.NewStore(err)
	}
	if res.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

func parseID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	return oid, err == nil
}

// observe records the store call. Not-found is an expected outcome, not a
// store failure.
func observe(collection, operation string, start time.Time, errp *error) {
	err := *errp
	if apperr.Is(err, apperr.NotFound) {
		err = nil
	}
	metrics.ObserveStoreOperation(collection, operation, start, err)
}
