package seeders

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shashiranjanraj/productapi/app/models"
	"github.com/shashiranjanraj/productapi/app/repositories"
	"github.com/shashiranjanraj/productapi/app/services"
)

func init() {
	Register("products", SeedProducts)
}

// SampleProducts is the catalogue inserted into an empty collection.
var SampleProducts = []models.Product{
	{Name: "Product 1", Category: "Category 1", Price: 10.5, Stock: 100},
	{Name: "Product 2", Category: "Category 2", Price: 20, Stock: 200},
	{Name: "Wireless Mouse", Category: "Electronics", Price: 24.99, Stock: 150},
	{Name: "Standing Desk", Category: "Furniture", Price: 349, Stock: 12},
}

// SeedProducts inserts SampleProducts unless the collection already holds
// documents.
func SeedProducts(ctx context.Context, db *mongo.Database) error {
	n, err := db.Collection(models.ProductCollection).CountDocuments(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if n > 0 {
		return nil
	}

	svc := services.NewProductService(repositories.NewMongoProductRepository(db))
	for _, p := range SampleProducts {
		if _, err := svc.Create(ctx, p); err != nil {
			return fmt.Errorf("create %q: %w", p.Name, err)
		}
	}
	return nil
}
