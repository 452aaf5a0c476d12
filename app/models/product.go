package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductCollection is the MongoDB collection holding products.
const ProductCollection = "products"

// Product represents a product in the catalogue.
type Product struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"  json:"_id"`
	Name         string             `bson:"name"           json:"name"`
	Category     string             `bson:"category"       json:"category"`
	Price        float64            `bson:"price"          json:"price"`
	Stock        int                `bson:"stock"          json:"stock"`
	CreatedAt    time.Time          `bson:"created_at"     json:"created_at"`
	LatestUpdate time.Time          `bson:"latest_update"  json:"latest_update"`
}

// ProductChanges lists the fields an update may overwrite. Nil fields keep
// their stored value.
type ProductChanges struct {
	Name     *string
	Category *string
	Price    *float64
	Stock    *int
}

// Apply copies every non-nil change onto p.
func (c ProductChanges) Apply(p *Product) {
	if c.Name != nil {
		p.Name = *c.Name
	}
	if c.Category != nil {
		p.Category = *c.Category
	}
	if c.Price != nil {
		p.Price = *c.Price
	}
	if c.Stock != nil {
		p.Stock = *c.Stock
	}
}
