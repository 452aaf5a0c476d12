// Package requests holds the typed request bodies accepted by the API.
package requests

import (
	"encoding/json"

	"github.com/shashiranjanraj/productapi/app/models"
)

// ServerManaged lists product fields clients may echo back but never set.
// They are decoded so strict decoding accepts them, then ignored.
type ServerManaged struct {
	ID           json.RawMessage `json:"_id,omitempty"`
	CreatedAt    json.RawMessage `json:"created_at,omitempty"`
	LatestUpdate json.RawMessage `json:"latest_update,omitempty"`
}

// CreateProduct is the body of POST /api/products/add.
type CreateProduct struct {
	Name     string  `json:"name"     validate:"required"`
	Category string  `json:"category" validate:"required"`
	Price    float64 `json:"price"    validate:"required"`
	Stock    int     `json:"stock"    validate:"required"`
	ServerManaged
}

// Product converts the request into a new, unsaved product.
func (r CreateProduct) Product() models.Product {
	return models.Product{
		Name:     r.Name,
		Category: r.Category,
		Price:    r.Price,
		Stock:    r.Stock,
	}
}

// UpdateProduct is the body of PUT /api/products/edit/{id}. Omitted fields
// keep their stored values.
type UpdateProduct struct {
	Name     *string  `json:"name"`
	Category *string  `json:"category"`
	Price    *float64 `json:"price"`
	Stock    *int     `json:"stock"`
	ServerManaged
}

// Changes returns the fields present in the request.
func (r UpdateProduct) Changes() models.ProductChanges {
	return models.ProductChanges{
		Name:     r.Name,
		Category: r.Category,
		Price:    r.Price,
		Stock:    r.Stock,
	}
}
