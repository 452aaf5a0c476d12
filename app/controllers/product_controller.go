package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/productapi/app/requests"
	"github.com/shashiranjanraj/productapi/app/services"
	"github.com/shashiranjanraj/productapi/pkg/ctx"
)

const (
	msgMissingProductFields = "Missing required fields. Please provide name, category, price, and stock."
	msgProductCreated       = "Product has been created successfully"
	msgProductUpdated       = "Product has been updated successfully"
	msgProductDeleted       = "Product has been deleted successfully"
)

type ProductController struct {
	products *services.ProductService
}

func NewProductController(products *services.ProductService) *ProductController {
	return &ProductController{products: products}
}

// List responds 201 with every product. Existing clients depend on the 201.
func (pc *ProductController) List(c *ctx.Context) {
	products, err := pc.products.List(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Data(http.StatusCreated, products)
}

func (pc *ProductController) View(c *ctx.Context) {
	product, err := pc.products.Get(c.Context(), c.Param("id"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Data(http.StatusOK, product)
}

func (pc *ProductController) Create(c *ctx.Context) {
	var req requests.CreateProduct
	if err := c.BindAndValidate(&req, msgMissingProductFields); err != nil {
		c.Fail(err)
		return
	}

	if _, err := pc.products.Create(c.Context(), req.Product()); err != nil {
		c.Fail(err)
		return
	}
	c.Message(http.StatusCreated, msgProductCreated)
}

// Edit resolves the product before reading the body, so an unknown id is a
// 404 whatever the body holds.
func (pc *ProductController) Edit(c *ctx.Context) {
	product, err := pc.products.Get(c.Context(), c.Param("id"))
	if err != nil {
		c.Fail(err)
		return
	}

	var req requests.UpdateProduct
	if err := c.Bind(&req); err != nil {
		c.Fail(err)
		return
	}

	if _, err := pc.products.Apply(c.Context(), product, req.Changes()); err != nil {
		c.Fail(err)
		return
	}
	c.Message(http.StatusOK, msgProductUpdated)
}

func (pc *ProductController) Remove(c *ctx.Context) {
	if err := pc.products.Delete(c.Context(), c.Param("id")); err != nil {
		c.Fail(err)
		return
	}
	c.Message(http.StatusOK, msgProductDeleted)
}
