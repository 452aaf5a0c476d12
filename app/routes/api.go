package routes

import (
	"github.com/shashiranjanraj/productapi/app/controllers"
	"github.com/shashiranjanraj/productapi/pkg/ctx"
	"github.com/shashiranjanraj/productapi/pkg/router"
)

// API holds what the route table needs.
type API struct {
	Products *controllers.ProductController
	Users    *controllers.UserController
	// Auth guards mutating and user-scoped routes.
	Auth router.Middleware
	// Logout is registered only when tokens can be revoked.
	Logout bool
}

func RegisterAPI(r *router.Router, api API) {
	products := r.Group("/api/products")
	products.Get("/getAll", "products.index", ctx.Wrap(api.Products.List))
	products.Get("/viewProduct/{id}", "products.show", ctx.Wrap(api.Products.View))
	products.Put("/edit/{id}", "products.update", ctx.Wrap(api.Products.Edit), api.Auth)
	products.Post("/add", "products.store", ctx.Wrap(api.Products.Create), api.Auth)
	products.Delete("/remove/{id}", "products.destroy", ctx.Wrap(api.Products.Remove), api.Auth)

	user := r.Group("/api/user")
	user.Post("/register", "user.register", ctx.Wrap(api.Users.Register))
	user.Post("/login", "user.login", ctx.Wrap(api.Users.Login))

	protected := user.Group("", api.Auth)
	protected.Get("/me", "user.me", ctx.Wrap(api.Users.Me))
	if api.Logout {
		protected.Post("/logout", "user.logout", ctx.Wrap(api.Users.Logout))
	}
}
