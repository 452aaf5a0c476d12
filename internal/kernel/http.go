// Package kernel assembles the HTTP handler: the global middleware stack,
// the operational endpoints and the API route table.
package kernel

import (
	"net/http"

	"github.com/shashiranjanraj/productapi/app/controllers"
	"github.com/shashiranjanraj/productapi/app/repositories"
	"github.com/shashiranjanraj/productapi/app/routes"
	"github.com/shashiranjanraj/productapi/app/services"
	"github.com/shashiranjanraj/productapi/config"
	"github.com/shashiranjanraj/productapi/pkg/auth"
	"github.com/shashiranjanraj/productapi/pkg/metrics"
	"github.com/shashiranjanraj/productapi/pkg/middleware"
	"github.com/shashiranjanraj/productapi/pkg/reqid"
	"github.com/shashiranjanraj/productapi/pkg/response"
	"github.com/shashiranjanraj/productapi/pkg/router"
)

// Dependencies are opened by the caller and outlive the kernel.
type Dependencies struct {
	Products repositories.ProductRepository
	Users    repositories.UserRepository
	Tokens   *auth.TokenService
	// Denylist is optional. Without it tokens cannot be revoked and
	// /api/user/logout is not routed.
	Denylist auth.Denylist
}

type HTTPKernel struct {
	router *router.Router
}

func NewHTTPKernel(deps Dependencies) *HTTPKernel {
	r := router.New()

	// Global middleware, outermost first: metrics sees total latency,
	// recovery wraps everything that can panic, the request id exists
	// before anything logs.
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(config.CORSAllowedOrigins()))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Handle(http.MethodGet, "/metrics", "metrics", metrics.Handler())
	r.Get("/health", "health", func(w http.ResponseWriter, _ *http.Request) {
		response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	authService := services.NewAuthService(deps.Users, deps.Tokens, deps.Denylist)
	routes.RegisterAPI(r, routes.API{
		Products: controllers.NewProductController(services.NewProductService(deps.Products)),
		Users:    controllers.NewUserController(authService),
		Auth:     middleware.Auth(deps.Tokens, deps.Denylist),
		Logout:   authService.SupportsLogout(),
	})

	return &HTTPKernel{router: r}
}

func (k *HTTPKernel) Handler() http.Handler {
	return k.router.Handler()
}

// Routes lists every registered endpoint.
func (k *HTTPKernel) Routes() []router.RouteInfo {
	return k.router.Routes()
}
