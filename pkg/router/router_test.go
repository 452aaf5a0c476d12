package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tag(name string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-Chain", name)
			next.ServeHTTP(w, r)
		})
	}
}

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(chi.URLParam(r, "id")))
}

func TestGroupRoutesAndNames(t *testing.T) {
	r := New()
	api := r.Group("/api/", tag("api"))
	products := api.Group("products")
	products.Get("/viewProduct/{id}", "products.show", ok, tag("route"))
	products.Delete("remove/{id}", "products.destroy", ok)

	require.Len(t, r.Routes(), 2)
	assert.Equal(t, RouteInfo{Method: http.MethodGet, Path: "/api/products/viewProduct/{id}", Name: "products.show"}, r.Routes()[1])

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/viewProduct/7", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "7", rec.Body.String())
	assert.Equal(t, []string{"api", "route"}, rec.Header().Values("X-Chain"))
}

func TestRoutesListing(t *testing.T) {
	r := New()
	g := r.Group("/api/products")
	g.Put("/edit/{id}", "products.update", ok)
	g.Post("/add", "products.store", ok)
	g.Delete("/edit/{id}", "", ok)
	r.Get("/health", "health", ok)

	assert.Equal(t, []RouteInfo{
		{Method: http.MethodPost, Path: "/api/products/add", Name: "products.store"},
		{Method: http.MethodDelete, Path: "/api/products/edit/{id}"},
		{Method: http.MethodPut, Path: "/api/products/edit/{id}", Name: "products.update"},
		{Method: http.MethodGet, Path: "/health", Name: "health"},
	}, r.Routes())
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	r := New()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusConflict) })
	r.Get("/only-get", "", ok)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)

	rec = httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/only-get", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
}
