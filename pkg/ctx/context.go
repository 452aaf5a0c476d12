// Package ctx provides the request context handed to every controller.
//
// Instead of accepting (http.ResponseWriter, *http.Request), a handler
// receives a single *Context with helpers for path parameters, body binding
// and the JSON response shapes used across the API:
//
//	func (pc *ProductController) View(c *ctx.Context) {
//	    product, err := pc.products.Get(c.Context(), c.Param("id"))
//	    if err != nil {
//	        c.Fail(err)
//	        return
//	    }
//	    c.Data(http.StatusOK, product)
//	}
//
//	// Register with ctx.Wrap:
//	products.Get("/viewProduct/{id}", "products.show", ctx.Wrap(pc.View))
package ctx

import (
	"context"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/productapi/pkg/apperr"
	"github.com/shashiranjanraj/productapi/pkg/auth"
	"github.com/shashiranjanraj/productapi/pkg/bind"
	"github.com/shashiranjanraj/productapi/pkg/logger"
	"github.com/shashiranjanraj/productapi/pkg/response"
	"github.com/shashiranjanraj/productapi/pkg/validate"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc so it can be
// passed to any router method.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// Context wraps a request/response pair.
type Context struct {
	W http.ResponseWriter
	R *http.Request
}

// pool recycles Context objects to reduce GC pressure.
var pool = sync.Pool{
	New: func() any { return &Context{} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// Param returns a URL path parameter (e.g. "/viewProduct/{id}" → c.Param("id")).
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// Context returns the underlying request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// Subject returns the authenticated user ID set by the auth middleware.
func (c *Context) Subject() string {
	return auth.SubjectFromCtx(c.R.Context())
}

// Claims returns the verified token claims, if any.
func (c *Context) Claims() (*auth.Claims, bool) {
	return auth.ClaimsFromCtx(c.R.Context())
}

// Bind decodes the JSON body into dest. It writes nothing; callers decide how
// a failure is reported.
func (c *Context) Bind(dest any) error {
	return bind.JSON(c.R, dest)
}

// BindAndValidate decodes the body and runs the struct's validate tags.
// Any failure is reported as a Validation error carrying message.
func (c *Context) BindAndValidate(dest any, message string) error {
	if err := c.Bind(dest); err != nil {
		return err
	}
	if errs := validate.Struct(dest); validate.HasErrors(errs) {
		logger.WithCtx(c.Context()).Debug("validation failed", "errors", errs)
		return apperr.NewValidation(message)
	}
	return nil
}

// JSON writes v with the given status code.
func (c *Context) JSON(code int, v any) {
	response.JSON(c.W, code, v)
}

// Data sends {"data": v}.
func (c *Context) Data(code int, v any) {
	response.Data(c.W, code, v)
}

// Message sends {"message": msg}.
func (c *Context) Message(code int, msg string) {
	response.Message(c.W, code, msg)
}

// Fail renders err through the error taxonomy. Server-side failures are
// logged with the request ID.
func (c *Context) Fail(err error) {
	if kind := apperr.KindOf(err); kind == apperr.Internal || kind == apperr.Store {
		logger.WithCtx(c.Context()).Error("request failed", "kind", kind.String(), "error", err)
	}
	response.Fail(c.W, err)
}
