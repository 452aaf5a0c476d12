package ctx_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/productapi/pkg/apperr"
	"github.com/shashiranjanraj/productapi/pkg/auth"
	appctx "github.com/shashiranjanraj/productapi/pkg/ctx"
)

func serve(req *http.Request, h appctx.HandlerFunc) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	appctx.Wrap(h)(rec, req)
	return rec
}

func TestDataAndMessage(t *testing.T) {
	tests := []struct {
		name   string
		handle appctx.HandlerFunc
		code   int
		body   string
	}{
		{"data", func(c *appctx.Context) { c.Data(http.StatusCreated, []int{1}) }, 201, `{"data":[1]}`},
		{"message", func(c *appctx.Context) { c.Message(http.StatusOK, "done") }, 200, `{"message":"done"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(httptest.NewRequest(http.MethodGet, "/", nil), tt.handle)
			assert.Equal(t, tt.code, rec.Code)
			assert.JSONEq(t, tt.body, rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestFail(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		body string
	}{
		{"not found", apperr.NewNotFound("Product not found"), 404, `{"message":"Product not found"}`},
		{"validation", apperr.NewValidation("bad input"), 400, `{"error":"bad input"}`},
		{"store", apperr.NewStore(errors.New("connection reset")), 500, `{"error":"connection reset"}`},
		{"unclassified", errors.New("boom"), 500, `{"error":"boom"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(httptest.NewRequest(http.MethodGet, "/", nil), func(c *appctx.Context) {
				c.Fail(tt.err)
			})
			assert.Equal(t, tt.code, rec.Code)
			assert.JSONEq(t, tt.body, rec.Body.String())
		})
	}
}

func TestParam(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/items/{id}", appctx.Wrap(func(c *appctx.Context) {
		c.Message(http.StatusOK, c.Param("id"))
	}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/abc", nil))
	assert.JSONEq(t, `{"message":"abc"}`, rec.Body.String())
}

func TestSubject(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	claims := &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u-1", ID: "j-1"}}
	req = req.WithContext(auth.WithClaims(req.Context(), claims))

	serve(req, func(c *appctx.Context) {
		assert.Equal(t, "u-1", c.Subject())
		got, ok := c.Claims()
		require.True(t, ok)
		assert.Equal(t, "j-1", got.ID)
	})
}

type input struct {
	Name  string `json:"name"  validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

func TestBindAndValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"valid", `{"name":"John","email":"john@example.com"}`, ""},
		{"invalid", `{"name":"","email":"nope"}`, "check the fields"},
		{"unknown field", `{"name":"John","email":"john@example.com","age":3}`, `unknown field "age"`},
		{"malformed", `{"name":`, "invalid JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			serve(req, func(c *appctx.Context) {
				var in input
				err := c.BindAndValidate(&in, "check the fields")
				if tt.wantErr == "" {
					require.NoError(t, err)
					assert.Equal(t, "John", in.Name)
					return
				}
				require.Error(t, err)
				assert.True(t, apperr.Is(err, apperr.Validation))
				assert.Contains(t, err.Error(), tt.wantErr)
			})
		})
	}
}
