package kernel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/productapi/app/repositories/repotest"
	"github.com/shashiranjanraj/productapi/pkg/auth"
	"github.com/shashiranjanraj/productapi/pkg/reqid"
	"github.com/shashiranjanraj/productapi/pkg/testkit"
)

const testSecret = "kernel-test-secret"

type harness struct {
	kernel   *HTTPKernel
	products *repotest.Products
	users    *repotest.Users
	tokens   *auth.TokenService
}

func newHarness(t *testing.T, denylist auth.Denylist) *harness {
	t.Helper()
	h := &harness{
		products: repotest.NewProducts(),
		users:    repotest.NewUsers(),
		tokens:   auth.NewTokenService(testSecret, time.Hour),
	}
	h.kernel = NewHTTPKernel(Dependencies{
		Products: h.products,
		Users:    h.users,
		Tokens:   h.tokens,
		Denylist: denylist,
	})
	return h
}

func (h *harness) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.kernel.Handler().ServeHTTP(rec, req)
	return rec
}

func TestScenarios(t *testing.T) {
	h := newHarness(t, nil)

	token, err := h.tokens.Issue(primitive.NewObjectID().Hex())
	require.NoError(t, err)
	foreign, err := auth.NewTokenService("some-other-secret", time.Hour).Issue("intruder")
	require.NoError(t, err)

	testkit.RunDir(t, h.kernel.Handler(), "testdata",
		testkit.WithVars(map[string]string{
			"TOKEN":         token,
			"FOREIGN_TOKEN": foreign,
			"UNKNOWN_ID":    primitive.NewObjectID().Hex(),
		}),
		testkit.BeforeEach(func(*testing.T) {
			h.products.Reset()
			h.users.Reset()
		}),
	)
}

func TestLogoutRevokesToken(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	h := newHarness(t, auth.NewRedisDenylist(rdb, "revoked:"))

	rec := h.do(http.MethodPost, "/api/user/register", "", `{"email":"jane@example.com","password":"password1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = h.do(http.MethodPost, "/api/user/login", "", `{"email":"jane@example.com","password":"password1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))

	rec = h.do(http.MethodGet, "/api/user/me", login.Token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(http.MethodPost, "/api/user/logout", login.Token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Logged out successfully"}`, rec.Body.String())
	assert.Len(t, mr.Keys(), 1)

	rec = h.do(http.MethodGet, "/api/user/me", login.Token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())

	rec = h.do(http.MethodPost, "/api/products/add", login.Token, `{"name":"a","category":"b","price":1,"stock":1}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// A fresh login still works.
	rec = h.do(http.MethodPost, "/api/user/login", "", `{"email":"jane@example.com","password":"password1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestEditAdvancesLatestUpdate(t *testing.T) {
	h := newHarness(t, nil)
	token, err := h.tokens.Issue("user-1")
	require.NoError(t, err)

	rec := h.do(http.MethodPost, "/api/products/add", token, `{"name":"Phone","category":"Tech","price":10,"stock":5}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	created, ok := h.products.FindByName("Phone")
	require.True(t, ok)
	assert.Equal(t, created.CreatedAt, created.LatestUpdate)

	for i := 0; i < 3; i++ {
		before, err := h.products.FindByID(context.Background(), created.ID.Hex())
		require.NoError(t, err)

		rec = h.do(http.MethodPut, "/api/products/edit/"+created.ID.Hex(), token, `{"stock":4}`)
		require.Equal(t, http.StatusOK, rec.Code)

		after, err := h.products.FindByID(context.Background(), created.ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, created.ID, after.ID)
		assert.Equal(t, created.CreatedAt, after.CreatedAt)
		assert.True(t, after.LatestUpdate.After(before.LatestUpdate))
	}
}

func TestRoutes(t *testing.T) {
	withoutLogout := newHarness(t, nil).kernel.Routes()
	names := map[string]bool{}
	for _, ri := range withoutLogout {
		names[ri.Name] = true
	}
	for _, want := range []string{
		"health", "metrics",
		"products.index", "products.show", "products.update", "products.store", "products.destroy",
		"user.register", "user.login", "user.me",
	} {
		assert.True(t, names[want], want)
	}
	assert.False(t, names["user.logout"])

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	withLogout := newHarness(t, auth.NewRedisDenylist(rdb, "revoked:")).kernel.Routes()
	assert.Len(t, withLogout, len(withoutLogout)+1)
}

func TestOperationalEndpoints(t *testing.T) {
	h := newHarness(t, nil)

	rec := h.do(http.MethodGet, "/api/products/getAll", "", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(reqid.Header))

	rec = h.do(http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `productapi_http_requests_total{method="GET",route="/api/products/getAll",status="201"}`)
}

func TestRequestIDIsEchoed(t *testing.T) {
	h := newHarness(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(reqid.Header, "trace-123")
	rec := httptest.NewRecorder()
	h.kernel.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "trace-123", rec.Header().Get(reqid.Header))
}

func TestCORSPreflight(t *testing.T) {
	h := newHarness(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/products/add", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
	rec := httptest.NewRecorder()
	h.kernel.Handler().ServeHTTP(rec, req)

	assert.Less(t, rec.Code, 300)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
