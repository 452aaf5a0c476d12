package metrics_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/productapi/pkg/metrics"
)

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(metrics.Middleware())
	r.Get("/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(metrics.RequestTotal.WithLabelValues(http.MethodGet, "/items/{id}", "418"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/abc", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/def", nil))
	after := testutil.ToFloat64(metrics.RequestTotal.WithLabelValues(http.MethodGet, "/items/{id}", "418"))

	assert.Equal(t, 2.0, after-before)
}

func TestRecordAuthFailure(t *testing.T) {
	before := testutil.ToFloat64(metrics.AuthFailures.WithLabelValues("missing"))
	metrics.RecordAuthFailure("missing")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.AuthFailures.WithLabelValues("missing"))-before)
}

func TestObserveStoreOperation(t *testing.T) {
	metrics.ObserveStoreOperation("products", "find", time.Now(), errors.New("boom"))

	count := testutil.CollectAndCount(metrics.StoreOperationDuration, "productapi_store_operation_duration_seconds")
	assert.GreaterOrEqual(t, count, 1)
}

func TestHandlerServesRegistry(t *testing.T) {
	rec := httptest.NewRecorder()
	metrics.Handler()(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "productapi_http_requests_in_flight")
}
