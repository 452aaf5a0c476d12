package response_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/productapi/pkg/apperr"
	"github.com/shashiranjanraj/productapi/pkg/response"
)

func TestFail(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"missing token", apperr.ErrMissingToken, http.StatusUnauthorized, `{"error":"Token is missing"}`},
		{"unauthorized", apperr.ErrUnauthorized, http.StatusUnauthorized, `{"error":"Unauthorized"}`},
		{"not found", fmt.Errorf("wrapped: %w", apperr.NewNotFound("Product not found")), http.StatusNotFound, `{"message":"Product not found"}`},
		{"validation", apperr.NewValidation("bad"), http.StatusBadRequest, `{"error":"bad"}`},
		{"store", apperr.NewStore(errors.New("connection reset")), http.StatusInternalServerError, `{"error":"connection reset"}`},
		{"plain", errors.New("boom"), http.StatusInternalServerError, `{"error":"boom"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			response.Fail(rec, tc.err)

			assert.Equal(t, tc.wantCode, rec.Code)
			assert.JSONEq(t, tc.wantBody, rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestData(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Data(rec, http.StatusCreated, []string{})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"data":[]}`, rec.Body.String())
}
